package recur

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase and trim", in: "  Every Other Tuesday  ", want: "every other tuesday"},
		{name: "punctuation stripped", in: "every day!", want: "every day"},
		{name: "comma before year dropped", in: "June 1, 2026", want: "june 1 2026"},
		{name: "oxford comma list", in: "Mondays, Wednesdays, and Fridays", want: "mondays and wednesdays and fridays"},
		{name: "plain comma becomes and", in: "mondays, fridays", want: "mondays and fridays"},
		{name: "long date comma dropped", in: "Tuesday, June 3", want: "tuesday june 3"},
		{name: "whitespace collapsed", in: "every   other\ttuesday", want: "every other tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}

func TestRewriteBeginEnd(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "end of", in: "end of the month", want: "last of the month"},
		{name: "beginning of", in: "beginning of every month", want: "first of every month"},
		{name: "start of", in: "start of every month", want: "first of every month"},
		{name: "at the end", in: "every month at the end", want: "every month on the last"},
		{name: "no idiom", in: "every other tuesday", want: "every other tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewriteBeginEnd(tt.in))
		})
	}
}
