package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/calwerks/librecur/recur"
	"github.com/calwerks/librecur/vevent"
	"github.com/emersion/go-ical"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	parseICS     bool
	parseSummary string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <phrase>",
	Short: "Parse an English schedule phrase into a recurrence record",
	Long: `Parse converts a phrase into a canonical RRULE text record, or a
single date when the phrase names exactly one day.

Example:
  librecur parse "every other tuesday at 3pm"
  librecur parse "3rd friday of may"
  librecur parse --ics --summary Standup "weekdays at 9:30am"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseICS, "ics", false, "emit an iCalendar VEVENT instead of the raw record")
	parseCmd.Flags().StringVar(&parseSummary, "summary", "", "SUMMARY for the emitted VEVENT (with --ics)")
}

func runParse(cmd *cobra.Command, args []string) error {
	phrase := strings.Join(args, " ")

	now, err := referenceTime()
	if err != nil {
		return err
	}
	p := recur.NewWithConfig(recur.Config{
		Now:          now,
		DaytimeStart: viper.GetInt("day-start"),
	})

	res, err := p.Parse(phrase)
	if err != nil || res == nil {
		return fmt.Errorf("phrase not recognized: %q", phrase)
	}

	if !res.IsRecurrence() {
		fmt.Println(res.Date.Format(time.RFC3339))
		return nil
	}
	if !parseICS {
		fmt.Println(res.Rule)
		return nil
	}

	start := now
	if start.IsZero() {
		start = time.Now().UTC()
	}
	ev, err := vevent.FromRecord(res.Rule, parseSummary, start)
	if err != nil {
		return fmt.Errorf("failed to build VEVENT: %w", err)
	}
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, "-//librecur//NONSGML v0.1//EN")
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Children = append(cal.Children, ev.Component)
	return ical.NewEncoder(os.Stdout).Encode(cal)
}
