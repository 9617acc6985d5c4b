package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/calwerks/librecur/recur"
	"github.com/spf13/cobra"
)

// formatCmd represents the format command
var formatCmd = &cobra.Command{
	Use:   "format [record]",
	Short: "Render a recurrence record back into an English phrase",
	Long: `Format is the inverse of parse: it turns a canonical record (or a
timestamp) into a phrase that parses back to an equivalent record. The
record is read from the argument, or from stdin when omitted.

Example:
  librecur format "RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=TU"
  librecur parse "every other tuesday" | librecur format`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	var input string
	if len(args) == 1 {
		input = args[0]
	} else {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		input = strings.TrimSpace(string(raw))
	}
	if input == "" {
		return fmt.Errorf("nothing to format")
	}

	now, err := referenceTime()
	if err != nil {
		return err
	}
	f := recur.NewFormatter(recur.Config{Now: now})
	fmt.Println(f.Format(input))
	return nil
}
