package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	refTime string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "librecur",
	Short: "Librecur - natural-language recurring schedules",
	Long: `Librecur converts English schedule phrases like "every other tuesday
at 3pm" into canonical RRULE text records, and renders records back into
phrases.

Phrases that name a single day ("3rd friday of may") resolve to a date
instead of a rule.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("librecur v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.librecur/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&refTime, "now", "", "reference time for ambiguous phrases (RFC 3339 or YYYY-MM-DD)")
	rootCmd.PersistentFlags().Int("day-start", 0, "first hour read as daytime; bare hours below it bias to the afternoon")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("now", rootCmd.PersistentFlags().Lookup("now"))
	_ = viper.BindPFlag("day-start", rootCmd.PersistentFlags().Lookup("day-start"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.librecur")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("LIBRECUR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}

	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
}

// referenceTime resolves the --now flag (or LIBRECUR_NOW / config key "now").
func referenceTime() (time.Time, error) {
	raw := viper.GetString("now")
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse reference time %q", raw)
}
