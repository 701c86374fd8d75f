// Package cmd defines the command-line interface for deeptime.
package cmd

import (
	"github.com/huangsam/deeptime/core/spatial"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(ticksCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(pixelCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(eventsCmd)

	// Add the events subcommands to the parent events command
	eventsCmd.AddCommand(eventsImportCmd)
	eventsCmd.AddCommand(eventsStatusCmd)
	eventsCmd.AddCommand(eventsClearCmd)
	eventsCmd.AddCommand(eventsMigrateCmd)
	eventsCmd.AddCommand(eventsExportCmd)
	eventsCmd.AddCommand(eventsResetCmd)

	declutter := spatial.DefaultOptions()

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Float64("width", contract.DefaultWidth, "Viewport width in pixels")
	rootCmd.PersistentFlags().String("start", contract.DefaultStart, "Left edge: year, era year, ISO8601, 'now' or 'N units ago'")
	rootCmd.PersistentFlags().String("end", contract.DefaultEnd, "Right edge: year, era year, ISO8601, 'now' or 'N units ago'")
	rootCmd.PersistentFlags().String("reference", "", "The 'now' instant distances are measured from (defaults to the current time)")
	rootCmd.PersistentFlags().Int("max-ticks", contract.DefaultMaxTicks, "Upper bound on the number of axis ticks")
	rootCmd.PersistentFlags().String("categories", "", "Comma-separated categories; events matching any of them are shown")
	rootCmd.PersistentFlags().Int("min-significance", schema.MinSignificance, "Minimum event significance (1-10)")
	rootCmd.PersistentFlags().Float64("text-scale", declutter.TextScale, "Label scale factor for collision detection")
	rootCmd.PersistentFlags().Float64("collision-width", declutter.CollisionWidth, "Labels closer than this many pixels collide")
	rootCmd.PersistentFlags().Int("max-cluster", declutter.MaxClusterSize, "Largest cluster that is pushed apart")
	rootCmd.PersistentFlags().Float64("push-step", declutter.PushStep, "Vertical offset per rank in a tight cluster")
	rootCmd.PersistentFlags().Float64("left-margin", declutter.LeftMargin, "Free space required left of a cluster")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for pixel positions")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("locale", contract.DefaultLocale, "BCP 47 locale for formatted dates")
	rootCmd.PersistentFlags().Int("terminal-width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("events", "", "Events file (.yaml, .yml, .json or .csv)")
	rootCmd.PersistentFlags().String("events-backend", string(schema.NoneBackend), "Event store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("events-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of watchCmd to Viper
	watchCmd.Flags().String("debounce", contract.DefaultDebounce.String(), "Quiet period before a changed events file is reloaded")
	if err := viper.BindPFlags(watchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding watch flags", err)
	}

	// Bind all flags of eventsMigrateCmd to Viper
	eventsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(eventsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding events migrate flags", err)
	}
}
