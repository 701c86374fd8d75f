package contract

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/huangsam/deeptime/core/deeptime"
	"github.com/huangsam/deeptime/core/spatial"
	"github.com/huangsam/deeptime/schema"
	"golang.org/x/text/language"
)

// Default values for configuration.
const (
	DefaultWidth     = 1200.0
	DefaultMaxTicks  = 8
	MaxTicksLimit    = 100
	DefaultPrecision = 1
	MaxPrecision     = 6
	DefaultStart     = "13.8 billion years ago"
	DefaultEnd       = "now"
	DefaultLocale    = "en"
	DefaultDebounce  = 200 * time.Millisecond
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a timeline view.
// This struct remains the "final, validated" config.
type Config struct {
	Width     float64
	Start     deeptime.Time
	End       deeptime.Time
	Reference deeptime.Time
	MaxTicks  int

	Filter    schema.EventFilter
	Declutter spatial.Options

	Output        schema.OutputMode
	OutputFile    string
	Precision     int // decimals for pixel positions
	UseColors     bool
	Locale        language.Tag
	TerminalWidth int // Terminal width override (0 = auto-detect)

	EventsPath      string
	EventsBackend   schema.DatabaseBackend
	EventsDBConnect string // Please use env var as this is plaintext

	Debounce time.Duration // quiet period before the watcher reloads
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Viewport ---
	Width     float64 `mapstructure:"width"`
	Start     string  `mapstructure:"start"`
	End       string  `mapstructure:"end"`
	Reference string  `mapstructure:"reference"`
	MaxTicks  int     `mapstructure:"max-ticks"`

	// --- Filtering and declutter ---
	Categories      string  `mapstructure:"categories"`
	MinSignificance int     `mapstructure:"min-significance"`
	TextScale       float64 `mapstructure:"text-scale"`
	CollisionWidth  float64 `mapstructure:"collision-width"`
	MaxCluster      int     `mapstructure:"max-cluster"`
	PushStep        float64 `mapstructure:"push-step"`
	LeftMargin      float64 `mapstructure:"left-margin"`

	// --- Output ---
	Output        string `mapstructure:"output"`
	OutputFile    string `mapstructure:"output-file"`
	Precision     int    `mapstructure:"precision"`
	Color         string `mapstructure:"color"`
	Locale        string `mapstructure:"locale"`
	TerminalWidth int    `mapstructure:"terminal-width"`

	// --- Event sources ---
	Events          string `mapstructure:"events"`
	EventsBackend   string `mapstructure:"events-backend"`
	EventsDBConnect string `mapstructure:"events-db-connect"`

	// --- Fields from watchCmd.Flags() ---
	Debounce string `mapstructure:"debounce"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Filter.Categories != nil {
		clone.Filter.Categories = make([]string, len(c.Filter.Categories))
		copy(clone.Filter.Categories, c.Filter.Categories)
	}
	return &clone
}

// CloneWithWindow creates a copy of the Config with new endpoints.
func (c *Config) CloneWithWindow(start, end deeptime.Time) *Config {
	clone := c.Clone()
	clone.Start = start
	clone.End = end
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := processFilter(cfg, input); err != nil {
		return err
	}
	if err := processDeclutter(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("events-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("events-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// validateBackendConfigs validates the event store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := input.EventsBackend
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.EventsBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidEventBackends[cfg.EventsBackend]; !ok {
		return fmt.Errorf("invalid events backend '%s'. must be sqlite, mysql, postgresql, none", input.EventsBackend)
	}
	cfg.EventsDBConnect = input.EventsDBConnect
	return ValidateDatabaseConnectionString(cfg.EventsBackend, cfg.EventsDBConnect)
}

// validateSimpleInputs processes and validates all non-time related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.EventsPath = strings.TrimSpace(input.Events)

	// --- 1. Width Validation ---
	if !(input.Width > 0) || math.IsInf(input.Width, 0) {
		return fmt.Errorf("width must be a positive number of pixels (received %v)", input.Width)
	}
	cfg.Width = input.Width

	// --- 2. Ticks Validation ---
	if input.MaxTicks <= 0 || input.MaxTicks > MaxTicksLimit {
		return fmt.Errorf("max-ticks must be greater than 0 and cannot exceed %d (received %d)", MaxTicksLimit, input.MaxTicks)
	}
	cfg.MaxTicks = input.MaxTicks

	// --- 3. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.TerminalWidth < 0 {
		return fmt.Errorf("terminal-width cannot be negative (received %d)", input.TerminalWidth)
	}
	cfg.TerminalWidth = input.TerminalWidth

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 4. Locale Validation ---
	locale := input.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("invalid locale '%s': %w", input.Locale, err)
	}
	cfg.Locale = tag

	// --- 5. Watcher Debounce ---
	cfg.Debounce = DefaultDebounce
	if input.Debounce != "" {
		d, err := time.ParseDuration(input.Debounce)
		if err != nil {
			return fmt.Errorf("invalid debounce '%s': %w", input.Debounce, err)
		}
		if d < 0 {
			return fmt.Errorf("debounce cannot be negative (received %s)", input.Debounce)
		}
		cfg.Debounce = d
	}

	return nil
}

// processTimeRange parses the viewport endpoints and the reference instant.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	cfg.Reference = deeptime.Now()
	if input.Reference != "" {
		t, err := deeptime.Parse(input.Reference)
		if err != nil {
			return fmt.Errorf("invalid reference '%s': %w", input.Reference, err)
		}
		cfg.Reference = t
	}

	start := input.Start
	if start == "" {
		start = DefaultStart
	}
	t, err := deeptime.Parse(start)
	if err != nil {
		return fmt.Errorf("invalid start '%s'. Expected a year, an era ('1000 BC'), ISO8601 or 'N [units] ago': %w", start, err)
	}
	cfg.Start = t

	end := input.End
	if end == "" {
		end = DefaultEnd
	}
	if t, err = deeptime.Parse(end); err != nil {
		return fmt.Errorf("invalid end '%s'. Expected a year, an era ('1000 BC'), ISO8601 or 'N [units] ago': %w", end, err)
	}
	cfg.End = t

	if cfg.Start.After(cfg.End) {
		return fmt.Errorf("start (%s) cannot be after end (%s)", cfg.Start, cfg.End)
	}
	return nil
}

// processFilter converts the category list and significance floor.
func processFilter(cfg *Config, input *ConfigRawInput) error {
	if input.MinSignificance < schema.MinSignificance || input.MinSignificance > schema.MaxSignificance {
		return fmt.Errorf("min-significance must be between %d and %d (received %d)",
			schema.MinSignificance, schema.MaxSignificance, input.MinSignificance)
	}
	cfg.Filter = schema.EventFilter{MinSignificance: input.MinSignificance}

	for p := range strings.SplitSeq(input.Categories, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cfg.Filter.Categories = append(cfg.Filter.Categories, trimmed)
		}
	}
	return nil
}

// processDeclutter validates the label collision settings.
func processDeclutter(cfg *Config, input *ConfigRawInput) error {
	if !(input.TextScale > 0) || math.IsInf(input.TextScale, 0) {
		return fmt.Errorf("text-scale must be greater than 0 (received %v)", input.TextScale)
	}
	if !(input.CollisionWidth > 0) || math.IsInf(input.CollisionWidth, 0) {
		return fmt.Errorf("collision-width must be greater than 0 (received %v)", input.CollisionWidth)
	}
	if input.MaxCluster < 0 {
		return fmt.Errorf("max-cluster cannot be negative (received %d)", input.MaxCluster)
	}
	if input.PushStep < 0 || input.LeftMargin < 0 {
		return fmt.Errorf("push-step and left-margin cannot be negative (received %v, %v)", input.PushStep, input.LeftMargin)
	}
	cfg.Declutter = spatial.Options{
		CollisionWidth: input.CollisionWidth,
		TextScale:      input.TextScale,
		MaxClusterSize: input.MaxCluster,
		LeftMargin:     input.LeftMargin,
		PushStep:       input.PushStep,
	}
	return nil
}
