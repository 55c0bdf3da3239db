package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of every environment variable the classifier reads.
const EnvPrefix = "HALAL_"

// AppConfig holds the settings for one classification run.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Input is the materials CSV to label.
	Input string `koanf:"input" validate:"required"`

	// Output is where the labeled CSV is written unless DryRun is set.
	Output string `koanf:"output" validate:"required"`

	// Rules is the rules file (JSON with comments, YAML or TOML).
	Rules string `koanf:"rules" validate:"required"`

	NameColumn   string `koanf:"name_column" validate:"required"`
	StatusColumn string `koanf:"status_column" validate:"required,nefield=NameColumn"`
	ReasonColumn string `koanf:"reason_column" validate:"required,nefield=NameColumn,nefield=StatusColumn"`

	// CacheSize bounds the decision cache; 0 disables it.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`

	// Overwrite reclassifies rows that already carry a status.
	Overwrite bool `koanf:"overwrite"`

	// DryRun reports the summary without writing the output file.
	DryRun bool `koanf:"dry_run"`
}

// DEFAULT_APP_CONFIG defines the defaults applied before environment and flags.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:          "prod",
	LogLevel:     "info",
	Input:        "data/materials_df.csv",
	Output:       "data/materials_df_labeled.csv",
	Rules:        "config/halal_rules.json",
	NameColumn:   "material_name",
	StatusColumn: "halal_status",
	ReasonColumn: "reason",
	CacheSize:    4096,
	Overwrite:    false,
	DryRun:       false,
}

// AddFlags registers one flag per setting, with defaults from
// DEFAULT_APP_CONFIG. Flag names are the koanf keys with dashes.
func AddFlags(flags *pflag.FlagSet) {
	d := DEFAULT_APP_CONFIG
	flags.String("input", d.Input, "Input CSV path")
	flags.String("output", d.Output, "Output CSV path")
	flags.String("rules", d.Rules, "Rules file path (.json, .yaml, .toml)")
	flags.Bool("overwrite", d.Overwrite, "Overwrite existing halal_status values")
	flags.Bool("dry-run", d.DryRun, "Run without writing output")
	flags.String("name-column", d.NameColumn, "Column holding the material name")
	flags.String("status-column", d.StatusColumn, "Column receiving the halal status")
	flags.String("reason-column", d.ReasonColumn, "Column receiving the match reason")
	flags.Int("cache-size", d.CacheSize, "Decision cache entries, 0 disables caching")
	flags.String("env", d.Env, "Runtime environment, one of: dev, prod")
	flags.String("log-level", d.LogLevel, "Log level, one of: debug, info, warn, error")
}

// flagKey converts a flag name into its koanf key, e.g. "dry-run" -> "dry_run".
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// dotenvLoader reads a .env file from the working directory if one exists.
// Variables already set in the environment win.
var dotenvLoader = func() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// envLoader loads environment variables with the prefix "HALAL_".
// It lowercases the keys and removes the prefix, and can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG using the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// flagLoader overlays flags that were explicitly set on the command line.
// Unknown flags (help, completion) are ignored.
var flagLoader = func(k *koanf.Koanf, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	set := make(map[string]any)
	flags.Visit(func(f *pflag.Flag) {
		key := flagKey(f.Name)
		if k.Exists(key) {
			set[key] = f.Value.String()
		}
	})
	if len(set) == 0 {
		return nil
	}
	return k.Load(confmap.Provider(set, "."), nil)
}

// Load builds the AppConfig from defaults, .env, HALAL_* environment
// variables and changed flags, in increasing precedence, then validates it.
func Load(flags *pflag.FlagSet) (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = dotenvLoader()
	if err != nil {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	err = flagLoader(k, flags)
	if err != nil {
		return nil, fmt.Errorf("error loading flags: %w", err)
	}

	var cfg AppConfig

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
