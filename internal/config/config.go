// Package config loads thirdparty settings.
//
// Settings come from, in increasing precedence: built-in defaults, the
// project's thirdparty.yaml (or an explicit --config file), THIRDPARTY_*
// environment variables, and command-line flags. Relative paths are resolved
// against the project directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/danieljhkim/thirdparty/internal/compliance"
	"github.com/danieljhkim/thirdparty/internal/fsops"
	"github.com/danieljhkim/thirdparty/internal/identity"
	"github.com/danieljhkim/thirdparty/internal/inventory"
	"github.com/danieljhkim/thirdparty/internal/reactor"
	"github.com/danieljhkim/thirdparty/internal/report"
	"github.com/danieljhkim/thirdparty/internal/selection"
)

const (
	// FileName is the project config file looked up in the project directory.
	FileName = "thirdparty.yaml"

	// EnvPrefix prefixes environment overrides, e.g. THIRDPARTY_FAILONMISSING.
	EnvPrefix = "THIRDPARTY"

	DefaultSelectionFile      = "src/license/override-THIRD-PARTY.properties"
	DefaultMissingFile        = "src/license/THIRD-PARTY.properties"
	DefaultOutputDirectory    = "target/generated-sources/license"
	DefaultThirdPartyFilename = "THIRD-PARTY.txt"
	DefaultEncoding           = "UTF-8"
)

// ErrInvalidConfig indicates a setting failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// deprecatedKeys maps old key names to their replacement.
var deprecatedKeys = map[string]string{
	"aggregateMissingLicensesFile": "missingFile",
	"overrideFile":                 "selectionFile",
}

// flagKeys maps config keys to the CLI flags that override them.
var flagKeys = map[string]string{
	"manifest":              "manifest",
	"selectionFile":         "selection-file",
	"missingFile":           "missing-file",
	"outputDirectory":       "output-dir",
	"thirdPartyFilename":    "filename",
	"format":                "format",
	"encoding":              "encoding",
	"includeAggregator":     "include-aggregator",
	"excludedPackagings":    "excluded-packagings",
	"licenseMerges":         "license-merges",
	"includedLicenses":      "included-licenses",
	"excludedLicenses":      "excluded-licenses",
	"failOnMissing":         "fail-on-missing",
	"failOnBlacklist":       "fail-on-blacklist",
	"unknownLicenseMessage": "unknown-license",
	"groupByLicense":        "group-by-license",
	"force":                 "force",
	"skip":                  "skip",
	"verbose":               "verbose",
	"metricsFile":           "metrics-file",
	"toolName":              "tool",
}

// Config holds every setting of an aggregation run.
type Config struct {
	// ProjectDir is the directory relative paths are resolved against
	ProjectDir string `mapstructure:"-"`

	// Source is the config file that was read, empty when none
	Source string `mapstructure:"-"`

	// Deprecations lists deprecated keys found while loading
	Deprecations []string `mapstructure:"-"`

	Manifest           string `mapstructure:"manifest"`
	SelectionFile      string `mapstructure:"selectionFile"`
	MissingFile        string `mapstructure:"missingFile"`
	OutputDirectory    string `mapstructure:"outputDirectory"`
	ThirdPartyFilename string `mapstructure:"thirdPartyFilename"`
	Format             string `mapstructure:"format"`
	Encoding           string `mapstructure:"encoding"`

	IncludeAggregator  bool     `mapstructure:"includeAggregator"`
	ExcludedPackagings []string `mapstructure:"excludedPackagings"`
	LicenseMerges      []string `mapstructure:"licenseMerges"`
	IncludedLicenses   []string `mapstructure:"includedLicenses"`
	ExcludedLicenses   []string `mapstructure:"excludedLicenses"`

	FailOnMissing         bool   `mapstructure:"failOnMissing"`
	FailOnBlacklist       bool   `mapstructure:"failOnBlacklist"`
	UnknownLicenseMessage string `mapstructure:"unknownLicenseMessage"`
	GroupByLicense        bool   `mapstructure:"groupByLicense"`

	Force       bool   `mapstructure:"force"`
	Skip        bool   `mapstructure:"skip"`
	Verbose     bool   `mapstructure:"verbose"`
	MetricsFile string `mapstructure:"metricsFile"`
	ToolName    string `mapstructure:"toolName"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Manifest:              reactor.DefaultManifest,
		SelectionFile:         DefaultSelectionFile,
		MissingFile:           DefaultMissingFile,
		OutputDirectory:       DefaultOutputDirectory,
		ThirdPartyFilename:    DefaultThirdPartyFilename,
		Format:                string(report.FormatText),
		Encoding:              DefaultEncoding,
		ExcludedPackagings:    []string{"pom"},
		UnknownLicenseMessage: compliance.DefaultUnknownLicense,
		ToolName:              reactor.DefaultToolName,
	}
}

// LoadOptions controls where settings are read from.
type LoadOptions struct {
	// ProjectDir defaults to the nearest directory, from the current one
	// upwards, holding a config file or build manifest
	ProjectDir string

	// ConfigFile is an explicit config file; it must exist
	ConfigFile string

	// Flags are bound over file and environment values when changed
	Flags *pflag.FlagSet
}

// Load reads and validates the configuration.
func Load(opts LoadOptions) (*Config, error) {
	projectDir := opts.ProjectDir
	if projectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		projectDir = cwd
		if root, err := Discover(cwd); err == nil {
			projectDir = root
		}
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	source, err := readConfigFile(v, projectDir, opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		for key, name := range flagKeys {
			if flag := opts.Flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	deprecations, err := applyDeprecated(v)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ProjectDir = projectDir
	cfg.Source = source
	cfg.Deprecations = deprecations

	if cfg.ThirdPartyFilename == DefaultThirdPartyFilename {
		if format, err := report.ParseFormat(cfg.Format); err == nil {
			cfg.ThirdPartyFilename = strings.TrimSuffix(DefaultThirdPartyFilename, ".txt") + format.Extension()
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("manifest", d.Manifest)
	v.SetDefault("selectionFile", d.SelectionFile)
	v.SetDefault("missingFile", d.MissingFile)
	v.SetDefault("outputDirectory", d.OutputDirectory)
	v.SetDefault("thirdPartyFilename", d.ThirdPartyFilename)
	v.SetDefault("format", d.Format)
	v.SetDefault("encoding", d.Encoding)
	v.SetDefault("includeAggregator", d.IncludeAggregator)
	v.SetDefault("excludedPackagings", d.ExcludedPackagings)
	v.SetDefault("licenseMerges", d.LicenseMerges)
	v.SetDefault("includedLicenses", d.IncludedLicenses)
	v.SetDefault("excludedLicenses", d.ExcludedLicenses)
	v.SetDefault("failOnMissing", d.FailOnMissing)
	v.SetDefault("failOnBlacklist", d.FailOnBlacklist)
	v.SetDefault("unknownLicenseMessage", d.UnknownLicenseMessage)
	v.SetDefault("groupByLicense", d.GroupByLicense)
	v.SetDefault("force", d.Force)
	v.SetDefault("skip", d.Skip)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("metricsFile", d.MetricsFile)
	v.SetDefault("toolName", d.ToolName)
}

// readConfigFile merges the explicit or project config file into v and
// returns its path. A missing project file is not an error.
func readConfigFile(v *viper.Viper, projectDir, explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = filepath.Join(projectDir, FileName)
		if _, err := os.Stat(path); err != nil {
			return "", nil
		}
	} else if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("config file not found: %s", path)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return path, nil
}

// applyDeprecated copies values of deprecated keys to their replacement
// unless the replacement is set in the config file as well.
func applyDeprecated(v *viper.Viper) ([]string, error) {
	var notes []string
	for old, key := range deprecatedKeys {
		if !v.IsSet(old) {
			continue
		}
		notes = append(notes, fmt.Sprintf("%s is deprecated, use %s instead", old, key))
		if v.InConfig(key) {
			continue
		}
		if err := v.MergeConfigMap(map[string]any{key: v.Get(old)}); err != nil {
			return nil, fmt.Errorf("failed to apply deprecated key %s: %w", old, err)
		}
	}
	return notes, nil
}

// Validate checks settings that cannot be expressed as defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Manifest) == "" {
		return fmt.Errorf("%w: manifest must not be empty", ErrInvalidConfig)
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := selection.Encoding(c.Encoding); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := fsops.NewRealFS().ValidateRelPath(c.ThirdPartyFilename); err != nil {
		return fmt.Errorf("%w: thirdPartyFilename: %v", ErrInvalidConfig, err)
	}
	if _, err := inventory.ParseMergeRules(c.LicenseMerges); err != nil {
		return fmt.Errorf("%w: licenseMerges: %v", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(c.UnknownLicenseMessage) == "" {
		return fmt.Errorf("%w: unknownLicenseMessage must not be empty", ErrInvalidConfig)
	}
	if parts := strings.Split(c.ToolName, identity.Separator); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: toolName %q must be groupId:artifactId", ErrInvalidConfig, c.ToolName)
	}
	return nil
}

// Path resolves p against the project directory. URLs and absolute paths are kept.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}

// ReportPath is the location of the third-party report.
func (c *Config) ReportPath() string {
	return filepath.Join(c.Path(c.OutputDirectory), c.ThirdPartyFilename)
}
