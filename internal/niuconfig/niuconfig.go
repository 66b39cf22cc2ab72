// Package niuconfig loads pipeline Options from flags, environment, and an
// optional config file, grounded on the teacher's config.Options struct
// shape but rebuilt on viper (SPEC_FULL.md §2.3) per dphaener-conduit's use
// of the same library for layered configuration (see DESIGN.md).
package niuconfig

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mahdisbetter/niu/internal/minify"
	"github.com/mahdisbetter/niu/internal/tsparse"
)

// FileConfig is the on-disk / environment-sourced shape viper populates.
// It mirrors minify.Options minus the two fields (ExternalMinifier,
// TerserOptions) that only make sense as in-process values, never
// serialized ones, plus Verbose, which only the CLI's logger reads.
type FileConfig struct {
	HoistGlobals           bool   `mapstructure:"hoist_globals"`
	HoistDuplicateLiterals bool   `mapstructure:"hoist_duplicate_literals"`
	ConstsToLets           bool   `mapstructure:"consts_to_lets"`
	Dialect                string `mapstructure:"dialect"`
	Verbose                bool   `mapstructure:"verbose"`
}

// Load builds a *viper.Viper bound to flags, an NIU_-prefixed environment
// namespace, and (if present) a niu.yaml/niu.json/niu.toml config file
// discovered in the working directory — the same flags > env > file >
// default precedence the teacher's own config layer documents.
func Load(flags *pflag.FlagSet) (FileConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("NIU")
	v.AutomaticEnv()

	v.SetDefault("hoist_globals", false)
	v.SetDefault("hoist_duplicate_literals", false)
	v.SetDefault("consts_to_lets", false)
	v.SetDefault("dialect", "tsx")
	v.SetDefault("verbose", false)

	v.SetConfigName("niu")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return FileConfig{}, fmt.Errorf("niuconfig: reading config file: %w", err)
		}
	}

	if flags != nil {
		// BindPFlags alone would key each flag under its literal
		// dash-separated name ("hoist-globals"), which never matches the
		// underscore mapstructure tags above; bind each flag to the
		// matching config key explicitly instead.
		binds := map[string]string{
			"hoist_globals":            "hoist-globals",
			"hoist_duplicate_literals": "hoist-duplicate-literals",
			"consts_to_lets":           "consts-to-lets",
			"dialect":                  "dialect",
			"verbose":                  "verbose",
		}
		for key, flagName := range binds {
			if flag := flags.Lookup(flagName); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return FileConfig{}, fmt.Errorf("niuconfig: binding flag %s: %w", flagName, err)
				}
			}
		}
	}

	var cfg FileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("niuconfig: unmarshaling config: %w", err)
	}
	return cfg, nil
}

// ToMinifyOptions translates the serializable config into the in-process
// minify.Options the pipeline actually runs with.
func (c FileConfig) ToMinifyOptions() (minify.Options, error) {
	dialect, err := parseDialect(c.Dialect)
	if err != nil {
		return minify.Options{}, err
	}
	return minify.Options{
		HoistGlobals:           c.HoistGlobals,
		HoistDuplicateLiterals: c.HoistDuplicateLiterals,
		ConstsToLets:           c.ConstsToLets,
		Dialect:                dialect,
	}, nil
}

func parseDialect(s string) (tsparse.Dialect, error) {
	switch s {
	case "", "tsx":
		return tsparse.DialectTSX, nil
	case "ts":
		return tsparse.DialectTS, nil
	case "js":
		return tsparse.DialectJS, nil
	default:
		return 0, fmt.Errorf("niuconfig: unknown dialect %q (want js, ts, or tsx)", s)
	}
}
