package niuconfig

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdisbetter/niu/internal/tsparse"
)

func TestLoadDefaultsWithNoFlagsOrConfigFile(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.False(t, cfg.HoistGlobals)
	assert.False(t, cfg.HoistDuplicateLiterals)
	assert.False(t, cfg.ConstsToLets)
	assert.Equal(t, "tsx", cfg.Dialect)
	assert.False(t, cfg.Verbose)
}

func TestLoadBindsFlags(t *testing.T) {
	flags := pflag.NewFlagSet("niu", pflag.ContinueOnError)
	flags.Bool("hoist-globals", false, "")
	flags.Bool("hoist-duplicate-literals", false, "")
	flags.Bool("consts-to-lets", false, "")
	flags.String("dialect", "tsx", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Set("hoist-globals", "true"))
	require.NoError(t, flags.Set("dialect", "js"))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.True(t, cfg.HoistGlobals)
	assert.Equal(t, "js", cfg.Dialect)
}

func TestToMinifyOptionsTranslatesDialect(t *testing.T) {
	cfg := FileConfig{HoistGlobals: true, ConstsToLets: true, Dialect: "ts"}
	opts, err := cfg.ToMinifyOptions()
	require.NoError(t, err)
	assert.True(t, opts.HoistGlobals)
	assert.True(t, opts.ConstsToLets)
	assert.Equal(t, tsparse.DialectTS, opts.Dialect)
}

func TestToMinifyOptionsRejectsUnknownDialect(t *testing.T) {
	cfg := FileConfig{Dialect: "coffeescript"}
	_, err := cfg.ToMinifyOptions()
	assert.Error(t, err)
}

func TestParseDialectDefaultsToTSX(t *testing.T) {
	d, err := parseDialect("")
	require.NoError(t, err)
	assert.Equal(t, tsparse.DialectTSX, d)
}
