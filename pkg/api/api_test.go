package api

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdisbetter/niu/internal/minify"
)

func TestNewPluginAppliesDefaultInclude(t *testing.T) {
	p := NewPlugin(PluginOptions{})
	assert.True(t, p.ShouldTransform("app.js"))
	assert.True(t, p.ShouldTransform("app.mjs"))
	assert.True(t, p.ShouldTransform("app.cjs"))
	assert.False(t, p.ShouldTransform("app.ts"))
	assert.False(t, p.ShouldTransform("app.css"))
}

func TestShouldTransformRespectsExclude(t *testing.T) {
	p := NewPlugin(PluginOptions{
		Exclude: regexp.MustCompile(`\.min\.js$`),
	})
	assert.True(t, p.ShouldTransform("app.js"))
	assert.False(t, p.ShouldTransform("app.min.js"))
}

func TestShouldTransformRespectsCustomInclude(t *testing.T) {
	p := NewPlugin(PluginOptions{
		Include: regexp.MustCompile(`\.jsx$`),
	})
	assert.False(t, p.ShouldTransform("app.js"))
	assert.True(t, p.ShouldTransform("app.jsx"))
}

func TestTransformSkipsNonMatchingFiles(t *testing.T) {
	p := NewPlugin(PluginOptions{})
	out, err := p.Transform(context.Background(), "styles.css", "body{color:red}")
	require.NoError(t, err)
	assert.Equal(t, "body{color:red}", out)
}

func TestTransformRunsMinifyOnMatchingFiles(t *testing.T) {
	p := NewPlugin(PluginOptions{Minify: minify.Options{ConstsToLets: true}})
	out, err := p.Transform(context.Background(), "app.js", "const x=1;console.log(x)")
	require.NoError(t, err)
	assert.NotContains(t, out, "const")
}

func TestPluginName(t *testing.T) {
	assert.Equal(t, "niu-minify", NewPlugin(PluginOptions{}).Name())
}
