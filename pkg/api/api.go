// Package api is the bundler "post"/"build"-phase plugin adapter spec.md
// §6 calls for: a thin wrapper around internal/minify.Minify that filters
// emitted chunks by filename against an include/exclude regex pair.
// Grounded on the teacher's pkg/api plugin surface shape (api.go's
// Plugin/OnLoad-style options-to-callback wiring), scaled down to this
// module's single transform hook (see DESIGN.md).
package api

import (
	"context"
	"regexp"

	"github.com/mahdisbetter/niu/internal/minify"
	"github.com/mahdisbetter/niu/internal/niulog"
)

// defaultInclude is spec.md §6's stated default: `/\.[cm]?js$/`.
var defaultInclude = regexp.MustCompile(`\.[cm]?js$`)

// PluginOptions configures the plugin adapter. Include/Exclude default to
// spec.md §6's "include /\.[cm]?js$/, exclude empty" when left nil.
type PluginOptions struct {
	Include *regexp.Regexp
	Exclude *regexp.Regexp
	Minify  minify.Options
	Log     *niulog.Logger
}

// Plugin is the minimal shape a bundler's plugin host needs: one method
// that inspects a candidate file and, if it matches, returns transformed
// contents.
type Plugin struct {
	opts PluginOptions
}

// NewPlugin builds a Plugin from opts, applying the spec.md §6 defaults
// for any unset Include/Exclude.
func NewPlugin(opts PluginOptions) *Plugin {
	if opts.Include == nil {
		opts.Include = defaultInclude
	}
	return &Plugin{opts: opts}
}

// Name matches the convention bundler plugin hosts use to identify a
// registered plugin in diagnostics and duplicate-registration checks.
func (p *Plugin) Name() string { return "niu-minify" }

// ShouldTransform reports whether filename matches this plugin's
// include/exclude pair.
func (p *Plugin) ShouldTransform(filename string) bool {
	if !p.opts.Include.MatchString(filename) {
		return false
	}
	if p.opts.Exclude != nil && p.opts.Exclude.MatchString(filename) {
		return false
	}
	return true
}

// Transform runs the minify pipeline over contents if filename matches;
// otherwise it returns contents unchanged. A bundler plugin host is
// expected to call ShouldTransform itself as a fast filter and only invoke
// Transform for chunks it already knows it wants processed, but Transform
// re-checks so it is safe to call unconditionally too.
func (p *Plugin) Transform(ctx context.Context, filename string, contents string) (string, error) {
	if !p.ShouldTransform(filename) {
		return contents, nil
	}
	result, err := minify.Minify(ctx, contents, p.opts.Minify, p.opts.Log)
	if err != nil {
		return "", err
	}
	return result.Code, nil
}
