// Package minify orchestrates the full pipeline spec.md §6 describes:
// pre-pass (if configured) → parse → globals (if enabled) → literals (if
// enabled) → print → re-parse → mangle (always) → const→let (if enabled) →
// compact print. Grounded on the teacher's api_impl.go option-threading
// shape, scaled down to this module's much smaller pipeline (see
// DESIGN.md).
package minify

import (
	"context"
	"strings"

	"github.com/mahdisbetter/niu/internal/constlet"
	"github.com/mahdisbetter/niu/internal/hoist"
	"github.com/mahdisbetter/niu/internal/js_printer"
	"github.com/mahdisbetter/niu/internal/mangle"
	"github.com/mahdisbetter/niu/internal/niulog"
	"github.com/mahdisbetter/niu/internal/scope"
	"github.com/mahdisbetter/niu/internal/tsparse"
	"go.uber.org/zap"
)

// TerserOptions is the opaque pre-pass configuration spec.md §6 calls
// "terserOptions" — this module never inspects its contents, only whether
// it is present, and hands it to whatever ExternalMinifier the caller
// wired in.
type TerserOptions map[string]interface{}

// ExternalMinifier is the pre-pass hook: an opaque general-purpose
// minifier invoked before this module's own passes, exactly as spec.md §6
// and §7 describe it ("if the external pre-pass throws or returns no code,
// the original input is used; the pipeline continues"). Nil is a valid,
// and the common, value — it means no pre-pass is configured.
type ExternalMinifier func(ctx context.Context, code string, opts TerserOptions) (string, error)

// Options mirrors spec.md §6's enumerated option set exactly.
type Options struct {
	TerserOptions          TerserOptions
	ExternalMinifier       ExternalMinifier
	HoistGlobals           bool
	HoistDuplicateLiterals bool
	ConstsToLets           bool
	Dialect                tsparse.Dialect
}

// Result is the pipeline's return value, spec.md §6's `{ code }`.
type Result struct {
	Code string
}

// Minify runs the full pipeline over sourceCode.
func Minify(ctx context.Context, sourceCode string, opts Options, log *niulog.Logger) (Result, error) {
	code := sourceCode
	if opts.ExternalMinifier != nil && opts.TerserOptions != nil {
		out, err := opts.ExternalMinifier(ctx, code, opts.TerserOptions)
		if err != nil || out == "" {
			if log != nil {
				reason := "no code returned"
				if err != nil {
					reason = err.Error()
				}
				log.Warn("external pre-pass skipped", zap.String("reason", reason))
			}
		} else {
			code = out
		}
	}

	program, err := tsparse.Parse(ctx, []byte(code), opts.Dialect)
	if err != nil {
		if log != nil {
			if pe, ok := err.(*tsparse.ParseError); ok {
				log.ParseError(niulog.Location{Line: pe.Line, Column: pe.Column, Text: pe.Text}, pe.Error())
			}
		}
		return Result{}, err
	}

	changed := false
	if opts.HoistGlobals {
		if hoist.Global(program) {
			changed = true
			if log != nil {
				log.PassDecision("hoist-globals", "hoisted one or more globals")
			}
		}
	}
	if opts.HoistDuplicateLiterals {
		if hoist.Literal(program) {
			changed = true
			if log != nil {
				log.PassDecision("hoist-literals", "hoisted one or more duplicate literals")
			}
		}
	}

	// spec.md §9's print-then-reparse device: mangling needs placeholder
	// declarations to be genuine bindings with real scope.Binding records,
	// which only a fresh parse of freshly-printed source guarantees.
	if changed {
		printed := js_printer.Print(program)
		program, err = tsparse.Parse(ctx, []byte(printed), opts.Dialect)
		if err != nil {
			return Result{}, err
		}
	}

	root := scope.Analyze(program)
	mangle.Mangle(program, root)

	if opts.ConstsToLets {
		constlet.Rewrite(program)
	}

	out := js_printer.Print(program)
	if strings.Contains(out, "__niu_") {
		// Invariant violation (spec.md §7's "placeholder name collision"):
		// a programmer error in a hoist or mangle pass, not a user error.
		panic("minify: placeholder leaked into output")
	}
	return Result{Code: out}, nil
}

