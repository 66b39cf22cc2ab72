// Command niu is the CLI entry point: read a file (or stdin), run the
// minify pipeline, write the result to stdout (or a file). Grounded on the
// teacher's cmd/esbuild/main.go flag→options→run shape, rebuilt on cobra
// per SPEC_FULL.md §2.4 (the flag-parsing library cue-lang-cue and
// dphaener-conduit both build their CLIs on — see DESIGN.md).
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mahdisbetter/niu/internal/minify"
	"github.com/mahdisbetter/niu/internal/niuconfig"
	"github.com/mahdisbetter/niu/internal/niulog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		outPath string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "niu [file]",
		Short: "Post-process JS/TS/JSX minifier",
		Long: "niu hoists repeated globals and literals, mangles identifiers, " +
			"and optionally rewrites const to let, by byte-cost profit rather " +
			"than general-purpose minification heuristics.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := niuconfig.Load(cmd.Flags())
			if err != nil {
				return err
			}
			cfg.Verbose = cfg.Verbose || verbose
			opts, err := cfg.ToMinifyOptions()
			if err != nil {
				return err
			}

			source, err := readInput(args)
			if err != nil {
				return err
			}

			log := niulog.New(cfg.Verbose)
			defer log.Sync()

			result, err := minify.Minify(context.Background(), source, opts, log)
			if err != nil {
				return fmt.Errorf("niu: %w", err)
			}
			return writeOutput(outPath, result.Code)
		},
	}

	cmd.Flags().Bool("hoist-globals", false, "enable global hoisting (spec.md §4.2)")
	cmd.Flags().Bool("hoist-duplicate-literals", false, "enable duplicate-literal hoisting with split-packing (spec.md §4.3)")
	cmd.Flags().Bool("consts-to-lets", false, "rewrite const declarations to let after mangling (spec.md §4.5)")
	cmd.Flags().String("dialect", "tsx", "input dialect: js, ts, or tsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level pass diagnostics")

	return cmd
}

func readInput(args []string) (string, error) {
	if len(args) == 1 {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("niu: reading %s: %w", args[0], err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("niu: reading stdin: %w", err)
	}
	return string(b), nil
}

func writeOutput(path string, code string) error {
	if path == "" {
		_, err := fmt.Println(code)
		return err
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return fmt.Errorf("niu: writing %s: %w", path, err)
	}
	return nil
}
