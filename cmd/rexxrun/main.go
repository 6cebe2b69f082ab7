// Command rexxrun wires a settings.PackageDefaults, an
// activity.DefaultActivity and one of the built-in instruction trees
// together, runs it, and prints the trace output and final outcome.
// Grounded on the teacher's cmd/barn (flag parsing, dispatch, print)
// and on opal's Cobra-based CLI for the command/flag shape itself,
// since this core has no source file to take as an argument — only a
// name into the small registry of hand-built demos in demos.go.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/racketscience/oorexx-sub002/activation"
	"github.com/racketscience/oorexx-sub002/activity"
	"github.com/racketscience/oorexx-sub002/rxtrace"
	"github.com/racketscience/oorexx-sub002/settings"
)

func main() {
	var (
		configPath string
		traceOpt   string
		noColor    bool
	)

	rootCmd := &cobra.Command{
		Use:           "rexxrun [demo]",
		Short:         "Run a built-in execution-core demo program and print its trace",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			if len(args) == 0 {
				return listDemos(cmd)
			}
			return runDemo(cmd, args[0], configPath, traceOpt)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML file of package defaults (numeric digits/fuzz, trace, limits); a missing path falls back to the built-in defaults")
	rootCmd.Flags().StringVarP(&traceOpt, "trace", "t", "", "TRACE setting to force for this run (e.g. N, A, I, R, Off), overriding the config's trace setting")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("rexxrun: %v", err))
		os.Exit(1)
	}
}

func listDemos(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "available demos:")
	for _, d := range demos {
		fmt.Fprintf(out, "  %-8s %s\n", color.CyanString(d.name), d.description)
	}
	return nil
}

func runDemo(cmd *cobra.Command, name, configPath, traceOpt string) error {
	d, ok := findDemo(name)
	if !ok {
		return fmt.Errorf("no such demo %q (run rexxrun with no arguments to list them)", name)
	}

	defaults := settings.DefaultPackageDefaults()
	if configPath != "" {
		loaded, err := settings.LoadPackageDefaults(configPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			// A missing file is not an error at this layer: fall back to
			// the built-in defaults silently.
		} else {
			defaults = loaded
		}
	}
	if traceOpt != "" {
		defaults.Trace = traceOpt
	}

	host := activity.New(defaults)
	tracer := rxtrace.NewTracer(true, cmd.OutOrStdout())

	exec := d.build()
	act := activation.NewProgram(exec, host, defaults)
	act.Tracer = rxtrace.NewFormatter(tracer)
	act.Say = func(s string) { fmt.Fprintln(cmd.OutOrStdout(), s) }

	outcome, err := act.Run()

	out := cmd.OutOrStdout()
	switch {
	case err != nil:
		fmt.Fprintln(out, color.RedString("error: %v", err))
	case outcome.Uncaught != nil:
		fmt.Fprintln(out, color.RedString("uncaught condition %s: %s", outcome.Uncaught.Condition, outcome.Uncaught.Description))
	case outcome.Value != nil:
		fmt.Fprintln(out, color.GreenString("result: %s", outcome.Value.String()))
	default:
		fmt.Fprintln(out, color.GreenString("result: (no value)"))
	}
	return nil
}
