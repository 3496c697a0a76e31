// Command loom is the thinnest possible reference CLI for the loom
// templating engine (spec.md §1: "out of scope: host/CLI driver
// internals beyond a thin reference CLI"), built on Cobra the way
// opal-lang-opal/cli/main.go builds its command surface, rather than
// barn's cmd/barn/main.go bare flag.Parse() style — Cobra gives the
// execute/translate split a natural subcommand shape.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/loomtext/loom"
	"github.com/loomtext/loom/varenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "loom: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "loom",
		Short:         "Evaluate loom expressions and templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newExecuteCmd())
	root.AddCommand(newTranslateCmd())
	return root
}

func newExecuteCmd() *cobra.Command {
	var file string
	var vars []string
	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Evaluate a single expression and print its value",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(file)
			if err != nil {
				return err
			}
			env, err := envFromVars(vars)
			if err != nil {
				return err
			}
			answer, err := loom.Execute(source)
			if err != nil {
				return err
			}
			v, err := answer.Get(env)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.ToString())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read expression from this file instead of stdin")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "bind name=value in the environment (repeatable)")
	return cmd
}

func newTranslateCmd() *cobra.Command {
	var file string
	var vars []string
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Evaluate a template and print its output",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(file)
			if err != nil {
				return err
			}
			env, err := envFromVars(vars)
			if err != nil {
				return err
			}
			answer, err := loom.Translate(source)
			if err != nil {
				return err
			}
			v, err := answer.Get(env)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), v.ToString())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read template from this file instead of stdin")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "bind name=value in the environment (repeatable)")
	return cmd
}

// readSource reads from -file if given, otherwise stdin.
func readSource(file string) (string, error) {
	if file == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	return string(b), nil
}

// envFromVars builds a variable environment from "name=value" pairs.
// Values that parse as a number or as true/false bind typed; everything
// else binds as a string.
func envFromVars(vars []string) (*varenv.Environment, error) {
	env := varenv.New()
	for _, kv := range vars {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid -var %q, expected name=value", kv)
		}
		switch {
		case raw == "true":
			env.RegistBoolean(name, true)
		case raw == "false":
			env.RegistBoolean(name, false)
		default:
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				env.RegistNumber(name, n)
			} else {
				env.RegistString(name, raw)
			}
		}
	}
	return env, nil
}
