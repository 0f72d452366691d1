package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edp1096/toy-tonestack/pkg/sweep"
	"github.com/edp1096/toy-tonestack/pkg/tonestack"
	"github.com/edp1096/toy-tonestack/pkg/value"
)

var parseKind string

var parseCmd = &cobra.Command{
	Use:   "parse [text]...",
	Short: "Parse component values (2k2, 4.7u, 220pF)",
	Long: `Parses each argument with the value grammar of a component kind and prints
the number and the cleaned-up text. Invalid text is reported, not fatal.

Example:
  tonestack parse --kind C 22n 2n2 .1u 470`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	axisDeviation float64
	axisStart     float64
	axisStop      float64
	axisMode      string
)

var axisCmd = &cobra.Command{
	Use:   "axis",
	Short: "Print the analysis frequencies of a sweep",
	RunE:  runAxis,
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the built-in circuits",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, kind := range tonestack.Kinds() {
			fmt.Fprintln(cmd.OutOrStdout(), kind)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseKind, "kind", "k", "value", "Value kind: R, C, L or value")

	defaults := sweep.Config{Deviation: 10, StartFreq: 10, StopFreq: 100000, Mode: sweep.Geometric}
	axisCmd.Flags().Float64Var(&axisDeviation, "deviation", defaults.Deviation, "Points per decade")
	axisCmd.Flags().Float64Var(&axisStart, "start", defaults.StartFreq, "Start frequency [Hz]")
	axisCmd.Flags().Float64Var(&axisStop, "stop", defaults.StopFreq, "Stop frequency [Hz]")
	axisCmd.Flags().StringVar(&axisMode, "mode", string(defaults.Mode), "geometric or arithmetic")
}

func runParse(cmd *cobra.Command, args []string) error {
	profile, err := value.ProfileFor(parseKind)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, text := range args {
		parsed, ok := profile.Parse(text)
		if !ok {
			fmt.Fprintf(out, "%-12s invalid: %s\n", text, strings.ReplaceAll(profile.Tip, "\n", " "))
			continue
		}
		fmt.Fprintf(out, "%-12s %-14g %s\n", text, parsed.Value, parsed.Formatted)
	}
	return nil
}

func runAxis(cmd *cobra.Command, args []string) error {
	mode, err := sweep.ParseMode(axisMode)
	if err != nil {
		return err
	}

	axis, err := sweep.Build(axisDeviation, axisStart, axisStop, mode)
	if err != nil {
		return err
	}

	logger.Debug("axis built", zap.Int("points", len(axis)), zap.String("mode", string(mode)))

	lines := make([]string, len(axis))
	for i, f := range axis {
		lines[i] = fmt.Sprintf("%g", f)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
	return nil
}
