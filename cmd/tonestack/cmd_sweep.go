package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edp1096/toy-tonestack/pkg/config"
	"github.com/edp1096/toy-tonestack/pkg/export"
	"github.com/edp1096/toy-tonestack/pkg/render"
	"github.com/edp1096/toy-tonestack/pkg/series"
	"github.com/edp1096/toy-tonestack/pkg/session"
	"github.com/edp1096/toy-tonestack/pkg/tonestack"
	"github.com/edp1096/toy-tonestack/pkg/transfer"
	"github.com/edp1096/toy-tonestack/pkg/util"
	"github.com/edp1096/toy-tonestack/pkg/value"
)

var (
	configPath string
	kindFlag   string
	setValues  map[string]string
	setPots    map[string]string
	compare    []string

	pngPath  string
	svgPath  string
	xlsxPath string
	csvPath  string
	tsv      bool
	quiet    bool

	probeFreq string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep a tone stack and print, plot or export the response",
	Long: `Computes the magnitude and phase response over the configured sweep.

Each --compare adds a snapshot series with other knob settings, so several
curves end up on the same plot.

Example:
  tonestack sweep --kind marshall --pot treble=8 --compare treble=2,bass=9 --png bode.png`,
	RunE: runSweep,
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Evaluate the response at a single frequency",
	Long: `Prints gain and phase at --freq. Netlist circuits also print every node
voltage and source current.`,
	RunE: runProbe,
}

func init() {
	for _, cmd := range []*cobra.Command{sweepCmd, probeCmd} {
		cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML study file")
		cmd.Flags().StringVarP(&kindFlag, "kind", "k", "", "Built-in circuit, overrides the config")
		cmd.Flags().StringToStringVar(&setValues, "set", nil, "Component values, R1=220k,C1=470p")
		cmd.Flags().StringToStringVar(&setPots, "pot", nil, "Knob rotations 0..10, treble=7,bass=3")
	}

	sweepCmd.Flags().StringArrayVar(&compare, "compare", nil, "Extra knob settings drawn as snapshots")
	sweepCmd.Flags().StringVar(&pngPath, "png", "", "Write Bode plots as PNG")
	sweepCmd.Flags().StringVar(&svgPath, "svg", "", "Write Bode plots as SVG")
	sweepCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write both tables to a workbook")
	sweepCmd.Flags().StringVar(&csvPath, "csv", "", "Write both tables as CSV")
	sweepCmd.Flags().BoolVar(&tsv, "tsv", false, "Tab separated instead of CSV")
	sweepCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the table")

	probeCmd.Flags().StringVarP(&probeFreq, "freq", "f", "1k", "Frequency [Hz]")
}

// loadConfig reads --config and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if kindFlag != "" {
		cfg.Circuit.Kind = kindFlag
		cfg.Circuit.Netlist = ""
	}
	if len(setValues) > 0 && cfg.Circuit.Values == nil {
		cfg.Circuit.Values = make(map[string]string, len(setValues))
	}
	for k, v := range setValues {
		cfg.Circuit.Values[k] = v
	}
	if err := applyPots(&cfg.Circuit, setPots); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !verbose {
		if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
			level.SetLevel(lvl)
		}
	}
	return cfg, nil
}

func applyPots(c *config.CircuitConfig, rotations map[string]string) error {
	if len(rotations) > 0 && c.Pots == nil {
		c.Pots = make(map[string]config.PotConfig, len(rotations))
	}
	for name, text := range rotations {
		r, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return fmt.Errorf("pot %s: invalid rotation %q", name, text)
		}
		p := c.Pots[name]
		p.Rotation = r
		c.Pots[name] = p
	}
	return nil
}

// parseCompare reads "treble=2,bass=9".
func parseCompare(text string) (map[string]string, error) {
	out := make(map[string]string)
	for _, part := range strings.Split(text, ",") {
		k, v, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --compare setting %q, want name=rotation", part)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, err := cfg.Source(logger)
	if err != nil {
		return err
	}
	defer src.Close()

	s, err := session.New(cfg.ResolveSweep(src), src.Response, logger)
	if err != nil {
		return err
	}
	if _, err := s.Recompute(); err != nil {
		return err
	}

	for _, setting := range compare {
		if cfg.Circuit.Netlist != "" {
			return fmt.Errorf("--compare needs a built-in circuit")
		}
		rotations, err := parseCompare(setting)
		if err != nil {
			return err
		}
		if err := applyPots(&cfg.Circuit, rotations); err != nil {
			return err
		}
		p, err := cfg.Circuit.Provider()
		if err != nil {
			return err
		}

		if _, err := s.AddSeries(); err != nil {
			return err
		}
		s.SetSource(tonestack.Response(p))
		if _, err := s.Recompute(); err != nil {
			return err
		}
	}

	mag, phase := s.Magnitude(), s.Phase()
	ext := s.Extent()
	logger.Info("sweep done",
		zap.Int("points", len(s.Axis())),
		zap.Int("series", mag.Series),
		zap.Float64("dbMin", ext.DBMin),
		zap.Float64("dbMax", ext.DBMax))

	if !quiet {
		printTable(cmd, src.Title, mag, phase)
	}

	return writeOutputs(cfg, src.Title, mag, phase)
}

func printTable(cmd *cobra.Command, title string, mag, phase series.View) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d points, %d series)\n", title, len(mag.Data), mag.Series)
	fmt.Fprintln(out, "Frequency    Magnitude / Phase per series")
	fmt.Fprintln(out, "-----------------------------------------------------------------------------")

	for j, row := range mag.Data {
		fmt.Fprintln(out, util.FormatRow(row[0], row[1:], phase.Data[j][1:]))
	}
}

func pick(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

func writeOutputs(cfg *config.Config, title string, mag, phase series.View) error {
	o := cfg.Output
	png := o.Path(pick(pngPath, o.PNG))
	svg := o.Path(pick(svgPath, o.SVG))
	xlsx := o.Path(pick(xlsxPath, o.XLSX))
	csv := o.Path(pick(csvPath, o.CSV))

	if png == "" && svg == "" && xlsx == "" && csv == "" {
		return nil
	}
	if o.Dir != "" {
		if err := os.MkdirAll(o.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for _, path := range []string{png, svg} {
		if path == "" {
			continue
		}
		if err := render.SaveBode(mag, phase, title, path); err != nil {
			return err
		}
		logger.Info("plot written", zap.String("path", path), zap.String("phase", render.PhasePath(path)))
	}

	if xlsx != "" {
		if err := export.WriteXLSX(xlsx, mag, phase); err != nil {
			return err
		}
		logger.Info("workbook written", zap.String("path", xlsx))
	}

	if csv != "" {
		if err := export.SaveCSV(csv, mag, tsv); err != nil {
			return err
		}
		if err := export.SaveCSV(render.PhasePath(csv), phase, tsv); err != nil {
			return err
		}
		logger.Info("tables written", zap.String("path", csv), zap.Bool("tsv", tsv))
	}
	return nil
}

// solver is implemented by netlist sources.
type solver interface {
	Solve(freq float64) (map[string]complex128, error)
}

func runProbe(cmd *cobra.Command, args []string) error {
	parsed, ok := value.Unitless.Parse(probeFreq)
	if !ok || !(parsed.Value > 0) {
		return fmt.Errorf("invalid frequency %q", probeFreq)
	}
	freq := parsed.Value

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src, err := cfg.Source(logger)
	if err != nil {
		return err
	}
	defer src.Close()

	out := cmd.OutOrStdout()
	db, deg := transfer.Sample(src.Response, freq)
	fmt.Fprintf(out, "%s  %s %s\n", util.FormatFrequency(freq), util.FormatDecibel(db), util.FormatPhase(deg))

	ac, ok := src.Response.(solver)
	if !ok {
		return nil
	}
	phasors, err := ac.Solve(freq)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(phasors))
	for name := range phasors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(out, util.FormatPhasor(name, phasors[name]))
	}
	return nil
}
