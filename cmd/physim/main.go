package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/physim/internal/automation"
	"github.com/san-kum/physim/internal/config"
	"github.com/san-kum/physim/internal/export"
	"github.com/san-kum/physim/internal/logging"
	"github.com/san-kum/physim/internal/metrics"
	"github.com/san-kum/physim/internal/scenario"
	"github.com/san-kum/physim/internal/storage"
	"github.com/san-kum/physim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	steps      int
	seed       int64
	dt         float64
	fps        float64
	timeRes    float64
	cellSize   float64
	arenaW     float64
	arenaH     float64
	naive      bool
	metricList []string
	noSave     bool
	exportPath string
	svgPath    string
	trailN     int
	trailEvery int

	// live
	frameRate float64
	theme     string

	seriesName string
	format     string

	// sweep
	runs      int
	seedStart int64
	param     string
	paramMin  float64
	paramMax  float64
	paramN    int
)

var log = logging.NewLogger()

func main() {
	rootCmd := &cobra.Command{
		Use:           "physim",
		Short:         "2d elastic collision simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless and log it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to record (default all)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run log")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final arena as svg")
	runCmd.Flags().IntVar(&trailN, "trail", 0, "draw the paths of the first n bodies in the svg")
	runCmd.Flags().IntVar(&trailEvery, "trail-every", 5, "steps between trail samples")
	runCmd.Flags().StringVar(&exportPath, "export", "", "write the full run (series and final bodies) as json; - for stdout")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().Float64Var(&frameRate, "frame-rate", 0, "redraw rate (default: scenario fps)")
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a logged series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&seriesName, "series", "all", "energy, px, py, contacts, walls or all")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata (json) or series (csv)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json or csv")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "compare grid and naive collision detection",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	addScenarioFlags(benchCmd)

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml script of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "repeat a scenario over seeds or a parameter range",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to record (default all)")
	sweepCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")
	sweepCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first seed")
	sweepCmd.Flags().StringVar(&param, "param", "", "sweep this parameter instead of the seed ("+strings.Join(automation.SweepParams(), ", ")+")")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0, "parameter start")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 1, "parameter end")
	sweepCmd.Flags().IntVar(&paramN, "n", 5, "parameter values")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd, benchCmd, scriptCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error(context.Background(), "command failed", err)
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "default", "preset of the scenario")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&dt, "dt", 0, "fixed timestep (default time-res/fps)")
	cmd.Flags().Float64Var(&fps, "fps", config.DefaultFPS, "frames per simulated second")
	cmd.Flags().Float64Var(&timeRes, "time-res", config.DefaultTimeRes, "timestep length relative to a frame")
	cmd.Flags().Float64Var(&cellSize, "cell-size", 0, "grid cell size (default 3x mean radius)")
	cmd.Flags().Float64Var(&arenaW, "width", config.DefaultWidth, "arena width")
	cmd.Flags().Float64Var(&arenaH, "height", config.DefaultHeight, "arena height")
	cmd.Flags().BoolVar(&naive, "naive", false, "test every pair instead of using the grid")
}

// resolveConfig picks the scenario file, then the preset, then applies the
// flags the user set explicitly.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		kind := scenario.KindCollision
		if len(args) > 0 {
			kind = args[0]
		}
		cfg = config.GetPreset(kind, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s (scenarios: %v, presets: %v)", kind, preset, scenario.Kinds(), config.ListPresets(kind))
		}
	}

	f := cmd.Flags()
	if f.Changed("steps") {
		cfg.Steps = steps
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("fps") {
		cfg.FPS = fps
	}
	if f.Changed("time-res") {
		cfg.TimeRes = timeRes
	}
	if f.Changed("cell-size") {
		cfg.CellSize = cellSize
	}
	if f.Changed("width") {
		cfg.Arena.Width = arenaW
	}
	if f.Changed("height") {
		cfg.Arena.Height = arenaH
	}
	if f.Changed("naive") {
		cfg.Naive = naive
	}
	if f.Changed("metrics") {
		cfg.Metrics = metricList
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func scenarioName(cfg *config.Config) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return cfg.Scenario.Kind
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
	}
	runner := automation.NewRunner(log, st)
	name := scenarioName(cfg)

	var trail *export.Trail
	if svgPath != "" && trailN > 0 {
		idx := make([]int, trailN)
		for i := range idx {
			idx[i] = i
		}
		trail = export.NewTrail(trailEvery, idx...)
		runner.Observe(trail)
	}

	log.Info(ctx, "running simulation", "scenario", name, "steps", cfg.Steps, "seed", cfg.Seed, "naive", cfg.Naive)
	start := time.Now()

	out, err := runner.RunConfig(ctx, name, cfg, !noSave)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if svgPath != "" {
		scene := export.Scene{
			Width:  cfg.Arena.Width,
			Height: cfg.Arena.Height,
			Bodies: out.Result.Final,
			Walls:  out.Walls,
		}
		if trail != nil {
			scene.Trails = trail.Points()
		}
		if err := os.WriteFile(svgPath, []byte(export.SceneToSVG(scene, 1)), 0644); err != nil {
			return err
		}
	}

	switch exportPath {
	case "":
	case "-":
		return storage.WriteJSON(os.Stdout, out.Info, out.Result)
	default:
		if err := storage.ExportJSON(exportPath, out.Info, out.Result); err != nil {
			return err
		}
		log.Info(logging.WithRunID(ctx, out.RunID), "exported run", "path", exportPath)
	}

	fmt.Printf("completed in %v\n", elapsed)
	if out.RunID != "" {
		fmt.Printf("run id: %s\n", out.RunID)
	}
	fmt.Printf("steps: %d\n", out.Result.StepsTaken)
	fmt.Printf("simulated time: %.3fs\n", last(out.Result.Times))
	if len(out.Result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		printMetrics(out.Result.Metrics)
	}

	return nil
}

func last(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}

func writeIndentedJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	sim, err := cfg.NewSimulator(cfg.Seed)
	if err != nil {
		return err
	}

	m := viz.NewModel(sim, scenarioName(cfg), frameRate).WithTheme(theme)
	return viz.Run(m)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tDT\tBODIES\tNAIVE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%v\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepsTaken,
			run.Dt,
			run.Bodies,
			run.Naive,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if series.Len() < 2 {
		return fmt.Errorf("no data to plot")
	}

	plots := []struct {
		name, caption string
		data          []float64
	}{
		{"energy", "kinetic energy", series.KineticEnergy},
		{"px", "momentum x", series.MomentumX},
		{"py", "momentum y", series.MomentumY},
		{"contacts", "particle contacts per step", ints(series.Contacts)},
		{"walls", "wall hits per step", ints(series.WallHits)},
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", series.Len())

	shown := 0
	for _, p := range plots {
		if seriesName != "all" && seriesName != p.name {
			continue
		}
		graph, err := viz.PlotSeries(p.data, 80, 10, p.caption)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
		shown++
	}
	if shown == 0 {
		return fmt.Errorf("unknown series: %s", seriesName)
	}
	return nil
}

func ints(v []int) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return writeIndentedJSON(meta)
	case "csv":
		series, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		w := csv.NewWriter(os.Stdout)
		if err := w.Write([]string{"time", "px", "py", "kinetic_energy", "contacts", "wall_hits"}); err != nil {
			return err
		}
		for i := 0; i < series.Len(); i++ {
			if err := w.Write([]string{
				strconv.FormatFloat(series.Times[i], 'f', 6, 64),
				strconv.FormatFloat(series.MomentumX[i], 'g', -1, 64),
				strconv.FormatFloat(series.MomentumY[i], 'g', -1, 64),
				strconv.FormatFloat(series.KineticEnergy[i], 'g', -1, 64),
				strconv.Itoa(series.Contacts[i]),
				strconv.Itoa(series.WallHits[i]),
			}); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	kinds := scenario.Kinds()
	if len(args) > 0 {
		kinds = args
	}
	for _, kind := range kinds {
		presets := config.ListPresets(kind)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", kind)
			continue
		}
		fmt.Printf("presets for %s:\n", kind)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %s\n\n", scenarioName(cfg))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tBODIES\tSTEPS\tTIME\tSTEPS/SEC\tTESTS/STEP\tCONTACTS")

	for _, mode := range []bool{false, true} {
		c := *cfg
		c.Naive = mode
		sim, err := c.NewSimulator(c.Seed)
		if err != nil {
			return err
		}
		tests, contacts := metrics.NewPairTests(), metrics.NewContacts()
		sim.AddMetric(tests)
		sim.AddMetric(contacts)

		start := time.Now()
		if _, err := sim.Run(ctx, c.Steps); err != nil {
			return err
		}
		elapsed := time.Since(start)

		label := "grid"
		if mode {
			label = "naive"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\t%.1f\t%.0f\n",
			label, sim.Len(), c.Steps, elapsed, float64(c.Steps)/elapsed.Seconds(), tests.Value(), contacts.Value())
	}

	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	runner := automation.NewRunner(log, storage.New(dataDir))
	log.Info(ctx, "running script", "name", script.Name, "runs", len(script.Runs))
	outcomes, err := runner.RunScript(ctx, script, filepath.Dir(args[0]))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCENARIO\tSEED\tSTEPS\tFINAL ENERGY\tRUN ID")
	for i, o := range outcomes {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.6g\t%s\n", i+1, o.Name, o.Seed, o.Result.StepsTaken, last(o.Result.KineticEnergy), o.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	runner := automation.NewRunner(log, nil)
	var results []automation.SweepResult
	if param != "" {
		results, err = runner.RunParameterSweep(ctx, &automation.ParameterSweep{
			Config:    cfg,
			ParamName: param,
			ParamMin:  paramMin,
			ParamMax:  paramMax,
			NumSteps:  paramN,
		})
	} else {
		results, err = runner.RunSeedSweep(ctx, &automation.SeedSweep{Config: cfg, Runs: runs, SeedStart: seedStart})
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tPARAM\tFINAL ENERGY\tCONTACTS")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%g\t%.6g\t%d\n", r.Seed, r.ParamValue, r.FinalEnergy, r.Contacts)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stats := automation.SweepStats(results)
	names := make([]string, 0, len(stats))
	for k := range stats {
		names = append(names, k)
	}
	sort.Strings(names)
	fmt.Println("\nstatistics:")
	for _, k := range names {
		fmt.Printf("  %-16s mean %.6g  std %.6g\n", k, stats[k].Mean, stats[k].StdDev)
	}
	return nil
}
