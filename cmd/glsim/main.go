package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/glsim/internal/config"
	"github.com/san-kum/glsim/internal/experiment"
	"github.com/san-kum/glsim/internal/export"
	"github.com/san-kum/glsim/internal/geometry"
	"github.com/san-kum/glsim/internal/logx"
	"github.com/san-kum/glsim/internal/mesh"
	"github.com/san-kum/glsim/internal/optim"
	"github.com/san-kum/glsim/internal/sim"
	"github.com/san-kum/glsim/internal/storage"
	"github.com/san-kum/glsim/internal/viz"
)

var (
	dataDir     string
	verbose     bool
	veryVerbose bool
	quiet       bool
	configFile  string
	preset      string
	seed        int64
	frames      int
	count       int
	gridSize    int
	gridFill    float64
	depth       int
	outFile     string
	watch       bool
	shapeTime   float64
	runs        int
	plotResult  bool
	svgSize     int
	sweepParams []string
	sweepMetric string
	maximize    bool

	logger = logx.Discard()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "glsim",
		Short:         "headless sphere, grid and mesh demos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logx.New(os.Stderr, logx.LevelFromFlags(veryVerbose, verbose, quiet))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".glsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "info logging")
	rootCmd.PersistentFlags().BoolVar(&veryVerbose, "vv", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "errors only")

	spheresCmd := &cobra.Command{
		Use:   "spheres",
		Short: "run the bouncing spheres demo and save the run",
		Args:  cobra.NoArgs,
		RunE:  runSpheres,
	}
	addRunFlags(spheresCmd)
	spheresCmd.Flags().IntVar(&count, "count", config.DefaultSpheres, "initial sphere count")
	spheresCmd.Flags().IntVar(&runs, "runs", 1, "number of seeds to run concurrently")
	spheresCmd.Flags().BoolVar(&plotResult, "plot", false, "plot mean energy after the run")

	gridCmd := &cobra.Command{
		Use:   "grid",
		Short: "run the grid scheduler and save the run",
		Args:  cobra.NoArgs,
		RunE:  runGrid,
	}
	addRunFlags(gridCmd)
	gridCmd.Flags().IntVar(&gridSize, "size", config.DefaultGridSize, "grid cells per side")
	gridCmd.Flags().Float64Var(&gridFill, "fill", config.DefaultGridFill, "initial occupancy probability")

	icosphereCmd := &cobra.Command{
		Use:   "icosphere",
		Short: "generate a subdivided sphere",
		Args:  cobra.NoArgs,
		RunE:  runIcosphere,
	}
	icosphereCmd.Flags().IntVar(&depth, "depth", config.DefaultDepth, "subdivision depth")
	icosphereCmd.Flags().StringVarP(&outFile, "out", "o", "", "write positions then normals as little endian float32")

	meshCmd := &cobra.Command{
		Use:   "mesh [path|url]",
		Short: "load an OBJ mesh and compute vertex normals",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMesh,
	}
	meshCmd.Flags().StringVarP(&outFile, "out", "o", "", "write positions, normals and indices")
	meshCmd.Flags().BoolVar(&watch, "watch", false, "reload when the file changes")

	shapesCmd := &cobra.Command{
		Use:   "shapes",
		Short: "generate the circle and block I vertex data",
		Args:  cobra.NoArgs,
		RunE:  runShapes,
	}
	shapesCmd.Flags().Float64Var(&shapeTime, "time", 0, "sway time for the block I")
	shapesCmd.Flags().StringVarP(&outFile, "out", "o", "", "write circle then block I as little endian float32")

	liveCmd := &cobra.Command{
		Use:   "live [spheres|grid]",
		Short: "view a demo in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [spheres|grid]",
		Short: "render the final frame of a demo to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	addRunFlags(exportSVGCmd)
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 512, "image size in pixels")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [demo]",
		Short: "list available presets for a demo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for demo: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [spheres|grid]",
		Short: "grid search demo parameters against a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy", "metric to optimize")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	rootCmd.AddCommand(spheresCmd, gridCmd, icosphereCmd, meshCmd, shapesCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
}

// loadConfig layers defaults, preset, config file and changed flags, in
// that order.
func loadConfig(cmd *cobra.Command, demo string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(demo, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(demo))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Demo = demo

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("count") {
		cfg.Spheres.Count = count
	}
	if cmd.Name() == "grid" && flags.Changed("size") {
		cfg.Grid.Size = gridSize
	}
	if flags.Changed("fill") {
		cfg.Grid.Fill = gridFill
	}
	if flags.Changed("depth") {
		cfg.Icosphere.Depth = depth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSpheres(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "spheres")
	if err != nil {
		return err
	}
	if runs > 1 {
		return runEnsemble(cfg)
	}

	result, err := runAndSave(cfg)
	if err != nil {
		return err
	}
	if plotResult {
		if data := result.Series["energy"]; len(data) > 0 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption("mean energy"),
			))
		}
	}
	return nil
}

func runGrid(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "grid")
	if err != nil {
		return err
	}
	_, err = runAndSave(cfg)
	return err
}

func runAndSave(cfg *config.Config) (*sim.Result, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}

	exp, err := experiment.New(experiment.NewRegistry(), cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s demo...\n", cfg.Demo)
	logger.Info("run started", "demo", cfg.Demo, "seed", cfg.Seed, "frames", cfg.Frames)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Demo:    cfg.Demo,
		Preset:  preset,
		Seed:    cfg.Seed,
		FrameDt: cfg.FrameDt,
		Frames:  result.Frames,
		Params:  runParams(cfg),
		Metrics: result.Metrics,
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return nil, err
	}
	logger.Info("run saved", "id", runID, "elapsed", elapsed)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.Frames)
	printMetrics(result.Metrics)

	if a := exp.Instance().Animator; a != nil {
		fmt.Println("\nfinal layout:")
		fmt.Print(a.Grid.String())
	}
	return result, nil
}

func runParams(cfg *config.Config) map[string]float64 {
	switch cfg.Demo {
	case "spheres":
		s := cfg.Spheres
		return map[string]float64{
			"count":       float64(s.Count),
			"dt":          s.Dt,
			"gravity":     s.Gravity,
			"base_drag":   s.BaseDrag,
			"restitution": s.Restitution,
		}
	case "grid":
		return map[string]float64{
			"size": float64(cfg.Grid.Size),
			"fill": cfg.Grid.Fill,
			"rate": cfg.Grid.Rate,
		}
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runEnsemble(cfg *config.Config) error {
	exp, err := experiment.New(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d %s seeds from %d...\n", runs, cfg.Demo, cfg.Seed)
	ens := sim.NewEnsemble(experiment.Factory(experiment.NewRegistry(), cfg), runs, cfg.Seed)
	results, err := ens.Run(ctx, exp.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	names := storage.SeriesNames(results[0].Series)
	fmt.Fprint(w, "SEED")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)
	for i, r := range results {
		fmt.Fprintf(w, "%d", cfg.Seed+int64(i))
		for _, name := range names {
			fmt.Fprintf(w, "\t%.6f", r.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runIcosphere(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Icosphere.Depth = depth
	if err := cfg.Validate(); err != nil {
		return err
	}

	s := geometry.GenerateSphere(cfg.Icosphere.Depth)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "depth: %d\n", cfg.Icosphere.Depth)
	fmt.Fprintf(out, "triangles: %d\n", s.Triangles)
	fmt.Fprintf(out, "vertices: %d\n", len(s.Vertices)/3)
	if outFile == "" {
		return nil
	}
	return writeFile(outFile, func(f *os.File) error {
		return geometry.WriteSphere(f, s)
	})
}

func runMesh(cmd *cobra.Command, args []string) error {
	source := config.DefaultMeshSource
	if len(args) > 0 {
		source = args[0]
	}

	ctx, cancel := signalContext()
	defer cancel()

	loader := mesh.NewLoader(source, mesh.WithLogger(logger))
	loader.Start(ctx)
	m, err := loader.Wait(ctx)
	if err != nil {
		return err
	}
	if err := reportMesh(source, m); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	err = loader.Watch(ctx, func(err error) {
		if err != nil {
			fmt.Fprintln(os.Stderr, "reload failed:", err)
			return
		}
		if err := reportMesh(source, loader.Mesh()); err != nil {
			fmt.Fprintln(os.Stderr, "reload failed:", err)
		}
	})
	if err != nil {
		return err
	}
	fmt.Println("watching for changes, ctrl+c to stop")
	<-ctx.Done()
	return nil
}

func reportMesh(source string, m *mesh.Mesh) error {
	fmt.Printf("mesh: %s\n", source)
	fmt.Printf("vertices: %d\n", len(m.Vertices))
	fmt.Printf("triangles: %d\n", len(m.Faces))
	if outFile == "" {
		return nil
	}
	bufs, err := m.Buffers()
	if err != nil {
		return err
	}
	return writeFile(outFile, func(f *os.File) error {
		_, err := bufs.WriteTo(f)
		return err
	})
}

func runShapes(cmd *cobra.Command, args []string) error {
	circle := geometry.Circle(geometry.CircleSections)
	block := geometry.BlockI(float32(geometry.BlockIFill), float32(shapeTime), 0.1)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "circle vertices: %d\n", len(circle)/3)
	fmt.Fprintf(out, "block I vertices: %d\n", len(block)/3)
	if outFile == "" {
		return nil
	}
	return writeFile(outFile, func(f *os.File) error {
		if err := geometry.WriteFloat32s(f, circle); err != nil {
			return err
		}
		return geometry.WriteFloat32s(f, block)
	})
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("wrote file", "path", path)
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	demo := "spheres"
	if len(args) > 0 {
		demo = args[0]
	}
	cfg, err := loadConfig(cmd, demo)
	if err != nil {
		return err
	}
	inst, err := experiment.NewRegistry().Build(demo, cfg)
	if err != nil {
		return err
	}
	if inst.Engine != nil {
		return viz.Run(viz.NewSpheresModel(inst.Engine, cfg.Spheres.AddBatch))
	}
	return viz.Run(viz.NewGridModel(inst.Animator))
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
	fmt.Fprintln(w, "ID\tDEMO\tTIME\tFRAMES\tSEED\tPRESET")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Demo,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Seed,
			run.Preset,
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

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("demo: %s\n", meta.Demo)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	for _, name := range series.Names {
		data := series.Values[name]
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	demo := args[0]
	cfg, err := loadConfig(cmd, demo)
	if err != nil {
		return err
	}
	exp, err := experiment.New(experiment.NewRegistry(), cfg)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	if _, err := exp.Run(ctx); err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	inst := exp.Instance()
	if inst.Engine != nil {
		err = export.SpheresSVG(out, inst.Engine.Snapshot(), svgSize)
	} else {
		err = export.GridSVG(out, inst.Animator, svgSize)
	}
	if err != nil {
		return err
	}
	logger.Info("svg exported", "demo", demo, "frames", cfg.Frames)
	return nil
}

func parseSweepParam(arg string) (string, []float64, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2", arg)
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad --param %q: %w", arg, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("no --param given (available: %v)", optim.Params())
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, arg := range sweepParams {
		name, values, err := parseSweepParam(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	ctx, cancel := signalContext()
	defer cancel()

	gs := optim.NewGridSearch(names, ranges)
	gs.Maximize = maximize
	best, trials, err := gs.Search(ctx, experiment.NewRegistry(), cfg, sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(sweepMetric))
	for _, tr := range trials {
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", tr.Params[name])
		}
		fmt.Fprintf(w, "%.6f\n", tr.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest %s: %.6f at %v\n", sweepMetric, best.Value, best.Params)
	return nil
}
