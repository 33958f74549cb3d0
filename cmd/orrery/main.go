package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/gui"
	"github.com/san-kum/orrery/internal/kinematics"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/scenario"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/timescale"
	"github.com/san-kum/orrery/internal/viz"
)

// the braille canvas cannot show the full starfield without drowning the planets
const terminalStarDivisor = 20

var (
	dataDir      string
	configFile   string
	levelFlag    = logLevelFlag{value: slog.LevelInfo}
	logToFile    bool
	scaleKey     string
	seed         int64
	fixedStep    bool
	frameRate    int
	themeName    string
	assetsDir    string
	frames       int
	every        int
	scenarioFile string
	bodyName     string
	svgPath      string
	sampleIndex  int
	labels       bool
	outPath      string
	force        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "orrery",
		Short:             "solar system orrery with an adjustable time scale",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", defaultDataDir(), "data directory for recorded runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.Var(&levelFlag, "log-level", "log level: DEBUG, INFO, WARN or ERROR")
	pf.BoolVar(&logToFile, "log-file", true, "write logs to a rotating file instead of stderr")
	addSimFlags(rootCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the 3D window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the orrery in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", config.DefaultTheme, themeUsage())
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frame rate")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a fixed number of frames headless and record them",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 3600, "number of frames")
	runCmd.Flags().IntVar(&every, "every", 60, "record every n-th frame")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file with time-scale switches (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot orbit angles of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&bodyName, "body", "", "plot only this body")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "write the plot of --body to an SVG file instead")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a top-down SVG of a recorded sample",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	exportSVGCmd.Flags().IntVar(&sampleIndex, "sample", -1, "sample index, negative counts from the end")
	exportSVGCmd.Flags().BoolVar(&labels, "labels", true, "label bodies")

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "list configured bodies and their angular speeds",
		Args:  cobra.NoArgs,
		RunE:  listBodies,
	}

	scalesCmd := &cobra.Command{
		Use:   "scales",
		Short: "list time-scale presets",
		Args:  cobra.NoArgs,
		RunE:  listScales,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, bodiesCmd, scalesCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scaleKey, "scale", timescale.Default, "starting time-scale preset")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for starting phases and stars (0 picks one)")
	cmd.Flags().BoolVar(&fixedStep, "fixed-step", false, "advance by the nominal frame interval instead of measured time")
	cmd.Flags().StringVar(&assetsDir, "assets", "", "texture directory")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var out io.Writer = os.Stderr
	if logToFile {
		fn, err := initLogFile()
		if err != nil {
			return err
		}
		out = &lumberjack.Logger{
			Filename:   fn,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: levelFlag.value})))
	return nil
}

// loadConfig reads --config, or the user config when present, and applies
// flags the user actually set on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	path := configFile
	if path == "" {
		if _, err := os.Stat(defaultConfigPath()); err == nil {
			path = defaultConfigPath()
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		slog.Debug("config loaded", "path", path)
	}

	flags := cmd.Flags()
	if flags.Changed("scale") {
		cfg.TimeScale = scaleKey
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fixed-step") {
		cfg.FixedStep = fixedStep
	}
	if flags.Changed("assets") {
		cfg.Assets = assetsDir
	}
	if flags.Changed("theme") {
		cfg.Theme = themeName
	}
	if flags.Changed("fps") {
		if frameRate <= 0 {
			return nil, fmt.Errorf("fps must be positive, got %d", frameRate)
		}
		cfg.FrameInterval = 1 / float64(frameRate)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup builds the controller, system and scene from cfg. Live views get
// a measured clock unless fixed_step is set.
func setup(cfg *config.Config, live bool) (*orrery.System, *timescale.Controller, *scene.Scene, error) {
	ctrl, err := timescale.NewController(cfg.TimeScale)
	if err != nil {
		return nil, nil, nil, err
	}
	ctrl.WithLogger(slog.Default())

	var clock orrery.Clock = orrery.FixedClock{Step: cfg.FrameInterval}
	if live && !cfg.FixedStep {
		clock = orrery.NewWallClock(cfg.MaxStep)
	}

	sys, err := orrery.New(cfg.Bodies, ctrl, clock)
	if err != nil {
		return nil, nil, nil, err
	}
	sys.Scatter(rand.New(rand.NewSource(cfg.Seed)))

	slog.Info("orrery ready", "bodies", len(cfg.Bodies), "scale", ctrl.Key(), "seed", cfg.Seed, "fixed_step", !live || cfg.FixedStep)
	return sys, ctrl, scene.New(cfg.Bodies), nil
}

func stars(cfg *config.Config, count int) []scene.Vec3 {
	return scene.Starfield(rand.New(rand.NewSource(cfg.Seed+1)), count, cfg.Stars.Extent)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sys, ctrl, sc, err := setup(cfg, true)
	if err != nil {
		return err
	}
	return gui.Run(sys, ctrl, sc, gui.Options{
		Assets:     cfg.Assets,
		SunRadius:  cfg.Sun.Radius,
		SunTexture: cfg.Sun.Texture,
		SunColor:   cfg.Sun.Color,
		Stars:      stars(cfg, cfg.Stars.Count),
		Logger:     slog.Default(),
	})
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sys, ctrl, sc, err := setup(cfg, true)
	if err != nil {
		return err
	}
	m := viz.NewModel(sys, ctrl, sc, viz.Options{
		Frame:     time.Duration(cfg.FrameInterval * float64(time.Second)),
		Theme:     cfg.Theme,
		SunRadius: cfg.Sun.Radius,
		Stars:     stars(cfg, cfg.Stars.Count/terminalStarDivisor),
		Logger:    slog.Default(),
	})
	return viz.Run(m)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sys, ctrl, _, err := setup(cfg, false)
	if err != nil {
		return err
	}

	runCfg := orrery.RunConfig{Frames: frames, Every: every}
	scenarioName := ""
	if scenarioFile != "" {
		sc, err := scenario.Load(scenarioFile)
		if err != nil {
			return err
		}
		runCfg.BeforeFrame = sc.Director(ctrl)
		scenarioName = sc.Name
	}
	startScale := ctrl.Key()
	ms := metrics.Default(sys)
	metrics.Attach(sys, ms)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := sys.Run(ctx, runCfg)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		slog.Warn("run interrupted, saving partial result", "frames", result.Frames)
	}

	vals := metrics.Collect(ms)
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunInfo{
		FrameInterval: cfg.FrameInterval,
		Scale:         startScale,
		Scenario:      scenarioName,
		Seed:          cfg.Seed,
		Metrics:       vals,
	}, result)
	if err != nil {
		return err
	}

	slog.Info("run saved", "id", runID, "dir", st.Dir(), "frames", result.Frames, "took", time.Since(start), "max_drift", vals["max_drift"])
	fmt.Printf("run %s: %s frames, %s simulated\n", runID, humanize.Comma(int64(result.Frames)), timescale.FormatElapsed(result.Elapsed))
	return nil
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
	fmt.Fprintln(w, "ID\tSCALE\tSCENARIO\tFRAMES\tSIMULATED\tCREATED")

	for _, run := range runs {
		scn := run.Scenario
		if scn == "" {
			scn = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Scale,
			scn,
			humanize.Comma(int64(run.Frames)),
			timescale.FormatElapsed(run.Elapsed),
			humanize.Time(run.Timestamp),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}
	if len(result.Samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	if svgPath != "" {
		return plotSVG(result)
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("samples: %d\n\n", len(result.Samples))

	plotted := 0
	for i, name := range result.Bodies {
		if bodyName != "" && !strings.EqualFold(name, bodyName) {
			continue
		}
		graph := asciigraph.Plot(orbitSeries(result, i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" orbit angle (rad)"),
		)
		fmt.Println(graph)
		fmt.Println()
		plotted++
	}

	if plotted == 0 {
		return fmt.Errorf("no body named %q in run %s", bodyName, runID)
	}
	return nil
}

func plotSVG(result *orrery.Result) error {
	if bodyName == "" {
		return fmt.Errorf("--svg needs --body")
	}
	idx := -1
	for i, name := range result.Bodies {
		if strings.EqualFold(name, bodyName) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no body named %q in run", bodyName)
	}

	data := orbitSeries(result, idx)
	points := make([]export.Point, len(data))
	for j, a := range data {
		points[j] = export.Point{X: result.Samples[j].Time, Y: a}
	}
	if err := os.WriteFile(svgPath, []byte(export.Trace(points, 800, 300, "#00ff9f")), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgPath)
	return nil
}

// orbitSeries pulls one body's orbit angle out of the stored samples.
func orbitSeries(result *orrery.Result, body int) []float64 {
	data := make([]float64, len(result.Samples))
	for j, smp := range result.Samples {
		data[j] = smp.Orbit[body]
	}
	return data
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outPath != "" {
		return st.ExportJSON(outPath, args[0])
	}
	return st.ExportJSONStdout(args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.Samples) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}
	i := sampleIndex
	if i < 0 {
		i += len(result.Samples)
	}
	if i < 0 || i >= len(result.Samples) {
		return fmt.Errorf("sample %d out of range, run has %d", sampleIndex, len(result.Samples))
	}
	smp := result.Samples[i]

	descs, poses := samplePoses(cfg.Bodies, result.Bodies, smp)

	sc := scene.New(descs)
	svg := export.Snapshot(sc, sc.Place(poses), export.SnapshotOptions{
		SunRadius: cfg.Sun.Radius,
		SunColor:  cfg.Sun.Color,
		Labels:    labels,
	})
	if outPath == "" {
		_, err := io.WriteString(os.Stdout, svg+"\n")
		return err
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}

// samplePoses pairs the run's bodies with their configured descriptors and
// turns one sample into wrapped poses. Bodies missing from the config are
// skipped.
func samplePoses(bodies []kinematics.Descriptor, names []string, smp orrery.Sample) ([]kinematics.Descriptor, []orrery.Pose) {
	byName := make(map[string]kinematics.Descriptor, len(bodies))
	for _, d := range bodies {
		byName[strings.ToLower(d.Name)] = d
	}
	descs := make([]kinematics.Descriptor, 0, len(names))
	poses := make([]orrery.Pose, 0, len(names))
	for j, name := range names {
		d, ok := byName[strings.ToLower(name)]
		if !ok {
			slog.Warn("body not in config, skipping", "body", name)
			continue
		}
		descs = append(descs, d)
		poses = append(poses, orrery.Pose{
			Name:       name,
			OrbitAngle: kinematics.Wrap(smp.Orbit[j]),
			SpinAngle:  kinematics.Wrap(smp.Spin[j]),
		})
	}
	return descs, poses
}

func themeUsage() string {
	return "color theme: " + strings.Join(viz.ThemeNames(), ", ")
}

func listBodies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bodies, err := kinematics.NewBodies(cfg.Bodies)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tORBIT (days)\tROTATION (h)\tORBIT (rad/s)\tSPIN (rad/s)\tVELOCITY (km/s)\tDISTANCE")

	for i, b := range bodies {
		d := cfg.Bodies[i]
		rotation := humanize.FormatFloat("#,###.##", d.RotationPeriodHours)
		if b.Retrograde {
			rotation += " (retrograde)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4e\t%.4e\t%s\t%s\n",
			b.Name,
			humanize.FormatFloat("#,###.##", d.OrbitalPeriodDays),
			rotation,
			b.AngularSpeedOrbit(),
			b.AngularSpeedRotation(),
			humanize.FormatFloat("#,###.##", d.OrbitalVelocityKmS),
			humanize.FormatFloat("#,###.", d.DistanceFromSun),
		)
	}

	return w.Flush()
}

func listScales(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tLABEL\tSIM SECONDS PER SECOND")

	for i, p := range timescale.Presets() {
		name := p.Key
		if p.Key == timescale.Default {
			name += " (default)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, name, p.Label, humanize.Commaf(p.Multiplier))
	}

	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := defaultConfigPath()
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
