package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/driftfield/internal/bench"
	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/export"
	"github.com/san-kum/driftfield/internal/frame"
	"github.com/san-kum/driftfield/internal/observability"
	"github.com/san-kum/driftfield/internal/particle"
	"github.com/san-kum/driftfield/internal/prefs"
	"github.com/san-kum/driftfield/internal/storage"
	"github.com/san-kum/driftfield/internal/tui"
	"github.com/san-kum/driftfield/internal/viz"
)

var (
	configFile string
	preset     string
	dataDir    string
	logLevel   string

	count int
	fps   int
	scale float64
	seed  uint64

	// live view
	trail   bool
	gifPath string

	// headless run
	runFrames int
	cols      int
	rows      int
	colored   bool

	// bench
	benchFrames int
	benchWidth  float64
	benchHeight float64
	noSave      bool
	sweep       []int

	exportOut string
	svgOut    string
)

// main registers commands and flags, launches the interactive view when no
// subcommand is provided, and executes the root command.
func main() {
	rootCmd := &cobra.Command{
		Use:          "driftfield",
		Short:        "drifting particles linked by proximity, in the terminal",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory for bench runs")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	addFieldFlags(rootCmd)
	rootCmd.Flags().BoolVar(&trail, "trail", true, "draw the pointer trail")
	rootCmd.Flags().StringVar(&gifPath, "gif", "driftfield.gif", "where G recordings are written")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive view (default)",
		RunE:  runLive,
	}
	addFieldFlags(liveCmd)
	liveCmd.Flags().BoolVar(&trail, "trail", true, "draw the pointer trail")
	liveCmd.Flags().StringVar(&gifPath, "gif", "driftfield.gif", "where G recordings are written")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "animate the field to stdout without taking over input",
		RunE:  runHeadless,
	}
	addFieldFlags(runCmd)
	runCmd.Flags().IntVar(&runFrames, "frames", 0, "stop after this many frames (0 runs until interrupted)")
	runCmd.Flags().IntVar(&cols, "cols", 70, "canvas width in terminal cells")
	runCmd.Flags().IntVar(&rows, "rows", 20, "canvas height in terminal cells")
	runCmd.Flags().BoolVar(&colored, "color", true, "colour the canvas with the stored theme")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time frames on a manual scheduler and store the run",
		RunE:  benchField,
	}
	addFieldFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchFrames, "frames", 600, "frames to run")
	benchCmd.Flags().Float64Var(&benchWidth, "width", 800, "field width")
	benchCmd.Flags().Float64Var(&benchHeight, "height", 600, "field height")
	benchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	benchCmd.Flags().IntSliceVar(&sweep, "sweep", nil, "bench these particle counts in parallel instead")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [out.svg]",
		Short: "advance a field and write one frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotField,
	}
	addFieldFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&runFrames, "frames", 0, "frames to advance before the snapshot")
	snapshotCmd.Flags().Float64Var(&benchWidth, "width", 800, "field width")
	snapshotCmd.Flags().Float64Var(&benchHeight, "height", 600, "field height")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list bench runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a bench run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the links series as SVG to this file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata, or the full run with --out",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write metadata and frames as JSON to this file")

	themeCmd := &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "show or change the theme preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE:      themePref,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOUNT\tSCALE\tFPS")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\n", name, p.Count, p.Scale, p.FPS)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config",
		Short: "write the default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFile
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, benchCmd, snapshotCmd, listCmd, plotCmd, exportCmd, themeCmd, presetsCmd, initCmd)

	err := rootCmd.Execute()
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&count, "count", config.DefaultCount, "number of particles")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().Float64Var(&scale, "scale", config.DefaultScale, "sub-pixels per field unit")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one)")
}

// loadConfig layers the config file, the preset and any explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if preset != "" {
		if err := cfg.Apply(preset); err != nil {
			return nil, fmt.Errorf("%w: %s (available: %v)", err, preset, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("trail") {
		cfg.Trail.Enabled = trail
	}
	if dataDir != "" {
		cfg.Paths.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openTheme opens the preference store. When the database cannot be opened
// the preference lives in memory for this process.
func openTheme(cfg *config.Config) (*prefs.Theme, func()) {
	kv, err := prefs.OpenSQLite(cfg.Paths.PrefsDB)
	if err != nil {
		observability.L().Warn("preferences unavailable, using memory", zap.String("path", cfg.Paths.PrefsDB), zap.Error(err))
		return prefs.NewTheme(prefs.NewMemoryKV()), func() {}
	}
	return prefs.NewTheme(kv), func() { kv.Close() }
}

func fieldOptions(s uint64) []particle.Option {
	if s == 0 {
		return nil
	}
	return []particle.Option{particle.WithSeed(s)}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// the view owns the terminal, so logs go to the file only
	observability.Initialize(cfg.Log, nil)
	log := observability.L()

	theme, closeTheme := openTheme(cfg)
	defer closeTheme()

	log.Info("starting live view", zap.Int("count", cfg.Count), zap.Int("fps", cfg.FPS), zap.Uint64("seed", cfg.Seed))
	return viz.Run(viz.Options{
		Count:       cfg.Count,
		FPS:         cfg.FPS,
		Scale:       cfg.Scale,
		Seed:        cfg.Seed,
		Trail:       cfg.Trail.Enabled,
		TrailLength: cfg.Trail.Length,
		Banner:      cfg.Banner.Text,
		TypingSpeed: time.Duration(cfg.Banner.SpeedMs) * time.Millisecond,
		Theme:       theme,
		GIFPath:     gifPath,
		Logger:      log,
	})
}

// frameLimit closes done once the loop has produced n frames.
type frameLimit struct {
	n    uint64
	done chan struct{}
	once sync.Once
}

func (l *frameLimit) OnFrame(st particle.FrameStats) {
	if l.n > 0 && st.Frame >= l.n {
		l.once.Do(func() { close(l.done) })
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	observability.Initialize(cfg.Log, zapcore.Lock(os.Stderr))
	log := observability.L()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var palette *viz.Palette
	if colored {
		theme, closeTheme := openTheme(cfg)
		p := viz.PaletteFor(theme.Load())
		closeTheme()
		palette = &p
	}

	r := tui.NewLiveRenderer(cmd.OutOrStdout(), "driftfield", cols, rows, cfg.Scale, palette)
	f := particle.New(fieldOptions(cfg.Seed)...)
	f.Initialize(cfg.Count, r.Bounds())

	limit := &frameLimit{n: uint64(max(runFrames, 0)), done: make(chan struct{})}
	f.AddObserver(r)
	f.AddObserver(limit)

	ticker := frame.NewTicker(cfg.FPS)
	defer ticker.Close()

	r.Start()
	defer r.Stop()

	log.Debug("run started", zap.Int("count", cfg.Count), zap.Duration("interval", ticker.Interval()))
	stopLoop := f.Run(ticker, r)
	select {
	case <-ctx.Done():
	case <-limit.done:
	}
	stopLoop()
	ticker.Close()

	log.Info("run finished", zap.Uint64("frames", f.Frames()))
	return nil
}

func benchField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	observability.Initialize(cfg.Log, zapcore.Lock(os.Stderr))
	log := observability.L()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runSeed := cfg.Seed
	if runSeed == 0 {
		runSeed = uint64(time.Now().UnixNano())
	}
	bounds := particle.Bounds{Width: benchWidth, Height: benchHeight}
	newCanvas := func(b particle.Bounds) particle.Surface {
		return viz.NewCanvas(int(b.Width*cfg.Scale/2), int(b.Height*cfg.Scale/4), cfg.Scale)
	}

	if len(sweep) > 0 {
		return benchSweep(ctx, cmd, bench.Options{Frames: benchFrames, Bounds: bounds, Seed: runSeed}, newCanvas)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "benchmarking %d particles for %d frames\n\n", cfg.Count, benchFrames)
	res, err := bench.Run(ctx, bench.Options{Count: cfg.Count, Frames: benchFrames, Bounds: bounds, Seed: runSeed}, newCanvas(bounds))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	s := res.Summary
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAMES\tMEAN LINKS\tMAX LINKS\tMEAN\tP95\tMAX")
	fmt.Fprintf(w, "%d\t%.1f\t%d\t%v\t%v\t%v\n", len(res.Frames), s.MeanLinks, s.MaxLinks, s.MeanFrame, s.P95Frame, s.MaxFrame)
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	printPlots(cmd, res.Frames)

	if noSave || len(res.Frames) == 0 {
		return nil
	}
	st := storage.New(cfg.Paths.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(storage.RunMetadata{
		Seed:    runSeed,
		Count:   cfg.Count,
		Width:   bounds.Width,
		Height:  bounds.Height,
		Metrics: s.Metrics(),
	}, res.Frames)
	if err != nil {
		return err
	}
	log.Info("bench saved", zap.String("id", id), zap.String("dir", cfg.Paths.DataDir))
	fmt.Fprintf(cmd.OutOrStdout(), "saved run %s\n", id)
	return nil
}

func benchSweep(ctx context.Context, cmd *cobra.Command, opts bench.Options, newSurface func(particle.Bounds) particle.Surface) error {
	fmt.Fprintf(cmd.OutOrStdout(), "sweeping %v particles for %d frames\n\n", sweep, opts.Frames)
	results, err := bench.Sweep(ctx, sweep, opts, newSurface)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COUNT\tPAIRS\tMEAN LINKS\tMEAN\tP95\tMAX")
	for _, r := range results {
		s := r.Summary
		fmt.Fprintf(w, "%d\t%d\t%.1f\t%v\t%v\t%v\n", r.Count, r.Count*(r.Count-1)/2, s.MeanLinks, s.MeanFrame, s.P95Frame, s.MaxFrame)
	}
	return w.Flush()
}

func snapshotField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	b := particle.Bounds{Width: benchWidth, Height: benchHeight}
	f := particle.New(fieldOptions(cfg.Seed)...)
	f.Initialize(cfg.Count, b)
	for i := 0; i < runFrames; i++ {
		f.Advance()
	}

	colors := export.DefaultColors
	if kv, err := prefs.OpenSQLite(cfg.Paths.PrefsDB); err == nil {
		p := viz.PaletteFor(prefs.NewTheme(kv).Load())
		kv.Close()
		colors = export.Colors{Background: string(p.Background), Particle: string(p.Levels[3]), Link: string(p.Levels[2])}
	}
	svg := export.NewSVG(b, colors)
	links := f.Render(svg)

	out, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if _, err := svg.WriteTo(out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d particles, %d links)\n", args[0], f.Len(), links)
	return nil
}

func printPlots(cmd *cobra.Command, fs []particle.FrameStats) {
	if len(fs) < 2 {
		return
	}
	links := bench.LinkSeries(fs)
	elapsed := make([]float64, len(fs))
	for i, f := range fs {
		elapsed[i] = float64(f.Elapsed.Microseconds())
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, asciigraph.Plot(links, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("links per frame")))
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(elapsed, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("frame time (us)")))
	fmt.Fprintln(out)
}

func runStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Paths.DataDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := runStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tCOUNT\tFRAMES\tMEAN LINKS\tMEAN FRAME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\t%.0fus\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Count,
			run.Frames,
			run.Metrics["mean_links"],
			run.Metrics["mean_frame_us"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, err := runStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	fs, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(fs) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run: %s\nparticles: %d\nframes: %d\n\n", meta.ID, meta.Count, len(fs))
	printPlots(cmd, fs)

	links := bench.LinkSeries(fs)
	if p, ok := bench.DominantPeriod(links); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "dominant link cycle: %.1f frames (%.0f%% of spectrum)\n", p.Period, p.Strength*100)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "dominant link cycle: none")
	}

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.SeriesToSVG(links, 800, 200, export.DefaultColors)), 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", svgOut)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := runStore(cmd)
	if err != nil {
		return err
	}
	if exportOut != "" {
		if err := st.ExportJSON(args[0], exportOut); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", args[0], exportOut)
		return nil
	}

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func themePref(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	kv, err := prefs.OpenSQLite(cfg.Paths.PrefsDB)
	if err != nil {
		return err
	}
	defer kv.Close()
	theme := prefs.NewTheme(kv)

	mode := theme.Load()
	if len(args) == 1 {
		switch args[0] {
		case "toggle":
			if mode, err = theme.Toggle(); err != nil {
				return err
			}
		default:
			if mode, err = prefs.ParseMode(args[0]); err != nil {
				return err
			}
			if err := theme.Set(mode); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mode.Icon(), mode)
	return nil
}
