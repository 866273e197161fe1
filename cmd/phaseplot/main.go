package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/phaseplot/internal/catalog"
	"github.com/san-kum/phaseplot/internal/config"
	"github.com/san-kum/phaseplot/internal/dynamo"
	"github.com/san-kum/phaseplot/internal/export"
	"github.com/san-kum/phaseplot/internal/expr"
	"github.com/san-kum/phaseplot/internal/nullcline"
	"github.com/san-kum/phaseplot/internal/sim"
	"github.com/san-kum/phaseplot/internal/storage"
	"github.com/san-kum/phaseplot/internal/tui"
	"github.com/san-kum/phaseplot/internal/viz"
)

var (
	dataDir    string
	configFile string
	systemID   string
	equations  []string
	paramFlags []string
	initFlags  []float64
	t0         float64
	method     string
	dt         float64
	tEnd       float64
	maxSteps   int
	tolerance  float64
	minStep    float64
	maxStep    float64
	adamsOrder int
	noSave     bool
	// Phase window and axes
	xMin, xMax float64
	yMin, yMax float64
	resolution int
	xAxis      int
	yAxis      int
	// Output size
	plotWidth  int
	plotHeight int
	outFile    string
	// Extra catalog file
	systemsFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "phaseplot",
		Short: "ODE phase-portrait toolkit: compile equations, integrate, extract nullclines",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".phaseplot", "run data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a system and store the trajectory",
		RunE:  runSimulation,
	}
	addSelectionFlags(runCmd)
	addSolverFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	nullclinesCmd := &cobra.Command{
		Use:   "nullclines",
		Short: "extract and render nullclines of a planar system",
		RunE:  runNullclines,
	}
	addSelectionFlags(nullclinesCmd)
	addWindowFlags(nullclinesCmd)

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list predefined systems",
		RunE:  listSystems,
	}
	systemsCmd.Flags().StringVar(&systemsFile, "file", "", "additional systems file (yaml)")

	validateCmd := &cobra.Command{
		Use:   "validate [expression...]",
		Short: "check equations without running them",
		RunE:  validateEquations,
	}
	addSelectionFlags(validateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored components against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "graph height")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of a stored run with nullcline overlay",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePortrait,
	}
	addWindowFlags(phaseCmd)
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")
	phaseCmd.Flags().IntVar(&plotWidth, "width", 70, "canvas width in cells")
	phaseCmd.Flags().IntVar(&plotHeight, "height", 22, "canvas height in cells")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	addWindowFlags(exportCmd)
	exportCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	exportCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")
	exportCmd.Flags().IntVar(&plotWidth, "width", 800, "image width in px")
	exportCmd.Flags().IntVar(&plotHeight, "height", 800, "image height in px")
	exportCmd.Flags().StringVar(&outFile, "out", "", "output path (default <run_id>.svg)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "integrate and play back the trajectory in the terminal",
		RunE:  runLive,
	}
	addSelectionFlags(liveCmd)
	addSolverFlags(liveCmd)
	addWindowFlags(liveCmd)
	liveCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	liveCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")

	rootCmd.AddCommand(runCmd, nullclinesCmd, systemsCmd, validateCmd, listCmd, plotCmd, phaseCmd, exportCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&systemID, "system", "", "predefined system id")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringArrayVar(&equations, "eq", nil, "equation line, e.g. 'dx/dt = y' (repeatable)")
	cmd.Flags().StringArrayVar(&paramFlags, "param", nil, "parameter value, e.g. 'mu=1.5' (repeatable)")
	cmd.Flags().Float64SliceVar(&initFlags, "x0", nil, "initial state components")
	cmd.Flags().Float64Var(&t0, "t0", 0, "initial time")
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&method, "method", "", "euler, rk4, rkf45 or adams-bashforth")
	cmd.Flags().Float64Var(&dt, "dt", 0, "fixed step size (initial step for rkf45)")
	cmd.Flags().Float64Var(&tEnd, "time", 0, "end time")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step cap")
	cmd.Flags().Float64Var(&tolerance, "tol", 0, "rkf45 error tolerance")
	cmd.Flags().Float64Var(&minStep, "min-step", 0, "rkf45 minimum step")
	cmd.Flags().Float64Var(&maxStep, "max-step", 0, "rkf45 maximum step")
	cmd.Flags().IntVar(&adamsOrder, "order", 0, "adams-bashforth order (2-4)")
}

func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&xMin, "xmin", -3, "window left edge")
	cmd.Flags().Float64Var(&xMax, "xmax", 3, "window right edge")
	cmd.Flags().Float64Var(&yMin, "ymin", -3, "window bottom edge")
	cmd.Flags().Float64Var(&yMax, "ymax", 3, "window top edge")
	cmd.Flags().IntVar(&resolution, "res", 50, "nullcline grid resolution")
}

// problem is everything a command needs to integrate: the compiled system,
// its parameter values, the starting point and the solver settings.
type problem struct {
	def    *dynamo.EquationDefinition
	params dynamo.Params
	x0     dynamo.State
	t0     float64
	cfg    dynamo.Config
	window config.Window
	res    int
}

// resolveProblem builds the problem from --system, --config or --eq, in that
// precedence, then applies any explicitly set flags on top.
func resolveProblem(cmd *cobra.Command) (*problem, error) {
	var p problem

	switch {
	case systemID != "":
		entry, ok := catalog.Get(systemID)
		if !ok {
			return nil, fmt.Errorf("unknown system %q (see 'phaseplot systems')", systemID)
		}
		def, err := catalog.Compile(entry)
		if err != nil {
			return nil, err
		}
		p.def = def
		p.params = def.Params()
		p.x0 = entry.InitialState(def.Dim())
		p.cfg = entry.SolverConfig()
		p.window = config.Window(entry.Window)
		p.res = 50
	case configFile != "":
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		var def *dynamo.EquationDefinition
		if cfg.System != "" {
			entry, ok := catalog.Get(cfg.System)
			if !ok {
				return nil, fmt.Errorf("unknown system %q in %s", cfg.System, configFile)
			}
			def, err = catalog.Compile(entry)
		} else {
			def, err = expr.CompileDefinition("custom", "custom", "", cfg.Equations, cfg.Params)
		}
		if err != nil {
			return nil, err
		}
		p.def = def
		p.params = mergeParams(def.Params(), cfg.Params)
		p.x0 = dynamo.State(cfg.Initial)
		p.t0 = cfg.T0
		p.cfg = cfg.SolverConfig()
		p.window = cfg.Window
		p.res = cfg.Resolution
	case len(equations) > 0:
		def, err := expr.CompileDefinition("custom", "custom", "", equations, nil)
		if err != nil {
			return nil, err
		}
		p.def = def
		p.params = dynamo.Params{}
		p.cfg = dynamo.DefaultConfig()
		p.window = config.Window{XMin: -3, XMax: 3, YMin: -3, YMax: 3}
		p.res = 50
	default:
		return nil, fmt.Errorf("select a system with --system, --config or --eq")
	}

	flagParams, err := parseParamFlags(paramFlags)
	if err != nil {
		return nil, err
	}
	p.params = mergeParams(p.params, flagParams)

	if len(initFlags) > 0 {
		p.x0 = dynamo.State(initFlags)
	}
	if len(p.x0) == 0 {
		p.x0 = make(dynamo.State, p.def.Dim())
	}
	if len(p.x0) != p.def.Dim() {
		return nil, fmt.Errorf("initial state has %d components, system has %d variables", len(p.x0), p.def.Dim())
	}
	if cmd.Flags().Changed("t0") {
		p.t0 = t0
	}

	applySolverFlags(cmd, &p.cfg)
	applyWindowFlags(cmd, &p)
	return &p, nil
}

func applySolverFlags(cmd *cobra.Command, cfg *dynamo.Config) {
	if cmd.Flags().Changed("method") {
		cfg.Method = dynamo.Method(method)
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.TEnd = tEnd
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("min-step") {
		cfg.MinStep = minStep
	}
	if cmd.Flags().Changed("max-step") {
		cfg.MaxStep = maxStep
	}
	if cmd.Flags().Changed("order") {
		cfg.AdamsOrder = adamsOrder
	}
}

func applyWindowFlags(cmd *cobra.Command, p *problem) {
	if cmd.Flags().Lookup("xmin") == nil {
		return
	}
	if cmd.Flags().Changed("xmin") {
		p.window.XMin = xMin
	}
	if cmd.Flags().Changed("xmax") {
		p.window.XMax = xMax
	}
	if cmd.Flags().Changed("ymin") {
		p.window.YMin = yMin
	}
	if cmd.Flags().Changed("ymax") {
		p.window.YMax = yMax
	}
	if cmd.Flags().Changed("res") {
		p.res = resolution
	}
}

func parseParamFlags(flags []string) (dynamo.Params, error) {
	out := dynamo.Params{}
	for _, f := range flags {
		name, val, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("bad --param %q, want name=value", f)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("bad --param %q: %v", f, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

func mergeParams(base dynamo.Params, over map[string]float64) dynamo.Params {
	merged := base.Clone()
	if merged == nil {
		merged = dynamo.Params{}
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}

func runSimulation(cmd *cobra.Command, args []string) error {
	p, err := resolveProblem(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("integrating %s (%s, dim %d)\n", p.def.Name(), p.cfg.Method, p.def.Dim())
	start := time.Now()
	result, err := sim.Integrate(p.x0, p.t0, p.def, p.params, p.cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(viz.StatusLine(result.Success, result.Message))
	tf, xf := result.Final()
	fmt.Printf("elapsed %v, %d points, final state at t=%.6g:\n", elapsed, len(result.States), tf)
	for i, name := range p.def.Variables() {
		fmt.Printf("  %s = %.6g\n", name, xf[i])
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(p.def, p.params, p.cfg, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runNullclines(cmd *cobra.Command, args []string) error {
	p, err := resolveProblem(cmd)
	if err != nil {
		return err
	}
	if p.def.Dim() != 2 {
		return fmt.Errorf("nullclines need a planar system, %s has dimension %d", p.def.Name(), p.def.Dim())
	}

	set := nullcline.ForSystem(p.def,
		p.params,
		nullcline.Range{Min: p.window.XMin, Max: p.window.XMax},
		nullcline.Range{Min: p.window.YMin, Max: p.window.YMax},
		p.res)

	vars := p.def.Variables()
	fmt.Println(viz.Title(fmt.Sprintf("%s nullclines", p.def.Name())))
	plot := viz.NewPhasePlot(70, 22, p.window.XMin, p.window.XMax, p.window.YMin, p.window.YMax, 0, 1)
	plot.AddNullclines(set)
	fmt.Print(plot.Render())
	fmt.Printf("d%s/dt = 0: %d points   d%s/dt = 0: %d points\n",
		vars[0], len(set.XCurve), vars[1], len(set.YCurve))
	return nil
}

func listSystems(cmd *cobra.Command, args []string) error {
	entries := catalog.List()
	if systemsFile != "" {
		extra, err := catalog.LoadFile(systemsFile)
		if err != nil {
			return err
		}
		entries = append(entries, extra...)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDIM\tMETHOD\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", e.ID, e.Name, len(e.Equations), e.Method, e.Description)
	}
	return w.Flush()
}

func validateEquations(cmd *cobra.Command, args []string) error {
	lines := args
	if len(lines) == 0 {
		p, err := resolveProblem(cmd)
		if err != nil {
			return err
		}
		lines = make([]string, p.def.Dim())
		vars := p.def.Variables()
		for i, rhs := range p.def.Expressions() {
			lines[i] = fmt.Sprintf("d%s/dt = %s", vars[i], rhs)
		}
	}

	vars, rhs, err := expr.ParseEquations(lines)
	if err != nil {
		return err
	}
	for i, r := range rhs {
		if err := expr.Validate(r, vars); err != nil {
			return fmt.Errorf("d%s/dt: %w", vars[i], err)
		}
	}
	params, err := expr.Parameters(rhs, vars)
	if err != nil {
		return err
	}

	fmt.Println(viz.StatusLine(true, "ok"))
	fmt.Printf("variables:  %s\n", strings.Join(vars, ", "))
	if len(params) > 0 {
		fmt.Printf("parameters: %s\n", strings.Join(params, ", "))
	}
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
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tMETHOD\tSTEPS\tOK")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%v\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Method,
			run.Steps,
			run.Success,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(viz.Title(fmt.Sprintf("%s (%s)", meta.Name, meta.ID)))
	fmt.Print(viz.AllSeries(result, meta.Variables, plotHeight))
	return nil
}

// loadWithNullclines reloads a stored run and, for planar systems,
// recompiles its equations to recover the nullcline overlay.
func loadWithNullclines(runID string, w config.Window, res int) (*storage.RunMetadata, *dynamo.Result, nullcline.Set, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nullcline.Set{}, err
	}
	result, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, nullcline.Set{}, err
	}

	var set nullcline.Set
	if len(meta.Variables) == 2 {
		def, err := expr.CompileDefinition(meta.System, meta.Name, "", meta.Equations, meta.Params)
		if err == nil {
			set = nullcline.ForSystem(def, dynamo.Params(meta.Params),
				nullcline.Range{Min: w.XMin, Max: w.XMax},
				nullcline.Range{Min: w.YMin, Max: w.YMax},
				res)
		}
	}
	return meta, result, set, nil
}

func phasePortrait(cmd *cobra.Command, args []string) error {
	w := config.Window{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
	meta, result, set, err := loadWithNullclines(args[0], w, resolution)
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if len(result.States[0]) <= xAxis || len(result.States[0]) <= yAxis {
		return fmt.Errorf("state dimension too small for selected axes")
	}

	fmt.Println(viz.Title(fmt.Sprintf("%s phase portrait", meta.Name)))
	plot := viz.NewPhasePlot(plotWidth, plotHeight, w.XMin, w.XMax, w.YMin, w.YMax, xAxis, yAxis)
	plot.AddNullclines(set)
	plot.AddTrajectory(result)
	fmt.Print(plot.Render())
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	w := config.Window{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
	_, result, set, err := loadWithNullclines(args[0], w, resolution)
	if err != nil {
		return err
	}

	svg := export.PhaseSVG(result, set, export.PhaseOptions{
		Width: plotWidth, Height: plotHeight,
		XMin: w.XMin, XMax: w.XMax, YMin: w.YMin, YMax: w.YMax,
		XIndex: xAxis, YIndex: yAxis,
	})
	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := export.WriteFile(path, svg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	p, err := resolveProblem(cmd)
	if err != nil {
		return err
	}

	result, err := sim.Integrate(p.x0, p.t0, p.def, p.params, p.cfg)
	if err != nil {
		return err
	}
	if !result.Success {
		fmt.Println(viz.StatusLine(false, result.Message))
	}

	var set nullcline.Set
	if p.def.Dim() == 2 {
		set = nullcline.ForSystem(p.def, p.params,
			nullcline.Range{Min: p.window.XMin, Max: p.window.XMax},
			nullcline.Range{Min: p.window.YMin, Max: p.window.YMax},
			p.res)
	}

	return tui.Run(result, set, tui.Options{
		Title: p.def.Name(),
		XMin:  p.window.XMin, XMax: p.window.XMax,
		YMin: p.window.YMin, YMax: p.window.YMax,
		XIndex: xAxis, YIndex: yAxis,
	})
}
