package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schweinebauch/iSAC-quadrotor/internal/config"
	"github.com/schweinebauch/iSAC-quadrotor/internal/controllers"
	"github.com/schweinebauch/iSAC-quadrotor/internal/cost"
	"github.com/schweinebauch/iSAC-quadrotor/internal/dynamo"
	"github.com/schweinebauch/iSAC-quadrotor/internal/integrators"
	"github.com/schweinebauch/iSAC-quadrotor/internal/metrics"
	"github.com/schweinebauch/iSAC-quadrotor/internal/quad"
	"github.com/schweinebauch/iSAC-quadrotor/internal/sim"
	"github.com/schweinebauch/iSAC-quadrotor/internal/storage"
	"github.com/schweinebauch/iSAC-quadrotor/internal/traj"
	"github.com/schweinebauch/iSAC-quadrotor/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	controller string
	dt         float64
	duration   float64
	method     string
	noSave     bool
	noPlot     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "isac",
		Short: "trajectory-tracking cost evaluation for the planar quadrotor",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".isac", "data directory")

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "roll out a candidate trajectory and evaluate its tracking cost",
		RunE:  runEval,
	}
	evalCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	evalCmd.Flags().StringVar(&controller, "controller", "", "controller (lqr|pid|none)")
	evalCmd.Flags().Float64Var(&dt, "dt", 0, "rollout timestep")
	evalCmd.Flags().Float64Var(&duration, "time", 0, "rollout duration")
	evalCmd.Flags().StringVar(&method, "method", "adaptive", "running-cost integration (adaptive|trapezoid)")
	evalCmd.Flags().BoolVar(&noSave, "no-save", false, "skip persisting the run")
	evalCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the cost-trace plot")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "live view: cost re-evaluated as the rollout grows",
		RunE:  runWatch,
	}
	watchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	watchCmd.Flags().StringVar(&controller, "controller", "", "controller (lqr|pid|none)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored evaluation runs",
		RunE:  runList,
	}

	rootCmd.AddCommand(evalCmd, watchCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}
	if controller != "" {
		cfg.Controller = controller
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildModel(cfg *config.Config) (*quad.Quad, error) {
	q := quad.New()
	for name, value := range cfg.Model {
		if err := q.SetParam(name, value); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func buildController(cfg *config.Config, q *quad.Quad) (dynamo.Controller, error) {
	switch cfg.Controller {
	case "lqr":
		return controllers.NewQuadHoverLQR(q, cfg.Target.X, cfg.Target.Y), nil
	case "pid":
		return controllers.NewAltitudePID(4.0, 0.5, 3.0, cfg.Target.Y, q.HoverThrust()), nil
	case "none":
		return controllers.NewNone(q.ControlDim()), nil
	default:
		return nil, fmt.Errorf("unknown controller: %s", cfg.Controller)
	}
}

// buildTracker wires the cost pipeline for a trajectory source.
func buildTracker(cfg *config.Config, interp traj.Interpolator, ref traj.Reference) (*cost.Tracker, *cost.TrackingIntegrand, error) {
	terminal, err := cfg.TerminalModel()
	if err != nil {
		return nil, nil, err
	}
	runningForm, err := cfg.RunningModel()
	if err != nil {
		return nil, nil, err
	}
	proj := cost.NewIdentity(config.StateDim)

	running, err := cost.NewTrackingIntegrand(interp, ref, proj, runningForm, cfg.Cost.WrapIndices)
	if err != nil {
		return nil, nil, err
	}

	tracker, err := cost.New(interp, cost.Options{
		Terminal:    terminal,
		Running:     running,
		Projector:   proj,
		Reference:   ref,
		WrapIndices: cfg.Cost.WrapIndices,
		StateDim:    config.StateDim,
		Epsilon:     cfg.Cost.Epsilon,
		Integration: integrators.Config{
			InitialStep: cfg.Cost.InitialStep,
			AbsTol:      cfg.Cost.AbsTol,
			RelTol:      cfg.Cost.RelTol,
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return tracker, running, nil
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	q, err := buildModel(cfg)
	if err != nil {
		return err
	}
	ctrl, err := buildController(cfg, q)
	if err != nil {
		return err
	}
	ref, err := cfg.BuildReference()
	if err != nil {
		return err
	}

	runner := sim.New(q, integrators.NewRK4(), ctrl)
	trackErr := metrics.NewTrackingError(ref)
	effort := metrics.NewControlEffort(q.HoverThrust())
	runner.AddMetric(trackErr)
	runner.AddMetric(effort)

	trajectory, err := runner.Run(context.Background(), dynamo.State(cfg.GetInitState()), sim.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		ValidateState: true,
	})
	if err != nil {
		return err
	}

	tracker, running, err := buildTracker(cfg, trajectory, ref)
	if err != nil {
		return err
	}

	if err := tracker.Update(); err != nil {
		return err
	}
	total, err := tracker.Value()
	if err != nil {
		return err
	}
	steps := tracker.Steps()
	terminal, err := tracker.TerminalCost()
	if err != nil {
		return err
	}

	if method == "trapezoid" {
		integral, intervals, err := cost.Trapezoid(running, trajectory)
		if err != nil {
			return err
		}
		total = terminal + integral
		steps = intervals
	} else if method != "adaptive" {
		return fmt.Errorf("unknown method: %s", method)
	}

	grad, err := tracker.TerminalGradient()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "controller\t%s\n", cfg.Controller)
	fmt.Fprintf(w, "reference\t%s\n", cfg.Reference.Type)
	fmt.Fprintf(w, "window\t[%.3f, %.3f]\n", running.Begin(), running.End())
	fmt.Fprintf(w, "total cost\t%.6f\n", total)
	fmt.Fprintf(w, "terminal cost\t%.6f\n", terminal)
	fmt.Fprintf(w, "integration steps\t%d\n", steps)
	fmt.Fprintf(w, "tracking error\t%.4f\n", trackErr.Value())
	fmt.Fprintf(w, "control effort\t%.4f\n", effort.Value())
	fmt.Fprintf(w, "terminal gradient\t%v\n", grad.RawVector().Data)
	w.Flush()

	times, rates, err := sampleTrace(running, trajectory)
	if err != nil {
		return err
	}

	if !noPlot {
		fmt.Println()
		fmt.Println(viz.PlotTrace(rates, 70, 12, "running cost rate l(x(t))"))
	}

	if !noSave {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		id, err := store.Save(storage.RunMetadata{
			Controller:   cfg.Controller,
			Reference:    cfg.Reference.Type,
			Dt:           cfg.Dt,
			Duration:     cfg.Duration,
			TotalCost:    total,
			TerminalCost: terminal,
			Steps:        steps,
			Metrics: map[string]float64{
				trackErr.Name(): trackErr.Value(),
				effort.Name():   effort.Value(),
			},
		}, times, rates)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved run %s\n", id)
	}

	return nil
}

// sampleTrace evaluates the running-cost rate on the trajectory grid.
func sampleTrace(running *cost.TrackingIntegrand, trajectory *traj.Trajectory) (times, rates []float64, err error) {
	n := trajectory.Len()
	times = make([]float64, n)
	rates = make([]float64, n)
	for i := 0; i < n; i++ {
		t, _ := trajectory.At(i)
		r, err := running.Rate(t, 0)
		if err != nil {
			return nil, nil, err
		}
		times[i] = t
		rates[i] = r
	}
	return times, rates, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	q, err := buildModel(cfg)
	if err != nil {
		return err
	}
	ctrl, err := buildController(cfg, q)
	if err != nil {
		return err
	}
	ref, err := cfg.BuildReference()
	if err != nil {
		return err
	}

	x0 := dynamo.State(cfg.GetInitState())
	trajectory := traj.New(int(cfg.Duration/cfg.Dt) + 1)
	if err := trajectory.Append(0, x0); err != nil {
		return err
	}

	tracker, _, err := buildTracker(cfg, trajectory, ref)
	if err != nil {
		return err
	}

	live := viz.NewLive(q, integrators.NewRK4(), ctrl, tracker, trajectory, x0, cfg.Dt, cfg.Duration)
	_, err = tea.NewProgram(live).Run()
	return err
}

func runList(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONTROLLER\tREFERENCE\tDURATION\tTOTAL COST\tSTEPS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.4f\t%d\n",
			r.ID, r.Controller, r.Reference, r.Duration, r.TotalCost, r.Steps)
	}
	return w.Flush()
}
