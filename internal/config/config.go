// Package config loads and validates evaluation configuration from yaml.
package config

import (
	"fmt"
	"os"

	"github.com/schweinebauch/iSAC-quadrotor/internal/cost"
	"github.com/schweinebauch/iSAC-quadrotor/internal/traj"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultAbsTol   = 1e-5
	DefaultRelTol   = 1e-5
	DefaultStep     = 0.01
	DefaultEpsilon  = 1e-7

	// StateDim is the planar quadrotor state dimension the config targets.
	StateDim = 6
)

type Config struct {
	Controller string             `yaml:"controller"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	InitState  InitStateConfig    `yaml:"init_state"`
	Target     TargetConfig       `yaml:"target"`
	Reference  ReferenceConfig    `yaml:"reference"`
	Cost       CostConfig         `yaml:"cost"`
	Model      map[string]float64 `yaml:"model"`
}

type InitStateConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Theta float64 `yaml:"theta"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
	Omega float64 `yaml:"omega"`
}

type TargetConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type ReferenceConfig struct {
	Type     string    `yaml:"type"` // hover | circle
	Setpoint []float64 `yaml:"setpoint"`
	CenterX  float64   `yaml:"center_x"`
	CenterY  float64   `yaml:"center_y"`
	Radius   float64   `yaml:"radius"`
	Omega    float64   `yaml:"omega"`
}

type CostConfig struct {
	TerminalP   [][]float64 `yaml:"terminal_p"`
	RunningQ    []float64   `yaml:"running_q"` // diagonal
	WrapIndices []int       `yaml:"wrap_indices"`
	AbsTol      float64     `yaml:"abs_tol"`
	RelTol      float64     `yaml:"rel_tol"`
	InitialStep float64     `yaml:"initial_step"`
	Epsilon     float64     `yaml:"epsilon"`
}

func DefaultConfig() *Config {
	return &Config{
		Controller: "lqr",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		InitState:  InitStateConfig{Y: 1.0},
		Target:     TargetConfig{Y: 1.0},
		Reference:  ReferenceConfig{Type: "hover", Setpoint: []float64{0, 1, 0, 0, 0, 0}},
		Cost: CostConfig{
			TerminalP:   diagonalRows([]float64{10, 10, 1, 1, 1, 1}),
			RunningQ:    []float64{1, 1, 0.1, 0.1, 0.1, 0.1},
			WrapIndices: []int{2},
			AbsTol:      DefaultAbsTol,
			RelTol:      DefaultRelTol,
			InitialStep: DefaultStep,
			Epsilon:     DefaultEpsilon,
		},
	}
}

func diagonalRows(diag []float64) [][]float64 {
	rows := make([][]float64, len(diag))
	for i, v := range diag {
		rows[i] = make([]float64, len(diag))
		rows[i][i] = v
	}
	return rows
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects malformed cost configuration before anything is
// constructed from it.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %v", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %v", c.Duration)
	}

	n := len(c.Cost.TerminalP)
	if n == 0 {
		return fmt.Errorf("config: terminal_p is empty")
	}
	for i, row := range c.Cost.TerminalP {
		if len(row) != n {
			return fmt.Errorf("config: terminal_p row %d has %d entries, want %d", i, len(row), n)
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if c.Cost.TerminalP[i][j] != c.Cost.TerminalP[j][i] {
				return fmt.Errorf("config: terminal_p is not symmetric at (%d,%d)", i, j)
			}
		}
	}
	if len(c.Cost.RunningQ) != n {
		return fmt.Errorf("config: running_q has %d entries, terminal_p dimension is %d", len(c.Cost.RunningQ), n)
	}

	if err := cost.ValidateWrapIndices(c.Cost.WrapIndices, StateDim); err != nil {
		return err
	}

	if c.Cost.AbsTol < 0 || c.Cost.RelTol < 0 {
		return fmt.Errorf("config: tolerances must be non-negative")
	}
	if c.Cost.Epsilon < 0 {
		return fmt.Errorf("config: epsilon must be non-negative, got %v", c.Cost.Epsilon)
	}

	switch c.Reference.Type {
	case "hover":
		if len(c.Reference.Setpoint) != n {
			return fmt.Errorf("config: hover setpoint has %d entries, cost dimension is %d", len(c.Reference.Setpoint), n)
		}
	case "circle":
		if c.Reference.Radius <= 0 {
			return fmt.Errorf("config: circle radius must be positive, got %v", c.Reference.Radius)
		}
	default:
		return fmt.Errorf("config: unknown reference type %q", c.Reference.Type)
	}

	return nil
}

// TerminalModel builds the quadratic terminal cost from terminal_p.
func (c *Config) TerminalModel() (*cost.Quadratic, error) {
	n := len(c.Cost.TerminalP)
	data := make([]float64, 0, n*n)
	for _, row := range c.Cost.TerminalP {
		data = append(data, row...)
	}
	return cost.NewQuadratic(mat.NewSymDense(n, data))
}

// RunningModel builds the quadratic running-cost weight from running_q.
func (c *Config) RunningModel() (*cost.Quadratic, error) {
	n := len(c.Cost.RunningQ)
	data := make([]float64, n*n)
	for i, v := range c.Cost.RunningQ {
		data[i*n+i] = v
	}
	return cost.NewQuadratic(mat.NewSymDense(n, data))
}

// BuildReference constructs the configured reference provider.
func (c *Config) BuildReference() (traj.Reference, error) {
	switch c.Reference.Type {
	case "hover":
		return traj.NewHover(c.Reference.Setpoint), nil
	case "circle":
		return &traj.Circle{
			CenterX: c.Reference.CenterX,
			CenterY: c.Reference.CenterY,
			Radius:  c.Reference.Radius,
			Omega:   c.Reference.Omega,
		}, nil
	default:
		return nil, fmt.Errorf("config: unknown reference type %q", c.Reference.Type)
	}
}

// GetInitState returns the configured initial quadrotor state.
func (c *Config) GetInitState() []float64 {
	return []float64{
		c.InitState.X, c.InitState.Y, c.InitState.Theta,
		c.InitState.VX, c.InitState.VY, c.InitState.Omega,
	}
}
