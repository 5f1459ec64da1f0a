package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/viper"

	"github.com/qoptix/bloch/atom"
	"github.com/qoptix/bloch/doppler"
	"github.com/qoptix/bloch/field"
	"github.com/qoptix/bloch/solve"
)

// ErrScenario reports an invalid or inconsistent scenario document.
var ErrScenario = errors.New("config: invalid scenario")

// Scenario mirrors the YAML document structure.
type Scenario struct {
	States []struct {
		Label  string  `mapstructure:"label"`
		Energy float64 `mapstructure:"energy"`
		Gamma  float64 `mapstructure:"gamma"`
		F      float64 `mapstructure:"f"`
		M      float64 `mapstructure:"m"`
	} `mapstructure:"states"`

	Transitions []struct {
		Upper  int     `mapstructure:"upper"`
		Lower  int     `mapstructure:"lower"`
		Rate   float64 `mapstructure:"rate"`
		Dipole float64 `mapstructure:"dipole"`
	} `mapstructure:"transitions"`

	// DecayOverrides replace the partial rate of existing transitions,
	// e.g. to zero out a channel or apply measured values.
	DecayOverrides []struct {
		Upper int     `mapstructure:"upper"`
		Lower int     `mapstructure:"lower"`
		Rate  float64 `mapstructure:"rate"`
	} `mapstructure:"decay_overrides"`

	Couplings []struct {
		Field        int     `mapstructure:"field"`
		Transition   int     `mapstructure:"transition"`
		Polarization string  `mapstructure:"polarization"`
		Detuning     float64 `mapstructure:"detuning"`
		Rabi         float64 `mapstructure:"rabi"`
		Wavevector   float64 `mapstructure:"wavevector"`
	} `mapstructure:"couplings"`

	Mode string `mapstructure:"mode"`

	// Sweep takes either an explicit Values list or a From/To/Points
	// uniform grid; Values wins when both are present.
	Sweep struct {
		Coupling int       `mapstructure:"coupling"`
		From     float64   `mapstructure:"from"`
		To       float64   `mapstructure:"to"`
		Points   int       `mapstructure:"points"`
		Values   []float64 `mapstructure:"values"`
	} `mapstructure:"sweep"`

	Doppler struct {
		Temperature float64 `mapstructure:"temperature"`
		Mass        float64 `mapstructure:"mass"`
		Points      int     `mapstructure:"points"`
		WidthSigmas float64 `mapstructure:"width_sigmas"`
	} `mapstructure:"doppler"`

	Solver struct {
		AbsTol   float64 `mapstructure:"abs_tol"`
		RelTol   float64 `mapstructure:"rel_tol"`
		MaxSteps int     `mapstructure:"max_steps"`
	} `mapstructure:"solver"`

	Observable string `mapstructure:"observable"`
}

// Setup is the runtime form of a scenario, ready to compile and sweep.
type Setup struct {
	Model     *atom.Model
	Couplings []field.Coupling

	// Params is the base parameter vector at line centre.
	Params []float64

	// Detunings is the sweep axis for the scanned coupling.
	Detunings     []float64
	SweepCoupling int

	Grid       *doppler.VelocityGrid
	Mode       solve.Mode
	Options    solve.Options
	Observable doppler.Observable
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScenario, err)
	}

	return decode(v)
}

// Read parses a YAML scenario from r.
func Read(r io.Reader) (*Scenario, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScenario, err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Scenario, error) {
	var sc Scenario
	if err := v.Unmarshal(&sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScenario, err)
	}

	return &sc, nil
}

// Build validates the scenario and assembles the runtime objects.
func (sc *Scenario) Build() (*Setup, error) {
	states := make([]atom.State, len(sc.States))
	for i, s := range sc.States {
		states[i] = atom.State{Label: s.Label, Energy: s.Energy, Gamma: s.Gamma, F: s.F, M: s.M}
	}
	transitions := make([]atom.Transition, len(sc.Transitions))
	for k, t := range sc.Transitions {
		transitions[k] = atom.Transition{Upper: t.Upper, Lower: t.Lower, Rate: t.Rate, Dipole: t.Dipole}
	}
	opts := make([]atom.Option, 0, len(sc.DecayOverrides))
	for _, ov := range sc.DecayOverrides {
		opts = append(opts, atom.WithDecayOverride(ov.Upper, ov.Lower, ov.Rate))
	}
	model, err := atom.New(states, transitions, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScenario, err)
	}

	couplings := make([]field.Coupling, len(sc.Couplings))
	params := make([]float64, field.NumParams(couplings))
	for k, c := range sc.Couplings {
		pol, err := field.ParsePolarization(c.Polarization)
		if err != nil {
			return nil, fmt.Errorf("%w: coupling %d: %v", ErrScenario, k, err)
		}
		couplings[k] = field.Coupling{
			Field:        c.Field,
			Transition:   c.Transition,
			Polarization: pol,
			Wavevector:   c.Wavevector,
		}
		params[field.DetuningIndex(k)] = c.Detuning
		params[field.RabiIndex(k)] = c.Rabi
	}

	set := &Setup{
		Model:         model,
		Couplings:     couplings,
		Params:        params,
		SweepCoupling: sc.Sweep.Coupling,
		Options:       solve.DefaultOptions(),
	}

	switch sc.Mode {
	case "", "steady":
		set.Mode = solve.SteadyState
	case "evolve":
		set.Mode = solve.TimeEvolution
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrScenario, sc.Mode)
	}

	if sc.Solver.AbsTol > 0 {
		set.Options.AbsTol = sc.Solver.AbsTol
	}
	if sc.Solver.RelTol > 0 {
		set.Options.RelTol = sc.Solver.RelTol
	}
	if sc.Solver.MaxSteps > 0 {
		set.Options.MaxSteps = sc.Solver.MaxSteps
	}

	switch {
	case len(sc.Sweep.Values) > 0:
		set.Detunings = append([]float64(nil), sc.Sweep.Values...)
	case sc.Sweep.Points == 1:
		set.Detunings = []float64{sc.Sweep.From}
	case sc.Sweep.Points > 1:
		set.Detunings = make([]float64, sc.Sweep.Points)
		dx := (sc.Sweep.To - sc.Sweep.From) / float64(sc.Sweep.Points-1)
		for i := range set.Detunings {
			set.Detunings[i] = sc.Sweep.From + float64(i)*dx
		}
	}
	if len(set.Detunings) > 0 && (sc.Sweep.Coupling < 0 || sc.Sweep.Coupling >= len(couplings)) {
		return nil, fmt.Errorf("%w: sweep coupling %d out of range", ErrScenario, sc.Sweep.Coupling)
	}

	if sc.Doppler.Temperature > 0 {
		width := sc.Doppler.WidthSigmas
		if width == 0 {
			width = 4
		}
		points := sc.Doppler.Points
		if points == 0 {
			points = 101
		}
		grid, err := doppler.NewVelocityGrid(sc.Doppler.Temperature, sc.Doppler.Mass, points, width)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScenario, err)
		}
		set.Grid = grid
	}

	if sc.Observable != "" {
		obs, err := doppler.ParseObservable(sc.Observable)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrScenario, err)
		}
		set.Observable = obs
	}

	return set, nil
}
