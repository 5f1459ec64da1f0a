package solve_test

import (
	"context"
	"fmt"

	"github.com/qoptix/bloch/atom"
	"github.com/qoptix/bloch/bloch"
	"github.com/qoptix/bloch/compile"
	"github.com/qoptix/bloch/field"
	"github.com/qoptix/bloch/solve"
)

// ExampleSteady solves a resonantly driven two-level atom (γ = 6, Ω = 2)
// and prints the excited-state population, which the closed form
// (Ω²/4)/(γ²/4 + Ω²/2) puts at exactly 1/11.
func ExampleSteady() {
	m, _ := atom.New(
		[]atom.State{
			{Label: "g", Energy: 0},
			{Label: "e", Energy: 2.4e15},
		},
		[]atom.Transition{{Upper: 1, Lower: 0, Rate: 6, Dipole: 1}},
	)
	sys, _ := bloch.Assemble(m, []field.Coupling{{Field: 0, Transition: 0, Polarization: field.Pi}})
	md, _ := compile.Compile(sys)

	x, _ := solve.Steady(context.Background(), md, []float64{0, 2}, solve.DefaultOptions())
	fmt.Printf("ρ_ee = %.4f\n", sys.Unknowns().PopulationValue(x, 1))
	// Output:
	// ρ_ee = 0.0909
}
