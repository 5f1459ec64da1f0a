package bloch

import (
	"errors"
	"fmt"
)

// ErrConfig is the sentinel every ConfigurationError unwraps to.
var ErrConfig = errors.New("bloch: invalid configuration")

// ErrAssembly indicates an internal inconsistency in the symbolic
// reduction (e.g. a population derivative with an imaginary residue).
// Hitting it means a bug in this package, not bad caller input.
var ErrAssembly = errors.New("bloch: internal assembly inconsistency")

// ConfigurationError reports an inconsistent or incomplete level/field
// topology, detected at Hamiltonian-build time. It carries the identity
// of the offending coupling and transition (index -1 when not relevant).
type ConfigurationError struct {
	Coupling   int
	Transition int
	Reason     string
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("bloch: configuration: coupling %d, transition %d: %s",
		e.Coupling, e.Transition, e.Reason)
}

// Unwrap lets errors.Is(err, ErrConfig) match any configuration error.
func (e *ConfigurationError) Unwrap() error { return ErrConfig }
