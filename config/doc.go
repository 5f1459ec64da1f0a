// Package config loads sweep scenarios from YAML files.
//
// A scenario names the level structure, the driving fields, the solver
// mode and the observable in one document, and Build turns it into the
// validated runtime objects the solver packages consume. Parsing is
// strict about enumerations: an unknown polarization, mode or observable
// fails Build instead of defaulting.
package config
