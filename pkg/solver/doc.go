// Package solver implements the core of a finite-domain constraint
// solver: a reversible trail, a two-level constraint-propagation
// fixpoint, and a depth-first search controller with nogood learning,
// restart policies and an objective manager for satisfaction,
// optimisation and enumeration.
//
// Concrete constraint implementations beyond the abstract Propagator
// contract, a FlatZinc front-end, model builders and CLI tooling are
// external collaborators and are not part of this package.
package solver
