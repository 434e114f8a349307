// Package calcengine is the expression evaluation and numerical methods
// core of a scientific calculator. It parses infix algebraic expressions
// into a typed value system covering reals, complex numbers, and real
// matrices, and builds the numerical tooling a graphing front end needs
// on top of the same evaluator: a point sampler, a multi-seed
// Newton-Raphson root finder, a 2x2 linear system solver, a quadratic
// classifier, and a matrix operation dispatcher.
//
// Every public operation is a pure function of its inputs. The package
// holds no global state, so values and operations are safe for
// concurrent use from multiple goroutines.
package calcengine
