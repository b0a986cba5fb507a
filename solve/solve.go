// Package solve finds an optimal assignment for a program.Program using gonum's simplex implementation.
//
// It is intended for checking built models and for small studies, large models should be exported in LP format
// and handed to a dedicated solver.
package solve

import (
	"errors"
	"fmt"

	"github.com/cepro/chargecap/program"
	"golang.org/x/exp/slog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// tolerance is used for the simplex pivots and for checking trivially satisfied constraints
const tolerance = 1e-9

var (
	ErrInfeasible = errors.New("program is infeasible")
	ErrUnbounded  = errors.New("program is unbounded")
)

// Solution holds an optimal assignment of the program variables.
type Solution struct {
	Objective float64
	values    map[program.VarID]float64
}

// Value returns the optimal value of variable `v`.
func (s Solution) Value(v program.VarID) float64 {
	return s.values[v]
}

// Values returns a copy of the full assignment.
func (s Solution) Values() map[program.VarID]float64 {
	out := make(map[program.VarID]float64, len(s.values))
	for v, x := range s.values {
		out[v] = x
	}
	return out
}

// Eval returns the value of the expression `e` under the solution.
func (s Solution) Eval(e program.Expr) float64 {
	return e.Eval(s.values)
}

// row is a constraint in the standard form `sum(coefs * x) = rhs`
type row struct {
	coefs map[int]float64 // keyed by column
	rhs   float64
}

// Solve minimises the objective of `p` subject to its constraints and variable non-negativity.
//
// The program is converted to the standard form `min c'x s.t. Ax = b, x >= 0` by adding a slack column per
// inequality. Variables that appear in no constraint are fixed at zero when their cost is non-negative, otherwise
// the program is unbounded.
func Solve(p *program.Program) (Solution, error) {
	logger := slog.Default().With("program_id", p.ID.String())

	objective := p.Objective()
	constraints := p.Constraints()

	// give each variable that appears in a constraint a column
	columns := make(map[program.VarID]int)
	var columnVars []program.VarID
	for _, c := range constraints {
		for _, v := range c.Expr.Vars() {
			if _, ok := columns[v]; !ok {
				columns[v] = len(columnVars)
				columnVars = append(columnVars, v)
			}
		}
	}
	for id := 0; id < p.NumVariables(); id++ {
		v := program.VarID(id)
		if _, ok := columns[v]; !ok && objective.Coef(v) < 0 {
			return Solution{}, fmt.Errorf("%w: %s decreases the objective without limit", ErrUnbounded, p.VariableKey(v))
		}
	}

	numCols := len(columnVars)
	var rows []row
	for _, c := range constraints {
		if c.Expr.IsConstant() {
			if !c.Satisfied(nil, tolerance) {
				return Solution{}, fmt.Errorf("%w: constraint %s can never hold", ErrInfeasible, c.Key)
			}
			continue
		}

		r := row{coefs: make(map[int]float64), rhs: c.RHS}
		for _, v := range c.Expr.Vars() {
			r.coefs[columns[v]] = c.Expr.Coef(v)
		}
		switch c.Sense {
		case program.LessEqual:
			r.coefs[numCols] = 1
			numCols++
		case program.GreaterEqual:
			r.coefs[numCols] = -1
			numCols++
		}
		if r.rhs < 0 {
			for col := range r.coefs {
				r.coefs[col] = -r.coefs[col]
			}
			r.rhs = -r.rhs
		}
		rows = append(rows, r)
	}

	values := make(map[program.VarID]float64, p.NumVariables())
	for id := 0; id < p.NumVariables(); id++ {
		values[program.VarID(id)] = 0
	}

	if len(rows) == 0 {
		logger.Debug("Program has no constraints, all variables are zero")
		return Solution{Objective: objective.Eval(values), values: values}, nil
	}

	if len(rows) > numCols {
		// the simplex implementation needs at least as many columns as equality rows
		return Solution{}, fmt.Errorf("%d rows over %d columns: program is over-determined", len(rows), numCols)
	}

	c := make([]float64, numCols)
	for col, v := range columnVars {
		c[col] = objective.Coef(v)
	}
	A := mat.NewDense(len(rows), numCols, nil)
	b := make([]float64, len(rows))
	for i, r := range rows {
		for col, coef := range r.coefs {
			A.Set(i, col, coef)
		}
		b[i] = r.rhs
	}

	_, x, err := lp.Simplex(c, A, b, tolerance, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return Solution{}, fmt.Errorf("%w: %w", ErrInfeasible, err)
		case errors.Is(err, lp.ErrUnbounded):
			return Solution{}, fmt.Errorf("%w: %w", ErrUnbounded, err)
		default:
			return Solution{}, fmt.Errorf("simplex: %w", err)
		}
	}

	for col, v := range columnVars {
		values[v] = x[col]
	}
	solution := Solution{Objective: objective.Eval(values), values: values}

	logger.Debug(
		"Solved program",
		"rows", len(rows),
		"columns", numCols,
		"objective", solution.Objective,
	)

	return solution, nil
}
