package program

import (
	"fmt"
	"sort"
	"strings"
)

// VarID is a handle onto a variable that has been declared in a Program.
type VarID int

// Expr is a linear expression: a sum of coefficient*variable terms plus a constant.
// Expr values are never modified in place, every operation returns a new Expr.
type Expr struct {
	coefs    map[VarID]float64
	constant float64
}

// Const returns an expression holding only the constant `c`.
func Const(c float64) Expr {
	return Expr{constant: c}
}

// Var returns the expression `1*v`.
func Var(v VarID) Expr {
	return Expr{coefs: map[VarID]float64{v: 1}}
}

// Term returns the expression `coef*v`.
func Term(coef float64, v VarID) Expr {
	return Var(v).Scale(coef)
}

// Sum adds all of the given expressions together. The sum of no expressions is zero.
func Sum(exprs ...Expr) Expr {
	total := Expr{}
	for _, e := range exprs {
		total = total.Add(e)
	}
	return total
}

// Add returns e + o.
func (e Expr) Add(o Expr) Expr {
	return e.combine(o, 1)
}

// Sub returns e - o.
func (e Expr) Sub(o Expr) Expr {
	return e.combine(o, -1)
}

// Scale returns k*e.
func (e Expr) Scale(k float64) Expr {
	out := Expr{constant: e.constant * k}
	if len(e.coefs) > 0 {
		out.coefs = make(map[VarID]float64, len(e.coefs))
		for v, c := range e.coefs {
			if c*k != 0 {
				out.coefs[v] = c * k
			}
		}
	}
	return out
}

func (e Expr) combine(o Expr, sign float64) Expr {
	out := Expr{
		constant: e.constant + sign*o.constant,
		coefs:    make(map[VarID]float64, len(e.coefs)+len(o.coefs)),
	}
	for v, c := range e.coefs {
		out.coefs[v] = c
	}
	for v, c := range o.coefs {
		sum := out.coefs[v] + sign*c
		if sum == 0 {
			delete(out.coefs, v)
			continue
		}
		out.coefs[v] = sum
	}
	return out
}

// Coef returns the coefficient of `v` in the expression, zero if `v` does not appear.
func (e Expr) Coef(v VarID) float64 {
	return e.coefs[v]
}

// Constant returns the constant part of the expression.
func (e Expr) Constant() float64 {
	return e.constant
}

// Vars returns the variables with a non-zero coefficient, in ascending order.
func (e Expr) Vars() []VarID {
	vars := make([]VarID, 0, len(e.coefs))
	for v := range e.coefs {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

// IsConstant returns true if no variable appears in the expression.
func (e Expr) IsConstant() bool {
	return len(e.coefs) == 0
}

// Eval returns the value of the expression for the given variable assignment. Variables missing from
// `values` are taken to be zero.
func (e Expr) Eval(values map[VarID]float64) float64 {
	total := e.constant
	for v, c := range e.coefs {
		total += c * values[v]
	}
	return total
}

// Equal returns true if both expressions have identical terms, allowing for the given tolerance on each coefficient.
func (e Expr) Equal(o Expr, tolerance float64) bool {
	diff := e.Sub(o)
	if abs(diff.constant) > tolerance {
		return false
	}
	for _, c := range diff.coefs {
		if abs(c) > tolerance {
			return false
		}
	}
	return true
}

// Format renders the expression using the given naming function for variables, e.g. "3 x[1] - 2 y + 4".
func (e Expr) Format(name func(VarID) string) string {
	var b strings.Builder
	for i, v := range e.Vars() {
		c := e.coefs[v]
		switch {
		case i == 0 && c < 0:
			b.WriteString("- ")
		case i > 0 && c < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g %s", abs(c), name(v))
	}
	if e.constant != 0 || len(e.coefs) == 0 {
		switch {
		case len(e.coefs) == 0:
			fmt.Fprintf(&b, "%g", e.constant)
		case e.constant < 0:
			fmt.Fprintf(&b, " - %g", -e.constant)
		default:
			fmt.Fprintf(&b, " + %g", e.constant)
		}
	}
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
