package program

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnknownKey   = errors.New("unknown key")
)

// Key names a variable, expression or constraint. An Index below zero marks an un-indexed (scalar) entry.
type Key struct {
	Name  string
	Index int
}

// Scalar returns a key without an index.
func Scalar(name string) Key {
	return Key{Name: name, Index: -1}
}

// Indexed returns the key name[index].
func Indexed(name string, index int) Key {
	return Key{Name: name, Index: index}
}

func (k Key) String() string {
	if k.Index < 0 {
		return k.Name
	}
	return fmt.Sprintf("%s[%d]", k.Name, k.Index)
}

// Sense is the relation between the two sides of a constraint.
type Sense string

const (
	LessEqual    Sense = "<="
	GreaterEqual Sense = ">="
	Equal        Sense = "="
)

// ConstraintID is a handle onto a constraint that has been added to a Program.
type ConstraintID int

// Constraint holds a linear constraint normalised into the form `Expr Sense RHS`, where Expr has no constant part.
type Constraint struct {
	ID    ConstraintID
	Key   Key
	Expr  Expr
	Sense Sense
	RHS   float64
}

// Satisfied returns true if the given variable assignment satisfies the constraint, allowing for the given tolerance.
func (c Constraint) Satisfied(values map[VarID]float64, tolerance float64) bool {
	lhs := c.Expr.Eval(values)
	switch c.Sense {
	case LessEqual:
		return lhs <= c.RHS+tolerance
	case GreaterEqual:
		return lhs >= c.RHS-tolerance
	default:
		return abs(lhs-c.RHS) <= tolerance
	}
}

// Environment is the set of primitives that model builders use to construct a mathematical program.
// Implementations are not safe for concurrent use, callers must serialise construction.
type Environment interface {
	// NewVariable declares a non-negative scalar variable.
	NewVariable(key Key) (VarID, error)
	// DefineExpression registers a named linear expression.
	DefineExpression(key Key, e Expr) error
	// AddConstraint adds the constraint `lhs sense rhs`.
	AddConstraint(key Key, lhs Expr, sense Sense, rhs Expr) (ConstraintID, error)
	// AddToObjective accumulates `e` into the global (minimised) objective.
	AddToObjective(e Expr)
}

// Stats summarises the size of a Program.
type Stats struct {
	Variables   int
	Expressions int
	Constraints int
}

// Program is an in-memory Environment. It records every declared variable, expression and constraint, and the
// objective that a solver should minimise.
type Program struct {
	ID uuid.UUID

	varKeys     []Key
	varIndex    map[Key]VarID
	expressions map[Key]Expr
	exprOrder   []Key
	constraints []Constraint
	consIndex   map[Key]ConstraintID
	objective   Expr

	logger *slog.Logger
}

// New returns an empty Program with a freshly generated build ID.
func New() *Program {
	id := uuid.New()
	return &Program{
		ID:          id,
		varIndex:    make(map[Key]VarID),
		expressions: make(map[Key]Expr),
		consIndex:   make(map[Key]ConstraintID),
		logger:      slog.Default().With("program_id", id.String()),
	}
}

func (p *Program) NewVariable(key Key) (VarID, error) {
	if _, exists := p.varIndex[key]; exists {
		return 0, fmt.Errorf("variable %s: %w", key, ErrDuplicateKey)
	}
	id := VarID(len(p.varKeys))
	p.varKeys = append(p.varKeys, key)
	p.varIndex[key] = id
	return id, nil
}

func (p *Program) DefineExpression(key Key, e Expr) error {
	if _, exists := p.expressions[key]; exists {
		return fmt.Errorf("expression %s: %w", key, ErrDuplicateKey)
	}
	p.expressions[key] = e
	p.exprOrder = append(p.exprOrder, key)
	return nil
}

func (p *Program) AddConstraint(key Key, lhs Expr, sense Sense, rhs Expr) (ConstraintID, error) {
	if _, exists := p.consIndex[key]; exists {
		return 0, fmt.Errorf("constraint %s: %w", key, ErrDuplicateKey)
	}
	switch sense {
	case LessEqual, GreaterEqual, Equal:
	default:
		return 0, fmt.Errorf("constraint %s: unknown sense %q", key, sense)
	}

	// move all of the constants to the right hand side
	diff := lhs.Sub(rhs)
	id := ConstraintID(len(p.constraints))
	p.constraints = append(p.constraints, Constraint{
		ID:    id,
		Key:   key,
		Expr:  diff.Sub(Const(diff.Constant())),
		Sense: sense,
		RHS:   -diff.Constant(),
	})
	p.consIndex[key] = id
	return id, nil
}

func (p *Program) AddToObjective(e Expr) {
	p.objective = p.objective.Add(e)
}

// Variable returns the ID of the variable declared under `key`.
func (p *Program) Variable(key Key) (VarID, error) {
	id, ok := p.varIndex[key]
	if !ok {
		return 0, fmt.Errorf("variable %s: %w", key, ErrUnknownKey)
	}
	return id, nil
}

// VariableKey returns the key that `id` was declared under.
func (p *Program) VariableKey(id VarID) Key {
	if int(id) < 0 || int(id) >= len(p.varKeys) {
		return Scalar(fmt.Sprintf("_v%d", id))
	}
	return p.varKeys[id]
}

// NumVariables returns the number of declared variables. VarIDs run from 0 to NumVariables()-1.
func (p *Program) NumVariables() int {
	return len(p.varKeys)
}

// Expression returns the expression defined under `key`.
func (p *Program) Expression(key Key) (Expr, error) {
	e, ok := p.expressions[key]
	if !ok {
		return Expr{}, fmt.Errorf("expression %s: %w", key, ErrUnknownKey)
	}
	return e, nil
}

// ExpressionKeys returns the keys of all defined expressions, in the order they were defined.
func (p *Program) ExpressionKeys() []Key {
	return append([]Key(nil), p.exprOrder...)
}

// Constraint returns the constraint added under `key`.
func (p *Program) Constraint(key Key) (Constraint, error) {
	id, ok := p.consIndex[key]
	if !ok {
		return Constraint{}, fmt.Errorf("constraint %s: %w", key, ErrUnknownKey)
	}
	return p.constraints[id], nil
}

// Constraints returns all constraints in the order they were added.
func (p *Program) Constraints() []Constraint {
	return append([]Constraint(nil), p.constraints...)
}

// ConstraintsNamed returns the constraints whose key has the given name, ordered by index.
func (p *Program) ConstraintsNamed(name string) []Constraint {
	var out []Constraint
	for _, c := range p.constraints {
		if c.Key.Name == name {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Index < out[j].Key.Index })
	return out
}

// Objective returns the accumulated objective expression.
func (p *Program) Objective() Expr {
	return p.objective
}

// Stats returns the number of variables, expressions and constraints in the program.
func (p *Program) Stats() Stats {
	return Stats{
		Variables:   len(p.varKeys),
		Expressions: len(p.expressions),
		Constraints: len(p.constraints),
	}
}

// Feasible returns true if the given assignment is non-negative and satisfies every constraint.
func (p *Program) Feasible(values map[VarID]float64, tolerance float64) bool {
	for id := range p.varKeys {
		if values[VarID(id)] < -tolerance {
			return false
		}
	}
	for _, c := range p.constraints {
		if !c.Satisfied(values, tolerance) {
			p.logger.Debug("Constraint violated", "constraint", c.Key.String())
			return false
		}
	}
	return true
}
