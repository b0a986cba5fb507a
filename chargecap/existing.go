package chargecap

import (
	"fmt"

	"github.com/cepro/chargecap/program"
	"github.com/cepro/chargecap/resource"
)

// existingSource provides the "existing charge capacity" of a resource. Single-stage models use the static value
// from the resource table, multi-stage models use a per-stage decision that is pinned to that value.
type existingSource interface {
	// declare registers any variables the source needs for the given asymmetric resources
	declare(env program.Environment, ids []int) (map[int]program.VarID, error)
	// expr returns the existing capacity of `r`
	expr(r resource.Resource, vars Variables) program.Expr
	// pin adds any constraint tying the existing capacity to the input value, returning false if none is needed
	pin(env program.Environment, r resource.Resource, vars Variables) (program.ConstraintID, bool, error)
}

func newExistingSource(multiStage bool) existingSource {
	if multiStage {
		return decisionExisting{}
	}
	return staticExisting{}
}

type staticExisting struct{}

func (staticExisting) declare(program.Environment, []int) (map[int]program.VarID, error) {
	return map[int]program.VarID{}, nil
}

func (staticExisting) expr(r resource.Resource, _ Variables) program.Expr {
	return program.Const(r.ExistingChargeCapMW)
}

func (staticExisting) pin(program.Environment, resource.Resource, Variables) (program.ConstraintID, bool, error) {
	return 0, false, nil
}

type decisionExisting struct{}

func (decisionExisting) declare(env program.Environment, ids []int) (map[int]program.VarID, error) {
	vars := make(map[int]program.VarID, len(ids))
	for _, id := range ids {
		v, err := env.NewVariable(program.Indexed(ExistingChargeCapDecision, id))
		if err != nil {
			return nil, fmt.Errorf("declare existing charge capacity: %w", err)
		}
		vars[id] = v
	}
	return vars, nil
}

func (decisionExisting) expr(r resource.Resource, vars Variables) program.Expr {
	return program.Var(vars.ExistingChargeDecision[r.ID])
}

func (decisionExisting) pin(env program.Environment, r resource.Resource, vars Variables) (program.ConstraintID, bool, error) {
	id, err := env.AddConstraint(
		program.Indexed(ExistingChargeCapPin, r.ID),
		program.Var(vars.ExistingChargeDecision[r.ID]),
		program.Equal,
		program.Const(r.ExistingChargeCapMW),
	)
	if err != nil {
		return 0, false, fmt.Errorf("pin existing charge capacity: %w", err)
	}
	return id, true, nil
}
