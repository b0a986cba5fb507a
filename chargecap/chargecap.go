// Package chargecap builds the charge capacity accounting of asymmetric storage resources into a mathematical program.
//
// For each asymmetric resource it declares the new-build and retirement decisions, derives the existing and total
// charge capacity, derives the annualised investment and fixed O&M costs (per resource, per zone and system-wide),
// adds the system-wide fixed cost to the objective and bounds the capacities.
//
// The steps must run in order against an environment that is held exclusively for the duration of the build:
//
//	DeclareVariables -> DeriveCapacity -> DeriveCosts -> ContributeObjective -> GenerateConstraints
//
// Build runs all of them. No feasibility checking is done here, e.g. an existing capacity above its maximum bound
// gives an infeasible program which is reported by the solver.
package chargecap

import (
	"errors"
	"fmt"

	"github.com/cepro/chargecap/program"
	"github.com/cepro/chargecap/resource"
	"golang.org/x/exp/slog"
)

// Names of the variables, expressions and constraints that are registered in the environment
const (
	NewChargeCap              = "new_charge_cap"
	RetiredChargeCap          = "retired_charge_cap"
	ExistingChargeCapDecision = "existing_charge_cap_decision"

	ExistingChargeCap = "existing_charge_cap"
	TotalChargeCap    = "total_charge_cap"

	InvestmentCost = "charge_cap_investment_cost"
	FixedOMCost    = "charge_cap_fixed_om_cost"
	FixedCost      = "charge_cap_fixed_cost"

	ZoneInvestmentCost = "zone_charge_cap_investment_cost"
	ZoneFixedOMCost    = "zone_charge_cap_fixed_om_cost"
	ZoneFixedCost      = "zone_charge_cap_fixed_cost"

	TotalInvestmentCost = "total_charge_cap_investment_cost"
	TotalFixedOMCost    = "total_charge_cap_fixed_om_cost"
	TotalFixedCost      = "total_charge_cap_fixed_cost"

	RetireChargeCapLimit = "retire_charge_cap_limit"
	ExistingChargeCapPin = "existing_charge_cap_pin"
	MaxChargeCapLimit    = "max_charge_cap"
	MinChargeCapLimit    = "min_charge_cap"
)

var (
	ErrInvalidOpexMultiplier = errors.New("multi-stage opex multiplier must be positive")
	ErrNotAsymmetric         = errors.New("resource is not in the asymmetric set")
	ErrUnknownZone           = errors.New("resource zone is not in the zone list")
)

// Inputs are everything the build consumes from the host model.
type Inputs struct {
	Resources resource.Table
	Sets      resource.Sets
	Zones     []int // if empty, the zones of the resource table are used

	MultiStage     bool
	OpexMultiplier float64 // only used in multi-stage mode, the host later multiplies the whole objective by it
}

// Variables holds the handles of the declared decision variables, keyed by resource ID.
type Variables struct {
	NewCharge              map[int]program.VarID
	RetiredCharge          map[int]program.VarID
	ExistingChargeDecision map[int]program.VarID // empty unless in multi-stage mode
}

// Capacity holds the capacity expressions of every asymmetric resource, keyed by resource ID.
type Capacity struct {
	Modes    map[int]CapacityMode
	Existing map[int]program.Expr
	Total    map[int]program.Expr
}

// Costs holds the cost expressions per resource, per zone and for the whole system.
type Costs struct {
	Investment map[int]program.Expr
	FixedOM    map[int]program.Expr
	Fixed      map[int]program.Expr

	ZoneInvestment map[int]program.Expr
	ZoneFixedOM    map[int]program.Expr
	ZoneFixed      map[int]program.Expr

	TotalInvestment program.Expr
	TotalFixedOM    program.Expr
	TotalFixed      program.Expr
}

// Constraints holds the handles of the generated constraints, keyed by resource ID.
type Constraints struct {
	RetireLimit  map[int]program.ConstraintID
	ExistingPin  map[int]program.ConstraintID
	MaxChargeCap map[int]program.ConstraintID
	MinChargeCap map[int]program.ConstraintID
}

// Result is everything that a build registered in the environment.
type Result struct {
	Variables     Variables
	Capacity      Capacity
	Costs         Costs
	ObjectiveTerm program.Expr // the amount added to the objective
	Constraints   Constraints
}

// Builder runs the construction steps against a single environment.
type Builder struct {
	env      program.Environment
	inputs   Inputs
	existing existingSource
	logger   *slog.Logger
}

// NewBuilder returns a Builder for the given environment and inputs.
func NewBuilder(env program.Environment, inputs Inputs) (*Builder, error) {
	if inputs.MultiStage && !(inputs.OpexMultiplier > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidOpexMultiplier, inputs.OpexMultiplier)
	}
	if len(inputs.Zones) == 0 {
		inputs.Zones = inputs.Resources.Zones()
	}

	return &Builder{
		env:      env,
		inputs:   inputs,
		existing: newExistingSource(inputs.MultiStage),
		logger:   slog.Default().With("component", "chargecap", "multi_stage", inputs.MultiStage),
	}, nil
}

// Build runs every construction step in order and returns the handles that were created.
func Build(env program.Environment, inputs Inputs) (*Result, error) {
	b, err := NewBuilder(env, inputs)
	if err != nil {
		return nil, err
	}

	vars, err := b.DeclareVariables()
	if err != nil {
		return nil, fmt.Errorf("declare variables: %w", err)
	}
	capacity, err := b.DeriveCapacity(vars)
	if err != nil {
		return nil, fmt.Errorf("derive capacity: %w", err)
	}
	costs, err := b.DeriveCosts(vars, capacity)
	if err != nil {
		return nil, fmt.Errorf("derive costs: %w", err)
	}
	objectiveTerm := b.ContributeObjective(costs)
	constraints, err := b.GenerateConstraints(vars, capacity)
	if err != nil {
		return nil, fmt.Errorf("generate constraints: %w", err)
	}

	b.logger.Info(
		"Built charge capacity model",
		"asymmetric_resources", b.inputs.Sets.Asymmetric.Len(),
		"new_build_eligible", len(vars.NewCharge),
		"retirement_eligible", len(vars.RetiredCharge),
		"zones", len(b.inputs.Zones),
		"max_bounds", len(constraints.MaxChargeCap),
		"min_bounds", len(constraints.MinChargeCap),
	)

	return &Result{
		Variables:     vars,
		Capacity:      capacity,
		Costs:         costs,
		ObjectiveTerm: objectiveTerm,
		Constraints:   constraints,
	}, nil
}
