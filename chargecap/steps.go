package chargecap

import (
	"fmt"

	"github.com/cepro/chargecap/program"
)

// DeclareVariables declares the new-build and retirement decisions of the eligible resources, and the existing
// capacity decisions in multi-stage mode. Empty sets declare nothing.
func (b *Builder) DeclareVariables() (Variables, error) {
	vars := Variables{
		NewCharge:     make(map[int]program.VarID, b.inputs.Sets.NewBuildEligible.Len()),
		RetiredCharge: make(map[int]program.VarID, b.inputs.Sets.RetirementEligible.Len()),
	}

	for _, id := range b.inputs.Sets.NewBuildEligible.Sorted() {
		if !b.inputs.Sets.Asymmetric.Contains(id) {
			return Variables{}, fmt.Errorf("new build decision of resource %d: %w", id, ErrNotAsymmetric)
		}
		v, err := b.env.NewVariable(program.Indexed(NewChargeCap, id))
		if err != nil {
			return Variables{}, err
		}
		vars.NewCharge[id] = v
	}

	for _, id := range b.inputs.Sets.RetirementEligible.Sorted() {
		if !b.inputs.Sets.Asymmetric.Contains(id) {
			return Variables{}, fmt.Errorf("retirement decision of resource %d: %w", id, ErrNotAsymmetric)
		}
		v, err := b.env.NewVariable(program.Indexed(RetiredChargeCap, id))
		if err != nil {
			return Variables{}, err
		}
		vars.RetiredCharge[id] = v
	}

	existing, err := b.existing.declare(b.env, b.inputs.Sets.Asymmetric.Sorted())
	if err != nil {
		return Variables{}, err
	}
	vars.ExistingChargeDecision = existing

	return vars, nil
}

// DeriveCapacity defines the existing and total charge capacity of every asymmetric resource:
//
//	total = existing + new (if it can build) - retired (if it can retire)
func (b *Builder) DeriveCapacity(vars Variables) (Capacity, error) {
	ids := b.inputs.Sets.Asymmetric.Sorted()
	capacity := Capacity{
		Modes:    make(map[int]CapacityMode, len(ids)),
		Existing: make(map[int]program.Expr, len(ids)),
		Total:    make(map[int]program.Expr, len(ids)),
	}

	for _, id := range ids {
		r, err := b.inputs.Resources.Get(id)
		if err != nil {
			return Capacity{}, err
		}

		mode := ModeOf(id, b.inputs.Sets)
		existing := b.existing.expr(r, vars)

		total := existing
		if mode.CanBuild() {
			total = total.Add(program.Var(vars.NewCharge[id]))
		}
		if mode.CanRetire() {
			total = total.Sub(program.Var(vars.RetiredCharge[id]))
		}

		err = b.env.DefineExpression(program.Indexed(ExistingChargeCap, id), existing)
		if err != nil {
			return Capacity{}, err
		}
		err = b.env.DefineExpression(program.Indexed(TotalChargeCap, id), total)
		if err != nil {
			return Capacity{}, err
		}

		capacity.Modes[id] = mode
		capacity.Existing[id] = existing
		capacity.Total[id] = total
	}

	return capacity, nil
}

// DeriveCosts defines the investment, fixed O&M and fixed costs of every asymmetric resource, along with their zonal
// and system-wide sums. Resources in a zone that is not in the zone list are left out of the sums.
func (b *Builder) DeriveCosts(vars Variables, capacity Capacity) (Costs, error) {
	ids := b.inputs.Sets.Asymmetric.Sorted()
	costs := Costs{
		Investment:     make(map[int]program.Expr, len(ids)),
		FixedOM:        make(map[int]program.Expr, len(ids)),
		Fixed:          make(map[int]program.Expr, len(ids)),
		ZoneInvestment: make(map[int]program.Expr, len(b.inputs.Zones)),
		ZoneFixedOM:    make(map[int]program.Expr, len(b.inputs.Zones)),
		ZoneFixed:      make(map[int]program.Expr, len(b.inputs.Zones)),
	}

	byZone := make(map[int][]int, len(b.inputs.Zones))
	for _, zone := range b.inputs.Zones {
		byZone[zone] = nil
	}
	for _, id := range ids {
		r, err := b.inputs.Resources.Get(id)
		if err != nil {
			return Costs{}, err
		}
		// every resource must land in a zone, otherwise its cost would be missing from the system total
		if _, ok := byZone[r.Zone]; !ok {
			return Costs{}, fmt.Errorf("resource %d in zone %d: %w", id, r.Zone, ErrUnknownZone)
		}

		investment := program.Const(0)
		if capacity.Modes[id].CanBuild() {
			investment = program.Term(r.InvCostChargePerMWYr, vars.NewCharge[id])
		}
		// fixed O&M applies to all of the capacity, whether or not it can be built
		fixedOM := capacity.Total[id].Scale(r.FixedOMCostChargePerMWYr)
		fixed := investment.Add(fixedOM)

		err = b.defineAll(id,
			named{InvestmentCost, investment},
			named{FixedOMCost, fixedOM},
			named{FixedCost, fixed},
		)
		if err != nil {
			return Costs{}, err
		}

		costs.Investment[id] = investment
		costs.FixedOM[id] = fixedOM
		costs.Fixed[id] = fixed
		byZone[r.Zone] = append(byZone[r.Zone], id)
	}

	var zoneInvestments, zoneFixedOMs, zoneFixeds []program.Expr
	for _, zone := range b.inputs.Zones {
		var investment, fixedOM, fixed []program.Expr
		for _, id := range byZone[zone] {
			investment = append(investment, costs.Investment[id])
			fixedOM = append(fixedOM, costs.FixedOM[id])
			fixed = append(fixed, costs.Fixed[id])
		}

		costs.ZoneInvestment[zone] = program.Sum(investment...)
		costs.ZoneFixedOM[zone] = program.Sum(fixedOM...)
		costs.ZoneFixed[zone] = program.Sum(fixed...)

		err := b.defineAll(zone,
			named{ZoneInvestmentCost, costs.ZoneInvestment[zone]},
			named{ZoneFixedOMCost, costs.ZoneFixedOM[zone]},
			named{ZoneFixedCost, costs.ZoneFixed[zone]},
		)
		if err != nil {
			return Costs{}, err
		}

		zoneInvestments = append(zoneInvestments, costs.ZoneInvestment[zone])
		zoneFixedOMs = append(zoneFixedOMs, costs.ZoneFixedOM[zone])
		zoneFixeds = append(zoneFixeds, costs.ZoneFixed[zone])
	}

	costs.TotalInvestment = program.Sum(zoneInvestments...)
	costs.TotalFixedOM = program.Sum(zoneFixedOMs...)
	costs.TotalFixed = program.Sum(zoneFixeds...)

	err := b.defineAll(-1,
		named{TotalInvestmentCost, costs.TotalInvestment},
		named{TotalFixedOMCost, costs.TotalFixedOM},
		named{TotalFixedCost, costs.TotalFixed},
	)
	if err != nil {
		return Costs{}, err
	}

	return costs, nil
}

// ContributeObjective adds the system-wide fixed cost to the objective and returns the amount added. In multi-stage
// mode it is divided by the opex multiplier as the host scales the whole objective by that multiplier afterwards.
func (b *Builder) ContributeObjective(costs Costs) program.Expr {
	term := costs.TotalFixed
	if b.inputs.MultiStage {
		term = term.Scale(1 / b.inputs.OpexMultiplier)
	}
	b.env.AddToObjective(term)
	return term
}

// GenerateConstraints limits retirements to the existing capacity, pins the multi-stage existing capacity decisions
// and applies the optional maximum and minimum charge capacity bounds.
func (b *Builder) GenerateConstraints(vars Variables, capacity Capacity) (Constraints, error) {
	constraints := Constraints{
		RetireLimit:  make(map[int]program.ConstraintID),
		ExistingPin:  make(map[int]program.ConstraintID),
		MaxChargeCap: make(map[int]program.ConstraintID),
		MinChargeCap: make(map[int]program.ConstraintID),
	}

	for _, id := range b.inputs.Sets.RetirementEligible.Sorted() {
		existing, ok := capacity.Existing[id]
		if !ok {
			return Constraints{}, fmt.Errorf("retirement limit of resource %d: %w", id, ErrNotAsymmetric)
		}
		cid, err := b.env.AddConstraint(
			program.Indexed(RetireChargeCapLimit, id),
			program.Var(vars.RetiredCharge[id]),
			program.LessEqual,
			existing,
		)
		if err != nil {
			return Constraints{}, err
		}
		constraints.RetireLimit[id] = cid
	}

	for _, id := range b.inputs.Sets.Asymmetric.Sorted() {
		r, err := b.inputs.Resources.Get(id)
		if err != nil {
			return Constraints{}, err
		}

		cid, pinned, err := b.existing.pin(b.env, r, vars)
		if err != nil {
			return Constraints{}, err
		}
		if pinned {
			constraints.ExistingPin[id] = cid
		}

		if limit, ok := r.MaxChargeCap.Value(); ok {
			cid, err := b.env.AddConstraint(
				program.Indexed(MaxChargeCapLimit, id),
				capacity.Total[id],
				program.LessEqual,
				program.Const(limit),
			)
			if err != nil {
				return Constraints{}, err
			}
			constraints.MaxChargeCap[id] = cid
		}

		if limit, ok := r.MinChargeCap.Value(); ok {
			cid, err := b.env.AddConstraint(
				program.Indexed(MinChargeCapLimit, id),
				capacity.Total[id],
				program.GreaterEqual,
				program.Const(limit),
			)
			if err != nil {
				return Constraints{}, err
			}
			constraints.MinChargeCap[id] = cid
		}
	}

	return constraints, nil
}

type named struct {
	name string
	expr program.Expr
}

// defineAll defines each of the expressions at the given index, a negative index defines scalars.
func (b *Builder) defineAll(index int, exprs ...named) error {
	for _, e := range exprs {
		err := b.env.DefineExpression(program.Indexed(e.name, index), e.expr)
		if err != nil {
			return err
		}
	}
	return nil
}
