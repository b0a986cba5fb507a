package chargecap

import "github.com/cepro/chargecap/resource"

// CapacityMode describes how a resource's charge capacity may change in this planning period.
type CapacityMode int

const (
	ModeFixed      CapacityMode = iota // ModeFixed resources keep exactly their existing capacity
	ModeNewOnly                        // ModeNewOnly resources may add capacity but not retire any
	ModeRetireOnly                     // ModeRetireOnly resources may retire capacity but not add any
	ModeBoth                           // ModeBoth resources may add and retire capacity
)

// ModeOf returns the capacity mode of resource `id` given the eligibility sets.
func ModeOf(id int, sets resource.Sets) CapacityMode {
	canBuild := sets.NewBuildEligible.Contains(id)
	canRetire := sets.RetirementEligible.Contains(id)
	switch {
	case canBuild && canRetire:
		return ModeBoth
	case canBuild:
		return ModeNewOnly
	case canRetire:
		return ModeRetireOnly
	default:
		return ModeFixed
	}
}

// CanBuild returns true if new capacity may be added.
func (m CapacityMode) CanBuild() bool {
	return m == ModeNewOnly || m == ModeBoth
}

// CanRetire returns true if existing capacity may be retired.
func (m CapacityMode) CanRetire() bool {
	return m == ModeRetireOnly || m == ModeBoth
}

func (m CapacityMode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeNewOnly:
		return "new_only"
	case ModeRetireOnly:
		return "retire_only"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}
