package resource

import "sort"

// KeySet is a set of resource IDs.
type KeySet map[int]struct{}

// NewKeySet returns a set holding the given IDs.
func NewKeySet(ids ...int) KeySet {
	s := make(KeySet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains is safe to call on a nil set.
func (s KeySet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

func (s KeySet) Len() int {
	return len(s)
}

// Sorted returns the IDs in ascending order so that iteration is deterministic.
func (s KeySet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Sets holds the eligibility sets. NewBuildEligible and RetirementEligible are expected to be subsets of
// Asymmetric, they may overlap and either may be empty.
type Sets struct {
	Asymmetric         KeySet
	NewBuildEligible   KeySet
	RetirementEligible KeySet
}

// DeriveSets computes the eligibility sets from the resource flags:
//   - Asymmetric: storage type 2
//   - NewBuildEligible: asymmetric and flagged for new build
//   - RetirementEligible: asymmetric, flagged as retirable, and with some existing charge capacity
func DeriveSets(t Table) Sets {
	sets := Sets{
		Asymmetric:         NewKeySet(),
		NewBuildEligible:   NewKeySet(),
		RetirementEligible: NewKeySet(),
	}
	for id, r := range t {
		if !r.IsAsymmetric() {
			continue
		}
		sets.Asymmetric[id] = struct{}{}
		if r.NewBuild {
			sets.NewBuildEligible[id] = struct{}{}
		}
		if r.CanRetire && r.ExistingChargeCapMW > 0 {
			sets.RetirementEligible[id] = struct{}{}
		}
	}
	return sets
}
