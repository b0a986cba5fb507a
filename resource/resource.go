package resource

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownResource = errors.New("unknown resource")

// StorAsymmetric is the storage type code of a resource whose charge and discharge power capacities are sized independently.
const StorAsymmetric = 2

// Resource holds the attributes of a storage resource that are used for charge capacity accounting.
// Capacities are in MW, costs are per MW-year.
type Resource struct {
	ID   int
	Name string
	Zone int

	ExistingChargeCapMW      float64
	InvCostChargePerMWYr     float64 // annualised investment cost of new charge capacity
	FixedOMCostChargePerMWYr float64
	MaxChargeCap             Bound
	MinChargeCap             Bound

	// Flags used to derive the eligibility sets
	Stor      int
	NewBuild  bool
	CanRetire bool
}

// IsAsymmetric returns true if the resource is an asymmetric storage unit.
func (r Resource) IsAsymmetric() bool {
	return r.Stor == StorAsymmetric
}

// Table is the resource attribute table, keyed by resource ID.
type Table map[int]Resource

// NewTable builds a Table from the given resources, an error is returned if any ID appears twice.
func NewTable(resources ...Resource) (Table, error) {
	table := make(Table, len(resources))
	for _, r := range resources {
		if _, exists := table[r.ID]; exists {
			return nil, fmt.Errorf("resource %d: duplicate id", r.ID)
		}
		table[r.ID] = r
	}
	return table, nil
}

// Get returns the resource with the given ID, or ErrUnknownResource.
func (t Table) Get(id int) (Resource, error) {
	r, ok := t[id]
	if !ok {
		return Resource{}, fmt.Errorf("resource %d: %w", id, ErrUnknownResource)
	}
	return r, nil
}

// IDs returns all resource IDs in ascending order.
func (t Table) IDs() []int {
	ids := make([]int, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Zones returns the distinct zones of all resources in ascending order.
func (t Table) Zones() []int {
	seen := make(map[int]bool)
	zones := []int{}
	for _, r := range t {
		if !seen[r.Zone] {
			seen[r.Zone] = true
			zones = append(zones, r.Zone)
		}
	}
	sort.Ints(zones)
	return zones
}
