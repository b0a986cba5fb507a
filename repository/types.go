package repository

import (
	"time"

	"github.com/cepro/chargecap/resource"
	"github.com/google/uuid"
)

// StoredResource represents a row of the resource attribute table that is persisted to the SQLite database.
// Undefined bounds are stored as NULL.
type StoredResource struct {
	ID                       int `gorm:"primaryKey;autoIncrement:false"`
	Name                     string
	Zone                     int
	Stor                     int
	NewBuild                 bool
	CanRetire                bool
	ExistingChargeCapMW      float64
	InvCostChargePerMWYr     float64
	FixedOMCostChargePerMWYr float64
	MaxChargeCapMW           *float64
	MinChargeCapMW           *float64
}

// Run records a single model build, and the objective value if the model was also solved.
type Run struct {
	ID             uuid.UUID
	Time           time.Time
	MultiStage     bool
	OpexMultiplier float64
	Resources      int
	Variables      int
	Expressions    int
	Constraints    int
	Status         RunStatus
	Objective      *float64
}

// RunStatus describes how far a run got
type RunStatus string

const (
	RunStatusBuilt      RunStatus = "built"      // RunStatusBuilt indicates that the model was built but not solved
	RunStatusSolved     RunStatus = "solved"     // RunStatusSolved indicates that an optimal solution was found
	RunStatusInfeasible RunStatus = "infeasible" // RunStatusInfeasible indicates that the solver reported the model as infeasible
	RunStatusFailed     RunStatus = "failed"     // RunStatusFailed indicates any other solver failure
)

func newStoredResource(r resource.Resource) StoredResource {
	return StoredResource{
		ID:                       r.ID,
		Name:                     r.Name,
		Zone:                     r.Zone,
		Stor:                     r.Stor,
		NewBuild:                 r.NewBuild,
		CanRetire:                r.CanRetire,
		ExistingChargeCapMW:      r.ExistingChargeCapMW,
		InvCostChargePerMWYr:     r.InvCostChargePerMWYr,
		FixedOMCostChargePerMWYr: r.FixedOMCostChargePerMWYr,
		MaxChargeCapMW:           r.MaxChargeCap.Ptr(),
		MinChargeCapMW:           r.MinChargeCap.Ptr(),
	}
}

func (s StoredResource) resource() resource.Resource {
	return resource.Resource{
		ID:                       s.ID,
		Name:                     s.Name,
		Zone:                     s.Zone,
		Stor:                     s.Stor,
		NewBuild:                 s.NewBuild,
		CanRetire:                s.CanRetire,
		ExistingChargeCapMW:      s.ExistingChargeCapMW,
		InvCostChargePerMWYr:     s.InvCostChargePerMWYr,
		FixedOMCostChargePerMWYr: s.FixedOMCostChargePerMWYr,
		MaxChargeCap:             resource.BoundFromPtr(s.MaxChargeCapMW),
		MinChargeCap:             resource.BoundFromPtr(s.MinChargeCapMW),
	}
}
