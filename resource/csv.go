package resource

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/mitchellh/mapstructure"
)

// Column names of the resource attribute table
const (
	ColID        = "r_id"
	ColName      = "resource"
	ColZone      = "zone"
	ColStor      = "stor"
	ColNewBuild  = "new_build"
	ColCanRetire = "can_retire"
	ColExisting  = "existing_charge_cap_mw"
	ColInvCost   = "inv_cost_charge_per_mwyr"
	ColFixedOM   = "fixed_om_cost_charge_per_mwyr"
	ColMax       = "max_charge_cap_mw"
	ColMin       = "min_charge_cap_mw"
)

var requiredColumns = []string{ColID, ColZone, ColStor, ColExisting, ColInvCost, ColFixedOM}

// record is a single row of the attribute table as it is decoded from the dataframe
type record struct {
	ID        int      `mapstructure:"r_id"`
	Name      string   `mapstructure:"resource"`
	Zone      int      `mapstructure:"zone"`
	Stor      int      `mapstructure:"stor"`
	NewBuild  bool     `mapstructure:"new_build"`
	CanRetire bool     `mapstructure:"can_retire"`
	Existing  float64  `mapstructure:"existing_charge_cap_mw"`
	InvCost   float64  `mapstructure:"inv_cost_charge_per_mwyr"`
	FixedOM   float64  `mapstructure:"fixed_om_cost_charge_per_mwyr"`
	Max       *float64 `mapstructure:"max_charge_cap_mw"`
	Min       *float64 `mapstructure:"min_charge_cap_mw"`
}

func (rec record) resource() Resource {
	r := Resource{
		ID:                       rec.ID,
		Name:                     rec.Name,
		Zone:                     rec.Zone,
		Stor:                     rec.Stor,
		NewBuild:                 rec.NewBuild,
		CanRetire:                rec.CanRetire,
		ExistingChargeCapMW:      rec.Existing,
		InvCostChargePerMWYr:     rec.InvCost,
		FixedOMCostChargePerMWYr: rec.FixedOM,
		MaxChargeCap:             NoBound,
		MinChargeCap:             NoBound,
	}
	if rec.Max != nil {
		r.MaxChargeCap = BoundFromSentinel(*rec.Max)
		if *rec.Max == 0 {
			// an explicit zero maximum rules out any new build
			r.NewBuild = false
		}
	}
	if rec.Min != nil {
		r.MinChargeCap = BoundFromSentinel(*rec.Min)
	}
	return r
}

// ReadCSV reads a resource attribute table in CSV form. Blank bound cells are treated as unconstrained.
func ReadCSV(r io.Reader) (Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.NaNValues([]string{"", "NA", "NaN"}),
		dataframe.WithTypes(map[string]series.Type{
			ColName:     series.String,
			ColExisting: series.Float,
			ColInvCost:  series.Float,
			ColFixedOM:  series.Float,
			ColMax:      series.Float,
			ColMin:      series.Float,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}

	present := make(map[string]bool)
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	resources := make([]Resource, 0, df.Nrow())
	for i, row := range df.Maps() {
		var rec record
		err := mapstructure.WeakDecode(row, &rec)
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", i+1, err)
		}
		resources = append(resources, rec.resource())
	}

	return NewTable(resources...)
}

// LoadCSV reads the resource attribute table from the CSV file at `path`.
func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resource file: %w", err)
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read resource file %s: %w", path, err)
	}
	return table, nil
}
