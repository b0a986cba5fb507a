package resource

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundFromSentinel(t *testing.T) {
	tests := []struct {
		name        string
		input       float64
		expectValue float64
		expectOk    bool
	}{
		{name: "positive value is a bound", input: 40, expectValue: 40, expectOk: true},
		{name: "minus one is unconstrained", input: -1, expectOk: false},
		{name: "zero is unconstrained", input: 0, expectOk: false},
		{name: "NaN is unconstrained", input: math.NaN(), expectOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := BoundFromSentinel(tt.input).Value()
			assert.Equal(t, tt.expectOk, ok)
			if tt.expectOk {
				assert.Equal(t, tt.expectValue, v)
			}
		})
	}
}

func TestBoundPtrRoundTrip(t *testing.T) {
	assert.Nil(t, NoBound.Ptr())
	assert.Equal(t, NoBound, BoundFromPtr(nil))

	b := NewBound(12.5)
	assert.Equal(t, b, BoundFromPtr(b.Ptr()))
	assert.Equal(t, "12.5", b.String())
	assert.Equal(t, "none", NoBound.String())
}

func TestTable(t *testing.T) {
	table, err := NewTable(
		Resource{ID: 3, Zone: 2},
		Resource{ID: 1, Zone: 1},
		Resource{ID: 2, Zone: 2},
	)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, table.IDs())
	assert.Equal(t, []int{1, 2}, table.Zones())

	_, err = table.Get(4)
	assert.ErrorIs(t, err, ErrUnknownResource)

	_, err = NewTable(Resource{ID: 1}, Resource{ID: 1})
	assert.Error(t, err)
}

func TestKeySet(t *testing.T) {
	var nilSet KeySet
	assert.False(t, nilSet.Contains(1))
	assert.Equal(t, 0, nilSet.Len())
	assert.Empty(t, nilSet.Sorted())

	s := NewKeySet(5, 1, 3, 1)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(3))
	assert.Equal(t, []int{1, 3, 5}, s.Sorted())
}

func TestDeriveSets(t *testing.T) {
	table, err := NewTable(
		Resource{ID: 1, Stor: StorAsymmetric, NewBuild: true, CanRetire: true, ExistingChargeCapMW: 10},
		Resource{ID: 2, Stor: StorAsymmetric, NewBuild: true},
		Resource{ID: 3, Stor: StorAsymmetric, CanRetire: true, ExistingChargeCapMW: 0}, // nothing to retire
		Resource{ID: 4, Stor: 1, NewBuild: true, CanRetire: true, ExistingChargeCapMW: 10}, // symmetric storage
		Resource{ID: 5, Stor: StorAsymmetric},
	)
	require.NoError(t, err)

	sets := DeriveSets(table)
	assert.Equal(t, []int{1, 2, 3, 5}, sets.Asymmetric.Sorted())
	assert.Equal(t, []int{1, 2}, sets.NewBuildEligible.Sorted())
	assert.Equal(t, []int{1}, sets.RetirementEligible.Sorted())
}

func TestReadCSV(t *testing.T) {
	csv := strings.Join([]string{
		"r_id,resource,zone,stor,new_build,can_retire,existing_charge_cap_mw,inv_cost_charge_per_mwyr,fixed_om_cost_charge_per_mwyr,max_charge_cap_mw,min_charge_cap_mw",
		"1,battery_a,1,2,1,0,100,5000,1000,-1,",
		"2,battery_b,2,2,0,1,50,0,800,40,10.5",
		"3,battery_c,2,2,1,1,20,4000,900,0,-1",
		"4,pumped_hydro,1,1,0,0,300,0,1200,,",
	}, "\n")

	table, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, table, 4)

	a := table[1]
	assert.Equal(t, "battery_a", a.Name)
	assert.Equal(t, 1, a.Zone)
	assert.True(t, a.IsAsymmetric())
	assert.True(t, a.NewBuild)
	assert.False(t, a.CanRetire)
	assert.Equal(t, 100.0, a.ExistingChargeCapMW)
	assert.Equal(t, 5000.0, a.InvCostChargePerMWYr)
	assert.Equal(t, 1000.0, a.FixedOMCostChargePerMWYr)
	assert.False(t, a.MaxChargeCap.Defined())
	assert.False(t, a.MinChargeCap.Defined())

	b := table[2]
	max, ok := b.MaxChargeCap.Value()
	require.True(t, ok)
	assert.Equal(t, 40.0, max)
	min, ok := b.MinChargeCap.Value()
	require.True(t, ok)
	assert.Equal(t, 10.5, min)

	// a zero maximum rules out new build
	c := table[3]
	assert.False(t, c.NewBuild)
	assert.False(t, c.MaxChargeCap.Defined())

	sets := DeriveSets(table)
	assert.Equal(t, []int{1, 2, 3}, sets.Asymmetric.Sorted())
	assert.Equal(t, []int{1}, sets.NewBuildEligible.Sorted())
	assert.Equal(t, []int{2, 3}, sets.RetirementEligible.Sorted())
}

func TestReadCSVMissingColumn(t *testing.T) {
	csv := "r_id,zone,stor\n1,1,2\n"
	_, err := ReadCSV(strings.NewReader(csv))
	assert.ErrorContains(t, err, "existing_charge_cap_mw")
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV("/nonexistent/resources.csv")
	assert.Error(t, err)
}
