package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cepro/chargecap/resource"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "chargecap.sqlite"))
	require.NoError(t, err)
	return repo
}

func TestResourcesRoundTrip(t *testing.T) {
	repo := newTestRepository(t)

	table, err := resource.NewTable(
		resource.Resource{
			ID:                       1,
			Name:                     "battery_a",
			Zone:                     1,
			Stor:                     resource.StorAsymmetric,
			NewBuild:                 true,
			ExistingChargeCapMW:      100,
			InvCostChargePerMWYr:     5000,
			FixedOMCostChargePerMWYr: 1000,
			MaxChargeCap:             resource.NewBound(250),
		},
		resource.Resource{
			ID:                       2,
			Name:                     "battery_b",
			Zone:                     2,
			Stor:                     resource.StorAsymmetric,
			CanRetire:                true,
			ExistingChargeCapMW:      50,
			FixedOMCostChargePerMWYr: 800,
			MinChargeCap:             resource.NewBound(10),
		},
	)
	require.NoError(t, err)

	require.NoError(t, repo.SaveResources(table))

	loaded, err := repo.LoadResources()
	require.NoError(t, err)
	assert.Equal(t, table, loaded)

	// saving again replaces rather than duplicates
	updated := table[2]
	updated.ExistingChargeCapMW = 45
	require.NoError(t, repo.SaveResources(resource.Table{2: updated}))

	loaded, err = repo.LoadResources()
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, 45.0, loaded[2].ExistingChargeCapMW)

	sets := resource.DeriveSets(loaded)
	assert.Equal(t, []int{1}, sets.NewBuildEligible.Sorted())
	assert.Equal(t, []int{2}, sets.RetirementEligible.Sorted())
}

func TestSaveNoResources(t *testing.T) {
	repo := newTestRepository(t)
	assert.NoError(t, repo.SaveResources(resource.Table{}))

	loaded, err := repo.LoadResources()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRuns(t *testing.T) {
	repo := newTestRepository(t)

	objective := 1234.5
	older := Run{
		ID:          uuid.New(),
		Time:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Resources:   3,
		Variables:   4,
		Constraints: 2,
		Status:      RunStatusBuilt,
	}
	newer := Run{
		ID:             uuid.New(),
		Time:           time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
		MultiStage:     true,
		OpexMultiplier: 4.2,
		Resources:      3,
		Variables:      7,
		Constraints:    5,
		Status:         RunStatusSolved,
		Objective:      &objective,
	}
	require.NoError(t, repo.AddRun(older))
	require.NoError(t, repo.AddRun(newer))

	runs, err := repo.GetRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, RunStatusSolved, runs[0].Status)
	require.NotNil(t, runs[0].Objective)
	assert.Equal(t, objective, *runs[0].Objective)
	assert.Equal(t, older.ID, runs[1].ID)
	assert.Nil(t, runs[1].Objective)

	runs, err = repo.GetRuns(1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
