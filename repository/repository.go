package repository

import (
	"fmt"

	"github.com/cepro/chargecap/resource"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores the resource attribute table and a record of model runs in a local SQLite database.
type Repository struct {
	db *gorm.DB
}

func New(path string) (*Repository, error) {

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Migrate the schema
	err = db.AutoMigrate(&StoredResource{}, &Run{})
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

// SaveResources inserts the given resources, replacing any that are already stored under the same ID.
func (r *Repository) SaveResources(table resource.Table) error {
	if len(table) == 0 {
		return nil
	}

	stored := make([]StoredResource, 0, len(table))
	for _, id := range table.IDs() {
		stored = append(stored, newStoredResource(table[id]))
	}
	result := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&stored)
	return result.Error
}

// LoadResources returns every stored resource.
func (r *Repository) LoadResources() (resource.Table, error) {
	var stored []StoredResource

	result := r.db.Order("id asc").Find(&stored)
	if result.Error != nil {
		return nil, result.Error
	}

	resources := make([]resource.Resource, 0, len(stored))
	for _, s := range stored {
		resources = append(resources, s.resource())
	}
	return resource.NewTable(resources...)
}

func (r *Repository) AddRun(run Run) error {
	result := r.db.Create(&run)
	return result.Error
}

// GetRuns returns up to `limit` of the most recent runs.
func (r *Repository) GetRuns(limit int) ([]Run, error) {
	var runs []Run

	result := r.db.Limit(limit).Order("time desc").Find(&runs)
	if result.Error != nil {
		return nil, result.Error
	}
	return runs, nil
}
