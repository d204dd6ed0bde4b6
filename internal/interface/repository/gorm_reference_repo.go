package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"airtalk-service/internal/domain/entity"
	"airtalk-service/internal/domain/repository"
)

// GormReferenceRepository implements the ReferenceRepository interface over
// the relational reference tables.
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewGormReferenceRepository creates a new GORM reference repository.
func NewGormReferenceRepository(db *gorm.DB) repository.ReferenceRepository {
	return &GormReferenceRepository{db: db}
}

// Airlines GORM model for database mapping
type Airlines struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name"`
	CostClass string         `gorm:"column:cost_class"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "m_airlines"
}

// Airports GORM model for database mapping
type Airports struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	FullName  string         `gorm:"column:full_name"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Airports) TableName() string {
	return "m_airports"
}

// PersonNames GORM model for database mapping
type PersonNames struct {
	ID        uint           `gorm:"primaryKey"`
	Kind      string         `gorm:"column:kind;index"`
	Name      string         `gorm:"column:name"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (PersonNames) TableName() string {
	return "m_person_names"
}

// Airlines returns the airline code to cost class mapping.
func (r *GormReferenceRepository) Airlines(ctx context.Context) (map[string]string, error) {
	var rows []Airlines
	result := r.db.WithContext(ctx).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		cost := row.CostClass
		if cost == "" {
			cost = entity.CostNormal
		}
		out[row.Code] = cost
	}
	return out, nil
}

// Airports returns the airport code to city name mapping.
func (r *GormReferenceRepository) Airports(ctx context.Context) (map[string]string, error) {
	var rows []Airports
	result := r.db.WithContext(ctx).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Code] = row.FullName
	}
	return out, nil
}

// FirstNames returns the stored first names.
func (r *GormReferenceRepository) FirstNames(ctx context.Context) ([]string, error) {
	return r.names(ctx, entity.NameKindFirst)
}

// LastNames returns the stored last names.
func (r *GormReferenceRepository) LastNames(ctx context.Context) ([]string, error) {
	return r.names(ctx, entity.NameKindLast)
}

func (r *GormReferenceRepository) names(ctx context.Context, kind string) ([]string, error) {
	var rows []PersonNames
	result := r.db.WithContext(ctx).Where("kind = ?", kind).Order("name").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Name)
	}
	return out, nil
}
