package dayplan

import (
	"errors"

	"github.com/google/uuid"
	util "github.com/stridehq/stride-lambda/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

// Repository is the day ledger: point lookups by (user, date) and range
// scans for aggregation. Last write wins; there is a single interactive
// writer per user.
type Repository interface {
	CreatePlan(p *DayPlan) error
	SavePlan(p *DayPlan) error
	FindByUserAndDate(userID uuid.UUID, date util.LocalDate) (*DayPlan, error)
	ListRange(userID uuid.UUID, from, to util.LocalDate) ([]DayPlan, error)
	OldestOpenBefore(userID uuid.UUID, date util.LocalDate) (*DayPlan, error)

	AddTask(t *PlanTask) error
	UpdateTask(t *PlanTask) error
	DeleteTask(id uuid.UUID) error

	CreateReflection(ref *Reflection) error
	FindReflection(userID uuid.UUID, date util.LocalDate) (*Reflection, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePlan(p *DayPlan) error {
	return r.db.Omit(clause.Associations).Create(p).Error
}

func (r *repository) SavePlan(p *DayPlan) error {
	return r.db.Omit(clause.Associations).Save(p).Error
}

func (r *repository) FindByUserAndDate(userID uuid.UUID, date util.LocalDate) (*DayPlan, error) {
	var p DayPlan
	err := r.db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&p, "user_id = ? AND date = ?", userID, date).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListRange(userID uuid.UUID, from, to util.LocalDate) ([]DayPlan, error) {
	var plans []DayPlan
	err := r.db.
		Preload("Tasks").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// OldestOpenBefore returns the earliest plan before date that was never
// closed, or nil when there is nothing to catch up on.
func (r *repository) OldestOpenBefore(userID uuid.UUID, date util.LocalDate) (*DayPlan, error) {
	var p DayPlan
	err := r.db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("user_id = ? AND eod_submitted = ? AND date < ?", userID, false, date).
		Order("date ASC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) AddTask(t *PlanTask) error {
	return r.db.Create(t).Error
}

func (r *repository) UpdateTask(t *PlanTask) error {
	return r.db.Save(t).Error
}

func (r *repository) DeleteTask(id uuid.UUID) error {
	return r.db.Delete(&PlanTask{}, "id = ?", id).Error
}

func (r *repository) CreateReflection(ref *Reflection) error {
	return r.db.Create(ref).Error
}

func (r *repository) FindReflection(userID uuid.UUID, date util.LocalDate) (*Reflection, error) {
	var ref Reflection
	err := r.db.First(&ref, "user_id = ? AND date = ?", userID, date).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ref, nil
}
