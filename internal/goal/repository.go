package goal

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("goal not found")

type Repository interface {
	Create(g *Goal) error
	FindAllByUserID(userID uuid.UUID) ([]Goal, error)
	FindByIdAndUserId(id, userID uuid.UUID) (*Goal, error)
	FindAllByIDsAndUser(ids []uuid.UUID, userID uuid.UUID) ([]Goal, error)
	Update(g *Goal) error
	Delete(id, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(g *Goal) error {
	return r.db.Create(g).Error
}

func (r *repository) FindAllByUserID(userID uuid.UUID) ([]Goal, error) {
	var goals []Goal
	if err := r.db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *repository) FindByIdAndUserId(id, userID uuid.UUID) (*Goal, error) {
	var g Goal
	if err := r.db.First(&g, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *repository) FindAllByIDsAndUser(ids []uuid.UUID, userID uuid.UUID) ([]Goal, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var goals []Goal
	if err := r.db.
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *repository) Update(g *Goal) error {
	return r.db.Save(g).Error
}

func (r *repository) Delete(id, userID uuid.UUID) error {
	return r.db.Delete(&Goal{}, "id = ? AND user_id = ?", id, userID).Error
}
