package focus

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Create(s *FocusSession) error
	Update(s *FocusSession) error
	FindActiveByUser(userID uuid.UUID) (*FocusSession, error)
	FindAllByUser(userID uuid.UUID, limit int) ([]FocusSession, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(s *FocusSession) error {
	return r.db.Create(s).Error
}

func (r *repository) Update(s *FocusSession) error {
	return r.db.Save(s).Error
}

func (r *repository) FindActiveByUser(userID uuid.UUID) (*FocusSession, error) {
	var s FocusSession
	err := r.db.
		First(&s, "user_id = ? AND status = ?", userID, SessionStatusActive).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAllByUser(userID uuid.UUID, limit int) ([]FocusSession, error) {
	var sessions []FocusSession
	err := r.db.
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
