package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GoogleID                    string    `gorm:"type:text;not null;uniqueIndex" json:"-"`
	Email                       string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name                        string    `gorm:"type:text;not null" json:"name"`
	AvatarURL                   string    `gorm:"type:text" json:"avatar_url,omitempty"`
	Role                        string    `gorm:"type:text;not null;default:user" json:"role"`
	EncryptedGoogleAccessToken  string    `gorm:"type:text" json:"-"`
	EncryptedGoogleRefreshToken string    `gorm:"type:text" json:"-"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`
}
