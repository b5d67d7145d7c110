package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Name            string     `gorm:"size:255;not null"`
	Email           string     `gorm:"size:255;not null;index"`
	ImageURL        *string    `gorm:"size:1024"`
	FamilyID        *uuid.UUID `gorm:"type:varchar(36);index"`
	FavoriteRecipes StringList `gorm:"type:text;not null"`
	CreatedRecipes  StringList `gorm:"type:text;not null"`
	Preferences     JSONBlob   `gorm:"type:text;not null"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
