package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Poll struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time
	Title       string       `gorm:"size:255;not null"`
	Description string       `gorm:"type:text"`
	CreatedBy   string       `gorm:"size:255;not null;index"`
	EndsAt      time.Time    `gorm:"not null"`
	Status      string       `gorm:"size:20;not null"`
	Options     []PollOption `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
}

func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PollOption is a ballot entry. A recipe appears at most once per poll.
type PollOption struct {
	ID       uint      `gorm:"primaryKey"`
	PollID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_poll_option_recipe"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_poll_option_recipe"`
	Position int       `gorm:"not null"`
	Votes    int       `gorm:"not null;check:votes >= 0"`
}
