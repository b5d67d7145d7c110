package models

import (
	"time"

	"github.com/google/uuid"
)

// PollStatus is the stored lifecycle state of a poll.
type PollStatus string

const (
	PollActive    PollStatus = "active"
	PollEnded     PollStatus = "ended"
	PollCancelled PollStatus = "cancelled"
)

var PollStatuses = []PollStatus{PollActive, PollEnded, PollCancelled}

func (s PollStatus) Valid() bool {
	for _, known := range PollStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PollOption is one recipe on a poll's ballot.
type PollOption struct {
	RecipeID uuid.UUID `json:"recipe_id"`
	Votes    int       `json:"votes"`
}

// Poll is the aggregate root for a family vote over recipes.
type Poll struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Options     []PollOption `json:"options"`
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	EndsAt      time.Time    `json:"ends_at"`
	Status      PollStatus   `json:"status"`
}

// TotalVotes sums the votes over all options.
func (p *Poll) TotalVotes() int {
	total := 0
	for _, opt := range p.Options {
		total += opt.Votes
	}
	return total
}

// StatusAt derives the effective status at now. An active poll whose end
// time has passed reads as ended; the stored status is left untouched.
func (p *Poll) StatusAt(now time.Time) PollStatus {
	if p.Status == PollActive && !p.EndsAt.After(now) {
		return PollEnded
	}
	return p.Status
}

// IsActiveAt reports whether the poll still accepts votes at now.
func (p *Poll) IsActiveAt(now time.Time) bool {
	return p.StatusAt(now) == PollActive
}

// OptionIndex returns the position of recipeID among the options, or -1.
func (p *Poll) OptionIndex(recipeID uuid.UUID) int {
	for i, opt := range p.Options {
		if opt.RecipeID == recipeID {
			return i
		}
	}
	return -1
}
