package codec

import (
	"fmt"
	"sort"

	"github.com/pageza/cucina/backend/internal/model"
	"github.com/pageza/cucina/backend/internal/models"
)

func (c *Codec) EncodePoll(p *models.Poll) (*model.Poll, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil poll", models.ErrEncodeFailure)
	}
	if !p.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown poll status %q", models.ErrEncodeFailure, p.Status)
	}

	row := &model.Poll{
		ID:          p.ID,
		CreatedAt:   p.CreatedAt,
		Title:       p.Title,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		EndsAt:      p.EndsAt,
		Status:      string(p.Status),
		Options:     make([]model.PollOption, 0, len(p.Options)),
	}
	for i, opt := range p.Options {
		if opt.Votes < 0 {
			return nil, fmt.Errorf("%w: negative vote count for recipe %s", models.ErrEncodeFailure, opt.RecipeID)
		}
		row.Options = append(row.Options, model.PollOption{
			PollID:   p.ID,
			RecipeID: opt.RecipeID,
			Position: i,
			Votes:    opt.Votes,
		})
	}
	return row, nil
}

func (c *Codec) DecodePoll(row *model.Poll) *models.Poll {
	status, ok := DecodePollStatus(row.Status)
	if !ok {
		c.report(EntityPoll, row.ID, "status", row.Status, string(status))
	}

	p := &models.Poll{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
		EndsAt:      row.EndsAt,
		Status:      status,
		Options:     make([]models.PollOption, 0, len(row.Options)),
	}

	children := append([]model.PollOption(nil), row.Options...)
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Position < children[j].Position
	})
	for _, opt := range children {
		p.Options = append(p.Options, models.PollOption{RecipeID: opt.RecipeID, Votes: opt.Votes})
	}
	return p
}
