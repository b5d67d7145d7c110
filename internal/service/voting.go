package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/store"
)

// CreatePollInput holds the parameters for a new poll
type CreatePollInput struct {
	Title       string
	Description string
	RecipeIDs   []uuid.UUID
	Duration    time.Duration
	CreatedBy   string
}

// OptionResult is one option of a poll summary.
type OptionResult struct {
	RecipeID   uuid.UUID `json:"recipe_id"`
	Votes      int       `json:"votes"`
	Percentage float64   `json:"percentage"`
}

// PollResults summarises a poll at a point in time.
type PollResults struct {
	PollID     uuid.UUID         `json:"poll_id"`
	Status     models.PollStatus `json:"status"`
	TotalVotes int               `json:"total_votes"`
	Options    []OptionResult    `json:"options"`
	Winner     *uuid.UUID        `json:"winner,omitempty"`
}

// VotingEngine owns poll lifecycles and vote tallies. Its read-modify-write
// cycles are serialised, so concurrent calls on one engine never lose votes.
// Separate engines over the same database can still race.
type VotingEngine struct {
	polls store.PollRepository
	log   *logger.Logger
	now   func() time.Time
	mu    sync.Mutex
}

type VotingOption func(*VotingEngine)

// WithClock replaces the engine's time source.
func WithClock(now func() time.Time) VotingOption {
	return func(e *VotingEngine) {
		e.now = now
	}
}

// NewVotingEngine creates a new VotingEngine instance
func NewVotingEngine(polls store.PollRepository, log *logger.Logger, opts ...VotingOption) *VotingEngine {
	if log == nil {
		log = logger.Nop()
	}
	e := &VotingEngine{
		polls: polls,
		log:   log.With("component", "voting"),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreatePoll opens a poll over the given recipes, ending Duration from now.
func (e *VotingEngine) CreatePoll(ctx context.Context, in CreatePollInput) (*models.Poll, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidPoll)
	}
	if len(in.RecipeIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one option is required", models.ErrInvalidPoll)
	}

	seen := make(map[uuid.UUID]struct{}, len(in.RecipeIDs))
	options := make([]models.PollOption, 0, len(in.RecipeIDs))
	for _, id := range in.RecipeIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: recipe %s listed twice", models.ErrInvalidPoll, id)
		}
		seen[id] = struct{}{}
		options = append(options, models.PollOption{RecipeID: id})
	}

	now := e.now()
	poll := &models.Poll{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Options:     options,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		EndsAt:      now.Add(in.Duration),
		Status:      models.PollActive,
	}

	if _, err := e.polls.CreatePoll(ctx, poll); err != nil {
		return nil, err
	}
	e.log.Info("poll created", "id", poll.ID.String(), "options", len(options), "ends_at", poll.EndsAt)
	return poll, nil
}

// GetPoll returns the poll with id or models.ErrNotFound.
func (e *VotingEngine) GetPoll(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	p, err := e.polls.FetchPoll(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, models.ErrNotFound
	}
	return p, nil
}

// Vote adds one vote for recipeID on the poll's freshly read state. A recipe
// that is not an option is rejected with models.ErrInvalidOption; a poll that
// is no longer active at the engine's clock with models.ErrPollClosed.
func (e *VotingEngine) Vote(ctx context.Context, pollID, recipeID uuid.UUID) (*models.Poll, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	idx := p.OptionIndex(recipeID)
	if idx < 0 {
		return nil, models.ErrInvalidOption
	}
	if !p.IsActiveAt(e.now()) {
		return nil, models.ErrPollClosed
	}

	p.Options[idx].Votes++
	if err := e.polls.UpdatePoll(ctx, p); err != nil {
		return nil, err
	}
	e.log.Debug("vote recorded", "poll_id", pollID.String(), "recipe_id", recipeID.String(), "votes", p.Options[idx].Votes)
	return p, nil
}

// ActivePolls returns polls still marked active whose end time is in the future.
func (e *VotingEngine) ActivePolls(ctx context.Context) ([]*models.Poll, error) {
	all, err := e.polls.FetchAllPolls(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	now := e.now()
	out := make([]*models.Poll, 0, len(all))
	for _, p := range all {
		if p.Status == models.PollActive && p.EndsAt.After(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

// CompletedPolls returns polls that were ended explicitly or whose end time
// has passed, whatever their stored status.
func (e *VotingEngine) CompletedPolls(ctx context.Context) ([]*models.Poll, error) {
	all, err := e.polls.FetchAllPolls(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	now := e.now()
	out := make([]*models.Poll, 0, len(all))
	for _, p := range all {
		if p.Status == models.PollEnded || !p.EndsAt.After(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

// AllPolls returns every poll, newest first.
func (e *VotingEngine) AllPolls(ctx context.Context) ([]*models.Poll, error) {
	all, err := e.polls.FetchAllPolls(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	return all, nil
}

// WinningOption returns the first option with the most votes, or nil for a
// poll without options.
func WinningOption(p *models.Poll) *models.PollOption {
	var best *models.PollOption
	for i := range p.Options {
		if best == nil || p.Options[i].Votes > best.Votes {
			best = &p.Options[i]
		}
	}
	return best
}

func VoteCount(p *models.Poll) int {
	return p.TotalVotes()
}

// VotePercentage is option's share of the poll's votes in [0, 100]. It is 0
// while nobody has voted.
func VotePercentage(option models.PollOption, p *models.Poll) float64 {
	total := p.TotalVotes()
	if total == 0 {
		return 0
	}
	return float64(option.Votes) / float64(total) * 100
}

// Results summarises p at the engine's clock.
func (e *VotingEngine) Results(p *models.Poll) PollResults {
	res := PollResults{
		PollID:     p.ID,
		Status:     p.StatusAt(e.now()),
		TotalVotes: p.TotalVotes(),
		Options:    make([]OptionResult, 0, len(p.Options)),
	}
	for _, opt := range p.Options {
		res.Options = append(res.Options, OptionResult{
			RecipeID:   opt.RecipeID,
			Votes:      opt.Votes,
			Percentage: VotePercentage(opt, p),
		})
	}
	if w := WinningOption(p); w != nil {
		id := w.RecipeID
		res.Winner = &id
	}
	return res
}

// EndPoll marks the poll ended. Ending an ended poll changes nothing;
// ending a cancelled one is rejected.
func (e *VotingEngine) EndPoll(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.GetPoll(ctx, id)
	if err != nil {
		return nil, err
	}
	switch p.Status {
	case models.PollEnded:
		return p, nil
	case models.PollCancelled:
		return nil, fmt.Errorf("%w: poll %s is cancelled", models.ErrInvalidTransition, id)
	}

	p.Status = models.PollEnded
	if err := e.polls.UpdatePoll(ctx, p); err != nil {
		return nil, err
	}
	e.log.Info("poll ended", "id", id.String(), "total_votes", p.TotalVotes())
	return p, nil
}

// CancelPoll marks an active poll cancelled. Cancelling a cancelled poll
// changes nothing; a poll that has ended, explicitly or by time, cannot be
// cancelled.
func (e *VotingEngine) CancelPoll(ctx context.Context, id uuid.UUID) (*models.Poll, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.GetPoll(ctx, id)
	if err != nil {
		return nil, err
	}
	switch p.StatusAt(e.now()) {
	case models.PollCancelled:
		return p, nil
	case models.PollEnded:
		return nil, fmt.Errorf("%w: poll %s has ended", models.ErrInvalidTransition, id)
	}

	p.Status = models.PollCancelled
	if err := e.polls.UpdatePoll(ctx, p); err != nil {
		return nil, err
	}
	e.log.Info("poll cancelled", "id", id.String())
	return p, nil
}

// DeletePoll removes the poll and its options.
func (e *VotingEngine) DeletePoll(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.polls.DeletePoll(ctx, id)
}
