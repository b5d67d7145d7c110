package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/store"
)

// UserService handles user operations
type UserService struct {
	users store.UserRepository
	log   *logger.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(users store.UserRepository, log *logger.Logger) *UserService {
	if log == nil {
		log = logger.Nop()
	}
	return &UserService{users: users, log: log.With("component", "users")}
}

// Create stores a new user. Unset preferences become the defaults.
func (s *UserService) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}
	normalizeUser(u)

	id, err := s.users.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", "id", id.String())
	return s.Get(ctx, id)
}

// Get returns the user with id or models.ErrNotFound.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.FetchUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, u *models.User) error {
	if u != nil && u.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", models.ErrInvalidUser)
	}
	if err := validateUser(u); err != nil {
		return err
	}
	normalizeUser(u)
	return s.users.UpdateUser(ctx, u)
}

func validateUser(u *models.User) error {
	if u == nil {
		return fmt.Errorf("%w: missing user", models.ErrInvalidUser)
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", models.ErrInvalidUser)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: invalid email %q", models.ErrInvalidUser, u.Email)
	}
	return validatePreferences(u.Preferences)
}

// validatePreferences rejects unknown labels. An empty spice level is
// allowed and becomes the default.
func validatePreferences(p models.Preferences) error {
	if p.SpiceLevel != "" && !p.SpiceLevel.Valid() {
		return fmt.Errorf("%w: unknown spice level %q", models.ErrInvalidUser, p.SpiceLevel)
	}
	for _, d := range p.DietaryRestrictions {
		if !d.Valid() {
			return fmt.Errorf("%w: unknown dietary restriction %q", models.ErrInvalidUser, d)
		}
	}
	for _, g := range p.HealthGoals {
		if !g.Valid() {
			return fmt.Errorf("%w: unknown health goal %q", models.ErrInvalidUser, g)
		}
	}
	return nil
}

func normalizeUser(u *models.User) {
	if u.Preferences.IsZero() {
		u.Preferences = models.DefaultPreferences()
	}
	if u.Preferences.SpiceLevel == "" {
		u.Preferences.SpiceLevel = models.SpiceMedium
	}
	if u.Preferences.DietaryRestrictions == nil {
		u.Preferences.DietaryRestrictions = []models.DietaryRestriction{}
	}
	if u.Preferences.CuisinePreferences == nil {
		u.Preferences.CuisinePreferences = []string{}
	}
	if u.Preferences.HealthGoals == nil {
		u.Preferences.HealthGoals = []models.HealthGoal{}
	}
	if u.FavoriteRecipes == nil {
		u.FavoriteRecipes = []uuid.UUID{}
	}
	if u.CreatedRecipes == nil {
		u.CreatedRecipes = []uuid.UUID{}
	}
}
