package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/cucina/backend/internal/models"
	"github.com/pageza/cucina/backend/internal/service"
)

// CreatePollRequest is the body of POST /polls. DurationSeconds may be
// negative, which creates a poll that has already ended.
type CreatePollRequest struct {
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	RecipeIDs       []uuid.UUID `json:"recipe_ids"`
	DurationSeconds int64       `json:"duration_seconds"`
	CreatedBy       string      `json:"created_by"`
}

type VoteRequest struct {
	RecipeID uuid.UUID `json:"recipe_id"`
}

// PollResponse pairs a poll with its tally at the time of the request.
type PollResponse struct {
	Poll    *models.Poll        `json:"poll"`
	Results service.PollResults `json:"results"`
}

type PollHandler struct {
	engine *service.VotingEngine
}

func NewPollHandler(engine *service.VotingEngine) *PollHandler {
	return &PollHandler{engine: engine}
}

func (h *PollHandler) RegisterRoutes(router *gin.RouterGroup) {
	polls := router.Group("/polls")
	{
		polls.GET("", h.ListPolls)
		polls.POST("", h.CreatePoll)
		polls.GET("/:id", h.GetPoll)
		polls.DELETE("/:id", h.DeletePoll)
		polls.POST("/:id/votes", h.Vote)
		polls.POST("/:id/end", h.EndPoll)
		polls.POST("/:id/cancel", h.CancelPoll)
	}
}

func (h *PollHandler) respond(c *gin.Context, status int, p *models.Poll) {
	c.JSON(status, PollResponse{Poll: p, Results: h.engine.Results(p)})
}

// ListPolls lists all polls, or only the active or completed ones when
// state is given.
func (h *PollHandler) ListPolls(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		polls []*models.Poll
		err   error
	)
	switch state := c.Query("state"); state {
	case "":
		polls, err = h.engine.AllPolls(ctx)
	case "active":
		polls, err = h.engine.ActivePolls(ctx)
	case "completed":
		polls, err = h.engine.CompletedPolls(ctx)
	default:
		badRequest(c, "unknown state %q", state)
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]PollResponse, 0, len(polls))
	for _, p := range polls {
		out = append(out, PollResponse{Poll: p, Results: h.engine.Results(p)})
	}
	c.JSON(http.StatusOK, gin.H{"polls": out})
}

func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.engine.CreatePoll(c.Request.Context(), service.CreatePollInput{
		Title:       req.Title,
		Description: req.Description,
		RecipeIDs:   req.RecipeIDs,
		Duration:    time.Duration(req.DurationSeconds) * time.Second,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respond(c, http.StatusCreated, p)
}

func (h *PollHandler) GetPoll(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.engine.GetPoll(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respond(c, http.StatusOK, p)
}

func (h *PollHandler) DeletePoll(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.engine.DeletePoll(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PollHandler) Vote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req VoteRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.engine.Vote(c.Request.Context(), id, req.RecipeID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respond(c, http.StatusOK, p)
}

func (h *PollHandler) EndPoll(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.engine.EndPoll(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respond(c, http.StatusOK, p)
}

func (h *PollHandler) CancelPoll(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.engine.CancelPoll(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respond(c, http.StatusOK, p)
}
