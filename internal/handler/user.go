package handler

import (
	"context"
	"fmt"
	"net/http"

	"reviewer-service/internal/app/middleware"
	"reviewer-service/internal/domain"

	"go.uber.org/zap"
)

type userService interface {
	SetIsActive(ctx context.Context, userID string, isActive bool) (domain.User, error)
	GetPRsByReviewer(ctx context.Context, userID string) ([]domain.PullRequest, error)
	BulkDeactivateTeam(ctx context.Context, teamName string) ([]domain.Reassignment, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service userService
	logger  *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service userService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// User DTOs matching OpenAPI schema with snake_case

type SetIsActiveRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

type BulkDeactivateRequest struct {
	TeamName string `json:"team_name" validate:"required"`
}

type UserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	TeamName string `json:"team_name"`
	IsActive bool   `json:"is_active"`
}

type PullRequestShort struct {
	PullRequestID   string `json:"pull_request_id"`
	PullRequestName string `json:"pull_request_name"`
	AuthorID        string `json:"author_id"`
	Status          string `json:"status"`
}

type GetReviewResponse struct {
	UserID       string             `json:"user_id"`
	PullRequests []PullRequestShort `json:"pull_requests"`
}

type BulkDeactivateResponse struct {
	TeamName      string `json:"team_name"`
	ReassignedPRs int    `json:"reassigned_prs"`
	Message       string `json:"message"`
}

// SetIsActive handles POST /users/setIsActive
func (h *UserHandler) SetIsActive(w http.ResponseWriter, r *http.Request) {
	var req SetIsActiveRequest
	if err := decodeRequest(w, r, &req); err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	user, err := h.service.SetIsActive(r.Context(), req.UserID, *req.IsActive)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, mapUserToResponse(user), h.logger)
}

// GetReview handles GET /users/getReview?user_id=...
func (h *UserHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		middleware.WriteErrorResponse(w, domain.ErrInvalidArgument, h.logger)
		return
	}

	prs, err := h.service.GetPRsByReviewer(r.Context(), userID)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	// Short form: no reviewers or timestamps
	result := make([]PullRequestShort, len(prs))
	for i, pr := range prs {
		result[i] = PullRequestShort{
			PullRequestID:   pr.PullRequestID,
			PullRequestName: pr.PullRequestName,
			AuthorID:        pr.AuthorID,
			Status:          string(pr.Status),
		}
	}

	writeJSON(w, http.StatusOK, GetReviewResponse{UserID: userID, PullRequests: result}, h.logger)
}

// BulkDeactivate handles POST /users/bulkDeactivate
func (h *UserHandler) BulkDeactivate(w http.ResponseWriter, r *http.Request) {
	var req BulkDeactivateRequest
	if err := decodeRequest(w, r, &req); err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	reassignments, err := h.service.BulkDeactivateTeam(r.Context(), req.TeamName)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	resp := BulkDeactivateResponse{
		TeamName:      req.TeamName,
		ReassignedPRs: len(reassignments),
		Message:       fmt.Sprintf("Team members deactivated. %d PRs reassigned.", len(reassignments)),
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

func mapUserToResponse(user domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		TeamName: user.TeamName,
		IsActive: user.IsActive,
	}
}
