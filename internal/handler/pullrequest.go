package handler

import (
	"context"
	"net/http"
	"time"

	"reviewer-service/internal/app/middleware"
	"reviewer-service/internal/domain"

	"go.uber.org/zap"
)

type prService interface {
	CreatePR(ctx context.Context, prID, prName, authorID string) (domain.PullRequest, error)
	MergePR(ctx context.Context, prID string) (domain.PullRequest, error)
	ReassignReviewer(ctx context.Context, prID, oldUserID string) (domain.PullRequest, string, error)
}

// PRHandler handles pull request HTTP requests
type PRHandler struct {
	service prService
	logger  *zap.Logger
}

// NewPRHandler creates a new PR handler
func NewPRHandler(service prService, logger *zap.Logger) *PRHandler {
	return &PRHandler{
		service: service,
		logger:  logger,
	}
}

// PR DTOs matching OpenAPI schema with snake_case

type CreatePRRequest struct {
	PullRequestID   string `json:"pull_request_id" validate:"required"`
	PullRequestName string `json:"pull_request_name" validate:"required"`
	AuthorID        string `json:"author_id" validate:"required"`
}

type MergePRRequest struct {
	PullRequestID string `json:"pull_request_id" validate:"required"`
}

type ReassignRequest struct {
	PullRequestID string `json:"pull_request_id" validate:"required"`
	OldUserID     string `json:"old_user_id" validate:"required"`
}

type PullRequestDTO struct {
	PullRequestID     string   `json:"pull_request_id"`
	PullRequestName   string   `json:"pull_request_name"`
	AuthorID          string   `json:"author_id"`
	Status            string   `json:"status"`
	AssignedReviewers []string `json:"assigned_reviewers"`
	CreatedAt         string   `json:"createdAt"`
	MergedAt          *string  `json:"mergedAt"`
}

type ReassignResponse struct {
	PR         PullRequestDTO `json:"pr"`
	ReplacedBy string         `json:"replaced_by"`
}

// CreatePR handles POST /pullRequest/create
func (h *PRHandler) CreatePR(w http.ResponseWriter, r *http.Request) {
	var req CreatePRRequest
	if err := decodeRequest(w, r, &req); err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	pr, err := h.service.CreatePR(r.Context(), req.PullRequestID, req.PullRequestName, req.AuthorID)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, mapPRToDTO(pr), h.logger)
}

// MergePR handles POST /pullRequest/merge
func (h *PRHandler) MergePR(w http.ResponseWriter, r *http.Request) {
	var req MergePRRequest
	if err := decodeRequest(w, r, &req); err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	pr, err := h.service.MergePR(r.Context(), req.PullRequestID)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, mapPRToDTO(pr), h.logger)
}

// ReassignReviewer handles POST /pullRequest/reassign
func (h *PRHandler) ReassignReviewer(w http.ResponseWriter, r *http.Request) {
	var req ReassignRequest
	if err := decodeRequest(w, r, &req); err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	pr, replacedBy, err := h.service.ReassignReviewer(r.Context(), req.PullRequestID, req.OldUserID)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ReassignResponse{PR: mapPRToDTO(pr), ReplacedBy: replacedBy}, h.logger)
}

func mapPRToDTO(pr domain.PullRequest) PullRequestDTO {
	reviewers := pr.AssignedReviewers
	if reviewers == nil {
		reviewers = []string{}
	}

	dto := PullRequestDTO{
		PullRequestID:     pr.PullRequestID,
		PullRequestName:   pr.PullRequestName,
		AuthorID:          pr.AuthorID,
		Status:            string(pr.Status),
		AssignedReviewers: reviewers,
		CreatedAt:         pr.CreatedAt.UTC().Format(time.RFC3339),
	}

	if pr.MergedAt != nil {
		mergedAt := pr.MergedAt.UTC().Format(time.RFC3339)
		dto.MergedAt = &mergedAt
	}

	return dto
}
