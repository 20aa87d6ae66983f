package handler

import (
	"context"
	"net/http"

	"reviewer-service/internal/app/middleware"
	"reviewer-service/internal/domain"

	"go.uber.org/zap"
)

type statsService interface {
	GetStats(ctx context.Context) (domain.Stats, error)
}

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	service statsService
	logger  *zap.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service statsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger,
	}
}

type StatsResponse struct {
	TotalPRs            int            `json:"total_prs"`
	OpenPRs             int            `json:"open_prs"`
	MergedPRs           int            `json:"merged_prs"`
	TotalUsers          int            `json:"total_users"`
	ActiveUsers         int            `json:"active_users"`
	TotalTeams          int            `json:"total_teams"`
	ReviewerAssignments map[string]int `json:"reviewer_assignments"`
}

// GetStats handles GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	assignments := stats.ReviewerAssignments
	if assignments == nil {
		assignments = map[string]int{}
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		TotalPRs:            stats.TotalPRs,
		OpenPRs:             stats.OpenPRs,
		MergedPRs:           stats.MergedPRs,
		TotalUsers:          stats.TotalUsers,
		ActiveUsers:         stats.ActiveUsers,
		TotalTeams:          stats.TotalTeams,
		ReviewerAssignments: assignments,
	}, h.logger)
}
