package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/service"
)

type ResultsService interface {
	CheckVisibility(ctx context.Context, electionID uint) error
	PublicResults(ctx context.Context, electionID uint) (domain.PublicResults, error)
}

type ResultsElectionService interface {
	GetElection(ctx context.Context, id uint) (domain.Election, error)
}

// ResultsHandler serves two result views: the admin one with full tallies,
// and the public one shaped and gated by the display settings.
type ResultsHandler struct {
	svc       ResultsService
	elections ResultsElectionService
}

func NewResultsHandler(svc ResultsService, elections ResultsElectionService) *ResultsHandler {
	return &ResultsHandler{
		svc:       svc,
		elections: elections,
	}
}

// HandleGetAdminResults godoc
// @Summary      Full election tallies for the admin results page
// @Tags         results
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Success      200      {object}   domain.Election
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID}/results [get]
func (h *ResultsHandler) HandleGetAdminResults(ctx *gin.Context) {
	electionID, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	election, err := h.elections.GetElection(ctx.Request.Context(), electionID)
	if err != nil {
		if errors.Is(err, service.ErrElectionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrElectionNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetAdminResults -> h.elections.GetElection -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, election)
}

// HandleGetPublicResults godoc
// @Summary      Public election results, visible only after the end date has
//               passed and an admin has published them
// @Tags         results
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Success      200      {object}   domain.PublicResults
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /public/elections/{electionID}/results [get]
func (h *ResultsHandler) HandleGetPublicResults(ctx *gin.Context) {
	electionID, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	results, err := h.svc.PublicResults(ctx.Request.Context(), electionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrElectionNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrElectionNotFound))
		case errors.Is(err, service.ErrElectionStillActive), errors.Is(err, service.ErrResultsNotPublished):
			response.RenderErr(ctx, response.ErrForbidden(err))
		default:
			err = fmt.Errorf("v1.HandleGetPublicResults -> h.svc.PublicResults -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, results)
}
