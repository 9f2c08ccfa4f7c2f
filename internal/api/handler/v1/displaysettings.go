package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/service"
)

type DisplaySettingsService interface {
	GetOrCreateDisplaySettings(ctx context.Context, electionID uint, positionIDs []uint) (domain.DisplaySettings, error)
	UpdateDisplaySettings(ctx context.Context, electionID uint, update domain.DisplaySettingsUpdate) (domain.DisplaySettings, error)
	UpdatePositionConfig(ctx context.Context, electionID, positionID uint, update domain.PositionConfigUpdate) (domain.DisplaySettings, error)
	PublishResults(ctx context.Context, electionID uint) (domain.DisplaySettings, error)
	UnpublishResults(ctx context.Context, electionID uint) (domain.DisplaySettings, error)
	ApplyGlobalSettings(ctx context.Context, electionID uint, showRawScore, showWinnerOnly bool) (domain.DisplaySettings, error)
}

type SettingsElectionService interface {
	GetElection(ctx context.Context, id uint) (domain.Election, error)
}

type DisplaySettingsHandler struct {
	svc       DisplaySettingsService
	elections SettingsElectionService
}

func NewDisplaySettingsHandler(svc DisplaySettingsService, elections SettingsElectionService) *DisplaySettingsHandler {
	return &DisplaySettingsHandler{
		svc:       svc,
		elections: elections,
	}
}

// electionPositionIDs loads the election so freshly added positions get their
// defaulted display configs on read.
func (h *DisplaySettingsHandler) electionPositionIDs(ctx *gin.Context, electionID uint) ([]uint, bool) {
	election, err := h.elections.GetElection(ctx.Request.Context(), electionID)
	if err != nil {
		if errors.Is(err, service.ErrElectionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrElectionNotFound))

			return nil, false
		}

		err = fmt.Errorf("v1.DisplaySettingsHandler.electionPositionIDs -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return nil, false
	}

	ids := make([]uint, 0, len(election.Positions))
	for _, p := range election.Positions {
		ids = append(ids, p.ID)
	}

	return ids, true
}

// HandleGetDisplaySettings godoc
// @Summary      Get an election's display settings, creating defaults on first access
// @Tags         display-settings
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Success      200      {object}   domain.DisplaySettings
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID}/display-settings [get]
func (h *DisplaySettingsHandler) HandleGetDisplaySettings(ctx *gin.Context) {
	electionID, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	positionIDs, ok := h.electionPositionIDs(ctx, electionID)
	if !ok {
		return
	}

	settings, err := h.svc.GetOrCreateDisplaySettings(ctx.Request.Context(), electionID, positionIDs)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetDisplaySettings -> h.svc.GetOrCreateDisplaySettings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandleUpdateDisplaySettings godoc
// @Summary      Edit the election-wide display flags
// @Tags         display-settings
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Param        request      body      request.UpdateDisplaySettingsRequest true "request body"
// @Success      200      {object}   domain.DisplaySettings
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID}/display-settings [put]
func (h *DisplaySettingsHandler) HandleUpdateDisplaySettings(ctx *gin.Context) {
	electionID, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	req := request.UpdateDisplaySettingsRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	settings, err := h.svc.UpdateDisplaySettings(ctx.Request.Context(), electionID, domain.DisplaySettingsUpdate{
		ShowRawScore:   req.ShowRawScore,
		ShowWinnerOnly: req.ShowWinnerOnly,
	})
	if err != nil {
		if errors.Is(err, service.ErrDisplaySettingsNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrDisplaySettingsNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateDisplaySettings -> h.svc.UpdateDisplaySettings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandleUpdatePositionConfig godoc
// @Summary      Edit one position's display config
// @Tags         display-settings
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Param        positionID   path      int true "position ID"
// @Param        request      body      request.UpdatePositionConfigRequest true "request body"
// @Success      200      {object}   domain.DisplaySettings
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID}/display-settings/positions/{positionID} [put]
func (h *DisplaySettingsHandler) HandleUpdatePositionConfig(ctx *gin.Context) {
	electionID, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}
	positionID, ok := parseIDParam(ctx, "positionID")
	if !ok {
		return
	}

	req := request.UpdatePositionConfigRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	settings, err := h.svc.UpdatePositionConfig(ctx.Request.Context(), electionID, positionID, domain.PositionConfigUpdate{
		ShowRawScore:   req.ShowRawScore,
		ShowWinnerOnly: req.ShowWinnerOnly,
		Skip:           req.Skip,
	})
	if err != nil {
		if errors.Is(err, service.ErrDisplaySettingsNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrDisplaySettingsNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleUpdatePositionConfig -> h.svc.UpdatePositionConfig -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandlePublishResults godoc
// @Summary      Publish the election's results
// @Tags         display-settings
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Success      200      {object}   domain.DisplaySettings
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID}/display-settings/publish [post]
func (h *DisplaySettingsHandler) HandlePublishResults(ctx *gin.Context) {
	h.setPublished(ctx, h.svc.PublishResults)
}

// HandleUnpublishResults godoc
// @Summary      Take the election's results back down
// @Tags         display-settings
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Success      200      {object}   domain.DisplaySettings
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID}/display-settings/unpublish [post]
func (h *DisplaySettingsHandler) HandleUnpublishResults(ctx *gin.Context) {
	h.setPublished(ctx, h.svc.UnpublishResults)
}

func (h *DisplaySettingsHandler) setPublished(ctx *gin.Context, op func(ctx context.Context, electionID uint) (domain.DisplaySettings, error)) {
	electionID, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	settings, err := op(ctx.Request.Context(), electionID)
	if err != nil {
		if errors.Is(err, service.ErrDisplaySettingsNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrDisplaySettingsNotFound))

			return
		}

		err = fmt.Errorf("v1.DisplaySettingsHandler.setPublished -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, settings)
}

// HandleApplyGlobalSettings godoc
// @Summary      Apply the election-wide flags onto every position config
// @Tags         display-settings
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Param        request      body      request.ApplyGlobalSettingsRequest true "request body"
// @Success      200      {object}   domain.DisplaySettings
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID}/display-settings/apply-global [post]
func (h *DisplaySettingsHandler) HandleApplyGlobalSettings(ctx *gin.Context) {
	electionID, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	req := request.ApplyGlobalSettingsRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	settings, err := h.svc.ApplyGlobalSettings(ctx.Request.Context(), electionID, req.ShowRawScore, req.ShowWinnerOnly)
	if err != nil {
		if errors.Is(err, service.ErrDisplaySettingsNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrDisplaySettingsNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleApplyGlobalSettings -> h.svc.ApplyGlobalSettings -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, settings)
}
