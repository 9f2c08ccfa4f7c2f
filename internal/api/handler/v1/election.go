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

type ElectionService interface {
	CreateElection(ctx context.Context, election domain.Election) (domain.Election, error)
	GetElection(ctx context.Context, id uint) (domain.Election, error)
	ListElections(ctx context.Context) ([]domain.Election, error)
	UpdateElection(ctx context.Context, id uint, update domain.ElectionUpdate) (domain.Election, error)
	DeleteElection(ctx context.Context, id uint) (bool, error)
	OpenElection(ctx context.Context, id uint) (domain.Election, error)
	CloseElection(ctx context.Context, id uint) (domain.Election, error)
}

type ElectionHandler struct {
	svc ElectionService
}

func NewElectionHandler(svc ElectionService) *ElectionHandler {
	return &ElectionHandler{
		svc: svc,
	}
}

// HandleCreateElection godoc
// @Summary      Create an election with its positions and candidates
// @Tags         elections
// @Produce      json
// @Param        request   body      request.CreateElectionRequest true "request body"
// @Success      201      {object}   domain.Election
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /elections [post]
func (h *ElectionHandler) HandleCreateElection(ctx *gin.Context) {
	req := request.CreateElectionRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	positions := make([]domain.Position, 0, len(req.Positions))
	for _, p := range req.Positions {
		candidates := make([]domain.Candidate, 0, len(p.Candidates))
		for _, c := range p.Candidates {
			candidates = append(candidates, domain.Candidate{
				Name:      c.Name,
				Classroom: c.Classroom,
			})
		}
		positions = append(positions, domain.Position{
			Title:      p.Title,
			Candidates: candidates,
		})
	}

	election, err := h.svc.CreateElection(ctx.Request.Context(), domain.Election{
		Title:     req.Title,
		Type:      req.Type,
		EndDate:   req.EndDate,
		Positions: positions,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateElection -> h.svc.CreateElection -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, election)
}

// HandleListElections godoc
// @Summary      List all elections
// @Tags         elections
// @Produce      json
// @Success      200      {object}   []domain.Election
// @Failure      500      {object}   response.Err
// @Router       /elections [get]
func (h *ElectionHandler) HandleListElections(ctx *gin.Context) {
	elections, err := h.svc.ListElections(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListElections -> h.svc.ListElections -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, elections)
}

// HandleGetElection godoc
// @Summary      Get an election by ID
// @Tags         elections
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Success      200      {object}   domain.Election
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID} [get]
func (h *ElectionHandler) HandleGetElection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	election, err := h.svc.GetElection(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrElectionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrElectionNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetElection -> h.svc.GetElection -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, election)
}

// HandleUpdateElection godoc
// @Summary      Edit an election's title, type or end date
// @Tags         elections
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Param        request      body      request.UpdateElectionRequest true "request body"
// @Success      200      {object}   domain.Election
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID} [put]
func (h *ElectionHandler) HandleUpdateElection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	req := request.UpdateElectionRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	election, err := h.svc.UpdateElection(ctx.Request.Context(), id, domain.ElectionUpdate{
		Title:   req.Title,
		Type:    req.Type,
		EndDate: req.EndDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrElectionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrElectionNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateElection -> h.svc.UpdateElection -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, election)
}

// HandleDeleteElection godoc
// @Summary      Delete an election and everything under it
// @Tags         elections
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID} [delete]
func (h *ElectionHandler) HandleDeleteElection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	removed, err := h.svc.DeleteElection(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleDeleteElection -> h.svc.DeleteElection -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}
	if !removed {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrElectionNotFound))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleOpenElection godoc
// @Summary      Open a draft election for voting
// @Tags         elections
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Success      200      {object}   domain.Election
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID}/open [post]
func (h *ElectionHandler) HandleOpenElection(ctx *gin.Context) {
	h.transition(ctx, h.svc.OpenElection)
}

// HandleCloseElection godoc
// @Summary      Close an open election
// @Tags         elections
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Success      200      {object}   domain.Election
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID}/close [post]
func (h *ElectionHandler) HandleCloseElection(ctx *gin.Context) {
	h.transition(ctx, h.svc.CloseElection)
}

func (h *ElectionHandler) transition(ctx *gin.Context, op func(ctx context.Context, id uint) (domain.Election, error)) {
	id, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	election, err := op(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrElectionNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrElectionNotFound))
		case errors.Is(err, service.ErrInvalidStatusTransition):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidStatusTransition))
		default:
			err = fmt.Errorf("v1.ElectionHandler.transition -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, election)
}
