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

type VoteService interface {
	CastVote(ctx context.Context, studentID uint, nationalID string, electionID uint, choices []domain.VoteChoice) (domain.Vote, error)
	HasVoted(ctx context.Context, studentID, electionID uint) (bool, error)
	VerifyTokenFormat(token string) bool
}

type VoteHandler struct {
	svc VoteService
}

func NewVoteHandler(svc VoteService) *VoteHandler {
	return &VoteHandler{
		svc: svc,
	}
}

// HandleCastVote godoc
// @Summary      Cast a ballot in an open election
// @Tags         votes
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Param        request      body      request.CastVoteRequest true "request body"
// @Success      201      {object}   response.VoteReceipt
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /elections/{electionID}/vote [post]
func (h *VoteHandler) HandleCastVote(ctx *gin.Context) {
	electionID, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}

	req := request.CastVoteRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	choices := make([]domain.VoteChoice, 0, len(req.Choices))
	for _, c := range req.Choices {
		choices = append(choices, domain.VoteChoice{
			PositionID:  c.PositionID,
			CandidateID: c.CandidateID,
		})
	}

	vote, err := h.svc.CastVote(ctx.Request.Context(), req.StudentID, req.NationalID, electionID, choices)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrElectionNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.Is(err, service.ErrVotingNotApproved),
			errors.Is(err, service.ErrElectionNotOpen),
			errors.Is(err, service.ErrElectionEnded),
			errors.Is(err, service.ErrAlreadyVoted):
			response.RenderErr(ctx, response.ErrForbidden(err))
		case errors.Is(err, service.ErrInvalidBallot):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidBallot))
		default:
			err = fmt.Errorf("v1.HandleCastVote -> h.svc.CastVote -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, response.VoteReceipt{
		Token: vote.Token,
	})
}

// HandleVerifyToken godoc
// @Summary      Check whether a receipt token is well-formed
// @Tags         votes
// @Produce      json
// @Param        token   path      string true "receipt token"
// @Success      200      {object}   response.TokenVerification
// @Router       /votes/verify/{token} [get]
func (h *VoteHandler) HandleVerifyToken(ctx *gin.Context) {
	token := ctx.Param("token")

	ctx.JSON(http.StatusOK, response.TokenVerification{
		Token: token,
		Valid: h.svc.VerifyTokenFormat(token),
	})
}

// HandleHasVoted godoc
// @Summary      Whether a student has voted in an election
// @Tags         votes
// @Produce      json
// @Param        electionID   path      int true "election ID"
// @Param        studentID    path      int true "student ID"
// @Success      200      {object}   response.HasVoted
// @Router       /elections/{electionID}/voted/{studentID} [get]
func (h *VoteHandler) HandleHasVoted(ctx *gin.Context) {
	electionID, ok := parseIDParam(ctx, "electionID")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "studentID")
	if !ok {
		return
	}

	voted, err := h.svc.HasVoted(ctx.Request.Context(), studentID, electionID)
	if err != nil {
		err = fmt.Errorf("v1.HandleHasVoted -> h.svc.HasVoted -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.HasVoted{
		ElectionID: electionID,
		StudentID:  studentID,
		HasVoted:   voted,
	})
}
