package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/service"
)

type StudentService interface {
	AddStudent(ctx context.Context, student domain.Student) (domain.Student, error)
	GetStudent(ctx context.Context, id uint) (domain.Student, error)
	UpdateStudent(ctx context.Context, id uint, update domain.StudentUpdate) (domain.Student, error)
	DeleteStudent(ctx context.Context, id uint) (bool, error)
	ApproveVotingRight(ctx context.Context, id uint, approverName string) (domain.Student, error)
	RevokeVotingRight(ctx context.Context, id uint) (domain.Student, error)
	BulkApproveVotingRights(ctx context.Context, classroom, approverName string) (int, error)
	BulkRevokeVotingRights(ctx context.Context, classroom string) (int, error)
	ImportStudents(ctx context.Context, rows []domain.StudentImportRow, overwrite bool) (domain.ImportResult, error)
	GetAllStudents(ctx context.Context) ([]domain.Student, error)
	GetStudentsByClassroom(ctx context.Context, classroom string) ([]domain.Student, error)
	GetStudentsByVotingStatus(ctx context.Context, approved bool) ([]domain.Student, error)
	GetUniqueClassrooms(ctx context.Context) ([]string, error)
	GetStudentStats(ctx context.Context) (domain.StudentStats, error)
	ResetStudentData(ctx context.Context) error
}

type StudentHandler struct {
	svc StudentService
}

func NewStudentHandler(svc StudentService) *StudentHandler {
	return &StudentHandler{
		svc: svc,
	}
}

func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %v", name)))

		return 0, false
	}

	return uint(id), true
}

// HandleCreateStudent godoc
// @Summary      Add a student to the roster
// @Tags         students
// @Produce      json
// @Param        request   body      request.CreateStudentRequest true "request body"
// @Success      201      {object}   domain.Student
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /students [post]
func (h *StudentHandler) HandleCreateStudent(ctx *gin.Context) {
	req := request.CreateStudentRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	student, err := h.svc.AddStudent(ctx.Request.Context(), domain.Student{
		ID:          req.ID,
		ClassNumber: req.ClassNumber,
		Name:        req.Name,
		Surname:     req.Surname,
		Classroom:   req.Classroom,
		NationalID:  req.NationalID,
	})
	if err != nil {
		if errors.Is(err, service.ErrStudentIDExists) || errors.Is(err, service.ErrStudentNationalIDExists) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		err = fmt.Errorf("v1.HandleCreateStudent -> h.svc.AddStudent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, student)
}

// HandleListStudents godoc
// @Summary      List students, optionally filtered by classroom or approval
// @Tags         students
// @Produce      json
// @Param        classroom   query     string false "classroom filter"
// @Param        approved    query     bool   false "voting approval filter"
// @Success      200      {object}   []domain.Student
// @Failure      500      {object}   response.Err
// @Router       /students [get]
func (h *StudentHandler) HandleListStudents(ctx *gin.Context) {
	var (
		students []domain.Student
		err      error
	)

	switch {
	case ctx.Query("classroom") != "":
		students, err = h.svc.GetStudentsByClassroom(ctx.Request.Context(), ctx.Query("classroom"))
	case ctx.Query("approved") != "":
		var approved bool
		approved, err = strconv.ParseBool(ctx.Query("approved"))
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid approved filter")))

			return
		}
		students, err = h.svc.GetStudentsByVotingStatus(ctx.Request.Context(), approved)
	default:
		students, err = h.svc.GetAllStudents(ctx.Request.Context())
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleListStudents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, students)
}

// HandleGetStudent godoc
// @Summary      Get a student by ID
// @Tags         students
// @Produce      json
// @Param        studentID   path      int true "student ID"
// @Success      200      {object}   domain.Student
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /students/{studentID} [get]
func (h *StudentHandler) HandleGetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "studentID")
	if !ok {
		return
	}

	student, err := h.svc.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrStudentNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleGetStudent -> h.svc.GetStudent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, student)
}

// HandleUpdateStudent godoc
// @Summary      Edit a student's roster fields
// @Tags         students
// @Produce      json
// @Param        studentID   path      int true "student ID"
// @Param        request     body      request.UpdateStudentRequest true "request body"
// @Success      200      {object}   domain.Student
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /students/{studentID} [put]
func (h *StudentHandler) HandleUpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "studentID")
	if !ok {
		return
	}

	req := request.UpdateStudentRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	student, err := h.svc.UpdateStudent(ctx.Request.Context(), id, domain.StudentUpdate{
		ClassNumber: req.ClassNumber,
		Name:        req.Name,
		Surname:     req.Surname,
		Classroom:   req.Classroom,
		NationalID:  req.NationalID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStudentNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrStudentNotFound))
		case errors.Is(err, service.ErrStudentNationalIDExists):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrStudentNationalIDExists))
		default:
			err = fmt.Errorf("v1.HandleUpdateStudent -> h.svc.UpdateStudent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, student)
}

// HandleDeleteStudent godoc
// @Summary      Remove a student from the roster
// @Tags         students
// @Produce      json
// @Param        studentID   path      int true "student ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Router       /students/{studentID} [delete]
func (h *StudentHandler) HandleDeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "studentID")
	if !ok {
		return
	}

	removed, err := h.svc.DeleteStudent(ctx.Request.Context(), id)
	if err != nil {
		err = fmt.Errorf("v1.HandleDeleteStudent -> h.svc.DeleteStudent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}
	if !removed {
		response.RenderErr(ctx, response.ErrNotFound(service.ErrStudentNotFound))

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleApproveVoting godoc
// @Summary      Approve a student's voting right
// @Tags         students
// @Produce      json
// @Param        studentID   path      int true "student ID"
// @Success      200      {object}   domain.Student
// @Failure      404      {object}   response.Err
// @Router       /students/{studentID}/approve [post]
func (h *StudentHandler) HandleApproveVoting(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "studentID")
	if !ok {
		return
	}

	identity := middleware.MustGetIdentity(ctx)

	student, err := h.svc.ApproveVotingRight(ctx.Request.Context(), id, identity.DisplayName)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrStudentNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleApproveVoting -> h.svc.ApproveVotingRight -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, student)
}

// HandleRevokeVoting godoc
// @Summary      Revoke a student's voting right
// @Tags         students
// @Produce      json
// @Param        studentID   path      int true "student ID"
// @Success      200      {object}   domain.Student
// @Failure      404      {object}   response.Err
// @Router       /students/{studentID}/revoke [post]
func (h *StudentHandler) HandleRevokeVoting(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "studentID")
	if !ok {
		return
	}

	student, err := h.svc.RevokeVotingRight(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(service.ErrStudentNotFound))

			return
		}

		err = fmt.Errorf("v1.HandleRevokeVoting -> h.svc.RevokeVotingRight -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, student)
}

// HandleBulkApproveVoting godoc
// @Summary      Approve voting rights for a whole classroom
// @Tags         students
// @Produce      json
// @Param        request   body      request.BulkVotingRightsRequest true "request body"
// @Success      200
// @Failure      400      {object}   response.Err
// @Router       /students/voting-rights/approve [post]
func (h *StudentHandler) HandleBulkApproveVoting(ctx *gin.Context) {
	req := request.BulkVotingRightsRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	identity := middleware.MustGetIdentity(ctx)

	count, err := h.svc.BulkApproveVotingRights(ctx.Request.Context(), req.Classroom, identity.DisplayName)
	if err != nil {
		err = fmt.Errorf("v1.HandleBulkApproveVoting -> h.svc.BulkApproveVotingRights -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"updated": count})
}

// HandleBulkRevokeVoting godoc
// @Summary      Revoke voting rights for a whole classroom
// @Tags         students
// @Produce      json
// @Param        request   body      request.BulkVotingRightsRequest true "request body"
// @Success      200
// @Failure      400      {object}   response.Err
// @Router       /students/voting-rights/revoke [post]
func (h *StudentHandler) HandleBulkRevokeVoting(ctx *gin.Context) {
	req := request.BulkVotingRightsRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	count, err := h.svc.BulkRevokeVotingRights(ctx.Request.Context(), req.Classroom)
	if err != nil {
		err = fmt.Errorf("v1.HandleBulkRevokeVoting -> h.svc.BulkRevokeVotingRights -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"updated": count})
}

// HandleImportStudents godoc
// @Summary      Import a roster upload, reporting per-row failures
// @Tags         students
// @Produce      json
// @Param        request   body      request.ImportStudentsRequest true "request body"
// @Success      200      {object}   domain.ImportResult
// @Failure      400      {object}   response.Err
// @Router       /students/import [post]
func (h *StudentHandler) HandleImportStudents(ctx *gin.Context) {
	req := request.ImportStudentsRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	rows := make([]domain.StudentImportRow, 0, len(req.Students))
	for _, row := range req.Students {
		rows = append(rows, domain.StudentImportRow{
			ID:          row.ID,
			ClassNumber: row.ClassNumber,
			Name:        row.Name,
			Surname:     row.Surname,
			Classroom:   row.Classroom,
			NationalID:  row.NationalID,
		})
	}

	result, err := h.svc.ImportStudents(ctx.Request.Context(), rows, req.Overwrite)
	if err != nil {
		err = fmt.Errorf("v1.HandleImportStudents -> h.svc.ImportStudents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleGetStudentStats godoc
// @Summary      Roster statistics, total and per classroom
// @Tags         students
// @Produce      json
// @Success      200      {object}   domain.StudentStats
// @Failure      500      {object}   response.Err
// @Router       /students/stats [get]
func (h *StudentHandler) HandleGetStudentStats(ctx *gin.Context) {
	stats, err := h.svc.GetStudentStats(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetStudentStats -> h.svc.GetStudentStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleGetClassrooms godoc
// @Summary      List the distinct classrooms on the roster
// @Tags         students
// @Produce      json
// @Success      200      {object}   []string
// @Failure      500      {object}   response.Err
// @Router       /students/classrooms [get]
func (h *StudentHandler) HandleGetClassrooms(ctx *gin.Context) {
	classrooms, err := h.svc.GetUniqueClassrooms(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetClassrooms -> h.svc.GetUniqueClassrooms -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, classrooms)
}

// HandleResetStudents godoc
// @Summary      Wipe the whole roster and its vote records
// @Tags         students
// @Produce      json
// @Success      204
// @Failure      500      {object}   response.Err
// @Router       /students [delete]
func (h *StudentHandler) HandleResetStudents(ctx *gin.Context) {
	if err := h.svc.ResetStudentData(ctx.Request.Context()); err != nil {
		err = fmt.Errorf("v1.HandleResetStudents -> h.svc.ResetStudentData -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.Status(http.StatusNoContent)
}
