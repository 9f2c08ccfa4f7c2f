package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/service"
)

type AdminService interface {
	ListAdmins(ctx context.Context, actor domain.AccessLevel) ([]domain.AdminAccount, error)
	CreateAdmin(ctx context.Context, actor domain.AccessLevel, username, displayName, password string, target domain.AccessLevel) (domain.AdminAccount, error)
	DeleteAdmin(ctx context.Context, actor domain.AdminAccount, targetID uint) error
	UpdateAdmin(ctx context.Context, actor domain.AccessLevel, targetID uint, update domain.AdminUpdate) (domain.AdminAccount, error)
	CreatableLevels(actor domain.AccessLevel) []domain.AccessLevel
}

type AdminHandler struct {
	svc AdminService
}

func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{
		svc: svc,
	}
}

// HandleListAdmins godoc
// @Summary      List admin accounts
// @Tags         admins
// @Produce      json
// @Success      200      {object}   []domain.AdminAccount
// @Failure      403      {object}   response.Err
// @Router       /admins [get]
func (h *AdminHandler) HandleListAdmins(ctx *gin.Context) {
	identity := middleware.MustGetIdentity(ctx)

	admins, err := h.svc.ListAdmins(ctx.Request.Context(), identity.AccessLevel)
	if err != nil {
		if errors.Is(err, service.ErrPolicyDenied) {
			response.RenderErr(ctx, response.ErrForbidden(service.ErrPolicyDenied))

			return
		}

		err = fmt.Errorf("v1.HandleListAdmins -> h.svc.ListAdmins -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, admins)
}

// HandleCreateAdmin godoc
// @Summary      Create an admin account of a lower tier
// @Tags         admins
// @Produce      json
// @Param        request   body      request.CreateAdminRequest true "request body"
// @Success      201      {object}   domain.AdminAccount
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Router       /admins [post]
func (h *AdminHandler) HandleCreateAdmin(ctx *gin.Context) {
	req := request.CreateAdminRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	target, ok := domain.ParseAccessLevel(req.AccessLevel)
	if !ok {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("unknown access level")))

		return
	}

	identity := middleware.MustGetIdentity(ctx)

	admin, err := h.svc.CreateAdmin(ctx.Request.Context(), identity.AccessLevel, req.Username, req.DisplayName, req.Password, target)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPolicyDenied):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrPolicyDenied))
		case errors.Is(err, service.ErrAdminUsernameExists):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrAdminUsernameExists))
		default:
			err = fmt.Errorf("v1.HandleCreateAdmin -> h.svc.CreateAdmin -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, admin)
}

// HandleDeleteAdmin godoc
// @Summary      Delete an admin account
// @Tags         admins
// @Produce      json
// @Param        adminID   path      int true "admin ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /admins/{adminID} [delete]
func (h *AdminHandler) HandleDeleteAdmin(ctx *gin.Context) {
	targetID, ok := parseIDParam(ctx, "adminID")
	if !ok {
		return
	}

	identity := middleware.MustGetIdentity(ctx)
	actor := domain.AdminAccount{
		ID:          identity.UserID,
		AccessLevel: identity.AccessLevel,
	}

	err := h.svc.DeleteAdmin(ctx.Request.Context(), actor, targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDelete):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrSelfDelete))
		case errors.Is(err, service.ErrPolicyDenied):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrPolicyDenied))
		case errors.Is(err, service.ErrAdminNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrAdminNotFound))
		default:
			err = fmt.Errorf("v1.HandleDeleteAdmin -> h.svc.DeleteAdmin -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUpdateAdmin godoc
// @Summary      Edit an admin account (root only)
// @Tags         admins
// @Produce      json
// @Param        adminID   path      int true "admin ID"
// @Param        request   body      request.UpdateAdminRequest true "request body"
// @Success      200      {object}   domain.AdminAccount
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /admins/{adminID} [put]
func (h *AdminHandler) HandleUpdateAdmin(ctx *gin.Context) {
	targetID, ok := parseIDParam(ctx, "adminID")
	if !ok {
		return
	}

	req := request.UpdateAdminRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	update := domain.AdminUpdate{
		DisplayName: req.DisplayName,
		Password:    req.Password,
	}
	if req.AccessLevel != nil {
		level, ok := domain.ParseAccessLevel(*req.AccessLevel)
		if !ok {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("unknown access level")))

			return
		}
		update.AccessLevel = &level
	}

	identity := middleware.MustGetIdentity(ctx)

	admin, err := h.svc.UpdateAdmin(ctx.Request.Context(), identity.AccessLevel, targetID, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPolicyDenied):
			response.RenderErr(ctx, response.ErrForbidden(service.ErrPolicyDenied))
		case errors.Is(err, service.ErrAdminNotFound):
			response.RenderErr(ctx, response.ErrNotFound(service.ErrAdminNotFound))
		default:
			err = fmt.Errorf("v1.HandleUpdateAdmin -> h.svc.UpdateAdmin -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, admin)
}

// HandleCreatableLevels godoc
// @Summary      The access levels the caller may assign to new admins
// @Tags         admins
// @Produce      json
// @Success      200      {object}   []string
// @Router       /admins/creatable-levels [get]
func (h *AdminHandler) HandleCreatableLevels(ctx *gin.Context) {
	identity := middleware.MustGetIdentity(ctx)

	levels := h.svc.CreatableLevels(identity.AccessLevel)
	names := make([]string, 0, len(levels))
	for _, l := range levels {
		names = append(names, l.String())
	}

	ctx.JSON(http.StatusOK, names)
}
