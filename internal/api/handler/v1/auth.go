package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/config"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/pkg/jwthelper"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/policy"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (domain.AdminAccount, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleLogin godoc
// @Summary      Login an admin
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	admin, err := h.svc.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("wrong username or password")))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken(
		[]byte(h.conf.JWTSigningKey),
		admin.ID,
		admin.DisplayName,
		admin.AccessLevel.String(),
		ctx.Request.UserAgent(),
	)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:       token,
		Admin:       admin,
		DefaultPage: policy.DefaultPage(admin.AccessLevel),
	})
}
