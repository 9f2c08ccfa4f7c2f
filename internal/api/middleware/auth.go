package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/school-election/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/pkg/jwthelper"
	"github.com/yizeng/gab/gin/gorm/school-election/internal/policy"
)

const identityKey = "identity"

// Identity is the authenticated admin as carried in the gin context.
type Identity struct {
	UserID      uint
	DisplayName string
	AccessLevel domain.AccessLevel
}

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores the
// caller's identity in the context for the handlers behind it.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		segments := strings.SplitN(header, " ", 2)
		if len(segments) != 2 || segments[0] != "Bearer" {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("missing or malformed authorization header")))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, segments[1])
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(jwthelper.ErrInvalidToken))
			return
		}

		level, ok := domain.ParseAccessLevel(claims.AccessLevel)
		if !ok {
			// A token minted with a role this build does not know carries no
			// rights at all.
			response.RenderErr(ctx, response.ErrUnauthorized(jwthelper.ErrInvalidToken))
			return
		}

		ctx.Set(identityKey, Identity{
			UserID:      claims.UserID,
			DisplayName: claims.DisplayName,
			AccessLevel: level,
		})

		ctx.Next()
	}
}

// RequirePage gates a route group on page access for the caller's level. A
// denied caller gets a 403 carrying the page their level lands on instead.
func RequirePage(page policy.Page) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity := MustGetIdentity(ctx)
		if !policy.CanAccessPage(page, identity.AccessLevel) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, response.ForbiddenPage{
				Code:        "FORBIDDEN",
				Msg:         "page not accessible for this access level",
				DefaultPage: policy.DefaultPage(identity.AccessLevel),
			})
			return
		}

		ctx.Next()
	}
}

// MustGetIdentity returns the identity VerifyJWT stored. Calling it on a
// route that is not behind VerifyJWT is a programming error and panics.
func MustGetIdentity(ctx *gin.Context) Identity {
	v, ok := ctx.Get(identityKey)
	if !ok {
		panic("middleware: identity requested on a route without VerifyJWT")
	}

	return v.(Identity)
}
