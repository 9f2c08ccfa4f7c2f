package response

import (
	"github.com/yizeng/gab/gin/gorm/school-election/internal/domain"
)

type LoginResponse struct {
	Token       string              `json:"token"`
	Admin       domain.AdminAccount `json:"admin"`
	DefaultPage string              `json:"default_page"`
}

// ForbiddenPage is the 403 body for page-gated routes; it carries the page
// the caller's access level lands on instead.
type ForbiddenPage struct {
	Code        string `json:"code"`
	Msg         string `json:"msg"`
	DefaultPage string `json:"default_page"`
}
