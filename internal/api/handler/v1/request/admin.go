package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateAdminRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	AccessLevel string `json:"access_level"`
}

func (req *CreateAdminRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.DisplayName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&req.AccessLevel, validation.Required),
	)
}

type UpdateAdminRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Password    *string `json:"password,omitempty"`
	AccessLevel *string `json:"access_level,omitempty"`
}

func (req *UpdateAdminRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.DisplayName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Password, validation.NilOrNotEmpty, validation.Length(8, 72)),
		validation.Field(&req.AccessLevel, validation.NilOrNotEmpty),
	)
}
