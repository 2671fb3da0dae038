package service

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

type CreatePostRequest struct {
	Text    string `validate:"required"`
	GroupID *int64 `validate:"omitempty,gt=0"`
}

type EditPostRequest struct {
	Text    string `validate:"required"`
	GroupID *int64 `validate:"omitempty,gt=0"`
}

type CreateGroupRequest struct {
	Title       string `validate:"required,max=200"`
	Slug        string `validate:"required,max=50,slug"`
	Description string `validate:"required,max=400"`
}

type SignUpRequest struct {
	Username string `validate:"required,max=150,username"`
	Password string `validate:"required,min=8,max=72"`
}

var (
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	return v
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
