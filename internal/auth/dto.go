package auth

import (
	"strings"

	errors "github.com/TamilarasanG17/VT-Wallet/internal"
	"github.com/TamilarasanG17/VT-Wallet/internal/core/common/validation"
)

type RegisterDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", strings.TrimSpace(d.Username)).
		Required().
		MaxLength(64)
	v.Field("email", strings.TrimSpace(d.Email)).
		Required().
		Custom(validEmail)
	v.Field("password", d.Password).
		Required().
		MinLength(MinPasswordLength)
	return v.Validate()
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", strings.TrimSpace(d.Email)).
		Required().
		Custom(validEmail)
	v.Field("password", d.Password).
		Required()
	return v.Validate()
}

type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

func (d *ForgotPasswordDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", strings.TrimSpace(d.Email)).
		Required().
		Custom(validEmail)
	return v.Validate()
}

// VerifyCodeDTO completes any of the code-protected flows. Purpose selects
// which flow the code was issued for and must match what the server stored.
type VerifyCodeDTO struct {
	Email   string `json:"email"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
}

func (d *VerifyCodeDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", strings.TrimSpace(d.Email)).
		Required().
		Custom(validEmail)
	v.Field("code", strings.TrimSpace(d.Code)).
		Required().
		MinLength(4).
		MaxLength(4)
	v.Field("purpose", d.Purpose).
		Required().
		OneOf([]string{PurposeRegister, PurposeLogin, PurposeForgotPassword}, errors.ErrCodeInvalidPurpose)
	return v.Validate()
}

type ResetPasswordDTO struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (d *ResetPasswordDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("token", strings.TrimSpace(d.Token)).
		Required()
	v.Field("new_password", d.NewPassword).
		Required().
		MinLength(MinPasswordLength)
	return v.Validate()
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d *RefreshTokenDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", strings.TrimSpace(d.RefreshToken)).
		Required()
	return v.Validate()
}

func validEmail(value interface{}) *errors.AppError {
	s, _ := value.(string)
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 || !strings.Contains(s[at+1:], ".") {
		return errors.NewValidationFieldError("email", "must be a valid email address", errors.ErrCodeValidationFailed)
	}
	return nil
}
