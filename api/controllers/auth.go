package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/harvesthub-dev/harvesthub-backend/api/responses"
	"github.com/harvesthub-dev/harvesthub-backend/api/validators"
	authsvc "github.com/harvesthub-dev/harvesthub-backend/internal/auth"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/db/models"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	pkgerrors "github.com/harvesthub-dev/harvesthub-backend/pkg/errors"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/logger"
)

// AuthRequestVerification kicks off email ownership verification.
func AuthRequestVerification(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Email string `json:"email" validate:"required,email"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RequestEmailVerification(r.Context(), payload.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "code_sent"})
	}
}

// AuthResendVerification re-issues the code for a pending verification.
func AuthResendVerification(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Email string `json:"email" validate:"required,email"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResendVerificationCode(r.Context(), payload.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "code_sent"})
	}
}

// AuthConfirmVerification checks the emailed code and records the email as verified.
func AuthConfirmVerification(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Email string `json:"email" validate:"required,email"`
			Code  string `json:"code" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ConfirmEmailVerification(r.Context(), payload.Email, payload.Code); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "verified"})
	}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	ContactNo string `json:"contact_no" validate:"required"`
	FullName  string `json:"full_name" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=farmer buyer"`
}

// AuthRegister creates an account for a previously verified email.
func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		user, err := svc.Signup(r.Context(), authsvc.SignupInput{
			Email:     payload.Email,
			Password:  payload.Password,
			ContactNo: payload.ContactNo,
			FullName:  payload.FullName,
			Role:      role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newUserResponse(user))
	}
}

// AuthLogin exchanges credentials for a token pair.
func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pair, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"user":          newUserResponse(pair.User),
		})
	}
}

// AuthRefresh rotates a refresh session and mints a fresh token pair.
func AuthRefresh(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			AccessToken  string `json:"access_token" validate:"required"`
			RefreshToken string `json:"refresh_token" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pair, err := svc.Refresh(r.Context(), payload.AccessToken, payload.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
		})
	}
}

// AuthLogout revokes the refresh session behind the presented token.
func AuthLogout(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			AccessToken string `json:"access_token" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Logout(r.Context(), payload.AccessToken); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

type userResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	ContactNo  string    `json:"contact_no"`
	Role       string    `json:"role"`
	IsApproved bool      `json:"is_approved"`
	FullName   string    `json:"full_name,omitempty"`
	PictureURL string    `json:"picture_url,omitempty"`
}

func newUserResponse(user *models.User) *userResponse {
	if user == nil {
		return nil
	}
	resp := &userResponse{
		ID:         user.ID,
		Email:      user.Email,
		Username:   user.Username,
		ContactNo:  user.ContactNo,
		Role:       string(user.Role),
		IsApproved: user.IsApproved,
	}
	if user.Profile != nil {
		resp.FullName = user.Profile.FullName
		resp.PictureURL = user.Profile.PictureURL
	}
	return resp
}
