// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package auth provides the HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle, from account
creation to session refresh and recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface, multipart for avatar intake.
  - Security: Issues the signed httpOnly cookie pair and mirrors both tokens
    in the JSON body for non-browser clients.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, cookies, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docvault/docvault/internal/platform/apperr"
	"github.com/docvault/docvault/internal/platform/constants"
	requestutil "github.com/docvault/docvault/internal/platform/request"
	"github.com/docvault/docvault/internal/platform/respond"
	"github.com/docvault/docvault/internal/platform/sec"
	"github.com/docvault/docvault/internal/platform/upload"
	"github.com/docvault/docvault/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Refresh, Password Recovery, Profile updates).
type Handler struct {
	authService  *Service
	tokenService *sec.TokenService
	intake       *upload.Intake
	cookies      CookieBaker
	sessionGuard func(http.Handler) http.Handler
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(
	service *Service,
	tokenService *sec.TokenService,
	intake *upload.Intake,
	cookies CookieBaker,
	sessionGuard func(http.Handler) http.Handler,
) *Handler {
	return &Handler{
		authService:  service,
		tokenService: tokenService,
		intake:       intake,
		cookies:      cookies,
		sessionGuard: sessionGuard,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register        : Creates a new account (multipart, avatar required).
//   - POST /login           : Authenticates and issues the token pair.
//   - POST /refresh-token   : Rotates the refresh token.
//   - POST /forgot-password : Starts the password recovery flow.
//   - POST /reset-password  : Completes the password recovery flow.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refreshToken)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(handler.sessionGuard)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
		r.Get("/me", handler.currentUser)
		r.Put("/update-details", handler.updateDetails)
		r.Put("/update-avatar", handler.updateAvatar)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type updateDetailsRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// tokenPairResponse mirrors the cookie pair in the JSON body so CLI and
// mobile clients can manage tokens without a cookie jar.
type tokenPairResponse struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/users/register

Description: Accepts a multipart form with profile fields and a required
avatar image. The avatar is uploaded to blob storage before the account row
is created.

Request:
  - Multipart fields: username, email, fullName, password, role
  - Multipart file: avatar (required)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input, validation failure, or missing avatar
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	avatar, err := handler.intake.Avatar(request, FieldAvatar)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer avatar.Cleanup()

	username := request.FormValue(FieldUsername)
	email := request.FormValue(FieldEmail)
	fullName := request.FormValue(FieldFullName)
	password := request.FormValue(FieldPassword)
	roleValue := request.FormValue(FieldRole)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MinLen(FieldUsername, username, 3).
		Username(FieldUsername, username).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldFullName, fullName).
		Required(FieldPassword, password).
		MinLen(FieldPassword, password, 8).
		Password(FieldPassword, password).
		Required(FieldRole, roleValue).
		OneOf(FieldRole, roleValue, string(sec.RoleSender), string(sec.RoleReceiver))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, _ := sec.ParseRole(roleValue)

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: username,
		Email:    email,
		FullName: fullName,
		Password: password,
		Role:     role,
		Avatar:   avatar,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "User registered successfully", user)
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/users/login

Description: Verifies credentials, issues the JWT pair, and injects both
signed httpOnly cookies into the response. The same tokens are mirrored in
the body.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: tokenPairResponse: Token pair and User profile
  - 404: ErrNotFound: No account matches the login
  - 400: ErrBadRequest: Incorrect password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.SetTokenPair(writer, pair.AccessToken, pair.RefreshToken)

	respond.OK(writer, "User logged in successfully", tokenPairResponse{
		User:         pair.User,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

/*
RefreshToken rotates the session's refresh token.

POST /api/v1/users/refresh-token

Description: Reads the refresh token from the signed cookie, falling back to
the JSON body, and exchanges it for a fresh token pair. A token that was
already rotated yields a 401 regardless of its signature validity.

Response:
  - 200: tokenPairResponse: New token pair
  - 401: ErrUnauthenticated: Missing, invalid, expired, or reused token
*/
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) {
	// Priority: signed cookie, then a plain cookie from a non-browser client,
	// then the JSON body. An unsigned value still has to pass JWT verification.
	refreshToken, found := handler.cookies.ReadSigned(request, constants.RefreshTokenCookieName)
	if !found {
		if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
			refreshToken = cookie.Value
		}
	}
	if refreshToken == "" {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err == nil {
			refreshToken = input.RefreshToken
		}
	}

	if refreshToken == "" {
		respond.Error(writer, request, apperr.Unauthenticated("Refresh token is required"))
		return
	}

	pair, err := handler.authService.Refresh(request.Context(), refreshToken, handler.tokenService.VerifyRefreshToken)
	if err != nil {
		handler.cookies.Clear(writer)
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.SetTokenPair(writer, pair.AccessToken, pair.RefreshToken)

	respond.OK(writer, "Access token refreshed", tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

/*
Logout terminates the current user session.

POST /api/v1/users/logout

Description: Clears the stored refresh token and expires both auth cookies.
Idempotent: logging out twice is still a success.

Response:
  - 200: Success: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.Clear(writer)
	respond.OK(writer, "User logged out", nil)
}

/*
CurrentUser returns the authenticated account's profile.

GET /api/v1/users/me

Response:
  - 200: User: Hydrated profile
  - 401: ErrUnauthenticated: No valid session
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Current user fetched successfully", user)
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/users/change-password

Request:
  - Body: changePasswordRequest (OldPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 400: ErrBadRequest: Incorrect old password or weak new password
  - 401: ErrUnauthenticated: Session invalid
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 8).
		Password(FieldNewPassword, input.NewPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), userID, input.OldPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Password changed successfully", nil)
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/users/forgot-password

Description: Responds identically whether or not the email is registered. In
development without a configured mailer, the plaintext token is included so
the flow can be exercised locally.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Generic acknowledgment
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.RequestPasswordReset(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var data any
	if result.DevToken != "" {
		data = map[string]string{"resetToken": result.DevToken}
	}

	respond.OK(writer, "If this email is registered, a reset link has been sent.", data)
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/users/reset-password

Request:
  - Body: resetPasswordRequest (Token, Password)

Response:
  - 200: Success: Password updated
  - 400: ErrBadRequest: Unknown, expired, or already-used token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Password(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Password reset successfully", nil)
}

/*
UpdateDetails changes the authenticated account's full name and email.

PUT /api/v1/users/update-details

Request:
  - Body: updateDetailsRequest (FullName, Email)

Response:
  - 200: User: Updated profile
  - 409: ErrConflict: Email already belongs to another account
*/
func (handler *Handler) updateDetails(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateDetailsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.UpdateDetails(request.Context(), userID, input.FullName, input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Account details updated", user)
}

/*
UpdateAvatar replaces the authenticated account's profile image.

PUT /api/v1/users/update-avatar

Request:
  - Multipart file: avatar (required)

Response:
  - 200: User: Updated profile with the new avatar URL
  - 400: ErrBadRequest: Missing file or unsupported image type
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	avatar, err := handler.intake.Avatar(request, FieldAvatar)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer avatar.Cleanup()

	user, err := handler.authService.UpdateAvatar(request.Context(), userID, avatar)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Avatar updated successfully", user)
}
