package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/auth"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/middleware"
)

// AuthHandler serves /auth/login, /auth/register and /auth/me.
type AuthHandler struct {
	register *auth.RegisterUser
	login    *auth.Login
	me       *auth.Me
	audit    ports.WebhookEmitter
	validate *validator.Validate
	log      zerolog.Logger
}

// NewAuthHandler wires the auth use cases. audit may be nil.
func NewAuthHandler(register *auth.RegisterUser, login *auth.Login, me *auth.Me, audit ports.WebhookEmitter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		register: register,
		login:    login,
		me:       me,
		audit:    audit,
		validate: NewValidator(),
		log:      log,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,max=256"`
		Password string `json:"password" validate:"required,max=100"`
	}
	if err := decodeJSON(w, r, h.validate, &body); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{Email: body.Email, Password: body.Password})
	if err != nil {
		AuditEmit(h.log, r, h.audit, AuditLogin, "", "", false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		writeDomainErr(w, r, h.log, err)
		return
	}
	AuditEmit(h.log, r, h.audit, AuditLogin, derefString(orgString(result.User.ClientOrganisationID)), result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, r, http.StatusOK, newAuthResponse(result))
}

// Register creates a Staff or Admin account. The route is restricted to Staff and Admin callers.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	caller := middleware.ClaimsFromContext(r.Context())
	if caller == nil {
		writeErr(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	var body struct {
		Email       string `json:"email" validate:"required,max=256"`
		Password    string `json:"password" validate:"required,password_strength"`
		DisplayName string `json:"display_name" validate:"required,max=100"`
		Role        string `json:"role" validate:"required"`
	}
	if err := decodeJSON(w, r, h.validate, &body); err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	result, err := h.register.Execute(r.Context(), auth.RegisterUserInput{
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
		Role:        body.Role,
	})
	if err != nil {
		AuditEmit(h.log, r, h.audit, AuditRegister, "", caller.Subject.String(), false, err.Error())
		middleware.RecordAuthAttempt("register", false)
		writeDomainErr(w, r, h.log, err)
		return
	}
	AuditEmit(h.log, r, h.audit, AuditRegister, "", result.User.ID.String(), true, "")
	middleware.RecordAuthAttempt("register", true)
	writeJSON(w, r, http.StatusOK, newAuthResponse(result))
}

// Me returns the current user's profile. Requires Authenticator middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := middleware.ClaimsFromContext(r.Context())
	if caller == nil {
		writeErr(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := h.me.Execute(r.Context(), caller.Subject)
	if err != nil {
		writeDomainErr(w, r, h.log, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newUserResponse(user))
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
