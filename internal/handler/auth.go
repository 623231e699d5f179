package handler

import (
	"context"  // provides context with cancellation for storage calls
	"errors"   // errors.Is for repository sentinels
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for storage calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"go.uber.org/zap"

	"github.com/iliyamo/homebase-finder/internal/config"     // app configuration
	"github.com/iliyamo/homebase-finder/internal/middleware" // identity accessors
	"github.com/iliyamo/homebase-finder/internal/model"
	"github.com/iliyamo/homebase-finder/internal/repository" // storage repositories
	"github.com/iliyamo/homebase-finder/internal/utils"      // helper functions (hashing, token issuing)
)

// storeTimeout bounds every storage round trip made by a handler.
const storeTimeout = 5 * time.Second

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Profiles *repository.ProfileRepo
	Tokens   *repository.TokenRepo
	Log      *zap.Logger
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, p *repository.ProfileRepo, t *repository.TokenRepo, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Profiles: p, Tokens: t, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"` // owner | tenant
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // optional; must match the account when given
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    model.Profile `json:"user"`
	Access  tokenPart     `json:"access"`
	Refresh tokenPart     `json:"refresh"`
}

// validate returns the first problem with a registration request.
func (r *registerReq) validate() string {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = model.NormalizeEmail(r.Email)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	switch {
	case r.FullName == "":
		return "full name is required"
	case !utils.ValidEmail(r.Email):
		return "a valid email is required"
	case len(r.Password) < utils.MinPasswordLength:
		return "password must be at least 6 characters"
	case len(r.Password) > utils.MaxPasswordLength:
		return "password must be at most 72 bytes"
	case r.ConfirmPassword != "" && r.ConfirmPassword != r.Password:
		return "passwords do not match"
	case !model.ValidRole(r.Role):
		return "role must be owner or tenant"
	}
	return ""
}

// Register: create user and profile, return tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, err := h.Users.Create(ctx, req.FullName, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		h.Log.Error("create user failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	profile := model.Profile{Name: u.FullName, Email: u.Email, Role: u.Role, Avatar: model.DefaultAvatar(u.FullName)}
	if err := h.Profiles.Upsert(ctx, profile); err != nil {
		h.Log.Error("save profile failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save profile failed"})
	}
	return h.issue(ctx, c, http.StatusCreated, profile)
}

// Login: verify and return new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = model.NormalizeEmail(req.Email)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account not found"})
		}
		h.Log.Error("load user failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if req.Role != "" && req.Role != u.Role {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "wrong account type"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	profile, err := h.loadProfile(ctx, u)
	if err != nil {
		h.Log.Error("load profile failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	if err := h.Profiles.Upsert(ctx, profile); err != nil {
		h.Log.Error("save profile failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save profile failed"})
	}
	return h.issue(ctx, c, http.StatusOK, profile)
}

// loadProfile returns the stored profile of u, or a fresh one built from
// the credential when none exists yet.
func (h *AuthHandler) loadProfile(ctx context.Context, u *model.User) (model.Profile, error) {
	p, err := h.Profiles.Get(ctx, u.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.Profile{Name: u.FullName, Email: u.Email, Role: u.Role, Avatar: model.DefaultAvatar(u.FullName)}, nil
	}
	if err != nil {
		return model.Profile{}, err
	}
	p.Role = u.Role
	return *p, nil
}

// issue creates an access/refresh pair for profile and writes the response.
func (h *AuthHandler) issue(ctx context.Context, c echo.Context, status int, profile model.Profile) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, profile.Email, profile.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, profile.Email, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		h.Log.Error("save refresh failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	return c.JSON(status, authResp{
		User:    profile,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// userForRefresh validates a raw refresh token and loads its user.
func (h *AuthHandler) userForRefresh(ctx context.Context, raw string) (*model.User, string, error) {
	hash := utils.HashRefreshRaw(raw)
	email, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return nil, hash, err
	}
	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, hash, err
	}
	return u, hash, nil
}

// Refresh: validate by hash, revoke old, issue new.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, hash, err := h.userForRefresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidToken) || errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		h.Log.Error("refresh lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	profile, err := h.loadProfile(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return h.issue(ctx, c, http.StatusOK, profile)
}

// RefreshAccess: validate a refresh token and return a new access token WITHOUT rotating the refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, _, err := h.userForRefresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidToken) || errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes either the refresh token in the body (one session) or,
// with only a valid bearer access token, every session of that user.
func (h *AuthHandler) Logout(c echo.Context) error {
	var email string
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		if claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimPrefix(auth, "Bearer ")); err == nil {
			email = claims.Email
		}
	}

	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	if email != "" {
		if err := h.Tokens.RevokeAllForUser(ctx, email); err != nil {
			h.Log.Error("revoke all failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
}

// Me returns the signed-in user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, middleware.UserEmail(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	profile, err := h.loadProfile(ctx, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, profile)
}
