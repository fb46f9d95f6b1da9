package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/codekart/codekart/internal/hash"
	auth "github.com/codekart/codekart/internal/middleware/auth"
	"github.com/codekart/codekart/internal/models"
	"github.com/codekart/codekart/internal/mykafka"
)

type AuthHandler struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *mykafka.Producer
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["user_id"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "username and password are required")
	}

	var existing models.User
	if err := h.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return Fail(c, http.StatusBadRequest, "user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Fail(c, http.StatusInternalServerError, "could not register")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return Fail(c, http.StatusInternalServerError, "could not register")
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         auth.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not register")
	}

	h.publish(c, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return OK(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return Fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return Fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	accessToken, err := auth.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		return Fail(c, http.StatusInternalServerError, "could not create token")
	}
	refreshToken, err := auth.SignRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		return Fail(c, http.StatusInternalServerError, "could not create refresh token")
	}
	if err := auth.SaveRefreshToken(h.DB, refreshToken, user.ID, user.Role); err != nil {
		return Fail(c, http.StatusInternalServerError, "could not create refresh token")
	}

	c.SetCookie(auth.CreateCookie("accessToken", accessToken, "/", time.Now().Add(auth.AccessTokenTTL)))
	c.SetCookie(auth.CreateCookie("refreshToken", refreshToken, "/", time.Now().Add(auth.RefreshTokenTTL)))

	h.publish(c, map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"is_admin":      user.Role == auth.RoleAdmin,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return Fail(c, http.StatusBadRequest, "missing refresh cookie")
	}

	if err := h.DB.Model(&models.RefreshToken{}).
		Where("token = ?", refreshCookie.Value).
		Update("revoked", true).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not log out")
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(auth.CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(auth.CreateCookie("refreshToken", "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "logged out"})
}
