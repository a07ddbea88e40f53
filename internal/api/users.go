package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/safar/storefront/internal/database"
	"github.com/safar/storefront/internal/store"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request payload"})
	}

	_, err := store.CreateUser(c.Request().Context(), h.db, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Email already registered"})
		}
		return fail(c, "Error registering user", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User registered successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type jwtCustomClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request payload"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}

	user, err := store.GetUserByEmail(c.Request().Context(), h.db, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
		}
		return fail(c, "Internal server error", err)
	}
	if user.Password != req.Password {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
	}

	token, err := h.mintToken(user.Name, user.Email, user.Role)
	if err != nil {
		return fail(c, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"id":      user.ID,
		"role":    user.Role,
		"email":   user.Email,
		"name":    user.Name,
		"token":   token,
	})
}

func (h *Handler) mintToken(name, email, role string) (string, error) {
	claims := &jwtCustomClaims{
		Name:  name,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.cfg.Auth.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.Auth.JWTSecret))
}
