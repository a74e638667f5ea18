package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Ocelots/internal/dto"
	"github.com/lshigami/Ocelots/internal/middleware"
	"github.com/lshigami/Ocelots/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new account
// @Description Create a student or instructor account and start a session.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body dto.RegisterRequest true "Account data"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind RegisterRequest")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := c.authService.Register(req)
	if err != nil {
		if err == service.ErrEmailTaken {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Msg("Register: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to register"})
		return
	}

	setSessionCookie(ctx, resp.Token)
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in
// @Description Exchange credentials for a session cookie (also returned as a bearer token).
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := c.authService.Login(req)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Msg("Login: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to log in"})
		return
	}

	setSessionCookie(ctx, resp.Token)
	ctx.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Current user profile
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	resp, err := c.authService.Me(middleware.CurrentUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Session user no longer exists"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func setSessionCookie(ctx *gin.Context, token string) {
	// Session-scoped cookie; expiry is carried inside the JWT itself.
	ctx.SetCookie(middleware.AuthCookieName, token, 0, "/", "", false, true)
}
