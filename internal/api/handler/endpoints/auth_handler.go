package endpoints

import (
	"errors"
	"net/http"

	"tccapi"
	"tccapi/internal/api/handler/request"
	"tccapi/internal/api/handler/response"
	"tccapi/internal/api/service"
	"tccapi/pkg"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type authHandler struct {
	userService *service.UserService
	logger      zerolog.Logger
}

func newAuthHandler() *authHandler {
	return &authHandler{
		userService: service.NewUserService(),
		logger:      tccapi.Logger,
	}
}

func AuthHandler(router *graceful.Graceful) {
	h := newAuthHandler()

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

func (slf *authHandler) register(c *gin.Context) {
	var registerDTO request.RegisterDTO
	if err := pkg.ParseAndValidate(c, &registerDTO); err != nil {
		slf.logger.Error().Err(err).Msg("Error parsing and validating register DTO")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	user, err := slf.userService.Register(registerDTO.Username, registerDTO.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, response.APIError{Message: "Username already exists"})
			return
		}
		slf.logger.Error().Err(err).Msg("Error registering user")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, response.UserResponseDTO{
		ID:       user.ID,
		Username: user.Username,
	})
}

func (slf *authHandler) login(c *gin.Context) {
	var loginDTO request.LoginDTO
	if err := pkg.ParseAndValidate(c, &loginDTO); err != nil {
		slf.logger.Error().Err(err).Msg("Error parsing and validating login DTO")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	token, err := slf.userService.Login(loginDTO.Username, loginDTO.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, response.APIError{Message: "Invalid credentials"})
			return
		}
		slf.logger.Error().Err(err).Msg("Error logging in user")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, response.LoginResponseDTO{Token: token})
}
