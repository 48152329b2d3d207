package service

import (
	"errors"

	"tccapi"
	"tccapi/internal/api/models"
	"tccapi/internal/api/repo"
	"tccapi/pkg"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repo.UserRepository
	config   tccapi.AppConfig
	logger   zerolog.Logger
}

func NewUserService() *UserService {
	return &UserService{
		userRepo: repo.NewUserRepository(),
		config:   tccapi.GetConfig(),
		logger:   tccapi.Logger,
	}
}

func (slf *UserService) Register(username string, password string) (*models.User, error) {
	exists, err := slf.userRepo.ExistsByUsername(username)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error checking if user exists")
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error hashing password")
		return nil, err
	}

	user := models.User{
		Username: username,
		Password: string(hashedPassword),
	}
	if err = slf.userRepo.Create(&user); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	slf.logger.Info().Uint("userId", user.ID).Msg("User registered successfully")
	return &user, nil
}

// Login validates the credentials and issues a signed session token. Bad
// username and bad password are indistinguishable to the caller.
func (slf *UserService) Login(username string, password string) (string, error) {
	user, err := slf.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		slf.logger.Error().Err(err).Msg("Error finding user by username")
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := pkg.GenerateToken(user.Username, slf.config.JWTConfig.Secret, slf.config.JWTConfig.Expiration)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error generating token")
		return "", err
	}

	slf.logger.Info().Uint("userId", user.ID).Msg("User logged in successfully")
	return token, nil
}
