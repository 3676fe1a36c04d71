package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/E7itism/stockerflow-sub001/internal/apperr"
	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
	"github.com/E7itism/stockerflow-sub001/pkg/jwt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService issues tokens for valid credentials. The ledger itself never
// sees credentials; it only receives the resolved principal.
type AuthService interface {
	Login(email, password string) (string, *model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, log *zap.Logger) AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &authService{userRepo: userRepo, log: log}
}

func (s *authService) Login(email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, &apperr.ValidationError{Field: "Email", Reason: "email and password are required"}
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, apperr.Internal(err)
	}

	if !user.IsActive || !user.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, string(user.Role))
	if err != nil {
		return "", nil, apperr.Internal(err)
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()))
	return token, user, nil
}
