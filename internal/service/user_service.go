package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/E7itism/stockerflow-sub001/internal/apperr"
	"github.com/E7itism/stockerflow-sub001/internal/model"
	"github.com/E7itism/stockerflow-sub001/internal/repository"
	"github.com/E7itism/stockerflow-sub001/pkg/validator"
)

// CreateUserRequest carries the fields needed to provision a user.
type CreateUserRequest struct {
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=8"`
	FullName string     `json:"full_name" validate:"required"`
	Role     model.Role `json:"role" validate:"required,oneof=ADMIN STAFF VIEWER"`
}

type UserService interface {
	Create(req *CreateUserRequest) (*model.User, error)
	Get(id uuid.UUID) (*model.User, error)
	List() ([]model.User, error)
	Update(id uuid.UUID, fullName string, role model.Role, isActive bool) (*model.User, error)
	Delete(id uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(req *CreateUserRequest) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	existing, err := s.userRepo.FindByEmail(req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, &apperr.ConflictError{Reason: "email already registered"}
	}

	user := &model.User{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *userService) Get(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "user", ID: id.String()}
		}
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *userService) List() ([]model.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *userService) Update(id uuid.UUID, fullName string, role model.Role, isActive bool) (*model.User, error) {
	if !role.Valid() {
		return nil, &apperr.ValidationError{Field: "Role", Reason: "must be one of ADMIN, STAFF, VIEWER"}
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFoundError{Resource: "user", ID: id.String()}
		}
		return nil, apperr.Internal(err)
	}

	if fullName != "" {
		user.FullName = fullName
	}
	user.Role = role
	user.IsActive = isActive

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *userService) Delete(id uuid.UUID) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperr.NotFoundError{Resource: "user", ID: id.String()}
		}
		return apperr.Internal(err)
	}
	return nil
}
