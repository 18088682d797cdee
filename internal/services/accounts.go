package services

import (
	"context"
	"errors"
	"strings"

	"lireddit/internal/models"
	"lireddit/internal/utils"

	"gorm.io/gorm"
)

// AccountService registers and authenticates users. Session handling stays
// with the caller; this only checks credentials.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// RegisterInput mirrors the register mutation's options argument.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func validateRegister(in RegisterInput) []FieldError {
	var errs []FieldError
	if !strings.Contains(in.Email, "@") {
		errs = append(errs, FieldError{Field: "email", Message: "invalid email"})
	}
	if len(in.Username) <= 2 {
		errs = append(errs, FieldError{Field: "username", Message: "length must be greater than 2"})
	}
	if strings.Contains(in.Username, "@") {
		errs = append(errs, FieldError{Field: "username", Message: "cannot include an @"})
	}
	if len(in.Password) <= 2 {
		errs = append(errs, FieldError{Field: "password", Message: "length must be greater than 2"})
	}
	return errs
}

// Register creates a user. Validation failures come back as field errors
// with a nil user and a nil error.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, []FieldError, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if errs := validateRegister(in); len(errs) > 0 {
		return nil, errs, nil
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, nil, err
	}

	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, []FieldError{{Field: "username", Message: "username or email already taken"}}, nil
		}
		return nil, nil, err
	}
	return &user, nil, nil
}

// Login checks a username or email against the stored hash.
func (s *AccountService) Login(ctx context.Context, usernameOrEmail, password string) (*models.User, []FieldError, error) {
	usernameOrEmail = strings.TrimSpace(usernameOrEmail)

	q := s.db.WithContext(ctx)
	if strings.Contains(usernameOrEmail, "@") {
		q = q.Where("email = ?", strings.ToLower(usernameOrEmail))
	} else {
		q = q.Where("username = ?", usernameOrEmail)
	}

	var user models.User
	if err := q.Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, []FieldError{{Field: "usernameOrEmail", Message: "that username doesn't exist"}}, nil
		}
		return nil, nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, []FieldError{{Field: "password", Message: "incorrect password"}}, nil
	}
	return &user, nil, nil
}

// Me loads the user behind a session. ErrNotFound if the user is gone.
func (s *AccountService) Me(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
