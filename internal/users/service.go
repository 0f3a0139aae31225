package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zenoml/showcase/internal/apperror"
	"github.com/zenoml/showcase/internal/auth"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	errMissingHasher     = errors.New("password hasher is required")
	noOpLogger           = zap.NewNop()
)

const (
	opServiceNew      = "users.service.new"
	opRegister        = "users.register"
	opAuthenticate    = "users.authenticate"
	opUpdateProfile   = "users.update_profile"
	opGetByID         = "users.get_by_id"
	msgUsernameTaken  = "this username is already taken"
	msgEmailTaken     = "this email is already registered"
	msgBadCredentials = "invalid email or password"
)

// ServiceError carries an operation.reason code alongside the cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Code returns the operation.reason identifier.
func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// IDProvider issues identifiers for new accounts.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies for account management.
type ServiceConfig struct {
	Database   *gorm.DB
	Hasher     *auth.PasswordHasher
	IDProvider IDProvider
	Clock      func() time.Time
	Logger     *zap.Logger
}

// Service manages registration, credential verification and profiles.
type Service struct {
	db         *gorm.DB
	hasher     *auth.PasswordHasher
	idProvider IDProvider
	clock      func() time.Time
	logger     *zap.Logger
}

// NewService constructs the user service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	if cfg.Hasher == nil {
		return nil, newServiceError(opServiceNew, "missing_hasher", errMissingHasher)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		db:         cfg.Database,
		hasher:     cfg.Hasher,
		idProvider: cfg.IDProvider,
		clock:      clock,
		logger:     logger,
	}, nil
}

// RegisterRequest carries the signup form fields.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Register validates the signup request, hashes the password and persists a
// new account. The display name is initialized to the username.
func (s *Service) Register(ctx context.Context, request RegisterRequest) (User, error) {
	username, err := NewUsername(request.Username)
	if err != nil {
		return User{}, apperror.Validation("username", fmt.Sprintf("username must be at least %d characters", minUsernameLength))
	}
	email, err := NewEmail(request.Email)
	if err != nil {
		return User{}, apperror.Validation("email", "a valid email address is required")
	}
	if err := ValidatePassword(request.Password); err != nil {
		return User{}, apperror.Validation("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var existing User
	err = s.db.WithContext(ctx).
		Where("username = ? OR email = ?", username.String(), email.String()).
		Take(&existing).Error
	if err == nil {
		if existing.Username == username.String() {
			return User{}, apperror.Conflict("username", msgUsernameTaken)
		}
		return User{}, apperror.Conflict("email", msgEmailTaken)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logError(opRegister, "lookup_failed", err)
		return User{}, newServiceError(opRegister, "lookup_failed", err)
	}

	hash, err := s.hasher.Hash(request.Password)
	if err != nil {
		s.logError(opRegister, "hash_failed", err)
		return User{}, newServiceError(opRegister, "hash_failed", err)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opRegister, "id_generation_failed", err)
		return User{}, newServiceError(opRegister, "id_generation_failed", err)
	}

	user := User{
		ID:           id,
		Username:     username.String(),
		Email:        email.String(),
		PasswordHash: hash,
		Name:         username.String(),
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent signup can slip past the pre-check; translate the
		// unique-index violation instead of leaking the store error.
		if isUniqueViolation(err) {
			return User{}, apperror.Conflict("username", "username or email is already in use")
		}
		s.logError(opRegister, "insert_failed", err)
		return User{}, newServiceError(opRegister, "insert_failed", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate verifies the email/password pair and returns the account.
// Failures are uniformly reported so callers cannot distinguish an unknown
// email from a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	address := strings.TrimSpace(email)
	if address == "" || password == "" {
		return User{}, apperror.Unauthorized(msgBadCredentials)
	}

	var user User
	err := s.db.WithContext(ctx).Where("email = ?", address).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, apperror.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		s.logError(opAuthenticate, "lookup_failed", err)
		return User{}, newServiceError(opAuthenticate, "lookup_failed", err)
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return User{}, apperror.Unauthorized(msgBadCredentials)
		}
		s.logError(opAuthenticate, "verify_failed", err)
		return User{}, newServiceError(opAuthenticate, "verify_failed", err)
	}

	return user, nil
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	Username string
	Email    string
	Bio      string
}

// UpdateProfile applies the profile form for the given account. The display
// name follows the username. The update is scoped by the account id so a
// concurrent edit of an unrelated account can never be overwritten.
func (s *Service) UpdateProfile(ctx context.Context, userID string, request UpdateProfileRequest) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, apperror.Validation("id", "user id is required")
	}
	username, err := NewUsername(request.Username)
	if err != nil {
		return User{}, apperror.Validation("username", fmt.Sprintf("username must be at least %d characters", minUsernameLength))
	}
	email, err := NewEmail(request.Email)
	if err != nil {
		return User{}, apperror.Validation("email", "a valid email address is required")
	}

	var conflicting User
	err = s.db.WithContext(ctx).
		Where("username = ? AND id <> ?", username.String(), userID).
		Take(&conflicting).Error
	if err == nil {
		return User{}, apperror.Conflict("username", msgUsernameTaken)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logError(opUpdateProfile, "lookup_failed", err)
		return User{}, newServiceError(opUpdateProfile, "lookup_failed", err)
	}

	updates := map[string]interface{}{
		"username": username.String(),
		"email":    email.String(),
		"bio":      strings.TrimSpace(request.Bio),
		"name":     username.String(),
	}
	result := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return User{}, apperror.Conflict("username", "username or email is already in use")
		}
		s.logError(opUpdateProfile, "update_failed", result.Error)
		return User{}, newServiceError(opUpdateProfile, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return User{}, apperror.NotFound("user")
	}

	return s.GetByID(ctx, userID)
}

// GetByID loads an account by identifier.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, apperror.Validation("id", "user id is required")
	}
	var user User
	err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, apperror.NotFound("user")
	}
	if err != nil {
		s.logError(opGetByID, "lookup_failed", err)
		return User{}, newServiceError(opGetByID, "lookup_failed", err)
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("users service error", attrs...)
}
