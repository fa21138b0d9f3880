// Package usecase implements the user business logic: registration, credential
// updates and lookups, orchestrated with session issuance and role grants.
package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authd/internal/auth/domain"
	authService "github.com/allisson/authd/internal/auth/service"
	authUseCase "github.com/allisson/authd/internal/auth/usecase"
	authzUseCase "github.com/allisson/authd/internal/authz/usecase"
	"github.com/allisson/authd/internal/config"
	"github.com/allisson/authd/internal/database"
	apperrors "github.com/allisson/authd/internal/errors"
	outboxDomain "github.com/allisson/authd/internal/outbox/domain"
	"github.com/allisson/authd/internal/user/domain"
	appValidation "github.com/allisson/authd/internal/validation"
)

// RegisterUserInput contains the input data for user registration.
type RegisterUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput contains the input data for a credential update.
// All fields are required; the update replaces the stored identity.
type UpdateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUserOutput bundles the created user with their first session pair.
type RegisterUserOutput struct {
	User    *domain.User
	Session *authDomain.SessionPair
}

// UpdateUserOutput bundles the updated user with the replacement session pair.
type UpdateUserOutput struct {
	User    *domain.User
	Session *authDomain.SessionPair
}

// UseCase defines the interface for user business logic operations.
type UseCase interface {
	// RegisterUser creates a user, grants the default role and issues their
	// first session, all in one transaction.
	RegisterUser(ctx context.Context, input RegisterUserInput) (*RegisterUserOutput, error)

	// UpdateUser replaces the user's identity and credentials. Every existing
	// session is invalidated and one fresh session is issued, all in one
	// transaction, so stolen tokens die with the old password.
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UpdateUserOutput, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// UserRepository defines user repository operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// OutboxEventRepository defines outbox event repository operations.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// UserUseCase handles user-related business logic.
type UserUseCase struct {
	config          *config.Config
	txManager       database.TxManager
	userRepo        UserRepository
	outboxRepo      OutboxEventRepository
	passwordService authService.PasswordService
	sessionUseCase  authUseCase.SessionUseCase
	authzUseCase    authzUseCase.UseCase
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	config *config.Config,
	txManager database.TxManager,
	userRepo UserRepository,
	outboxRepo OutboxEventRepository,
	passwordService authService.PasswordService,
	sessionUseCase authUseCase.SessionUseCase,
	authzUC authzUseCase.UseCase,
) UseCase {
	return &UserUseCase{
		config:          config,
		txManager:       txManager,
		userRepo:        userRepo,
		outboxRepo:      outboxRepo,
		passwordService: passwordService,
		sessionUseCase:  sessionUseCase,
		authzUseCase:    authzUC,
	}
}

// validateUserInput validates registration and update input.
func validateUserInput(name, email, password string) error {
	err := validation.Errors{
		"name": validation.Validate(name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		"email": validation.Validate(email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		"password": validation.Validate(password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:     8,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		),
	}.Filter()
	return appValidation.WrapValidationError(err)
}

// RegisterUser registers a new user.
//
// The user row, the default role assignment, the user.created outbox event and
// the first session commit or roll back together.
func (uc *UserUseCase) RegisterUser(
	ctx context.Context,
	input RegisterUserInput,
) (*RegisterUserOutput, error) {
	if err := validateUserInput(input.Name, input.Email, input.Password); err != nil {
		return nil, err
	}

	passwordHash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var session *authDomain.SessionPair

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}

		if err := uc.authzUseCase.GrantRole(ctx, user.ID, uc.config.AuthzDefaultRole); err != nil {
			return err
		}

		if err := uc.createOutboxEvent(ctx, "user.created", user); err != nil {
			return err
		}

		session, err = uc.sessionUseCase.IssueFor(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &RegisterUserOutput{User: user, Session: session}, nil
}

// UpdateUser replaces the user's identity and credentials.
//
// The row update, the bulk session invalidation, the replacement session and
// the user.updated outbox event commit or roll back together.
func (uc *UserUseCase) UpdateUser(
	ctx context.Context,
	id uuid.UUID,
	input UpdateUserInput,
) (*UpdateUserOutput, error) {
	if err := validateUserInput(input.Name, input.Email, input.Password); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	passwordHash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(input.Name)
	user.Email = normalizeEmail(input.Email)
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()

	var session *authDomain.SessionPair

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Update(ctx, user); err != nil {
			return err
		}

		if _, err := uc.sessionUseCase.InvalidateAll(ctx, user.ID); err != nil {
			return err
		}

		if err := uc.createOutboxEvent(ctx, "user.updated", user); err != nil {
			return err
		}

		session, err = uc.sessionUseCase.IssueFor(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &UpdateUserOutput{User: user, Session: session}, nil
}

// GetUserByEmail retrieves a user by email.
func (uc *UserUseCase) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
}

// GetUserByID retrieves a user by ID.
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// createOutboxEvent records a user lifecycle event for async delivery.
func (uc *UserUseCase) createOutboxEvent(ctx context.Context, eventType string, user *domain.User) error {
	payload, err := json.Marshal(map[string]any{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event payload")
	}

	event := &outboxDomain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   string(payload),
		Status:    outboxDomain.OutboxEventStatusPending,
		Retries:   0,
	}

	if err := uc.outboxRepo.Create(ctx, event); err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
