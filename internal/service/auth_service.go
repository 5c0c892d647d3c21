// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"portfolio-tracker/internal/auth"
	"portfolio-tracker/internal/domain"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/internal/util"
	"portfolio-tracker/pkg/db"
)

// TokenIssuer mints and verifies access tokens. *auth.TokenManager satisfies it.
type TokenIssuer interface {
	Generate(userID uuid.UUID, username string) (string, error)
	Parse(token string) (uuid.UUID, error)
}

// AuthService defines the interface for account and token operations.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// authService implements the AuthService interface.
type authService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	tokens     TokenIssuer
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AuthService {
	return &authService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		tokens:     tokens,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// Register creates an account and returns it together with a fresh access token.
// Username is checked before email, so a request clashing on both reports the username.
func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := domain.ValidateRegistration(username, email, password); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, "", fmt.Errorf("register: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, "", fmt.Errorf("register: transaction controller does not implement DBExecutor")
	}

	if err := s.ensureFree(ctx, txExecutor, username, email); err != nil {
		return nil, "", err
	}

	user := domain.NewUser(username, email, hash)
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		return nil, "", fmt.Errorf("register: failed to create user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, "", fmt.Errorf("register: failed to commit transaction: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("register: failed to issue token: %w", err)
	}
	return user, token, nil
}

func (s *authService) ensureFree(ctx context.Context, q repository.DBExecutor, username, email string) error {
	_, err := s.userRepo.GetUserByUsername(ctx, q, username)
	if err == nil {
		return util.ErrUsernameTaken
	}
	if !errors.Is(err, util.ErrNotFound) {
		return fmt.Errorf("register: failed to check existing username: %w", err)
	}

	_, err = s.userRepo.GetUserByEmail(ctx, q, email)
	if err == nil {
		return util.ErrEmailTaken
	}
	if !errors.Is(err, util.ErrNotFound) {
		return fmt.Errorf("register: failed to check existing email: %w", err)
	}
	return nil
}

// Login verifies the credentials and returns the user with a fresh access token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, strings.TrimSpace(username))
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: failed to get user: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("login: failed to issue token: %w", err)
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, util.ErrUnauthorized
		}
		return nil, fmt.Errorf("authenticate: failed to get user %s: %w", userID, err)
	}
	return user, nil
}
