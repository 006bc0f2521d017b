package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Wadangzz/Dessert-Gemini/internal/auth"
	"github.com/Wadangzz/Dessert-Gemini/internal/config"
	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
	"github.com/Wadangzz/Dessert-Gemini/internal/identity"
	"github.com/Wadangzz/Dessert-Gemini/internal/repository"
)

// SessionService owns session construction (login) and teardown (logout).
type SessionService struct {
	identities  identity.Provider
	employees   repository.EmployeeRepository
	tokens      *auth.TokenManager
	loginDomain string
}

// SessionDependencies bundles collaborators for session handling.
type SessionDependencies struct {
	Identities   identity.Provider
	EmployeeRepo repository.EmployeeRepository
}

// NewSessionService builds the service.
func NewSessionService(cfg config.Config, deps SessionDependencies) *SessionService {
	return &SessionService{
		identities:  deps.Identities,
		employees:   deps.EmployeeRepo,
		tokens:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		loginDomain: cfg.Auth.LoginDomain,
	}
}

// TokenManager exposes the manager for middleware construction.
func (s *SessionService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login authenticates an employee and issues a session token. The employee
// identifier is derived from the local part of the synthesized login address;
// the role comes from the employee record, defaulting to standard when the
// record carries none.
func (s *SessionService) Login(ctx context.Context, employeeID, password string) (domain.CallerContext, string, time.Time, error) {
	address := auth.LoginAddress(employeeID, s.loginDomain)

	if _, err := s.identities.VerifyIdentity(ctx, address, password); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return domain.CallerContext{}, "", time.Time{}, errors.New("invalid credentials")
		}
		return domain.CallerContext{}, "", time.Time{}, err
	}

	normalizedID := auth.EmployeeIDFromAddress(address)

	caller := domain.CallerContext{EmployeeID: normalizedID, Name: normalizedID}
	employee, err := s.employees.GetByEmployeeID(ctx, normalizedID)
	switch {
	case err == nil:
		caller.Name = employee.Name
		caller.Role = employee.Role
	case errors.Is(err, pgx.ErrNoRows):
		// Identity exists without an employee row; treat as a standard
		// caller identified by the id alone.
	default:
		return domain.CallerContext{}, "", time.Time{}, err
	}

	token, exp, err := s.tokens.GenerateToken(caller.EmployeeID, caller.Name, caller.Role)
	if err != nil {
		return domain.CallerContext{}, "", time.Time{}, err
	}
	return caller, token, exp, nil
}

// Logout currently no-ops for the stateless JWT approach.
func (s *SessionService) Logout(_ context.Context, _ string) error {
	return nil
}
