package picvault

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kunleadeyemi/picvault/auth"
)

// Service orchestrates registration and login against the credential store
// and the password hasher, and composes authentication with token issuance.
type Service interface {
	RegisterUser(req registerUserRequest) error
	ValidateCredentials(req validateCredentialsRequest) error
	IssueToken(req validateCredentialsRequest) (string, error)
	UpdatePhoneNumber(username, phoneNumber string) error
	Profile(username string) (*User, error)
}

type service struct {
	users  Repository
	tokens *auth.TokenService
	log    *slog.Logger
}

func NewService(users Repository, tokens *auth.TokenService, log *slog.Logger) Service {
	return &service{users: users, tokens: tokens, log: log}
}

type registerUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type validateCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (svc *service) RegisterUser(req registerUserRequest) error {
	user, err := NewUser(req.Username, req.Email, req.PhoneNumber)
	if err != nil {
		return err
	}

	if len(req.Password) < 8 {
		return ErrInvalidPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	user.Password = hash

	// The store owns the uniqueness check; a lost race surfaces here as
	// ErrExistingUsername rather than a duplicate row.
	if err := svc.users.Store(user); err != nil {
		if errors.Is(err, ErrExistingUsername) {
			svc.log.Warn("registration with existing username", "username", req.Username)
			return ErrExistingUsername
		}
		return fmt.Errorf("error saving user: %w", err)
	}

	svc.log.Info("user registered", "username", req.Username)
	return nil
}

// ValidateCredentials reports ErrInvalidCredentials for both an unknown
// username and a wrong password, so callers cannot probe for accounts.
func (svc *service) ValidateCredentials(req validateCredentialsRequest) error {
	user, err := svc.users.FindByName(req.Username)
	if err != nil {
		svc.log.Warn("login for unknown user", "username", req.Username)
		return ErrInvalidCredentials
	}

	if !auth.HashMatchesPassword(user.Password, req.Password) {
		svc.log.Warn("login with wrong password", "username", req.Username)
		return ErrInvalidCredentials
	}

	return nil
}

func (svc *service) IssueToken(req validateCredentialsRequest) (string, error) {
	if err := svc.ValidateCredentials(req); err != nil {
		return "", err
	}

	token, err := svc.tokens.Issue(req.Username)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}

	svc.log.Info("token issued", "username", req.Username)
	return token, nil
}

func (svc *service) UpdatePhoneNumber(username, phoneNumber string) error {
	user, err := svc.users.FindByName(username)
	if err != nil {
		return err
	}

	user.PhoneNumber = phoneNumber
	if err := svc.users.Update(user); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}

	svc.log.Info("phone number updated", "username", username)
	return nil
}

func (svc *service) Profile(username string) (*User, error) {
	return svc.users.FindByName(username)
}
