package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type LoginInput struct {
	Password string `json:"password"`
}

// AuthService checks the organizer's password. Token issuing is left to the
// HTTP layer, which owns the signing key.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) error
}

type authService struct {
	adminPasswordHash []byte
}

func NewAuthService(adminPasswordHash string) AuthService {
	return &authService{adminPasswordHash: []byte(adminPasswordHash)}
}

func (s *authService) Login(ctx context.Context, input LoginInput) error {
	if input.Password == "" {
		return ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword(s.adminPasswordHash, []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to compare password hash: %w", err)
	}
	return nil
}
