package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gymstock/internal/domain"
	"gymstock/internal/repos"
)

var (
	ErrBadCreds  = errors.New("invalid username or password")
	ErrUserTaken = errors.New("username or registration number already in use")
)

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}

// RegisterStudent creates a student account. Usernames and registration
// numbers are unique; a duplicate surfaces as ErrUserTaken.
func (s *AuthService) RegisterStudent(username, name, email, regNo, branch, password string) (*domain.User, error) {
	if _, err := s.Users.ByUsername(username); err == nil {
		return nil, ErrUserTaken
	}
	if _, err := s.Users.ByRegistrationNumber(regNo); err == nil {
		return nil, ErrUserTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:                 uuid.NewString(),
		Username:           strings.ToLower(strings.TrimSpace(username)),
		Name:               name,
		Email:              email,
		Hash:               string(hash),
		Role:               domain.RoleStudent,
		RegistrationNumber: regNo,
		Branch:             branch,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, ErrUserTaken
	}
	return u, nil
}

// CreateManager is admin-only; manager accounts carry no registration number.
func (s *AuthService) CreateManager(username, name, email, password string) (*domain.User, error) {
	if _, err := s.Users.ByUsername(username); err == nil {
		return nil, ErrUserTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:       uuid.NewString(),
		Username: strings.ToLower(strings.TrimSpace(username)),
		Name:     name,
		Email:    email,
		Hash:     string(hash),
		Role:     domain.RoleManager,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, ErrUserTaken
	}
	return u, nil
}
