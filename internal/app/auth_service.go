package app

import (
	"errors"
	"sort"
	"strings"

	"musicwebsite/internal/model"
	"musicwebsite/internal/pkg/passhash"
	"musicwebsite/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredential covers both "no such user" and "wrong password" so
	// a caller cannot probe which usernames exist.
	ErrInvalidCredential = errors.New("invalid username/email or password")
)

// FieldErrors maps a form field name to a user-facing message. It is returned
// as an error so handlers can unwrap it with errors.As and render the
// messages inline.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

type AuthService struct {
	userRepo *repository.UserRepository
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Identifier string
	Password   string
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// ValidateRegistration reports which of username/email are already taken.
// Both checks run regardless, so a form can show both messages at once. The
// check is advisory; the unique indexes behind UserRepository.Create are what
// actually prevent duplicates under concurrent registrations.
func (s *AuthService) ValidateRegistration(username, email string) (FieldErrors, error) {
	fields := FieldErrors{}

	existing, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		fields["username"] = "Please choose another username."
	}

	existing, err = s.userRepo.GetByEmail(strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		fields["email"] = "Please use a different email address."
	}

	return fields, nil
}

func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	fields, err := s.ValidateRegistration(username, email)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, fields
	}

	hash, err := passhash.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost the race between pre-check and insert; report it the same
			// way the pre-check would have.
			return nil, s.conflictFields(username, email)
		}
		return nil, err
	}
	return user, nil
}

// Login resolves the identifier as a username first, then as an email.
func (s *AuthService) Login(input LoginInput) (*model.User, error) {
	identifier := strings.TrimSpace(input.Identifier)
	password := input.Password
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.userRepo.GetByUsername(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByEmail(strings.ToLower(identifier))
		if err != nil {
			return nil, err
		}
	}

	if user == nil || !passhash.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(id)
}

func (s *AuthService) conflictFields(username, email string) error {
	fields, err := s.ValidateRegistration(username, email)
	if err != nil || len(fields) == 0 {
		return repository.ErrConflict
	}
	return fields
}
