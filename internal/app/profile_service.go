package app

import (
	"errors"
	"strings"

	"musicwebsite/internal/model"
	"musicwebsite/internal/repository"
)

type ProfileService struct {
	userRepo *repository.UserRepository
}

// EditProfileInput carries the submitted profile fields. An empty field means
// "leave unchanged".
type EditProfileInput struct {
	Username string
	Email    string
}

func NewProfileService(userRepo *repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// UpdateProfile applies only the provided fields to the user and persists the
// result. It returns false when nothing was submitted.
func (s *ProfileService) UpdateProfile(user *model.User, input EditProfileInput) (bool, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if username == "" && email == "" {
		return false, nil
	}

	fields := FieldErrors{}

	if username != "" && username != user.Username {
		existing, err := s.userRepo.GetByUsername(username)
		if err != nil {
			return false, err
		}
		if existing != nil && existing.ID != user.ID {
			fields["username"] = "Please choose another username."
		}
	}

	if email != "" && email != user.Email {
		existing, err := s.userRepo.GetByEmail(email)
		if err != nil {
			return false, err
		}
		if existing != nil && existing.ID != user.ID {
			fields["email"] = "Please use a different email address."
		}
	}

	if len(fields) > 0 {
		return false, fields
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return false, FieldErrors{"username": "Please choose another username.", "email": "Please use a different email address."}
		}
		return false, err
	}
	return true, nil
}
