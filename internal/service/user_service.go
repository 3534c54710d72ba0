package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"aspiro-server/internal/domain"
	"aspiro-server/internal/repository"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ProfileUpdate carries the optional fields of a profile update request.
// Empty strings mean "leave unchanged".
type ProfileUpdate struct {
	FirstName       string
	LastName        string
	Email           string
	CurrentPassword string
	NewPassword     string
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type userService struct {
	users      repository.UserRepository
	tokens     *TokenService
	resetTTL   time.Duration
	bcryptCost int
}

func NewUserService(users repository.UserRepository, tokens *TokenService, resetTTL time.Duration, bcryptCost int) UserService {
	return &userService{
		users:      users,
		tokens:     tokens,
		resetTTL:   resetTTL,
		bcryptCost: bcryptCost,
	}
}

func (s *userService) Register(ctx context.Context, firstName, lastName, email, password string) (*domain.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)

	if firstName == "" || lastName == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: please provide all required fields", domain.ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: please provide a valid email address", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least 6 characters long", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: please provide both email and password", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if first := strings.TrimSpace(upd.FirstName); first != "" {
		user.FirstName = first
	}
	if last := strings.TrimSpace(upd.LastName); last != "" {
		user.LastName = last
	}

	if email := strings.TrimSpace(upd.Email); email != "" && !strings.EqualFold(email, user.Email) {
		if !emailPattern.MatchString(email) {
			return nil, fmt.Errorf("%w: please provide a valid email address", domain.ErrInvalidInput)
		}
		existing, err := s.users.GetByEmail(ctx, strings.ToLower(email))
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, fmt.Errorf("%w: email is already in use", domain.ErrDuplicateEmail)
		}
		user.Email = strings.ToLower(email)
	}

	if upd.NewPassword != "" {
		if upd.CurrentPassword == "" {
			return nil, fmt.Errorf("%w: please provide current password", domain.ErrInvalidInput)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(upd.CurrentPassword)); err != nil {
			return nil, fmt.Errorf("%w: current password is incorrect", domain.ErrInvalidCredentials)
		}
		if len(upd.NewPassword) < minPasswordLength {
			return nil, fmt.Errorf("%w: new password must be at least 6 characters long", domain.ErrInvalidInput)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.NewPassword), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

// ForgotPassword issues a short-lived reset token and stamps it on the user
// record. The stored copy makes the token single-use: consumption clears it.
func (s *userService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: please provide an email address", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", err
	}

	token, err := s.tokens.IssueWithTTL(user.ID, s.resetTTL)
	if err != nil {
		return "", err
	}

	expires := time.Now().UTC().Add(s.resetTTL)
	user.ResetToken = token
	user.ResetTokenExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}

	return token, nil
}

// ResetPassword consumes a reset token. The token must carry a valid
// signature, match the copy stored on the user record, and the stored expiry
// must not have elapsed. All three checks fail identically.
func (s *userService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if resetToken == "" || newPassword == "" {
		return fmt.Errorf("%w: please provide all required fields", domain.ErrInvalidInput)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least 6 characters long", domain.ErrInvalidInput)
	}

	userID, err := s.tokens.Verify(resetToken)
	if err != nil {
		return domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}

	if user.ResetToken == "" || user.ResetTokenExpires == nil {
		return domain.ErrInvalidToken
	}
	if time.Now().UTC().After(*user.ResetTokenExpires) {
		return domain.ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(user.ResetToken), []byte(resetToken)) != 1 {
		return domain.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.ResetToken = ""
	user.ResetTokenExpires = nil
	return s.users.Update(ctx, user)
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
