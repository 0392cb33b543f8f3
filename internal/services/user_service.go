package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/threadcart/backend/internal/dto"
	"github.com/threadcart/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRecoveryCode = errors.New("invalid or expired recovery code")
)

const bcryptCost = 12

// GenericRecoveryMessage is returned by forgot-password whether or not
// the email exists, so the endpoint cannot be used to enumerate users.
const GenericRecoveryMessage = "If the email is registered, a recovery code has been sent."

type UserService struct {
	db          *gorm.DB
	tokens      *TokenService
	mailer      Mailer
	recoveryTTL time.Duration
}

func NewUserService(db *gorm.DB, tokens *TokenService, mailer Mailer, recoveryTTL time.Duration) *UserService {
	return &UserService{db: db, tokens: tokens, mailer: mailer, recoveryTTL: recoveryTTL}
}

func (s *UserService) Register(req *dto.RegisterRequest) (*dto.UserResponse, error) {
	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     models.RoleVisitor,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// A concurrent registration can slip past the lookup above and
		// hit the unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp := dto.NewUserResponse(&user)
	return &resp, nil
}

func (s *UserService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.LoginResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

// ForgotPassword stores a short-lived recovery code and mails it to the
// user. An unknown email is not an error: the handler replies with the
// same generic message either way.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	code, err := generateRecoveryCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.recoveryTTL)

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"recovery_code":            code,
		"recovery_code_expires_at": expiresAt,
	}).Error; err != nil {
		return fmt.Errorf("failed to store recovery code: %w", err)
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour password recovery code is: %s\n\nIt is valid for %d minutes.",
		user.Name, code, int(s.recoveryTTL.Minutes()),
	)
	if err := s.mailer.Send(ctx, user.Email, "Password recovery code", body); err != nil {
		return fmt.Errorf("failed to send recovery mail: %w", err)
	}

	return nil
}

func (s *UserService) ResetPassword(req *dto.ResetPasswordRequest) error {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return ErrInvalidRecoveryCode
	}

	if user.RecoveryCode == nil || *user.RecoveryCode != req.RecoveryCode {
		return ErrInvalidRecoveryCode
	}
	if user.RecoveryCodeExpiresAt == nil || time.Now().After(*user.RecoveryCodeExpiresAt) {
		return ErrInvalidRecoveryCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"password":                 string(hash),
		"recovery_code":            nil,
		"recovery_code_expires_at": nil,
	}).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *UserService) List() ([]dto.UserResponse, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.NewUserResponse(&users[i]))
	}
	return resp, nil
}

func (s *UserService) GetByID(id uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	resp := dto.NewUserResponse(&user)
	return &resp, nil
}

// Update applies a partial profile update. A role change is applied
// only when the caller is a full admin; otherwise the field is ignored,
// matching the self-service semantics of the profile endpoint.
func (s *UserService) Update(id uuid.UUID, callerRole models.Role, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil && !strings.EqualFold(*req.Email, user.Email) {
		var other models.User
		if err := s.db.Where("email = ? AND id <> ?", *req.Email, id).First(&other).Error; err == nil {
			return nil, ErrEmailTaken
		}
		updates["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}
	if req.Role != nil && callerRole.AtLeast(models.RoleAdmin) {
		updates["role"] = *req.Role
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	resp := dto.NewUserResponse(&user)
	return &resp, nil
}

// Delete removes the user together with their cart and cart items in a
// single transaction; the schema does not rely on DB-level cascade.
func (s *UserService) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", id).First(&cart).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	})
}

// generateRecoveryCode returns 3 random bytes hex-encoded and
// uppercased, a 6-character code.
func generateRecoveryCode() (string, error) {
	raw := make([]byte, 3)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate recovery code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(raw)), nil
}
