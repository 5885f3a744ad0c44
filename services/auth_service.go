package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "food-shop/errors"
	"food-shop/kafka"
	"food-shop/logger"
	"food-shop/models"
	"food-shop/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Registration is the tagged union of supported sign-up flows. Each variant
// carries its own required fields and produces a different post-registration
// action: web issues a token pair, Telegram emits a confirmation event.
type Registration interface {
	registrationKind() string
}

type WebRegistration struct {
	Email    string
	Password string
}

type TelegramRegistration struct {
	Email string
	TgID  string
}

func (WebRegistration) registrationKind() string      { return "web" }
func (TelegramRegistration) registrationKind() string { return "telegram" }

type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenServiceAPI
	producer kafka.ProducerAPI
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenServiceAPI, producer kafka.ProducerAPI) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		producer: producer,
	}
}

// Register creates a user for either flow, or augments an existing account
// registered through the other flow: a Telegram-only user gains a password,
// a web-only user gains a tg_id. Any other repeat registration is rejected.
// The returned token pair is nil for Telegram registrations.
func (s *AuthService) Register(ctx context.Context, reg Registration) (*TokenPair, *apperrors.Error) {
	switch r := reg.(type) {
	case WebRegistration:
		return s.registerWeb(ctx, r)
	case TelegramRegistration:
		return nil, s.registerTelegram(ctx, r)
	default:
		return nil, apperrors.ErrBadRequest.Wrap(fmt.Errorf("unknown registration kind %q", reg.registrationKind()))
	}
}

func (s *AuthService) registerWeb(ctx context.Context, reg WebRegistration) (*TokenPair, *apperrors.Error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}

	user, err := s.userRepo.FindByEmail(ctx, reg.Email)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	switch {
	case user == nil:
		user = &models.User{Email: reg.Email, HashedPassword: string(hashed)}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, apperrors.ErrStoreUnavailable.Wrap(err)
		}
	case user.TgID != nil && user.HashedPassword == "":
		user.HashedPassword = string(hashed)
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, apperrors.ErrStoreUnavailable.Wrap(err)
		}
	default:
		return nil, apperrors.ErrAlreadyRegistered
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}
	if err := s.userRepo.SaveRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	return pair, nil
}

func (s *AuthService) registerTelegram(ctx context.Context, reg TelegramRegistration) *apperrors.Error {
	user, err := s.userRepo.FindByEmail(ctx, reg.Email)
	if err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	switch {
	case user == nil:
		user = &models.User{Email: reg.Email, TgID: &reg.TgID}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return apperrors.ErrStoreUnavailable.Wrap(err)
		}
	case user.HashedPassword != "" && user.TgID == nil:
		user.TgID = &reg.TgID
		if err := s.userRepo.Update(ctx, user); err != nil {
			return apperrors.ErrStoreUnavailable.Wrap(err)
		}
	default:
		return apperrors.ErrAlreadyRegistered
	}

	if s.producer != nil {
		event := kafka.UserRegisteredEvent{
			Event:     "user.registered",
			UserID:    user.ID,
			Email:     user.Email,
			TgID:      reg.TgID,
			Timestamp: time.Now(),
		}
		if err := s.producer.Publish(ctx, reg.TgID, event); err != nil {
			logger.Warn(ctx, "Registration event publish failed", zap.Error(err))
		}
	}
	return nil
}

// Login authenticates a web user and rotates their refresh token
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *apperrors.Error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if user == nil || user.HashedPassword == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}
	if err := s.userRepo.ReplaceRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	return pair, nil
}

// Logout revokes all refresh tokens for the user
func (s *AuthService) Logout(ctx context.Context, userID uint) *apperrors.Error {
	if err := s.userRepo.DeleteRefreshTokens(ctx, userID); err != nil {
		return apperrors.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}

// Refresh validates a stored refresh token and rotates the pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *apperrors.Error) {
	claims, err := s.tokens.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return nil, apperrors.ErrInvalidToken.Wrap(err)
	}

	stored, err := s.userRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	if stored == nil {
		return nil, apperrors.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, apperrors.ErrInvalidToken.Wrap(err)
	}
	email, _ := claims["email"].(string)

	pair, err := s.tokens.GenerateTokenPair(uint(userID), email)
	if err != nil {
		return nil, apperrors.ErrInternalServer.Wrap(err)
	}
	if err := s.userRepo.ReplaceRefreshToken(ctx, uint(userID), pair.RefreshToken); err != nil {
		return nil, apperrors.ErrStoreUnavailable.Wrap(err)
	}
	return pair, nil
}
