package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dosewatch/dosewatch/internal/config"
	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/repository"
	"github.com/dosewatch/dosewatch/pkg/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

const bcryptCost = 12

type Service struct {
	profiles repository.ProfileRepository
	hasher   security.PinHasher
	cfg      config.JWTConfig
}

func NewService(profiles repository.ProfileRepository, cfg config.JWTConfig) *Service {
	return &Service{
		profiles: profiles,
		hasher:   security.NewBcryptHasher(bcryptCost),
		cfg:      cfg,
	}
}

func (s *Service) CreateProfile(ctx context.Context, req *model.CreateProfileRequest) (*model.Profile, error) {
	hash, err := s.hasher.Hash(req.Pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	profile := &model.Profile{
		Name:    req.Name,
		PinHash: hash,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (s *Service) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	profile, err := s.profiles.Get(ctx, req.ProfileID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(profile.PinHash, req.Pin); err != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.ExpiryHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(profile.ID, 10),
		"name": profile.Name,
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, ErrTokenGeneration
	}

	return &model.TokenResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		ProfileID:   profile.ID,
	}, nil
}

// ValidateToken parses a bearer token and returns the profile ID it carries.
func (s *Service) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	profileID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid profile id in token: %w", err)
	}
	return profileID, nil
}
