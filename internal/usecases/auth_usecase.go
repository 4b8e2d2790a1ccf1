package usecases

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/victorwamb/IA-PF/internal/entities"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenTTL is how long an admin login stays valid.
const TokenTTL = 24 * time.Hour

type AuthUsecase struct {
	admin     *entities.Admin
	apiKey    string
	jwtSecret []byte
}

func NewAuthUsecase(secret, apiKey string) *AuthUsecase {
	return &AuthUsecase{
		apiKey:    apiKey,
		jwtSecret: []byte(secret),
	}
}

// EnsureAdmin installs the admin account (called on startup). A ready bcrypt hash wins
// over a plain password.
func (uc *AuthUsecase) EnsureAdmin(username, password, passwordHash string) error {
	if username == "" {
		return errors.New("admin username is empty")
	}
	if passwordHash == "" {
		if password == "" {
			return errors.New("admin password is empty")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		passwordHash = string(hashed)
	}
	uc.admin = &entities.Admin{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         entities.RoleAdmin,
	}
	return nil
}

func (uc *AuthUsecase) Login(username, password string) (string, error) {
	if uc.admin == nil || username != uc.admin.Username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uc.admin.Username,
		"role": uc.admin.Role,
		"exp":  time.Now().Add(TokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Authorize accepts either the static admin API key or a JWT issued by Login.
func (uc *AuthUsecase) Authorize(bearer string) error {
	if bearer == "" {
		return ErrInvalidCredentials
	}
	if uc.apiKey != "" && subtle.ConstantTimeCompare([]byte(bearer), []byte(uc.apiKey)) == 1 {
		return nil
	}

	token, err := jwt.Parse(bearer, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != entities.RoleAdmin {
		return ErrInvalidCredentials
	}
	return nil
}
