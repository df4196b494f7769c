package jwt

import (
	"errors"
	"time"

	"distro-go/internal/config"

	"github.com/golang-jwt/jwt/v4"
)

// Claims represents JWT claims
type Claims struct {
	UserID     string `json:"user_id"`
	EmployeeNo string `json:"employee_no"`
	JobType    string `json:"job_type"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair holds access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// GenerateAccessToken generates a new access token
func GenerateAccessToken(userID, employeeNo, jobType, email string) (string, error) {
	cfg := config.Cfg

	claims := Claims{
		UserID:     userID,
		EmployeeNo: employeeNo,
		JobType:    jobType,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.JWT.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.App.Name,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.AccessSecret))
}

// GenerateRefreshToken generates a new refresh token
func GenerateRefreshToken(userID, employeeNo, jobType, email string) (string, error) {
	cfg := config.Cfg

	claims := Claims{
		UserID:     userID,
		EmployeeNo: employeeNo,
		JobType:    jobType,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.JWT.RefreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.App.Name,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.RefreshSecret))
}

// GenerateTokenPair generates both access and refresh tokens
func GenerateTokenPair(userID, employeeNo, jobType, email string) (*TokenPair, error) {
	accessToken, err := GenerateAccessToken(userID, employeeNo, jobType, email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := GenerateRefreshToken(userID, employeeNo, jobType, email)
	if err != nil {
		return nil, err
	}

	cfg := config.Cfg

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(cfg.JWT.AccessExpiry.Seconds()),
	}, nil
}

// VerifyAccessToken verifies and parses an access token
func VerifyAccessToken(tokenString string) (*Claims, error) {
	cfg := config.Cfg

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.AccessSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// VerifyRefreshToken verifies and parses a refresh token
func VerifyRefreshToken(tokenString string) (*Claims, error) {
	cfg := config.Cfg

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.RefreshSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
