package services

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"skillstream-backend/config"
)

// Claims — полезная нагрузка токена: только идентификатор пользователя.
type Claims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

// TokenService выпускает и проверяет JWT с симметричной подписью.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{secret: cfg.JWTSecret, ttl: cfg.TokenTTL}
}

// Issue подписывает токен для пользователя со сроком жизни из конфигурации.
func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	claims := &Claims{
		UserID: userID.String(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(s.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify проверяет подпись и срок действия токена и возвращает идентификатор
// пользователя. Любая причина отказа сворачивается в ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
