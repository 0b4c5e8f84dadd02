package authentication

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"skillstream-backend/services"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID возвращает идентификатор пользователя, положенный в контекст
// middleware-ом после проверки токена.
func UserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)
	return id
}

// Register: регистрация по имени, email и паролю
func Register(w http.ResponseWriter, r *http.Request, accounts *services.AccountService) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := accounts.Register(input)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": verr.Fields})
		case errors.Is(err, services.ErrEmailTaken):
			writeError(w, http.StatusConflict, "Email already registered")
		default:
			log.Printf("Ошибка при регистрации пользователя: %v", err)
			writeError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login: вход по email и паролю, в ответе подписанный токен
func Login(w http.ResponseWriter, r *http.Request, accounts *services.AccountService, tokens *services.TokenService) {
	var input services.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := accounts.Login(input)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": verr.Fields})
		case errors.Is(err, services.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			log.Printf("Ошибка при входе пользователя: %v", err)
			writeError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	tokenString, err := tokens.Issue(user.ID)
	if err != nil {
		log.Printf("Ошибка при создании токена: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": tokenString})
}

// GetProfile: профиль пользователя по токену
func GetProfile(w http.ResponseWriter, r *http.Request, accounts *services.AccountService) {
	userID := UserID(r.Context())

	user, err := accounts.FindByID(userID.String())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// AuthMiddleware проверяет bearer-токен и кладет идентификатор пользователя
// в контекст запроса. Все варианты отказа отдаются как 401.
func AuthMiddleware(tokens *services.TokenService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" || tokenString == authHeader {
			writeError(w, http.StatusUnauthorized, "Token missing")
			return
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
