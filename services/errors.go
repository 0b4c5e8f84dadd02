package services

import "errors"

// Доменные ошибки. Контроллеры сопоставляют их с HTTP-статусами;
// все остальные ошибки считаются сбоем хранилища и отдаются как 500.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrNoCurrentProgress = errors.New("no current progress found")
	ErrNoNextModule      = errors.New("no next module found")
	ErrCannotSkip        = errors.New("you cannot skip to this video")
	ErrModuleHasNoVideos = errors.New("module has no videos")
)

// FieldError — ошибка валидации конкретного поля запроса.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError собирает ошибки по всем полям запроса.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Fields[0].Field + " " + e.Fields[0].Message
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// errOrNil возвращает nil, если ошибок валидации не накопилось.
func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
