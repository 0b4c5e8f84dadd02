package services

import (
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"skillstream-backend/models/users"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegisterInput — поля запроса регистрации.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) Validate() error {
	v := &ValidationError{}
	if utf8.RuneCountInString(in.Username) < 3 {
		v.add("username", "must be at least 3 characters")
	}
	if !emailPattern.MatchString(in.Email) {
		v.add("email", "must be a valid email address")
	}
	if utf8.RuneCountInString(in.Password) < 6 {
		v.add("password", "must be at least 6 characters")
	}
	return v.errOrNil()
}

// LoginInput — поля запроса входа.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	v := &ValidationError{}
	if !emailPattern.MatchString(in.Email) {
		v.add("email", "must be a valid email address")
	}
	if utf8.RuneCountInString(in.Password) < 6 {
		v.add("password", "must be at least 6 characters")
	}
	return v.errOrNil()
}

// AccountService — регистрация и проверка учетных данных.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register создает пользователя с захэшированным паролем.
func (s *AccountService) Register(in RegisterInput) (*users.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// Проверка на существование пользователя с таким email
	var existing users.User
	if err := s.db.Where("email = ?", in.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := users.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login проверяет пароль по email. Несуществующий email и неверный пароль
// неразличимы для клиента.
func (s *AccountService) Login(in LoginInput) (*users.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var user users.User
	if err := s.db.Where("email = ?", in.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// FindByID возвращает пользователя по идентификатору из токена.
func (s *AccountService) FindByID(id string) (*users.User, error) {
	var user users.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
