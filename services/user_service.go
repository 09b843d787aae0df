package services

import (
	"errors"

	"creditProposals/database"
	"creditProposals/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *database.Database
}

type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

func NewUserService(db *database.Database) *UserService {
	return &UserService{db: db}
}

// CreateUserInternal создает нового пользователя
func (h *UserService) CreateUserInternal(req CreateUserRequest) (*models.User, error) {
	// Проверяем, существует ли пользователь с таким email
	var existingUser models.User
	if err := h.db.DB.Where("LOWER(email) = LOWER(?)", req.Email).First(&existingUser).Error; err == nil {
		return nil, errors.New("пользователь с таким email уже существует")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Хешируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Создаем нового пользователя
	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
	}

	if err := h.db.DB.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// FindByEmail ищет пользователя по email (игнорируя регистр и пробелы)
func (h *UserService) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := h.db.DB.Where("LOWER(TRIM(email)) = LOWER(TRIM(?))", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("пользователь не найден")
		}
		return nil, err
	}
	return &user, nil
}
