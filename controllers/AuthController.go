package controllers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"creditProposals/config"
	"creditProposals/database"
	"creditProposals/services"
	"creditProposals/utils"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	userHandler *services.UserService
	email       *services.EmailService
	validate    *validator.Validate
	config      *config.Config
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInResponse struct {
	Token string `json:"token"`
}

type SignUpRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50,alpha"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50,alpha"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,password"`
}

type Token struct {
	Token  string `json:"token"`
	Email  string `json:"email"`
	UserID uint   `json:"userId"`
}

type AuthResponse struct {
	Token Token `json:"token"`
	User  struct {
		ID        uint   `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	} `json:"user"`
}

func NewAuthController(db *database.Database, email *services.EmailService, cfg *config.Config) *AuthController {
	validate := validator.New()

	// Регистрация кастомной валидации для пароля
	validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		password := fl.Field().String()
		// Проверка на наличие хотя бы одной цифры
		hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
		// Проверка на наличие хотя бы одной заглавной буквы
		hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
		// Проверка на наличие хотя бы одной строчной буквы
		hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
		// Проверка на наличие хотя бы одного специального символа
		hasSpecial := regexp.MustCompile(`[!@#$%^&*]`).MatchString(password)

		return hasNumber && hasUpper && hasLower && hasSpecial
	})

	return &AuthController{
		userHandler: services.NewUserService(db),
		email:       email,
		validate:    validate,
		config:      cfg,
	}
}

// SignIn обрабатывает вход пользователя
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация запроса
	if err := c.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		http.Error(w, validationErrors.Error(), http.StatusBadRequest)
		return
	}

	// Ищем пользователя по email
	user, err := c.userHandler.FindByEmail(req.Email)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	// Проверяем пароль
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	// Создаем JWT токен
	token, err := c.generateToken(user.ID, user.Email)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SignInResponse{Token: token.Token})
}

// SignUp обрабатывает регистрацию пользователя
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация запроса
	if err := c.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		http.Error(w, validationErrors.Error(), http.StatusBadRequest)
		return
	}

	// Создаем пользователя через UserService
	user, err := c.userHandler.CreateUserInternal(services.CreateUserRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Отправляем приветственное письмо, ошибка не прерывает регистрацию
	go func() {
		if err := c.email.SendWelcomeEmail(user.Email, user.FirstName); err != nil {
			utils.LogError("Ошибка при отправке приветственного письма: %v", err)
		}
	}()

	// Генерация JWT токена
	token, err := c.generateToken(user.ID, user.Email)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	response := AuthResponse{
		Token: *token,
		User: struct {
			ID        uint   `json:"id"`
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Email     string `json:"email"`
		}{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

// GetJWTKey возвращает ключ для JWT
func (c *AuthController) GetJWTKey() string {
	return c.config.JWT.SecretKey
}

// generateToken создает JWT токен
func (c *AuthController) generateToken(userID uint, email string) (*Token, error) {
	expirationTime := time.Now().Add(time.Duration(c.config.JWT.ExpiresIn) * time.Hour)
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(c.config.JWT.SecretKey))
	if err != nil {
		return nil, err
	}

	return &Token{
		Token:  tokenString,
		Email:  email,
		UserID: userID,
	}, nil
}
