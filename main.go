package main

import (
	"fmt"
	"log"
	"net/http"

	"creditProposals/config"
	"creditProposals/controllers"
	"creditProposals/database"
	"creditProposals/middleware"
	"creditProposals/services"

	"github.com/gorilla/mux"
)

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем подключение к базе данных
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Инициализируем сервис email
	emailService := services.NewEmailService(cfg)

	// Запускаем рассылку напоминаний об открытых платежах
	reminder := services.NewReminderService(db, emailService, cfg)
	reminder.Start()
	defer reminder.Stop()

	// Создаем роутер
	router := mux.NewRouter()

	// Инициализируем контроллеры
	authController := controllers.NewAuthController(db, emailService, cfg)
	proposalController := controllers.NewProposalController(db, emailService, cfg)
	rateController := controllers.NewRateController(services.NewRateService(cfg))

	// Публичные маршруты для аутентификации
	router.HandleFunc("/api/auth/signUp", authController.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/signIn", authController.SignIn).Methods("POST")

	// Защищенные маршруты
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware([]byte(authController.GetJWTKey())))
	protected.Use(middleware.LoggingMiddleware)
	protected.Use(middleware.RateLimitMiddleware)
	protected.Use(middleware.RecoveryMiddleware)

	// Маршруты для работы с кредитными заявками
	protected.HandleFunc("/proposals", proposalController.CreateProposal).Methods("POST")
	protected.HandleFunc("/proposals", proposalController.ListProposals).Methods("GET")
	protected.HandleFunc("/proposals/{id}", proposalController.GetProposal).Methods("GET")
	protected.HandleFunc("/proposals/{id}/installments/{number}/pay", proposalController.PayInstallment).Methods("POST")

	// Справочные маршруты
	protected.HandleFunc("/rates/key", rateController.GetKeyRate).Methods("GET")
	protected.HandleFunc("/metrics", controllers.MetricsHandler).Methods("GET")

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
