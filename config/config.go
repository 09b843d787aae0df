package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server struct {
		Port int
	}
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}
	JWT struct {
		SecretKey string
		ExpiresIn int // в часах
	}
	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Proposal struct {
		MinAmount       decimal.Decimal // минимальная сумма заявки
		MinInstallments int             // минимальное количество платежей
		MaxInstallments int             // максимальное количество платежей
	}
	Reminder struct {
		IntervalHours int    // интервал рассылки напоминаний
		To            string // адрес для сводки по открытым платежам
	}
	CentralBank struct {
		URL string // адрес сервиса ключевой ставки
	}
}

// NewConfig создает новый экземпляр конфигурации
func NewConfig() (*Config, error) {
	v := viper.New()

	// Значения по умолчанию
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "proposals_db")
	v.SetDefault("jwt.secret_key", "your-secret-key-here")
	v.SetDefault("jwt.expires_in", 24)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "your-email@gmail.com")
	v.SetDefault("smtp.password", "your-app-password")
	v.SetDefault("smtp.from", "your-email@gmail.com")
	v.SetDefault("proposal.min_amount", "100.00")
	v.SetDefault("proposal.min_installments", 1)
	v.SetDefault("proposal.max_installments", 24)
	v.SetDefault("reminder.interval_hours", 24)
	v.SetDefault("reminder.to", "")
	v.SetDefault("centralbank.url", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx")

	// Переменные окружения: SERVER_PORT, DB_HOST, JWT_SECRET_KEY и т.д.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}

	// Настройки сервера
	cfg.Server.Port = v.GetInt("server.port")

	// Настройки базы данных
	cfg.DB.Host = v.GetString("db.host")
	cfg.DB.Port = v.GetInt("db.port")
	cfg.DB.User = v.GetString("db.user")
	cfg.DB.Password = v.GetString("db.password")
	cfg.DB.DBName = v.GetString("db.name")

	// Настройки JWT
	cfg.JWT.SecretKey = v.GetString("jwt.secret_key")
	cfg.JWT.ExpiresIn = v.GetInt("jwt.expires_in")

	// Настройки SMTP
	cfg.SMTP.Host = v.GetString("smtp.host")
	cfg.SMTP.Port = v.GetInt("smtp.port")
	cfg.SMTP.Username = v.GetString("smtp.username")
	cfg.SMTP.Password = v.GetString("smtp.password")
	cfg.SMTP.From = v.GetString("smtp.from")

	// Настройки кредитных заявок
	minAmount, err := decimal.NewFromString(v.GetString("proposal.min_amount"))
	if err != nil {
		return nil, fmt.Errorf("неверный формат минимальной суммы заявки: %v", err)
	}
	cfg.Proposal.MinAmount = minAmount
	cfg.Proposal.MinInstallments = v.GetInt("proposal.min_installments")
	cfg.Proposal.MaxInstallments = v.GetInt("proposal.max_installments")
	if cfg.Proposal.MinInstallments < 1 || cfg.Proposal.MaxInstallments < cfg.Proposal.MinInstallments {
		return nil, fmt.Errorf("неверные границы количества платежей: %d..%d",
			cfg.Proposal.MinInstallments, cfg.Proposal.MaxInstallments)
	}

	// Настройки напоминаний
	cfg.Reminder.IntervalHours = v.GetInt("reminder.interval_hours")
	cfg.Reminder.To = v.GetString("reminder.to")

	// Настройки сервиса центрального банка
	cfg.CentralBank.URL = v.GetString("centralbank.url")

	return cfg, nil
}
