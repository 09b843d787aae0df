package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"creditProposals/config"
	"creditProposals/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database представляет подключение к базе данных и операции
// хранилища кредитных заявок
type Database struct {
	DB *gorm.DB
}

// NewDatabase создает подключение, выполняет миграции и настраивает пул
func NewDatabase(cfg *config.Config) (*Database, error) {
	// Формируем строку подключения
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.DBName,
	)

	// Настраиваем логгер
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// Открываем подключение
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	// Настраиваем пул соединений
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пула соединений: %v", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Выполняем SQL миграции
	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("ошибка выполнения SQL миграций: %v", err)
	}

	// Выполняем автоматическую миграцию моделей
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("ошибка автоматической миграции моделей: %v", err)
	}

	return &Database{DB: db}, nil
}

// GetDB возвращает экземпляр GORM
func (d *Database) GetDB() *gorm.DB {
	return d.DB
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// runMigrations выполняет SQL миграции
func runMigrations(cfg *config.Config) error {
	// Формируем URL для миграций
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.DBName,
	)

	// Создаем экземпляр миграции
	m, err := migrate.New(
		"file://migrations",
		dsn,
	)
	if err != nil {
		return fmt.Errorf("ошибка создания миграции: %v", err)
	}

	// Выполняем миграции
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("ошибка выполнения миграций: %v", err)
	}

	return nil
}

// AutoMigrate выполняет автоматическую миграцию моделей
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Proposal{},
		&models.Installment{},
	)
	if err != nil {
		return fmt.Errorf("ошибка автоматической миграции: %v", err)
	}

	return nil
}

// SaveProposal сохраняет заявку вместе с ее платежами.
// При первой вставке база присваивает идентификаторы заявке и платежам,
// при обновлении сохраняются изменения статусов платежей.
func (d *Database) SaveProposal(proposal *models.Proposal) error {
	return d.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(proposal).Error
}

// GetProposalByID возвращает заявку с платежами, упорядоченными по номеру.
// Отсутствие записи транслируется в models.ErrProposalNotFound.
func (d *Database) GetProposalByID(id uint) (*models.Proposal, error) {
	var proposal models.Proposal
	err := d.DB.Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("installments.number ASC")
	}).First(&proposal, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

// ListProposals возвращает страницу заявок и общее количество записей.
// Нумерация страниц с нуля, платежи каждой заявки упорядочены по номеру.
func (d *Database) ListProposals(page, size int) ([]models.Proposal, int64, error) {
	var total int64
	if err := d.DB.Model(&models.Proposal{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var proposals []models.Proposal
	err := d.DB.Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("installments.number ASC")
	}).
		Order("proposals.id ASC").
		Offset(page * size).
		Limit(size).
		Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}

	return proposals, total, nil
}

// DeleteProposal удаляет заявку вместе с ее платежами в одной транзакции.
// Каскад выполняется явно: сначала платежи, затем сама заявка.
func (d *Database) DeleteProposal(id uint) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("proposal_id = ?", id).Delete(&models.Installment{})
		if result.Error != nil {
			return result.Error
		}
		result = tx.Delete(&models.Proposal{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrProposalNotFound
		}
		return nil
	})
}

// ProposalsWithOpenInstallments возвращает заявки, у которых остались
// неоплаченные платежи
func (d *Database) ProposalsWithOpenInstallments() ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := d.DB.Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("installments.number ASC")
	}).
		Where("id IN (?)", d.DB.Model(&models.Installment{}).
			Select("proposal_id").
			Where("status = ?", models.InstallmentStatusOpen)).
		Order("proposals.id ASC").
		Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

// Методы для работы с пользователями
func (d *Database) CreateUser(user *models.User) error {
	return d.DB.Create(user).Error
}

func (d *Database) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := d.DB.First(&user, id).Error
	return &user, err
}

func (d *Database) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := d.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}
