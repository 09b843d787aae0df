package services

import (
	"errors"
	"time"

	"creditProposals/database"
	"creditProposals/models"
	"creditProposals/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProposalPage представляет страницу заявок с метаданными пагинации
type ProposalPage struct {
	Content       []models.Proposal `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

// ProposalService предоставляет методы для работы с кредитными заявками
type ProposalService struct {
	db    *database.Database
	email *EmailService
}

// NewProposalService создает новый экземпляр ProposalService
func NewProposalService(db *database.Database, email *EmailService) *ProposalService {
	return &ProposalService{
		db:    db,
		email: email,
	}
}

// Create создает кредитную заявку с платежами и сохраняет ее.
// Входные данные проверяются на уровне API до вызова.
// Возвращает идентификатор, присвоенный базой данных.
func (s *ProposalService) Create(cpf string, amount decimal.Decimal, installmentCount int, requestDate time.Time) (uint, error) {
	start := time.Now()

	proposal := models.NewProposal(cpf, amount, installmentCount, requestDate)
	if err := s.db.SaveProposal(proposal); err != nil {
		utils.LogOperation("proposal.create", start, err)
		return 0, err
	}

	utils.GetMetrics().RecordProposalCreated()
	utils.LogOperation("proposal.create", start, nil)
	return proposal.ID, nil
}

// GetByID возвращает заявку по идентификатору.
// Возвращает models.ErrProposalNotFound, если заявки нет.
func (s *ProposalService) GetByID(id uint) (*models.Proposal, error) {
	return s.db.GetProposalByID(id)
}

// List возвращает страницу заявок без дополнительной фильтрации
func (s *ProposalService) List(page, size int) (*ProposalPage, error) {
	proposals, total, err := s.db.ListProposals(page, size)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}

	return &ProposalPage{
		Content:       proposals,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// PayInstallment оплачивает платеж заявки по его номеру.
// Последовательность загрузка-изменение-сохранение выполняется в одной
// транзакции; доменные ошибки возвращаются без изменений.
// Если после оплаты не осталось открытых платежей и указан адрес,
// отправляется уведомление о погашении (ошибка отправки только логируется).
func (s *ProposalService) PayInstallment(proposalID uint, number int, notifyEmail string) error {
	start := time.Now()

	// Начинаем транзакцию
	tx := s.db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	// Загружаем заявку с платежами
	var proposal models.Proposal
	err := tx.Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("installments.number ASC")
	}).First(&proposal, proposalID).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogOperation("proposal.payInstallment", start, models.ErrProposalNotFound)
			return models.ErrProposalNotFound
		}
		return err
	}

	// Оплачиваем платеж через агрегат
	if err := proposal.PayInstallment(number); err != nil {
		tx.Rollback()
		utils.LogOperation("proposal.payInstallment", start, err)
		return err
	}

	// Сохраняем заявку вместе с платежами
	if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&proposal).Error; err != nil {
		tx.Rollback()
		return err
	}

	// Подтверждаем транзакцию
	if err := tx.Commit().Error; err != nil {
		return err
	}

	settled := proposal.IsSettled()
	utils.GetMetrics().RecordInstallmentPaid(settled)
	utils.LogOperation("proposal.payInstallment", start, nil)

	// Уведомляем о полном погашении
	if settled && notifyEmail != "" {
		if err := s.email.SendProposalSettledNotification(notifyEmail, proposal.ID); err != nil {
			utils.LogError("Ошибка при отправке уведомления о погашении заявки %d: %v", proposal.ID, err)
		}
	}

	return nil
}
