package services

import (
	"fmt"
	"time"

	"creditProposals/config"
	"creditProposals/database"
	"creditProposals/utils"
)

// ReminderService периодически собирает заявки с неоплаченными платежами
// и отправляет сводку. Статусы платежей сервис никогда не меняет:
// переход OPEN -> PAID выполняется только через оплату.
type ReminderService struct {
	db       *database.Database
	email    *EmailService
	interval time.Duration
	to       string
	stop     chan struct{}
}

// NewReminderService создает новый экземпляр ReminderService
func NewReminderService(db *database.Database, email *EmailService, cfg *config.Config) *ReminderService {
	return &ReminderService{
		db:       db,
		email:    email,
		interval: time.Duration(cfg.Reminder.IntervalHours) * time.Hour,
		to:       cfg.Reminder.To,
		stop:     make(chan struct{}),
	}
}

// Start запускает периодическую рассылку сводок
func (s *ReminderService) Start() {
	if s.to == "" {
		utils.LogInfo("Адрес для сводки не задан, рассылка напоминаний отключена")
		return
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.SendDigest(); err != nil {
					utils.LogError("Ошибка при отправке сводки по открытым платежам: %v", err)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop останавливает рассылку
func (s *ReminderService) Stop() {
	close(s.stop)
}

// SendDigest собирает заявки с открытыми платежами и отправляет сводку.
// Если открытых платежей нет, письмо не отправляется.
func (s *ReminderService) SendDigest() error {
	proposals, err := s.db.ProposalsWithOpenInstallments()
	if err != nil {
		return err
	}
	if len(proposals) == 0 {
		return nil
	}

	lines := make([]string, 0, len(proposals))
	for i := range proposals {
		lines = append(lines, fmt.Sprintf("Заявка #%d (CPF %s): открытых платежей %d из %d",
			proposals[i].ID,
			proposals[i].CPF,
			proposals[i].OpenInstallmentCount(),
			proposals[i].InstallmentCount,
		))
	}

	return s.email.SendOpenInstallmentsDigest(s.to, lines)
}
