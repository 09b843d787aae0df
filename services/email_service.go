package services

import (
	"fmt"
	"time"

	"creditProposals/config"

	"gopkg.in/gomail.v2"
)

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// SendWelcomeEmail отправляет приветственное письмо новому пользователю
func (s *EmailService) SendWelcomeEmail(to, firstName string) error {
	subject := "Добро пожаловать в сервис кредитных заявок"
	body := fmt.Sprintf(`
		<h2>Здравствуйте, %s!</h2>
		<p>Ваша учетная запись успешно создана.</p>
		<p>Теперь вы можете создавать кредитные заявки и отслеживать платежи.</p>
	`, firstName)

	return s.SendEmail(to, subject, body)
}

// SendProposalSettledNotification отправляет уведомление о полном
// погашении кредитной заявки
func (s *EmailService) SendProposalSettledNotification(to string, proposalID uint) error {
	subject := "Кредитная заявка полностью погашена"
	body := fmt.Sprintf(`
		<h2>Поздравляем!</h2>
		<p>Все платежи по заявке #%d оплачены.</p>
		<p>Дата: %s</p>
	`, proposalID, time.Now().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}

// SendOpenInstallmentsDigest отправляет сводку по заявкам
// с неоплаченными платежами
func (s *EmailService) SendOpenInstallmentsDigest(to string, lines []string) error {
	subject := "Сводка по открытым платежам"
	body := "<h2>Заявки с неоплаченными платежами</h2><ul>"
	for _, line := range lines {
		body += "<li>" + line + "</li>"
	}
	body += "</ul>"

	return s.SendEmail(to, subject, body)
}
