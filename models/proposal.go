package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Proposal представляет кредитную заявку: CPF заявителя, запрошенная
// сумма, количество платежей и дата обращения. Заявка владеет своими
// платежами, состав списка после создания не меняется — меняться может
// только статус отдельного платежа через PayInstallment.
type Proposal struct {
	ID               uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CPF              string          `gorm:"column:cpf;size:11;not null;index" json:"cpf"`
	RequestedAmount  decimal.Decimal `gorm:"column:requested_amount;type:decimal(15,2);not null" json:"requestedAmount"`
	InstallmentCount int             `gorm:"column:installment_count;not null" json:"installmentCount"`
	RequestDate      time.Time       `gorm:"column:request_date;type:date;not null" json:"requestDate"`
	Installments     []Installment   `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE" json:"installments"`
	CreatedAt        time.Time       `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"-"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" json:"-"`
}

// NewProposal создает заявку и сразу формирует все ее платежи.
// Валидация входных данных выполняется на уровне API до вызова.
func NewProposal(cpf string, amount decimal.Decimal, installmentCount int, requestDate time.Time) *Proposal {
	p := &Proposal{
		CPF:              cpf,
		RequestedAmount:  amount,
		InstallmentCount: installmentCount,
		RequestDate:      requestDate,
	}
	p.generateInstallments()
	return p
}

// generateInstallments формирует платежи с номерами 1..N.
// Каждый платеж получает одну и ту же сумму: запрошенная сумма,
// деленная на количество платежей и округленная до 2 знаков
// (половина — вверх). Остаток округления не перераспределяется,
// поэтому сумма платежей может отличаться от запрошенной на копейки.
func (p *Proposal) generateInstallments() {
	perInstallment := p.RequestedAmount.DivRound(decimal.NewFromInt(int64(p.InstallmentCount)), 2)
	p.Installments = make([]Installment, 0, p.InstallmentCount)
	for i := 1; i <= p.InstallmentCount; i++ {
		p.Installments = append(p.Installments, NewInstallment(i, perInstallment))
	}
}

// PayInstallment оплачивает платеж с указанным номером.
// Возвращает ErrInstallmentNotFound, если платежа с таким номером нет,
// и ErrInstallmentAlreadyPaid без изменений, если он уже оплачен.
// При успехе меняется статус ровно одного платежа.
func (p *Proposal) PayInstallment(number int) error {
	for i := range p.Installments {
		if p.Installments[i].Number == number {
			return p.Installments[i].Pay()
		}
	}
	return ErrInstallmentNotFound
}

// InstallmentList возвращает независимую копию списка платежей.
// Изменение возвращенного списка не затрагивает заявку.
func (p *Proposal) InstallmentList() []Installment {
	snapshot := make([]Installment, len(p.Installments))
	copy(snapshot, p.Installments)
	return snapshot
}

// IsSettled проверяет, оплачены ли все платежи заявки
func (p *Proposal) IsSettled() bool {
	for i := range p.Installments {
		if !p.Installments[i].IsPaid() {
			return false
		}
	}
	return len(p.Installments) > 0
}

// OpenInstallmentCount возвращает количество неоплаченных платежей
func (p *Proposal) OpenInstallmentCount() int {
	open := 0
	for i := range p.Installments {
		if !p.Installments[i].IsPaid() {
			open++
		}
	}
	return open
}

// TableName возвращает имя таблицы для модели Proposal
func (Proposal) TableName() string {
	return "proposals"
}
