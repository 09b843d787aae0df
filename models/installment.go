package models

import (
	"github.com/shopspring/decimal"
)

// InstallmentStatus представляет статус платежа по заявке
type InstallmentStatus string

const (
	InstallmentStatusOpen InstallmentStatus = "OPEN" // Платеж еще не оплачен
	InstallmentStatusPaid InstallmentStatus = "PAID" // Платеж оплачен
)

// Installment представляет один платеж по кредитной заявке.
// Платежи создаются только вместе со своей заявкой и удаляются
// только каскадно вместе с ней.
type Installment struct {
	ID         uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	ProposalID uint              `gorm:"column:proposal_id;not null;index" json:"-"`
	Number     int               `gorm:"column:number;not null" json:"number"`
	Amount     decimal.Decimal   `gorm:"column:amount;type:decimal(15,2);not null" json:"amount"`
	Status     InstallmentStatus `gorm:"column:status;type:varchar(20);not null;default:'OPEN'" json:"status"`
}

// NewInstallment создает платеж с номером и суммой, статус OPEN
func NewInstallment(number int, amount decimal.Decimal) Installment {
	return Installment{
		Number: number,
		Amount: amount,
		Status: InstallmentStatusOpen,
	}
}

// Pay помечает платеж как оплаченный.
// Переход допускается ровно один раз: повторная оплата
// возвращает ErrInstallmentAlreadyPaid, статус не меняется.
func (i *Installment) Pay() error {
	if i.IsPaid() {
		return ErrInstallmentAlreadyPaid
	}
	i.Status = InstallmentStatusPaid
	return nil
}

// IsPaid проверяет, оплачен ли платеж
func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentStatusPaid
}

// TableName возвращает имя таблицы для модели Installment
func (Installment) TableName() string {
	return "installments"
}
