package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProposal(t *testing.T, amount string, count int) *Proposal {
	t.Helper()
	return NewProposal(
		"78858021088",
		decimal.RequireFromString(amount),
		count,
		time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC),
	)
}

func TestNewProposalExactSplit(t *testing.T) {
	p := newTestProposal(t, "1500.00", 12)

	require.Len(t, p.Installments, 12)
	sum := decimal.Zero
	for i, inst := range p.Installments {
		// Номера непрерывны с единицы, все платежи открыты
		assert.Equal(t, i+1, inst.Number)
		assert.Equal(t, InstallmentStatusOpen, inst.Status)
		assert.True(t, inst.Amount.Equal(decimal.RequireFromString("125.00")),
			"платеж %d: %s", inst.Number, inst.Amount)
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("1500.00")))
}

func TestNewProposalSplitNotRedistributed(t *testing.T) {
	p := newTestProposal(t, "1000.00", 3)

	require.Len(t, p.Installments, 3)
	for _, inst := range p.Installments {
		// Каждый платеж получает одинаковую округленную сумму,
		// остаток округления не добавляется к последнему платежу
		assert.True(t, inst.Amount.Equal(decimal.RequireFromString("333.33")),
			"платеж %d: %s", inst.Number, inst.Amount)
	}

	sum := decimal.Zero
	for _, inst := range p.Installments {
		sum = sum.Add(inst.Amount)
	}
	assert.True(t, sum.Equal(decimal.RequireFromString("999.99")))
}

func TestNewProposalRoundsHalfUp(t *testing.T) {
	// 100.01 / 2 = 50.005 -> 50.01 (половина округляется вверх)
	p := newTestProposal(t, "100.01", 2)

	for _, inst := range p.Installments {
		assert.True(t, inst.Amount.Equal(decimal.RequireFromString("50.01")),
			"платеж %d: %s", inst.Number, inst.Amount)
	}
}

func TestPayInstallmentFlipsExactlyOne(t *testing.T) {
	p := newTestProposal(t, "500.00", 5)

	require.NoError(t, p.PayInstallment(2))

	for _, inst := range p.Installments {
		if inst.Number == 2 {
			assert.True(t, inst.IsPaid())
		} else {
			assert.False(t, inst.IsPaid(), "платеж %d не должен меняться", inst.Number)
		}
	}
}

func TestPayInstallmentTwice(t *testing.T) {
	p := newTestProposal(t, "500.00", 5)
	require.NoError(t, p.PayInstallment(2))

	err := p.PayInstallment(2)
	require.ErrorIs(t, err, ErrInstallmentAlreadyPaid)

	// Первая оплата не затронута
	assert.True(t, p.Installments[1].IsPaid())
}

func TestPayInstallmentUnknownNumber(t *testing.T) {
	p := newTestProposal(t, "500.00", 5)

	err := p.PayInstallment(99)
	require.ErrorIs(t, err, ErrInstallmentNotFound)

	// Ни один платеж не изменился
	for _, inst := range p.Installments {
		assert.False(t, inst.IsPaid())
	}
}

func TestInstallmentListSnapshot(t *testing.T) {
	p := newTestProposal(t, "500.00", 5)

	snapshot := p.InstallmentList()
	require.Len(t, snapshot, 5)

	// Изменение копии не затрагивает заявку
	snapshot[0].Status = InstallmentStatusPaid
	snapshot[0].Amount = decimal.RequireFromString("0.01")

	assert.False(t, p.Installments[0].IsPaid())
	assert.True(t, p.Installments[0].Amount.Equal(decimal.RequireFromString("100.00")))
}

func TestIsSettled(t *testing.T) {
	p := newTestProposal(t, "200.00", 2)
	assert.False(t, p.IsSettled())
	assert.Equal(t, 2, p.OpenInstallmentCount())

	require.NoError(t, p.PayInstallment(1))
	assert.False(t, p.IsSettled())
	assert.Equal(t, 1, p.OpenInstallmentCount())

	require.NoError(t, p.PayInstallment(2))
	assert.True(t, p.IsSettled())
	assert.Equal(t, 0, p.OpenInstallmentCount())
}
