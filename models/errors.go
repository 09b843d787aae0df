package models

import "errors"

// Доменные ошибки. Контроллер транслирует их в HTTP-статусы,
// сервисный слой возвращает их без изменений.
var (
	ErrProposalNotFound       = errors.New("заявка не найдена")
	ErrInstallmentNotFound    = errors.New("платеж не найден")
	ErrInstallmentAlreadyPaid = errors.New("платеж уже оплачен")
)
