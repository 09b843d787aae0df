package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// IsValidCPF проверяет контрольные цифры CPF — бразильского
// налогового идентификатора заявителя. Принимает номер с точками
// и дефисом или без них.
func IsValidCPF(cpf string) bool {
	cleaned := strings.NewReplacer(".", "", "-", "").Replace(cpf)
	if len(cleaned) != 11 {
		return false
	}

	digits := make([]int, 11)
	for i, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
	}

	// Номер из одинаковых цифр формально проходит проверку
	// контрольных цифр, но считается недействительным
	same := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}

	return checkDigit(digits, 9) == digits[9] && checkDigit(digits, 10) == digits[10]
}

// checkDigit вычисляет контрольную цифру по первым length цифрам
func checkDigit(digits []int, length int) int {
	sum := 0
	weight := length + 1
	for i := 0; i < length; i++ {
		sum += digits[i] * (weight - i)
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

// RegisterCPFValidation регистрирует тег cpf в валидаторе
func RegisterCPFValidation(v *validator.Validate) error {
	return v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return IsValidCPF(fl.Field().String())
	})
}
