package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"creditProposals/config"
	"creditProposals/database"
	"creditProposals/middleware"
	"creditProposals/models"
	"creditProposals/services"
	"creditProposals/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// ProposalController обрабатывает запросы, связанные с кредитными заявками
type ProposalController struct {
	proposalService *services.ProposalService
	validate        *validator.Validate
	cfg             *config.Config
}

// ProposalRequest представляет данные для создания заявки
type ProposalRequest struct {
	CPF              string          `json:"cpf" validate:"required,cpf"`
	RequestedAmount  decimal.Decimal `json:"requestedAmount"`
	InstallmentCount int             `json:"installmentCount"`
	RequestDate      string          `json:"requestDate" validate:"required,datetime=2006-01-02"`
}

// NewProposalController создает новый экземпляр ProposalController
func NewProposalController(db *database.Database, email *services.EmailService, cfg *config.Config) *ProposalController {
	validate := validator.New()
	if err := utils.RegisterCPFValidation(validate); err != nil {
		log.Fatalf("Ошибка регистрации валидации CPF: %v", err)
	}

	return &ProposalController{
		proposalService: services.NewProposalService(db, email),
		validate:        validate,
		cfg:             cfg,
	}
}

// CreateProposal обрабатывает запрос на создание заявки
func (c *ProposalController) CreateProposal(w http.ResponseWriter, r *http.Request) {
	// Создаем DTO для запроса
	var req ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Валидируем запрос
	if err := c.validateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	requestDate, err := time.Parse("2006-01-02", req.RequestDate)
	if err != nil {
		http.Error(w, "Invalid request date", http.StatusBadRequest)
		return
	}

	// Создаем заявку
	id, err := c.proposalService.Create(req.CPF, req.RequestedAmount, req.InstallmentCount, requestDate)
	if err != nil {
		c.writeError(w, err)
		return
	}

	// Отправляем ответ с идентификатором
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", "/api/proposals/"+strconv.FormatUint(uint64(id), 10))
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(id)
}

// GetProposal обрабатывает запрос на получение заявки по идентификатору
func (c *ProposalController) GetProposal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	proposalID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid proposal ID", http.StatusBadRequest)
		return
	}

	proposal, err := c.proposalService.GetByID(uint(proposalID))
	if err != nil {
		c.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(proposal)
}

// ListProposals обрабатывает запрос на постраничный список заявок
func (c *ProposalController) ListProposals(w http.ResponseWriter, r *http.Request) {
	page := 0
	size := 10

	if v := r.URL.Query().Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid page parameter", http.StatusBadRequest)
			return
		}
		page = parsed
	}
	if v := r.URL.Query().Get("size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid size parameter", http.StatusBadRequest)
			return
		}
		size = parsed
	}

	result, err := c.proposalService.List(page, size)
	if err != nil {
		c.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// PayInstallment обрабатывает запрос на оплату платежа заявки
func (c *ProposalController) PayInstallment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	proposalID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid proposal ID", http.StatusBadRequest)
		return
	}
	number, err := strconv.Atoi(vars["number"])
	if err != nil {
		http.Error(w, "Invalid installment number", http.StatusBadRequest)
		return
	}

	// Адрес оплатившего сотрудника для уведомления о погашении
	_, email, err := middleware.GetUserFromContext(r)
	if err != nil {
		email = ""
	}

	if err := c.proposalService.PayInstallment(uint(proposalID), number, email); err != nil {
		c.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// validateRequest валидирует DTO создания заявки.
// Формат полей проверяется тегами валидатора, границы суммы
// и количества платежей берутся из конфигурации.
func (c *ProposalController) validateRequest(req ProposalRequest) error {
	if err := c.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
			case "cpf":
				errorMessages = append(errorMessages, "поле "+e.Field()+" содержит недействительный CPF")
			case "datetime":
				errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть датой в формате ГГГГ-ММ-ДД")
			default:
				errorMessages = append(errorMessages, "поле "+e.Field()+" заполнено неверно")
			}
		}
		return errors.New(strings.Join(errorMessages, "; "))
	}

	if req.RequestedAmount.LessThan(c.cfg.Proposal.MinAmount) {
		return errors.New("запрошенная сумма должна быть не меньше " + c.cfg.Proposal.MinAmount.StringFixed(2))
	}
	if req.InstallmentCount < c.cfg.Proposal.MinInstallments || req.InstallmentCount > c.cfg.Proposal.MaxInstallments {
		return errors.New("количество платежей должно быть от " +
			strconv.Itoa(c.cfg.Proposal.MinInstallments) + " до " +
			strconv.Itoa(c.cfg.Proposal.MaxInstallments))
	}

	return nil
}

// writeError транслирует доменные ошибки в HTTP-статусы.
// Единственное место, где виды ошибок отображаются на статусы.
func (c *ProposalController) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrProposalNotFound), errors.Is(err, models.ErrInstallmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrInstallmentAlreadyPaid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		utils.LogError("Внутренняя ошибка: %v", err)
		utils.GetMetrics().RecordError(err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
