package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"creditProposals/config"
	"creditProposals/database"
	"creditProposals/middleware"
	"creditProposals/models"
	"creditProposals/services"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key"
	cfg.JWT.ExpiresIn = 1
	cfg.Proposal.MinAmount = decimal.RequireFromString("100.00")
	cfg.Proposal.MinInstallments = 1
	cfg.Proposal.MaxInstallments = 24
	return cfg
}

// setupTestServer собирает роутер с маршрутами приложения
// поверх sqlite в памяти
func setupTestServer(t *testing.T) *mux.Router {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	store := &database.Database{DB: db}

	cfg := testConfig()
	emailService := services.NewEmailService(cfg)

	authController := NewAuthController(store, emailService, cfg)
	proposalController := NewProposalController(store, emailService, cfg)

	router := mux.NewRouter()
	router.HandleFunc("/api/auth/signUp", authController.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/signIn", authController.SignIn).Methods("POST")

	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware([]byte(authController.GetJWTKey())))

	protected.HandleFunc("/proposals", proposalController.CreateProposal).Methods("POST")
	protected.HandleFunc("/proposals", proposalController.ListProposals).Methods("GET")
	protected.HandleFunc("/proposals/{id}", proposalController.GetProposal).Methods("GET")
	protected.HandleFunc("/proposals/{id}/installments/{number}/pay", proposalController.PayInstallment).Methods("POST")
	protected.HandleFunc("/metrics", MetricsHandler).Methods("GET")

	return router
}

func doRequest(router *mux.Router, method, path, token string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// signUpUser регистрирует пользователя и возвращает токен
func signUpUser(t *testing.T, router *mux.Router) string {
	t.Helper()

	body := `{"firstName":"Maria","lastName":"Silva","email":"maria@example.com","password":"Secret1!pass"}`
	rr := doRequest(router, "POST", "/api/auth/signUp", "", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token.Token)
	return resp.Token.Token
}

func createTestProposal(t *testing.T, router *mux.Router, token string) uint {
	t.Helper()

	body := `{"cpf":"78858021088","requestedAmount":1500.00,"installmentCount":12,"requestDate":"2025-08-12"}`
	rr := doRequest(router, "POST", "/api/proposals", token, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var id uint
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &id))
	require.NotZero(t, id)
	return id
}

func TestSignUpAndSignIn(t *testing.T) {
	router := setupTestServer(t)

	signUpUser(t, router)

	rr := doRequest(router, "POST", "/api/auth/signIn", "",
		`{"email":"maria@example.com","password":"Secret1!pass"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp SignInResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestSignInWrongPassword(t *testing.T) {
	router := setupTestServer(t)
	signUpUser(t, router)

	rr := doRequest(router, "POST", "/api/auth/signIn", "",
		`{"email":"maria@example.com","password":"WrongPass1!"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProposalRoutesRequireAuth(t *testing.T) {
	router := setupTestServer(t)

	rr := doRequest(router, "GET", "/api/proposals", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(router, "GET", "/api/proposals", "invalid-token", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateAndGetProposal(t *testing.T) {
	router := setupTestServer(t)
	token := signUpUser(t, router)

	id := createTestProposal(t, router, token)

	rr := doRequest(router, "GET", fmt.Sprintf("/api/proposals/%d", id), token, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var proposal models.Proposal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &proposal))
	assert.Equal(t, "78858021088", proposal.CPF)
	require.Len(t, proposal.Installments, 12)
	for i, inst := range proposal.Installments {
		assert.Equal(t, i+1, inst.Number)
		assert.Equal(t, models.InstallmentStatusOpen, inst.Status)
		assert.True(t, inst.Amount.Equal(decimal.RequireFromString("125.00")))
	}
}

func TestCreateProposalValidation(t *testing.T) {
	router := setupTestServer(t)
	token := signUpUser(t, router)

	tests := []struct {
		name string
		body string
	}{
		{"invalid cpf", `{"cpf":"12345678901","requestedAmount":1500.00,"installmentCount":12,"requestDate":"2025-08-12"}`},
		{"missing cpf", `{"requestedAmount":1500.00,"installmentCount":12,"requestDate":"2025-08-12"}`},
		{"amount below minimum", `{"cpf":"78858021088","requestedAmount":50.00,"installmentCount":12,"requestDate":"2025-08-12"}`},
		{"too many installments", `{"cpf":"78858021088","requestedAmount":1500.00,"installmentCount":25,"requestDate":"2025-08-12"}`},
		{"zero installments", `{"cpf":"78858021088","requestedAmount":1500.00,"installmentCount":0,"requestDate":"2025-08-12"}`},
		{"bad date", `{"cpf":"78858021088","requestedAmount":1500.00,"installmentCount":12,"requestDate":"12/08/2025"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(router, "POST", "/api/proposals", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func TestGetProposalNotFound(t *testing.T) {
	router := setupTestServer(t)
	token := signUpUser(t, router)

	rr := doRequest(router, "GET", "/api/proposals/9999", token, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListProposals(t *testing.T) {
	router := setupTestServer(t)
	token := signUpUser(t, router)

	createTestProposal(t, router, token)

	rr := doRequest(router, "GET", "/api/proposals?page=0&size=10", token, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var page services.ProposalPage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Content, 1)

	rr = doRequest(router, "GET", "/api/proposals?page=-1", token, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPayInstallment(t *testing.T) {
	router := setupTestServer(t)
	token := signUpUser(t, router)
	id := createTestProposal(t, router, token)

	rr := doRequest(router, "POST", fmt.Sprintf("/api/proposals/%d/installments/2/pay", id), token, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Повторная оплата того же платежа
	rr = doRequest(router, "POST", fmt.Sprintf("/api/proposals/%d/installments/2/pay", id), token, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Несуществующий номер платежа
	rr = doRequest(router, "POST", fmt.Sprintf("/api/proposals/%d/installments/99/pay", id), token, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Несуществующая заявка
	rr = doRequest(router, "POST", "/api/proposals/9999/installments/1/pay", token, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Оплаченный платеж виден в заявке
	rr = doRequest(router, "GET", fmt.Sprintf("/api/proposals/%d", id), token, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var proposal models.Proposal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &proposal))
	assert.Equal(t, models.InstallmentStatusPaid, proposal.Installments[1].Status)
	assert.Equal(t, 11, proposal.OpenInstallmentCount())
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestServer(t)
	token := signUpUser(t, router)

	rr := doRequest(router, "GET", "/api/metrics", token, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Contains(t, snapshot, "proposals_created")
	assert.Contains(t, snapshot, "total_requests")
}
