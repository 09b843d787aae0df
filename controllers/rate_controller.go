package controllers

import (
	"encoding/json"
	"net/http"

	"creditProposals/services"
	"creditProposals/utils"
)

// RateController обрабатывает запросы справочной информации о ставках
type RateController struct {
	rateService *services.RateService
}

// NewRateController создает новый экземпляр RateController
func NewRateController(rateService *services.RateService) *RateController {
	return &RateController{rateService: rateService}
}

// GetKeyRate возвращает текущую ключевую ставку центрального банка
func (c *RateController) GetKeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := c.rateService.GetKeyRate()
	if err != nil {
		utils.LogError("Ошибка при получении ключевой ставки: %v", err)
		http.Error(w, "Failed to fetch key rate", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]float64{"rate": rate})
}

// MetricsHandler возвращает снимок метрик приложения
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(utils.GetMetrics().GetMetricsSnapshot())
}
