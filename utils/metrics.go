package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики заявок
	ProposalsCreated int64
	InstallmentsPaid int64
	ProposalsSettled int64
	LastProposalTime time.Time

	// Метрики ошибок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			ErrorTypes: make(map[string]int64),
		}
	})
	return metrics
}

// RecordRequest записывает метрики запроса
func (m *Metrics) RecordRequest(duration time.Duration, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if statusCode >= 500 {
		m.FailedRequests++
	}
}

// RecordProposalCreated записывает создание заявки
func (m *Metrics) RecordProposalCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProposalsCreated++
	m.LastProposalTime = time.Now()
}

// RecordInstallmentPaid записывает оплату платежа
func (m *Metrics) RecordInstallmentPaid(settled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InstallmentsPaid++
	if settled {
		m.ProposalsSettled++
	}
	m.LastProposalTime = time.Now()
}

// RecordError записывает метрики ошибки
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ErrorCount++
	m.LastErrorTime = time.Now()

	errorType := "unknown"
	if err != nil {
		errorType = err.Error()
	}
	m.ErrorTypes[errorType]++
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorTypes := make(map[string]int64, len(m.ErrorTypes))
	for k, v := range m.ErrorTypes {
		errorTypes[k] = v
	}

	return map[string]interface{}{
		"total_requests":    m.TotalRequests,
		"failed_requests":   m.FailedRequests,
		"average_latency":   m.AverageLatency.String(),
		"proposals_created": m.ProposalsCreated,
		"installments_paid": m.InstallmentsPaid,
		"proposals_settled": m.ProposalsSettled,
		"error_count":       m.ErrorCount,
		"error_types":       errorTypes,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.ProposalsCreated = 0
	m.InstallmentsPaid = 0
	m.ProposalsSettled = 0
	m.ErrorCount = 0
	m.ErrorTypes = make(map[string]int64)
}
