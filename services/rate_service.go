package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"creditProposals/config"

	"github.com/beevik/etree"
)

// RateService запрашивает ключевую ставку центрального банка.
// Ставка используется только как справочная информация и не влияет
// на расчет платежей по заявке.
type RateService struct {
	url    string
	client *http.Client
}

// NewRateService создает новый экземпляр RateService
func NewRateService(cfg *config.Config) *RateService {
	return &RateService{
		url: cfg.CentralBank.URL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetKeyRate возвращает текущую ключевую ставку
func (s *RateService) GetKeyRate() (float64, error) {
	// Формируем SOAP-запрос за последние 30 дней
	body := buildKeyRateRequest(time.Now())

	req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("ошибка создания запроса: %v", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/KeyRate")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ошибка запроса к сервису центрального банка: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("сервис центрального банка вернул статус %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения ответа: %v", err)
	}

	return parseKeyRateResponse(data)
}

// buildKeyRateRequest формирует SOAP-конверт запроса KeyRate
func buildKeyRateRequest(now time.Time) []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	envelope := doc.CreateElement("soap:Envelope")
	envelope.CreateAttr("xmlns:soap", "http://schemas.xmlsoap.org/soap/envelope/")

	keyRate := envelope.CreateElement("soap:Body").CreateElement("KeyRate")
	keyRate.CreateAttr("xmlns", "http://web.cbr.ru/")
	keyRate.CreateElement("fromDate").SetText(now.AddDate(0, 0, -30).Format("2006-01-02"))
	keyRate.CreateElement("ToDate").SetText(now.Format("2006-01-02"))

	raw, _ := doc.WriteToBytes()
	return raw
}

// parseKeyRateResponse извлекает последнюю ставку из ответа сервиса
func parseKeyRateResponse(data []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return 0, fmt.Errorf("ошибка разбора ответа: %v", err)
	}

	// Записи отсортированы от новых к старым, берем первую
	rates := doc.FindElements("//KR/Rate")
	if len(rates) == 0 {
		return 0, errors.New("ставка не найдена в ответе сервиса")
	}

	text := strings.ReplaceAll(strings.TrimSpace(rates[0].Text()), ",", ".")
	rate, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("неверный формат ставки %q: %v", text, err)
	}

	return rate, nil
}
