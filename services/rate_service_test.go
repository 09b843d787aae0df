package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keyRateResponse = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <KeyRateResponse xmlns="http://web.cbr.ru/">
      <KeyRateResult>
        <diffgram>
          <KeyRate>
            <KR>
              <DT>2025-08-12T00:00:00+03:00</DT>
              <Rate>18.00</Rate>
            </KR>
            <KR>
              <DT>2025-07-28T00:00:00+03:00</DT>
              <Rate>20.00</Rate>
            </KR>
          </KeyRate>
        </diffgram>
      </KeyRateResult>
    </KeyRateResponse>
  </soap:Body>
</soap:Envelope>`

func TestParseKeyRateResponse(t *testing.T) {
	rate, err := parseKeyRateResponse([]byte(keyRateResponse))
	require.NoError(t, err)
	assert.Equal(t, 18.00, rate)
}

func TestParseKeyRateResponseComma(t *testing.T) {
	// Некоторые ответы используют запятую в качестве разделителя
	data := strings.Replace(keyRateResponse, "18.00", "18,00", 1)
	rate, err := parseKeyRateResponse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 18.00, rate)
}

func TestParseKeyRateResponseEmpty(t *testing.T) {
	_, err := parseKeyRateResponse([]byte(`<?xml version="1.0"?><Envelope></Envelope>`))
	require.Error(t, err)
}

func TestBuildKeyRateRequest(t *testing.T) {
	now := time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC)
	body := string(buildKeyRateRequest(now))

	assert.Contains(t, body, "<KeyRate")
	assert.Contains(t, body, "<fromDate>2025-07-13</fromDate>")
	assert.Contains(t, body, "<ToDate>2025-08-12</ToDate>")
}
