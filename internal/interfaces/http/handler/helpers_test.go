package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/approval"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/consumption"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/tariff"
	"github.com/AcmeAI-Git/water-tariff-backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newTestEngine builds an engine with the request ID and actor middleware
// the production router installs in front of every handler
func newTestEngine(systemUser uuid.UUID) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Actor(systemUser))
	return engine
}

func performRequest(engine http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// residentialPlan has slabs 0-10 @ 1.50 and 10+ @ 2.00
func residentialPlan(t *testing.T) *tariff.TariffPlan {
	t.Helper()
	plan, err := tariff.NewTariffPlan(
		"Residential", "",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil,
		uuid.New(),
		[]tariff.TariffSlab{
			tariff.NewTariffSlab(1, dec("0"), decPtr("10"), dec("1.50")),
			tariff.NewTariffSlab(2, dec("10"), nil, dec("2.00")),
		},
	)
	require.NoError(t, err)
	plan.ClearDomainEvents()
	return plan
}

// approvedRecord has a usage of 50 units for March 2025
func approvedRecord(t *testing.T) *consumption.ConsumptionRecord {
	t.Helper()
	record, err := consumption.NewConsumptionRecord(
		uuid.New(),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		dec("150"), dec("100"),
		uuid.New(),
	)
	require.NoError(t, err)
	require.NoError(t, approval.Review(record, approval.StateApproved, uuid.New(), "", time.Now()))
	record.ClearDomainEvents()
	return record
}
