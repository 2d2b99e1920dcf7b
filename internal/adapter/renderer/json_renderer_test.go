package renderer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhidalgo/tenderledger/internal/domain"
)

func TestJSONRendererRender(t *testing.T) {
	r := NewJSONRenderer()

	fields := domain.CertificateFields{
		TenderID:      "123-1-LE24",
		TenderName:    "Mantenimiento de redes",
		OrderID:       "4587-OC25",
		Supplier:      "Redes del Sur SpA",
		OperationType: "recepcion conforme",
		TotalBudget:   decimal.NewFromInt(1_000_000),
		BalanceBefore: decimal.NewFromInt(1_000_000),
		Amount:        decimal.NewFromInt(300_000),
		BalanceAfter:  decimal.NewFromInt(700_000),
		EndDate:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		GeneratedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		IssuerName:    "Maria Hidalgo",
		IssuerRole:    "Jefa de Proyecto",
	}

	payload, contentType, err := r.Render(context.Background(), fields)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(payload, &doc))

	assert.Equal(t, "123-1-LE24", doc["tender_id"])
	assert.Equal(t, "4587-OC25", doc["order_id"])
	assert.Equal(t, "700000", doc["balance_after"])
	assert.Equal(t, "2025-01-15", doc["end_date"])
	assert.NotContains(t, doc, "start_date")
	assert.NotContains(t, doc, "notes")
}
