package persistence

import (
	"testing"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE bills;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", "created_at", "created_at"},
		{"valid field returns field", "total_amount", "created_at", "total_amount"},
		{"invalid field returns default", "customer_id", "created_at", "created_at"},
		{"sql injection attempt returns default", "status; DROP TABLE bills;--", "created_at", "created_at"},
		{"case sensitive", "STATUS", "created_at", "created_at"},
		{"whitespace around valid field returns field", "  status  ", "created_at", "status"},
		{"empty default with invalid field", "invalid", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, BillSortFields, tt.defaultField))
		})
	}
}

func TestOrderClause(t *testing.T) {
	const fallback = "billing_period DESC, created_at DESC"

	tests := []struct {
		name     string
		filter   shared.Filter
		expected string
	}{
		{"no ordering keeps fallback", shared.Filter{}, fallback},
		{"unknown column keeps fallback", shared.Filter{OrderBy: "password"}, fallback},
		{"column with default direction", shared.Filter{OrderBy: "consumption"}, "consumption DESC, created_at DESC"},
		{"column ascending", shared.Filter{OrderBy: "consumption", OrderDir: "asc"}, "consumption ASC, created_at DESC"},
		{"created_at has no tie breaker", shared.Filter{OrderBy: "created_at", OrderDir: "ASC"}, "created_at ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderClause(tt.filter, ConsumptionSortFields, fallback))
		})
	}
}
