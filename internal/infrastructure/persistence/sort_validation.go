package persistence

import (
	"strings"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// TariffPlanSortFields contains allowed sort fields for tariff plans
var TariffPlanSortFields = map[string]bool{
	"name":           true,
	"effective_from": true,
	"created_at":     true,
	"updated_at":     true,
}

// ConsumptionSortFields contains allowed sort fields for consumption records
var ConsumptionSortFields = map[string]bool{
	"billing_period": true,
	"consumption":    true,
	"created_at":     true,
}

// BillSortFields contains allowed sort fields for bills
var BillSortFields = map[string]bool{
	"billing_period": true,
	"total_amount":   true,
	"status":         true,
	"created_at":     true,
}

// orderClause builds the ORDER BY clause of a list query. An empty or
// unknown OrderBy keeps the fallback ordering. created_at breaks ties so
// pages stay stable.
func orderClause(filter shared.Filter, allowed map[string]bool, fallback string) string {
	field := ValidateSortField(filter.OrderBy, allowed, "")
	if field == "" {
		return fallback
	}
	clause := field + " " + ValidateSortOrder(filter.OrderDir)
	if field != "created_at" {
		clause += ", created_at DESC"
	}
	return clause
}
