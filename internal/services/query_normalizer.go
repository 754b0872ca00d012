package services

import (
	"math"
	"strconv"
	"strings"

	"plantshop/internal/apperrors"
	"plantshop/internal/models"
)

// NormalizeProductQuery turns raw list-endpoint query parameters into a
// ProductQuery. Every invalid parameter is reported in one ValidationError.
//
// Unrecognized sort values are accepted and produce the default
// newest-first ordering.
func NormalizeProductQuery(raw map[string]string) (models.ProductQuery, error) {
	q := models.ProductQuery{
		Search:   strings.TrimSpace(raw["search"]),
		Category: strings.TrimSpace(raw["category"]),
		Sort:     models.SortField(strings.TrimSpace(raw["sort"])),
		Order:    models.OrderAsc,
		Page:     models.DefaultPage,
		Limit:    models.DefaultLimit,
	}
	if q.Category == "all" {
		q.Category = ""
	}

	verr := apperrors.NewValidationError()

	switch order := strings.TrimSpace(raw["order"]); order {
	case "":
	case string(models.OrderAsc), string(models.OrderDesc):
		q.Order = models.SortOrder(order)
	default:
		verr.Add("order", "must be one of asc, desc")
	}

	if page, ok := parsePositiveInt(raw["page"], "page", verr); ok {
		q.Page = page
	}
	if limit, ok := parsePositiveInt(raw["limit"], "limit", verr); ok {
		q.Limit = limit
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		verr.Add("page", "is too large for the requested limit")
	}

	if verr.HasErrors() {
		return models.ProductQuery{}, verr
	}
	return q, nil
}

// parsePositiveInt reports ok=false when the value is absent or invalid;
// invalid values are recorded on verr.
func parsePositiveInt(value, field string, verr *apperrors.ValidationError) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		verr.Add(field, "must be an integer")
		return 0, false
	}
	if n < 1 {
		verr.Add(field, "must be greater than or equal to 1")
		return 0, false
	}
	return n, true
}
