package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
)

const dateLayout = "2006-01-02"

func parsePage(q url.Values) (models.Page, error) {
	page := models.Page{Page: 1, Limit: 20}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return models.Page{}, fmt.Errorf("invalid page %q", raw)
		}
		page.Page = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return models.Page{}, fmt.Errorf("invalid limit %q", raw)
		}
		page.Limit = n
	}
	return page, nil
}

func parseDateParam(q url.Values, key string) (*time.Time, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD", key, raw)
	}
	return &t, nil
}

func parseUUIDParam(q url.Values, key string) (*uuid.UUID, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &id, nil
}

func parseAmountParam(q url.Values, key string) (*decimal.Decimal, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &d, nil
}

func parseTypeParam(q url.Values) (*models.TransactionType, error) {
	raw := q.Get("type")
	if raw == "" {
		return nil, nil
	}
	t := models.TransactionType(raw)
	if !t.Valid() {
		return nil, fmt.Errorf("invalid type %q", raw)
	}
	return &t, nil
}
