package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"fintrack-server/src/models"
	"fintrack-server/src/services"
)

// Amounts cross the pgx boundary as text so NUMERIC values never pass
// through binary floating point.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// mapConstraintError converts unique and exclusion violations into domain
// conflicts. The database constraints are the authoritative guard for the
// invariants the services pre-check in memory.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return services.ConflictError("record already exists")
		case "23P01": // exclusion_violation
			return services.ConflictError("a budget already exists for this category in the specified period")
		}
	}
	return err
}

// orderByClause renders a validated sort against an explicit field->column
// map. Unknown fields never reach here; callers validate against the
// allow-list first, so a miss indicates a programming error.
func orderByClause(sort models.Sort, columns map[string]string) (string, error) {
	column, ok := columns[sort.Field]
	if !ok {
		return "", fmt.Errorf("unsortable field %q", sort.Field)
	}
	dir := "ASC"
	if sort.Direction == models.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, dir), nil
}

// limitOffsetClause renders pagination; a non-positive limit means unpaged.
func limitOffsetClause(page models.Page) string {
	if page.Limit <= 0 {
		return ""
	}
	return fmt.Sprintf("LIMIT %d OFFSET %d", page.Limit, page.Offset())
}
