package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// pagination lee limit/offset de la query con defaults y techo.
func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// dateRange lee from/to de la query en formato RFC3339 o fecha simple (2006-01-02).
// Valores ausentes o mal formados se ignoran.
func dateRange(c *fiber.Ctx) (from, to *time.Time) {
	if t, ok := parseDate(c.Query("from")); ok {
		from = &t
	}
	if t, ok := parseDate(c.Query("to")); ok {
		to = &t
	}
	return from, to
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
