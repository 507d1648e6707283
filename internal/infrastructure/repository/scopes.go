package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnerScope returns a GORM scope that filters by owning user.
// A nil userID leaves the query unfiltered (admin listings).
func OwnerScope(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == uuid.Nil {
			return db
		}
		return db.Where("user_id = ?", userID)
	}
}

// SearchScope matches term case-insensitively against any of the columns.
// LOWER/LIKE keeps the query portable between postgres and sqlite.
func SearchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}
