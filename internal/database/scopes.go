package database

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ContainsFold matches rows whose column contains value, ignoring case.
func ContainsFold(column, value string) func(db *gorm.DB) *gorm.DB {
	pattern := "%" + strings.ToLower(value) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER("+column+") LIKE ?", pattern)
	}
}

// OnDay matches rows whose column falls on the same UTC calendar day as t.
func OnDay(column string, t time.Time) func(db *gorm.DB) *gorm.DB {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?", start, end)
	}
}
