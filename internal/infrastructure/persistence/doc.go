// Package persistence stores key pairs with GORM on SQLite or PostgreSQL.
package persistence
