// Package models contains the GORM table models. They are kept apart from
// the domain types and converted with ToDomain and FromDomain.
package models
