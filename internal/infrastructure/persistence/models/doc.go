// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: shared ID, timestamp and version columns
// - identity.go: users
// - stock.go: stock items
// - plan.go: plan, need entries, overflow and store requests, issue records
//
// The schema itself is owned by the SQL migrations; the gorm tags here only
// describe column types for reads and writes.
package models
