// Package repository provides the gorm-backed implementation of the storage
// contracts declared in the service package, plus an in-memory variant used
// by tests and local development.
package repository

import "gorm.io/gorm"

// Repository implements every service storage contract on top of gorm.
type Repository struct {
	db *gorm.DB
}

// New builds a Repository.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}
