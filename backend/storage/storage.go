// Package storage is the single source of truth for reads and writes
// against the relational store. Controllers never touch gorm directly;
// they call Store methods and map the sentinel errors onto HTTP codes.
package storage

import "gorm.io/gorm"

type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}
