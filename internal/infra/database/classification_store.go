package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

// ClassificationStore serializes classifier writes per phone with a transaction-scoped
// advisory lock. Two events for different phones never wait on each other.
type ClassificationStore struct {
	DB *sql.DB
}

func NewClassificationStore(db *sql.DB) *ClassificationStore {
	return &ClassificationStore{DB: db}
}

func (s *ClassificationStore) WithinPhoneLock(ctx context.Context, phone string, fn func(ctx context.Context, clients entity.ClientRepositoryInterface, sales entity.SaleRepositoryInterface) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// Released automatically on commit or rollback.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, phone); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	if err := fn(ctx, NewClientRepository(tx), NewSaleRepository(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
