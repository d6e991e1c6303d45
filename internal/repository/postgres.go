package repository

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// executor обобщает *sql.DB и *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txKey struct{}

func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

type PostgresRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPostgresRepository(db *sql.DB, logger zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

// conn возвращает транзакцию из контекста, если операция выполняется
// внутри WithinTx, иначе пул соединений.
func (r *PostgresRepository) conn(ctx context.Context) executor {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return r.db
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Transactor исполняет функцию внутри одной транзакции БД.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TxManager struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTxManager(db *sql.DB, logger zerolog.Logger) *TxManager {
	return &TxManager{
		db:     db,
		logger: logger,
	}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			m.logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// advisoryLockKey строит детерминированный ключ advisory-блокировки для договора.
// Один и тот же договор всегда конкурирует за один и тот же ключ.
func advisoryLockKey(contractID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(contractID))
	return int64(h.Sum64())
}
