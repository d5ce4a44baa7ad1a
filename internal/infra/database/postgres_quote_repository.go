package database

import (
	"context"
	"database/sql"
	"fmt"

	"quote_delivery_engine/internal/domain/quote"

	"github.com/lib/pq"
)

// PostgresQuoteRepository reads the quote catalog. The catalog is
// owned by the content subsystem; this engine never writes it.
type PostgresQuoteRepository struct {
	db *sql.DB
}

func NewPostgresQuoteRepository(db *sql.DB) *PostgresQuoteRepository {
	return &PostgresQuoteRepository{db: db}
}

func (r *PostgresQuoteRepository) GetByID(ctx context.Context, id string) (*quote.Quote, error) {
	query := `SELECT id, content, author, categories, is_favorite FROM quotes WHERE id = $1`
	q := &quote.Quote{}
	var categories pq.StringArray
	err := r.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.Content, &q.Author, &categories, &q.IsFavorite)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("error getting quote by ID: %w", err)
	}
	q.Categories = categories
	return q, nil
}

func (r *PostgresQuoteRepository) List(ctx context.Context) ([]*quote.Quote, error) {
	query := `SELECT id, content, author, categories, is_favorite FROM quotes ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]*quote.Quote, 0)
	for rows.Next() {
		q := &quote.Quote{}
		var categories pq.StringArray
		if err := rows.Scan(&q.ID, &q.Content, &q.Author, &categories, &q.IsFavorite); err != nil {
			return nil, fmt.Errorf("error scanning quote: %w", err)
		}
		q.Categories = categories
		quotes = append(quotes, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotes: %w", err)
	}
	return quotes, nil
}
