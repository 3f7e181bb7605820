package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type messageRepoPG struct{ pool *pgxpool.Pool }

func NewMessageRepoPG(pool *pgxpool.Pool) MessageRepository {
	return &messageRepoPG{pool: pool}
}

const messageCols = `id, name, email, subject, message, status, created_at, updated_at`

func (r *messageRepoPG) scanRow(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message,
		&m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *messageRepoPG) Create(ctx context.Context, m *Message) error {
	m.ID = uuid.New()
	m.Status = StatusNew
	return r.pool.QueryRow(ctx, `
		INSERT INTO contact_message (id, name, email, subject, message, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.Status,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *messageRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	return r.scanRow(r.pool.QueryRow(ctx,
		`SELECT `+messageCols+` FROM contact_message WHERE id = $1`, id))
}

func (r *messageRepoPG) List(ctx context.Context, limit, offset int) ([]*Message, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_message`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+messageCols+` FROM contact_message ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Message
	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *messageRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Message, error) {
	return r.scanRow(r.pool.QueryRow(ctx, `
		UPDATE contact_message SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+messageCols, id, status))
}

func (r *messageRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_message WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
