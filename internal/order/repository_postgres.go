package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, o *Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, table_no, status, total, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, o.ID, o.TableNo, o.Status, o.Total, o.CreatedAt)
	if err != nil {
		return err
	}

	for i := range o.Lines {
		line := &o.Lines[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO order_lines (order_id, item_code, item_name, quantity, unit_price, note)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, o.ID, line.ItemCode, line.ItemName, line.Quantity, line.UnitPrice, line.Note).Scan(&line.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRow(ctx, `
		SELECT id, table_no, status, total, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.TableNo, &o.Status, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, item_code, item_name, quantity, unit_price, note
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.ItemCode, &line.ItemName,
			&line.Quantity, &line.UnitPrice, &line.Note); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	return o, rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, status OrderStatus) ([]Order, error) {
	query := `
		SELECT id, table_no, status, total, created_at
		FROM orders
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.TableNo, &o.Status, &o.Total, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}
