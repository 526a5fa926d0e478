package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrItemNotFound = errors.New("menu item not found")

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// --------------------------------------------------
// Categories
// --------------------------------------------------
func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, sort_order
		FROM categories
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) SaveCategory(ctx context.Context, cat *Category) error {
	if cat.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO categories (name, sort_order)
			VALUES ($1, $2)
			RETURNING id
		`, cat.Name, cat.SortOrder).Scan(&cat.ID)
	}
	_, err := r.db.Exec(ctx, `
		UPDATE categories
		SET name = $1, sort_order = $2
		WHERE id = $3
	`, cat.Name, cat.SortOrder, cat.ID)
	return err
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

// --------------------------------------------------
// Menu items
// --------------------------------------------------
const itemColumns = `
	id, code, name, description, price, category_id, available,
	image_square_key, image_wide_key
`

func scanItem(row pgx.Row) (*MenuItem, error) {
	item := &MenuItem{}
	var description *string
	err := row.Scan(
		&item.ID, &item.Code, &item.Name, &description, &item.Price,
		&item.CategoryID, &item.Available,
		&item.ImageSquareKey, &item.ImageWideKey,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		item.Description = *description
	}
	return item, nil
}

func (r *PostgresRepository) ListItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+itemColumns+`
		FROM menu_items
		ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MenuItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) FindItemByCode(ctx context.Context, code string) (*MenuItem, error) {
	item, err := scanItem(r.db.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM menu_items
		WHERE code = $1
	`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *PostgresRepository) SaveItem(ctx context.Context, item *MenuItem) error {
	if item.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO menu_items (code, name, description, price, category_id, available)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, item.Code, item.Name, item.Description, item.Price,
			item.CategoryID, item.Available).Scan(&item.ID)
	}
	_, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET code = $1, name = $2, description = $3, price = $4,
		    category_id = $5, available = $6
		WHERE id = $7
	`, item.Code, item.Name, item.Description, item.Price,
		item.CategoryID, item.Available, item.ID)
	return err
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, code string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE code = $1`, code)
	return err
}

func (r *PostgresRepository) UpdateItemImages(
	ctx context.Context,
	code string,
	squareKey, wideKey string,
) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET image_square_key = $1, image_wide_key = $2
		WHERE code = $3
	`, squareKey, wideKey, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// --------------------------------------------------
// Option groups
// --------------------------------------------------
func (r *PostgresRepository) ListOptionGroups(ctx context.Context, itemCode string) ([]OptionGroup, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item_code, name, min_select, max_select
		FROM option_groups
		WHERE item_code = $1
		ORDER BY id
	`, itemCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []OptionGroup
	for rows.Next() {
		var g OptionGroup
		if err := rows.Scan(&g.ID, &g.ItemCode, &g.Name, &g.MinSelect, &g.MaxSelect); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		optRows, err := r.db.Query(ctx, `
			SELECT id, group_id, name, price_delta
			FROM options
			WHERE group_id = $1
			ORDER BY id
		`, groups[i].ID)
		if err != nil {
			return nil, err
		}
		for optRows.Next() {
			var o Option
			if err := optRows.Scan(&o.ID, &o.GroupID, &o.Name, &o.PriceDelta); err != nil {
				optRows.Close()
				return nil, err
			}
			groups[i].Options = append(groups[i].Options, o)
		}
		optRows.Close()
		if err := optRows.Err(); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (r *PostgresRepository) SaveOptionGroup(ctx context.Context, group *OptionGroup) error {
	if group.ID == 0 {
		if err := r.db.QueryRow(ctx, `
			INSERT INTO option_groups (item_code, name, min_select, max_select)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, group.ItemCode, group.Name, group.MinSelect, group.MaxSelect).Scan(&group.ID); err != nil {
			return err
		}
	} else {
		if _, err := r.db.Exec(ctx, `
			UPDATE option_groups
			SET name = $1, min_select = $2, max_select = $3
			WHERE id = $4
		`, group.Name, group.MinSelect, group.MaxSelect, group.ID); err != nil {
			return err
		}
		if _, err := r.db.Exec(ctx, `
			DELETE FROM options WHERE group_id = $1
		`, group.ID); err != nil {
			return err
		}
	}

	for i := range group.Options {
		opt := &group.Options[i]
		opt.GroupID = group.ID
		if err := r.db.QueryRow(ctx, `
			INSERT INTO options (group_id, name, price_delta)
			VALUES ($1, $2, $3)
			RETURNING id
		`, opt.GroupID, opt.Name, opt.PriceDelta).Scan(&opt.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) DeleteOptionGroup(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM option_groups WHERE id = $1`, id)
	return err
}
