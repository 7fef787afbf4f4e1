package sqlite

import (
	"context"
	"database/sql"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so the same queries run
// inside or outside a transaction.
type dbtx interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type queries struct {
	db dbtx
}

func newQueries(db dbtx) *queries {
	return &queries{db: db}
}

type drinkRow struct {
	ID        int64
	Title     string
	Recipe    string
	CreatedAt int64
	UpdatedAt int64
}

const drinkColumns = `id, title, recipe, created_at, updated_at`

func scanDrink(s interface{ Scan(...any) error }) (drinkRow, error) {
	var r drinkRow
	err := s.Scan(&r.ID, &r.Title, &r.Recipe, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const listDrinks = `SELECT ` + drinkColumns + ` FROM drinks ORDER BY id`

func (q *queries) ListDrinks(ctx context.Context) ([]drinkRow, error) {
	rows, err := q.db.QueryContext(ctx, listDrinks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []drinkRow
	for rows.Next() {
		r, err := scanDrink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const getDrinkByID = `SELECT ` + drinkColumns + ` FROM drinks WHERE id = ?`

func (q *queries) GetDrinkByID(ctx context.Context, id int64) (drinkRow, error) {
	return scanDrink(q.db.QueryRowContext(ctx, getDrinkByID, id))
}

const createDrink = `INSERT INTO drinks (title, recipe, created_at, updated_at)
VALUES (?, ?, ?, ?)
RETURNING ` + drinkColumns

type createDrinkParams struct {
	Title     string
	Recipe    string
	CreatedAt int64
}

func (q *queries) CreateDrink(ctx context.Context, p createDrinkParams) (drinkRow, error) {
	return scanDrink(q.db.QueryRowContext(ctx, createDrink, p.Title, p.Recipe, p.CreatedAt, p.CreatedAt))
}

const updateDrink = `UPDATE drinks SET title = ?, recipe = ?, updated_at = ?
WHERE id = ?
RETURNING ` + drinkColumns

type updateDrinkParams struct {
	ID        int64
	Title     string
	Recipe    string
	UpdatedAt int64
}

func (q *queries) UpdateDrink(ctx context.Context, p updateDrinkParams) (drinkRow, error) {
	return scanDrink(q.db.QueryRowContext(ctx, updateDrink, p.Title, p.Recipe, p.UpdatedAt, p.ID))
}

const deleteDrink = `DELETE FROM drinks WHERE id = ?`

func (q *queries) DeleteDrink(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteDrink, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countDrinks = `SELECT COUNT(*) FROM drinks`

func (q *queries) CountDrinks(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countDrinks).Scan(&n)
	return n, err
}
