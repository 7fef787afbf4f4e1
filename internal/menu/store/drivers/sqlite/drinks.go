package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aizuanjeme/coffeShop/internal/menu/domain"
	"github.com/aizuanjeme/coffeShop/internal/menu/store"
)

type drinksRepo struct {
	q   *queries
	now func() time.Time
}

func (r *drinksRepo) ListDrinks(ctx context.Context) ([]domain.Drink, error) {
	rows, err := r.q.ListDrinks(ctx)
	if err != nil {
		return nil, err
	}

	drinks := make([]domain.Drink, 0, len(rows))
	for _, row := range rows {
		d, err := mapDrink(row)
		if err != nil {
			return nil, err
		}
		drinks = append(drinks, d)
	}
	return drinks, nil
}

func (r *drinksRepo) GetDrinkByID(ctx context.Context, id int64) (domain.Drink, error) {
	row, err := r.q.GetDrinkByID(ctx, id)
	if err != nil {
		return domain.Drink{}, mapNotFound(err)
	}
	return mapDrink(row)
}

func (r *drinksRepo) CreateDrink(ctx context.Context, d domain.Drink) (domain.Drink, error) {
	recipe, err := json.Marshal(d.Recipe)
	if err != nil {
		return domain.Drink{}, err
	}
	row, err := r.q.CreateDrink(ctx, createDrinkParams{
		Title:     d.Title,
		Recipe:    string(recipe),
		CreatedAt: r.now().UnixMilli(),
	})
	if err != nil {
		return domain.Drink{}, mapConstraint(err)
	}
	return mapDrink(row)
}

func (r *drinksRepo) UpdateDrink(ctx context.Context, d domain.Drink) (domain.Drink, error) {
	recipe, err := json.Marshal(d.Recipe)
	if err != nil {
		return domain.Drink{}, err
	}
	row, err := r.q.UpdateDrink(ctx, updateDrinkParams{
		ID:        d.ID,
		Title:     d.Title,
		Recipe:    string(recipe),
		UpdatedAt: r.now().UnixMilli(),
	})
	if err != nil {
		return domain.Drink{}, mapConstraint(mapNotFound(err))
	}
	return mapDrink(row)
}

func (r *drinksRepo) DeleteDrink(ctx context.Context, id int64) error {
	n, err := r.q.DeleteDrink(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *drinksRepo) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.q.CountDrinks(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func mapDrink(row drinkRow) (domain.Drink, error) {
	var recipe domain.Recipe
	if err := json.Unmarshal([]byte(row.Recipe), &recipe); err != nil {
		return domain.Drink{}, fmt.Errorf("sqlite: drink %d has an unreadable recipe: %w", row.ID, err)
	}
	return domain.Drink{
		ID:        row.ID,
		Title:     row.Title,
		Recipe:    recipe,
		CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
		UpdatedAt: time.UnixMilli(row.UpdatedAt).UTC(),
	}, nil
}
