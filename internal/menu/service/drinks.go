package service

import (
	"context"
	"log/slog"

	"github.com/aizuanjeme/coffeShop/internal/menu/domain"
	"github.com/aizuanjeme/coffeShop/internal/menu/store"
)

// DrinkService owns the menu. Callers authorize before calling it.
type DrinkService struct {
	Store store.Store
}

// List returns the whole menu in id order.
func (s *DrinkService) List(ctx context.Context) ([]domain.Drink, error) {
	return s.Store.Drinks().ListDrinks(ctx)
}

// Create validates and stores a new drink.
func (s *DrinkService) Create(ctx context.Context, d domain.Drink) (domain.Drink, error) {
	if err := d.Validate(); err != nil {
		return domain.Drink{}, err
	}
	return s.Store.Drinks().CreateDrink(ctx, d)
}

// Update replaces the title and recipe of drink id. A missing drink is
// reported before an invalid payload.
func (s *DrinkService) Update(ctx context.Context, id int64, d domain.Drink) (domain.Drink, error) {
	var updated domain.Drink
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Drinks().GetDrinkByID(ctx, id); err != nil {
			return err
		}
		if err := d.Validate(); err != nil {
			return err
		}

		d.ID = id
		var err error
		updated, err = tx.Drinks().UpdateDrink(ctx, d)
		return err
	})
	if err != nil {
		return domain.Drink{}, err
	}
	return updated, nil
}

// Delete removes drink id.
func (s *DrinkService) Delete(ctx context.Context, id int64) error {
	return s.Store.Drinks().DeleteDrink(ctx, id)
}

// SeedIfEmpty puts a sample drink on an empty menu so the frontend has
// something to render on first start.
func (s *DrinkService) SeedIfEmpty(ctx context.Context, logger *slog.Logger) error {
	empty, err := s.Store.Drinks().IsEmpty(ctx)
	if err != nil || !empty {
		return err
	}

	d, err := s.Create(ctx, domain.Drink{
		Title:  "water",
		Recipe: domain.Recipe{{Name: "water", Color: "blue", Parts: 1}},
	})
	if err != nil {
		return err
	}
	logger.Info("seeded empty menu", "drink_id", d.ID, "title", d.Title)
	return nil
}
