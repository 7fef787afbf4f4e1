package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDrink = errors.New("domain: invalid drink")

// Ingredient is one layer of a drink's recipe.
type Ingredient struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// Recipe is an ordered list of ingredients. It decodes from either a list
// or a single ingredient object.
type Recipe []Ingredient

func (r *Recipe) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var one Ingredient
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*r = Recipe{one}
		return nil
	}
	var many []Ingredient
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*r = many
	return nil
}

type Drink struct {
	ID        int64
	Title     string
	Recipe    Recipe
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the drink is fit to be stored.
func (d Drink) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidDrink)
	}
	if len(d.Title) > 80 {
		return fmt.Errorf("%w: title must be at most 80 characters", ErrInvalidDrink)
	}
	if len(d.Recipe) == 0 {
		return fmt.Errorf("%w: recipe is required", ErrInvalidDrink)
	}
	for i, in := range d.Recipe {
		if strings.TrimSpace(in.Name) == "" {
			return fmt.Errorf("%w: recipe[%d].name is required", ErrInvalidDrink, i)
		}
		if strings.TrimSpace(in.Color) == "" {
			return fmt.Errorf("%w: recipe[%d].color is required", ErrInvalidDrink, i)
		}
		if in.Parts < 1 {
			return fmt.Errorf("%w: recipe[%d].parts must be positive", ErrInvalidDrink, i)
		}
	}
	return nil
}

// ShortIngredient is the public view of an ingredient: how the drink looks,
// not what goes into it.
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

type ShortDrink struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

type LongDrink struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

// Short is the representation served to anonymous callers. Ingredient
// names are left out.
func (d Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, len(d.Recipe))
	for i, in := range d.Recipe {
		recipe[i] = ShortIngredient{Color: in.Color, Parts: in.Parts}
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long is the full representation, recipe included.
func (d Drink) Long() LongDrink {
	recipe := make([]Ingredient, len(d.Recipe))
	copy(recipe, d.Recipe)
	return LongDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}
