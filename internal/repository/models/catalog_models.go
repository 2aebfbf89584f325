package models

import "time"

type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name" validate:"required"`
	Unit         string   `json:"unit" validate:"required"`
	Category     string   `json:"category,omitempty"`
	PricePerUnit float64  `json:"pricePerUnit" validate:"min=0"`
	Allergens    []string `json:"allergens,omitempty"`
}

type Ingredient struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
}

// Recipe quantities are expressed for Servings diners.
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" validate:"required"`
	Servings    int          `json:"servings" validate:"min=1"`
	Ingredients []Ingredient `json:"ingredients" validate:"dive"`
	Steps       []string     `json:"steps,omitempty"`
}

type Menu struct {
	ID        string   `json:"id"`
	Name      string   `json:"name" validate:"required"`
	Pax       int      `json:"pax" validate:"min=1"`
	RecipeIDs []string `json:"recipeIds" validate:"min=1"`
}

type OrderLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	Cost      float64 `json:"cost"`
}

type Order struct {
	ID        string      `json:"id"`
	MenuID    string      `json:"menuId"`
	Pax       int         `json:"pax"`
	CreatedAt time.Time   `json:"createdAt"`
	Lines     []OrderLine `json:"lines"`
	Total     float64     `json:"total"`
}
