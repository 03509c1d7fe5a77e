package dto

import (
	"encoding/json"
	"fmt"
)

const (
	KindDirect = "direct"
	KindRecipe = "recipe"
)

// Result is either a *DirectResult or a *RecipeResult.
type Result interface {
	Kind() string
	isResult()
}

type UnitConversion struct {
	FromUnit         string  `json:"fromUnit"`
	ToUnit           string  `json:"toUnit"`
	ServingSize      float64 `json:"servingSize"`
	ConversionFactor float64 `json:"conversionFactor"`
	IsFullDepletion  bool    `json:"isFullDepletion"`
	Supported        bool    `json:"supported"`
}

type LocationAllocation struct {
	InventoryItemID string  `json:"inventoryItemId"`
	LocationID      string  `json:"locationId"`
	Consumed        float64 `json:"consumed"`
	Remaining       float64 `json:"remaining"`
}

type DirectResult struct {
	ProductID          string               `json:"productId"`
	DepletedAmount     float64              `json:"depletedAmount"`
	RemainingInventory float64              `json:"remainingInventory"`
	OverDepleted       bool                 `json:"overDepleted,omitempty"`
	UnitConversion     *UnitConversion      `json:"unitConversion,omitempty"`
	Allocations        []LocationAllocation `json:"allocations,omitempty"`
	Warnings           []string             `json:"warnings,omitempty"`
}

func (*DirectResult) Kind() string { return KindDirect }
func (*DirectResult) isResult()    {}

func (r *DirectResult) MarshalJSON() ([]byte, error) {
	type alias DirectResult
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{KindDirect, (*alias)(r)})
}

// IngredientResult is the outcome for one recipe ingredient. Ingredients
// fail independently.
type IngredientResult struct {
	ProductID string        `json:"productId"`
	Success   bool          `json:"success"`
	Result    *DirectResult `json:"result,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type RecipeResult struct {
	RecipeID    string             `json:"recipeId"`
	Ingredients []IngredientResult `json:"ingredients"`
	Warnings    []string           `json:"warnings,omitempty"`
}

func (*RecipeResult) Kind() string { return KindRecipe }
func (*RecipeResult) isResult()    {}

func (r *RecipeResult) MarshalJSON() ([]byte, error) {
	type alias RecipeResult
	return json.Marshal(struct {
		Type string `json:"type"`
		*alias
	}{KindRecipe, (*alias)(r)})
}

// Failed counts ingredients that were not depleted.
func (r *RecipeResult) Failed() int {
	n := 0
	for _, ing := range r.Ingredients {
		if !ing.Success {
			n++
		}
	}
	return n
}

// InsufficientInventoryError is returned when stock is short and the active
// policy forbids negative quantities. No row is modified.
type InsufficientInventoryError struct {
	ProductID string
	Required  float64
	Available float64
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %s: required %g, available %g", e.ProductID, e.Required, e.Available)
}
