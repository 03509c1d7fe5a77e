package dto

import "github.com/fekuna/omnipos-inventory-service/internal/model"

type Event struct {
	OrganizationID  string
	ProductID       string
	RecipeID        string
	UserID          string
	Source          model.TriggerSource
	ExternalOrderID string
	Data            model.JSONMap
}
