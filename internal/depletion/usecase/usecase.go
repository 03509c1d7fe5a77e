package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	auditdto "github.com/fekuna/omnipos-inventory-service/internal/audit/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/depletion"
	"github.com/fekuna/omnipos-inventory-service/internal/depletion/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/mapping"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/product"
	"github.com/fekuna/omnipos-inventory-service/internal/settings"
	"github.com/fekuna/omnipos-inventory-service/internal/unitconv"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type depletionUseCase struct {
	mappingUC     mapping.UseCase
	productRepo   product.Repository
	inventoryRepo inventory.Repository
	settingsUC    settings.UseCase
	auditUC       audit.UseCase
	metrics       *metrics.Metrics
	logger        logger.ZapLogger
}

func NewDepletionUseCase(
	mappingUC mapping.UseCase,
	productRepo product.Repository,
	inventoryRepo inventory.Repository,
	settingsUC settings.UseCase,
	auditUC audit.UseCase,
	m *metrics.Metrics,
	log logger.ZapLogger,
) depletion.UseCase {
	return &depletionUseCase{
		mappingUC:     mappingUC,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		settingsUC:    settingsUC,
		auditUC:       auditUC,
		metrics:       m,
		logger:        log,
	}
}

func (uc *depletionUseCase) DepleteForSaleItem(ctx context.Context, input *dto.SaleItemInput) (dto.Result, error) {
	res, err := uc.mappingUC.Resolve(ctx, mapping.Key{
		OrganizationID:    input.OrganizationID,
		IntegrationID:     input.IntegrationID,
		ExternalProductID: input.ExternalProductID,
		Name:              input.Name,
	})
	if err != nil {
		var unresolved *mapping.UnresolvedMappingError
		if errors.As(err, &unresolved) {
			uc.metrics.ObserveDepletion(string(input.Source), "unknown", "unresolved")
		}
		return nil, err
	}
	return uc.DepleteResolved(ctx, res, input)
}

func (uc *depletionUseCase) DepleteResolved(ctx context.Context, res *model.Resolution, input *dto.SaleItemInput) (dto.Result, error) {
	if input.QuantitySold <= 0 {
		return nil, apperror.ErrValidation("quantity sold must be positive")
	}

	policy, err := uc.settingsUC.GetPolicyForSource(ctx, input.OrganizationID, input.Source)
	if err != nil {
		return nil, err
	}

	if res.IsRecipe() {
		result, err := uc.depleteRecipe(ctx, res, input, policy)
		uc.metrics.ObserveDepletion(string(input.Source), dto.KindRecipe, outcome(err))
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	if res.ProductMapping == nil {
		return nil, &mapping.UnresolvedMappingError{ExternalProductID: input.ExternalProductID}
	}

	p, err := uc.loadProduct(ctx, input.OrganizationID, res.ProductMapping.ProductID)
	if err != nil {
		return nil, err
	}

	servingUnit, servingSize := res.ServingSpec()
	d := uc.requiredAmount(p, servingUnit, servingSize, input.QuantitySold)
	result, err := uc.depleteProduct(ctx, p, d, input, policy, "")
	uc.metrics.ObserveDepletion(string(input.Source), dto.KindDirect, outcome(err))
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *depletionUseCase) depleteRecipe(ctx context.Context, res *model.Resolution, input *dto.SaleItemInput, policy model.DepletionPolicy) (*dto.RecipeResult, error) {
	recipeID := res.RecipeMapping.RecipeID
	recipe, err := uc.productRepo.FindRecipe(ctx, input.OrganizationID, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, apperror.ErrNotFound("recipe").WithDetail("recipe_id", recipeID)
	}
	if len(recipe.Items) == 0 {
		return nil, apperror.ErrValidation(fmt.Sprintf("recipe %s has no ingredients", recipeID))
	}

	result := &dto.RecipeResult{RecipeID: recipeID}
	var errs []error

	for _, item := range recipe.Items {
		ing := dto.IngredientResult{ProductID: item.ProductID}

		direct, err := uc.depleteIngredient(ctx, recipeID, item, input, policy)
		if err != nil {
			uc.logger.Warn("recipe ingredient depletion failed",
				zap.String("recipe_id", recipeID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			ing.Error = err.Error()
			errs = append(errs, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("ingredient %s: %s", item.ProductID, err.Error()))
		} else {
			ing.Success = true
			ing.Result = direct
			for _, w := range direct.Warnings {
				result.Warnings = append(result.Warnings, fmt.Sprintf("ingredient %s: %s", item.ProductID, w))
			}
		}
		result.Ingredients = append(result.Ingredients, ing)
	}

	if len(errs) == len(recipe.Items) {
		return nil, fmt.Errorf("recipe %s: every ingredient failed: %w", recipeID, errors.Join(errs...))
	}
	return result, nil
}

func (uc *depletionUseCase) depleteIngredient(ctx context.Context, recipeID string, item model.RecipeItem, input *dto.SaleItemInput, policy model.DepletionPolicy) (*dto.DirectResult, error) {
	p, err := uc.loadProduct(ctx, input.OrganizationID, item.ProductID)
	if err != nil {
		return nil, err
	}

	return uc.depleteProduct(ctx, p, uc.ingredientAmount(p, item, input.QuantitySold), input, policy, recipeID)
}

// ingredientAmount takes recipe quantities in the product's own unit at face
// value; only a differing ingredient unit goes through conversion.
func (uc *depletionUseCase) ingredientAmount(p *model.Product, item model.RecipeItem, quantitySold float64) demand {
	if item.Unit == nil || *item.Unit == "" || unitconv.Normalize(*item.Unit) == unitconv.Normalize(p.Unit) {
		return demand{amount: item.Quantity * quantitySold, servingSize: item.Quantity}
	}
	return uc.requiredAmount(p, *item.Unit, item.Quantity, quantitySold)
}

func (uc *depletionUseCase) loadProduct(ctx context.Context, orgID, productID string) (*model.Product, error) {
	p, err := uc.productRepo.FindByID(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.ErrNotFound("product").WithDetail("product_id", productID)
	}
	return p, nil
}

// demand is what one sale line consumes, in the product's inventory unit.
type demand struct {
	amount      float64
	servingSize float64
	conversion  *dto.UnitConversion
	warnings    []string
}

// requiredAmount returns how much of p's inventory unit quantitySold servings
// consume, and the conversion applied if any.
func (uc *depletionUseCase) requiredAmount(p *model.Product, servingUnit string, servingSize, quantitySold float64) demand {
	if servingUnit == "" {
		servingUnit = p.Unit
	}

	sameUnit := unitconv.Normalize(servingUnit) == unitconv.Normalize(p.Unit)
	if sameUnit && !p.HasContainerSize() {
		return demand{amount: servingSize * quantitySold, servingSize: servingSize}
	}

	// Container-tracked products are measured in their content unit and
	// converted back to containers.
	measureUnit := p.Unit
	hasContainerUnit := p.ContainerUnit != nil && *p.ContainerUnit != ""
	if p.HasContainerSize() && hasContainerUnit {
		measureUnit = *p.ContainerUnit
	}

	c := unitconv.CalculateServingDepletion(servingSize, servingUnit, measureUnit, p.ContainerSize, quantitySold)
	amount := c.ConvertedAmount
	if p.HasContainerSize() && unitconv.IsContainer(p.Unit) {
		amount /= *p.ContainerSize
	}

	d := demand{
		amount:      amount,
		servingSize: servingSize,
		conversion: &dto.UnitConversion{
			FromUnit:         servingUnit,
			ToUnit:           p.Unit,
			ServingSize:      servingSize,
			ConversionFactor: c.ConversionFactor,
			IsFullDepletion:  c.IsFullDepletion,
			Supported:        c.Supported,
		},
	}
	if !sameUnit && !unitconv.IsContainer(servingUnit) && unitconv.IsContainer(p.Unit) && p.HasContainerSize() && !hasContainerUnit {
		d.warnings = append(d.warnings, fmt.Sprintf(
			"product %s has no container unit; each %s serving depleted a whole %s",
			p.ID, servingUnit, p.Unit,
		))
	}
	return d
}

type planOutcome struct {
	available decimal.Decimal
	remaining decimal.Decimal
	floor     float64
	alloc     Allocation
	items     []model.InventoryItem
}

func (uc *depletionUseCase) depleteProduct(
	ctx context.Context,
	p *model.Product,
	d demand,
	input *dto.SaleItemInput,
	policy model.DepletionPolicy,
	recipeID string,
) (*dto.DirectResult, error) {
	amount, conversion, servingSize := d.amount, d.conversion, d.servingSize
	result := &dto.DirectResult{
		ProductID:      p.ID,
		DepletedAmount: amount,
		UnitConversion: conversion,
	}
	if len(d.warnings) > 0 {
		uc.logger.Warn("serving depletes whole containers",
			zap.String("product_id", p.ID),
			zap.Strings("warnings", d.warnings),
		)
		result.Warnings = append(result.Warnings, d.warnings...)
	}

	if conversion != nil {
		if !conversion.Supported {
			uc.logger.Warn("unsupported unit conversion, using raw serving size",
				zap.String("product_id", p.ID),
				zap.String("from", conversion.FromUnit),
				zap.String("to", conversion.ToUnit),
			)
			result.Warnings = append(result.Warnings, fmt.Sprintf("no conversion from %s to %s, serving size used as-is", conversion.FromUnit, conversion.ToUnit))
		}
		uc.auditUC.RecordUnitConversion(ctx, uc.event(p.ID, recipeID, input, model.JSONMap{
			"from_unit":         conversion.FromUnit,
			"to_unit":           conversion.ToUnit,
			"serving_size":      servingSize,
			"quantity_sold":     input.QuantitySold,
			"conversion_factor": conversion.ConversionFactor,
			"is_full_depletion": conversion.IsFullDepletion,
			"depleted_amount":   amount,
		}))
	}

	required := decimal.NewFromFloat(amount)
	var out planOutcome

	err := uc.inventoryRepo.DepleteProduct(ctx, input.OrganizationID, p.ID, func(items []model.InventoryItem) (map[string]float64, error) {
		stocks := make([]Stock, len(items))
		total := decimal.Zero
		floor := 0.0
		for i, it := range items {
			q := decimal.NewFromFloat(it.CurrentQuantity)
			stocks[i] = Stock{ID: it.ID, Quantity: q}
			total = total.Add(q)
			if it.MinimumQuantity != nil && *it.MinimumQuantity > 0 {
				floor += *it.MinimumQuantity
			}
		}

		if total.LessThan(required) && !policy.AllowOverDepletion {
			return nil, &dto.InsufficientInventoryError{
				ProductID: p.ID,
				Required:  amount,
				Available: total.InexactFloat64(),
			}
		}

		alloc := Allocate(stocks, required, policy.AllowOverDepletion)
		updates := make(map[string]float64, len(items))
		for i, it := range items {
			updates[it.ID] = alloc.Quantities[i].InexactFloat64()
		}

		out = planOutcome{
			available: total,
			remaining: total.Sub(required),
			floor:     floor,
			alloc:     alloc,
			items:     items,
		}
		return updates, nil
	})
	if err != nil {
		if errors.Is(err, inventory.ErrNoInventory) {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}
		return nil, err
	}

	result.RemainingInventory = out.remaining.InexactFloat64()
	for i, it := range out.items {
		if out.alloc.Consumed[i].IsZero() {
			continue
		}
		result.Allocations = append(result.Allocations, dto.LocationAllocation{
			InventoryItemID: it.ID,
			LocationID:      it.LocationID,
			Consumed:        out.alloc.Consumed[i].InexactFloat64(),
			Remaining:       out.alloc.Quantities[i].InexactFloat64(),
		})
	}

	if out.available.LessThan(required) {
		result.OverDepleted = true
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"insufficient inventory: required %s, available %s, over-depleted by %s",
			required.String(), out.available.String(), required.Sub(out.available).String(),
		))
		uc.auditUC.RecordOverDepletion(ctx, uc.event(p.ID, recipeID, input, model.JSONMap{
			"original_quantity":  out.available.InexactFloat64(),
			"requested_quantity": amount,
			"resulting_quantity": result.RemainingInventory,
		}))
		uc.logger.Warn("inventory over-depleted",
			zap.String("product_id", p.ID),
			zap.String("source", string(input.Source)),
			zap.Float64("resulting_quantity", result.RemainingInventory),
		)
	}

	result.Warnings = append(result.Warnings, EvaluateThresholds(result.RemainingInventory, out.floor, policy.WarningThresholds)...)

	uc.auditUC.RecordInventoryDepletion(ctx, uc.event(p.ID, recipeID, input, model.JSONMap{
		"depleted_amount":     amount,
		"quantity_sold":       input.QuantitySold,
		"remaining_inventory": result.RemainingInventory,
		"locations":           len(result.Allocations),
	}))
	return result, nil
}

func (uc *depletionUseCase) event(productID, recipeID string, input *dto.SaleItemInput, data model.JSONMap) *auditdto.Event {
	return &auditdto.Event{
		OrganizationID:  input.OrganizationID,
		ProductID:       productID,
		RecipeID:        recipeID,
		UserID:          input.UserID,
		Source:          input.Source,
		ExternalOrderID: input.ExternalOrderID,
		Data:            data,
	}
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var insufficient *dto.InsufficientInventoryError
	if errors.As(err, &insufficient) {
		return "insufficient"
	}
	return "error"
}
