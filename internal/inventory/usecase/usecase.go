package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	auditdto "github.com/fekuna/omnipos-inventory-service/internal/audit/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory"
	"github.com/fekuna/omnipos-inventory-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
)

type inventoryUseCase struct {
	repo    inventory.Repository
	locker  cache.Locker
	auditUC audit.UseCase
	logger  logger.ZapLogger

	retryDelay time.Duration
}

func NewInventoryUseCase(repo inventory.Repository, locker cache.Locker, auditUC audit.UseCase, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:       repo,
		locker:     locker,
		auditUC:    auditUC,
		logger:     log,
		retryDelay: 100 * time.Millisecond,
	}
}

func (uc *inventoryUseCase) GetProductStock(ctx context.Context, orgID, productID string) (*dto.ProductStock, error) {
	items, err := uc.repo.ListByProduct(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}

	stock := &dto.ProductStock{
		ProductID: productID,
		Locations: items,
	}
	if stock.Locations == nil {
		stock.Locations = []model.InventoryItem{}
	}
	for _, item := range items {
		stock.TotalQuantity += item.CurrentQuantity
	}
	return stock, nil
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, orgID, locationID string, page, pageSize int) ([]model.InventoryItem, int, error) {
	return uc.repo.FindAll(ctx, &dto.InventoryFilters{
		OrganizationID: orgID,
		LocationID:     locationID,
		LowStock:       true,
		Page:           page,
		PageSize:       pageSize,
	})
}

func (uc *inventoryUseCase) AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.InventoryItem, error) {
	lockKey := fmt.Sprintf("lock:inventory:%s:%s:%s", input.OrganizationID, input.ProductID, input.LocationID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire inventory lock", zap.String("key", lockKey), zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(uc.retryDelay)
	}
	if !acquired {
		return nil, apperror.ErrServiceUnavailable("inventory")
	}
	defer func() {
		if err := uc.locker.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release inventory lock", zap.String("key", lockKey), zap.Error(err))
		}
	}()

	item, err := uc.repo.GetByProductLocation(ctx, input.OrganizationID, input.ProductID, input.LocationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if item == nil {
		item = &model.InventoryItem{
			BaseModel: model.BaseModel{
				ID:        uuid.New().String(),
				CreatedAt: now,
			},
			OrganizationID: input.OrganizationID,
			ProductID:      input.ProductID,
			LocationID:     input.LocationID,
		}
	}

	before := item.CurrentQuantity
	after := before + input.QuantityChange
	if after < 0 {
		return nil, apperror.ErrConflict("insufficient inventory").
			WithDetail("current", strconv.FormatFloat(before, 'f', -1, 64)).
			WithDetail("change", strconv.FormatFloat(input.QuantityChange, 'f', -1, 64))
	}
	item.CurrentQuantity = after
	item.UpdatedAt = now

	if err := uc.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	uc.auditUC.RecordInventoryAdjustment(ctx, &auditdto.Event{
		OrganizationID: input.OrganizationID,
		ProductID:      input.ProductID,
		UserID:         input.UserID,
		Source:         model.TriggerManual,
		Data: model.JSONMap{
			"location_id":     input.LocationID,
			"quantity_change": input.QuantityChange,
			"quantity_before": before,
			"quantity_after":  after,
			"reason":          input.Reason,
			"reference_id":    input.ReferenceID,
		},
	})

	uc.logger.Info("inventory adjusted",
		zap.String("product_id", input.ProductID),
		zap.String("location_id", input.LocationID),
		zap.Float64("before", before),
		zap.Float64("after", after),
	)
	return item, nil
}
