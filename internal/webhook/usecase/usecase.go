package usecase

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/depletion"
	depletiondto "github.com/fekuna/omnipos-inventory-service/internal/depletion/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/webhook"
	"github.com/fekuna/omnipos-inventory-service/internal/webhook/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/metrics"
	"go.uber.org/zap"
)

type webhookUseCase struct {
	integrations webhook.IntegrationRepository
	depletionUC  depletion.UseCase
	metrics      *metrics.Metrics
	logger       logger.ZapLogger
}

func NewWebhookUseCase(integrations webhook.IntegrationRepository, depletionUC depletion.UseCase, m *metrics.Metrics, log logger.ZapLogger) webhook.UseCase {
	return &webhookUseCase{
		integrations: integrations,
		depletionUC:  depletionUC,
		metrics:      m,
		logger:       log,
	}
}

func validate(p *dto.SalePayload) error {
	switch {
	case p.IntegrationID == "":
		return apperror.ErrValidation("integrationId is required")
	case p.ExternalOrderID == "":
		return apperror.ErrValidation("externalOrderId is required")
	case p.Timestamp.IsZero():
		return apperror.ErrValidation("timestamp is required")
	case len(p.Items) == 0:
		return apperror.ErrValidation("at least one item is required")
	}
	for _, it := range p.Items {
		if it.ExternalProductID == "" || it.Quantity <= 0 {
			return apperror.ErrValidation("every item needs externalProductId and a positive quantity")
		}
	}
	return nil
}

func (uc *webhookUseCase) Ingest(ctx context.Context, payload *dto.SalePayload, source model.TriggerSource) (*dto.IngestResult, error) {
	if err := validate(payload); err != nil {
		return nil, err
	}

	integration, err := uc.integrations.FindIntegration(ctx, payload.IntegrationID)
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, apperror.ErrIntegrationNotFound(payload.IntegrationID)
	}
	if !integration.IsActive {
		return nil, apperror.ErrIntegrationInactive(payload.IntegrationID)
	}
	if integration.OrganizationID == "" {
		return nil, apperror.ErrOrganizationRequired()
	}

	result := &dto.IngestResult{Results: []dto.ItemResult{}}
	for _, item := range payload.Items {
		res, err := uc.depletionUC.DepleteForSaleItem(ctx, &depletiondto.SaleItemInput{
			OrganizationID:    integration.OrganizationID,
			IntegrationID:     integration.ID,
			ExternalProductID: item.ExternalProductID,
			Name:              item.Name,
			QuantitySold:      item.Quantity,
			ExternalOrderID:   payload.ExternalOrderID,
			Timestamp:         payload.Timestamp,
			Source:            source,
		})
		if err != nil {
			uc.logger.Warn("webhook item not depleted",
				zap.String("external_order_id", payload.ExternalOrderID),
				zap.String("external_product_id", item.ExternalProductID),
				zap.Error(err),
			)
			result.Errors++
			result.ErrorDetails = append(result.ErrorDetails, dto.ItemError{
				ExternalProductID: item.ExternalProductID,
				Error:             err.Error(),
			})
			uc.metrics.ObserveWebhookItem("error")
			continue
		}

		result.Processed++
		result.Results = append(result.Results, dto.ItemResult{
			ExternalProductID: item.ExternalProductID,
			Result:            res,
		})
		uc.metrics.ObserveWebhookItem("success")
	}

	result.Success = result.Errors == 0
	return result, nil
}
