package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/depletion"
	depletiondto "github.com/fekuna/omnipos-inventory-service/internal/depletion/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/mapping"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/possync"
	"github.com/fekuna/omnipos-inventory-service/internal/possync/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/sale"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/fekuna/omnipos-inventory-service/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	noCountNote  = "first count not run yet; sales recorded without depletion"
	maxErrorText = 4000
)

type Config struct {
	Lookback            time.Duration
	DefaultCloseoutHour int
	LockTTL             time.Duration
}

type syncUseCase struct {
	repo        possync.Repository
	saleRepo    sale.Repository
	client      possync.POSClient
	mappingUC   mapping.UseCase
	depletionUC depletion.UseCase
	locker      cache.Locker
	cfg         Config
	metrics     *metrics.Metrics
	logger      logger.ZapLogger

	now func() time.Time
}

func NewSyncUseCase(
	repo possync.Repository,
	saleRepo sale.Repository,
	client possync.POSClient,
	mappingUC mapping.UseCase,
	depletionUC depletion.UseCase,
	locker cache.Locker,
	cfg Config,
	m *metrics.Metrics,
	log logger.ZapLogger,
) possync.UseCase {
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}
	return &syncUseCase{
		repo:        repo,
		saleRepo:    saleRepo,
		client:      client,
		mappingUC:   mappingUC,
		depletionUC: depletionUC,
		locker:      locker,
		cfg:         cfg,
		metrics:     m,
		logger:      log,
		now:         time.Now,
	}
}

// run carries the mutable state of one integration sync.
type run struct {
	integration *model.POSIntegration
	result      *dto.SyncResult
	deplete     bool
	gate        *time.Time
	fetchFailed bool
	seen        map[string]struct{}
}

func (r *run) fail(format string, args ...interface{}) {
	r.result.Errors++
	r.result.ErrorDetails = append(r.result.ErrorDetails, fmt.Sprintf(format, args...))
}

func (uc *syncUseCase) SyncIntegration(ctx context.Context, orgID, integrationID string, opts *dto.SyncOptions) (*dto.SyncResult, error) {
	if orgID == "" {
		return nil, apperror.ErrOrganizationRequired()
	}

	integration, err := uc.repo.FindIntegration(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	if integration == nil || integration.OrganizationID != orgID {
		return nil, apperror.ErrIntegrationNotFound(integrationID)
	}
	if !integration.IsActive {
		return nil, apperror.ErrIntegrationInactive(integrationID)
	}

	lockKey := "lock:possync:" + integrationID
	lockValue := uuid.New().String()
	ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, uc.cfg.LockTTL)
	if err != nil {
		return nil, apperror.ErrServiceUnavailable("sync lock").Wrap(err)
	}
	if !ok {
		return nil, apperror.ErrSyncInProgress(integrationID)
	}
	defer func() {
		if err := uc.locker.ReleaseLock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release sync lock", zap.String("integration_id", integrationID), zap.Error(err))
		}
	}()

	return uc.syncLocked(ctx, integration, opts), nil
}

func (uc *syncUseCase) syncLocked(ctx context.Context, integration *model.POSIntegration, opts *dto.SyncOptions) *dto.SyncResult {
	startedAt := uc.now()
	start, end := ResolveWindow(opts, integration.LastSalesSyncAt, startedAt, uc.cfg.Lookback)

	r := &run{
		integration: integration,
		result: &dto.SyncResult{
			IntegrationID: integration.ID,
			WindowStart:   start,
			WindowEnd:     end,
		},
		seen: make(map[string]struct{}),
	}

	log := uc.logger.With(
		zap.String("organization_id", integration.OrganizationID),
		zap.String("integration_id", integration.ID),
	)
	log.Info("pos sync started", zap.Time("window_start", start), zap.Time("window_end", end))

	count, err := uc.repo.LatestApprovedCount(ctx, integration.OrganizationID)
	switch {
	case err != nil:
		r.fail("load approved count: %v", err)
	case count == nil:
		r.result.DepletionSkipped = true
	default:
		r.deplete = true
		r.gate = count.ApprovedAt
	}

	if err == nil {
		locations, err := uc.repo.ListLocations(ctx, integration.ID)
		if err != nil {
			r.fail("list locations: %v", err)
			r.fetchFailed = true
		}
		for i := range locations {
			if ctx.Err() != nil {
				r.fail("sync cancelled: %v", ctx.Err())
				r.fetchFailed = true
				break
			}
			uc.syncLocation(ctx, r, &locations[i], start, end)
		}
	} else {
		r.fetchFailed = true
	}

	status := r.status()
	r.result.Status = status
	uc.finish(context.WithoutCancel(ctx), r, status, startedAt)

	log.Info("pos sync finished",
		zap.String("status", status),
		zap.Int("processed", r.result.Processed),
		zap.Int("errors", r.result.Errors),
		zap.Int("new_sales", r.result.NewSales),
		zap.Int("duplicates", r.result.Duplicates),
	)
	return r.result
}

func (r *run) status() string {
	res := r.result
	switch {
	case res.Errors == 0 && res.DepletionSkipped:
		return model.SyncStatusSkipped
	case res.Errors == 0:
		return model.SyncStatusSuccess
	case res.Processed > 0 || res.NewSales > 0 || res.Duplicates > 0:
		return model.SyncStatusPartial
	default:
		return model.SyncStatusFailed
	}
}

func (uc *syncUseCase) finish(ctx context.Context, r *run, status string, startedAt time.Time) {
	var watermark *time.Time
	if status != model.SyncStatusFailed && !r.fetchFailed {
		end := r.result.WindowEnd
		watermark = &end
	}
	if err := uc.repo.UpdateSyncStatus(ctx, r.integration.ID, status, watermark); err != nil {
		uc.logger.Error("failed to update integration sync status", zap.String("integration_id", r.integration.ID), zap.Error(err))
	}

	var notes []string
	if r.result.DepletionSkipped {
		notes = append(notes, noCountNote)
	}
	notes = append(notes, r.result.ErrorDetails...)
	var summary *string
	if len(notes) > 0 {
		s := strings.Join(notes, "\n")
		if len(s) > maxErrorText {
			s = s[:maxErrorText]
		}
		summary = &s
	}

	l := &model.SyncLog{
		ID:             uuid.New().String(),
		OrganizationID: r.integration.OrganizationID,
		IntegrationID:  r.integration.ID,
		Status:         status,
		WindowStart:    r.result.WindowStart,
		WindowEnd:      r.result.WindowEnd,
		Processed:      r.result.Processed,
		Failed:         r.result.Errors,
		NewSales:       r.result.NewSales,
		Duplicates:     r.result.Duplicates,
		ErrorSummary:   summary,
		StartedAt:      startedAt,
		FinishedAt:     uc.now(),
	}
	if err := uc.repo.CreateSyncLog(ctx, l); err != nil {
		uc.logger.Error("failed to write sync log", zap.String("integration_id", r.integration.ID), zap.Error(err))
	}
	uc.metrics.ObserveSyncRun(status)
}

func (uc *syncUseCase) syncLocation(ctx context.Context, r *run, loc *model.POSLocation, start, end time.Time) {
	orders, err := uc.fetchOrders(ctx, r.integration, loc, start, end)
	if err != nil {
		r.fetchFailed = true
		r.fail("location %s: fetch orders: %v", loc.Name, err)
		return
	}

	for i := range orders {
		if _, dup := r.seen[orders[i].ID]; dup {
			continue
		}
		r.seen[orders[i].ID] = struct{}{}
		uc.processOrder(ctx, r, &orders[i])
	}
}

// fetchOrders prefers business-date fetches and falls back to a timestamp
// range when any of them fails. A truncated page walk is not retried as a
// range, which would be at least as large.
func (uc *syncUseCase) fetchOrders(ctx context.Context, integration *model.POSIntegration, loc *model.POSLocation, start, end time.Time) ([]dto.POSOrder, error) {
	closeout := uc.cfg.DefaultCloseoutHour
	if loc.CloseoutHour != nil {
		closeout = *loc.CloseoutHour
	}

	tz, err := loadLocation(loc.Timezone)
	if err != nil {
		uc.logger.Warn("unknown location timezone, using UTC", zap.String("location_id", loc.ID), zap.String("timezone", loc.Timezone))
		tz = time.UTC
	}

	var orders []dto.POSOrder
	for _, date := range BusinessDates(start, end, tz, closeout) {
		batch, err := uc.client.FetchOrdersByBusinessDate(ctx, integration, loc, date)
		if errors.Is(err, possync.ErrPaginationTruncated) {
			return nil, err
		}
		if err != nil {
			uc.logger.Warn("business date fetch failed, falling back to range",
				zap.String("location_id", loc.ID),
				zap.String("business_date", date),
				zap.Error(err),
			)
			return uc.client.FetchOrdersByRange(ctx, integration, loc, start, end)
		}
		orders = append(orders, batch...)
	}
	return orders, nil
}

type resolvedLine struct {
	line dto.AggregatedLine
	res  *model.Resolution
	err  error
}

func (uc *syncUseCase) processOrder(ctx context.Context, r *run, order *dto.POSOrder) {
	orgID := r.integration.OrganizationID

	exists, err := uc.saleRepo.ExistsByExternalID(ctx, orgID, order.ID)
	if err != nil {
		r.fail("order %s: %v", order.ID, err)
		uc.metrics.ObserveSyncOrder("error")
		return
	}
	if exists {
		r.result.Duplicates++
		uc.metrics.ObserveSyncOrder("duplicate")
		return
	}

	lines := AggregateLines(order.LineItems)
	resolved := make([]resolvedLine, len(lines))
	s := &model.Sale{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		IntegrationID:  r.integration.ID,
		ExternalID:     order.ID,
		TotalAmount:    order.TotalAmount,
		SaleTimestamp:  order.CreatedAt,
		CreatedAt:      uc.now(),
	}
	items := make([]model.SaleItem, len(lines))

	for i, line := range lines {
		res, err := uc.mappingUC.Resolve(ctx, mapping.Key{
			OrganizationID:    orgID,
			IntegrationID:     r.integration.ID,
			ExternalProductID: line.ExternalProductID,
			Name:              line.Name,
		})
		resolved[i] = resolvedLine{line: line, res: res, err: err}
		items[i] = saleItem(line, res, err)
	}

	if err := uc.saleRepo.CreateWithItems(ctx, s, items); err != nil {
		if errors.Is(err, sale.ErrDuplicateSale) {
			r.result.Duplicates++
			uc.metrics.ObserveSyncOrder("duplicate")
			return
		}
		r.fail("order %s: save sale: %v", order.ID, err)
		uc.metrics.ObserveSyncOrder("error")
		return
	}
	r.result.NewSales++
	uc.metrics.ObserveSyncOrder("new")

	if !r.deplete {
		return
	}
	if r.gate != nil && !order.CreatedAt.After(*r.gate) {
		return
	}

	for _, rl := range resolved {
		if rl.err != nil {
			r.fail("order %s: %v", order.ID, rl.err)
			continue
		}
		_, err := uc.depletionUC.DepleteResolved(ctx, rl.res, &depletiondto.SaleItemInput{
			OrganizationID:    orgID,
			IntegrationID:     r.integration.ID,
			ExternalProductID: rl.line.ExternalProductID,
			Name:              rl.line.Name,
			QuantitySold:      rl.line.Quantity,
			ExternalOrderID:   order.ID,
			Timestamp:         order.CreatedAt,
			Source:            model.TriggerCronSync,
		})
		if err != nil {
			r.fail("order %s product %s: %v", order.ID, rl.line.ExternalProductID, err)
			continue
		}
		r.result.Processed++
	}
}

func saleItem(line dto.AggregatedLine, res *model.Resolution, err error) model.SaleItem {
	item := model.SaleItem{
		ID:        uuid.New().String(),
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
	}
	if err != nil {
		var unresolved *mapping.UnresolvedMappingError
		if errors.As(err, &unresolved) && unresolved.POSProductID != "" {
			id := unresolved.POSProductID
			item.POSProductID = &id
		}
		return item
	}

	if res.POSProduct != nil {
		id := res.POSProduct.ID
		item.POSProductID = &id
	}
	if res.IsRecipe() {
		id := res.RecipeMapping.RecipeID
		item.RecipeID = &id
	} else if res.ProductMapping != nil {
		id := res.ProductMapping.ProductID
		item.ProductID = &id
	}
	return item
}

func (uc *syncUseCase) SyncOrganization(ctx context.Context, orgID string, opts *dto.SyncOptions) (*dto.BulkSyncResult, error) {
	if orgID == "" {
		return nil, apperror.ErrOrganizationRequired()
	}
	integrations, err := uc.repo.ListActiveIntegrations(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return uc.syncEach(ctx, integrations, opts), nil
}

func (uc *syncUseCase) SyncAll(ctx context.Context, opts *dto.SyncOptions) (*dto.BulkSyncResult, error) {
	integrations, err := uc.repo.ListActiveIntegrations(ctx, "")
	if err != nil {
		return nil, err
	}
	return uc.syncEach(ctx, integrations, opts), nil
}

func (uc *syncUseCase) syncEach(ctx context.Context, integrations []model.POSIntegration, opts *dto.SyncOptions) *dto.BulkSyncResult {
	bulk := &dto.BulkSyncResult{Integrations: []dto.SyncResult{}}
	for _, in := range integrations {
		res, err := uc.SyncIntegration(ctx, in.OrganizationID, in.ID, opts)
		if err != nil {
			uc.logger.Warn("integration sync not run", zap.String("integration_id", in.ID), zap.Error(err))
			bulk.Errors++
			bulk.ErrorDetails = append(bulk.ErrorDetails, fmt.Sprintf("integration %s: %v", in.ID, err))
			continue
		}
		bulk.Add(res)
	}
	return bulk
}
