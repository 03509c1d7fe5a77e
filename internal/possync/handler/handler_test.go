package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	auditdto "github.com/fekuna/omnipos-inventory-service/internal/audit/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/possync/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSync struct {
	opts    *dto.SyncOptions
	allRuns int
	err     error
}

func (s *stubSync) SyncIntegration(ctx context.Context, orgID, integrationID string, opts *dto.SyncOptions) (*dto.SyncResult, error) {
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SyncResult{IntegrationID: integrationID, Processed: 3}, nil
}

func (s *stubSync) SyncOrganization(ctx context.Context, orgID string, opts *dto.SyncOptions) (*dto.BulkSyncResult, error) {
	return &dto.BulkSyncResult{}, nil
}

func (s *stubSync) SyncAll(ctx context.Context, opts *dto.SyncOptions) (*dto.BulkSyncResult, error) {
	s.allRuns++
	return &dto.BulkSyncResult{}, nil
}

type stubAudit struct{ purges int }

func (a *stubAudit) RecordOverDepletion(ctx context.Context, e *auditdto.Event)       {}
func (a *stubAudit) RecordUnitConversion(ctx context.Context, e *auditdto.Event)      {}
func (a *stubAudit) RecordInventoryAdjustment(ctx context.Context, e *auditdto.Event) {}
func (a *stubAudit) RecordInventoryDepletion(ctx context.Context, e *auditdto.Event)  {}
func (a *stubAudit) Record(ctx context.Context, t string, e *auditdto.Event)          {}
func (a *stubAudit) PurgeExpired(ctx context.Context) (int64, error) {
	a.purges++
	return 7, nil
}

func router(s *stubSync, a *stubAudit) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth.OrganizationMiddleware())
	NewSyncHandler(s, a, "s3cret", logger.NewNop()).Register(r.Group(""))
	return r
}

func do(r *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSyncIntegration_BindsOptions(t *testing.T) {
	s := &stubSync{}
	w := do(router(s, &stubAudit{}), "/sync/int-1", `{"startDate":"2026-03-01T00:00:00Z","forced":true}`,
		map[string]string{auth.OrganizationHeader: "org-1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, s.opts.Forced)
	require.NotNil(t, s.opts.StartDate)
	assert.Contains(t, w.Body.String(), `"processed":3`)
}

func TestSyncIntegration_EmptyBody(t *testing.T) {
	s := &stubSync{}
	w := do(router(s, &stubAudit{}), "/sync/int-1", "", map[string]string{auth.OrganizationHeader: "org-1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, s.opts.StartDate)
}

func TestSyncIntegration_ConflictWhenRunning(t *testing.T) {
	s := &stubSync{err: apperror.ErrSyncInProgress("int-1")}
	w := do(router(s, &stubAudit{}), "/sync/int-1", "", map[string]string{auth.OrganizationHeader: "org-1"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SYNC_IN_PROGRESS")
}

func TestCron_RequiresSecret(t *testing.T) {
	s := &stubSync{}
	a := &stubAudit{}
	r := router(s, a)

	w := do(r, "/sync/cron", "", map[string]string{CronSecretHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, s.allRuns)

	w = do(r, "/sync/cron", "", map[string]string{CronSecretHeader: "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.allRuns)
	assert.Equal(t, 1, a.purges)
	assert.Contains(t, w.Body.String(), `"auditLogsPurged":7`)
}
