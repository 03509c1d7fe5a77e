package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/fekuna/omnipos-inventory-service/internal/audit"
	"github.com/fekuna/omnipos-inventory-service/internal/auth"
	"github.com/fekuna/omnipos-inventory-service/internal/possync"
	"github.com/fekuna/omnipos-inventory-service/internal/possync/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const CronSecretHeader = "x-cron-secret"

type SyncHandler struct {
	uc         possync.UseCase
	auditUC    audit.UseCase
	cronSecret string
	logger     logger.ZapLogger
}

func NewSyncHandler(uc possync.UseCase, auditUC audit.UseCase, cronSecret string, log logger.ZapLogger) *SyncHandler {
	return &SyncHandler{
		uc:         uc,
		auditUC:    auditUC,
		cronSecret: cronSecret,
		logger:     log,
	}
}

func (h *SyncHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/sync")
	g.POST("/cron", h.Cron)
	g.POST("/:integrationId", h.SyncIntegration)
	g.POST("", h.SyncOrganization)
}

func bindOptions(c *gin.Context) (*dto.SyncOptions, error) {
	var opts dto.SyncOptions
	if c.Request.ContentLength == 0 {
		return &opts, nil
	}
	if err := c.ShouldBindJSON(&opts); err != nil {
		return nil, apperror.ErrValidation(err.Error())
	}
	if opts.StartDate != nil && opts.EndDate != nil && opts.EndDate.Before(*opts.StartDate) {
		return nil, apperror.ErrValidation("endDate must not be before startDate")
	}
	return &opts, nil
}

func (h *SyncHandler) SyncIntegration(c *gin.Context) {
	orgID := auth.GetOrganizationID(c.Request.Context())
	if orgID == "" {
		apperror.Respond(c, apperror.ErrOrganizationRequired())
		return
	}
	opts, err := bindOptions(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	res, err := h.uc.SyncIntegration(c.Request.Context(), orgID, c.Param("integrationId"), opts)
	if err != nil {
		h.logger.Warn("sync request rejected", zap.String("integration_id", c.Param("integrationId")), zap.Error(err))
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SyncHandler) SyncOrganization(c *gin.Context) {
	orgID := auth.GetOrganizationID(c.Request.Context())
	if orgID == "" {
		apperror.Respond(c, apperror.ErrOrganizationRequired())
		return
	}
	opts, err := bindOptions(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	res, err := h.uc.SyncOrganization(c.Request.Context(), orgID, opts)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Cron syncs every active integration and purges expired audit logs. It is
// authenticated by a shared secret instead of a user session.
func (h *SyncHandler) Cron(c *gin.Context) {
	secret := c.GetHeader(CronSecretHeader)
	if h.cronSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.cronSecret)) != 1 {
		apperror.Respond(c, apperror.ErrUnauthorized("invalid cron secret"))
		return
	}
	opts, err := bindOptions(c)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	res, err := h.uc.SyncAll(c.Request.Context(), opts)
	if err != nil {
		h.logger.Error("cron sync failed", zap.Error(err))
		apperror.Respond(c, err)
		return
	}

	purged, err := h.auditUC.PurgeExpired(c.Request.Context())
	if err != nil {
		h.logger.Error("audit purge failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"sync":            res,
		"auditLogsPurged": purged,
	})
}
