package handlers

import (
	"net/http"

	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	*BaseHandler
	moderationService services.ModerationService
	adminLogService   services.AdminLogService
}

func NewModerationHandler(base *BaseHandler, moderationService services.ModerationService, adminLogService services.AdminLogService) *ModerationHandler {
	return &ModerationHandler{
		BaseHandler:       base,
		moderationService: moderationService,
		adminLogService:   adminLogService,
	}
}

func (h *ModerationHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		moderate := admin.Group("", middleware.RequirePermission("moderation:write"))
		moderate.POST("/employers/:employerId/approve", h.ApproveEmployer)
		moderate.POST("/employers/:employerId/reject", h.RejectEmployer)
		moderate.POST("/employers/:employerId/suspend", h.SuspendEmployer)
		moderate.POST("/employers/:employerId/unsuspend", h.UnsuspendEmployer)

		moderate.POST("/jobs/:jobId/approve", h.ApproveJob)
		moderate.POST("/jobs/:jobId/reject", h.RejectJob)
		moderate.POST("/jobs/:jobId/suspend", h.SuspendJob)

		admin.GET("/audit-log", middleware.RequirePermission("audit:read"), h.ListAuditLog)
	}
}

func (h *ModerationHandler) ApproveEmployer(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApproveRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.moderationService.ApproveEmployer(c.Request.Context(), c.Param("employerId"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ModerationHandler) RejectEmployer(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.moderationService.RejectEmployer(c.Request.Context(), c.Param("employerId"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ModerationHandler) SuspendEmployer(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SuspendRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.moderationService.SuspendEmployer(c.Request.Context(), c.Param("employerId"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ModerationHandler) UnsuspendEmployer(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.moderationService.UnsuspendEmployer(c.Request.Context(), c.Param("employerId"), adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ModerationHandler) ApproveJob(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApproveRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.moderationService.ApproveJob(c.Request.Context(), c.Param("jobId"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ModerationHandler) RejectJob(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.moderationService.RejectJob(c.Request.Context(), c.Param("jobId"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ModerationHandler) SuspendJob(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SuspendRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.moderationService.SuspendJob(c.Request.Context(), c.Param("jobId"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *ModerationHandler) ListAuditLog(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	dateFrom, dateTo, err := ParseQueryDateRange(c, 30)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response, err := h.adminLogService.List(services.AdminLogListOptions{
		AdminID:    c.Query("admin_id"),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
