package handlers

import (
	"net/http"

	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	*BaseHandler
	announcementService services.AnnouncementService
}

func NewAnnouncementHandler(base *BaseHandler, announcementService services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{
		BaseHandler:         base,
		announcementService: announcementService,
	}
}

func (h *AnnouncementHandler) RegisterRoutes(r *gin.RouterGroup) {
	announcements := r.Group("/announcements")
	announcements.Use(middleware.AuthMiddleware())
	{
		announcements.GET("", h.ListAnnouncements)
		announcements.GET("/:announcementId", h.GetAnnouncement)
	}

	admin := r.Group("/admin/announcements")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin), middleware.RequirePermission("announcements:write"))
	{
		admin.POST("", h.CreateAnnouncement)
	}
}

func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.announcementService.CreateAndBroadcast(c.Request.Context(), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	response, err := h.announcementService.GetAnnouncement(c.Param("announcementId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	announcements, total, err := h.announcementService.ListAnnouncements(page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"announcements": announcements,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}
