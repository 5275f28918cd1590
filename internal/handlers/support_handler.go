package handlers

import (
	"net/http"

	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SupportHandler struct {
	*BaseHandler
	supportService services.SupportService
}

func NewSupportHandler(base *BaseHandler, supportService services.SupportService) *SupportHandler {
	return &SupportHandler{
		BaseHandler:    base,
		supportService: supportService,
	}
}

func (h *SupportHandler) RegisterRoutes(r *gin.RouterGroup) {
	support := r.Group("/support")
	support.Use(middleware.AuthMiddleware())
	{
		support.POST("", h.CreateRequest)
		support.GET("/:requestId", h.GetRequest)
		support.GET("/mine", h.ListMyRequests)
	}

	admin := r.Group("/admin/support")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin), middleware.RequirePermission("support:write"))
	{
		admin.GET("", h.ListRequests)
		admin.POST("/:requestId/respond", h.Respond)
	}
}

func (h *SupportHandler) CreateRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSupportRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.supportService.CreateRequest(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *SupportHandler) Respond(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RespondSupportRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	response, err := h.supportService.Respond(c.Request.Context(), c.Param("requestId"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *SupportHandler) GetRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.supportService.GetRequest(userID, h.GetRole(c), c.Param("requestId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *SupportHandler) ListMyRequests(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	response, err := h.supportService.ListRequests(repositories.SupportCriteria{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *SupportHandler) ListRequests(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var criteria repositories.SupportCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	response, err := h.supportService.ListRequests(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}
