package request

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/motoshop/directory-api/internal/handler"
	"github.com/motoshop/directory-api/internal/model"
	"github.com/motoshop/directory-api/internal/service/request"
)

type Handler struct {
	service *request.Service
}

func NewHandler(service *request.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/service-requests")
	{
		requests.POST("", h.CreateServiceRequest)
		requests.GET("", h.ListServiceRequests)
		requests.GET("/:id", h.GetServiceRequest)
		requests.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) CreateServiceRequest(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	var req model.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	shopIDs := make([]uuid.UUID, 0, len(req.ShopIDs))
	for _, raw := range req.ShopIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid shop ID: " + raw})
			return
		}
		shopIDs = append(shopIDs, id)
	}

	result, err := h.service.Compose(c.Request.Context(), &request.ComposeInput{
		UserID:        userID,
		BikeID:        req.BikeID,
		ShopIDs:       shopIDs,
		Category:      model.ServiceCategory(req.Category),
		Description:   req.Description,
		Urgency:       model.Urgency(req.Urgency),
		PreferredDate: req.PreferredDate,
		Location:      req.Location,
	})
	if err != nil {
		// The artifacts survive a persistence failure; return them with
		// the error so the caller can still use the composed emails.
		if result != nil && len(result.Artifacts) > 0 {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": err.Error(),
				"data":    result,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": result})
}

func (h *Handler) GetServiceRequest(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid service request ID"})
		return
	}

	req, err := h.service.Get(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": req})
}

func (h *Handler) ListServiceRequests(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	reqs, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": reqs, "count": len(reqs)})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	userID, err := handler.UserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid service request ID"})
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, userID, model.RequestStatus(req.Status))
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": updated})
}
