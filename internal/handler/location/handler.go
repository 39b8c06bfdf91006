package location

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/motoshop/directory-api/internal/location"
)

type Handler struct {
	resolver *location.Resolver
}

func NewHandler(resolver *location.Resolver) *Handler {
	return &Handler{resolver: resolver}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	loc := r.Group("/location")
	{
		loc.POST("/resolve", h.Resolve)
	}
}

// Coordinates are pointers so a legitimate zero (equator, prime
// meridian) is distinguishable from an absent field.
type resolveRequest struct {
	Latitude    *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	AccuracyM   float64  `json:"accuracy_m" binding:"omitempty,min=0"`
	WantCountry bool     `json:"want_country"`
}

// Resolve validates client-supplied coordinates and optionally enriches
// them with reverse-geocoded country and city. Geocoder downtime leaves
// those fields empty rather than failing the call.
func (h *Handler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	loc, err := h.resolver.ResolveCoordinates(
		c.Request.Context(),
		*req.Latitude,
		*req.Longitude,
		req.AccuracyM,
		req.WantCountry,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": loc})
}
