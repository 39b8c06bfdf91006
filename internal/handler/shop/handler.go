package shop

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/motoshop/directory-api/internal/model"
	"github.com/motoshop/directory-api/internal/service/matching"
	"github.com/motoshop/directory-api/internal/service/shop"
)

type Handler struct {
	shops    *shop.Service
	matching *matching.Service
}

func NewHandler(shops *shop.Service, matchingSvc *matching.Service) *Handler {
	return &Handler{shops: shops, matching: matchingSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	shops := r.Group("/shops")
	{
		shops.GET("", h.ListShops)
		shops.GET("/nearby", h.NearbyShops)
		shops.GET("/categories", h.ListCategories)
		shops.GET("/:id", h.GetShop)
	}
}

func (h *Handler) ListShops(c *gin.Context) {
	var filter model.ShopFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	shops, err := h.shops.SearchShops(c.Request.Context(), &filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": shops, "count": len(shops)})
}

func (h *Handler) GetShop(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid shop ID"})
		return
	}

	detail, err := h.shops.GetShop(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": detail})
}

// NearbyShops is the ranked radius search. Without coordinates it
// degrades to the non-geographic city listing so the endpoint stays
// usable when the caller declined to share a location.
func (h *Handler) NearbyShops(c *gin.Context) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		h.fallbackListing(c)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid latitude"})
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid longitude"})
		return
	}

	q := &model.NearbyQuery{
		Latitude:  lat,
		Longitude: lon,
		Category:  model.ServiceCategory(c.Query("category")),
		Country:   c.Query("country"),
	}
	if v := c.Query("radius_km"); v != "" {
		if q.RadiusKm, err = strconv.ParseFloat(v, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid radius"})
			return
		}
	}
	if v := c.Query("limit"); v != "" {
		if q.Limit, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid limit"})
			return
		}
	}

	ranked, err := h.matching.FindNearbyShopsByService(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": ranked, "count": len(ranked)})
}

func (h *Handler) fallbackListing(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid limit"})
			return
		}
		limit = n
	}

	shops, err := h.matching.FallbackListing(
		c.Request.Context(),
		c.Query("city"),
		model.ServiceCategory(c.Query("category")),
		limit,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": shops, "count": len(shops)})
}

func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": h.shops.Categories()})
}
