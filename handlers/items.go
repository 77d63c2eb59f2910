package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"marketplace-service/internal/auth"
	"marketplace-service/internal/items"
	"marketplace-service/pkg/ctxmanage"
	"marketplace-service/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const defaultItemLimit = 10

func (h *Handler) ListItems(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	search, limit, offset := listParams(c, defaultItemLimit)
	params := items.SearchParams{Search: search, Limit: limit, Offset: offset}
	if v := c.Query("category"); v != "" {
		params.Category = &v
	}
	if v := c.Query("vendor"); v != "" {
		params.Vendor = &v
	}

	list, err := h.i.SearchItems(c.Request.Context(), params)
	if err != nil {
		slog.Error("error searching items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": list})
}

// CreateItem is the user-facing item creation route. Only the owner of the
// referenced vendor may create items for it; the check runs here because the
// database does not know the caller.
func (h *Handler) CreateItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	identity, ok := auth.IdentityFromContext(c.Request.Context())
	if !ok {
		slog.Error("identity not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var ni items.NewItem
	if err := c.ShouldBindJSON(&ni); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	if ni.VendorID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "vendor_id is required"})
		return
	}
	if ni.CategoryID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "category_id is required"})
		return
	}
	if err := h.validate.Struct(ni); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing " + vErrs[0].Field()})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	vendor, err := h.v.GetVendorByID(c.Request.Context(), ni.VendorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
			return
		}
		slog.Error("error fetching vendor for ownership check", slog.String(logkey.TraceID, traceId),
			slog.String("vendor_id", ni.VendorID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if vendor.OwnerUserID == nil || *vendor.OwnerUserID != identity.ID {
		slog.Error("vendor ownership mismatch", slog.String(logkey.TraceID, traceId),
			slog.String("vendor_id", ni.VendorID), slog.String("user_id", identity.ID))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: you do not own this vendor"})
		return
	}

	item, err := h.i.InsertItem(c.Request.Context(), ni)
	if err != nil {
		slog.Error("error creating item", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *Handler) GetItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	item, err := h.i.GetItemByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		slog.Error("error fetching item", slog.String(logkey.TraceID, traceId),
			slog.String("item_id", id), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// serviceNewItem is the payload of the server-to-server creation route. It
// predates the user-facing one and still calls the name field "title".
type serviceNewItem struct {
	VendorID    string  `json:"vendor_id"`
	CategoryID  string  `json:"category_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Price       int64   `json:"price"`
	Stock       int     `json:"stock"`
	Status      string  `json:"status"`
}

// ServiceCreateItem creates an item on behalf of another service. The
// ServiceGate middleware has already matched the shared secret, so no
// per-user check happens here.
func (h *Handler) ServiceCreateItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var body serviceNewItem
	if err := c.ShouldBindJSON(&body); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	if body.VendorID == "" || body.Title == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "vendor_id and title are required"})
		return
	}

	status := body.Status
	if status == "" {
		status = items.StatusDraft
	}

	item, err := h.i.InsertItem(c.Request.Context(), items.NewItem{
		Name:        body.Title,
		Price:       body.Price,
		Stock:       body.Stock,
		VendorID:    body.VendorID,
		CategoryID:  body.CategoryID,
		Description: body.Description,
		Status:      status,
	})
	if err != nil {
		slog.Error("error creating item for service", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}
