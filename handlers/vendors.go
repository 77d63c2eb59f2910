package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"marketplace-service/internal/vendors"
	"marketplace-service/pkg/ctxmanage"
	"marketplace-service/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const defaultVendorLimit = 12

func (h *Handler) ListVendors(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	search, limit, offset := listParams(c, defaultVendorLimit)

	vens, err := h.v.SearchVendors(c.Request.Context(), search, limit, offset)
	if err != nil {
		slog.Error("error searching vendors", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vens})
}

func (h *Handler) CreateVendor(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var nv vendors.NewVendor
	if err := c.ShouldBindJSON(&nv); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	if err := h.validate.Struct(nv); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing " + vErrs[0].Field()})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	ven, err := h.v.InsertVendor(c.Request.Context(), nv)
	if err != nil {
		slog.Error("error creating vendor", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vendor": ven})
}

func (h *Handler) GetVendor(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	ven, err := h.v.GetVendorByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
			return
		}
		slog.Error("error fetching vendor", slog.String(logkey.TraceID, traceId),
			slog.String("vendor_id", id), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": ven})
}

func (h *Handler) UpdateVendor(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	var uv vendors.UpdateVendor
	if err := c.ShouldBindJSON(&uv); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	ven, err := h.v.UpdateVendor(c.Request.Context(), id, uv)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
			return
		}
		slog.Error("error updating vendor", slog.String(logkey.TraceID, traceId),
			slog.String("vendor_id", id), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": ven})
}

func (h *Handler) DeleteVendor(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	id := c.Param("id")

	deleted, err := h.v.DeleteVendor(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
			return
		}
		slog.Error("error deleting vendor", slog.String(logkey.TraceID, traceId),
			slog.String("vendor_id", id), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted_id": deleted})
}
