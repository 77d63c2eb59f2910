package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"marketplace-service/internal/auth"
	"marketplace-service/internal/stores/kafka"
	"marketplace-service/internal/users"
	"marketplace-service/internal/vendors"
	"marketplace-service/pkg/ctxmanage"
	"marketplace-service/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// GetUser returns the application user row for ?uid=, plus the vendor row
// owned by them when the user has the vendor role.
func (h *Handler) GetUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	uid := c.Query("uid")
	if uid == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing uid"})
		return
	}

	user, err := h.u.GetUserByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		slog.Error("error fetching user", slog.String(logkey.TraceID, traceId),
			slog.String("user_id", uid), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var vendor *vendors.Vendor
	if user.Role == auth.RoleVendor {
		v, err := h.v.GetVendorByOwner(c.Request.Context(), uid)
		if err == nil {
			vendor = &v
		} else if !errors.Is(err, sql.ErrNoRows) {
			// vendor fetch errors don't fail the user read
			slog.Error("error fetching vendor for user", slog.String(logkey.TraceID, traceId),
				slog.String("user_id", uid), slog.String(logkey.ERROR, err.Error()))
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "vendor": vendor})
}

// CreateUser records the application row for a freshly signed-up identity.
// Vendor-role signups get an owned vendor record created in the same
// request.
func (h *Handler) CreateUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var nu users.NewUser
	if err := c.ShouldBindJSON(&nu); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	if nu.ID == "" || nu.Email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing id or email"})
		return
	}
	if err := h.validate.Struct(nu); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + vErrs[0].Field()})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	user, err := h.u.InsertUser(c.Request.Context(), nu)
	if err != nil {
		slog.Error("error creating user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var vendor *vendors.Vendor
	if user.Role == auth.RoleVendor {
		v, err := h.v.InsertVendor(c.Request.Context(), vendors.NewVendor{
			Name:        user.Email + "-vendor",
			OwnerUserID: &user.ID,
		})
		if err != nil {
			slog.Error("error auto-creating vendor for user", slog.String(logkey.TraceID, traceId),
				slog.String("user_id", user.ID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		vendor = &v
	}

	if h.k != nil {
		go func(u users.User) {
			event, err := json.Marshal(kafka.AccountCreatedEvent{
				UserID:    u.ID,
				Email:     u.Email,
				Role:      u.Role,
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				slog.Error("failed to marshal AccountCreatedEvent", slog.String(logkey.ERROR, err.Error()))
				return
			}
			if err := h.k.ProduceMessage(kafka.TopicAccountCreated, []byte(u.ID), event); err != nil {
				slog.Error("failed to produce account-created event", slog.String(logkey.ERROR, err.Error()))
			}
		}(user)
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "vendor": vendor})
}

type updateUserRequest struct {
	ID string `json:"id"`
	users.UpdateUser
}

func (h *Handler) UpdateUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var body updateUserRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	if body.ID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}
	if err := h.validate.Struct(body.UpdateUser); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + vErrs[0].Field()})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	user, err := h.u.UpdateUser(c.Request.Context(), body.ID, body.UpdateUser)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		slog.Error("error updating user", slog.String(logkey.TraceID, traceId),
			slog.String("user_id", body.ID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
