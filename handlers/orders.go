package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"marketplace-service/internal/orders"
	"marketplace-service/internal/stores/kafka"
	"marketplace-service/pkg/ctxmanage"
	"marketplace-service/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stripe/stripe-go/v81"
)

// CreateOrder is the server-to-server composite order write. The ServiceGate
// middleware has already matched the shared secret.
func (h *Handler) CreateOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var no orders.NewOrder
	if err := c.ShouldBindJSON(&no); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	if len(no.Items) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "items array is required"})
		return
	}
	if err := h.validate.Struct(no); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + vErrs[0].Field()})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	order, err := h.o.CreateOrder(c.Request.Context(), no)
	if err != nil {
		slog.Error("error creating order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.k != nil {
		go func(o orders.Order, itemCount int) {
			var buyer string
			if o.BuyerID != nil {
				buyer = *o.BuyerID
			}
			event, err := json.Marshal(kafka.OrderCreatedEvent{
				OrderID:   o.ID,
				BuyerID:   buyer,
				Total:     o.Total,
				ItemCount: itemCount,
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				slog.Error("failed to marshal OrderCreatedEvent", slog.String(logkey.ERROR, err.Error()))
				return
			}
			key := []byte(strconv.FormatInt(o.ID, 10))
			if err := h.k.ProduceMessage(kafka.TopicOrderCreated, key, event); err != nil {
				slog.Error("failed to produce order-created event", slog.String(logkey.ERROR, err.Error()))
			}
		}(order, len(no.Items))
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id": order.ID,
		"total":    order.Total,
		"status":   order.Status,
	})
}

// OrderWebhook consumes payment events and marks the referenced order paid.
// Orders are created pending; this is the only transition out of it.
func (h *Handler) OrderWebhook(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	const MaxBodyBytes = int64(65536)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	var event stripe.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		slog.Error("failed to bind webhook event", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			slog.Error("failed to unmarshal payment intent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orderId, err := strconv.ParseInt(paymentIntent.Metadata["order_id"], 10, 64)
		if err != nil {
			slog.Error("webhook metadata missing order_id", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing order_id metadata"})
			return
		}

		err = h.o.UpdateOrderStatus(c.Request.Context(), orderId, orders.StatusPaid, paymentIntent.ID)
		if err != nil {
			slog.Error("failed to update order status", slog.String(logkey.TraceID, traceId),
				slog.Int64("order_id", orderId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		slog.Info("order marked paid", slog.String(logkey.TraceID, traceId), slog.Int64("order_id", orderId))
		c.Status(http.StatusOK)

	default:
		slog.Info("unhandled webhook event type", slog.String(logkey.TraceID, traceId),
			slog.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"message": "Event type not handled", "event": event.Type})
	}
}
