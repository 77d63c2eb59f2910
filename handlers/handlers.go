package handlers

import (
	"fmt"
	"net/http"
	"os"

	"marketplace-service/internal/auth"
	"marketplace-service/internal/categories"
	"marketplace-service/internal/items"
	"marketplace-service/internal/orders"
	"marketplace-service/internal/stores/kafka"
	"marketplace-service/internal/users"
	"marketplace-service/internal/vendors"
	"marketplace-service/middleware"
	"marketplace-service/pkg/ctxmanage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	c        categories.Conf
	v        vendors.Conf
	i        items.Conf
	u        users.Conf
	o        orders.Conf
	k        *kafka.Conf // nil disables event publishing
	validate *validator.Validate
}

func NewHandler(c categories.Conf, v vendors.Conf, i items.Conf, u users.Conf,
	o orders.Conf, k *kafka.Conf) *Handler {
	return &Handler{
		c:        c,
		v:        v,
		i:        i,
		u:        u,
		o:        o,
		k:        k,
		validate: validator.New(),
	}
}

func API(m *middleware.Mid, c categories.Conf, v vendors.Conf, i items.Conf,
	u users.Conf, o orders.Conf, k *kafka.Conf, serviceRoleKey string) *gin.Engine {

	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	h := NewHandler(c, v, i, u, o, k)

	r.Use(middleware.Logger(), gin.Recovery())
	r.Use(middleware.Gatekeeper())
	r.GET("/ping", healthCheck)

	api := r.Group("/api")
	{
		cat := api.Group("/categories")
		cat.GET("", h.ListCategories)
		cat.POST("", m.Authorize(h.CreateCategory, auth.RoleAdmin))
		cat.GET("/:id", h.GetCategory)
		cat.PATCH("/:id", m.Authorize(h.UpdateCategory, auth.RoleAdmin))
		cat.DELETE("/:id", m.Authorize(h.DeleteCategory, auth.RoleAdmin))

		ven := api.Group("/vendors")
		ven.GET("", h.ListVendors)
		ven.POST("", m.Authorize(h.CreateVendor, auth.RoleAdmin))
		ven.GET("/:id", h.GetVendor)
		ven.PATCH("/:id", m.Authorize(h.UpdateVendor, auth.RoleAdmin))
		ven.DELETE("/:id", m.Authorize(h.DeleteVendor, auth.RoleAdmin))

		it := api.Group("/items")
		it.GET("", h.ListItems)
		it.POST("", m.Authentication(), h.CreateItem)
		it.GET("/:id", h.GetItem)
		// server-to-server only
		it.POST("/create", middleware.ServiceGate(serviceRoleKey), h.ServiceCreateItem)

		us := api.Group("/users")
		us.GET("", h.GetUser)
		us.POST("", h.CreateUser)
		us.PATCH("", h.UpdateUser)

		ord := api.Group("/orders")
		// server-to-server only
		ord.POST("/create", middleware.ServiceGate(serviceRoleKey), h.CreateOrder)
		ord.POST("/webhook", h.OrderWebhook)
	}

	return r
}

func healthCheck(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	fmt.Println("healthCheck handler ", traceId)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
