package handler

import (
	"strings"

	"coffeehouse/coffee-service/internal/app/coffee/entity"
	"coffeehouse/coffee-service/internal/app/coffee/service"
	"coffeehouse/pkg/logger"
	"coffeehouse/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const ServiceName = "coffee-service"

type (
	CoffeeHandler     = EntityHandler[entity.CoffeeResponse, entity.CreateCoffeeRequest, entity.UpdateCoffeeRequest]
	CategoryHandler   = EntityHandler[entity.CategoryResponse, entity.CreateCategoryRequest, entity.UpdateCategoryRequest]
	IngredientHandler = EntityHandler[entity.IngredientResponse, entity.CreateIngredientRequest, entity.UpdateIngredientRequest]
)

func NewCoffeeHandler(svc service.CatalogService[entity.CoffeeResponse, entity.CreateCoffeeRequest, entity.UpdateCoffeeRequest], apiPrefix string) *CoffeeHandler {
	return NewEntityHandler(svc, entityPath(apiPrefix, "coffee"))
}

func NewCategoryHandler(svc service.CatalogService[entity.CategoryResponse, entity.CreateCategoryRequest, entity.UpdateCategoryRequest], apiPrefix string) *CategoryHandler {
	return NewEntityHandler(svc, entityPath(apiPrefix, "category"))
}

func NewIngredientHandler(svc service.CatalogService[entity.IngredientResponse, entity.CreateIngredientRequest, entity.UpdateIngredientRequest], apiPrefix string) *IngredientHandler {
	return NewEntityHandler(svc, entityPath(apiPrefix, "ingredient"))
}

// Handlers обработчики, подключаемые к роутеру
type Handlers struct {
	Coffee     *CoffeeHandler
	Category   *CategoryHandler
	Ingredient *IngredientHandler
	Health     *HealthHandler
}

// RouterConfig auth nil - изменяющие маршруты открыты
type RouterConfig struct {
	APIPrefix string
	Auth      *AuthMiddleware
	WriteRole string
}

type crudRoutes interface {
	GetAll(c *gin.Context)
	GetByID(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// SetupRoutes настраивает все маршруты Coffee Service
func SetupRoutes(cfg RouterConfig, h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(ServiceName))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:   []string{"Location", "X-Request-ID"},
		MaxAge:          300,
	}))

	router.GET("/health", h.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var write []gin.HandlerFunc
	if cfg.Auth != nil {
		write = append(write, cfg.Auth.Authenticate())
		if cfg.WriteRole != "" {
			write = append(write, cfg.Auth.RequireRole(cfg.WriteRole))
		} else {
			write = append(write, cfg.Auth.RequireRole())
		}
	}

	api := router.Group(strings.TrimRight(cfg.APIPrefix, "/"))
	registerEntity(api.Group("/coffee"), h.Coffee, write)
	registerEntity(api.Group("/category"), h.Category, write)
	registerEntity(api.Group("/ingredient"), h.Ingredient, write)

	return router
}

// registerEntity чтение публичное, изменения проходят через write
func registerEntity(group *gin.RouterGroup, h crudRoutes, write []gin.HandlerFunc) {
	group.GET("", h.GetAll)
	group.GET("/:id", h.GetByID)

	protected := group.Group("", write...)
	protected.POST("", h.Create)
	protected.PUT("/:id", h.Update)
	protected.DELETE("/:id", h.Delete)
}

func entityPath(apiPrefix, name string) string {
	return strings.TrimRight(apiPrefix, "/") + "/" + name
}
