package handler

import (
	"net/http"

	"coffeehouse/coffee-service/internal/app/coffee/entity"
	"coffeehouse/coffee-service/internal/app/coffee/service"
	"coffeehouse/pkg/result"

	"github.com/gin-gonic/gin"
)

// EntityHandler HTTP обработчики одной сущности каталога.
// Тело и код ответа определяются только результатом сервиса.
type EntityHandler[D entity.Resource, C, U entity.NamedRequest] struct {
	service  service.CatalogService[D, C, U]
	basePath string // /api/v1/coffee, используется для Location
}

func NewEntityHandler[D entity.Resource, C, U entity.NamedRequest](svc service.CatalogService[D, C, U], basePath string) *EntityHandler[D, C, U] {
	return &EntityHandler[D, C, U]{
		service:  svc,
		basePath: basePath,
	}
}

// GetAll обрабатывает GET /{entity}?page=&pageSize=&search=&sortBy=&sortDescending=
func (h *EntityHandler[D, C, U]) GetAll(c *gin.Context) {
	query := entity.DefaultListQuery()
	if err := c.ShouldBindQuery(&query); err != nil {
		writeError(c, result.Failure{Message: "Invalid query parameters", Code: result.CodeValidation})
		return
	}

	writeResult(c, h.service.GetAll(c.Request.Context(), query), withStatus[entity.PagedResult[D]](http.StatusOK))
}

// GetByID обрабатывает GET /{entity}/:id
func (h *EntityHandler[D, C, U]) GetByID(c *gin.Context) {
	writeResult(c, h.service.GetByID(c.Request.Context(), c.Param("id")), withStatus[D](http.StatusOK))
}

// Create обрабатывает POST /{entity}, при успехе 201 и Location
func (h *EntityHandler[D, C, U]) Create(c *gin.Context) {
	var req C
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, result.Failure{Message: "Invalid request body", Code: result.CodeValidation})
		return
	}

	writeResult(c, h.service.Create(c.Request.Context(), &req), func(created D) response {
		c.Header("Location", h.basePath+"/"+created.ResourceID().String())
		return response{status: http.StatusCreated, body: created}
	})
}

// Update обрабатывает PUT /{entity}/:id
func (h *EntityHandler[D, C, U]) Update(c *gin.Context) {
	var req U
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, result.Failure{Message: "Invalid request body", Code: result.CodeValidation})
		return
	}

	writeResult(c, h.service.Update(c.Request.Context(), c.Param("id"), &req), withStatus[D](http.StatusOK))
}

// Delete обрабатывает DELETE /{entity}/:id, при успехе 204 без тела
func (h *EntityHandler[D, C, U]) Delete(c *gin.Context) {
	writeResult(c, h.service.Delete(c.Request.Context(), c.Param("id")), func(result.Unit) response {
		return response{status: http.StatusNoContent}
	})
}

// response статус и тело ответа; nil тело означает ответ без тела
type response struct {
	status int
	body   any
}

func withStatus[T any](status int) func(T) response {
	return func(v T) response {
		return response{status: status, body: v}
	}
}

func writeResult[T any](c *gin.Context, r result.Result[T], onSuccess func(T) response) {
	res := result.Match(r, onSuccess, failureResponse)
	if res.body == nil {
		c.Status(res.status)
		return
	}
	c.JSON(res.status, res.body)
}

func writeError(c *gin.Context, failure result.Failure) {
	res := failureResponse(failure)
	c.JSON(res.status, res.body)
}

func failureResponse(failure result.Failure) response {
	return response{
		status: statusFor(failure.Code),
		body: entity.ErrorResponse{
			Error: failure.Message,
			Code:  string(failure.Code),
		},
	}
}

func statusFor(code result.Code) int {
	switch code {
	case result.CodeValidation, result.CodeInvalidID:
		return http.StatusBadRequest
	case result.CodeNotFound:
		return http.StatusNotFound
	case result.CodeDuplicateName:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
