package entity

import (
	"time"

	"github.com/google/uuid"
)

// ==================== Coffee ====================

type CreateCoffeeRequest struct {
	Name string `json:"name" validate:"required,notblank,min=2,max=100,entityname"`
}

type UpdateCoffeeRequest struct {
	Name string `json:"name" validate:"required,notblank,min=2,max=100,entityname"`
}

type CoffeeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ==================== Category ====================

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,notblank,min=2,max=50,entityname"`
	Description *string `json:"description" validate:"omitempty,max=200"`
}

type UpdateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,notblank,min=2,max=50,entityname"`
	Description *string `json:"description" validate:"omitempty,max=200"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ==================== Ingredient ====================

// IsActive не указан - ингредиент активен
type CreateIngredientRequest struct {
	Name        string  `json:"name" validate:"required,notblank,min=2,max=50,entityname"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	IsActive    *bool   `json:"isActive"`
}

type UpdateIngredientRequest struct {
	Name        string  `json:"name" validate:"required,notblank,min=2,max=50,entityname"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	IsActive    *bool   `json:"isActive"`
}

type IngredientResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r CreateCoffeeRequest) RequestedName() string     { return r.Name }
func (r UpdateCoffeeRequest) RequestedName() string     { return r.Name }
func (r CreateCategoryRequest) RequestedName() string   { return r.Name }
func (r UpdateCategoryRequest) RequestedName() string   { return r.Name }
func (r CreateIngredientRequest) RequestedName() string { return r.Name }
func (r UpdateIngredientRequest) RequestedName() string { return r.Name }

func (r CoffeeResponse) ResourceID() uuid.UUID     { return r.ID }
func (r CategoryResponse) ResourceID() uuid.UUID   { return r.ID }
func (r IngredientResponse) ResourceID() uuid.UUID { return r.ID }

// NamedRequest тело create/update запроса
type NamedRequest interface {
	RequestedName() string
}

// Resource ответ с идентификатором (нужен для Location)
type Resource interface {
	ResourceID() uuid.UUID
}

// ==================== Списки ====================

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ListQuery параметры списка. IsActive учитывается только для ингредиентов.
type ListQuery struct {
	Search         string `form:"search" json:"search" validate:"max=50"`
	SortBy         string `form:"sortBy" json:"sortBy"`
	SortDescending bool   `form:"sortDescending" json:"sortDescending"`
	Page           int    `form:"page,default=1" json:"page" validate:"min=1"`
	PageSize       int    `form:"pageSize,default=10" json:"pageSize" validate:"min=1,max=100"`
	IsActive       *bool  `form:"isActive" json:"isActive"`
}

// DefaultListQuery первая страница без фильтров
func DefaultListQuery() ListQuery {
	return ListQuery{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Skip количество записей, пропускаемых до текущей страницы
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.PageSize
}

// PagedResult конверт постраничной выдачи
type PagedResult[T any] struct {
	Items           []T   `json:"items"`
	TotalCount      int64 `json:"totalCount"`
	Page            int   `json:"page"`
	PageSize        int   `json:"pageSize"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPagedResult считает производные поля; pageSize должен быть > 0
func NewPagedResult[T any](items []T, totalCount int64, page, pageSize int) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	return PagedResult[T]{
		Items:           items,
		TotalCount:      totalCount,
		Page:            page,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// ErrorResponse тело ответа при ошибке
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ==================== События ====================

type EventType string

const (
	EventCreated EventType = "CREATED"
	EventUpdated EventType = "UPDATED"
	EventDeleted EventType = "DELETED"
)

// CatalogEvent событие об изменении каталога для Kafka
type CatalogEvent struct {
	EventType  string    `json:"event_type"` // COFFEE_CREATED, INGREDIENT_DELETED и т.д.
	Entity     string    `json:"entity"`
	EntityID   uuid.UUID `json:"entity_id"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
