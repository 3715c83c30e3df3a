package service

import (
	"context"
	"time"

	"coffeehouse/coffee-service/internal/app/coffee/entity"
	"coffeehouse/pkg/result"
)

// Validator проверка DTO по тегам validate (реализуется *validator.Validate)
type Validator interface {
	Struct(s interface{}) error
}

// Mapper преобразования между моделью и DTO одной сущности
type Mapper[T entity.Record, D any, C, U entity.NamedRequest] interface {
	ToResponse(item *T) D
	// FromCreate новая модель с уже выданными id и временем
	FromCreate(req *C, base entity.Base) *T
	// ApplyUpdate переносит поля запроса и обновляет UpdatedAt
	ApplyUpdate(item *T, req *U, now time.Time)
}

// CatalogService операции над одной сущностью каталога; используется HTTP слоем
type CatalogService[D any, C, U entity.NamedRequest] interface {
	GetAll(ctx context.Context, query entity.ListQuery) result.Result[entity.PagedResult[D]]
	GetByID(ctx context.Context, id string) result.Result[D]
	Create(ctx context.Context, req *C) result.Result[D]
	Update(ctx context.Context, id string, req *U) result.Result[D]
	Delete(ctx context.Context, id string) result.Result[result.Unit]
}

// CacheWarmer прогрев кеша списков; используется планировщиком
type CacheWarmer interface {
	EntityName() string
	WarmListCache(ctx context.Context) error
}
