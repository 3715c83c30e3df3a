package repository

import (
	"context"
	"errors"
	"strings"

	"coffeehouse/coffee-service/internal/app/coffee/entity"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("name already exists")
)

// Repository операции хранилища, общие для всех сущностей каталога.
// Отсутствие записи в GetByID и GetByName - ErrNotFound.
// Нарушение уникальности имени в Create и Update - ErrDuplicateName.
type Repository[T entity.Record] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	// GetByName сравнивает имена без учёта регистра
	GetByName(ctx context.Context, name string) (*T, error)
	// GetByFilterWithCount возвращает страницу и общее число записей под фильтром
	GetByFilterWithCount(ctx context.Context, query entity.ListQuery) ([]T, int64, error)
	Create(ctx context.Context, item *T) error
	// Update ErrNotFound, если записи нет
	Update(ctx context.Context, item *T) error
	// Delete отсутствие записи не ошибка
	Delete(ctx context.Context, id uuid.UUID) error
}

type (
	CoffeeRepository     = Repository[entity.Coffee]
	CategoryRepository   = Repository[entity.Category]
	IngredientRepository = Repository[entity.Ingredient]
)

// Repositories репозитории всех сущностей каталога одного хранилища
type Repositories struct {
	Coffees     CoffeeRepository
	Categories  CategoryRepository
	Ingredients IngredientRepository
}

// Колонки сортировки: ключ - значение sortBy в нижнем регистре
const (
	columnName      = "name"
	columnCreatedAt = "created_at"
	columnUpdatedAt = "updated_at"
	columnIsActive  = "is_active"
)

var baseSortColumns = map[string]string{
	"name":      columnName,
	"createdat": columnCreatedAt,
	"updatedat": columnUpdatedAt,
}

var ingredientSortColumns = map[string]string{
	"name":      columnName,
	"createdat": columnCreatedAt,
	"updatedat": columnUpdatedAt,
	"isactive":  columnIsActive,
}

// tableSpec то, чем сущности различаются для хранилища
type tableSpec struct {
	table        string
	sortColumns  map[string]string
	activeFilter bool // учитывать ListQuery.IsActive
}

var (
	coffeeTable     = tableSpec{table: "coffees", sortColumns: baseSortColumns}
	categoryTable   = tableSpec{table: "categories", sortColumns: baseSortColumns}
	ingredientTable = tableSpec{table: "ingredients", sortColumns: ingredientSortColumns, activeFilter: true}
)

// sortColumn колонка и направление сортировки. Неизвестное поле -
// сортировка по имени по возрастанию, флаг направления игнорируется.
func (s tableSpec) sortColumn(query entity.ListQuery) (string, bool) {
	if query.SortBy == "" {
		return columnName, false
	}
	column, ok := s.sortColumns[strings.ToLower(query.SortBy)]
	if !ok {
		return columnName, false
	}
	return column, query.SortDescending
}

// searchTerm подстрока поиска в нижнем регистре; пустая строка - без фильтра
func searchTerm(query entity.ListQuery) string {
	if strings.TrimSpace(query.Search) == "" {
		return ""
	}
	return strings.ToLower(query.Search)
}
