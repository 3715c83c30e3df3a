package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"coffeehouse/coffee-service/internal/app/coffee/entity"

	"github.com/google/uuid"
)

// memoryRepository реализация Repository в памяти процесса
// (STORAGE_DRIVER=memory). Уникальность имени без учёта регистра
// проверяется так же, как уникальный индекс LOWER(name) в PostgreSQL.
type memoryRepository[T entity.Record] struct {
	mu    sync.RWMutex
	items map[uuid.UUID]T
	spec  tableSpec
}

func NewMemoryCoffeeRepository() CoffeeRepository {
	return newMemoryRepository[entity.Coffee](coffeeTable)
}

func NewMemoryCategoryRepository() CategoryRepository {
	return newMemoryRepository[entity.Category](categoryTable)
}

func NewMemoryIngredientRepository() IngredientRepository {
	return newMemoryRepository[entity.Ingredient](ingredientTable)
}

// NewMemoryRepositories пустое хранилище в памяти для всех сущностей
func NewMemoryRepositories() Repositories {
	return Repositories{
		Coffees:     NewMemoryCoffeeRepository(),
		Categories:  NewMemoryCategoryRepository(),
		Ingredients: NewMemoryIngredientRepository(),
	}
}

func newMemoryRepository[T entity.Record](spec tableSpec) *memoryRepository[T] {
	return &memoryRepository[T]{items: make(map[uuid.UUID]T), spec: spec}
}

func (r *memoryRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	items := r.snapshot()
	r.mu.RUnlock()

	r.sortItems(items, columnName, false)
	return items, nil
}

func (r *memoryRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *memoryRepository[T]) GetByName(ctx context.Context, name string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if item, ok := r.findByName(name, uuid.Nil); ok {
		return &item, nil
	}
	return nil, ErrNotFound
}

func (r *memoryRepository[T]) GetByFilterWithCount(ctx context.Context, query entity.ListQuery) ([]T, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	all := r.snapshot()
	r.mu.RUnlock()

	term := searchTerm(query)
	filtered := all[:0]
	for _, item := range all {
		if term != "" && !strings.Contains(strings.ToLower(item.GetName()), term) {
			continue
		}
		if r.spec.activeFilter && query.IsActive != nil {
			if a, ok := any(item).(entity.Activatable); ok && a.GetIsActive() != *query.IsActive {
				continue
			}
		}
		filtered = append(filtered, item)
	}

	column, desc := r.spec.sortColumn(query)
	r.sortItems(filtered, column, desc)

	total := int64(len(filtered))
	start := query.Skip()
	if start >= len(filtered) {
		return []T{}, total, nil
	}
	end := start + query.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	page := make([]T, end-start)
	copy(page, filtered[start:end])
	return page, total, nil
}

func (r *memoryRepository[T]) Create(ctx context.Context, item *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.findByName((*item).GetName(), uuid.Nil); ok {
		return ErrDuplicateName
	}
	r.items[(*item).GetID()] = *item
	return nil
}

func (r *memoryRepository[T]) Update(ctx context.Context, item *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := (*item).GetID()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	if _, ok := r.findByName((*item).GetName(), id); ok {
		return ErrDuplicateName
	}
	r.items[id] = *item
	return nil
}

func (r *memoryRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
	return nil
}

// findByName ищет запись с таким же именем без учёта регистра, кроме exclude
func (r *memoryRepository[T]) findByName(name string, exclude uuid.UUID) (T, bool) {
	for id, item := range r.items {
		if id != exclude && strings.EqualFold(item.GetName(), name) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (r *memoryRepository[T]) snapshot() []T {
	items := make([]T, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	return items
}

func (r *memoryRepository[T]) sortItems(items []T, column string, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		c := compareColumn(items[i], items[j], column)
		if c == 0 {
			return strings.Compare(items[i].GetID().String(), items[j].GetID().String()) < 0
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareColumn[T entity.Record](a, b T, column string) int {
	switch column {
	case columnCreatedAt:
		return a.GetCreatedAt().Compare(b.GetCreatedAt())
	case columnUpdatedAt:
		return a.GetUpdatedAt().Compare(b.GetUpdatedAt())
	case columnIsActive:
		return compareBool(isActive(a), isActive(b))
	default:
		return strings.Compare(strings.ToLower(a.GetName()), strings.ToLower(b.GetName()))
	}
}

func isActive(item any) bool {
	a, ok := item.(entity.Activatable)
	return ok && a.GetIsActive()
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
