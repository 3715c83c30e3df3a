package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coffeehouse/coffee-service/internal/app/coffee/entity"
	"coffeehouse/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	metricsService    = "coffee-service"
	pgUniqueViolation = "23505"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// gormRepository реализация Repository на PostgreSQL через GORM
type gormRepository[T entity.Record] struct {
	db   *gorm.DB
	spec tableSpec
}

func NewCoffeeRepository(db *gorm.DB) CoffeeRepository {
	return &gormRepository[entity.Coffee]{db: db, spec: coffeeTable}
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &gormRepository[entity.Category]{db: db, spec: categoryTable}
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &gormRepository[entity.Ingredient]{db: db, spec: ingredientTable}
}

func (r *gormRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, r.spec.table)

	var items []T
	err := r.db.WithContext(ctx).Order(columnName + " ASC").Find(&items).Error
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.spec.table, err)
	}
	return items, nil
}

func (r *gormRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, r.spec.table)

	var item T
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		timer.Done(nil)
		return nil, ErrNotFound
	}
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s by id: %w", r.spec.table, err)
	}
	return &item, nil
}

func (r *gormRepository[T]) GetByName(ctx context.Context, name string) (*T, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, r.spec.table)

	var item T
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		timer.Done(nil)
		return nil, ErrNotFound
	}
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s by name: %w", r.spec.table, err)
	}
	return &item, nil
}

func (r *gormRepository[T]) GetByFilterWithCount(ctx context.Context, query entity.ListQuery) ([]T, int64, error) {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpSelect, r.spec.table)

	tx := r.db.WithContext(ctx).Model(new(T))
	if term := searchTerm(query); term != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+likeEscaper.Replace(term)+"%")
	}
	if r.spec.activeFilter && query.IsActive != nil {
		tx = tx.Where(columnIsActive+" = ?", *query.IsActive)
	}
	// один и тот же фильтр используется для COUNT и для выборки страницы
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		timer.Done(err)
		return nil, 0, fmt.Errorf("failed to count %s: %w", r.spec.table, err)
	}

	column, desc := r.spec.sortColumn(query)
	direction := "ASC"
	if desc {
		direction = "DESC"
	}

	var items []T
	err := tx.
		Order(fmt.Sprintf("%s %s, id ASC", column, direction)).
		Offset(query.Skip()).
		Limit(query.PageSize).
		Find(&items).Error
	timer.Done(err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to filter %s: %w", r.spec.table, err)
	}

	return items, total, nil
}

func (r *gormRepository[T]) Create(ctx context.Context, item *T) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpInsert, r.spec.table)

	err := r.db.WithContext(ctx).Create(item).Error
	timer.Done(err)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create %s: %w", r.spec.table, err)
	}
	return nil
}

// Update перезаписывает все поля, кроме id и created_at
func (r *gormRepository[T]) Update(ctx context.Context, item *T) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpUpdate, r.spec.table)

	result := r.db.WithContext(ctx).
		Model(item).
		Select("*").
		Omit("id", "created_at").
		Updates(item)
	timer.Done(result.Error)

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to update %s: %w", r.spec.table, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer(metricsService, metrics.DbOpDelete, r.spec.table)

	err := r.db.WithContext(ctx).Delete(new(T), "id = ?", id).Error
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.spec.table, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
