package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coffeehouse/coffee-service/internal/app/coffee/entity"
	"coffeehouse/pkg/logger"

	"gorm.io/gorm"
)

// AutoMigrate создаёт таблицы и уникальные индексы по LOWER(name)
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.Coffee{}, &entity.Category{}, &entity.Ingredient{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	for _, table := range []string{coffeeTable.table, categoryTable.table, ingredientTable.table} {
		stmt := fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS ux_%s_name_lower ON %s (LOWER(name))",
			table, table,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create unique name index on %s: %w", table, err)
		}
	}

	return nil
}

func strPtr(s string) *string { return &s }

var (
	seedCategories = []entity.Category{
		{Name: "Espresso Drinks", Description: strPtr("Drinks built on an espresso shot")},
		{Name: "Brewed Coffee", Description: strPtr("Filter, pour-over and French press")},
		{Name: "Cold Drinks", Description: strPtr("Iced and cold brew coffee")},
	}
	seedIngredients = []entity.Ingredient{
		{Name: "Whole Milk", Description: strPtr("Steamed or cold"), IsActive: true},
		{Name: "Oat Milk", Description: strPtr("Plant based milk"), IsActive: true},
		{Name: "Vanilla Syrup", IsActive: true},
		{Name: "Cocoa Powder", IsActive: true},
	}
	seedCoffees = []entity.Coffee{
		{Name: "Espresso"},
		{Name: "Americano"},
		{Name: "Cappuccino"},
		{Name: "Latte"},
	}
)

// SeedDefaults добавляет стартовый каталог одной транзакцией.
// Уже существующие имена пропускаются, поэтому повторный запуск безопасен.
func SeedDefaults(ctx context.Context, uow *UnitOfWork, now time.Time) (int, error) {
	inserted := 0

	err := uow.Do(ctx, func(u *UnitOfWork) error {
		n, err := seedAll(ctx, u.Repositories(), now)
		inserted = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed catalog: %w", err)
	}

	logger.Info().Int("inserted", inserted).Msg("Catalog seed completed")
	return inserted, nil
}

// SeedRepositories то же без транзакции, для хранилища в памяти
func SeedRepositories(ctx context.Context, repos Repositories, now time.Time) (int, error) {
	inserted, err := seedAll(ctx, repos, now)
	if err != nil {
		return inserted, fmt.Errorf("failed to seed catalog: %w", err)
	}

	logger.Info().Int("inserted", inserted).Msg("Catalog seed completed")
	return inserted, nil
}

func seedAll(ctx context.Context, repos Repositories, now time.Time) (int, error) {
	inserted := 0

	n, err := seed(ctx, repos.Categories, seedCategories, now, func(c *entity.Category, b entity.Base) { c.Base = b })
	inserted += n
	if err != nil {
		return inserted, err
	}

	n, err = seed(ctx, repos.Ingredients, seedIngredients, now, func(i *entity.Ingredient, b entity.Base) { i.Base = b })
	inserted += n
	if err != nil {
		return inserted, err
	}

	n, err = seed(ctx, repos.Coffees, seedCoffees, now, func(c *entity.Coffee, b entity.Base) { c.Base = b })
	inserted += n
	return inserted, err
}

func seed[T entity.Record](ctx context.Context, repo Repository[T], items []T, now time.Time, stamp func(*T, entity.Base)) (int, error) {
	inserted := 0
	for _, item := range items {
		_, err := repo.GetByName(ctx, item.GetName())
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return inserted, err
		}

		record := item
		stamp(&record, entity.NewBase(now))
		if err := repo.Create(ctx, &record); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
