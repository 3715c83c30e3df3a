package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coffeehouse/pkg/logger"

	"gorm.io/gorm"
)

var (
	ErrTransactionActive = errors.New("transaction already in progress")
	ErrNoTransaction     = errors.New("no transaction in progress")
)

// UnitOfWork объединяет изменения нескольких репозиториев в одну транзакцию.
// Не потокобезопасен: один экземпляр на одну единицу работы.
type UnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTransactionActive
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	u.tx = tx
	return nil
}

// Commit фиксирует транзакцию. Если фиксация не удалась, транзакция откатывается.
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	tx := u.tx
	u.tx = nil

	if err := tx.Commit().Error; err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error().Err(rbErr).Msg("Failed to rollback after commit failure")
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback без активной транзакции ничего не делает
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil

	if err := tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// InTransaction есть ли активная транзакция
func (u *UnitOfWork) InTransaction() bool {
	return u.tx != nil
}

// Do выполняет fn в транзакции: ошибка fn - откат, иначе фиксация
func (u *UnitOfWork) Do(ctx context.Context, fn func(uow *UnitOfWork) error) error {
	if err := u.Begin(ctx); err != nil {
		return err
	}

	if err := fn(u); err != nil {
		if rbErr := u.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	return u.Commit()
}

// Репозитории работают в транзакции, если она начата
func (u *UnitOfWork) Coffees() CoffeeRepository {
	return NewCoffeeRepository(u.conn())
}

func (u *UnitOfWork) Categories() CategoryRepository {
	return NewCategoryRepository(u.conn())
}

func (u *UnitOfWork) Ingredients() IngredientRepository {
	return NewIngredientRepository(u.conn())
}

func (u *UnitOfWork) Repositories() Repositories {
	return Repositories{
		Coffees:     u.Coffees(),
		Categories:  u.Categories(),
		Ingredients: u.Ingredients(),
	}
}

func (u *UnitOfWork) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}
