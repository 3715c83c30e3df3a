package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base общие поля всех сущностей каталога.
// Время выставляет сервис, автоматическое заполнение gorm отключено.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;index;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;index;autoUpdateTime:false" json:"updatedAt"`
}

// NewBase новая идентичность с одинаковыми CreatedAt и UpdatedAt
func NewBase(now time.Time) Base {
	now = now.UTC()
	return Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch обновляет только UpdatedAt
func (b *Base) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}

func (b Base) GetID() uuid.UUID        { return b.ID }
func (b Base) GetCreatedAt() time.Time { return b.CreatedAt }
func (b Base) GetUpdatedAt() time.Time { return b.UpdatedAt }

// Record контракт, общий для Coffee, Category и Ingredient
type Record interface {
	GetID() uuid.UUID
	GetName() string
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// Activatable сущности с флагом активности (фильтр и сортировка isActive)
type Activatable interface {
	GetIsActive() bool
}

// Coffee представляет кофе в каталоге
type Coffee struct {
	Base
	Name string `gorm:"type:varchar(100);not null" json:"name"`
}

func (Coffee) TableName() string { return "coffees" }

func (c Coffee) GetName() string { return c.Name }

// Category представляет категорию
type Category struct {
	Base
	Name        string  `gorm:"type:varchar(50);not null" json:"name"`
	Description *string `gorm:"type:varchar(200)" json:"description"`
}

func (Category) TableName() string { return "categories" }

func (c Category) GetName() string { return c.Name }

// Ingredient представляет ингредиент
type Ingredient struct {
	Base
	Name        string  `gorm:"type:varchar(50);not null" json:"name"`
	Description *string `gorm:"type:varchar(200)" json:"description"`
	IsActive    bool    `gorm:"not null;index" json:"isActive"`
}

func (Ingredient) TableName() string { return "ingredients" }

func (i Ingredient) GetName() string { return i.Name }

func (i Ingredient) GetIsActive() bool { return i.IsActive }
