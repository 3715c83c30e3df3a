package service

import (
	"time"

	"coffeehouse/coffee-service/internal/app/coffee/entity"
	"coffeehouse/coffee-service/internal/app/coffee/repository"
)

type (
	CoffeeService     = EntityService[entity.Coffee, entity.CoffeeResponse, entity.CreateCoffeeRequest, entity.UpdateCoffeeRequest]
	CategoryService   = EntityService[entity.Category, entity.CategoryResponse, entity.CreateCategoryRequest, entity.UpdateCategoryRequest]
	IngredientService = EntityService[entity.Ingredient, entity.IngredientResponse, entity.CreateIngredientRequest, entity.UpdateIngredientRequest]
)

var (
	CoffeeKind     = Kind{Name: "coffee", Plural: "coffees", Title: "Coffee"}
	CategoryKind   = Kind{Name: "category", Plural: "categories", Title: "Category"}
	IngredientKind = Kind{Name: "ingredient", Plural: "ingredients", Title: "Ingredient", ActiveFilter: true}
)

func NewCoffeeService(repo repository.CoffeeRepository, deps Dependencies) *CoffeeService {
	return NewEntityService[entity.Coffee, entity.CoffeeResponse, entity.CreateCoffeeRequest, entity.UpdateCoffeeRequest](
		CoffeeKind, repo, coffeeMapper{}, deps)
}

func NewCategoryService(repo repository.CategoryRepository, deps Dependencies) *CategoryService {
	return NewEntityService[entity.Category, entity.CategoryResponse, entity.CreateCategoryRequest, entity.UpdateCategoryRequest](
		CategoryKind, repo, categoryMapper{}, deps)
}

func NewIngredientService(repo repository.IngredientRepository, deps Dependencies) *IngredientService {
	return NewEntityService[entity.Ingredient, entity.IngredientResponse, entity.CreateIngredientRequest, entity.UpdateIngredientRequest](
		IngredientKind, repo, ingredientMapper{}, deps)
}

// ==================== Coffee ====================

type coffeeMapper struct{}

func (coffeeMapper) ToResponse(c *entity.Coffee) entity.CoffeeResponse {
	return entity.CoffeeResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (coffeeMapper) FromCreate(req *entity.CreateCoffeeRequest, base entity.Base) *entity.Coffee {
	return &entity.Coffee{Base: base, Name: req.Name}
}

func (coffeeMapper) ApplyUpdate(c *entity.Coffee, req *entity.UpdateCoffeeRequest, now time.Time) {
	c.Name = req.Name
	c.Touch(now)
}

// ==================== Category ====================

type categoryMapper struct{}

func (categoryMapper) ToResponse(c *entity.Category) entity.CategoryResponse {
	return entity.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (categoryMapper) FromCreate(req *entity.CreateCategoryRequest, base entity.Base) *entity.Category {
	return &entity.Category{Base: base, Name: req.Name, Description: req.Description}
}

func (categoryMapper) ApplyUpdate(c *entity.Category, req *entity.UpdateCategoryRequest, now time.Time) {
	c.Name = req.Name
	c.Description = req.Description
	c.Touch(now)
}

// ==================== Ingredient ====================

type ingredientMapper struct{}

func (ingredientMapper) ToResponse(i *entity.Ingredient) entity.IngredientResponse {
	return entity.IngredientResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		IsActive:    i.IsActive,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func (ingredientMapper) FromCreate(req *entity.CreateIngredientRequest, base entity.Base) *entity.Ingredient {
	return &entity.Ingredient{
		Base:        base,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    activeOrDefault(req.IsActive),
	}
}

func (ingredientMapper) ApplyUpdate(i *entity.Ingredient, req *entity.UpdateIngredientRequest, now time.Time) {
	i.Name = req.Name
	i.Description = req.Description
	i.IsActive = activeOrDefault(req.IsActive)
	i.Touch(now)
}

func activeOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
