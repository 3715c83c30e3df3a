package service

import (
	"errors"
	"strings"
	"testing"

	"coffeehouse/coffee-service/internal/app/coffee/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_EntityName(t *testing.T) {
	v := NewValidator()

	valid := []string{"Espresso", "Flat White", "Barista's Choice", "Cold-Brew 2"}
	for _, name := range valid {
		assert.NoError(t, v.Struct(entity.CreateCoffeeRequest{Name: name}), name)
	}

	invalid := []string{"Latte!", "Café", "Mocha@Home", "<script>"}
	for _, name := range invalid {
		assert.Error(t, v.Struct(entity.CreateCoffeeRequest{Name: name}), name)
	}
}

func TestValidator_WhitespaceOnlyName(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		req  interface{}
	}{
		{"coffee spaces", entity.CreateCoffeeRequest{Name: "   "}},
		{"coffee tab newline", entity.CreateCoffeeRequest{Name: "\t\n"}},
		{"coffee update", entity.UpdateCoffeeRequest{Name: "    "}},
		{"category", entity.CreateCategoryRequest{Name: "   "}},
		{"category update", entity.UpdateCategoryRequest{Name: "\t\n"}},
		{"ingredient", entity.CreateIngredientRequest{Name: "   "}},
		{"ingredient update", entity.UpdateIngredientRequest{Name: "\t\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := v.Struct(tt.req)

			// Assert
			require.Error(t, err)
			assert.Equal(t, "name cannot be empty or whitespace", formatValidationError(err))
		})
	}
}

func TestValidator_NameLengthPerEntity(t *testing.T) {
	v := NewValidator()
	name := strings.Repeat("a", 60)

	// у кофе лимит 100, у категории 50
	assert.NoError(t, v.Struct(entity.CreateCoffeeRequest{Name: name}))

	err := v.Struct(entity.CreateCategoryRequest{Name: name})
	require.Error(t, err)
	assert.Equal(t, "name cannot exceed 50 characters", formatValidationError(err))
}

func TestFormatValidationError_JoinsMessages(t *testing.T) {
	v := NewValidator()
	description := strings.Repeat("d", 201)

	err := v.Struct(entity.CreateIngredientRequest{Name: "", Description: &description})

	require.Error(t, err)
	assert.Equal(t, "name is required; description cannot exceed 200 characters", formatValidationError(err))
}

func TestFormatValidationError_ListQuery(t *testing.T) {
	v := NewValidator()

	err := v.Struct(entity.ListQuery{Search: strings.Repeat("s", 51), Page: 0, PageSize: 0})

	require.Error(t, err)
	assert.Equal(t,
		"search cannot exceed 50 characters; page must be at least 1; pageSize must be at least 1",
		formatValidationError(err))
}

func TestFormatValidationError_PlainError(t *testing.T) {
	assert.Equal(t, "boom", formatValidationError(errors.New("boom")))
}
