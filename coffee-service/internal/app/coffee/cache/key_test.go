package cache

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder_ListKey(t *testing.T) {
	key := NewKey("coffees", "list").
		Int("page", 1).
		Int("size", 10).
		Str("search", "").
		Str("sort", "").
		Bool("desc", false).
		String()

	assert.Equal(t, "coffees:list:page=1:size=10:search:sort:desc=false", key)
}

func TestKeyBuilder_OptBool(t *testing.T) {
	active := true

	assert.Equal(t, "ingredients:active=true", NewKey("ingredients").OptBool("active", &active).String())
	assert.Equal(t, "ingredients:active", NewKey("ingredients").OptBool("active", nil).String())
}

func TestKeyBuilder_EmptyDiffersFromLiteralNull(t *testing.T) {
	// Arrange
	empty := NewKey("coffees", "list").Str("search", "").Str("sort", "").String()
	literal := NewKey("coffees", "list").Str("search", "null").Str("sort", "null").String()

	// Act & Assert
	assert.NotEqual(t, empty, literal)
	assert.Equal(t, "coffees:list:search:sort", empty)
	assert.Equal(t, "coffees:list:search=null:sort=null", literal)
}

func TestKeyBuilder_AbsentDiffersFromEmbeddedSeparator(t *testing.T) {
	withSeparator := NewKey("coffees").Str("search", "x:sort").String()
	split := NewKey("coffees").Str("search", "x").Str("sort", "").String()

	assert.NotEqual(t, withSeparator, split)
}

func TestKeyBuilder_Deterministic(t *testing.T) {
	build := func() string {
		return NewKey("categories", "list").Int("page", 2).Str("search", "dark roast").String()
	}

	assert.Equal(t, build(), build())
}

func TestKeyBuilder_EscapesSeparator(t *testing.T) {
	withColon := NewKey("coffees").Str("search", "a:sortname").Str("sort", "").String()
	plain := NewKey("coffees").Str("search", "a").Str("sort", "name").String()

	assert.NotEqual(t, withColon, plain)
	assert.Equal(t, "coffees:search=a%3Asortname:sort", withColon)
}

func TestKeyBuilder_Part(t *testing.T) {
	assert.Equal(t, "coffee:42", NewKey("coffee").Part("42").String())
}

func TestKeyIndex_TrackAndDrain(t *testing.T) {
	idx := NewKeyIndex()

	idx.Track("a")
	idx.Track("b")
	idx.Track("a")
	assert.Equal(t, 2, idx.Len())

	keys := idx.Drain()
	sort.Strings(keys)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Drain())
}

func TestKeyIndex_Concurrent(t *testing.T) {
	idx := NewKeyIndex()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			idx.Track(fmt.Sprintf("k%d", n%10))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, idx.Len())
}
