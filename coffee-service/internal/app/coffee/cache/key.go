package cache

import (
	"strconv"
	"strings"
	"sync"
)

const (
	keySeparator   = ":"
	valueSeparator = "="
)

var keyEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// KeyBuilder собирает детерминированный ключ: префикс и параметры
// в фиксированном порядке. Заданное значение пишется как name=value,
// отсутствующее как одно имя без "=".
//
//	cache.NewKey("coffees", "list").Int("page", 1).Str("search", "").String()
//	// coffees:list:page=1:search
type KeyBuilder struct {
	parts []string
}

func NewKey(prefix ...string) *KeyBuilder {
	parts := make([]string, 0, len(prefix)+6)
	for _, p := range prefix {
		parts = append(parts, keyEscaper.Replace(p))
	}
	return &KeyBuilder{parts: parts}
}

// Part добавляет значение без имени (например, id)
func (k *KeyBuilder) Part(value string) *KeyBuilder {
	k.parts = append(k.parts, keyEscaper.Replace(value))
	return k
}

// Str пустую строку считает отсутствующим значением
func (k *KeyBuilder) Str(name, value string) *KeyBuilder {
	if value == "" {
		return k.absent(name)
	}
	return k.param(name, keyEscaper.Replace(value))
}

func (k *KeyBuilder) Int(name string, value int) *KeyBuilder {
	return k.param(name, strconv.Itoa(value))
}

func (k *KeyBuilder) Bool(name string, value bool) *KeyBuilder {
	return k.param(name, strconv.FormatBool(value))
}

func (k *KeyBuilder) OptBool(name string, value *bool) *KeyBuilder {
	if value == nil {
		return k.absent(name)
	}
	return k.Bool(name, *value)
}

func (k *KeyBuilder) param(name, value string) *KeyBuilder {
	k.parts = append(k.parts, name+valueSeparator+value)
	return k
}

func (k *KeyBuilder) absent(name string) *KeyBuilder {
	k.parts = append(k.parts, name)
	return k
}

func (k *KeyBuilder) String() string {
	return strings.Join(k.parts, keySeparator)
}

// KeyIndex множество выданных ключей списков одной сущности.
// Сервис регистрирует каждый записанный ключ списка и удаляет
// все такие ключи при изменении данных.
type KeyIndex struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func NewKeyIndex() *KeyIndex {
	return &KeyIndex{keys: make(map[string]struct{})}
}

func (i *KeyIndex) Track(key string) {
	i.mu.Lock()
	i.keys[key] = struct{}{}
	i.mu.Unlock()
}

// Drain возвращает все ключи и очищает индекс
func (i *KeyIndex) Drain() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	keys := make([]string, 0, len(i.keys))
	for k := range i.keys {
		keys = append(keys, k)
	}
	i.keys = make(map[string]struct{})
	return keys
}

func (i *KeyIndex) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.keys)
}
