package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"coffeehouse/coffee-service/internal/app/coffee/cache"
	"coffeehouse/coffee-service/internal/app/coffee/entity"
	"coffeehouse/coffee-service/internal/app/coffee/infrastructure"
	"coffeehouse/coffee-service/internal/app/coffee/repository"
	"coffeehouse/pkg/logger"
	"coffeehouse/pkg/metrics"
	"coffeehouse/pkg/result"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	listCacheTTL = 5 * time.Minute
	itemCacheTTL = 15 * time.Minute
)

// Kind имена сущности для ключей кеша, сообщений и событий
type Kind struct {
	Name         string // coffee
	Plural       string // coffees
	Title        string // Coffee
	ActiveFilter bool   // список фильтруется по isActive
}

// Dependencies общие зависимости сервисов каталога
type Dependencies struct {
	Cache     cache.Store
	Validator Validator
	Publisher infrastructure.MessagePublisher // nil - события не отправляются
	Now       func() time.Time                // nil - time.Now
}

// EntityService бизнес-логика одной сущности каталога:
// валидация, кеширование чтений, инвалидация при записи, события.
// Ожидаемые ошибки возвращаются в result.Result, инфраструктурные
// логируются и превращаются в INTERNAL_ERROR.
type EntityService[T entity.Record, D any, C, U entity.NamedRequest] struct {
	kind      Kind
	repo      repository.Repository[T]
	mapper    Mapper[T, D, C, U]
	cache     cache.Store
	listKeys  *cache.KeyIndex
	validator Validator
	publisher infrastructure.MessagePublisher
	now       func() time.Time
}

func NewEntityService[T entity.Record, D any, C, U entity.NamedRequest](
	kind Kind,
	repo repository.Repository[T],
	mapper Mapper[T, D, C, U],
	deps Dependencies,
) *EntityService[T, D, C, U] {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &EntityService[T, D, C, U]{
		kind:      kind,
		repo:      repo,
		mapper:    mapper,
		cache:     deps.Cache,
		listKeys:  cache.NewKeyIndex(),
		validator: deps.Validator,
		publisher: deps.Publisher,
		now:       now,
	}
}

// GetAll страница списка: кеш на 5 минут по ключу из всех параметров запроса
func (s *EntityService[T, D, C, U]) GetAll(ctx context.Context, query entity.ListQuery) result.Result[entity.PagedResult[D]] {
	if !s.kind.ActiveFilter {
		query.IsActive = nil
	}

	if err := s.validator.Struct(query); err != nil {
		return fail[entity.PagedResult[D]](s.kind, formatValidationError(err), result.CodeValidation)
	}

	key := s.listKey(query)
	if cached, ok := cache.Get[entity.PagedResult[D]](ctx, s.cache, key); ok {
		logger.Debug().Str("entity", s.kind.Name).Str("cache_key", key).Msg("Cache hit for list")
		s.listKeys.Track(key)
		return result.Success(cached)
	}

	items, total, err := s.repo.GetByFilterWithCount(ctx, query)
	if err != nil {
		s.errorEvent(ctx, err).
			Interface("query", query).
			Msg("Failed to retrieve list")
		return fail[entity.PagedResult[D]](s.kind,
			fmt.Sprintf("An error occurred while retrieving the %s list", s.kind.Name), result.CodeInternal)
	}

	dtos := make([]D, 0, len(items))
	for i := range items {
		dtos = append(dtos, s.mapper.ToResponse(&items[i]))
	}
	page := entity.NewPagedResult(dtos, total, query.Page, query.PageSize)

	cache.Set(ctx, s.cache, key, page, listCacheTTL)
	s.listKeys.Track(key)

	return result.Success(page)
}

// GetByID запись по id: кеш на 15 минут
func (s *EntityService[T, D, C, U]) GetByID(ctx context.Context, id string) result.Result[D] {
	uid, ok := parseID(id)
	if !ok {
		return fail[D](s.kind, s.invalidIDMessage(), result.CodeInvalidID)
	}

	key := s.itemKey(uid)
	if cached, ok := cache.Get[D](ctx, s.cache, key); ok {
		logger.Debug().Str("entity", s.kind.Name).Str("cache_key", key).Msg("Cache hit")
		return result.Success(cached)
	}

	item, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn().Str("entity", s.kind.Name).Str("id", id).Msg("Entity not found")
			return fail[D](s.kind, s.notFoundMessage(id), result.CodeNotFound)
		}
		s.errorEvent(ctx, err).Str("id", id).Msg("Failed to retrieve entity")
		return fail[D](s.kind, fmt.Sprintf("An error occurred while retrieving the %s", s.kind.Name), result.CodeInternal)
	}

	dto := s.mapper.ToResponse(item)
	cache.Set(ctx, s.cache, key, dto, itemCacheTTL)

	return result.Success(dto)
}

// Create проверяет поля и уникальность имени, сохраняет запись
// и сбрасывает кеш списков
func (s *EntityService[T, D, C, U]) Create(ctx context.Context, req *C) result.Result[D] {
	if req == nil {
		return fail[D](s.kind, "Request body is required", result.CodeValidation)
	}
	if err := s.validator.Struct(req); err != nil {
		return fail[D](s.kind, formatValidationError(err), result.CodeValidation)
	}

	name := (*req).RequestedName()
	_, err := s.repo.GetByName(ctx, name)
	switch {
	case err == nil:
		return fail[D](s.kind, fmt.Sprintf("%s with name '%s' already exists", s.kind.Title, name), result.CodeDuplicateName)
	case !errors.Is(err, repository.ErrNotFound):
		s.errorEvent(ctx, err).Str("name", name).Msg("Failed to check name uniqueness")
		return fail[D](s.kind, fmt.Sprintf("An error occurred while creating the %s", s.kind.Name), result.CodeInternal)
	}

	item := s.mapper.FromCreate(req, entity.NewBase(s.now()))
	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return fail[D](s.kind, fmt.Sprintf("%s with name '%s' already exists", s.kind.Title, name), result.CodeDuplicateName)
		}
		s.errorEvent(ctx, err).Str("name", name).Msg("Failed to create entity")
		return fail[D](s.kind, fmt.Sprintf("An error occurred while creating the %s", s.kind.Name), result.CodeInternal)
	}

	s.invalidateLists(ctx)
	s.publish(ctx, entity.EventCreated, item)
	metrics.RecordCatalogMutation(s.kind.Name, "create")

	logger.Info().
		Str("entity", s.kind.Name).
		Str("id", (*item).GetID().String()).
		Str("name", name).
		Msg("Entity created")

	return result.Success(s.mapper.ToResponse(item))
}

// Update порядок проверок: id, поля, существование, уникальность имени
func (s *EntityService[T, D, C, U]) Update(ctx context.Context, id string, req *U) result.Result[D] {
	uid, ok := parseID(id)
	if !ok {
		return fail[D](s.kind, s.invalidIDMessage(), result.CodeInvalidID)
	}
	if req == nil {
		return fail[D](s.kind, "Request body is required", result.CodeValidation)
	}
	if err := s.validator.Struct(req); err != nil {
		return fail[D](s.kind, formatValidationError(err), result.CodeValidation)
	}

	existing, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail[D](s.kind, s.notFoundMessage(id), result.CodeNotFound)
		}
		s.errorEvent(ctx, err).Str("id", id).Msg("Failed to load entity for update")
		return fail[D](s.kind, fmt.Sprintf("An error occurred while updating the %s", s.kind.Name), result.CodeInternal)
	}

	name := (*req).RequestedName()
	other, err := s.repo.GetByName(ctx, name)
	switch {
	case err == nil && (*other).GetID() != uid:
		return fail[D](s.kind, fmt.Sprintf("Another %s with name '%s' already exists", s.kind.Name, name), result.CodeDuplicateName)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		s.errorEvent(ctx, err).Str("id", id).Str("name", name).Msg("Failed to check name uniqueness")
		return fail[D](s.kind, fmt.Sprintf("An error occurred while updating the %s", s.kind.Name), result.CodeInternal)
	}

	s.mapper.ApplyUpdate(existing, req, s.now())

	if err := s.repo.Update(ctx, existing); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fail[D](s.kind, s.notFoundMessage(id), result.CodeNotFound)
		case errors.Is(err, repository.ErrDuplicateName):
			return fail[D](s.kind, fmt.Sprintf("Another %s with name '%s' already exists", s.kind.Name, name), result.CodeDuplicateName)
		}
		s.errorEvent(ctx, err).Str("id", id).Msg("Failed to update entity")
		return fail[D](s.kind, fmt.Sprintf("An error occurred while updating the %s", s.kind.Name), result.CodeInternal)
	}

	s.cache.Remove(ctx, s.itemKey(uid))
	s.invalidateLists(ctx)
	s.publish(ctx, entity.EventUpdated, existing)
	metrics.RecordCatalogMutation(s.kind.Name, "update")

	logger.Info().Str("entity", s.kind.Name).Str("id", id).Msg("Entity updated")

	return result.Success(s.mapper.ToResponse(existing))
}

// Delete удаляет запись и её ключи в кеше
func (s *EntityService[T, D, C, U]) Delete(ctx context.Context, id string) result.Result[result.Unit] {
	uid, ok := parseID(id)
	if !ok {
		return fail[result.Unit](s.kind, s.invalidIDMessage(), result.CodeInvalidID)
	}

	existing, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail[result.Unit](s.kind, s.notFoundMessage(id), result.CodeNotFound)
		}
		s.errorEvent(ctx, err).Str("id", id).Msg("Failed to load entity for delete")
		return fail[result.Unit](s.kind, fmt.Sprintf("An error occurred while deleting the %s", s.kind.Name), result.CodeInternal)
	}

	if err := s.repo.Delete(ctx, uid); err != nil {
		s.errorEvent(ctx, err).Str("id", id).Msg("Failed to delete entity")
		return fail[result.Unit](s.kind, fmt.Sprintf("An error occurred while deleting the %s", s.kind.Name), result.CodeInternal)
	}

	s.cache.Remove(ctx, s.itemKey(uid))
	s.invalidateLists(ctx)
	s.publish(ctx, entity.EventDeleted, existing)
	metrics.RecordCatalogMutation(s.kind.Name, "delete")

	logger.Info().Str("entity", s.kind.Name).Str("id", id).Msg("Entity deleted")

	return result.Done()
}

func (s *EntityService[T, D, C, U]) EntityName() string {
	return s.kind.Name
}

// WarmListCache заполняет кеш первой страницы списка по умолчанию
func (s *EntityService[T, D, C, U]) WarmListCache(ctx context.Context) error {
	warmed := result.Map(s.GetAll(ctx, entity.DefaultListQuery()), func(page entity.PagedResult[D]) int {
		return len(page.Items)
	})
	if failure, failed := warmed.Failure(); failed {
		return fmt.Errorf("%s: %s", failure.Code, failure.Message)
	}

	logger.Debug().
		Str("entity", s.kind.Name).
		Int("items", warmed.Value()).
		Msg("List cache warmed")
	return nil
}

func (s *EntityService[T, D, C, U]) listKey(query entity.ListQuery) string {
	key := cache.NewKey(s.kind.Plural, "list").
		Int("page", query.Page).
		Int("size", query.PageSize).
		Str("search", query.Search)
	if s.kind.ActiveFilter {
		key = key.OptBool("active", query.IsActive)
	}
	return key.
		Str("sort", query.SortBy).
		Bool("desc", query.SortDescending).
		String()
}

func (s *EntityService[T, D, C, U]) itemKey(id uuid.UUID) string {
	return cache.NewKey(s.kind.Name).Part(id.String()).String()
}

// invalidateLists удаляет все закешированные страницы списка
func (s *EntityService[T, D, C, U]) invalidateLists(ctx context.Context) {
	keys := s.listKeys.Drain()
	for _, key := range keys {
		s.cache.Remove(ctx, key)
	}
	metrics.RecordCacheInvalidation(s.kind.Name, len(keys))
}

// publish отправляет событие; ошибка отправки запрос не ломает
func (s *EntityService[T, D, C, U]) publish(ctx context.Context, eventType entity.EventType, item *T) {
	if s.publisher == nil {
		return
	}

	event := entity.CatalogEvent{
		EventType:  strings.ToUpper(s.kind.Name) + "_" + string(eventType),
		Entity:     s.kind.Name,
		EntityID:   (*item).GetID(),
		Name:       (*item).GetName(),
		OccurredAt: s.now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", event.EventType).Msg("Failed to marshal catalog event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, event.EntityID.String(), data); err != nil {
		logger.Error().
			Err(err).
			Str("event_type", event.EventType).
			Str("id", event.EntityID.String()).
			Msg("Failed to publish catalog event")
	}
}

// errorEvent отменённый клиентом запрос пишется как warn
func (s *EntityService[T, D, C, U]) errorEvent(ctx context.Context, err error) *zerolog.Event {
	event := logger.Error()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		event = logger.Warn()
	}
	event = event.Err(err).Str("entity", s.kind.Name)
	if requestID := logger.RequestID(ctx); requestID != "" {
		event = event.Str("request_id", requestID)
	}
	return event
}

func (s *EntityService[T, D, C, U]) invalidIDMessage() string {
	return fmt.Sprintf("Invalid %s ID", s.kind.Name)
}

func (s *EntityService[T, D, C, U]) notFoundMessage(id string) string {
	return fmt.Sprintf("%s '%s' not found", s.kind.Title, id)
}

func fail[R any](kind Kind, message string, code result.Code) result.Result[R] {
	metrics.RecordCatalogFailure(kind.Name, string(code))
	return result.Fail[R](message, code)
}

// parseID пустой, нулевой или неразборчивый id недопустим
func parseID(id string) (uuid.UUID, bool) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil || uid == uuid.Nil {
		return uuid.Nil, false
	}
	return uid, true
}
