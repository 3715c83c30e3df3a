// Package result содержит тип Result для передачи ожидаемых ошибок
// от сервисов к HTTP слою без использования error.
package result

// Code машиночитаемый код ошибки
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeNotFound      Code = "NOT_FOUND"
	CodeInvalidID     Code = "INVALID_ID"
	CodeDuplicateName Code = "DUPLICATE_NAME"
	CodeInternal      Code = "INTERNAL_ERROR"
)

// Failure описание неуспешного результата
type Failure struct {
	Message string `json:"error"`
	Code    Code   `json:"code"`
}

// Result либо значение, либо Failure. Одновременно оба невозможны:
// поля закрыты, создать Result можно только через Success и Fail.
type Result[T any] struct {
	value   T
	failure *Failure
}

// Unit значение для операций без результата (удаление)
type Unit struct{}

func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func Fail[T any](message string, code Code) Result[T] {
	return Result[T]{failure: &Failure{Message: message, Code: code}}
}

// Done успешный результат без значения
func Done() Result[Unit] {
	return Success(Unit{})
}

func (r Result[T]) IsSuccess() bool {
	return r.failure == nil
}

func (r Result[T]) IsFailure() bool {
	return r.failure != nil
}

// Value возвращает значение; для неуспешного результата нулевое значение T
func (r Result[T]) Value() T {
	if r.failure != nil {
		var zero T
		return zero
	}
	return r.value
}

// Error сообщение об ошибке, пустая строка при успехе
func (r Result[T]) Error() string {
	if r.failure == nil {
		return ""
	}
	return r.failure.Message
}

// Code код ошибки, пустой при успехе
func (r Result[T]) Code() Code {
	if r.failure == nil {
		return ""
	}
	return r.failure.Code
}

func (r Result[T]) Failure() (Failure, bool) {
	if r.failure == nil {
		return Failure{}, false
	}
	return *r.failure, true
}

// Map преобразует значение успешного результата, ошибка переносится как есть
func Map[T, R any](r Result[T], fn func(T) R) Result[R] {
	if r.failure != nil {
		return Result[R]{failure: r.failure}
	}
	return Success(fn(r.value))
}

// Match вызывает onSuccess или onFailure в зависимости от варианта
func Match[T, R any](r Result[T], onSuccess func(T) R, onFailure func(Failure) R) R {
	if r.failure != nil {
		return onFailure(*r.failure)
	}
	return onSuccess(r.value)
}
