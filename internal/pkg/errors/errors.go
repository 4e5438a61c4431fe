package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены
	// (например, у пользователя нет ни одного результата под заданным фильтром).
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных.
	// Проверка выполняется ДО любой записи в хранилище.
	ErrValidation = errors.New("validation failed")

	// ErrStorage используется, когда хранилище результатов не смогло
	// выполнить запись или чтение (проблемы соединения, нарушение ограничений).
	ErrStorage = errors.New("storage operation failed")

	// ErrUpstreamUnavailable используется, когда внешний сервис генерации
	// вопросов недоступен. Не влияет на подсистему рейтинга.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
