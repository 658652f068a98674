package resolve_conflicts

import "errors"

var (
	// ErrInvalidInput возвращается, если одобренная заявка не передана или не сохранена
	ErrInvalidInput = errors.New("resolve_conflicts: invalid approved booking")

	// ErrLookupFailed возвращается, когда не удалось получить список ожидающих заявок
	// Одобрение при этом остается в силе, конфликты не разрешены
	ErrLookupFailed = errors.New("resolve_conflicts: failed to list pending requests")
)

// Виды сбоев для метрик
const (
	failureLookup       = "lookup"
	failureUpdate       = "update"
	failureNotification = "notification"
)
