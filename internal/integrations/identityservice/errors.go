package identityservice

import "errors"

var (
	// ErrRoleNotFound возвращается, когда роль неизвестна сервису пользователей
	ErrRoleNotFound = errors.New("identityservice: role not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identityservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("identityservice client: invalid response")
)
