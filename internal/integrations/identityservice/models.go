package identityservice

// RoleMembers ответ сервиса пользователей со списком участников роли
type RoleMembers struct {
	Role    string  `json:"role"`
	UserIDs []int64 `json:"user_ids"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
