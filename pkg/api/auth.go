// Package api содержит DTO, которыми обмениваются сервер и клиент
package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // пароль в открытом виде (только TLS)
}

// UserView представляет публичные данные пользователя
type UserView struct {
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// RegisterResponse представляет ответ на успешную регистрацию
type RegisterResponse struct {
	User UserView `json:"user"`
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	Access  string `json:"access"`  // короткоживущий токен для API
	Refresh string `json:"refresh"` // долгоживущий токен для обновления access
}

// LoginResponse представляет ответ с токенами доступа
type LoginResponse struct {
	Tokens TokenPair `json:"tokens"`
}

// RefreshRequest представляет запрос на обновление access токена.
// Token - устаревшее имя поля, принимается для совместимости
type RefreshRequest struct {
	Refresh string `json:"refresh"`
	Token   string `json:"token,omitempty"`
}

// RefreshResponse представляет ответ с новым access токеном
type RefreshResponse struct {
	Access string `json:"access"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"` // описание ошибки
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
