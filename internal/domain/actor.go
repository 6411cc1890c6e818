package domain

import "github.com/google/uuid"

// Actor - текущий пользователь запроса, как его видит движок бронирования
// Движок не ходит за профилем: ему достаточно идентификатора,
// email и признака администратора из токена
type Actor struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

// RequireAuthenticated возвращает ErrUnauthorized для анонимного вызова
func (a *Actor) RequireAuthenticated() error {
	if a == nil || a.UserID == uuid.Nil {
		return ErrUnauthorized
	}
	return nil
}

// RequireAdmin проверяет аутентификацию и признак администратора
func (a *Actor) RequireAdmin() error {
	if err := a.RequireAuthenticated(); err != nil {
		return err
	}
	if !a.IsAdmin {
		return ErrForbidden
	}
	return nil
}
