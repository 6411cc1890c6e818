package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestActor_RequireAuthenticated тестирует проверку аутентификации
func TestActor_RequireAuthenticated(t *testing.T) {
	var anonymous *Actor
	assert.ErrorIs(t, anonymous.RequireAuthenticated(), ErrUnauthorized)

	empty := &Actor{}
	assert.ErrorIs(t, empty.RequireAuthenticated(), ErrUnauthorized)

	user := &Actor{UserID: uuid.New(), Email: "user@example.com"}
	assert.NoError(t, user.RequireAuthenticated())
}

// TestActor_RequireAdmin тестирует проверку прав администратора
func TestActor_RequireAdmin(t *testing.T) {
	var anonymous *Actor
	assert.ErrorIs(t, anonymous.RequireAdmin(), ErrUnauthorized)

	user := &Actor{UserID: uuid.New(), Email: "user@example.com"}
	assert.ErrorIs(t, user.RequireAdmin(), ErrForbidden)

	admin := &Actor{UserID: uuid.New(), Email: "admin@example.com", IsAdmin: true}
	assert.NoError(t, admin.RequireAdmin())
}
