package http

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/trackpad/rental/internal/delivery/http/middleware"
	"github.com/trackpad/rental/internal/domain"
	"github.com/trackpad/rental/internal/pkg/jwt"
)

// CreateTestUser создает тестового пользователя
func CreateTestUser(id uuid.UUID, email string, role domain.UserRole) *domain.User {
	return &domain.User{
		ID:       id,
		Email:    email,
		FullName: "Test User",
		Phone:    "+7 999 999 99 99",
		Role:     role,
		IsActive: true,
	}
}

// CreateTestCar создает тестовый автомобиль
func CreateTestCar(id uuid.UUID, name string, pricePerDay float64) *domain.Car {
	return &domain.Car{
		ID:          id,
		Name:        name,
		Brand:       "Test Brand",
		PricePerDay: pricePerDay,
		ImageURL:    "https://example.com/car.jpg",
	}
}

// CreateTestBooking создает тестовое бронирование на период [start, end]
func CreateTestBooking(id, carID, userID uuid.UUID, start, end time.Time) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		CarID:         carID,
		UserID:        userID,
		CustomerName:  "Test Customer",
		CustomerEmail: "customer@example.com",
		CustomerPhone: "+7 999 123 45 67",
		StartDate:     start,
		EndDate:       end,
	}
}

// CreateAuthContext создает контекст с claims пользователя для тестирования
func CreateAuthContext(t *testing.T, userID uuid.UUID, email string, role domain.UserRole) context.Context {
	t.Helper()
	claims := &jwt.Claims{
		UserID: userID.String(),
		Email:  email,
		Role:   role,
	}
	return context.WithValue(context.Background(), middleware.UserClaimsKey, claims)
}

// CreateTestJWTToken создает тестовый JWT токен
func CreateTestJWTToken(user *domain.User, secretKey string) (string, error) {
	tokenService := jwt.NewTokenService(secretKey, 15*time.Minute, 7*24*time.Hour)
	tokenPair, err := tokenService.GenerateTokenPair(user)
	if err != nil {
		return "", err
	}
	return tokenPair.AccessToken, nil
}

// AssertSuccess проверяет успешный ответ API
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError проверяет ошибочный ответ API
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}
