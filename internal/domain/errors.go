package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Car errors
var (
	ErrCarNotFound     = errors.New("car not found")
	ErrInvalidCarName  = errors.New("car name must be at least 2 characters")
	ErrInvalidCarBrand = errors.New("car brand must be at least 2 characters")
	ErrInvalidPrice    = errors.New("price per day must be positive")
	ErrInvalidImageURL = errors.New("invalid image url")
)

// Booking errors
var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInvalidBookingData  = errors.New("invalid booking data")
	ErrInvalidCustomerName = errors.New("customer name must be at least 2 characters")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidPhone        = errors.New("phone number must contain at least 10 digits")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange    = errors.New("end date must be after start date")
	ErrStartDateInPast     = errors.New("start date cannot be in the past")
	ErrCarAlreadyBooked    = errors.New("car is already booked")
	ErrHasActiveBookings   = errors.New("car has active bookings")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal = errors.New("internal server error")
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
