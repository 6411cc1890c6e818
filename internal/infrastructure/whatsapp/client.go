package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/trackpad/rental/internal/domain"
)

// BookingAlert - сводка нового бронирования для уведомления администратора
type BookingAlert struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	CarName       string
	CarBrand      string
	StartDate     time.Time
	EndDate       time.Time
	TotalPrice    float64
}

// Notifier - интерфейс канала уведомлений о бронированиях
// Доставка best-effort: ошибка уведомления никогда не отменяет бронирование
type Notifier interface {
	// SendBookingAlert отправляет уведомление о новом бронировании
	SendBookingAlert(ctx context.Context, alert *BookingAlert) error
}

const callMeBotURL = "https://api.callmebot.com/whatsapp.php"

// client - HTTP клиент для CallMeBot WhatsApp API
type client struct {
	apiKey      string
	adminPhone  string
	serviceName string
	baseURL     string
	httpClient  *http.Client
}

// NewClient создает клиент уведомлений через WhatsApp
// Без API ключа или номера получателя возвращается no-op клиент:
// отсутствие настроек - не ошибка, уведомления просто отключены
func NewClient(apiKey, adminPhone, serviceName string, timeout time.Duration) Notifier {
	if apiKey == "" || adminPhone == "" {
		return noopNotifier{}
	}

	return &client{
		apiKey:      apiKey,
		adminPhone:  adminPhone,
		serviceName: serviceName,
		baseURL:     callMeBotURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SendBookingAlert отправляет сообщение администратору
func (c *client) SendBookingAlert(ctx context.Context, alert *BookingAlert) error {
	message := c.formatMessage(alert)

	params := url.Values{}
	params.Set("phone", c.adminPhone)
	params.Set("text", message)
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create notification request: %w", err)
	}

	// Отправляем запрос с retry логикой
	var lastErr error

	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Задержка между попытками растет линейно
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		var status int
		status, lastErr = c.doRequest(req)
		if lastErr == nil {
			return nil
		}

		// Клиентские ошибки кроме rate limit повторять бессмысленно
		if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
			break
		}
	}

	return fmt.Errorf("notification failed after %d attempts: %w", maxRetries, lastErr)
}

// doRequest выполняет HTTP запрос и возвращает статус ответа
func (c *client) doRequest(req *http.Request) (int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("notification service returned status %d: %s", resp.StatusCode, string(body))
	}

	return resp.StatusCode, nil
}

// formatMessage собирает текст уведомления
func (c *client) formatMessage(alert *BookingAlert) string {
	return fmt.Sprintf(
		"*New Booking Alert!*\n\n"+
			"*Customer Details:*\n"+
			"- Name: %s\n"+
			"- Email: %s\n"+
			"- Phone: %s\n\n"+
			"*Car Details:*\n"+
			"- Car: %s %s\n\n"+
			"*Booking Period:*\n"+
			"- From: %s\n"+
			"- To: %s\n\n"+
			"*Total Price:* %.2f\n\n"+
			"---\n%s",
		alert.CustomerName,
		alert.CustomerEmail,
		alert.CustomerPhone,
		alert.CarBrand,
		alert.CarName,
		alert.StartDate.Format(domain.DateFormat),
		alert.EndDate.Format(domain.DateFormat),
		alert.TotalPrice,
		c.serviceName,
	)
}

// noopNotifier используется, когда канал уведомлений не настроен
type noopNotifier struct{}

func (noopNotifier) SendBookingAlert(ctx context.Context, alert *BookingAlert) error {
	return nil
}
