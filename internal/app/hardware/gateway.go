package hardware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// Endpoint — адрес одного контроллера (ESP32 купола или ESP32-CAM).
type Endpoint struct {
	Host string
	Port int
}

func (e Endpoint) baseURL() string {
	port := e.Port
	if port == 0 {
		port = 80
	}
	return fmt.Sprintf("http://%s:%d", e.Host, port)
}

// PointResult — ответ контроллера купола на команду наведения.
type PointResult struct {
	Azimuth  float64
	Altitude float64
	WillMove bool
	Reason   string
}

// Client — HTTP-шлюз к железу телескопа. Чистый адаптер:
// никакой бизнес-логики, только вызовы и разбор ответов.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Status проверяет, отвечает ли контроллер купола.
func (c *Client) Status(ctx context.Context, ep Endpoint) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.baseURL()+"/status", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("controlador respondio HTTP %d", resp.StatusCode)
	}
	return nil
}

// PointAt отправляет команду наведения на объект.
// Прошивка ESP32 отвечает JSON вида {"azimut":..,"altitud":..,"mueve":..,"razon":".."}.
func (c *Client) PointAt(ctx context.Context, ep Endpoint, object string) (*PointResult, error) {
	u := fmt.Sprintf("%s/apuntar?objeto=%s", ep.baseURL(), url.QueryEscape(object))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("controlador respondio HTTP %d", resp.StatusCode)
	}

	var body struct {
		Azimut  float64 `json:"azimut"`
		Altitud float64 `json:"altitud"`
		Mueve   *bool   `json:"mueve"`
		Razon   string  `json:"razon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("respuesta invalida del controlador: %w", err)
	}

	// Старые прошивки не присылают "mueve" — считаем, что купол двигается
	willMove := true
	if body.Mueve != nil {
		willMove = *body.Mueve
	}

	logrus.Infof("Контроллер навёлся на %q: az=%.2f alt=%.2f mueve=%v", object, body.Azimut, body.Altitud, willMove)

	return &PointResult{
		Azimuth:  body.Azimut,
		Altitude: body.Altitud,
		WillMove: willMove,
		Reason:   body.Razon,
	}, nil
}

// CapturePhoto делает снимок камерой и скачивает его.
// Камера сначала получает /disparar, затем отдаёт photo.jpg.
func (c *Client) CapturePhoto(ctx context.Context, ep Endpoint) ([]byte, error) {
	base := ep.baseURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/disparar", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	req, err = http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/photo.jpg?ts=%d", base, time.Now().UnixMilli()), nil)
	if err != nil {
		return nil, err
	}
	resp, err = c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camara respondio HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	// Слишком маленький файл — камера отдала мусор вместо JPEG
	if len(data) < 5000 {
		return nil, fmt.Errorf("la camara devolvio un archivo vacio o muy pequeno (%d bytes)", len(data))
	}
	return data, nil
}
