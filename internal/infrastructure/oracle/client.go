package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
)

// Client обращается к внешнему сервису цен по HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type recommendRequest struct {
	Crop     string  `json:"crop"`
	Quality  string  `json:"quality"`
	District string  `json:"district"`
	Quantity float64 `json:"quantity"`
}

type recommendResponse struct {
	RecommendedPrice *float64 `json:"recommended_price"`
}

type forecastRequest struct {
	Crop     string `json:"crop"`
	Location string `json:"location"`
	Days     int    `json:"days"`
}

type forecastResponse struct {
	Points     []entity.ForecastPoint `json:"points"`
	Trend      string                 `json:"trend"`
	Confidence *float64               `json:"confidence"`
}

func (c *Client) RecommendPrice(ctx context.Context, q entity.PriceQuery) (*float64, error) {
	var resp recommendResponse
	err := c.post(ctx, "/recommend", recommendRequest{
		Crop:     q.Crop,
		Quality:  q.Quality,
		District: q.District,
		Quantity: q.Quantity,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.RecommendedPrice == nil || *resp.RecommendedPrice <= 0 {
		return nil, nil
	}
	return resp.RecommendedPrice, nil
}

func (c *Client) ForecastPrice(ctx context.Context, crop, location string, horizonDays int) (*entity.PriceForecast, error) {
	var resp forecastResponse
	err := c.post(ctx, "/forecast", forecastRequest{Crop: crop, Location: location, Days: horizonDays}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Points) == 0 {
		return nil, nil
	}
	return &entity.PriceForecast{
		Crop:        crop,
		Location:    location,
		HorizonDays: horizonDays,
		Points:      resp.Points,
		Trend:       resp.Trend,
		Confidence:  resp.Confidence,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("oracle: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("oracle: %s: код ответа %d: %v", path, resp.StatusCode, errorBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("oracle: %s: разбор ответа: %w", path, err)
	}
	return nil
}

// Disabled используется, когда PRICE_ORACLE_URL не задан.
type Disabled struct{}

func (Disabled) RecommendPrice(context.Context, entity.PriceQuery) (*float64, error) {
	return nil, nil
}

func (Disabled) ForecastPrice(context.Context, string, string, int) (*entity.PriceForecast, error) {
	return nil, nil
}
