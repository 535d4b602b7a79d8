package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-hub/config"
	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// MercadoPagoConfig holds the checkout credentials and return URLs.
type MercadoPagoConfig struct {
	AccessToken string
	BaseURL     string
	SuccessURL  string
	FailureURL  string
	PendingURL  string
}

// PaymentService creates checkout preferences in Mercado Pago.
type PaymentService interface {
	CreatePreference(ctx context.Context, req dto.PreferenceRequest) (*dto.PreferenceResponse, error)
}

type mercadoPagoService struct {
	config     *MercadoPagoConfig
	httpClient *http.Client
}

func NewPaymentService(cfg *config.Config) PaymentService {
	return &mercadoPagoService{
		config: &MercadoPagoConfig{
			AccessToken: cfg.MercadoPagoAccessToken,
			BaseURL:     cfg.MercadoPagoAPIURL,
			SuccessURL:  cfg.FrontendURL + "/payment/success",
			FailureURL:  cfg.FrontendURL + "/payment/failure",
			PendingURL:  cfg.FrontendURL + "/payment/pending",
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (ms *mercadoPagoService) ValidateConfig() error {
	if ms.config.AccessToken == "" {
		return fmt.Errorf("MERCADOPAGO_ACCESS_TOKEN is not set")
	}
	if ms.config.BaseURL == "" {
		return fmt.Errorf("MERCADOPAGO_API_URL is not set")
	}
	if ms.config.SuccessURL == "" {
		return fmt.Errorf("payment success URL is not set")
	}
	return nil
}

type preferenceItem struct {
	Title      string          `json:"title"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CurrencyID string          `json:"currency_id,omitempty"`
}

type preferenceBody struct {
	Items    []preferenceItem `json:"items"`
	BackURLs struct {
		Success string `json:"success"`
		Failure string `json:"failure"`
		Pending string `json:"pending"`
	} `json:"back_urls"`
	AutoReturn string `json:"auto_return"`
}

func (ms *mercadoPagoService) CreatePreference(ctx context.Context, req dto.PreferenceRequest) (*dto.PreferenceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ms.ValidateConfig(); err != nil {
		return nil, utils.WrapAppError(http.StatusServiceUnavailable, "payments are not configured", err)
	}

	body := preferenceBody{
		Items:      []preferenceItem{{Title: req.Title, Quantity: req.Quantity, UnitPrice: req.UnitPrice}},
		AutoReturn: "approved",
	}
	body.BackURLs.Success = ms.config.SuccessURL
	body.BackURLs.Failure = ms.config.FailureURL
	body.BackURLs.Pending = ms.config.PendingURL

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, ms.config.BaseURL+"/checkout/preferences", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+ms.config.AccessToken)
	httpReq.Header.Set("X-Idempotency-Key", uuid.NewString())

	resp, err := ms.httpClient.Do(httpReq)
	if err != nil {
		return nil, utils.WrapAppError(http.StatusBadGateway, "payment provider unavailable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, utils.WrapAppError(http.StatusBadGateway, "payment preference could not be created",
			fmt.Errorf("mercadopago returned %d: %s", resp.StatusCode, raw))
	}

	var out dto.PreferenceResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("mercadopago: decode preference: %w", err)
	}
	if out.ID == "" {
		return nil, utils.NewAppError(http.StatusBadGateway, "payment preference could not be created")
	}

	utils.InfoLogger.WithField("preference_id", out.ID).Info("payment preference created")
	return &out, nil
}
