package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/utils"
)

func TestMercadoPagoService_ValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *MercadoPagoConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  &MercadoPagoConfig{AccessToken: "TEST-token", BaseURL: "https://api.test", SuccessURL: "https://front/ok"},
			wantErr: false,
		},
		{
			name:    "missing access token",
			config:  &MercadoPagoConfig{BaseURL: "https://api.test", SuccessURL: "https://front/ok"},
			wantErr: true,
		},
		{
			name:    "missing base url",
			config:  &MercadoPagoConfig{AccessToken: "TEST-token", SuccessURL: "https://front/ok"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &mercadoPagoService{config: tt.config}
			err := ms.ValidateConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMercadoPagoService_CreatePreference(t *testing.T) {
	tests := []struct {
		name           string
		mockResponse   string
		mockStatusCode int
		wantID         string
		wantStatus     int
	}{
		{
			name:           "created",
			mockResponse:   `{"id": "123-abc", "init_point": "https://mp/checkout/123-abc"}`,
			mockStatusCode: http.StatusCreated,
			wantID:         "123-abc",
		},
		{
			name:           "provider rejects",
			mockResponse:   `{"message": "invalid access token"}`,
			mockStatusCode: http.StatusUnauthorized,
			wantStatus:     http.StatusBadGateway,
		},
		{
			name:           "empty id",
			mockResponse:   `{}`,
			mockStatusCode: http.StatusCreated,
			wantStatus:     http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received preferenceBody
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/checkout/preferences", r.URL.Path)
				assert.Equal(t, "Bearer TEST-token", r.Header.Get("Authorization"))
				_ = json.NewDecoder(r.Body).Decode(&received)
				w.WriteHeader(tt.mockStatusCode)
				w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			ms := &mercadoPagoService{
				config: &MercadoPagoConfig{
					AccessToken: "TEST-token",
					BaseURL:     server.URL,
					SuccessURL:  "https://front/ok",
					FailureURL:  "https://front/fail",
					PendingURL:  "https://front/pending",
				},
				httpClient: server.Client(),
			}

			resp, err := ms.CreatePreference(context.Background(), dto.PreferenceRequest{
				Title:     "Reserva",
				Quantity:  2,
				UnitPrice: decimal.NewFromInt(15000),
			})

			if tt.wantStatus != 0 {
				assert.True(t, utils.HasStatus(err, tt.wantStatus), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, resp.ID)
			assert.Equal(t, "approved", received.AutoReturn)
			require.Len(t, received.Items, 1)
			assert.Equal(t, 2, received.Items[0].Quantity)
			assert.True(t, received.Items[0].UnitPrice.Equal(decimal.NewFromInt(15000)))
		})
	}
}

func TestMercadoPagoService_RejectsInvalidRequest(t *testing.T) {
	ms := &mercadoPagoService{config: &MercadoPagoConfig{AccessToken: "x", BaseURL: "http://unused", SuccessURL: "s"}}
	_, err := ms.CreatePreference(context.Background(), dto.PreferenceRequest{Title: "", Quantity: 0})
	assert.True(t, utils.HasStatus(err, http.StatusBadRequest))
}
