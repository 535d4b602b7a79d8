package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-hub/controllers"
	"github.com/yeremiapane/restaurant-hub/database"
	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/repositories"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// harness holds a private database and an authenticator for mounting
// controllers on a bare engine.
type harness struct {
	db        *gorm.DB
	tokens    *utils.TokenManager
	blacklist utils.TokenBlacklist
	auth      *middlewares.Authenticator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	tokens := utils.NewTokenManager("controller-secret", time.Hour)
	blacklist := utils.NewMemoryBlacklist()
	return &harness{
		db:        db,
		tokens:    tokens,
		blacklist: blacklist,
		auth:      middlewares.NewAuthenticator(tokens, blacklist),
	}
}

func (h *harness) engine() *gin.Engine {
	r := gin.New()
	r.Use(middlewares.ErrorHandler())
	return r
}

func (h *harness) seedRestaurant(t *testing.T, email, password string) *models.Restaurant {
	t.Helper()
	rest := &models.Restaurant{Name: email, Email: email, State: models.RestaurantActive, ReservationCapacity: 10}
	if password != "" {
		hash, err := utils.HashPassword(password, 4)
		require.NoError(t, err)
		rest.Password = &hash
	}
	require.NoError(t, h.db.Create(rest).Error)
	return rest
}

func (h *harness) session(t *testing.T, rest *models.Restaurant) string {
	t.Helper()
	token, err := h.tokens.GenerateToken(rest.ID, rest.Email, utils.PurposeSession)
	require.NoError(t, err)
	return token
}

func request(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) (utils.JSONResponse, json.RawMessage) {
	t.Helper()
	var resp struct {
		utils.JSONResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.JSONResponse, resp.Data
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type failingGoogle struct{}

func (failingGoogle) AuthURL(state string) string {
	return "https://accounts.test/o/oauth2/auth?state=" + state
}

func (failingGoogle) Exchange(context.Context, string) (*services.GoogleProfile, error) {
	return nil, errors.New("invalid_grant")
}

func (h *harness) restaurantController(secure bool) *controllers.RestaurantController {
	svc := services.NewRestaurantService(services.RestaurantServiceDeps{
		Restaurants: repositories.NewRestaurantRepository(h.db),
		Tokens:      h.tokens,
		Blacklist:   h.blacklist,
		Google:      failingGoogle{},
		BcryptCost:  4,
		BackendURL:  "http://api.test",
	})
	return controllers.NewRestaurantController(svc, controllers.CookieConfig{
		Secure:      secure,
		TTL:         time.Hour,
		FrontendURL: "http://front.test",
	})
}

func TestLoginSetsSessionCookie(t *testing.T) {
	tests := []struct {
		name     string
		secure   bool
		sameSite http.SameSite
	}{
		{"development", false, http.SameSiteLaxMode},
		{"production", true, http.SameSiteNoneMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.seedRestaurant(t, "owner@example.com", "supersecret")
			r := h.engine()
			r.POST("/login", h.restaurantController(tt.secure).Login)

			w := request(t, r, http.MethodPost, "/login", gin.H{"email": "Owner@Example.com", "password": "supersecret"}, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			cookie := findCookie(w, middlewares.TokenCookie)
			require.NotNil(t, cookie)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, tt.secure, cookie.Secure)
			assert.Equal(t, tt.sameSite, cookie.SameSite)
			assert.Equal(t, 3600, cookie.MaxAge)
			assert.NotContains(t, w.Body.String(), cookie.Value, "the token only travels in the cookie")

			w = request(t, r, http.MethodPost, "/login", gin.H{"email": "owner@example.com", "password": "wrong-password"}, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Nil(t, findCookie(w, middlewares.TokenCookie))
		})
	}
}

func TestLogoutRevokesAndClearsCookie(t *testing.T) {
	h := newHarness(t)
	rest := h.seedRestaurant(t, "owner@example.com", "supersecret")
	token := h.session(t, rest)

	r := h.engine()
	r.POST("/logout", h.restaurantController(false).Logout)

	req, _ := http.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middlewares.TokenCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := findCookie(w, middlewares.TokenCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)

	revoked, err := h.blacklist.Contains(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Logging out without a session is a no-op.
	w = request(t, r, http.MethodPost, "/logout", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHasPassword(t *testing.T) {
	h := newHarness(t)
	h.seedRestaurant(t, "local@example.com", "supersecret")
	h.seedRestaurant(t, "google@example.com", "")

	r := h.engine()
	r.POST("/has-password", h.restaurantController(false).HasPassword)

	for email, want := range map[string]bool{"local@example.com": true, "google@example.com": false} {
		w := request(t, r, http.MethodPost, "/has-password", gin.H{"email": email}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		_, data := parse(t, w)
		assert.JSONEq(t, fmt.Sprintf(`{"has_password":%t}`, want), string(data))
	}

	w := request(t, r, http.MethodPost, "/has-password", gin.H{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleLoginFlow(t *testing.T) {
	h := newHarness(t)
	ctl := h.restaurantController(false)
	r := h.engine()
	r.GET("/auth/google", ctl.GoogleLogin)
	r.GET("/auth/google/callback", ctl.GoogleCallback)

	w := request(t, r, http.MethodGet, "/auth/google", nil, "")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	state := findCookie(w, "oauth_state")
	require.NotNil(t, state)
	assert.NotEmpty(t, state.Value)
	assert.Contains(t, w.Header().Get("Location"), "state="+state.Value)

	t.Run("state mismatch", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=abc", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: state.Value})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("exchange failure redirects to login", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/auth/google/callback?state="+state.Value+"&code=abc", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: state.Value})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "http://front.test/login?error=google_auth_failed", w.Header().Get("Location"))
		assert.Nil(t, findCookie(w, middlewares.TokenCookie))
	})
}

func setupTableRouter(h *harness) *gin.Engine {
	ctl := controllers.NewTableController(services.NewTableService(repositories.NewTableRepository(h.db)))
	r := h.engine()
	tables := r.Group("/table", h.auth.RequireAuth())
	tables.POST("", ctl.CreateTable)
	tables.GET("/restaurant/:id", middlewares.RequireOwner("id"), ctl.GetRestaurantTables)
	tables.GET("/:id", ctl.GetTable)
	tables.PATCH("/:id", ctl.UpdateTable)
	tables.DELETE("/:id", ctl.DeleteTable)
	return r
}

func TestTableController(t *testing.T) {
	h := newHarness(t)
	owner := h.seedRestaurant(t, "owner@example.com", "")
	other := h.seedRestaurant(t, "other@example.com", "")
	token := h.session(t, owner)
	r := setupTableRouter(h)

	w := request(t, r, http.MethodPost, "/table", gin.H{"label": "A1", "capacity": 4}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp, data := parse(t, w)
	assert.Equal(t, "Table created successfully", resp.Message)
	var table models.Table
	require.NoError(t, json.Unmarshal(data, &table))
	assert.Equal(t, owner.ID, table.RestaurantID)

	w = request(t, r, http.MethodPost, "/table", gin.H{"label": "A2", "capacity": 0}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = request(t, r, http.MethodPost, "/table", `{"label":`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodGet, fmt.Sprintf("/table/restaurant/%d", owner.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp, data = parse(t, w)
	assert.Equal(t, "List of tables", resp.Message)
	var list []models.Table
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list, 1)

	w = request(t, r, http.MethodPatch, fmt.Sprintf("/table/%d", table.ID), gin.H{"capacity": 6}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data = parse(t, w)
	require.NoError(t, json.Unmarshal(data, &table))
	assert.Equal(t, 6, table.Capacity)
	assert.Equal(t, "A1", table.Label)

	otherToken := h.session(t, other)
	w = request(t, r, http.MethodGet, fmt.Sprintf("/table/%d", table.ID), nil, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = request(t, r, http.MethodGet, fmt.Sprintf("/table/restaurant/%d", owner.ID), nil, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = request(t, r, http.MethodDelete, fmt.Sprintf("/table/%d", table.ID), nil, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(t, r, http.MethodGet, "/table/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = request(t, r, http.MethodGet, "/table/999", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, r, http.MethodDelete, fmt.Sprintf("/table/%d", table.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = request(t, r, http.MethodGet, fmt.Sprintf("/table/%d", table.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, r, http.MethodGet, "/table/restaurant/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDishControllerCategoryFilter(t *testing.T) {
	h := newHarness(t)
	owner := h.seedRestaurant(t, "owner@example.com", "")
	for _, d := range []models.Dish{
		{Name: "Ajiaco", Category: "Sopas y Cremas"},
		{Name: "Lulada", Category: "Bebidas"},
		{Name: "Mazamorra", Category: "Bebidas"},
	} {
		d.Description = d.Name
		d.Price = decimal.NewFromInt(9000)
		d.Stock = 3
		d.RestaurantID = owner.ID
		require.NoError(t, h.db.Create(&d).Error)
	}

	ctl := controllers.NewDishController(services.NewDishService(
		repositories.NewDishRepository(h.db), repositories.NewRestaurantRepository(h.db), nil))
	r := h.engine()
	r.GET("/dish/restaurant/:id", ctl.ListByRestaurant)
	r.POST("/dish/:id/image", h.auth.RequireAuth(), ctl.UploadImage)

	w := request(t, r, http.MethodGet, fmt.Sprintf("/dish/restaurant/%d?category=Bebidas", owner.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	_, data := parse(t, w)
	var dishes []models.Dish
	require.NoError(t, json.Unmarshal(data, &dishes))
	assert.Len(t, dishes, 2)

	w = request(t, r, http.MethodGet, fmt.Sprintf("/dish/restaurant/%d", owner.ID), nil, "")
	_, data = parse(t, w)
	require.NoError(t, json.Unmarshal(data, &dishes))
	assert.Len(t, dishes, 3)

	w = request(t, r, http.MethodPost, "/dish/1/image", nil, h.session(t, owner))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp, _ := parse(t, w)
	assert.Equal(t, "image file is required", resp.Message)
}

func TestOrderControllerCancelLine(t *testing.T) {
	h := newHarness(t)
	owner := h.seedRestaurant(t, "owner@example.com", "")
	soup := &models.Dish{Name: "Ajiaco", Description: "x", Price: decimal.NewFromInt(10000), Stock: 5, Category: "Sopas y Cremas", RestaurantID: owner.ID}
	juice := &models.Dish{Name: "Lulada", Description: "x", Price: decimal.NewFromInt(4000), Stock: 5, Category: "Bebidas", RestaurantID: owner.ID}
	require.NoError(t, h.db.Create(soup).Error)
	require.NoError(t, h.db.Create(juice).Error)

	ctl := controllers.NewOrderController(services.NewOrderService(
		repositories.NewOrderRepository(h.db), repositories.NewDishRepository(h.db), nil))
	r := h.engine()
	orders := r.Group("/order", h.auth.RequireAuth())
	orders.POST("", ctl.CreateOrder)
	orders.GET("/:id", ctl.GetOrderByID)
	orders.PUT("/:id/platillo/:dishId", ctl.UpdateLineStatus)
	orders.PATCH("/:id/cancel", ctl.CancelOrder)

	token := h.session(t, owner)
	w := request(t, r, http.MethodPost, "/order", gin.H{
		"customer_name": "Luis",
		"lines":         []gin.H{{"dish_id": soup.ID, "quantity": 1}, {"dish_id": juice.ID, "quantity": 2}},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, data := parse(t, w)
	var created dto.OrderCreated
	require.NoError(t, json.Unmarshal(data, &created))

	w = request(t, r, http.MethodPatch, fmt.Sprintf("/order/%d/cancel?dishId=abc", created.ID), nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp, _ := parse(t, w)
	assert.Equal(t, "invalid dishId", resp.Message)

	w = request(t, r, http.MethodPatch, fmt.Sprintf("/order/%d/cancel?dishId=%d", created.ID, juice.ID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data = parse(t, w)
	var order dto.OrderResponse
	require.NoError(t, json.Unmarshal(data, &order))
	assert.Equal(t, models.LinePending, order.Status)

	w = request(t, r, http.MethodPut, fmt.Sprintf("/order/%d/platillo/%d", created.ID, juice.ID), gin.H{"status": "ENTREGADO"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(t, r, http.MethodPut, fmt.Sprintf("/order/%d/platillo/%d", created.ID, soup.ID), gin.H{"status": "entregado"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodPut, fmt.Sprintf("/order/%d/platillo/%d", created.ID, soup.ID), gin.H{"status": "ENTREGADO"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data = parse(t, w)
	require.NoError(t, json.Unmarshal(data, &order))
	assert.Equal(t, models.LineDelivered, order.Status)

	var stock int
	require.NoError(t, h.db.Model(&models.Dish{}).Where("id = ?", juice.ID).Select("existencias").Scan(&stock).Error)
	assert.Equal(t, 5, stock)
}

func TestReservationControllerAssignTableOwnership(t *testing.T) {
	h := newHarness(t)
	owner := h.seedRestaurant(t, "owner@example.com", "")
	other := h.seedRestaurant(t, "other@example.com", "")
	table := &models.Table{Label: "T1", Capacity: 4, RestaurantID: owner.ID}
	require.NoError(t, h.db.Create(table).Error)
	res := &models.Reservation{Date: "2030-01-01", Time: "19:00", PartySize: 2, Status: models.ReservationPending, Name: "Ana", RestaurantID: owner.ID}
	require.NoError(t, h.db.Create(res).Error)

	ctl := controllers.NewReservationController(services.NewReservationService(
		repositories.NewReservationRepository(h.db),
		repositories.NewRestaurantRepository(h.db),
		repositories.NewTableRepository(h.db),
		nil, nil,
	))
	r := h.engine()
	r.GET("/reserve/capacity/:restaurantId", ctl.CheckCapacity)
	r.POST("/reserve/:id/table/:tableId", h.auth.RequireAuth(), ctl.AssignTable)

	path := fmt.Sprintf("/reserve/%d/table/%d", res.ID, table.ID)
	w := request(t, r, http.MethodPost, path, nil, h.session(t, other))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(t, r, http.MethodPost, path, nil, h.session(t, owner))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"table_label":"T1"`)

	w = request(t, r, http.MethodGet, fmt.Sprintf("/reserve/capacity/%d?date=2030-01-01&hour=19", owner.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := parse(t, w)
	var summary dto.CapacitySummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 2, summary.Reserved)
	assert.Equal(t, 8, summary.Available)

	w = request(t, r, http.MethodGet, fmt.Sprintf("/reserve/capacity/%d?date=2030-01-01&hour=noon", owner.ID), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = request(t, r, http.MethodGet, fmt.Sprintf("/reserve/capacity/%d?hour=19", owner.ID), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = request(t, r, http.MethodGet, fmt.Sprintf("/reserve/capacity/%d?date=2030-01-01", owner.ID), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing hour is not read as midnight")
	w = request(t, r, http.MethodGet, fmt.Sprintf("/reserve/capacity/%d?date=2030-01-01&hour=0", owner.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCatalogControllers(t *testing.T) {
	h := newHarness(t)
	ctl := controllers.NewCountryController(services.NewCountryService(repositories.NewCountryRepository(h.db)))
	r := h.engine()
	r.GET("/countries", ctl.List)
	r.POST("/countries", ctl.Create)
	r.GET("/categories/restaurant", controllers.RestaurantCategories)
	r.GET("/categories/dish", controllers.DishCategories)

	w := request(t, r, http.MethodPost, "/countries", gin.H{"name": "Perú"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = request(t, r, http.MethodPost, "/countries", gin.H{"name": ""}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodGet, "/countries", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Perú")

	w = request(t, r, http.MethodGet, "/categories/restaurant", nil, "")
	_, data := parse(t, w)
	var cats []string
	require.NoError(t, json.Unmarshal(data, &cats))
	assert.Equal(t, models.RestaurantCategories, cats)

	w = request(t, r, http.MethodGet, "/categories/dish", nil, "")
	_, data = parse(t, w)
	require.NoError(t, json.Unmarshal(data, &cats))
	assert.Contains(t, cats, "Bebidas")
}

type recordingPayments struct {
	got dto.PreferenceRequest
}

func (p *recordingPayments) CreatePreference(_ context.Context, req dto.PreferenceRequest) (*dto.PreferenceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p.got = req
	return &dto.PreferenceResponse{ID: "pref-123", InitPoint: "https://mp.test/checkout/pref-123"}, nil
}

func TestPaymentController(t *testing.T) {
	h := newHarness(t)
	payments := &recordingPayments{}
	r := h.engine()
	r.POST("/payment/create_preference", controllers.NewPaymentController(payments).CreatePreference)

	w := request(t, r, http.MethodPost, "/payment/create_preference", gin.H{"title": "Plan Pro", "quantity": 1, "unit_price": 49900}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, data := parse(t, w)
	assert.JSONEq(t, `{"id":"pref-123","init_point":"https://mp.test/checkout/pref-123"}`, string(data))
	assert.Equal(t, "Plan Pro", payments.got.Title)
	assert.True(t, payments.got.UnitPrice.Equal(decimal.NewFromInt(49900)))

	w = request(t, r, http.MethodPost, "/payment/create_preference", gin.H{"title": "Plan Pro", "quantity": 0, "unit_price": 1}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
