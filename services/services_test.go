package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/restaurant-hub/database"
	"github.com/yeremiapane/restaurant-hub/models"
)

// setupTestDB opens a private in-memory database named after the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedRestaurant(t *testing.T, db *gorm.DB, name string, capacity int) *models.Restaurant {
	t.Helper()
	rest := &models.Restaurant{
		Name:                name,
		Email:               strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@example.com",
		State:               models.RestaurantActive,
		ReservationCapacity: capacity,
	}
	require.NoError(t, db.Create(rest).Error)
	return rest
}

func seedDish(t *testing.T, db *gorm.DB, restaurantID uint, name string, price int64, stock int) *models.Dish {
	t.Helper()
	dish := &models.Dish{
		Name:         name,
		Description:  name,
		Price:        decimal.NewFromInt(price),
		Stock:        stock,
		Category:     "Platos Fuertes",
		RestaurantID: restaurantID,
	}
	require.NoError(t, db.Create(dish).Error)
	return dish
}

func dishStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var d models.Dish
	require.NoError(t, db.First(&d, id).Error)
	return d.Stock
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: html})
	return m.err
}

func (m *fakeMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

type publishedEvent struct {
	restaurantID uint
	event        string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(restaurantID uint, event string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{restaurantID: restaurantID, event: event})
}

func (p *fakePublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.event)
	}
	return out
}

type fakeUploader struct {
	folder string
	url    string
	err    error
}

func (u *fakeUploader) Upload(_ context.Context, folder string, _ *multipart.FileHeader) (string, error) {
	u.folder = folder
	return u.url, u.err
}

type fakeGoogle struct {
	profile *GoogleProfile
	err     error
}

func (g *fakeGoogle) AuthURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (g *fakeGoogle) Exchange(context.Context, string) (*GoogleProfile, error) {
	return g.profile, g.err
}
