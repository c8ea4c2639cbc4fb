package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"carelink/internal/config"
	"carelink/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{
		FullName: "Test User",
		Email:    email,
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// fakeGateway records STK push requests and can be told to fail.
type fakeGateway struct {
	mu       sync.Mutex
	calls    int
	fail     bool
	lastRef  string
	lastAmnt float64
}

func (f *fakeGateway) STKPush(phoneNumber string, amount float64, reference, narrative string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastRef = reference
	f.lastAmnt = amount
	if f.fail {
		return "", errors.New("gateway unreachable")
	}
	return "ws_CO_" + reference, nil
}

// fakeMailer records sends and can be told to fail.
type fakeMailer struct {
	mu    sync.Mutex
	sends []string
	fail  bool
}

func (f *fakeMailer) Send(to, templateID string, vars map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, to+":"+templateID)
	if f.fail {
		return errors.New("mail provider down")
	}
	return nil
}

func (f *fakeMailer) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}
