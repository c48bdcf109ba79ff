package bootstrap

import (
	"testing"
	"time"

	"medical-admin-dashboard/config"
	"medical-admin-dashboard/internal/infrastructure/database"
	"medical-admin-dashboard/internal/service"
	"medical-admin-dashboard/pkg/jwt"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerFallsBackToInfo(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, setupLogger(config.LogConfig{Level: "debug"}).GetLevel())
	assert.Equal(t, logrus.InfoLevel, setupLogger(config.LogConfig{Level: "loud"}).GetLevel())
}

func TestNewStore(t *testing.T) {
	log := setupLogger(config.LogConfig{Level: "error"})

	store, err := newStore(&config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMemory}}, log)
	require.NoError(t, err)
	assert.IsType(t, &database.MemoryStore{}, store)

	_, err = newStore(&config.Config{Store: config.StoreConfig{Driver: "sqlite"}}, log)
	assert.Error(t, err)
}

func TestInitializeWiresServer(t *testing.T) {
	log := setupLogger(config.LogConfig{Level: "error"})
	app := &App{
		Config: &config.Config{
			App:  config.AppConfig{Port: "9090"},
			Seed: config.SeedConfig{Schedule: "@every 1h"},
		},
		Store: database.NewMemoryStore(log),
		log:   log,
	}

	require.NoError(t, app.initialize(service.NewNoopReportCache()))
	assert.Equal(t, ":9090", app.Server.Addr)
	assert.NotNil(t, app.Scheduler)
	app.Close()
}

func TestInitializeRejectsBadConfig(t *testing.T) {
	log := setupLogger(config.LogConfig{Level: "error"})
	cases := map[string]config.Config{
		"schedule":   {Seed: config.SeedConfig{Schedule: "whenever"}},
		"key source": {Ocr: config.OcrConfig{KeySource: "id"}},
		"email key":  {User: config.UserConfig{EmailSecret: "not-hex"}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			app := &App{Config: &cfg, Store: database.NewMemoryStore(log), log: log}
			assert.Error(t, app.initialize(service.NewNoopReportCache()))
		})
	}
}

func TestMintAdminToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "s3cret", AccessExpiry: time.Hour}

	token, err := MintAdminToken(cfg, "ops@clinic")
	require.NoError(t, err)
	claims, err := jwt.NewJWTService(cfg).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@clinic", claims.Subject)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)

	_, err = MintAdminToken(cfg, " ")
	assert.Error(t, err)
	_, err = MintAdminToken(config.JWTConfig{}, "ops@clinic")
	assert.Error(t, err)
}
