package config_test

import (
	"os"
	"testing"
	"time"

	"orderdesk/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	old := pflag.CommandLine
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	t.Cleanup(func() {
		pflag.CommandLine = old
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "PPROF_PORT",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"KAFKA_BROKERS", "KAFKA_ORDERS_TOPIC", "KAFKA_GROUP_ID",
		"AMQP_URL", "AMQP_NOTIFY_QUEUE",
		"INTAKE_TOAST_DURATION", "INTAKE_HEALTH_TICK", "INTAKE_RECONNECT_ODDS", "INTAKE_RECONNECT_CLEAR",
		"DISPATCH_PICKUP_MINUTES",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_RATE", "RATE_LIMIT_BURST", "RATE_LIMIT_TTL", "RATE_LIMIT_MAX_BUCKETS",
		"OPERATOR_STAFF_NAME", "OPERATOR_SOUND_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "127.0.0.1", cfg.DB.Host)
	require.Equal(t, "5432", cfg.DB.Port)
	require.Equal(t, []string{"127.0.0.1:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "order-changes", cfg.Kafka.Topic)
	require.Equal(t, "order_notifications", cfg.AMQP.Queue)
	require.Equal(t, 5*time.Second, cfg.Intake.ToastDuration)
	require.Equal(t, 15*time.Second, cfg.Intake.HealthTick)
	require.InDelta(t, 0.05, cfg.Intake.ReconnectOdds, 1e-9)
	require.Equal(t, 2*time.Second, cfg.Intake.ReconnectClear)
	require.Equal(t, 20, cfg.Dispatch.PickupMinutes)
	require.Equal(t, 5, cfg.Dispatch.MinETAMinutes)
	require.Equal(t, 120, cfg.Dispatch.MaxETAMinutes)
	require.False(t, cfg.RateLimit.Enabled)
	require.True(t, cfg.Operator.SoundEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_DB", "console")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("INTAKE_TOAST_DURATION", "8s")
	t.Setenv("DISPATCH_PICKUP_MINUTES", "25")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("OPERATOR_STAFF_NAME", "anna")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "db", cfg.DB.Host)
	require.Equal(t, "console", cfg.DB.Name)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, 8*time.Second, cfg.Intake.ToastDuration)
	require.Equal(t, 25, cfg.Dispatch.PickupMinutes)
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, "anna", cfg.Operator.StaffName)
}

func TestLoad_InvalidPort(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "70000")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidReconnectOdds(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("INTAKE_RECONNECT_ODDS", "1.5")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidHealthTick(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("INTAKE_HEALTH_TICK", "-5s")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestDB_DSN(t *testing.T) {
	d := config.DB{Host: "h", Port: "5433", User: "u", Pass: "p", Name: "n"}
	require.Equal(t, "postgres://u:p@h:5433/n?sslmode=disable", d.DSN())
}
