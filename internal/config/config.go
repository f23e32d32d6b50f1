package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores Postgres connection settings for the order store.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds a pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Kafka stores the order-change feed consumer settings.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// AMQP stores the outbound notification publisher settings.
type AMQP struct {
	URL   string
	Queue string
}

// Intake stores intake monitor settings.
type Intake struct {
	ToastDuration  time.Duration
	HealthTick     time.Duration
	ReconnectOdds  float64
	ReconnectClear time.Duration
}

// Dispatch stores dispatch and ETA settings.
type Dispatch struct {
	PickupMinutes int
	MinETAMinutes int
	MaxETAMinutes int
}

// RateLimit stores HTTP rate limiting settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Operator stores operator preferences. They are injected into the core at
// construction instead of living as mutable globals.
type Operator struct {
	StaffName    string
	SoundEnabled bool
}

// Config stores all service settings.
type Config struct {
	Port      int
	PprofPort int
	DB        DB
	Kafka     Kafka
	AMQP      AMQP
	Intake    Intake
	Dispatch  Dispatch
	RateLimit RateLimit
	Operator  Operator
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      envInt("PORT", DefaultPort()),
		PprofPort: envInt("PPROF_PORT", DefaultPprofPort()),
		DB: DB{
			Host: envStr("POSTGRES_HOST", defaultDB.Host),
			Port: envStr("POSTGRES_PORT", defaultDB.Port),
			User: envStr("POSTGRES_USER", defaultDB.User),
			Pass: envStr("POSTGRES_PASSWORD", defaultDB.Pass),
			Name: envStr("POSTGRES_DB", defaultDB.Name),
		},
		Kafka: Kafka{
			Brokers: envList("KAFKA_BROKERS", defaultKafka.Brokers),
			Topic:   envStr("KAFKA_ORDERS_TOPIC", defaultKafka.Topic),
			GroupID: envStr("KAFKA_GROUP_ID", defaultKafka.GroupID),
		},
		AMQP: AMQP{
			URL:   envStr("AMQP_URL", defaultAMQP.URL),
			Queue: envStr("AMQP_NOTIFY_QUEUE", defaultAMQP.Queue),
		},
		Intake: Intake{
			ToastDuration:  envDuration("INTAKE_TOAST_DURATION", defaultIntake.ToastDuration),
			HealthTick:     envDuration("INTAKE_HEALTH_TICK", defaultIntake.HealthTick),
			ReconnectOdds:  envFloat("INTAKE_RECONNECT_ODDS", defaultIntake.ReconnectOdds),
			ReconnectClear: envDuration("INTAKE_RECONNECT_CLEAR", defaultIntake.ReconnectClear),
		},
		Dispatch: Dispatch{
			PickupMinutes: envInt("DISPATCH_PICKUP_MINUTES", defaultDispatch.PickupMinutes),
			MinETAMinutes: defaultDispatch.MinETAMinutes,
			MaxETAMinutes: defaultDispatch.MaxETAMinutes,
		},
		RateLimit: RateLimit{
			Enabled:    envBool("RATE_LIMIT_ENABLED", defaultRateLimit.Enabled),
			Rate:       envFloat("RATE_LIMIT_RATE", defaultRateLimit.Rate),
			Burst:      envInt("RATE_LIMIT_BURST", defaultRateLimit.Burst),
			TTL:        envDuration("RATE_LIMIT_TTL", defaultRateLimit.TTL),
			MaxBuckets: envInt("RATE_LIMIT_MAX_BUCKETS", defaultRateLimit.MaxBuckets),
		},
		Operator: Operator{
			StaffName:    envStr("OPERATOR_STAFF_NAME", defaultOperator.StaffName),
			SoundEnabled: envBool("OPERATOR_SOUND_ENABLED", defaultOperator.SoundEnabled),
		},
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.Parse()

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Dispatch.PickupMinutes <= 0 {
		return nil, fmt.Errorf("invalid pickup minutes: %d", cfg.Dispatch.PickupMinutes)
	}
	if cfg.Intake.ReconnectOdds < 0 || cfg.Intake.ReconnectOdds > 1 {
		return nil, fmt.Errorf("invalid reconnect odds: %f", cfg.Intake.ReconnectOdds)
	}
	if cfg.Intake.HealthTick <= 0 {
		return nil, fmt.Errorf("invalid health tick: %s", cfg.Intake.HealthTick)
	}
	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
