package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	CoreDatabaseURL   string
	TemporalAddress   string
	TemporalNamespace string
	TemporalTaskQueue string
	HTTPListenAddr    string
	MetricsAddr       string
	LogLevel          string

	// Observability context attached to every log line.
	ServiceName string
	Environment string

	// TemporalTLS* configure mTLS towards the Temporal frontend. Cert and key
	// must be set together; CA cert and server name are optional.
	TemporalTLSCert       string
	TemporalTLSKey        string
	TemporalTLSCACert     string
	TemporalTLSServerName string

	BackendAPIKey string
	RedisURL      string
	AMQPURL       string

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	TwilioBaseURL        string
	PublicWebhookURL     string

	// WalletProvider selects the custody backend: "sandbox" (Redis) or "circle".
	WalletProvider     string
	CircleAPIKey       string
	CircleEntitySecret string
	CircleBaseURL      string
	CircleBlockchain   string
	SandboxFaucetCents int64

	PINSetupBaseURL string
	// RegistrationAutoVerify skips the chat code round-trip. Used in
	// environments where the phone number is already proven by the channel.
	RegistrationAutoVerify bool

	// Webhook rate limiting per phone number.
	WebhookRateLimit  int
	WebhookRateWindow time.Duration

	ReceiptBucket string
	S3Endpoint    string
	S3Region      string
	S3AccessKey   string
	S3SecretKey   string
}

func Load() (*Config, error) {
	cfg := &Config{
		CoreDatabaseURL:   getEnv("CORE_DATABASE_URL", ""),
		TemporalAddress:   getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		TemporalNamespace: getEnv("TEMPORAL_NAMESPACE", "default"),
		TemporalTaskQueue: getEnv("TEMPORAL_TASK_QUEUE", "arcagent-tasks"),
		HTTPListenAddr:    getEnv("HTTP_LISTEN_ADDR", ":8090"),
		MetricsAddr:       getEnv("METRICS_ADDR", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ServiceName:       getEnv("SERVICE_NAME", ""),
		Environment:       getEnv("ENVIRONMENT", "development"),

		TemporalTLSCert:       getEnv("TEMPORAL_TLS_CERT", ""),
		TemporalTLSKey:        getEnv("TEMPORAL_TLS_KEY", ""),
		TemporalTLSCACert:     getEnv("TEMPORAL_TLS_CA_CERT", ""),
		TemporalTLSServerName: getEnv("TEMPORAL_TLS_SERVER_NAME", ""),

		BackendAPIKey: getEnv("BACKEND_API_KEY", ""),
		RedisURL:      getEnv("REDIS_URL", ""),
		AMQPURL:       getEnv("AMQP_URL", ""),

		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		TwilioBaseURL:        getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
		PublicWebhookURL:     getEnv("PUBLIC_WEBHOOK_URL", ""),

		WalletProvider:     getEnv("WALLET_PROVIDER", "sandbox"),
		CircleAPIKey:       getEnv("CIRCLE_API_KEY", ""),
		CircleEntitySecret: getEnv("CIRCLE_ENTITY_SECRET", ""),
		CircleBaseURL:      getEnv("CIRCLE_BASE_URL", "https://api.circle.com/v1/w3s"),
		CircleBlockchain:   getEnv("CIRCLE_BLOCKCHAIN", "ARC-TESTNET"),

		PINSetupBaseURL: getEnv("PIN_SETUP_BASE_URL", "https://arcagent.example.com/setup-pin"),

		ReceiptBucket: getEnv("RECEIPT_BUCKET", ""),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
	}

	var err error
	if cfg.SandboxFaucetCents, err = strconv.ParseInt(getEnv("SANDBOX_FAUCET_CENTS", "10000"), 10, 64); err != nil {
		return nil, fmt.Errorf("parse SANDBOX_FAUCET_CENTS: %w", err)
	}
	if cfg.RegistrationAutoVerify, err = strconv.ParseBool(getEnv("REGISTRATION_AUTO_VERIFY", "false")); err != nil {
		return nil, fmt.Errorf("parse REGISTRATION_AUTO_VERIFY: %w", err)
	}
	if cfg.WebhookRateLimit, err = strconv.Atoi(getEnv("WEBHOOK_RATE_LIMIT", "30")); err != nil {
		return nil, fmt.Errorf("parse WEBHOOK_RATE_LIMIT: %w", err)
	}
	if cfg.WebhookRateWindow, err = time.ParseDuration(getEnv("WEBHOOK_RATE_WINDOW", "1m")); err != nil {
		return nil, fmt.Errorf("parse WEBHOOK_RATE_WINDOW: %w", err)
	}

	return cfg, nil
}

// Validate checks that the settings required by the given role are present.
// All problems are reported at once.
func (c *Config) Validate(role string) error {
	var missing []string
	require := func(value, name string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	require(c.CoreDatabaseURL, "CORE_DATABASE_URL")
	require(c.TemporalAddress, "TEMPORAL_ADDRESS")

	switch role {
	case "core-api":
		require(c.HTTPListenAddr, "HTTP_LISTEN_ADDR")
		require(c.BackendAPIKey, "BACKEND_API_KEY")
	case "mcp":
		require(c.TemporalTaskQueue, "TEMPORAL_TASK_QUEUE")
	case "worker":
		require(c.TemporalTaskQueue, "TEMPORAL_TASK_QUEUE")
		switch c.WalletProvider {
		case "sandbox":
			require(c.RedisURL, "REDIS_URL")
		case "circle":
			require(c.CircleAPIKey, "CIRCLE_API_KEY")
			require(c.CircleEntitySecret, "CIRCLE_ENTITY_SECRET")
		default:
			missing = append(missing, fmt.Sprintf("WALLET_PROVIDER (unknown provider %q)", c.WalletProvider))
		}
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	if (c.TemporalTLSCert == "") != (c.TemporalTLSKey == "") {
		missing = append(missing, "TEMPORAL_TLS_CERT and TEMPORAL_TLS_KEY must both be set")
	}

	if len(missing) > 0 {
		return fmt.Errorf("invalid config for %s: missing %s", role, strings.Join(missing, ", "))
	}
	return nil
}

// TwilioEnabled reports whether outbound chat should go through Twilio
// instead of the log sender.
func (c *Config) TwilioEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppNumber != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
