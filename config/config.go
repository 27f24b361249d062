// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/junaidrashid-git/storefront-api/pricing"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port        string   `envconfig:"PORT" default:"8080"`
	DatabaseURL string   `envconfig:"DATABASE_URL"`
	DB          DB       `envconfig:"DB"`
	JWTSecret   string   `envconfig:"JWT_SECRET" required:"true"`
	AdminAPIKey string   `envconfig:"ADMIN_API_KEY" required:"true"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string   `envconfig:"LOG_FORMAT" default:"json"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	AutoMigrate bool     `envconfig:"AUTO_MIGRATE" default:"false"`

	Notify   Notify   `envconfig:"NOTIFY"`
	Resend   Resend   `envconfig:"RESEND"`
	Twilio   Twilio   `envconfig:"TWILIO"`
	Unifonic Unifonic `envconfig:"UNIFONIC"`
	Firebase Firebase `envconfig:"FIREBASE"`
	Delivery Delivery `envconfig:"DELIVERY"`
}

type DB struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5432"`
	User     string `envconfig:"USER" default:"postgres"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME" default:"storefront"`
	SSLMode  string `envconfig:"SSLMODE" default:"disable"`
}

type Notify struct {
	Provider string        `envconfig:"PROVIDER" default:"console"`
	Timeout  time.Duration `envconfig:"TIMEOUT" default:"15s"`
}

type Resend struct {
	APIKey  string `envconfig:"API_KEY"`
	From    string `envconfig:"FROM"`
	BaseURL string `envconfig:"BASE_URL" default:"https://api.resend.com"`
}

type Twilio struct {
	AccountSID string `envconfig:"ACCOUNT_SID"`
	AuthToken  string `envconfig:"AUTH_TOKEN"`
	From       string `envconfig:"FROM"`
	BaseURL    string `envconfig:"BASE_URL" default:"https://api.twilio.com"`
}

type Unifonic struct {
	AppSID   string `envconfig:"APP_SID"`
	SenderID string `envconfig:"SENDER_ID"`
	BaseURL  string `envconfig:"BASE_URL" default:"https://el.cloud.unifonic.com"`
}

type Firebase struct {
	Credentials string `envconfig:"CREDENTIALS"` // service account JSON
	ProjectID   string `envconfig:"PROJECT_ID"`
}

// Delivery holds the fee defaults used until an admin saves settings.
type Delivery struct {
	ExpressBaseFee     decimal.Decimal `envconfig:"EXPRESS_BASE_FEE" default:"25"`
	ScheduledBaseFee   decimal.Decimal `envconfig:"SCHEDULED_BASE_FEE" default:"15"`
	FreeThreshold      decimal.Decimal `envconfig:"FREE_THRESHOLD" default:"200"`
	ItemCountThreshold int             `envconfig:"ITEM_COUNT_THRESHOLD" default:"10"`
	ItemCountDiscount  decimal.Decimal `envconfig:"ITEM_COUNT_DISCOUNT" default:"20"`
	HighValueThreshold decimal.Decimal `envconfig:"HIGH_VALUE_THRESHOLD" default:"1000"`
	HighValueFee       decimal.Decimal `envconfig:"HIGH_VALUE_FEE" default:"0"`
}

func (d Delivery) Settings() pricing.DeliverySettings {
	return pricing.DeliverySettings{
		ExpressBaseFee:           d.ExpressBaseFee,
		ScheduledBaseFee:         d.ScheduledBaseFee,
		FreeDeliveryThreshold:    d.FreeThreshold,
		ItemCountThreshold:       d.ItemCountThreshold,
		ItemCountDiscountPercent: d.ItemCountDiscount,
		HighValueThreshold:       d.HighValueThreshold,
		HighValueDeliveryFee:     d.HighValueFee,
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" || c.AdminAPIKey == "" {
		return errors.New("JWT_SECRET and ADMIN_API_KEY must not be empty")
	}
	c.Notify.Provider = strings.ToLower(strings.TrimSpace(c.Notify.Provider))
	switch c.Notify.Provider {
	case "console", "email", "sms_twilio", "sms_unifonic", "push":
	default:
		return errors.Errorf("unknown NOTIFY_PROVIDER %q", c.Notify.Provider)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return errors.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	if c.Delivery.ItemCountDiscount.IsNegative() || c.Delivery.ItemCountDiscount.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("DELIVERY_ITEM_COUNT_DISCOUNT must be between 0 and 100")
	}
	return nil
}

// DSN prefers DATABASE_URL and otherwise builds a key/value DSN from DB_*.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port, c.DB.SSLMode,
	)
}
