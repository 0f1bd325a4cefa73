package config

import (
	"fmt"
	"strings"
	"time"

	"fincore/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Risk     RiskConfig     `mapstructure:"risk"`
	Fees     FeeConfig      `mapstructure:"fees"`
	Limits   LimitConfig    `mapstructure:"limits"`
	OTP      OTPConfig      `mapstructure:"otp"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type NATSConfig struct {
	URL string `mapstructure:"url"` // empty disables event publishing
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// RiskConfig tunes the risk engine. Money thresholds are decimal
// strings to avoid float drift.
type RiskConfig struct {
	HighAmountUSD      string        `mapstructure:"high_amount_usd"`
	HighAmountSYP      string        `mapstructure:"high_amount_syp"`
	RapidWindow        time.Duration `mapstructure:"rapid_window"`
	RapidCount         int           `mapstructure:"rapid_count"`
	DeviceTrustWindow  time.Duration `mapstructure:"device_trust_window"`
	SessionIPDepth     int           `mapstructure:"session_ip_depth"`
	HoldOnHighAmount   bool          `mapstructure:"hold_on_high_amount"`
	HoldOnRapid        bool          `mapstructure:"hold_on_rapid"`
	HoldOnNewDevice    bool          `mapstructure:"hold_on_new_device"`
	HoldOnSuspiciousIP bool          `mapstructure:"hold_on_suspicious_ip"`
}

// Settings parses the raw config into the immutable domain snapshot
// handed to the risk engine at startup.
func (r RiskConfig) Settings() (domain.RiskSettings, error) {
	usd, err := parseMoney("risk.high_amount_usd", r.HighAmountUSD)
	if err != nil {
		return domain.RiskSettings{}, err
	}
	syp, err := parseMoney("risk.high_amount_syp", r.HighAmountSYP)
	if err != nil {
		return domain.RiskSettings{}, err
	}

	return domain.RiskSettings{
		HighAmountThresholds: map[domain.Currency]decimal.Decimal{
			domain.CurrencyUSD: usd,
			domain.CurrencySYP: syp,
		},
		RapidWindow:         r.RapidWindow,
		RapidCountThreshold: r.RapidCount,
		DeviceTrustWindow:   r.DeviceTrustWindow,
		SessionIPDepth:      r.SessionIPDepth,
		AutoHold: map[domain.AlertType]bool{
			domain.AlertHighAmount:        r.HoldOnHighAmount,
			domain.AlertRapidTransactions: r.HoldOnRapid,
			domain.AlertNewDevice:         r.HoldOnNewDevice,
			domain.AlertSuspiciousIP:      r.HoldOnSuspiciousIP,
		},
	}, nil
}

// FeeConfig holds per-type fee percentages as decimal strings,
// e.g. "0.01" for one percent.
type FeeConfig struct {
	DepositPlatformPct  string `mapstructure:"deposit_platform_pct"`
	DepositAgentPct     string `mapstructure:"deposit_agent_pct"`
	WithdrawPlatformPct string `mapstructure:"withdraw_platform_pct"`
	WithdrawAgentPct    string `mapstructure:"withdraw_agent_pct"`
	TransferPct         string `mapstructure:"transfer_pct"`
	TransferMin         string `mapstructure:"transfer_min"`
	TransferMax         string `mapstructure:"transfer_max"`
	QRPaymentPct        string `mapstructure:"qr_payment_pct"`
	ServicePurchasePct  string `mapstructure:"service_purchase_pct"`
}

// Settings parses the fee schedule into the domain snapshot.
func (f FeeConfig) Settings() (domain.FeeSettings, error) {
	fields := map[string]string{
		"fees.deposit_platform_pct":  f.DepositPlatformPct,
		"fees.deposit_agent_pct":     f.DepositAgentPct,
		"fees.withdraw_platform_pct": f.WithdrawPlatformPct,
		"fees.withdraw_agent_pct":    f.WithdrawAgentPct,
		"fees.transfer_pct":          f.TransferPct,
		"fees.transfer_min":          f.TransferMin,
		"fees.transfer_max":          f.TransferMax,
		"fees.qr_payment_pct":        f.QRPaymentPct,
		"fees.service_purchase_pct":  f.ServicePurchasePct,
	}
	parsed := make(map[string]decimal.Decimal, len(fields))
	for name, raw := range fields {
		d, err := parseMoney(name, raw)
		if err != nil {
			return domain.FeeSettings{}, err
		}
		parsed[name] = d
	}

	return domain.FeeSettings{Rules: map[domain.TransactionType]domain.FeeRule{
		domain.TransactionTypeDeposit: {
			PlatformPct: parsed["fees.deposit_platform_pct"],
			AgentPct:    parsed["fees.deposit_agent_pct"],
		},
		domain.TransactionTypeWithdraw: {
			PlatformPct: parsed["fees.withdraw_platform_pct"],
			AgentPct:    parsed["fees.withdraw_agent_pct"],
		},
		domain.TransactionTypeTransfer: {
			PlatformPct: parsed["fees.transfer_pct"],
			MinFee:      parsed["fees.transfer_min"],
			MaxFee:      parsed["fees.transfer_max"],
		},
		domain.TransactionTypeQRPayment: {
			PlatformPct: parsed["fees.qr_payment_pct"],
		},
		domain.TransactionTypeServicePurchase: {
			PlatformPct: parsed["fees.service_purchase_pct"],
		},
	}}, nil
}

// LimitConfig holds rolling spend caps per currency as decimal
// strings. A "0" cap disables that window.
type LimitConfig struct {
	DailyUSD   string `mapstructure:"daily_usd"`
	WeeklyUSD  string `mapstructure:"weekly_usd"`
	MonthlyUSD string `mapstructure:"monthly_usd"`
	DailySYP   string `mapstructure:"daily_syp"`
	WeeklySYP  string `mapstructure:"weekly_syp"`
	MonthlySYP string `mapstructure:"monthly_syp"`
}

// Settings parses the caps into the domain snapshot.
func (l LimitConfig) Settings() (domain.LimitSettings, error) {
	var usd, syp domain.LimitCaps
	var err error
	if usd.Daily, err = parseMoney("limits.daily_usd", l.DailyUSD); err != nil {
		return domain.LimitSettings{}, err
	}
	if usd.Weekly, err = parseMoney("limits.weekly_usd", l.WeeklyUSD); err != nil {
		return domain.LimitSettings{}, err
	}
	if usd.Monthly, err = parseMoney("limits.monthly_usd", l.MonthlyUSD); err != nil {
		return domain.LimitSettings{}, err
	}
	if syp.Daily, err = parseMoney("limits.daily_syp", l.DailySYP); err != nil {
		return domain.LimitSettings{}, err
	}
	if syp.Weekly, err = parseMoney("limits.weekly_syp", l.WeeklySYP); err != nil {
		return domain.LimitSettings{}, err
	}
	if syp.Monthly, err = parseMoney("limits.monthly_syp", l.MonthlySYP); err != nil {
		return domain.LimitSettings{}, err
	}

	return domain.LimitSettings{Caps: map[domain.Currency]domain.LimitCaps{
		domain.CurrencyUSD: usd,
		domain.CurrencySYP: syp,
	}}, nil
}

type OTPConfig struct {
	TTL    time.Duration `mapstructure:"ttl"`
	Length int           `mapstructure:"length"`
}

type SnapshotConfig struct {
	Period string `mapstructure:"period"` // HOURLY or DAILY
}

func parseMoney(field string, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return d, nil
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: FINCORE_.
// Nested keys use underscore: FINCORE_DATABASE_HOST, FINCORE_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "fincore")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("nats.url", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "fincore")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("risk.high_amount_usd", "1000")
	v.SetDefault("risk.high_amount_syp", "5000000")
	v.SetDefault("risk.rapid_window", "10m")
	v.SetDefault("risk.rapid_count", 5)
	v.SetDefault("risk.device_trust_window", "72h")
	v.SetDefault("risk.session_ip_depth", 10)
	v.SetDefault("risk.hold_on_high_amount", true)
	v.SetDefault("risk.hold_on_rapid", true)
	v.SetDefault("risk.hold_on_new_device", true)
	v.SetDefault("risk.hold_on_suspicious_ip", false)
	v.SetDefault("fees.deposit_platform_pct", "0.01")
	v.SetDefault("fees.deposit_agent_pct", "0.005")
	v.SetDefault("fees.withdraw_platform_pct", "0.01")
	v.SetDefault("fees.withdraw_agent_pct", "0")
	v.SetDefault("fees.transfer_pct", "0.005")
	v.SetDefault("fees.transfer_min", "0")
	v.SetDefault("fees.transfer_max", "0")
	v.SetDefault("fees.qr_payment_pct", "0.01")
	v.SetDefault("fees.service_purchase_pct", "0.015")
	v.SetDefault("limits.daily_usd", "2000")
	v.SetDefault("limits.weekly_usd", "10000")
	v.SetDefault("limits.monthly_usd", "30000")
	v.SetDefault("limits.daily_syp", "10000000")
	v.SetDefault("limits.weekly_syp", "50000000")
	v.SetDefault("limits.monthly_syp", "150000000")
	v.SetDefault("otp.ttl", "5m")
	v.SetDefault("otp.length", 6)
	v.SetDefault("snapshot.period", "HOURLY")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: FINCORE_DATABASE_HOST -> database.host
	v.SetEnvPrefix("FINCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if present; env vars alone can carry the config.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
