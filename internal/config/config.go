package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/medschedule-api/internal/schedule"
)

// EnvPrefix is the prefix of environment overrides, e.g. MEDSCHEDULE_DATABASE_HOST.
const EnvPrefix = "MEDSCHEDULE"

type Config struct {
	Environment  string             `mapstructure:"environment"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Admin        AdminConfig        `mapstructure:"admin"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Schedule     ScheduleConfig     `mapstructure:"schedule"`
	Notification NotificationConfig `mapstructure:"notification"`
	Email        EmailConfig        `mapstructure:"email"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit" split_words:"true"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Monitoring   MonitoringConfig   `mapstructure:"monitoring"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" split_words:"true"`
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For is believed.
	// Empty trusts none and the peer address is the client.
	TrustedProxies []string `mapstructure:"trusted_proxies" split_words:"true"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns" split_words:"true"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" split_words:"true"`
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func dsnValue(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// DSN returns the lib/pq connection string. Values are quoted so empty or
// spaced passwords survive parsing.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dsnValue(d.Host), d.Port, dsnValue(d.User), dsnValue(d.Password), dsnValue(d.Name), dsnValue(d.SSLMode))
}

// URL returns the postgres:// form used by golang-migrate.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

type JWTConfig struct {
	// PatientSecret verifies tokens issued by the identity provider.
	PatientSecret string `mapstructure:"patient_secret" split_words:"true"`
	// AdminSecret signs admin session tokens issued by this service.
	AdminSecret string        `mapstructure:"admin_secret" split_words:"true"`
	AdminExpiry time.Duration `mapstructure:"admin_expiry" split_words:"true"`
	Issuer      string        `mapstructure:"issuer"`
}

type AdminConfig struct {
	Email        string `mapstructure:"email"`
	Name         string `mapstructure:"name"`
	PasswordHash string `mapstructure:"password_hash" split_words:"true"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type ScheduleConfig struct {
	OpenHour            int           `mapstructure:"open_hour" split_words:"true"`
	CloseHour           int           `mapstructure:"close_hour" split_words:"true"`
	SlotIntervalMinutes int           `mapstructure:"slot_interval_minutes" split_words:"true"`
	AppointmentMinutes  int           `mapstructure:"appointment_minutes" split_words:"true"`
	BookingWindowDays   int           `mapstructure:"booking_window_days" split_words:"true"`
	Timezone            string        `mapstructure:"timezone"`
	DirectoryCacheTTL   time.Duration `mapstructure:"directory_cache_ttl" split_words:"true"`
}

// Window returns the daily slot template.
func (s ScheduleConfig) Window() schedule.Window {
	return schedule.Window{
		OpenHour:  s.OpenHour,
		CloseHour: s.CloseHour,
		Interval:  time.Duration(s.SlotIntervalMinutes) * time.Minute,
	}
}

// Location resolves the service time zone.
func (s ScheduleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

type NotificationConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	FunctionURL string        `mapstructure:"function_url" split_words:"true"`
	APIKey      string        `mapstructure:"api_key" split_words:"true"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxFailures int           `mapstructure:"max_failures" split_words:"true"`
	OpenTimeout time.Duration `mapstructure:"open_timeout" split_words:"true"`
}

type EmailConfig struct {
	// Provider is one of sendgrid, smtp, ses or log.
	Provider       string `mapstructure:"provider"`
	FromAddress    string `mapstructure:"from_address" split_words:"true"`
	FromName       string `mapstructure:"from_name" split_words:"true"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key" envconfig:"SENDGRID_API_KEY"`
	SMTPHost       string `mapstructure:"smtp_host" split_words:"true"`
	SMTPPort       int    `mapstructure:"smtp_port" split_words:"true"`
	SMTPUsername   string `mapstructure:"smtp_username" split_words:"true"`
	SMTPPassword   string `mapstructure:"smtp_password" split_words:"true"`
	SESRegion      string `mapstructure:"ses_region" envconfig:"SES_REGION"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" split_words:"true"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `mapstructure:"prometheus_enabled" split_words:"true"`
	Namespace         string `mapstructure:"namespace"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// IsDevelopment reports whether the service runs locally.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "medschedule")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("jwt.admin_expiry", 24*time.Hour)
	v.SetDefault("jwt.issuer", "medschedule-api")

	v.SetDefault("admin.name", "Admin")

	v.SetDefault("schedule.open_hour", 9)
	v.SetDefault("schedule.close_hour", 17)
	v.SetDefault("schedule.slot_interval_minutes", 30)
	v.SetDefault("schedule.appointment_minutes", 30)
	v.SetDefault("schedule.booking_window_days", 30)
	v.SetDefault("schedule.timezone", "UTC")
	v.SetDefault("schedule.directory_cache_ttl", 5*time.Minute)

	v.SetDefault("notification.enabled", true)
	v.SetDefault("notification.function_url", "http://localhost:8080/functions/v1/send-confirmation")
	v.SetDefault("notification.timeout", 10*time.Second)
	v.SetDefault("notification.max_failures", 5)
	v.SetDefault("notification.open_timeout", 30*time.Second)

	v.SetDefault("email.provider", "log")
	v.SetDefault("email.from_address", "appointments@medschedule.com")
	v.SetDefault("email.from_name", "MedSchedule")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.ses_region", "us-east-1")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("monitoring.prometheus_enabled", true)
	v.SetDefault("monitoring.namespace", "medschedule")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configFile, or config.yml from the usual search paths when
// configFile is empty, then applies MEDSCHEDULE_* environment overrides.
// A missing config file is not an error; defaults and environment apply.
func Load(configFile string) (*Config, error) {
	cfg, err := read(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEmail loads the same sources as Load but only validates the sections
// the confirmation function uses.
func LoadEmail(configFile string) (*Config, error) {
	cfg, err := read(configFile)
	if err != nil {
		return nil, err
	}
	if problems := cfg.validateEmail(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}

func read(configFile string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app")
		v.AddConfigPath("/app/config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values the service cannot start without.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, "server.port must be between 1 and 65535")
	}
	for _, proxy := range c.Server.TrustedProxies {
		if !validProxy(proxy) {
			problems = append(problems, fmt.Sprintf("server.trusted_proxies: %q is not an IP or CIDR", proxy))
		}
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		problems = append(problems, "database.host and database.name are required")
	}
	if c.JWT.PatientSecret == "" {
		problems = append(problems, "jwt.patient_secret is required")
	}
	if c.Admin.Email != "" && (c.Admin.PasswordHash == "" || c.JWT.AdminSecret == "") {
		problems = append(problems, "admin.password_hash and jwt.admin_secret are required when admin.email is set")
	}
	if c.JWT.AdminSecret != "" && c.JWT.AdminSecret == c.JWT.PatientSecret {
		problems = append(problems, "jwt.admin_secret must differ from jwt.patient_secret")
	}
	if err := c.Schedule.Window().Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Schedule.AppointmentMinutes <= 0 {
		problems = append(problems, "schedule.appointment_minutes must be positive")
	}
	if c.Schedule.BookingWindowDays <= 0 {
		problems = append(problems, "schedule.booking_window_days must be positive")
	}
	if _, err := c.Schedule.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("schedule.timezone: %v", err))
	}
	problems = append(problems, c.validateEmail()...)

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func validProxy(s string) bool {
	if _, _, err := net.ParseCIDR(s); err == nil {
		return true
	}
	return net.ParseIP(s) != nil
}

func (c *Config) validateEmail() []string {
	var problems []string
	switch c.Email.Provider {
	case "log", "ses":
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			problems = append(problems, "email.sendgrid_api_key is required for the sendgrid provider")
		}
	case "smtp":
		if c.Email.SMTPHost == "" {
			problems = append(problems, "email.smtp_host is required for the smtp provider")
		}
	default:
		problems = append(problems, fmt.Sprintf("email.provider %q is not supported", c.Email.Provider))
	}
	if c.Email.Provider != "log" && c.Email.FromAddress == "" {
		problems = append(problems, "email.from_address is required")
	}
	return problems
}
