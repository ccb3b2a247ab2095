package tablewriter

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config is a set of configuration parameters
type Config struct {
	Host         string `toml:"host"`          // host[:port], defaults to localhost:5432
	Database     string `toml:"database" validate:"required"`
	User         string `toml:"user"`          // Username
	Password     string `toml:"password"`      // Password (requires User)
	PasswordFile string `toml:"password_file"` // TOML file holding the password, read on connect

	Table    string   `toml:"table" validate:"required"`
	Columns  []string `toml:"columns" validate:"required,min=1,dive,required"`
	Capacity int      `toml:"capacity" validate:"gte=0"` // flush threshold in bytes

	SSLMode          string        `toml:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	ConnectTimeout   time.Duration `toml:"connect_timeout"`
	ConnectRetries   uint          `toml:"connect_retries"`
	QuoteIdentifiers bool          `toml:"quote_identifiers"`
	Debug            bool          `toml:"debug"`

	// Params are sent to the server as run-time parameters.
	Params map[string]string `toml:"params"`
}

// NewConfig creates a new config with default values
func NewConfig() *Config {
	return &Config{
		Host:     defaultHost,
		Capacity: defaultCapacity,
		SSLMode:  defaultSSLMode,
		Params:   make(map[string]string),
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the config describes a usable writer.
func (cfg *Config) Validate() error {
	if len(cfg.Columns) == 0 {
		return newError(KindConfiguration, "validate", ErrNoColumns)
	}
	if err := configValidator.Struct(cfg); err != nil {
		return newError(KindConfiguration, "validate", err)
	}
	return nil
}

// FormatDSN formats the given Config into a DSN string which can be passed to
// OpenDSN.
func (cfg *Config) FormatDSN() string {
	u := cfg.url()
	query := u.Query()
	if cfg.Table != "" {
		query.Set("table", cfg.Table)
	}
	if len(cfg.Columns) > 0 {
		query.Set("columns", strings.Join(cfg.Columns, ","))
	}
	query.Set("capacity", strconv.Itoa(cfg.Capacity))
	if cfg.SSLMode != "" && cfg.SSLMode != defaultSSLMode {
		query.Set("sslmode", cfg.SSLMode)
	}
	if cfg.ConnectTimeout != 0 {
		query.Set("connect_timeout", cfg.ConnectTimeout.String())
	}
	if cfg.ConnectRetries != 0 {
		query.Set("connect_retries", strconv.FormatUint(uint64(cfg.ConnectRetries), 10))
	}
	if cfg.QuoteIdentifiers {
		query.Set("quote_identifiers", "1")
	}
	if cfg.Debug {
		query.Set("debug", "1")
	}
	if cfg.PasswordFile != "" {
		query.Set("password_file", cfg.PasswordFile)
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func (cfg *Config) url() *url.URL {
	u := &url.URL{
		Scheme: "postgres",
		Host:   cfg.Host,
		Path:   "/" + cfg.Database,
	}
	if len(cfg.User) > 0 {
		if len(cfg.Password) > 0 {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	query := u.Query()
	for k, v := range cfg.Params {
		query.Set(k, v)
	}
	u.RawQuery = query.Encode()
	return u
}

// connString is the libpq style URL handed to pgx. Writer options are left
// out so that the server only sees connection settings.
func (cfg *Config) connString(password string) string {
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   host,
		Path:   "/" + cfg.Database,
	}
	if cfg.User != "" {
		if password != "" {
			u.User = url.UserPassword(cfg.User, password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	query := u.Query()
	if cfg.SSLMode != "" {
		query.Set("sslmode", cfg.SSLMode)
	}
	if cfg.ConnectTimeout > 0 {
		secs := int(cfg.ConnectTimeout.Round(time.Second) / time.Second)
		if secs < 1 {
			secs = 1
		}
		query.Set("connect_timeout", strconv.Itoa(secs))
	}
	u.RawQuery = query.Encode()
	return u.String()
}

// ParseDSN parses the DSN string to a Config
func ParseDSN(dsn string) (*Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, newError(KindConfiguration, "parse dsn", err)
	}
	cfg := NewConfig()

	switch u.Scheme {
	case "postgres", "postgresql", "pg":
	default:
		return nil, configError("parse dsn", "invalid scheme: %s", u.Scheme)
	}

	switch {
	case u.Host == "":
		cfg.Host = defaultHost
	default:
		if _, _, err := net.SplitHostPort(u.Host); err == nil {
			cfg.Host = u.Host
		} else {
			cfg.Host = net.JoinHostPort(u.Hostname(), "5432")
		}
	}

	if len(u.Path) > 1 {
		// skip '/'
		cfg.Database = u.Path[1:]
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		if passwd, ok := u.User.Password(); ok {
			cfg.Password = passwd
		}
	}
	if err = parseDSNParams(cfg, map[string][]string(u.Query())); err != nil {
		return nil, newError(KindConfiguration, "parse dsn", err)
	}
	return cfg, nil
}

// parseDSNParams parses the DSN "query string"
// Values must be url.QueryEscape'ed
func parseDSNParams(cfg *Config, params map[string][]string) (err error) {
	for k, v := range params {
		if len(v) == 0 {
			continue
		}

		switch k {
		case "table":
			cfg.Table = v[0]
		case "columns":
			cfg.Columns = splitColumns(v[0])
		case "capacity":
			cfg.Capacity, err = strconv.Atoi(v[0])
		case "sslmode":
			cfg.SSLMode = v[0]
		case "connect_timeout":
			cfg.ConnectTimeout, err = parseTimeout(v[0])
		case "connect_retries":
			var n uint64
			n, err = strconv.ParseUint(v[0], 10, 32)
			cfg.ConnectRetries = uint(n)
		case "quote_identifiers":
			cfg.QuoteIdentifiers, err = strconv.ParseBool(v[0])
		case "debug":
			cfg.Debug, err = strconv.ParseBool(v[0])
		case "password_file":
			cfg.PasswordFile = v[0]
		case "database", "user", "password":
			err = fmt.Errorf("unknown option '%s'", k)
		default:
			cfg.Params[k] = v[0]
		}
		if err != nil {
			return err
		}
	}

	return
}

// parseTimeout accepts a Go duration or, as libpq does, plain seconds.
func parseTimeout(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func splitColumns(s string) []string {
	parts := strings.Split(s, ",")
	columns := make([]string, 0, len(parts))
	for _, p := range parts {
		columns = append(columns, strings.TrimSpace(p))
	}
	return columns
}

// LoadConfig reads a TOML configuration file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, newError(KindConfiguration, "load config", err)
	}
	if cfg.Params == nil {
		cfg.Params = make(map[string]string)
	}
	return cfg, nil
}
