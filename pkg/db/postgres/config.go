package postgres

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/cardano-node-tests/dbsyncx/pkg/utils"
)

// Config holds the db-sync database connection parameters.
type Config struct {
	// URL takes precedence over the discrete fields when set.
	URL      string
	Host     string
	Port     string
	Database string
	Username string
	Password string

	ConnectTimeout  time.Duration
	ConnectAttempts int
}

// ConfigFromEnv reads POSTGRES_URL, or POSTGRES_HOST/PORT/DB/USER/PASSWORD when
// no URL is given.
func ConfigFromEnv() Config {
	return Config{
		URL:             utils.Env("POSTGRES_URL", ""),
		Host:            utils.Env("POSTGRES_HOST", "localhost"),
		Port:            utils.Env("POSTGRES_PORT", "5432"),
		Database:        utils.Env("POSTGRES_DB", "dbsync"),
		Username:        utils.Env("POSTGRES_USER", "postgres"),
		Password:        utils.Env("POSTGRES_PASSWORD", ""),
		ConnectTimeout:  utils.EnvDuration("DBSYNC_CONNECT_TIMEOUT", 10*time.Second),
		ConnectAttempts: utils.EnvInt("DBSYNC_CONNECT_ATTEMPTS", 3),
	}
}

// DSN renders the connection string handed to pgx.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	} else if c.Username != "" {
		u.User = url.User(c.Username)
	}

	q := url.Values{}
	q.Set("sslmode", "disable")
	if c.ConnectTimeout > 0 {
		// whole seconds, rounded up: 0 would mean no timeout at all
		secs := (c.ConnectTimeout + time.Second - 1) / time.Second
		q.Set("connect_timeout", fmt.Sprintf("%d", int64(secs)))
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// Redacted is DSN with the password masked, for logging.
func (c Config) Redacted() string {
	u, err := url.Parse(c.DSN())
	if err != nil {
		return "<unparseable dsn>"
	}
	return u.Redacted()
}
