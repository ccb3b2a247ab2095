package tablewriter

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// Copier is the bulk-load sink a writer flushes into. CopyIn runs command
// with r as its input and commits it as a whole; it returns the number of
// rows the server accepted.
type Copier interface {
	CopyIn(ctx context.Context, command string, r io.Reader) (int64, error)
	Close(ctx context.Context) error
}

type pgCopier struct {
	conn *pgx.Conn
}

// NewCopier returns a Copier running COPY FROM STDIN on conn.
func NewCopier(conn *pgx.Conn) Copier {
	return &pgCopier{conn: conn}
}

func (c *pgCopier) CopyIn(ctx context.Context, command string, r io.Reader) (int64, error) {
	tag, err := c.conn.PgConn().CopyFrom(ctx, r, command)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *pgCopier) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

const connectRetryDelay = 1 * time.Second

// connect opens the connection described by cfg, retrying transient failures
// cfg.ConnectRetries times.
func connect(ctx context.Context, cfg *Config, id string) (*pgx.Conn, error) {
	loader := initPasswordLoader(cfg)
	var conn *pgx.Conn
	err := retry.Do(
		func() error {
			password, err := loader.LoadPassword(ctx)
			if err != nil {
				return newError(KindConfiguration, "load password", err)
			}
			connCfg, err := pgx.ParseConfig(cfg.connString(password))
			if err != nil {
				return newError(KindConfiguration, "parse connection string", err)
			}
			for k, v := range cfg.Params {
				connCfg.RuntimeParams[k] = v
			}
			if _, ok := connCfg.RuntimeParams[applicationNameParam]; !ok {
				connCfg.RuntimeParams[applicationNameParam] = id
			}
			conn, err = pgx.ConnectConfig(ctx, connCfg)
			if err != nil {
				return newError(KindConnection, "connect", err)
			}
			return nil
		},
		retry.RetryIf(IsRetryable),
		retry.Context(ctx),
		retry.Delay(connectRetryDelay),
		retry.Attempts(cfg.ConnectRetries+1),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		var e *Error
		if !errors.As(err, &e) {
			err = newError(KindConnection, "connect", err)
		}
		return nil, err
	}
	return conn, nil
}

func newWriterID() string {
	return applicationNamePrefix + uuid.NewString()
}
