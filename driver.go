package tablewriter

import (
	"context"
)

// Open connects to the database described by cfg and returns a writer for
// cfg.Table. Invalid configurations fail with a KindConfiguration error and
// an unreachable server with a KindConnection error.
func Open(ctx context.Context, cfg *Config) (*TableWriter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id := newWriterID()
	conn, err := connect(ctx, cfg, id)
	if err != nil {
		logger.WithContext(context.WithValue(ctx, TableKey, cfg.Table)).Errorln("connect failed:", err)
		return nil, err
	}
	return newTableWriter(ctx, cfg, NewCopier(conn), id), nil
}

// OpenDSN is Open with the configuration parsed from dsn.
func OpenDSN(ctx context.Context, dsn string) (*TableWriter, error) {
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return Open(ctx, cfg)
}
