package tablewriter

import (
	"context"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// PasswordLoader supplies the password used when a writer connects. It is
// consulted once per connection attempt, so a rotated password is picked up
// by a retried connect.
type PasswordLoader interface {
	LoadPassword(ctx context.Context) (string, error)
}

type StaticPasswordLoader struct {
	Password string
}

func NewStaticPasswordLoader(password string) *StaticPasswordLoader {
	return &StaticPasswordLoader{
		Password: password,
	}
}

func (l *StaticPasswordLoader) LoadPassword(ctx context.Context) (string, error) {
	return l.Password, nil
}

type FilePasswordLoader struct {
	path string
}

type FilePasswordData struct {
	Password string `toml:"password"`
}

func NewFilePasswordLoader(path string) *FilePasswordLoader {
	return &FilePasswordLoader{
		path: path,
	}
}

func (l *FilePasswordLoader) LoadPassword(ctx context.Context) (string, error) {
	data := &FilePasswordData{}
	if _, err := toml.DecodeFile(l.path, &data); err != nil {
		return "", errors.Wrapf(err, "read %s", l.path)
	}
	return data.Password, nil
}

func initPasswordLoader(cfg *Config) PasswordLoader {
	if cfg.PasswordFile != "" {
		return NewFilePasswordLoader(cfg.PasswordFile)
	}
	return NewStaticPasswordLoader(cfg.Password)
}
