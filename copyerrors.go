// Copyright 2022 Datafuse Labs.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tablewriter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
)

// Kind classifies a writer failure.
type Kind int

const (
	// KindConfiguration is an invalid or unusable configuration. Fatal.
	KindConfiguration Kind = iota + 1
	// KindConnection is a failure to establish the database connection.
	KindConnection
	// KindTransport is a failure of the COPY round trip during a flush. The
	// buffer is left untouched so the flush may be retried.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

// Error is the error type returned by every writer operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("tablewriter: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports connection and transport failures as ErrIO.
func (e *Error) Is(target error) bool {
	return target == ErrIO && (e.Kind == KindConnection || e.Kind == KindTransport)
}

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func configError(op string, format string, args ...interface{}) error {
	return newError(KindConfiguration, op, fmt.Errorf(format, args...))
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsConfigurationError(err error) bool {
	return kindOf(err) == KindConfiguration
}

func IsConnectionError(err error) bool {
	return kindOf(err) == KindConnection
}

func IsTransportError(err error) bool {
	return kindOf(err) == KindTransport
}

// IsRetryable reports whether repeating the failed operation may succeed.
// Rejections of the data, the statement or the database name (SQLSTATE
// classes 22, 23, 3D, 42), authentication failures (28) and cancellation are
// final.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch kindOf(err) {
	case KindConnection, KindTransport:
	default:
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "22", "23", "28", "3D", "42":
			return false
		}
	}
	return true
}

// SQLState returns the server error code carried by err, if any.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	return pgErr.Code
}
