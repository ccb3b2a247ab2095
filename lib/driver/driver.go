package driver

import (
	"context"
	"io"
)

// RowWriter is the column-at-a-time write surface of a table writer.
type RowWriter interface {
	io.Writer
	io.StringWriter
	io.ByteWriter
	Next() (int, error)
	NextContext(ctx context.Context) (int, error)
	WriteRow(values ...string) error
	FirstColumn() bool
	LastColumn() bool
	ColumnNo() int
	Flush() error
	FlushContext(ctx context.Context) error
	IsEmpty() bool
	Close() error
}
