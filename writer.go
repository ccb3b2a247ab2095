package tablewriter

import (
	"bytes"
	"context"
	"sync/atomic"

	"github.com/jackc/pgx/v4"
	"github.com/pkg/errors"

	ldriver "github.com/datafuselabs/tablewriter-go/lib/driver"
)

// TableWriter appends rows to a PostgreSQL table through COPY.
//
// Column values are appended to the current column and Next moves on to the
// next column, or to the first column of the next row after the last one.
// An empty column value is NULL. Rows are buffered and sent when Flush is
// called or when the buffer grows beyond its capacity after a Next. Only
// complete rows are ever sent and every flush commits on its own. Close
// flushes the complete rows and drops a trailing partial row.
//
// A TableWriter is not safe for concurrent use.
type TableWriter struct {
	ctx      context.Context
	cfg      *Config
	id       string
	command  string
	capacity int
	copier   Copier
	conn     *pgx.Conn
	log      ContextLogger

	buf         *rowBuffer
	cur         cursor
	pendingRows int64
	stats       Stats
	closed      int32
}

// Stats counts what a writer has committed so far.
type Stats struct {
	Rows    int64 // rows committed
	Bytes   int64 // encoded bytes committed
	Flushes int64 // successful COPY round trips
}

// NewTableWriter creates a writer flushing into copier. The writer owns
// copier and closes it on Close.
func NewTableWriter(ctx context.Context, cfg *Config, copier Copier) (*TableWriter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if copier == nil {
		return nil, configError("new", "nil copier")
	}
	return newTableWriter(ctx, cfg, copier, newWriterID()), nil
}

func newTableWriter(ctx context.Context, cfg *Config, copier Copier, id string) *TableWriter {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, WriterIDKey, id)
	ctx = context.WithValue(ctx, TableKey, cfg.Table)
	if cfg.Debug {
		ctx = context.WithValue(ctx, debugKey, true)
	}
	w := &TableWriter{
		ctx:      ctx,
		cfg:      cfg,
		id:       id,
		command:  CopyCommand(cfg.Table, cfg.Columns, cfg.QuoteIdentifiers),
		capacity: cfg.Capacity,
		copier:   copier,
		buf:      newRowBuffer(cfg.Capacity),
		cur:      newCursor(len(cfg.Columns)),
		log:      logger.WithContext(ctx),
	}
	if pc, ok := copier.(*pgCopier); ok {
		w.conn = pc.conn
	}
	w.log.Debugf("opened writer, command: %s", w.command)
	return w
}

// AppendByte appends c to the current column value.
func (w *TableWriter) AppendByte(c byte) *TableWriter {
	_ = w.buf.WriteByte(c)
	return w
}

// AppendString appends s to the current column value.
func (w *TableWriter) AppendString(s string) *TableWriter {
	_, _ = w.buf.WriteString(s)
	return w
}

// AppendRange appends s[start:end] to the current column value.
func (w *TableWriter) AppendRange(s string, start, end int) *TableWriter {
	_, _ = w.buf.WriteString(s[start:end])
	return w
}

// AppendQuoted appends s as a quoted value. Reserved characters inside s are
// escaped and an empty s is stored as an empty string rather than NULL.
func (w *TableWriter) AppendQuoted(s string) *TableWriter {
	_, _ = w.buf.WriteString(quote(s))
	return w
}

// Write appends p to the current column value. It never fails.
func (w *TableWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *TableWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

func (w *TableWriter) WriteByte(c byte) error {
	return w.buf.WriteByte(c)
}

func (w *TableWriter) WriteRune(r rune) (int, error) {
	return w.buf.WriteRune(r)
}

// Next moves to the next column or row and returns the column number moved
// to, 0 being the first column of a new row. The buffer is flushed when it
// exceeds its capacity afterwards.
func (w *TableWriter) Next() (int, error) {
	return w.NextContext(w.ctx)
}

// NextContext is Next with ctx used for an implicit flush.
func (w *TableWriter) NextContext(ctx context.Context) (int, error) {
	if w.isClosed() {
		return w.cur.columnNo, newError(KindConfiguration, "next", ErrWriterClosed)
	}
	w.advance()
	if err := w.flushIfFull(ctx); err != nil {
		return w.cur.columnNo, err
	}
	return w.cur.columnNo, nil
}

func (w *TableWriter) advance() {
	if w.cur.advance() {
		w.buf.endRow()
		w.pendingRows++
		return
	}
	w.buf.endColumn()
}

func (w *TableWriter) flushIfFull(ctx context.Context) error {
	if w.buf.Len() <= w.capacity {
		return nil
	}
	return w.flush(ctx)
}

// WriteRow appends a whole row, one value per column. Empty values are NULL.
// The cursor must be at the first column.
func (w *TableWriter) WriteRow(values ...string) error {
	if w.isClosed() {
		return newError(KindConfiguration, "write row", ErrWriterClosed)
	}
	if !w.cur.first() {
		return newError(KindConfiguration, "write row", errors.Wrapf(ErrPartialRow, "at column %d", w.cur.columnNo))
	}
	if len(values) != w.cur.lastColumnNo+1 {
		return configError("write row", "got %d values for %d columns", len(values), w.cur.lastColumnNo+1)
	}
	for _, v := range values {
		_, _ = w.buf.WriteString(v)
		w.advance()
	}
	return w.flushIfFull(w.ctx)
}

// FirstColumn reports whether the current column is the first in the row.
func (w *TableWriter) FirstColumn() bool {
	return w.cur.first()
}

// LastColumn reports whether the current column is the last in the row.
func (w *TableWriter) LastColumn() bool {
	return w.cur.last()
}

// ColumnNo returns the current column number, 0 being the first column.
func (w *TableWriter) ColumnNo() int {
	return w.cur.columnNo
}

// Flush sends the complete rows in the buffer and commits them. A partial
// row stays in the buffer. On failure the buffer is left as it was, so a
// retried Flush sends the same rows again.
func (w *TableWriter) Flush() error {
	return w.FlushContext(w.ctx)
}

func (w *TableWriter) FlushContext(ctx context.Context) error {
	if w.isClosed() {
		return newError(KindConfiguration, "flush", ErrWriterClosed)
	}
	return w.flush(ctx)
}

func (w *TableWriter) flush(ctx context.Context) error {
	if w.buf.Watermark() == 0 {
		return nil
	}
	data := w.buf.complete()
	n, err := w.copier.CopyIn(ctx, w.command, bytes.NewReader(data))
	if err != nil {
		w.log.Errorln("flush failed:", err)
		return newError(KindTransport, "flush", err)
	}
	w.log.Debugf("flushed %d rows (%d bytes), server reported %d", w.pendingRows, len(data), n)
	w.stats.Rows += w.pendingRows
	w.stats.Bytes += int64(len(data))
	w.stats.Flushes++
	w.pendingRows = 0
	w.buf.consume()
	return nil
}

// IsEmpty reports whether the buffer holds nothing, partial row included.
func (w *TableWriter) IsEmpty() bool {
	return w.buf.Len() == 0
}

// Buffered returns the number of unflushed bytes.
func (w *TableWriter) Buffered() int {
	return w.buf.Len()
}

// Stats returns the counters of committed data.
func (w *TableWriter) Stats() Stats {
	return w.stats
}

// Conn returns the underlying connection, or nil when the writer was built
// over a custom Copier. It must not be used while a flush is running and must
// not be closed directly.
func (w *TableWriter) Conn() *pgx.Conn {
	return w.conn
}

// Command returns the COPY statement sent on every flush.
func (w *TableWriter) Command() string {
	return w.command
}

// ID returns the writer id, also sent as the application_name of its
// connection.
func (w *TableWriter) ID() string {
	return w.id
}

func (w *TableWriter) isClosed() bool {
	return atomic.LoadInt32(&w.closed) == 1
}

// Close flushes the complete rows and releases the connection, which happens
// even when the flush fails. A partial row is discarded.
func (w *TableWriter) Close() error {
	if !atomic.CompareAndSwapInt32(&w.closed, 0, 1) {
		return nil
	}
	err := w.flush(w.ctx)
	if n := w.buf.Len() - w.buf.Watermark(); n > 0 {
		w.log.Infoln("discarding partial row of", n, "bytes")
	}
	if cerr := w.copier.Close(w.ctx); cerr != nil && err == nil {
		err = newError(KindConnection, "close", cerr)
	}
	w.log.Debugf("closed writer, %d rows in %d flushes", w.stats.Rows, w.stats.Flushes)
	return err
}

var _ ldriver.RowWriter = (*TableWriter)(nil)
