package tablewriter

import "unicode/utf8"

// rowBuffer holds the encoded COPY stream. buf[off:watermark] is a run of
// complete rows ready to be flushed and buf[watermark:] is the row being
// written. Flushed bytes are dropped by moving off, the live tail is only
// moved to the front once the dead prefix outgrows it.
type rowBuffer struct {
	buf       []byte
	off       int
	watermark int
}

// newRowBuffer reserves room for capacity bytes, up to defaultCapacity. A
// larger capacity is a flush threshold only and the slice grows on demand.
func newRowBuffer(capacity int) *rowBuffer {
	return &rowBuffer{buf: make([]byte, 0, min(capacity, defaultCapacity)+64)}
}

// Len returns the number of unflushed bytes.
func (b *rowBuffer) Len() int {
	return len(b.buf) - b.off
}

// Watermark returns the length of the complete-row prefix.
func (b *rowBuffer) Watermark() int {
	return b.watermark - b.off
}

func (b *rowBuffer) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

func (b *rowBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *rowBuffer) WriteString(s string) (int, error) {
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// endRow terminates the current row and moves the watermark past it.
func (b *rowBuffer) endRow() {
	b.buf = append(b.buf, RowDelimiter)
	b.watermark = len(b.buf)
}

func (b *rowBuffer) endColumn() {
	b.buf = append(b.buf, ColumnDelimiter)
}

// complete returns the complete rows. The slice is only valid until the next
// write.
func (b *rowBuffer) complete() []byte {
	return b.buf[b.off:b.watermark]
}

// consume drops the complete rows after they have been committed.
func (b *rowBuffer) consume() {
	b.off = b.watermark
	switch {
	case b.off == len(b.buf):
		b.buf = b.buf[:0]
		b.off, b.watermark = 0, 0
	case b.off > len(b.buf)-b.off:
		n := copy(b.buf, b.buf[b.off:])
		b.buf = b.buf[:n]
		b.off, b.watermark = 0, 0
	}
}

// bytes returns every unflushed byte, partial row included.
func (b *rowBuffer) bytes() []byte {
	return b.buf[b.off:]
}

func (b *rowBuffer) WriteRune(r rune) (int, error) {
	n := len(b.buf)
	b.buf = utf8.AppendRune(b.buf, r)
	return len(b.buf) - n, nil
}
