package tablewriter

import (
	"github.com/pkg/errors"
)

var (
	ErrIO           = errors.New("tablewriter: i/o error")
	ErrWriterClosed = errors.New("tablewriter: writer is closed")
	ErrPartialRow   = errors.New("tablewriter: row already in progress")
	ErrNoColumns    = errors.New("tablewriter: no columns")
)
