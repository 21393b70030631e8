package gridcalc

import (
	"io"
	"log/slog"

	"golang.org/x/text/encoding"
)

// Default grid size of a new sheet.
const (
	DefaultRows = 45
	DefaultCols = 13
)

// Options holds configuration for a Sheet.
type Options struct {
	rows         int
	cols         int
	historyLimit int
	logger       *slog.Logger
	csvEncoding  encoding.Encoding
}

func defaultOptions() *Options {
	return &Options{
		rows:   DefaultRows,
		cols:   DefaultCols,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Sheet.
type Option func(*Options)

// WithSize sets the initial grid size (default: 45 rows x 13 columns).
func WithSize(rows, cols int) Option {
	return func(o *Options) {
		o.rows = rows
		o.cols = cols
	}
}

// WithHistoryLimit caps the number of undo steps kept (default: 0, unbounded).
func WithHistoryLimit(n int) Option {
	return func(o *Options) { o.historyLimit = n }
}

// WithLogger sets the logger used for evaluation failures and file I/O.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCSVEncoding sets the character encoding of CSV files read and written
// by LoadCSV and SaveCSV (default: UTF-8).
func WithCSVEncoding(enc encoding.Encoding) Option {
	return func(o *Options) { o.csvEncoding = enc }
}
