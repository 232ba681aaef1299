package repository

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"kitchenlog"
	"kitchenlog/internal/codec"
	"kitchenlog/internal/logger"
	"kitchenlog/internal/models"
)

// CSVLog stores cooks as lines of a CSV file.
type CSVLog struct {
	path   string
	schema codec.Schema // used when the file is created
	log    *logger.Logger

	mu sync.Mutex // serializes appends
}

var _ CookLog = (*CSVLog)(nil)

func NewCSVLog(path string, schema codec.Schema, log *logger.Logger) *CSVLog {
	return &CSVLog{path: path, schema: schema, log: log}
}

// headerProbe is how many leading bytes are read to find the header line.
const headerProbe = 512

// Append opens or creates the file, writes the header on creation, then the
// encoded line in a single write, and closes the file. An existing file keeps
// its own column layout.
func (r *CSVLog) Append(ctx context.Context, row models.CookRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := row.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return &kitchenlog.IOError{Op: "open", Path: r.path, Err: err}
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return &kitchenlog.IOError{Op: "stat", Path: r.path, Err: err}
	}

	var buf strings.Builder
	schema := r.schema
	if st.Size() == 0 {
		buf.WriteString(schema.HeaderLine())
		buf.WriteByte('\n')
	} else {
		head, last, err := probe(f, st.Size())
		if err != nil {
			_ = f.Close()
			return &kitchenlog.IOError{Op: "read", Path: r.path, Err: err}
		}
		schema = codec.Decode(head).Schema
		if last != '\n' {
			buf.WriteByte('\n')
		}
	}
	buf.WriteString(codec.EncodeLine(row, schema))
	buf.WriteByte('\n')

	if _, err := f.WriteString(buf.String()); err != nil {
		_ = f.Close()
		return &kitchenlog.IOError{Op: "write", Path: r.path, Err: err}
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return &kitchenlog.IOError{Op: "sync", Path: r.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &kitchenlog.IOError{Op: "close", Path: r.path, Err: err}
	}
	return nil
}

// probe returns the first line of the file and its last byte.
func probe(f *os.File, size int64) ([]byte, byte, error) {
	n := int64(headerProbe)
	if size < n {
		n = size
	}
	head := make([]byte, n)
	if _, err := f.ReadAt(head, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, 0, err
	}
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil && !errors.Is(err, io.EOF) {
		return nil, 0, err
	}
	return head, last[0], nil
}

// read decodes the whole file. A missing file reads as an empty log.
func (r *CSVLog) read(ctx context.Context) ([]models.CookRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.Raw(ctx)
	if err != nil {
		return nil, err
	}
	dec := codec.Decode(data)
	for _, pe := range dec.Skipped {
		if r.log != nil {
			r.log.Warnw("csv_line_skipped", "path", r.path, "line", pe.Line, "reason", pe.Reason)
		}
	}
	return dec.Rows, nil
}

func (r *CSVLog) QueryRecent(ctx context.Context, limit int, f models.DateFilter) ([]models.CookRow, error) {
	rows, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	rows = f.Apply(rows)

	n := len(rows)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.CookRow, 0, n)
	for i := len(rows) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, rows[i])
	}
	return out, nil
}

func (r *CSVLog) QueryAll(ctx context.Context, f models.DateFilter) ([]models.CookRow, error) {
	rows, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(rows), nil
}

// Raw returns the file contents as stored.
func (r *CSVLog) Raw(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &kitchenlog.IOError{Op: "read", Path: r.path, Err: err}
	}
	return data, nil
}
