// Package store loads and saves product tables as CSV, XLSX or JSON files.
//
// FileStore implements core.TableStore. The format of an imported file is
// inferred from its extension; exports reuse the session's format and are
// named audit-YYYY-MM-DD.<ext>.
package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/stockaudit/internal/core"
)

// ExportDateLayout is the date format used in export file names.
const ExportDateLayout = "2006-01-02"

// exportFileMode replaces the 0600 mode os.CreateTemp uses.
const exportFileMode = 0o644

// Options configures a FileStore.
type Options struct {
	// MaxFileSize limits imports in bytes. Zero disables the limit.
	MaxFileSize int64

	// DryRun computes and validates the export path without writing.
	DryRun bool

	// Now returns the export date. Defaults to time.Now.
	Now func() time.Time

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// FileStore reads and writes product tables on the local filesystem.
type FileStore struct {
	maxFileSize int64
	dryRun      bool
	now         func() time.Time
	logger      *slog.Logger
}

// New creates a FileStore.
func New(opts Options) *FileStore {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		maxFileSize: opts.MaxFileSize,
		dryRun:      opts.DryRun,
		now:         now,
		logger:      logger.With("component", "store"),
	}
}

var _ core.TableStore = (*FileStore)(nil)

// decoder reads a header row and data rows from r.
type decoder func(r io.Reader) (header []string, rows [][]string, err error)

// encoder writes rows to w.
type encoder func(w io.Writer, rows []core.ProductRecord) error

var (
	decoders = map[core.Format]decoder{
		core.FormatCSV:  decodeCSV,
		core.FormatXLSX: decodeXLSX,
		core.FormatJSON: decodeJSON,
	}
	encoders = map[core.Format]encoder{
		core.FormatCSV:  encodeCSV,
		core.FormatXLSX: encodeXLSX,
		core.FormatJSON: encodeJSON,
	}
)

// Load reads the product table at path. All failures are *core.ImportError.
func (s *FileStore) Load(path string) ([]core.ProductRecord, core.Format, error) {
	format, err := core.FormatFromPath(path)
	if err != nil {
		return nil, "", &core.ImportError{Path: path, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, "", &core.ImportError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, "", &core.ImportError{Path: path, Err: errors.New("is a directory")}
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return nil, "", &core.ImportError{
			Path: path,
			Err:  fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, info.Size(), s.maxFileSize),
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", &core.ImportError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := s.decode(format, f)
	if err != nil {
		return nil, "", &core.ImportError{Path: path, Err: err}
	}

	s.logger.Debug("table file read", "path", path, "format", format, "rows", len(rows))
	return rows, format, nil
}

// Decode reads a product table in the given format from r.
func (s *FileStore) Decode(format core.Format, r io.Reader) ([]core.ProductRecord, error) {
	return s.decode(format, r)
}

func (s *FileStore) decode(format core.Format, r io.Reader) ([]core.ProductRecord, error) {
	dec, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format)
	}

	// Workbooks are zip archives; only text formats get the BOM and UTF-8
	// cleanup.
	var in io.Reader = &sizeLimiter{reader: r, limit: s.maxFileSize}
	if format != core.FormatXLSX {
		in = wrapForImport(r, s.maxFileSize)
	}

	header, raw, err := dec(in)
	if err != nil {
		return nil, err
	}

	idx, err := core.ValidateHeaders(header)
	if err != nil {
		return nil, err
	}

	records := make([]core.ProductRecord, 0, len(raw))
	for i, row := range raw {
		if core.IsEmptyRow(row) {
			continue
		}
		rec, err := core.RecordFromRow(row, idx, i+1)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ExportPath returns where an export in format would be written inside dir
// (the current directory when empty). The directory must exist.
func (s *FileStore) ExportPath(format core.Format, dir string) (string, error) {
	name := fmt.Sprintf("audit-%s.%s", s.now().Format(ExportDateLayout), format.Extension())
	if dir == "" {
		return name, nil
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", core.ErrInvalidDirectory, dir)
	}
	return filepath.Join(dir, name), nil
}

// Save writes rows into dir and returns the file path. All failures are
// *core.ExportError. In dry-run mode the path is returned without writing.
func (s *FileStore) Save(format core.Format, dir string, rows []core.ProductRecord) (string, error) {
	exportErr := func(err error) error {
		return &core.ExportError{Format: format, Dir: dir, Err: err}
	}

	if len(rows) == 0 {
		return "", exportErr(core.ErrEmptyExport)
	}

	path, err := s.ExportPath(format, dir)
	if err != nil {
		return "", exportErr(err)
	}

	enc, ok := encoders[format]
	if !ok {
		return "", exportErr(fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format))
	}

	if s.dryRun {
		s.logger.Info("dry run: export not written", "path", path, "rows", len(rows))
		return path, nil
	}

	if err := writeFile(path, func(w io.Writer) error { return enc(w, rows) }); err != nil {
		return "", exportErr(err)
	}
	return path, nil
}

// Encode writes rows in the given format to w.
func (s *FileStore) Encode(format core.Format, w io.Writer, rows []core.ProductRecord) error {
	enc, ok := encoders[format]
	if !ok {
		return fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, format)
	}
	return enc(w, rows)
}

// writeFile writes via a temp file in the same directory and renames it
// into place, so a failed export never leaves a partial file behind.
func writeFile(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".audit-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(exportFileMode); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
