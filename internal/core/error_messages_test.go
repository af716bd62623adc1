package core

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "product not found", err: &ProductNotFoundError{SKU: "X"}, wantCode: "SKU001"},
		{name: "wrapped product not found", err: fmt.Errorf("count: %w", &ProductNotFoundError{SKU: "X"}), wantCode: "SKU001"},
		{name: "session state", err: stateError("set_count", StateReconciled), wantCode: "SES001"},
		{
			name:     "import unsupported format",
			err:      &ImportError{Path: "a.txt", Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ".txt")},
			wantCode: "IMP001",
		},
		{
			name:     "import missing columns",
			err:      &ImportError{Path: "a.csv", Err: ValidationError{Message: "missing required columns: SKU"}},
			wantCode: "IMP002",
		},
		{
			name:     "import bad quantity",
			err:      &ImportError{Path: "a.csv", Err: ValidationError{Line: 2, Field: ColInStock, Message: `invalid number "x"`}},
			wantCode: "IMP003",
		},
		{
			name:     "import missing file",
			err:      &ImportError{Path: "a.csv", Err: &os.PathError{Op: "open", Path: "a.csv", Err: errors.New("no such file or directory")}},
			wantCode: "IMP004",
		},
		{name: "import fallback", err: &ImportError{Path: "a.csv", Err: errors.New("boom")}, wantCode: "IMP000"},
		{name: "export empty", err: &ExportError{Format: FormatCSV, Err: ErrEmptyExport}, wantCode: "EXP001"},
		{name: "export bad dir", err: &ExportError{Format: FormatCSV, Dir: "/nope", Err: ErrInvalidDirectory}, wantCode: "EXP002"},
		{name: "export format", err: &ExportError{Format: "txt", Err: ErrUnsupportedFormat}, wantCode: "EXP003"},
		{name: "export fallback", err: &ExportError{Format: FormatCSV, Err: errors.New("disk full")}, wantCode: "EXP000"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(&ProductNotFoundError{SKU: "X"})

	expected := "No product has this SKU (Code: SKU001). Check the SKU and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: &ExportError{Err: ErrEmptyExport}, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExportError_Message(t *testing.T) {
	err := &ExportError{Format: FormatJSON, Err: ErrEmptyExport}
	if got, want := err.Error(), "export json to .: empty export"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
