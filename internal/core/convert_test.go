package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "empty is zero", input: "", want: 0},
		{name: "whitespace is zero", input: "   ", want: 0},
		{name: "plain integer", input: "42", want: 42},
		{name: "negative integer", input: "-3", want: -3},
		{name: "thousands separator", input: "1,234", want: 1234},
		{name: "currency symbol", input: "$40", want: 40},
		{name: "accounting negative", input: "(5)", want: -5},
		{name: "excel formula wrapper", input: `="17"`, want: 17},
		{name: "integral decimal", input: "12.0", want: 12},
		{name: "fractional is rejected", input: "2.5", wantErr: true},
		{name: "text is rejected", input: "many", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseQuantity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseQuantity(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "  SKU-1  ", want: "SKU-1"},
		{input: `="00123"`, want: "00123"},
		{input: "=5", want: "5"},
		{input: `"quoted"`, want: "quoted"},
		{input: "plain", want: "plain"},
		{input: `="`, want: ""},
		{input: `=""`, want: ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCleanSKU(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "  SKU-1  ", want: "SKU-1"},
		{input: `="00123"`, want: "00123"},
		{input: ` ="A-1" `, want: "A-1"},
		{input: `PIPE-3/4"`, want: `PIPE-3/4"`},
		{input: "'LEGACY'", want: "'LEGACY'"},
		{input: `"quoted"`, want: `"quoted"`},
		{input: "=X1", want: "=X1"},
		{input: `="`, want: `="`},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := CleanSKU(tt.input); got != tt.want {
			t.Errorf("CleanSKU(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateHeaders(t *testing.T) {
	t.Run("all columns any case", func(t *testing.T) {
		idx, err := ValidateHeaders([]string{"product name", "IN STOCK", "Counted", " SKU "})
		if err != nil {
			t.Fatalf("ValidateHeaders() error = %v", err)
		}
		want := HeaderIndex{"product name": 0, "in stock": 1, "counted": 2, "sku": 3}
		if diff := cmp.Diff(want, idx); diff != "" {
			t.Errorf("HeaderIndex mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing required columns", func(t *testing.T) {
		_, err := ValidateHeaders([]string{"Product Name", "Counted"})
		if err == nil {
			t.Fatal("ValidateHeaders() expected error")
		}
		want := "missing required columns: In Stock, SKU"
		if err.Error() != want {
			t.Errorf("error = %q, want %q", err.Error(), want)
		}
	})
}

func TestRecordFromRow(t *testing.T) {
	header := Columns()
	idx, err := ValidateHeaders(header)
	if err != nil {
		t.Fatalf("ValidateHeaders() error = %v", err)
	}

	t.Run("full row", func(t *testing.T) {
		row := []string{"Widget", "Hardware", "1,200", "3", "", " shelf 4 ", `="0042"`}
		got, err := RecordFromRow(row, idx, 1)
		if err != nil {
			t.Fatalf("RecordFromRow() error = %v", err)
		}
		want := ProductRecord{
			ProductName:           "Widget",
			ProductClassification: "Hardware",
			InStock:               1200,
			Counted:               3,
			Notes:                 "shelf 4",
			SKU:                   "0042",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("RecordFromRow() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("sku keeps quote characters", func(t *testing.T) {
		row := []string{"Pipe", "", "2", "", "", "", ` PIPE-3/4" `}
		got, err := RecordFromRow(row, idx, 1)
		if err != nil {
			t.Fatalf("RecordFromRow() error = %v", err)
		}
		if got.SKU != `PIPE-3/4"` {
			t.Errorf("SKU = %q, want %q", got.SKU, `PIPE-3/4"`)
		}
	})

	t.Run("short row leaves trailing fields empty", func(t *testing.T) {
		got, err := RecordFromRow([]string{"Widget", "", "2"}, idx, 1)
		if err != nil {
			t.Fatalf("RecordFromRow() error = %v", err)
		}
		if got.InStock != 2 || got.SKU != "" {
			t.Errorf("RecordFromRow() = %+v", got)
		}
	})

	t.Run("bad quantity names line and column", func(t *testing.T) {
		row := []string{"Widget", "", "lots", "0", "0", "", "A"}
		_, err := RecordFromRow(row, idx, 7)
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("RecordFromRow() error = %v, want ValidationError", err)
		}
		if ve.Line != 7 || ve.Field != ColInStock {
			t.Errorf("ValidationError = %+v, want line 7 field %q", ve, ColInStock)
		}
	})
}

func TestIsEmptyRow(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want bool
	}{
		{name: "empty slice", row: []string{}, want: true},
		{name: "blank cells", row: []string{"", "  ", "\t"}, want: true},
		{name: "one value", row: []string{"", "x"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmptyRow(tt.row); got != tt.want {
				t.Errorf("IsEmptyRow(%q) = %v, want %v", tt.row, got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "products.csv", want: FormatCSV},
		{path: "dir.v2/products.XLSX", want: FormatXLSX},
		{path: "products.json", want: FormatJSON},
		{path: "products.txt", wantErr: true},
		{path: "products", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("FormatFromPath(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatFromPath(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
