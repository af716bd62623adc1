package store

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestBOMSkipper(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("SKU,In Stock")...),
			expected: "SKU,In Stock",
		},
		{
			name:     "file without BOM",
			input:    []byte("SKU,In Stock"),
			expected: "SKU,In Stock",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
		{
			name:     "short file",
			input:    []byte("a"),
			expected: "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(newBOMSkipper(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "valid ASCII",
			input:    []byte("Widget,5"),
			expected: "Widget,5",
		},
		{
			name:     "valid multibyte",
			input:    []byte("Caf\xc3\xa9 Beans,5"),
			expected: "Caf\xc3\xa9 Beans,5",
		},
		{
			name:     "invalid single byte replaced",
			input:    []byte{'h', 'e', 0x80, 'l', 'o'},
			expected: "he?lo",
		},
		{
			name:     "Windows-1252 smart quotes replaced",
			input:    []byte("\x93Deluxe\x94"),
			expected: "?Deluxe?",
		},
		{
			name:     "empty input",
			input:    []byte{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(newUTF8Sanitizer(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

// oneByteReader forces multi-byte runes to straddle read boundaries.
type oneByteReader struct {
	data []byte
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	p[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}

func TestUTF8Sanitizer_SplitRunes(t *testing.T) {
	input := "Caf\xc3\xa9 \xe2\x82\xac5"
	result, err := io.ReadAll(newUTF8Sanitizer(&oneByteReader{data: []byte(input)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != input {
		t.Errorf("got %q, want %q", string(result), input)
	}
}

// readInSteps drains r using a caller buffer of the given size.
func readInSteps(t *testing.T, r io.Reader, size int) string {
	t.Helper()
	var out bytes.Buffer
	buf := make([]byte, size)
	for i := 0; i < 10000; i++ {
		n, err := r.Read(buf)
		out.Write(buf[:n])
		if err == io.EOF {
			return out.String()
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	t.Fatal("reader made no progress")
	return ""
}

func TestUTF8Sanitizer_SmallCallerBuffer(t *testing.T) {
	input := "Caf\xc3\xa9 \xe2\x82\xac5 \xf0\x9f\x93\xa6 bad\x80end"
	want := "Caf\xc3\xa9 \xe2\x82\xac5 \xf0\x9f\x93\xa6 bad?end"

	for _, size := range []int{1, 2, 3} {
		got := readInSteps(t, newUTF8Sanitizer(&oneByteReader{data: []byte(input)}), size)
		if got != want {
			t.Errorf("buffer %d: got %q, want %q", size, got, want)
		}
	}
}

func TestUTF8Sanitizer_TruncatedRuneAtEOF(t *testing.T) {
	got := readInSteps(t, newUTF8Sanitizer(&oneByteReader{data: []byte("ab\xe2\x82")}), 1)
	if got != "ab??" {
		t.Errorf("got %q, want %q", got, "ab??")
	}
}

func TestSizeLimiter(t *testing.T) {
	input := strings.Repeat("x", 1000)

	_, err := io.ReadAll(&sizeLimiter{reader: strings.NewReader(input), limit: 100})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("error = %v, want ErrFileTooLarge", err)
	}

	got, err := io.ReadAll(&sizeLimiter{reader: strings.NewReader(input), limit: 0})
	if err != nil || len(got) != len(input) {
		t.Errorf("unlimited read = %d bytes, %v", len(got), err)
	}
}

func TestWrapForImport(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte{'h', 'e', 0x80, 'l', 'o'}...)

	result, err := io.ReadAll(wrapForImport(bytes.NewReader(input), int64(len(input))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != "he?lo" {
		t.Errorf("got %q, want %q", string(result), "he?lo")
	}
}
