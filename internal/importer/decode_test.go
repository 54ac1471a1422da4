package importer

import (
	"errors"
	"io"
	"testing"
)

func TestDecodeContent(t *testing.T) {
	t.Run("utf8 passes through", func(t *testing.T) {
		got, err := DecodeContent([]byte("data;placa\nação"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "data;placa\nação" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("latin1 fallback", func(t *testing.T) {
		// "ção" in ISO-8859-1: e7 e3 are invalid UTF-8 sequences.
		raw := []byte{'a', 0xe7, 0xe3, 'o'}
		got, err := DecodeContent(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "ação" {
			t.Errorf("got %q, want %q", got, "ação")
		}
	})
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		line string
		want rune
	}{
		{"semicolons", "data;placa;litros", ';'},
		{"commas", "data,placa,litros", ','},
		{"tabs", "data\tplaca\tlitros", '\t'},
		{"pipes", "data|placa|litros", '|'},
		{"majority wins", "data;placa;litros,observacoes", ';'},
		{"no delimiter defaults to semicolon", "data", ';'},
		{"empty line", "", ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter(tt.line); got != tt.want {
				t.Errorf("DetectDelimiter(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Placa", "placa"},
		{"  Preco/Litro  ", "preco_litro"},
		{"PREÇO LITRO", "pre_o_litro"},
		{"centro__custo", "centro_custo"},
		{"__data__", "data"},
		{"observações!!", "observa_es"},
	}

	for _, tt := range tests {
		if got := NormalizeHeader(tt.input); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRowReader(t *testing.T) {
	content := "Data;Placa;Litros\n15/01/2025;ABC-1234;45,5\n16/01/2025;XYZ-5678;38,75\n"

	rr, err := NewRowReader(content)
	if err != nil {
		t.Fatalf("NewRowReader: %v", err)
	}

	row, err := rr.Next()
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if row.Num != 2 {
		t.Errorf("first data row number = %d, want 2 (header is row 1)", row.Num)
	}
	if row.Fields["placa"] != "ABC-1234" {
		t.Errorf("placa = %q", row.Fields["placa"])
	}
	if row.Fields["litros"] != "45,5" {
		t.Errorf("litros = %q", row.Fields["litros"])
	}

	row, err = rr.Next()
	if err != nil {
		t.Fatalf("second Next: %v", err)
	}
	if row.Num != 3 {
		t.Errorf("second data row number = %d, want 3", row.Num)
	}

	if _, err := rr.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after last row, got %v", err)
	}
}

func TestRowReaderCommaDelimited(t *testing.T) {
	content := "data,placa,litros\n2025-01-15,ABC-1234,45.5\n"

	rr, err := NewRowReader(content)
	if err != nil {
		t.Fatalf("NewRowReader: %v", err)
	}
	row, err := rr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Fields["litros"] != "45.5" {
		t.Errorf("litros = %q", row.Fields["litros"])
	}
}

func TestRowReaderShortRow(t *testing.T) {
	content := "data;placa;litros\n15/01/2025;ABC-1234\n"

	rr, err := NewRowReader(content)
	if err != nil {
		t.Fatalf("NewRowReader: %v", err)
	}
	row, err := rr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if v, ok := row.Fields["litros"]; !ok || v != "" {
		t.Errorf("missing trailing cell should read empty, got %q (present=%v)", v, ok)
	}
}

func TestRowReaderEmptyContent(t *testing.T) {
	if _, err := NewRowReader(""); !errors.Is(err, ErrNoHeader) {
		t.Errorf("empty content: got %v, want ErrNoHeader", err)
	}
}

func TestRowReaderGetAlias(t *testing.T) {
	row := RawRow{Num: 2, Fields: map[string]string{"data_hora": "15/01/2025", "data": ""}}
	if got := row.Get("data", "data_hora"); got != "15/01/2025" {
		t.Errorf("alias lookup = %q", got)
	}
}
