package actions

import (
	"errors"
	"testing"

	"github.com/kirkwilson-git/samples/constants"
)

var errTest = errors.New("forced test failure")

func TestDelimiterForFormat(t *testing.T) {
	tests := []struct {
		format    string
		expected  rune
		expectErr bool
	}{
		{constants.FileFormatCsv, ',', false},
		{constants.FileFormatCsvSemicolon, ';', false},
		{constants.FileFormatTsv, '\t', false},
		{"PIPE", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := delimiterForFormat(tt.format)
		if tt.expectErr {
			if err == nil {
				t.Fatalf("expected an error for format %q", tt.format)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.expected {
			t.Fatalf("format %q: expected delimiter %q, got %q", tt.format, tt.expected, got)
		}
	}
}
