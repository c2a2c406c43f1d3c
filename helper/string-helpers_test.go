package helper

import (
	"testing"
	"time"

	"github.com/kirkwilson-git/samples/logger"
)

func TestStringSliceToOrderedMap(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	// Test 1
	input := []string{"colA", "colB", "colC"}
	om := StringSliceToOrderedMap(input)
	if om.Len() != 3 {
		t.Fatalf("expected 3 entries; got %v", om.Len())
	}
	// Test 2, confirm order is preserved when converting back to a slice.
	out := make([]string, om.Len(), om.Len())
	idx := 0
	OrderedMapValuesToStringSlice(log, om, &out, &idx)
	for i, v := range input {
		if out[i] != v {
			t.Fatalf("expected %q at index %v; got %q", v, i, out[i])
		}
	}
}

func TestCsvToStringSliceTrimSpaces(t *testing.T) {
	input := "a, b ,c"
	got := CsvToStringSliceTrimSpaces(input)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected slice: %v", got)
	}
}

func TestEscapeSingleQuotesInString(t *testing.T) {
	input := "it's"
	expected := "it''s"
	got := EscapeSingleQuotesInString(input)
	if got != expected {
		t.Fatalf("expected %q; got %q", expected, got)
	}
}

func TestInterfaceToString(t *testing.T) {
	ts := time.Date(2019, 1, 15, 10, 30, 0, 0, time.UTC)
	input := []interface{}{int64(1), float64(2), float64(2.5), []uint8("bytes"), nil, ts}
	got := InterfaceToString(input)
	expected := []string{"1", "2", "2.5", "bytes", "", ts.Format("20060102T150405-0700")}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("index %v: expected %q; got %q", i, expected[i], got[i])
		}
	}
}
