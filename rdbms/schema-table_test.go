package rdbms

import (
	"testing"

	"github.com/kirkwilson-git/samples/logger"
)

func TestSchemaTable(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	// Test 1
	input := "schema.table"
	log.Info("Testing SchemaTable: ", input)
	st := SchemaTable{SchemaTable: input}
	// Test 1 - Schema
	got := st.GetSchema()
	expected := "schema"
	if got != expected {
		t.Fatalf("expected schema = %q; got %q", expected, got)
	}
	// Test 1 - Table
	got = st.GetTable()
	expected = "table"
	if got != expected {
		t.Fatalf("expected table = %q; got %q", expected, got)
	}
	// Test 1 - String
	got = st.String()
	expected = "schema.table"
	if got != expected {
		t.Fatalf("expected %q; got %q", expected, got)
	}

	// Test 2
	input = `schema."table"`
	log.Info("Testing SchemaTable: ", input)
	st = SchemaTable{SchemaTable: input}
	// Test 2 - Schema
	got = st.GetSchema()
	expected = "schema"
	if got != expected {
		t.Fatalf("expected schema = %v; got %v", expected, got)
	}
	// Test 2 - Table
	got = st.GetTable()
	expected = `"table"`
	if got != expected {
		t.Fatalf("expected table = %v; got %v", expected, got)
	}

	// Test 3 - quoted name containing a period is treated as one object.
	input = `"random.table"`
	log.Info("Testing SchemaTable: ", input)
	st = SchemaTable{SchemaTable: input}
	got = st.GetSchema()
	expected = ""
	if got != expected {
		t.Fatalf("expected schema = %v; got %v", expected, got)
	}
	got = st.GetTable()
	expected = `"random.table"`
	if got != expected {
		t.Fatalf("expected table = %v; got %v", expected, got)
	}

	// Test 4 - suffix and prefix handling.
	st = NewSchemaTable("public", "orders")
	got = st.AppendSuffix("_tmp")
	expected = "public.orders_tmp"
	if got != expected {
		t.Fatalf("expected %v; got %v", expected, got)
	}
	got = st.PrependPrefix("STAGE_")
	expected = "public.STAGE_orders"
	if got != expected {
		t.Fatalf("expected %v; got %v", expected, got)
	}
	st = SchemaTable{SchemaTable: `public."orders"`}
	got = st.PrependPrefix("STAGE_")
	expected = `public."STAGE_orders"`
	if got != expected {
		t.Fatalf("expected %v; got %v", expected, got)
	}
}
