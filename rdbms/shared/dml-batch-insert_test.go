package shared

import (
	"regexp"
	"testing"

	"github.com/cevaris/ordered_map"
	"github.com/kirkwilson-git/samples/logger"
)

func TestSqlInsertBatch(t *testing.T) {
	log := logger.NewLogger("sfutil", "debug", false)
	log.Info("Starting tests for SQL INSERT...")

	omCols := ordered_map.NewOrderedMap()
	omCols.Set("col1", "a")
	omCols.Set("col2", "b")
	omCols.Set("col3", "c")

	dml := &DmlGeneratorTxtBatch{}
	o := dml.NewInsertGenerator(&SqlStatementGeneratorConfig{
		Log:             log,
		OutputSchema:    "",
		SchemaSeparator: ".",
		OutputTable:     "t2",
		TargetCols:      omCols}).(SqlStmtTxtBatcher)

	var batchIsFull bool
	var err error

	// Test 1 - a batch of size 2 fills after two rows.
	o.InitBatch(2)
	_, err = o.AddValuesToBatch([]interface{}{"x", "y", 123}) // first row should succeed.
	if err != nil {
		t.Fatal(err)
	}
	batchIsFull, err = o.AddValuesToBatch([]interface{}{"p", "q", 2}) // second row should succeed.
	if err != nil {
		t.Fatal(err)
	}
	if !batchIsFull {
		t.Fatal("The batch *should* be full but it is not.")
	}

	// Test 2 - a row with the wrong number of values is rejected.
	o.InitBatch(1)
	_, err = o.AddValuesToBatch([]interface{}{"a", "b", 456, 789})
	if err == nil {
		t.Fatal("There should have been an error. Incorrect number of values deliberately supplied in batch.")
	}

	// Test 3 - a batch of one row generates valid SQL and args.
	o.InitBatch(1)
	batchIsFull, err = o.AddValuesToBatch([]interface{}{"a", "b", 456})
	if err != nil {
		t.Fatal(err)
	}
	if !batchIsFull {
		t.Fatal("The batch *should* be full but it is not.")
	}

	log.Debug("SQL with bind: ", o.GetStatement())
	log.Debug("SQL args/values: ", o.GetValues())

	if len(o.GetValues()) != 3 {
		t.Fatal("Error, incorrect number of args.")
	}

	expectedSql := `insert into t2 (a,b,c) values ( ?,?,? )`
	re := regexp.MustCompile("[\t\r\n\f]")
	got := re.ReplaceAllString(o.GetStatement(), " ")
	expected := re.ReplaceAllString(expectedSql, " ")
	if got != expected {
		t.Fatalf("unexpected SQL generated: got '%v'; expected '%v'", got, expected)
	}

	// Test 4 - a larger batch repeats the bind group per row.
	o.InitBatch(2)
	_, _ = o.AddValuesToBatch([]interface{}{"x", "y", 1})
	_, _ = o.AddValuesToBatch([]interface{}{"p", "q", 2})
	expectedSql = `insert into t2 (a,b,c) values ( ?,?,? ),( ?,?,? )`
	if o.GetStatement() != expectedSql {
		t.Fatalf("unexpected SQL generated: got '%v'; expected '%v'", o.GetStatement(), expectedSql)
	}
}
