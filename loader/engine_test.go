package loader

import (
	"io/ioutil"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/kirkwilson-git/samples/constants"
	"github.com/kirkwilson-git/samples/logger"
	"github.com/kirkwilson-git/samples/rdbms/shared"
)

func newTestEngine(t *testing.T, db *shared.MockConnection, logDir string) *Engine {
	log := logger.NewLogger("sfutil", "info", true)
	e, err := NewEngine(&Config{
		Log:            log,
		Db:             db,
		FinalTableName: "customers",
		Database:       "dev",
		Schema:         "archive",
		Warehouse:      "dev_wh",
		BatchSize:      2,
		LogDir:         logDir,
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func mustWriteFile(t *testing.T, dir string, name string, data string) string {
	fileName := path.Join(dir, name)
	if err := ioutil.WriteFile(fileName, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return fileName
}

// registerProfilingQueries cans the profiling results for the a.csv scenario:
// ID numeric scale 0, AMOUNT numeric scale 2, SIGNUP_DATE timestamp matched
// by the first candidate format.
func registerProfilingQueries(db *shared.MockConnection) {
	db.RegisterQuery(`ORDER BY ORDINAL_POSITION`, []string{"COLUMN_NAME"},
		[][]interface{}{{"ID"}, {"AMOUNT"}, {"SIGNUP_DATE"}})
	db.RegisterQuery(`WHERE ID IS NOT NULL`, []string{"COUNT"}, [][]interface{}{{2}})
	db.RegisterQuery(`TRY_TO_NUMBER\(REPLACE\(ID`, []string{"COUNT"}, [][]interface{}{{0}})
	db.RegisterQuery(`NVL\(MAX\(length\(substr\(REPLACE\(ID`, []string{"SCALE"}, [][]interface{}{{0}})
	db.RegisterQuery(`WHERE AMOUNT IS NOT NULL`, []string{"COUNT"}, [][]interface{}{{2}})
	db.RegisterQuery(`TRY_TO_NUMBER\(REPLACE\(AMOUNT`, []string{"COUNT"}, [][]interface{}{{0}})
	db.RegisterQuery(`NVL\(MAX\(length\(substr\(REPLACE\(AMOUNT`, []string{"SCALE"}, [][]interface{}{{2}})
	db.RegisterQuery(`WHERE SIGNUP_DATE IS NOT NULL`, []string{"COUNT"}, [][]interface{}{{2}})
	db.RegisterQuery(`TRY_TO_NUMBER\(REPLACE\(SIGNUP_DATE`, []string{"COUNT"}, [][]interface{}{{2}})
	db.RegisterQuery(`TRY_TO_TIMESTAMP\(SIGNUP_DATE\)`, []string{"COUNT"}, [][]interface{}{{0}})
}

const testCsv = "ID,AMOUNT,SIGNUP_DATE\n" +
	"1,\"1,000.00\",01-15-19\n" +
	"2,\"250\",01-16-19\n"

func TestEngineRunEndToEnd(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	dir, err := ioutil.TempDir("", "loader-")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	sourceFile := mustWriteFile(t, dir, "a.csv", testCsv)
	db := shared.NewMockConnection(log, constants.ConnectionTypeMock)
	registerProfilingQueries(db)
	e := newTestEngine(t, db, dir)
	defer e.Close()

	if err = e.Run(sourceFile, ',', constants.EncodingUtf8); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateDone {
		t.Fatalf("expected state DONE; got %v", e.State())
	}

	// Test 1 - session prep runs first.
	if db.ExecHistory[0] != "USE WAREHOUSE DEV_WH" {
		t.Fatalf("expected USE WAREHOUSE first; got %v", db.ExecHistory[0])
	}
	if !db.ExecContains(`ALTER SESSION SET TWO_DIGIT_CENTURY_START = 1980`) {
		t.Fatal("expected the two digit century setting")
	}

	// Test 2 - stage table DDL is all-VARCHAR in header order.
	expectedStageDdl := "CREATE OR REPLACE TABLE STAGE_CUSTOMERS \n" +
		"COMMENT = 'Source file: a.csv' \n(\n" +
		"ID VARCHAR,\nAMOUNT VARCHAR,\nSIGNUP_DATE VARCHAR\n)"
	found := false
	for _, s := range db.ExecHistory {
		if s == expectedStageDdl {
			found = true
		}
	}
	if !found {
		t.Fatalf("stage DDL not executed, history: %v", db.ExecHistory)
	}

	// Test 3 - both rows are loaded as text in one bound batch.
	if !db.ExecContains(`insert into STAGE_CUSTOMERS \(ID,AMOUNT,SIGNUP_DATE\) values \( \?,\?,\? \),\( \?,\?,\? \)`) {
		t.Fatalf("expected a two-row stage insert, history: %v", db.ExecHistory)
	}
	foundArgs := false
	for _, args := range db.ExecArgs {
		if len(args) == 6 && args[0] == "1" && args[1] == "1,000.00" && args[2] == "01-15-19" {
			foundArgs = true
		}
	}
	if !foundArgs {
		t.Fatalf("expected bound stage insert values, args: %v", db.ExecArgs)
	}

	// Test 4 - final table DDL carries the inferred types.
	expectedFinalDdl := "CREATE OR REPLACE TABLE CUSTOMERS \n" +
		"COMMENT = 'Source file: a.csv' \n(\n" +
		"ID NUMBER,\nAMOUNT NUMBER(38, 2),\nSIGNUP_DATE TIMESTAMP\n)"
	found = false
	for _, s := range db.ExecHistory {
		if s == expectedFinalDdl {
			found = true
		}
	}
	if !found {
		t.Fatalf("final DDL not executed, history: %v", db.ExecHistory)
	}

	// Test 5 - the conversion pass is one INSERT..SELECT inside a committed transaction.
	expectedDml := "INSERT INTO CUSTOMERS \n( \nSELECT \n" +
		"TO_NUMBER(REPLACE(ID, ',', '')),\n" +
		"TO_NUMBER(REPLACE(AMOUNT, ',', ''), 38, 2),\n" +
		"TO_TIMESTAMP(SIGNUP_DATE,'DD-MON-YY')\n" +
		"FROM STAGE_CUSTOMERS\n)"
	found = false
	for _, s := range db.ExecHistory {
		if s == expectedDml {
			found = true
		}
	}
	if !found {
		t.Fatalf("conversion DML not executed, history: %v", db.ExecHistory)
	}
	if db.Tx == nil || !db.Tx.Committed {
		t.Fatal("expected the conversion transaction to be committed")
	}
	if !db.ExecContains(`ALTER SESSION SET TIMESTAMP_INPUT_FORMAT = 'AUTO'`) {
		t.Fatal("expected the session timestamp format to be reset before conversion")
	}

	// Test 6 - the run log replays the statements with timestamps.
	b, err := ioutil.ReadFile(e.RunLogFileName())
	if err != nil {
		t.Fatal(err)
	}
	runLog := string(b)
	if !strings.Contains(runLog, "USE WAREHOUSE DEV_WH;") {
		t.Fatal("expected USE WAREHOUSE in the run log")
	}
	if !strings.Contains(runLog, expectedFinalDdl+";") {
		t.Fatal("expected the final DDL in the run log")
	}
	if !strings.Contains(runLog, "COMMIT;") {
		t.Fatal("expected COMMIT in the run log")
	}
	if !strings.Contains(runLog, "-- ") {
		t.Fatal("expected timestamp comments in the run log")
	}
	if path.Base(e.RunLogFileName()) != "CUSTOMERS.sql" {
		t.Fatalf("expected run log named after the final table; got %v", e.RunLogFileName())
	}
}

func TestEngineIdempotentRerun(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	dir, err := ioutil.TempDir("", "loader-")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	sourceFile := mustWriteFile(t, dir, "a.csv", testCsv)

	finalDdl := func() string {
		db := shared.NewMockConnection(log, constants.ConnectionTypeMock)
		registerProfilingQueries(db)
		e := newTestEngine(t, db, dir)
		defer e.Close()
		if err := e.Run(sourceFile, ',', constants.EncodingUtf8); err != nil {
			t.Fatal(err)
		}
		for _, s := range db.ExecHistory {
			if strings.HasPrefix(s, "CREATE OR REPLACE TABLE CUSTOMERS") {
				return s
			}
		}
		t.Fatal("final DDL not found")
		return ""
	}

	// Two identical runs produce an identical destination schema.
	first := finalDdl()
	second := finalDdl()
	if first != second {
		t.Fatalf("expected identical DDL on re-run:\n%v\n%v", first, second)
	}
}

func TestEngineRejectsRaggedRows(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	dir, err := ioutil.TempDir("", "loader-")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	data := "ID,NAME\n1,abc\n2\n3,def\n"
	sourceFile := mustWriteFile(t, dir, "b.csv", data)
	db := shared.NewMockConnection(log, constants.ConnectionTypeMock)
	e := newTestEngine(t, db, dir)
	defer e.Close()

	if err = e.StageLoad(sourceFile, ',', constants.EncodingUtf8); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateStagePopulated {
		t.Fatalf("expected state STAGE_POPULATED; got %v", e.State())
	}

	// The ragged row is recorded in the error sink with bound values.
	if !db.ExecContains(`INSERT INTO AUDIT\.PUBLIC\.FILE_LOAD_ERRORS`) {
		t.Fatalf("expected a reject insert, history: %v", db.ExecHistory)
	}
	foundReject := false
	for _, args := range db.ExecArgs {
		if len(args) == 7 && args[0] == e.RunID() && args[3] == 2 && args[4] == CategoryFieldCount {
			foundReject = true
		}
	}
	if !foundReject {
		t.Fatalf("expected reject args keyed by run id and line 2, args: %v", db.ExecArgs)
	}

	// The two good rows still load.
	foundRows := 0
	for _, args := range db.ExecArgs {
		if len(args) == 4 { // two rows of two columns in one batch.
			foundRows = len(args) / 2
		}
	}
	if foundRows != 2 {
		t.Fatalf("expected 2 loaded rows, args: %v", db.ExecArgs)
	}
}

func TestInferColumnTypeFormatOrder(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	dir, err := ioutil.TempDir("", "loader-")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	db := shared.NewMockConnection(log, constants.ConnectionTypeMock)
	e := newTestEngine(t, db, dir)
	defer e.Close()

	// The first two candidates fail, the third fully converts.
	db.RegisterQuery(`WHERE TS_COL IS NOT NULL`, []string{"COUNT"}, [][]interface{}{{3}})
	db.RegisterQuery(`TRY_TO_NUMBER\(REPLACE\(TS_COL`, []string{"COUNT"}, [][]interface{}{{1}})
	db.RegisterQuery(`TRY_TO_TIMESTAMP\(TS_COL\)`, []string{"COUNT"}, [][]interface{}{{1}})
	db.RegisterQuery(`TRY_TO_TIMESTAMP\(TS_COL\)`, []string{"COUNT"}, [][]interface{}{{1}})
	db.RegisterQuery(`TRY_TO_TIMESTAMP\(TS_COL\)`, []string{"COUNT"}, [][]interface{}{{0}})

	descriptor, drop, err := e.InferColumnType("TS_COL")
	if err != nil {
		t.Fatal(err)
	}
	if drop {
		t.Fatal("expected the column to be kept")
	}
	if descriptor.Type != TypeTimestamp {
		t.Fatalf("expected TIMESTAMP; got %v", descriptor.Type)
	}
	if descriptor.TimestampFormat != TimestampInputFormats[2] {
		t.Fatalf("expected the third candidate format; got %v", descriptor.TimestampFormat)
	}

	// The candidates were applied to the session in list order.
	var alters []string
	for _, s := range db.ExecHistory {
		if strings.HasPrefix(s, "ALTER SESSION SET TIMESTAMP_INPUT_FORMAT") {
			alters = append(alters, s)
		}
	}
	if len(alters) != 3 {
		t.Fatalf("expected 3 format attempts; got %v", alters)
	}
	for i := 0; i < 3; i++ {
		expected := "ALTER SESSION SET TIMESTAMP_INPUT_FORMAT = '" + TimestampInputFormats[i] + "'"
		if alters[i] != expected {
			t.Fatalf("expected %v; got %v", expected, alters[i])
		}
	}
}

func TestInferColumnTypeDropsAllNull(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	dir, err := ioutil.TempDir("", "loader-")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	db := shared.NewMockConnection(log, constants.ConnectionTypeMock)
	e := newTestEngine(t, db, dir)
	defer e.Close()

	db.RegisterQuery(`WHERE EMPTY_COL IS NOT NULL`, []string{"COUNT"}, [][]interface{}{{0}})
	_, drop, err := e.InferColumnType("EMPTY_COL")
	if err != nil {
		t.Fatal(err)
	}
	if !drop {
		t.Fatal("expected an all-null column to be dropped")
	}
}

func TestProfileColumnsDropsAllNull(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	dir, err := ioutil.TempDir("", "loader-")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	db := shared.NewMockConnection(log, constants.ConnectionTypeMock)
	e := newTestEngine(t, db, dir)
	defer e.Close()

	db.RegisterQuery(`ORDER BY ORDINAL_POSITION`, []string{"COLUMN_NAME"},
		[][]interface{}{{"ID"}, {"EMPTY_COL"}})
	db.RegisterQuery(`WHERE ID IS NOT NULL`, []string{"COUNT"}, [][]interface{}{{1}})
	db.RegisterQuery(`TRY_TO_NUMBER\(REPLACE\(ID`, []string{"COUNT"}, [][]interface{}{{0}})
	db.RegisterQuery(`NVL\(MAX\(length\(substr\(REPLACE\(ID`, []string{"SCALE"}, [][]interface{}{{0}})
	db.RegisterQuery(`WHERE EMPTY_COL IS NOT NULL`, []string{"COUNT"}, [][]interface{}{{0}})

	descriptors, err := e.ProfileColumns()
	if err != nil {
		t.Fatal(err)
	}
	if e.State() != StateColumnsProfiled {
		t.Fatalf("expected state COLUMNS_PROFILED; got %v", e.State())
	}
	if len(descriptors) != 1 || descriptors[0].Name != "ID" {
		t.Fatalf("expected only ID to survive profiling; got %v", descriptors)
	}
}

func TestMaterializeNoColumns(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	dir, err := ioutil.TempDir("", "loader-")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	db := shared.NewMockConnection(log, constants.ConnectionTypeMock)
	e := newTestEngine(t, db, dir)
	defer e.Close()

	err = e.Materialize(nil)
	if err != ErrNoData {
		t.Fatalf("expected ErrNoData; got %v", err)
	}
	// No destination table is created.
	if db.ExecContains(`CREATE OR REPLACE TABLE CUSTOMERS`) {
		t.Fatal("expected no destination table DDL")
	}
	e.Close()
	b, err := ioutil.ReadFile(e.RunLogFileName())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "-- No data in source file") {
		t.Fatal("expected the empty-source comment in the run log")
	}
}

func TestNewEngineValidation(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	db := shared.NewMockConnection(log, constants.ConnectionTypeMock)

	// Test 1 - missing mandatory fields.
	_, err := NewEngine(&Config{Log: log, Db: db})
	if err == nil {
		t.Fatal("expected an error for missing mandatory config")
	}

	// Test 2 - table names with special characters are rejected before any SQL runs.
	_, err = NewEngine(&Config{
		Log:            log,
		Db:             db,
		FinalTableName: "bad;drop",
		Database:       "dev",
		Schema:         "archive",
		Warehouse:      "dev_wh",
	})
	if err == nil {
		t.Fatal("expected an error for an unsafe table name")
	}
	if len(db.ExecHistory) != 0 {
		t.Fatal("expected no SQL to be executed")
	}

	// Test 3 - each part of a qualified error table name is checked like any
	// other identifier.
	_, err = NewEngine(&Config{
		Log:            log,
		Db:             db,
		FinalTableName: "customers",
		Database:       "dev",
		Schema:         "archive",
		Warehouse:      "dev_wh",
		ErrorTable:     "AUDIT.PUBLIC.ERRORS; DROP TABLE X",
	})
	if err == nil {
		t.Fatal("expected an error for an unsafe error table name")
	}
	if len(db.ExecHistory) != 0 {
		t.Fatal("expected no SQL to be executed")
	}
}
