package actions

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirkwilson-git/samples/constants"
	"github.com/kirkwilson-git/samples/logger"
	"github.com/kirkwilson-git/samples/rdbms"
	"github.com/kirkwilson-git/samples/rdbms/shared"
)

func TestLoadFileList(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	db := shared.NewMockConnection(log, constants.ConnectionTypeMock)
	listingFile := filepath.Join("out", "BASWARE_FILES.txt")
	absPath, err := filepath.Abs(listingFile)
	if err != nil {
		t.Fatal(err)
	}

	st := rdbms.NewSchemaTable("", "BASWARE")
	fileListTable := st.AppendSuffix("_FILE_LIST")

	t.Log("Test-1: statement sequence for a file list load")
	if err = loadFileList(log, db, "ARCHIVE", "BASWARE", "DEV_WH", fileListTable, listingFile); err != nil {
		t.Fatal(err)
	}
	expected := []string{
		"USE DATABASE ARCHIVE",
		"USE SCHEMA BASWARE",
		"USE WAREHOUSE DEV_WH",
		"CREATE OR REPLACE TABLE BASWARE_FILE_LIST (FILE_NAME VARCHAR)",
		"PUT 'file://" + filepath.ToSlash(absPath) + "' @%BASWARE_FILE_LIST",
		"COPY INTO BASWARE_FILE_LIST FILE_FORMAT='PUBLIC.FILE_LIST_NO_HEADER' PURGE=TRUE",
	}
	if len(db.ExecHistory) != len(expected) {
		t.Fatalf("expected %v statements, got %v: %v", len(expected), len(db.ExecHistory), db.ExecHistory)
	}
	for i, stmt := range expected {
		if db.ExecHistory[i] != stmt {
			t.Fatalf("statement %v: expected %q, got %q", i, stmt, db.ExecHistory[i])
		}
	}

	t.Log("Test-2: a failing statement aborts the sequence")
	db2 := shared.NewMockConnection(log, constants.ConnectionTypeMock)
	db2.ExecErrors = map[string]error{"CREATE OR REPLACE TABLE": errTest}
	err = loadFileList(log, db2, "ARCHIVE", "BASWARE", "DEV_WH", fileListTable, listingFile)
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, stmt := range db2.ExecHistory {
		if strings.HasPrefix(stmt, "PUT ") || strings.HasPrefix(stmt, "COPY ") {
			t.Fatalf("statement should not have run after the failure: %q", stmt)
		}
	}
}
