package loader

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/kirkwilson-git/samples/rdbms/shared"
)

// Reject categories recorded with row-level data errors.
const (
	CategoryFieldCount = "FIELD_COUNT"
	CategoryParse      = "PARSE"
)

// ErrNoData is returned by Materialize when no columns survive profiling,
// i.e. the source file had no data rows or every column was entirely null.
var ErrNoData = errors.New("no data in source file")

// RejectedRow is one source row excluded from the staging load.
type RejectedRow struct {
	Error    string
	Line     int // 1-based data row number in the source file, excluding the header.
	Category string
	Record   string
}

// Expected layout of the error sink table:
//
//	create or replace table FILE_LOAD_ERRORS (
//	    RUN_ID          VARCHAR,
//	    ERROR           VARCHAR,
//	    FILE            VARCHAR,
//	    LINE            NUMBER(38,0),
//	    CHARACTER       NUMBER(38,0),
//	    CATEGORY        VARCHAR,
//	    TABLE_NAME      VARCHAR,
//	    COLUMN_NAME     VARCHAR,
//	    REJECTED_RECORD VARCHAR,
//	    MD_INSERT_DATE  TIMESTAMP_NTZ(9)
//	);
const insertRejectSql = `INSERT INTO %v (RUN_ID, ERROR, FILE, LINE, CHARACTER, CATEGORY, TABLE_NAME, COLUMN_NAME, REJECTED_RECORD, MD_INSERT_DATE) ` +
	`SELECT ?, ?, ?, ?, 0, ?, ?, '', ?, CURRENT_TIMESTAMP::TIMESTAMP_NTZ`

// writeRejects records each reject in the error sink table using bound
// parameters, keyed by run id and source file name. Rejects are an audit
// artifact so a failure here is returned rather than swallowed, but the
// caller treats the rows themselves as excluded either way.
func writeRejects(db shared.Connector, errorTable string, runID string, sourceFile string, tableName string, rejects []RejectedRow) error {
	stmt := fmt.Sprintf(insertRejectSql, errorTable)
	for _, r := range rejects {
		_, err := db.Exec(stmt, runID, r.Error, sourceFile, r.Line, r.Category, tableName, r.Record)
		if err != nil {
			return errors.Wrapf(err, "unable to record rejected row %v in %v", r.Line, errorTable)
		}
	}
	return nil
}
