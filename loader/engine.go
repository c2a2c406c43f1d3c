package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kirkwilson-git/samples/constants"
	"github.com/kirkwilson-git/samples/file"
	"github.com/kirkwilson-git/samples/helper"
	"github.com/kirkwilson-git/samples/logger"
	"github.com/kirkwilson-git/samples/rdbms"
	"github.com/kirkwilson-git/samples/rdbms/shared"
	"github.com/pkg/errors"
	"github.com/rs/xid"
)

// Config describes one staged load run.
type Config struct {
	Log            logger.Logger    `errorTxt:"logger" mandatory:"yes"`
	Db             shared.Connector `errorTxt:"database connection" mandatory:"yes"`
	FinalTableName string           `errorTxt:"final table name" mandatory:"yes"`
	Database       string           `errorTxt:"Snowflake database" mandatory:"yes"`
	Schema         string           `errorTxt:"Snowflake schema" mandatory:"yes"`
	Warehouse      string           `errorTxt:"Snowflake warehouse" mandatory:"yes"`
	ErrorTable     string           // defaults to constants.DefaultErrorTable
	BatchSize      int              // defaults to constants.InsertBatchNumRowsDefault
	LogDir         string           // base directory for the run log, defaults to the working directory
}

// Engine turns an untyped delimited text source into a typed Snowflake table,
// inferring types purely from the data. One Engine per run; it owns the run
// log and works against an explicitly supplied database session.
type Engine struct {
	log            logger.Logger
	db             shared.Connector
	stageTable     string
	finalTable     string
	database       string
	schema         string
	warehouse      string
	errorTable     string
	batchSize      int
	runID          string
	runLog         *RunLog
	state          RunState
	sourceFileName string
	lastBatchSql   string // last INSERT shape written to the run log
}

func NewEngine(cfg *Config) (*Engine, error) {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return nil, err
	}
	finalTable := strings.ToUpper(cfg.FinalTableName)
	// Table, database, schema and warehouse names are emitted into generated
	// SQL so they pass the same identifier gate as column names.
	for _, name := range []string{finalTable, cfg.Database, cfg.Schema, cfg.Warehouse} {
		if err := ValidateIdentifier(name); err != nil {
			return nil, err
		}
	}
	errorTable := cfg.ErrorTable
	if errorTable == "" {
		errorTable = constants.DefaultErrorTable
	}
	// The error table name is emitted into generated SQL too, so each part of
	// the qualified name passes the identifier gate as well.
	for _, part := range strings.Split(errorTable, ".") {
		if err := ValidateIdentifier(part); err != nil {
			return nil, errors.Wrapf(err, "bad error table name %v", errorTable)
		}
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = constants.InsertBatchNumRowsDefault
	}
	runLog, err := NewRunLog(cfg.LogDir, finalTable)
	if err != nil {
		return nil, err
	}
	st := rdbms.NewSchemaTable("", finalTable)
	return &Engine{
		log:        cfg.Log,
		db:         cfg.Db,
		stageTable: st.PrependPrefix(constants.StageTablePrefix),
		finalTable: finalTable,
		database:   strings.ToUpper(cfg.Database),
		schema:     strings.ToUpper(cfg.Schema),
		warehouse:  strings.ToUpper(cfg.Warehouse),
		errorTable: errorTable,
		batchSize:  batchSize,
		runID:      xid.New().String(),
		runLog:     runLog,
		state:      StateStart,
	}, nil
}

func (e *Engine) State() RunState {
	return e.state
}

func (e *Engine) RunID() string {
	return e.runID
}

func (e *Engine) StageTableName() string {
	return e.stageTable
}

func (e *Engine) RunLogFileName() string {
	return e.runLog.FileName()
}

func (e *Engine) Close() {
	e.runLog.Close()
}

// Run executes the full pipeline:
// START → STAGE_CREATED → STAGE_POPULATED → COLUMNS_PROFILED →
// DESTINATION_CREATED → DESTINATION_POPULATED → DONE.
func (e *Engine) Run(sourcePath string, delimiter rune, encoding string) error {
	if err := e.Prepare(); err != nil {
		return err
	}
	if err := e.StageLoad(sourcePath, delimiter, encoding); err != nil {
		return err
	}
	descriptors, err := e.ProfileColumns()
	if err != nil {
		return err
	}
	if err := e.Materialize(descriptors); err != nil {
		return err
	}
	if err := e.runLog.WriteTimestamp(); err != nil {
		return err
	}
	e.state = StateDone
	e.log.Info("Load of ", e.finalTable, " complete, run log: ", e.runLog.FileName())
	return nil
}

// Prepare sets the session context for the run.
// TWO_DIGIT_CENTURY_START makes a DD-MM-YY value of '01-02-03' load as
// 01-02-2003 rather than 01-02-0003.
func (e *Engine) Prepare() error {
	if err := e.execLogged("USE WAREHOUSE "+e.warehouse, true); err != nil {
		return err
	}
	if err := e.execLogged("USE DATABASE "+e.database, false); err != nil {
		return err
	}
	if err := e.execLogged("USE SCHEMA "+e.schema, false); err != nil {
		return err
	}
	return e.execLogged("ALTER SESSION SET TWO_DIGIT_CENTURY_START = 1980", false)
}

// StageLoad derives one VARCHAR column per header field, (re)creates the
// staging table and bulk-loads every well-formed data row as text.
// Row-level rejects are recorded in the error sink table and excluded;
// they never abort the load. The staging table persists after the run.
func (e *Engine) StageLoad(sourcePath string, delimiter rune, encoding string) error {
	input, err := file.NewDelimitedInput(e.log, sourcePath, delimiter, encoding)
	if err != nil {
		return err
	}
	defer input.Close()
	// Header validation is a pre-flight configuration check: it fails before
	// any table is touched.
	cols, err := NormalizeHeader(input.Header())
	if err != nil {
		return err
	}
	e.sourceFileName = filepath.Base(sourcePath)
	if err = e.execLogged(e.stageTableDdl(cols), true); err != nil {
		return err
	}
	e.state = StateStageCreated
	e.log.Info("Stage table ", e.stageTable, " created")
	// Load the rows.
	numRows, rejects, err := e.loadStageRows(input, cols)
	if err != nil {
		return err
	}
	if len(rejects) > 0 { // if any rows were rejected...
		e.log.Warn(len(rejects), " rows rejected, recorded in ", e.errorTable)
		if err = writeRejects(e.db, e.errorTable, e.runID, e.sourceFileName, e.stageTable, rejects); err != nil {
			return err
		}
	}
	if err = e.runLog.WriteComment(fmt.Sprintf("%v rows loaded into %v, %v rejected", numRows, e.stageTable, len(rejects))); err != nil {
		return err
	}
	e.state = StateStagePopulated
	e.log.Info("Stage table ", e.stageTable, " populated with ", numRows, " rows")
	return nil
}

func (e *Engine) stageTableDdl(cols []string) string {
	b := strings.Builder{}
	b.WriteString("CREATE OR REPLACE TABLE " + e.stageTable + " \n")
	b.WriteString("COMMENT = 'Source file: " + helper.EscapeSingleQuotesInString(e.sourceFileName) + "' \n(\n")
	for i, col := range cols {
		b.WriteString(col + " VARCHAR")
		if i < len(cols)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

func (e *Engine) loadStageRows(input *file.DelimitedInput, cols []string) (numRows int, rejects []RejectedRow, err error) {
	targetCols := helper.StringSliceToOrderedMap(cols)
	dml := &shared.DmlGeneratorTxtBatch{}
	gen := dml.NewInsertGenerator(&shared.SqlStatementGeneratorConfig{
		Log:         e.log,
		OutputTable: e.stageTable,
		TargetCols:  targetCols,
	}).(shared.SqlStmtTxtBatcher)
	batch := make([][]interface{}, 0, e.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		gen.InitBatch(len(batch))
		for _, row := range batch {
			if _, err := gen.AddValuesToBatch(row); err != nil {
				return err
			}
		}
		stmt := gen.GetStatement()
		if stmt != e.lastBatchSql { // if the statement shape changed, log it once...
			if err := e.runLog.WriteStatement(stmt+";\n\n", true); err != nil {
				return err
			}
			e.lastBatchSql = stmt
		}
		if _, err := e.db.Exec(stmt, gen.GetValues()...); err != nil {
			return errors.Wrapf(err, "error inserting batch into %v", e.stageTable)
		}
		numRows += len(batch)
		batch = batch[:0]
		return nil
	}
	for {
		record, readErr := input.ReadRow()
		if readErr == io.EOF {
			break
		}
		if readErr == file.ErrFieldCount { // if the record is ragged, reject it and continue...
			rejects = append(rejects, RejectedRow{
				Error:    readErr.Error(),
				Line:     input.RowNum(),
				Category: CategoryFieldCount,
				Record:   strings.Join(record, ","),
			})
			continue
		}
		if readErr != nil { // if the record failed to parse, reject it and continue...
			rejects = append(rejects, RejectedRow{
				Error:    readErr.Error(),
				Line:     input.RowNum(),
				Category: CategoryParse,
				Record:   strings.Join(record, ","),
			})
			continue
		}
		row := make([]interface{}, len(record))
		for i, v := range record {
			if v == "" { // empty string means null.
				row[i] = nil
			} else {
				row[i] = v
			}
		}
		batch = append(batch, row)
		if len(batch) >= e.batchSize {
			if err = flush(); err != nil {
				return numRows, rejects, err
			}
		}
	}
	if err = flush(); err != nil {
		return numRows, rejects, err
	}
	return numRows, rejects, nil
}

// ProfileColumns infers a type for every staging column in ordinal order.
// Columns that are entirely null are dropped from the result; they remain
// in the staging table but take no further part in the run.
func (e *Engine) ProfileColumns() ([]ColumnDescriptor, error) {
	stmt := fmt.Sprintf("SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_NAME = '%v' AND TABLE_SCHEMA = '%v' ORDER BY ORDINAL_POSITION",
		e.stageTable, e.schema)
	cols, err := e.queryStrings(stmt)
	if err != nil {
		return nil, err
	}
	descriptors := make([]ColumnDescriptor, 0, len(cols))
	for _, col := range cols {
		descriptor, drop, err := e.InferColumnType(col)
		if err != nil {
			return nil, err
		}
		if drop { // if the column is entirely null...
			e.log.Info("Column ", col, " is all null, dropped from the final table")
			continue
		}
		descriptors = append(descriptors, descriptor)
		e.log.Info("Column ", col, " profiled: Type=", descriptor.Type)
	}
	e.state = StateColumnsProfiled
	return descriptors, nil
}

// InferColumnType profiles one staging column and returns its descriptor.
// drop is true when every value in the column is null. Profiling is
// read-only against the staging table; the checks run in a fixed order
// (empty, numeric, then each timestamp candidate) so the result is
// deterministic for a given data set.
func (e *Engine) InferColumnType(columnName string) (descriptor ColumnDescriptor, drop bool, err error) {
	if err = ValidateIdentifier(columnName); err != nil {
		return descriptor, false, err
	}
	descriptor.Name = columnName
	// Emptiness check.
	count, err := e.queryCount(fmt.Sprintf("SELECT COUNT(*) FROM %v WHERE %v IS NOT NULL", e.stageTable, columnName))
	if err != nil {
		return descriptor, false, err
	}
	if count == 0 { // if the column is entirely null...
		return descriptor, true, nil
	}
	// Numeric check: the REPLACE strips comma thousands separators seen in
	// some source files. If every non-null value converts, it's a number.
	count, err = e.queryCount(fmt.Sprintf(
		"SELECT COUNT(*) FROM %v WHERE TRY_TO_NUMBER(REPLACE(%v, ',', '')) IS NULL AND %v IS NOT NULL",
		e.stageTable, columnName, columnName))
	if err != nil {
		return descriptor, false, err
	}
	if count == 0 {
		descriptor.Type = TypeNumber
		descriptor.Scale, err = e.queryNumericScale(columnName)
		if err != nil {
			return descriptor, false, err
		}
		return descriptor, false, nil
	}
	// Timestamp check: try each candidate format in order and take the first
	// under which every non-null value converts.
	format, err := e.checkForTimestamp(columnName)
	if err != nil {
		return descriptor, false, err
	}
	if format != "" {
		descriptor.Type = TypeTimestamp
		descriptor.TimestampFormat = format
		return descriptor, false, nil
	}
	descriptor.Type = TypeText
	return descriptor, false, nil
}

// queryNumericScale returns the maximum number of digits observed to the
// right of the decimal point across the column's values, capped at the
// numeric precision bound.
func (e *Engine) queryNumericScale(columnName string) (int, error) {
	stripped := fmt.Sprintf("REPLACE(%v, ',', '')", columnName)
	scaleExpr := fmt.Sprintf(
		"length(substr(%[1]v, case when position('.', %[1]v) = 0 then length(%[1]v) else position('.', %[1]v) end + 1))",
		stripped)
	scale, err := e.queryCount(fmt.Sprintf("SELECT NVL(MAX(%v), 0) FROM %v", scaleExpr, e.stageTable))
	if err != nil {
		return 0, err
	}
	if scale > constants.NumericPrecisionBound { // scale must never exceed the precision bound.
		scale = constants.NumericPrecisionBound
	}
	return scale, nil
}

// checkForTimestamp returns the first candidate format under which every
// non-null value in the column converts, or "" if none fully matches.
// Snowflake cannot always auto-detect formats so each candidate is applied
// via the session TIMESTAMP_INPUT_FORMAT before probing with
// TRY_TO_TIMESTAMP, which yields NULL instead of an error for bad values.
func (e *Engine) checkForTimestamp(columnName string) (string, error) {
	for _, format := range TimestampInputFormats {
		if _, err := e.db.Exec(fmt.Sprintf("ALTER SESSION SET TIMESTAMP_INPUT_FORMAT = '%v'", format)); err != nil {
			return "", errors.Wrapf(err, "error setting timestamp input format %v", format)
		}
		count, err := e.queryCount(fmt.Sprintf(
			"SELECT COUNT(*) FROM %v WHERE TRY_TO_TIMESTAMP(%v) IS NULL AND %v IS NOT NULL",
			e.stageTable, columnName, columnName))
		if err != nil {
			return "", err
		}
		if count == 0 { // if every non-null value converts under this format...
			return format, nil
		}
	}
	return "", nil
}

// Materialize (re)creates the destination table from the descriptors and
// copies the staged data across in a single converted INSERT..SELECT,
// committed as a unit. With zero descriptors the run aborts with ErrNoData
// and no destination table is created.
func (e *Engine) Materialize(descriptors []ColumnDescriptor) error {
	if len(descriptors) == 0 { // if the source had a header but no usable data...
		_ = e.runLog.WriteComment("No data in source file")
		return ErrNoData
	}
	if err := e.execLogged(e.finalTableDdl(descriptors), true); err != nil {
		return err
	}
	e.state = StateDestinationCreated
	e.log.Info("Final table ", e.finalTable, " created")
	// Reset the session timestamp format, or else errors can occur when
	// using 'AUTO' conversion.
	if err := e.execLogged("ALTER SESSION SET TIMESTAMP_INPUT_FORMAT = 'AUTO'", false); err != nil {
		return err
	}
	dml := e.copyDml(descriptors)
	tx, err := e.db.Begin()
	if err != nil {
		return errors.Wrap(err, "error starting the conversion transaction")
	}
	if err = e.runLog.WriteStatement(dml+";\n\n", true); err != nil {
		return err
	}
	if _, err = tx.Exec(dml); err != nil {
		_ = tx.Rollback()
		return errors.Wrapf(err, "error copying data into %v", e.finalTable)
	}
	if err = e.runLog.WriteStatement("COMMIT;\n\n", false); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "error committing the conversion transaction")
	}
	e.state = StateDestinationPopulated
	e.log.Info("Final table ", e.finalTable, " populated")
	return nil
}

func (e *Engine) finalTableDdl(descriptors []ColumnDescriptor) string {
	b := strings.Builder{}
	b.WriteString("CREATE OR REPLACE TABLE " + e.finalTable + " \n")
	b.WriteString("COMMENT = 'Source file: " + helper.EscapeSingleQuotesInString(e.sourceFileName) + "' \n(\n")
	for i, d := range descriptors {
		b.WriteString(d.Name + " " + d.DdlType())
		if i < len(descriptors)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

// copyDml generates the conversion INSERT..SELECT. Column order matches the
// destination table DDL so no column list is needed.
func (e *Engine) copyDml(descriptors []ColumnDescriptor) string {
	b := strings.Builder{}
	b.WriteString("INSERT INTO " + e.finalTable + " \n( \nSELECT \n")
	for i, d := range descriptors {
		b.WriteString(d.SelectExpr())
		if i < len(descriptors)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("FROM " + e.stageTable + "\n)")
	return b.String()
}

// execLogged appends the statement to the run log then executes it,
// mirroring the audit-trail rule that every DDL/DML statement executed is
// recorded verbatim.
func (e *Engine) execLogged(stmt string, withTimestamp bool) error {
	if err := e.runLog.WriteStatement(stmt+";\n\n", withTimestamp); err != nil {
		return err
	}
	if _, err := e.db.Exec(stmt); err != nil {
		return errors.Wrapf(err, "error executing statement: %v", stmt)
	}
	return nil
}

func (e *Engine) queryCount(stmt string) (int, error) {
	rows, err := e.db.Query(stmt)
	if err != nil {
		return 0, errors.Wrapf(err, "error running query: %v", stmt)
	}
	defer func() {
		_ = rows.Close()
	}()
	if !rows.Next() {
		return 0, errors.Errorf("no rows returned by query: %v", stmt)
	}
	var count int
	if err = rows.Scan(&count); err != nil {
		return 0, errors.Wrapf(err, "error scanning count for query: %v", stmt)
	}
	return count, rows.Err()
}

func (e *Engine) queryStrings(stmt string) ([]string, error) {
	rows, err := e.db.Query(stmt)
	if err != nil {
		return nil, errors.Wrapf(err, "error running query: %v", stmt)
	}
	defer func() {
		_ = rows.Close()
	}()
	var values []string
	for rows.Next() {
		var v string
		if err = rows.Scan(&v); err != nil {
			return nil, errors.Wrapf(err, "error scanning value for query: %v", stmt)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
