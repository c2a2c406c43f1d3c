package actions

import (
	"fmt"
	"net/url"

	"github.com/kirkwilson-git/samples/constants"
	"github.com/kirkwilson-git/samples/file"
	"github.com/kirkwilson-git/samples/helper"
	"github.com/kirkwilson-git/samples/logger"
	"github.com/kirkwilson-git/samples/rdbms"
	"github.com/kirkwilson-git/samples/rdbms/shared"
	"github.com/pkg/errors"
)

// Driving metadata lives in AUDIT.PUBLIC.RECORD_COUNT_SOURCES and results are
// written to AUDIT.PUBLIC.RECORD_COUNT_RESULTS:
//
//   create or replace TABLE RECORD_COUNT_RESULTS (
//       SOURCE_KEY NUMBER(38,0),
//       TABLE_NAME VARCHAR,
//       SOURCE_COUNT NUMBER(38,0),
//       SOURCE_DATE TIMESTAMP_NTZ(9),
//       TARGET_COUNT NUMBER(38,0),
//       TARGET_DATE TIMESTAMP_NTZ(9),
//       MD_ACTIVE_FLAG VARCHAR
//   );
//
// RECORD_COUNT_SOURCES must be populated by hand with one row per source
// database; AUDIT_ENABLED_FLAG = 'Y' enables a source.

type ReconConfig struct {
	Connections             ConnectionLoader `errorTxt:"connections getter" mandatory:"yes"`
	SnowflakeConnectionName string           `errorTxt:"Snowflake connection name" mandatory:"yes"`
	SqlServerConnectionName string           `errorTxt:"SQL Server connection name" mandatory:"yes"`
	Warehouse               string           `errorTxt:"Snowflake warehouse" mandatory:"yes"`
	AuditDatabase           string
	AuditSchema             string
	OutputDir               string
	LogLevel                string
	StackDumpOnPanic        bool
}

// reconSource is one enabled row from RECORD_COUNT_SOURCES.
type reconSource struct {
	SourceKey         string
	Server            string
	Database          string
	Schema            string
	SnowflakeDatabase string
	SnowflakeSchema   string
}

// reconResult matches the column order of RECORD_COUNT_RESULTS.
type reconResult struct {
	SourceKey   string
	TableName   string
	SourceCount string
	SourceDate  string
	TargetCount string
	TargetDate  string
}

// RunRecon compares record counts between each enabled SQL Server source and
// its replicated Snowflake database, writes a CSV report per source and
// refreshes the active result set in RECORD_COUNT_RESULTS.
func RunRecon(cfg *ReconConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if cfg.AuditDatabase == "" {
		cfg.AuditDatabase = constants.DefaultAuditDatabase
	}
	if cfg.AuditSchema == "" {
		cfg.AuditSchema = constants.DefaultAuditSchema
	}
	log := logger.NewLogger("sfutil", cfg.LogLevel, cfg.StackDumpOnPanic)
	sfDb, err := openDbConnection(log, cfg.Connections, cfg.SnowflakeConnectionName)
	if err != nil {
		return err
	}
	defer sfDb.Close()
	// The stored SQL Server connection supplies the credentials; the host and
	// database are replaced per source from the metadata table.
	template, err := cfg.Connections.LoadConnection(cfg.SqlServerConnectionName)
	if err != nil {
		return err
	}
	templateDsn, err := shared.GetDsnConnectionDetails(&template)
	if err != nil {
		return err
	}
	sources, err := fetchReconSources(sfDb, cfg.AuditDatabase, cfg.AuditSchema, cfg.Warehouse)
	if err != nil {
		return err
	}
	log.Info("Found ", len(sources), " enabled recon source(s)")
	for _, src := range sources {
		dsn, err := sqlServerDsnForSource(templateDsn.Dsn, src.Server, src.Database)
		if err != nil {
			return err
		}
		sqlDb, err := rdbms.OpenDbConnection(log, shared.ConnectionDetails{
			Type:        constants.ConnectionTypeSqlServer,
			LogicalName: src.Server + "/" + src.Database,
			Data:        map[string]string{"dsn": dsn},
		})
		if err != nil {
			return errors.Wrapf(err, "unable to connect to source %v on %v", src.Database, src.Server)
		}
		results, err := gatherSourceCounts(log, sfDb, sqlDb, src, cfg.OutputDir)
		sqlDb.Close()
		if err != nil {
			return err
		}
		if len(results) > 0 { // if at least one table had a non-zero source count...
			if err := publishReconResults(log, sfDb, cfg.AuditDatabase, cfg.AuditSchema, src.SourceKey, results); err != nil {
				return err
			}
		} else {
			log.Info("No tables with records found for source key ", src.SourceKey, ", skipping results upload")
		}
	}
	return nil
}

// fetchReconSources reads the enabled SQL Server sources from the audit schema.
func fetchReconSources(sfDb shared.Connector, auditDatabase string, auditSchema string, warehouse string) ([]reconSource, error) {
	for _, stmt := range []string{
		"USE DATABASE " + auditDatabase,
		"USE SCHEMA " + auditSchema,
		"USE WAREHOUSE " + warehouse,
	} {
		if _, err := sfDb.Exec(stmt); err != nil {
			return nil, errors.Wrapf(err, "error executing: %v", stmt)
		}
	}
	stmt := `SELECT SOURCE_KEY, SOURCE_SERVER, SOURCE_DATABASE, SOURCE_SCHEMA, SNOWFLAKE_DATABASE, SNOWFLAKE_SCHEMA
FROM RECORD_COUNT_SOURCES
WHERE AUDIT_ENABLED_FLAG = 'Y'
AND SOURCE_TYPE = 'SQL SERVER'`
	rows, err := queryRows(sfDb, stmt, 6)
	if err != nil {
		return nil, err
	}
	sources := make([]reconSource, 0, len(rows))
	for _, row := range rows {
		s := helper.InterfaceToString(row)
		sources = append(sources, reconSource{
			SourceKey:         s[0],
			Server:            s[1],
			Database:          s[2],
			Schema:            s[3],
			SnowflakeDatabase: s[4],
			SnowflakeSchema:   s[5],
		})
	}
	return sources, nil
}

// gatherSourceCounts walks the base tables of one SQL Server source, counts each
// non-empty table on both sides and writes a CSV report of the results.
func gatherSourceCounts(log logger.Logger, sfDb shared.Connector, sqlDb shared.Connector, src reconSource, outputDir string) ([]reconResult, error) {
	tables, err := queryRows(sqlDb, fmt.Sprintf(`SELECT T.TABLE_NAME
FROM INFORMATION_SCHEMA.TABLES T
WHERE T.TABLE_TYPE = 'BASE TABLE'
AND T.TABLE_SCHEMA = '%v'
ORDER BY T.TABLE_NAME`, src.Schema), 1)
	if err != nil {
		return nil, err
	}
	for _, stmt := range []string{
		"USE DATABASE " + src.SnowflakeDatabase,
		"USE SCHEMA " + src.SnowflakeSchema,
	} {
		if _, err := sfDb.Exec(stmt); err != nil {
			return nil, errors.Wrapf(err, "error executing: %v", stmt)
		}
	}
	csvOut := file.NewCSVFileOutput(log, outputDir, "record_count_results_"+src.SourceKey, "csv")
	defer csvOut.Cleanup()
	csvOut.SetHeader([]string{"SOURCE_KEY", "TABLE_NAME", "SOURCE_COUNT", "SOURCE_DATE", "TARGET_COUNT", "TARGET_DATE", "MD_ACTIVE_FLAG"})
	var results []reconResult
	for _, t := range tables {
		tableName := helper.InterfaceToString(t)[0]
		srcRow, err := queryRow(sqlDb, "SELECT COUNT(*), CURRENT_TIMESTAMP FROM "+tableName, 2)
		if err != nil {
			return nil, err
		}
		srcVals := helper.InterfaceToString(srcRow)
		if srcVals[0] == "0" { // only track tables with records in the source.
			continue
		}
		log.Info("Processing ", tableName)
		r := reconResult{
			SourceKey:   src.SourceKey,
			TableName:   tableName,
			SourceCount: srcVals[0],
			SourceDate:  srcVals[1],
		}
		tgtRow, err := queryRow(sfDb, "SELECT COUNT(*), CURRENT_TIMESTAMP::TIMESTAMP_NTZ FROM "+tableName, 2)
		if err != nil { // if the table is missing on the Snowflake side...
			log.Warn("Unable to count ", tableName, " in Snowflake: ", err)
			r.TargetCount = "-1"
		} else {
			tgtVals := helper.InterfaceToString(tgtRow)
			r.TargetCount = tgtVals[0]
			r.TargetDate = tgtVals[1]
		}
		if r.SourceCount != r.TargetCount { // if the counts disagree...
			log.Warn("Count mismatch for ", tableName, ": source=", r.SourceCount, " target=", r.TargetCount)
		}
		csvOut.MustWriteToCSV([]string{r.SourceKey, r.TableName, r.SourceCount, r.SourceDate, r.TargetCount, r.TargetDate, "Y"})
		results = append(results, r)
	}
	if len(results) > 0 {
		log.Info("Report for source key ", src.SourceKey, " written to ", csvOut.FileName())
	}
	return results, nil
}

// publishReconResults deactivates the previous result set for the source and
// inserts the new one in a single batch.
func publishReconResults(log logger.Logger, sfDb shared.Connector, auditDatabase string, auditSchema string, sourceKey string, results []reconResult) error {
	log.Info("Uploading ", len(results), " result(s) to Snowflake for source key ", sourceKey)
	for _, stmt := range []string{
		"USE DATABASE " + auditDatabase,
		"USE SCHEMA " + auditSchema,
		fmt.Sprintf("UPDATE RECORD_COUNT_RESULTS SET MD_ACTIVE_FLAG = 'N' WHERE SOURCE_KEY = %v", sourceKey),
	} {
		if _, err := sfDb.Exec(stmt); err != nil {
			return errors.Wrapf(err, "error executing: %v", stmt)
		}
	}
	targetCols := helper.StringSliceToOrderedMap([]string{
		"SOURCE_KEY", "TABLE_NAME", "SOURCE_COUNT", "SOURCE_DATE", "TARGET_COUNT", "TARGET_DATE", "MD_ACTIVE_FLAG"})
	dml := &shared.DmlGeneratorTxtBatch{}
	gen := dml.NewInsertGenerator(&shared.SqlStatementGeneratorConfig{
		Log:         log,
		OutputTable: "RECORD_COUNT_RESULTS",
		TargetCols:  targetCols,
	}).(shared.SqlStmtTxtBatcher)
	gen.InitBatch(len(results))
	for _, r := range results {
		row := []interface{}{r.SourceKey, r.TableName, r.SourceCount, nullIfEmpty(r.SourceDate), r.TargetCount, nullIfEmpty(r.TargetDate), "Y"}
		if _, err := gen.AddValuesToBatch(row); err != nil {
			return err
		}
	}
	if _, err := sfDb.Exec(gen.GetStatement(), gen.GetValues()...); err != nil {
		return errors.Wrap(err, "error inserting recon results")
	}
	return nil
}

// nullIfEmpty converts an empty timestamp string to a SQL null.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// sqlServerDsnForSource swaps the host and database of a sqlserver:// DSN,
// keeping the stored credentials.
func sqlServerDsnForSource(templateDsn string, server string, database string) (string, error) {
	u, err := url.Parse(templateDsn)
	if err != nil {
		return "", errors.Wrapf(err, "error parsing SQL Server DSN template")
	}
	u.Host = server
	q := u.Query()
	q.Set("database", database)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
