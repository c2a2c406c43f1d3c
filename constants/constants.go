package constants

const (
	TimeFormatYearSeconds      = "20060102T150405" // used for human readable file names
	TimeFormatYearSecondsRegex = "[0-9]{4}[0-9]{2}[0-9]{2}T[0-9]{6}"
	TimeFormatYearSecondsTZ    = "20060102T150405-0700" // a format that includes the time zone and is compatible with Snowflake sessions.
	TimeFormatRunLog           = "01-02-2006 15:04:05"  // statement timestamps written to the run log.
	TimeFormatBackupLabel      = "01_02_2006"           // date suffix used in backup database names.
	EnvVarPrefix               = "SF"                   // prefix for environment variables that supply flag defaults.
	ConnectionTypeSnowflake    = "snowflake"
	ConnectionTypeSqlServer    = "sqlserver"
	ConnectionTypeS3           = "s3"
	ConnectionTypeMock         = "mock"
	StageTablePrefix           = "STAGE_"
	RunLogDirName              = "logs"
	NumericPrecisionBound      = 38 // Snowflake NUMBER precision is always 38 in this toolkit.
	InsertBatchNumRowsDefault  = 500
	DefaultErrorTable          = "AUDIT.PUBLIC.FILE_LOAD_ERRORS"
	DefaultAuditDatabase       = "AUDIT"
	DefaultAuditSchema         = "PUBLIC"
	BackupDatabasePrefix       = "zBACKUP_" // z prefix sinks backups to the bottom of the database list in the Snowflake UI.
	FileFormatCsv              = "CSV"
	FileFormatCsvSemicolon     = "CSV_SEMICOLON_DELIMITER"
	FileFormatTsv              = "TSV"
	EncodingUtf8               = "utf-8"
	EncodingLatin1             = "latin-1"
)
