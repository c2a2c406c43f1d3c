package actions

import (
	"fmt"

	"github.com/kirkwilson-git/samples/constants"
	"github.com/kirkwilson-git/samples/helper"
	"github.com/kirkwilson-git/samples/loader"
	"github.com/kirkwilson-git/samples/logger"
)

type FileLoadConfig struct {
	Connections      ConnectionLoader `errorTxt:"connections getter" mandatory:"yes"`
	ConnectionName   string           `errorTxt:"connection name" mandatory:"yes"`
	SourceFile       string           `errorTxt:"source file" mandatory:"yes"`
	FileFormat       string           `errorTxt:"file format" mandatory:"yes"`
	TableName        string           `errorTxt:"final table name" mandatory:"yes"`
	Database         string           `errorTxt:"Snowflake database" mandatory:"yes"`
	Schema           string           `errorTxt:"Snowflake schema" mandatory:"yes"`
	Warehouse        string           `errorTxt:"Snowflake warehouse" mandatory:"yes"`
	Encoding         string           // utf-8 (default) or latin-1
	ErrorTable       string
	BatchSize        int
	LogDir           string
	LogLevel         string
	StackDumpOnPanic bool
}

// RunFileLoad stages a delimited file into Snowflake, infers column types
// and materializes the typed destination table.
func RunFileLoad(cfg *FileLoadConfig) error {
	// Configuration problems abort before anything is connected to.
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	delimiter, err := delimiterForFormat(cfg.FileFormat)
	if err != nil {
		return err
	}
	encoding := cfg.Encoding
	if encoding == "" {
		encoding = constants.EncodingUtf8
	}
	if encoding != constants.EncodingUtf8 && encoding != constants.EncodingLatin1 {
		return fmt.Errorf("unsupported encoding %q, expected %v or %v", encoding, constants.EncodingUtf8, constants.EncodingLatin1)
	}
	log := logger.NewLogger("sfutil", cfg.LogLevel, cfg.StackDumpOnPanic)
	db, err := openDbConnection(log, cfg.Connections, cfg.ConnectionName)
	if err != nil {
		return err
	}
	defer db.Close()
	engine, err := loader.NewEngine(&loader.Config{
		Log:            log,
		Db:             db,
		FinalTableName: cfg.TableName,
		Database:       cfg.Database,
		Schema:         cfg.Schema,
		Warehouse:      cfg.Warehouse,
		ErrorTable:     cfg.ErrorTable,
		BatchSize:      cfg.BatchSize,
		LogDir:         cfg.LogDir,
	})
	if err != nil {
		return err
	}
	defer engine.Close()
	return engine.Run(cfg.SourceFile, delimiter, encoding)
}
