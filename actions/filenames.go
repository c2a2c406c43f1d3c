package actions

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kirkwilson-git/samples/file"
	"github.com/kirkwilson-git/samples/helper"
	"github.com/kirkwilson-git/samples/loader"
	"github.com/kirkwilson-git/samples/logger"
	"github.com/kirkwilson-git/samples/rdbms"
	"github.com/kirkwilson-git/samples/rdbms/shared"
	"github.com/pkg/errors"
)

type FilenamesConfig struct {
	Connections      ConnectionLoader `errorTxt:"connections getter" mandatory:"yes"`
	ConnectionName   string           `errorTxt:"connection name" mandatory:"yes"`
	SourceDir        string           `errorTxt:"source directory" mandatory:"yes"`
	SystemName       string           `errorTxt:"system name" mandatory:"yes"`
	Database         string           `errorTxt:"Snowflake database" mandatory:"yes"`
	Schema           string           `errorTxt:"Snowflake schema" mandatory:"yes"`
	Warehouse        string           `errorTxt:"Snowflake warehouse" mandatory:"yes"`
	OutputDir        string           // where the listing file is written; defaults to the current directory.
	LogLevel         string
	StackDumpOnPanic bool
}

// RunFilenames writes the names of all files in SourceDir to a text file and
// loads them into the Snowflake table <SystemName>_FILE_LIST, making vendor
// supplied document collections query-able alongside their tabular data.
func RunFilenames(cfg *FilenamesConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	cfg.SystemName = strings.ToUpper(cfg.SystemName)
	for _, v := range []string{cfg.SystemName, cfg.Database, cfg.Schema, cfg.Warehouse} {
		if err := loader.ValidateIdentifier(v); err != nil {
			return err
		}
	}
	log := logger.NewLogger("sfutil", cfg.LogLevel, cfg.StackDumpOnPanic)
	listingFile := filepath.Join(cfg.OutputDir, cfg.SystemName+"_FILES.txt")
	numFiles, err := file.WriteDirListing(log, cfg.SourceDir, listingFile)
	if err != nil {
		return err
	}
	log.Info(listingFile, " created with ", numFiles, " file name(s)")
	db, err := openDbConnection(log, cfg.Connections, cfg.ConnectionName)
	if err != nil {
		return err
	}
	defer db.Close()
	st := rdbms.NewSchemaTable("", cfg.SystemName)
	fileListTable := st.AppendSuffix("_FILE_LIST")
	if err = loadFileList(log, db, cfg.Database, cfg.Schema, cfg.Warehouse, fileListTable, listingFile); err != nil {
		return err
	}
	log.Info(fileListTable, " table created and populated")
	return nil
}

// loadFileList stages the listing file into the table stage and copies it in.
// PURGE removes the staged file once it has loaded.
func loadFileList(log logger.Logger, db shared.Connector, database string, schema string, warehouse string, tableName string, listingFile string) error {
	absPath, err := filepath.Abs(listingFile)
	if err != nil {
		return err
	}
	for _, stmt := range []string{
		"USE DATABASE " + database,
		"USE SCHEMA " + schema,
		"USE WAREHOUSE " + warehouse,
		fmt.Sprintf("CREATE OR REPLACE TABLE %v (FILE_NAME VARCHAR)", tableName),
		fmt.Sprintf("PUT 'file://%v' @%%%v", filepath.ToSlash(absPath), tableName),
		fmt.Sprintf("COPY INTO %v FILE_FORMAT='PUBLIC.FILE_LIST_NO_HEADER' PURGE=TRUE", tableName),
	} {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "error executing: %v", stmt)
		}
	}
	return nil
}
