package actions

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kirkwilson-git/samples/constants"
	"github.com/kirkwilson-git/samples/helper"
	"github.com/kirkwilson-git/samples/loader"
	"github.com/kirkwilson-git/samples/logger"
	"github.com/kirkwilson-git/samples/rdbms/shared"
	"github.com/pkg/errors"
)

type BackupConfig struct {
	Connections      ConnectionLoader `errorTxt:"connections getter" mandatory:"yes"`
	ConnectionName   string           `errorTxt:"connection name" mandatory:"yes"`
	Databases        []string         `errorTxt:"databases to backup" mandatory:"yes"`
	RetentionDays    int              // backups older than this are dropped; 0 uses the default.
	DdlBackupDir     string           // optional directory for full text DDL backups.
	LogLevel         string
	StackDumpOnPanic bool
}

const defaultBackupRetentionDays = 15

// RunBackup clones each database into a date-stamped backup database, drops the
// backup that has aged past the retention window and optionally writes a full
// text DDL backup. Clones are zero-copy so this is cheap to run daily.
func RunBackup(cfg *BackupConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	if len(cfg.Databases) == 0 {
		return fmt.Errorf("please supply one or more databases to backup")
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = defaultBackupRetentionDays
	}
	log := logger.NewLogger("sfutil", cfg.LogLevel, cfg.StackDumpOnPanic)
	db, err := openDbConnection(log, cfg.Connections, cfg.ConnectionName)
	if err != nil {
		return err
	}
	defer db.Close()
	return backupDatabases(log, db, cfg.Databases, cfg.RetentionDays, cfg.DdlBackupDir, time.Now())
}

func backupDatabases(log logger.Logger, db shared.Connector, databases []string, retentionDays int, ddlBackupDir string, now time.Time) error {
	currentLabel := now.Format(constants.TimeFormatBackupLabel)
	oldLabel := now.AddDate(0, 0, -retentionDays).Format(constants.TimeFormatBackupLabel)
	for _, database := range databases {
		if err := loader.ValidateIdentifier(database); err != nil {
			return err
		}
		log.Info("Current database: ", database)
		log.Info("Creating clone...")
		stmt := fmt.Sprintf("CREATE OR REPLACE DATABASE %v%v_%v CLONE %v", constants.BackupDatabasePrefix, database, currentLabel, database)
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "error executing: %v", stmt)
		}
		log.Info("Dropping ", oldLabel, " backup...")
		stmt = fmt.Sprintf("DROP DATABASE IF EXISTS %v%v_%v", constants.BackupDatabasePrefix, database, oldLabel)
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "error executing: %v", stmt)
		}
		if ddlBackupDir != "" { // if text DDL backups were requested...
			if err := writeDdlBackup(log, db, database, ddlBackupDir, currentLabel); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeDdlBackup saves the full text DDL of the database as an extra layer of
// redundancy; these files are never deleted automatically.
func writeDdlBackup(log logger.Logger, db shared.Connector, database string, ddlBackupDir string, label string) error {
	log.Info("Creating DDL backup at ", ddlBackupDir, "...")
	row, err := queryRow(db, fmt.Sprintf("SELECT GET_DDL('DATABASE', '%v')", database), 1)
	if err != nil {
		return err
	}
	ddl := helper.InterfaceToString(row)[0]
	fileName := filepath.Join(ddlBackupDir, fmt.Sprintf("%v_%v_DDL.txt", database, label))
	if err := os.WriteFile(fileName, []byte(ddl), 0644); err != nil {
		return errors.Wrapf(err, "error writing DDL backup %v", fileName)
	}
	return nil
}
