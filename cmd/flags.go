package cmd

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/kirkwilson-git/samples/actions"
	"github.com/kirkwilson-git/samples/config"
	"github.com/kirkwilson-git/samples/constants"
	"github.com/kirkwilson-git/samples/helper"
	"github.com/kirkwilson-git/samples/rdbms/shared"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"connection-name": cliFlag{name: "connection-name", shortHand: "c",
		desc: "Connection name as stored by the 'config connections' command"},
	"force-connection": cliFlag{name: "force", shortHand: "f",
		desc: "Allow overwrite of existing connections"},
	"dsn": cliFlag{name: "dsn", shortHand: "d",
		desc: "Connect string to parse and store"},
	"s3-region": cliFlag{name: "region", shortHand: "r",
		desc: "AWS S3 bucket region"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug\""},
	"dry-run": cliFlag{name: "dry-run", shortHand: "d",
		desc: "Print the SQL query without executing it"},
	"print-header": cliFlag{name: "print-header", shortHand: "x",
		desc: "Print a header for SQL query results"},
	"file-format": cliFlag{name: "file-format", shortHand: "F",
		desc: "Source file format: \"CSV | CSV_SEMICOLON_DELIMITER | TSV\""},
	"encoding": cliFlag{name: "encoding", shortHand: "e",
		desc: "Source file encoding: \"utf-8 | latin-1\""},
	"table-name": cliFlag{name: "table-name", shortHand: "t",
		desc: "Destination table name; the staging table is named STAGE_<table-name>"},
	"database-name": cliFlag{name: "database", shortHand: "D",
		desc: "Snowflake database name"},
	"schema": cliFlag{name: "schema", shortHand: "s",
		desc: "Snowflake schema name"},
	"warehouse": cliFlag{name: "warehouse", shortHand: "w",
		desc: "Snowflake compute warehouse name"},
	"error-table": cliFlag{name: "error-table", shortHand: "E",
		desc: "Fully qualified table that receives rejected rows"},
	"batch-size": cliFlag{name: "batch-size", shortHand: "B",
		desc: "Number of rows combined into a single INSERT statement during staging"},
	"log-dir": cliFlag{name: "log-dir", shortHand: "L",
		desc: "Directory under which the 'logs' folder of replayable SQL files is written"},
	"snowflake-connection": cliFlag{name: "snowflake-connection", shortHand: "c",
		desc: "Snowflake connection name as stored by the 'config connections' command"},
	"sqlserver-connection": cliFlag{name: "sqlserver-connection", shortHand: "q",
		desc: "SQL Server connection name whose credentials are reused for each source \n" +
			"server found in RECORD_COUNT_SOURCES"},
	"audit-database": cliFlag{name: "audit-database", shortHand: "A",
		desc: "Snowflake database holding the audit tables"},
	"audit-schema": cliFlag{name: "audit-schema", shortHand: "S",
		desc: "Snowflake schema holding the audit tables"},
	"output-dir": cliFlag{name: "output-dir", shortHand: "o",
		desc: "Directory for generated output files"},
	"source-dir": cliFlag{name: "source-dir", shortHand: "i",
		desc: "Directory containing the source files"},
	"target-dir": cliFlag{name: "target-dir", shortHand: "T",
		desc: "Directory where output archives are created"},
	"pattern": cliFlag{name: "pattern", shortHand: "p",
		desc: "Glob pattern to filter files in the source directory"},
	"target-prefix": cliFlag{name: "target-prefix", shortHand: "P",
		desc: "Key prefix within the S3 bucket, with no leading slash"},
	"databases": cliFlag{name: "databases", shortHand: "D",
		desc: "CSV list of Snowflake database names to back up"},
	"retention-days": cliFlag{name: "retention-days", shortHand: "n",
		desc: "Number of days of backup clones to retain; the clone from this many days \n" +
			"ago is dropped on each run"},
	"ddl-backup-dir": cliFlag{name: "ddl-backup-dir", shortHand: "o",
		desc: "Optional directory for full text DDL backups (these are kept forever)"},
	"zip-prefix": cliFlag{name: "zip-prefix", shortHand: "z",
		desc: "Name prefix for the zip files created per sub-folder"},
	"skip": cliFlag{name: "skip", shortHand: "k",
		desc: "CSV list of sub-folder names to leave out of the archives"},
	"system-name": cliFlag{name: "system-name", shortHand: "y",
		desc: "Name of the source system; the Snowflake table is named <system-name>_FILE_LIST"},
}

// addFlag adds a flag to cobra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// The default value is fetched from the environment variable for the supplied name
// if it exists, else the supplied defaultValue is applied.
// The flag is marked as required in Cobra based on the value of required.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue) // get the cliFlag details, with defaults taken from the environment or the supplied defaultValue
	desc := sw.desc + desc2                // create the full flag description for use below
	// Apply the flag.
	switch p := targetVar.(type) {
	case *string:
		c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
		// Signal that the flag was set so defaults take effect.
		if sw.val != "" { // if there is a value via the environment or default...
			mustSetFlag(c.Flags(), sw.name, sw.val)
		}
	case *bool:
		defaultBool := strings.ToLower(sw.val) == "true"
		c.Flags().BoolVarP(p, sw.name, sw.shortHand, defaultBool, desc)
		if defaultBool {
			mustSetFlag(c.Flags(), sw.name, "true")
		} else {
			mustSetFlag(c.Flags(), sw.name, "false")
		}
	case *int:
		defaultInt, err := strconv.Atoi(sw.val)
		if err != nil {
			fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
			os.Exit(1)
		}
		c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
		if sw.val != "" { // if there is a value via the environment or default...
			mustSetFlag(c.Flags(), sw.name, sw.val)
		}
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	// Optionally mark the flag as mandatory.
	if required { // if the flag is required...
		_ = c.MarkFlagRequired(sw.name)
	}
}

// getCliFlag fetches the default value of name from the environment,
// else it applies the supplied defaultValue.
func (f *cliFlags) getCliFlag(name string, defaultValue string) cliFlag {
	s, ok := switches[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	s.val = helper.ReadValueFromEnvWithDefault(flagNameToEnvVar(name), defaultValue)
	return s
}

// flagNameToEnvVar will form a sanitised environment variable name using constants.EnvVarPrefix.
func flagNameToEnvVar(name string) string {
	return constants.EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func mustSetFlag(f *pflag.FlagSet, name string, val string) {
	if err := f.Set(name, val); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// envConnections wraps the connections file and allows the DSN of any stored
// connection to be overridden with an environment variable, e.g. SF_DEV_DSN
// replaces the DSN of connection "dev".
type envConnections struct {
	file *config.File
}

func (e *envConnections) LoadConnection(connectionName string) (shared.ConnectionDetails, error) {
	d, err := e.file.LoadConnection(connectionName)
	if err != nil {
		return d, err
	}
	if dsn := os.Getenv(helper.GetDsnEnvVarName(connectionName)); dsn != "" { // if the environment overrides the DSN...
		d.Data["dsn"] = dsn
	}
	return d, nil
}

func getConnectionLoader() actions.ConnectionLoader {
	return &envConnections{file: config.Connections}
}

func getConnectionGetterSetter() actions.ConnectionGetterSetter {
	return config.Connections
}

// getQueryFromArgsFunc concatenates all args into a string.
// Returns an error if there are no args.
func getQueryFromArgsFunc(connectionName *string, query *string, customErrMsg string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 { // if we are missing arguments...
			if customErrMsg != "" {
				return errors.New(customErrMsg)
			} else {
				return errors.New("please supply a connection and a SQL query")
			}
		}
		*connectionName = args[0]
		// Build a new []string for the SQL; skip the connection in arg[0].
		q := make([]string, 0)
		for idx := 1; idx < len(args); idx++ { // for each piece of SQL...
			q = append(q, args[idx])
		}
		*query = strings.Join(q, " ")
		return nil
	}
}
