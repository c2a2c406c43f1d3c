package actions

import (
	"fmt"

	"github.com/kirkwilson-git/samples/constants"
	"github.com/kirkwilson-git/samples/logger"
	"github.com/kirkwilson-git/samples/rdbms"
	"github.com/kirkwilson-git/samples/rdbms/shared"
	"github.com/pkg/errors"
)

// openDbConnection loads the named connection and opens it.
func openDbConnection(log logger.Logger, connections ConnectionLoader, connectionName string) (shared.Connector, error) {
	conn, err := connections.LoadConnection(connectionName)
	if err != nil {
		return nil, err
	}
	db, err := rdbms.OpenDbConnection(log, conn)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open connection %q", connectionName)
	}
	return db, nil
}

// delimiterForFormat maps a file format identifier to its field delimiter.
// An unknown format is a configuration error.
func delimiterForFormat(format string) (rune, error) {
	switch format {
	case constants.FileFormatCsv:
		return ',', nil
	case constants.FileFormatCsvSemicolon:
		return ';', nil
	case constants.FileFormatTsv:
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported file format %q, expected one of: %v, %v, %v",
			format, constants.FileFormatCsv, constants.FileFormatCsvSemicolon, constants.FileFormatTsv)
	}
}

// queryRow runs stmt and returns the values of the first row.
func queryRow(db shared.Connector, stmt string, numCols int) ([]interface{}, error) {
	rows, err := db.Query(stmt)
	if err != nil {
		return nil, errors.Wrapf(err, "error running query: %v", stmt)
	}
	defer func() {
		_ = rows.Close()
	}()
	if !rows.Next() {
		return nil, errors.Errorf("no rows returned by query: %v", stmt)
	}
	vals := make([]interface{}, numCols)
	ptrs := make([]interface{}, numCols)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err = rows.Scan(ptrs...); err != nil {
		return nil, errors.Wrapf(err, "error scanning row for query: %v", stmt)
	}
	return vals, rows.Err()
}

// queryRows runs stmt and returns all rows.
func queryRows(db shared.Connector, stmt string, numCols int) ([][]interface{}, error) {
	rows, err := db.Query(stmt)
	if err != nil {
		return nil, errors.Wrapf(err, "error running query: %v", stmt)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result [][]interface{}
	for rows.Next() {
		vals := make([]interface{}, numCols)
		ptrs := make([]interface{}, numCols)
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err = rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrapf(err, "error scanning row for query: %v", stmt)
		}
		result = append(result, vals)
	}
	return result, rows.Err()
}
