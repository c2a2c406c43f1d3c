package rdbms

import (
	"database/sql"
	"fmt"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/kirkwilson-git/samples/constants"
	"github.com/kirkwilson-git/samples/logger"
	"github.com/kirkwilson-git/samples/rdbms/shared"
	"github.com/xo/dburl"
)

// OpenDbConnection opens a database connection using the supplied ConnectionDetails struct in c.
func OpenDbConnection(log logger.Logger, c shared.ConnectionDetails) (db shared.Connector, err error) {
	log.Debug("opening connection type ", c.Type, " with logicalName ", c.LogicalName) // don't log password details in c.Data!
	switch c.Type {
	case constants.ConnectionTypeSnowflake:
		var d *shared.DsnConnectionDetails
		d, err = shared.GetDsnConnectionDetails(&c)
		if err != nil {
			return nil, err
		}
		db, err = newSnowflakeConnection(log, d)
	case constants.ConnectionTypeSqlServer:
		var d *shared.DsnConnectionDetails
		d, err = shared.GetDsnConnectionDetails(&c)
		if err != nil {
			return nil, err
		}
		db, err = newConnectionWithDsn(log, d)
	case constants.ConnectionTypeMock:
		db = shared.NewMockConnection(log, constants.ConnectionTypeMock)
	default: // else we have an unsupported database...
		err = fmt.Errorf("unsupported database type, %q", c.Type)
	}
	return
}

func newConnectionWithDsn(log logger.Logger, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	log.Debug("Opening database connection: ", d)
	u, err := dburl.Parse(d.Dsn)
	if err != nil { // if the DSN could not be parsed...
		return nil, fmt.Errorf("error parsing DSN %q: %w", d.Dsn, err)
	}
	// Create the new Connector.
	conn := &shared.Connection{DbType: u.OriginalScheme}
	// Open the connection.
	conn.DbSql, err = sql.Open(u.Driver, u.DSN)
	if err != nil {
		return nil, err
	}
	// Test the connection.
	err = conn.DbSql.Ping()
	if err != nil {
		return nil, err
	}
	log.Debug("Successful connection to: ", d)
	return conn, nil
}
