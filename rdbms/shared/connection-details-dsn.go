package shared

import (
	"github.com/pkg/errors"
	"github.com/xo/dburl"
)

// DsnConnectionDetails holds a raw DSN for databases opened via database/sql.
type DsnConnectionDetails struct {
	Dsn         string `errorTxt:"dsn" mandatory:"yes"`
	OriginalDsn string // used if Dsn contains a modified value, e.g. with a password injected from the environment
}

func (d DsnConnectionDetails) String() string {
	return d.OriginalDsn
}

// Parse validates that the DSN is well formed.
func (d DsnConnectionDetails) Parse() error {
	_, err := dburl.Parse(d.Dsn)
	return err
}

// GetScheme returns the URL scheme of the DSN, e.g. sqlserver.
func (d DsnConnectionDetails) GetScheme() (string, error) {
	u, err := dburl.Parse(d.Dsn)
	if err != nil {
		return "", err
	}
	return u.OriginalScheme, nil
}

func (d DsnConnectionDetails) GetMap(m map[string]string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m["dsn"] = d.Dsn
	return m
}

// GetDsnConnectionDetails converts generic ConnectionDetails to DsnConnectionDetails.
func GetDsnConnectionDetails(c *ConnectionDetails) (*DsnConnectionDetails, error) {
	dsn, ok := c.Data["dsn"]
	if !ok || dsn == "" {
		return nil, errors.Errorf("missing DSN in connection %q", c.LogicalName)
	}
	return &DsnConnectionDetails{Dsn: dsn, OriginalDsn: dsn}, nil
}
