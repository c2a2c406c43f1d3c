package shared

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/kirkwilson-git/samples/logger"
	"github.com/pkg/errors"
)

// MockConnection implements interface Connector for use in tests.
// Statements supplied to Exec*() are recorded in ExecHistory.
// Query*() results are canned per statement pattern via RegisterQuery().
// Registrations are consumed in order: each Query*() takes the first
// unconsumed registration whose pattern matches, so repeated identical
// statements can be given a sequence of results.
type MockConnection struct {
	Log          logger.Logger
	DbType       string
	ExecHistory  []string
	ExecArgs     [][]interface{}
	QueryHistory []string
	ExecErrors   map[string]error // optional map of statement pattern to forced error
	queries      []mockQuery
	Tx           *MockTx
}

type mockQuery struct {
	re   *regexp.Regexp
	cols []string
	rows [][]interface{}
	used bool
}

type MockTx struct {
	conn       *MockConnection
	Committed  bool
	RolledBack bool
}

func NewMockConnection(log logger.Logger, dbType string) *MockConnection {
	return &MockConnection{
		Log:        log,
		DbType:     dbType,
		ExecErrors: make(map[string]error),
	}
}

// RegisterQuery adds a canned result set returned by Query*() when the
// supplied statement matches pattern (a regular expression).
func (m *MockConnection) RegisterQuery(pattern string, cols []string, rows [][]interface{}) {
	m.queries = append(m.queries, mockQuery{re: regexp.MustCompile(pattern), cols: cols, rows: rows})
}

// ExecContains returns true if any recorded statement matches pattern.
func (m *MockConnection) ExecContains(pattern string) bool {
	re := regexp.MustCompile(pattern)
	for _, s := range m.ExecHistory {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Connector:

func (m *MockConnection) Begin() (Transacter, error) {
	m.Tx = &MockTx{conn: m}
	return m.Tx, nil
}

func (m *MockConnection) Exec(query string, args ...interface{}) (Result, error) {
	return m.ExecContext(context.Background(), query, args...)
}

func (m *MockConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	m.ExecHistory = append(m.ExecHistory, query)
	m.ExecArgs = append(m.ExecArgs, args)
	for pattern, err := range m.ExecErrors {
		if regexp.MustCompile(pattern).MatchString(query) {
			return nil, err
		}
	}
	return mockResult{}, nil
}

func (m *MockConnection) Query(query string, args ...interface{}) (Rows, error) {
	return m.QueryContext(context.Background(), query, args...)
}

func (m *MockConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	m.QueryHistory = append(m.QueryHistory, query)
	for i := range m.queries {
		q := &m.queries[i]
		if !q.used && q.re.MatchString(query) {
			q.used = true
			return &mockRows{cols: q.cols, rows: q.rows, idx: -1}, nil
		}
	}
	return nil, errors.Errorf("no mock result registered for query: %v", query)
}

func (m *MockConnection) Close() {}

func (m *MockConnection) GetType() string {
	return m.DbType
}

// Transacter:

func (t *MockTx) Exec(query string, args ...interface{}) (Result, error) {
	return t.ExecContext(context.Background(), query, args...)
}

func (t *MockTx) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return t.conn.ExecContext(ctx, query, args...)
}

func (t *MockTx) Commit() error {
	t.Committed = true
	return nil
}

func (t *MockTx) Rollback() error {
	t.RolledBack = true
	return nil
}

// Rows:

type mockRows struct {
	cols []string
	rows [][]interface{}
	idx  int
}

func (r *mockRows) Close() error { return nil }

func (r *mockRows) Columns() ([]string, error) { return r.cols, nil }

func (r *mockRows) Err() error { return nil }

func (r *mockRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *mockRows) Scan(dest ...interface{}) error {
	if r.idx < 0 || r.idx >= len(r.rows) {
		return errors.New("mock Scan called without Next")
	}
	row := r.rows[r.idx]
	if len(dest) != len(row) {
		return errors.Errorf("mock Scan expected %v dest values, got %v", len(row), len(dest))
	}
	for i, v := range row {
		if err := assignScanValue(dest[i], v); err != nil {
			return err
		}
	}
	return nil
}

func assignScanValue(dest interface{}, v interface{}) error {
	switch d := dest.(type) {
	case *interface{}:
		*d = v
	case *string:
		*d = fmt.Sprintf("%v", v)
	case *int:
		switch n := v.(type) {
		case int:
			*d = n
		case int64:
			*d = int(n)
		case string:
			x, err := strconv.Atoi(n)
			if err != nil {
				return err
			}
			*d = x
		default:
			return errors.Errorf("mock Scan cannot assign %T to *int", v)
		}
	case *int64:
		switch n := v.(type) {
		case int:
			*d = int64(n)
		case int64:
			*d = n
		default:
			return errors.Errorf("mock Scan cannot assign %T to *int64", v)
		}
	default:
		return errors.Errorf("mock Scan does not support dest type %T", dest)
	}
	return nil
}

type mockResult struct{}

func (mockResult) LastInsertId() (int64, error) { return 0, nil }

func (mockResult) RowsAffected() (int64, error) { return 0, nil }
