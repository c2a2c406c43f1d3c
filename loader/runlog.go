package loader

import (
	"os"
	"path"
	"time"

	"github.com/kirkwilson-git/samples/constants"
	"github.com/pkg/errors"
)

// RunLog is the append-only audit trail of every statement a run executes.
// The file is named after the destination table and doubles as a replay script.
type RunLog struct {
	f *os.File
}

// NewRunLog creates <baseDir>/logs/<tableName>.sql, overwriting any prior run's file.
func NewRunLog(baseDir string, tableName string) (*RunLog, error) {
	dir := path.Join(baseDir, constants.RunLogDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "unable to create run log directory %v", dir)
	}
	name := path.Join(dir, tableName+".sql")
	f, err := os.Create(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create run log file %v", name)
	}
	return &RunLog{f: f}, nil
}

// WriteStatement appends stmt verbatim, optionally preceded by a timestamp comment.
func (r *RunLog) WriteStatement(stmt string, withTimestamp bool) error {
	if withTimestamp {
		if err := r.WriteTimestamp(); err != nil {
			return err
		}
	}
	_, err := r.f.WriteString(stmt)
	return errors.Wrap(err, "unable to write to run log")
}

// WriteComment appends a '-- ' comment line.
func (r *RunLog) WriteComment(text string) error {
	_, err := r.f.WriteString("-- " + text + "\n")
	return errors.Wrap(err, "unable to write to run log")
}

// WriteTimestamp appends the current time as a comment line.
func (r *RunLog) WriteTimestamp() error {
	return r.WriteComment(time.Now().Format(constants.TimeFormatRunLog))
}

// FileName returns the path of the log file.
func (r *RunLog) FileName() string {
	return r.f.Name()
}

func (r *RunLog) Close() {
	_ = r.f.Close()
}
