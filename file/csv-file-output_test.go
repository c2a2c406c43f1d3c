package file

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/kirkwilson-git/samples/logger"
)

func TestCSVFileOutput(t *testing.T) {
	log := logger.NewLogger("sfutil", "info", true)
	dir, err := ioutil.TempDir("", "csv-out-")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()
	f := NewCSVFileOutput(log, dir, "report_1", "csv")
	f.SetHeader([]string{"A", "B"})
	f.MustWriteToCSV([]string{"1", "x"})
	f.MustWriteToCSV([]string{"2", "y"})
	f.Cleanup()

	if f.TotalRowCount() != 2 {
		t.Fatalf("expected 2 rows, got %v", f.TotalRowCount())
	}
	expectedName := path.Join(dir, "report_1.csv")
	if f.FileName() != expectedName {
		t.Fatalf("expected file name %v, got %v", expectedName, f.FileName())
	}
	data, err := ioutil.ReadFile(expectedName)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "A,B\n1,x\n2,y\n" {
		t.Fatalf("unexpected file contents: %q", string(data))
	}
}
