package file

import (
	"encoding/csv"
	"io/ioutil"
	"os"
	"path"

	"github.com/kirkwilson-git/samples/logger"
)

// CSVFileOutput is a Writer that outputs records to an OS file.
type CSVFileOutput struct {
	csvWriter     *csv.Writer
	log           logger.Logger
	directory     string // set to empty string if you want to use OS temp space with system generated directory
	prefix        string
	extension     string
	headerRecord  []string
	currentName   string
	file          *os.File
	totalRowCount int
	needNewFile   bool
	needCleanup   bool
}

// NewCSVFileOutput creates a new CSV file struct.
// Supply a valid directory or empty string to use default ioutil.TempDir().
func NewCSVFileOutput(log logger.Logger, outputDirectory string, fileNamePrefix string, fileNameExtension string) CSVFileOutput {
	f := CSVFileOutput{}
	f.log = log
	// Create output directory using temp space if needed.
	if outputDirectory == "" {
		var err error
		f.directory, err = ioutil.TempDir("", "csv-output-")
		if err != nil {
			log.Panic("Error creating temp directory for CSV files.")
		}
	} else {
		f.directory = outputDirectory
	}
	f.prefix = fileNamePrefix
	f.extension = fileNameExtension
	f.needNewFile = true
	log.Debug("CSVFileOutput file prefix=", f.prefix, "; extension=", f.extension, "; directory=", f.directory)
	return f
}

// SetHeader will store the supplied record for output when the file is created.
func (f *CSVFileOutput) SetHeader(record []string) {
	f.headerRecord = record
}

// MustWriteToCSV writes record to the CSV file.
// Return fileName if a new file is created else empty string "".
func (f *CSVFileOutput) MustWriteToCSV(record []string) (fileName string) {
	f.log.Trace("Writing record...", record)
	if f.needNewFile {
		f.createNewCSVWriter()
		fileName = f.currentName
		if f.headerRecord != nil {
			err := f.csvWriter.Write(f.headerRecord)
			if err != nil {
				f.log.Panic("Unable to write header to CSV file.")
			}
		}
	}
	err := f.csvWriter.Write(record)
	if err != nil {
		f.log.Panic("Unable to write to CSV file.")
	}
	f.totalRowCount++
	return
}

// FileName returns the name of the current output file.
func (f *CSVFileOutput) FileName() string {
	return f.currentName
}

// TotalRowCount returns the number of data records written, excluding the header.
func (f *CSVFileOutput) TotalRowCount() int {
	return f.totalRowCount
}

// Cleanup can be deferred by the caller to flush the CSV Writer and close the OS file.
func (f *CSVFileOutput) Cleanup() {
	if !f.needCleanup {
		return
	}
	f.csvWriter.Flush()
	if err := f.file.Close(); err != nil { // if the file didn't close OK...
		f.log.Panic("unable to close OS file: ", f.currentName, "; ", err)
	}
	f.needCleanup = false
	f.needNewFile = true
}

func (f *CSVFileOutput) createNewCSVWriter() {
	var err error
	name := path.Join(f.directory, f.prefix+"."+f.extension)
	f.file, err = os.Create(name)
	if err != nil {
		f.log.Panic("Unable to create CSV file ", name, "; ", err)
	}
	f.currentName = name
	f.csvWriter = csv.NewWriter(f.file)
	f.needNewFile = false
	f.needCleanup = true
}
