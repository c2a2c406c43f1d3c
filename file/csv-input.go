package file

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/kirkwilson-git/samples/constants"
	"github.com/kirkwilson-git/samples/logger"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// DelimitedInput reads a delimited file row by row.
// Field counts are validated against the header record.
type DelimitedInput struct {
	log       logger.Logger
	file      *os.File
	csvReader *csv.Reader
	header    []string
	rowNum    int // 1-based data row counter, excludes the header.
}

// NewDelimitedInput opens fileName and reads its header record.
// Supply encoding constants.EncodingLatin1 for files that are not UTF-8.
func NewDelimitedInput(log logger.Logger, fileName string, delimiter rune, encoding string) (*DelimitedInput, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input file %v", fileName)
	}
	var r io.Reader = f
	if encoding == constants.EncodingLatin1 { // if the file needs decoding to UTF-8...
		r = charmap.ISO8859_1.NewDecoder().Reader(f)
	}
	c := csv.NewReader(r)
	c.Comma = delimiter
	c.FieldsPerRecord = -1 // field counts are checked per row so short rows can be rejected rather than abort the read.
	header, err := c.Read()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "unable to read header record from file %v", fileName)
	}
	log.Debug("opened delimited input ", fileName, " with ", len(header), " header fields")
	return &DelimitedInput{log: log, file: f, csvReader: c, header: header}, nil
}

// Header returns the raw header fields as found in the file.
func (d *DelimitedInput) Header() []string {
	return d.header
}

// RowNum returns the number of data rows read so far.
func (d *DelimitedInput) RowNum() int {
	return d.rowNum
}

// ReadRow returns the next data record, or io.EOF when the file is exhausted.
// Records whose field count differs from the header produce ErrFieldCount
// with the record still returned so the caller can capture it as a reject.
func (d *DelimitedInput) ReadRow() ([]string, error) {
	record, err := d.csvReader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	d.rowNum++
	if err != nil {
		return record, err
	}
	if len(record) != len(d.header) { // if the record is ragged...
		return record, ErrFieldCount
	}
	return record, nil
}

// ErrFieldCount is returned by ReadRow when a record has the wrong number of fields.
var ErrFieldCount = errors.New("record field count does not match the header")

func (d *DelimitedInput) Close() {
	_ = d.file.Close()
}
