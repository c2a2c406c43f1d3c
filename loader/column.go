package loader

import (
	"fmt"
	"strings"

	"github.com/kirkwilson-git/samples/constants"
)

// ColumnType is the semantic type inferred for a staging column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeNumber
	TypeTimestamp
)

func (t ColumnType) String() string {
	switch t {
	case TypeNumber:
		return "NUMBER"
	case TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

// ColumnDescriptor holds the inferred type metadata for one staging column.
// Immutable once the destination table has been materialized.
type ColumnDescriptor struct {
	Name            string
	Type            ColumnType
	Scale           int    // only used for numbers
	TimestampFormat string // only used for timestamps
}

// DdlType returns the column's destination table type clause.
func (c ColumnDescriptor) DdlType() string {
	if c.Type == TypeNumber && c.Scale > 0 {
		return fmt.Sprintf("NUMBER(%v, %v)", constants.NumericPrecisionBound, c.Scale)
	}
	return c.Type.String()
}

// SelectExpr returns the conversion expression applied when copying the column
// from the staging table to the destination table.
func (c ColumnDescriptor) SelectExpr() string {
	switch c.Type {
	case TypeNumber:
		if c.Scale == 0 {
			return fmt.Sprintf("TO_NUMBER(REPLACE(%v, ',', ''))", c.Name)
		}
		return fmt.Sprintf("TO_NUMBER(REPLACE(%v, ',', ''), %v, %v)", c.Name, constants.NumericPrecisionBound, c.Scale)
	case TypeTimestamp:
		return fmt.Sprintf("TO_TIMESTAMP(%v,'%v')", c.Name, c.TimestampFormat)
	default:
		return c.Name
	}
}

func (c ColumnDescriptor) String() string {
	b := strings.Builder{}
	b.WriteString(c.Name + " " + c.Type.String())
	if c.Type == TypeNumber {
		b.WriteString(fmt.Sprintf(" scale=%v", c.Scale))
	}
	if c.Type == TypeTimestamp {
		b.WriteString(" format=" + c.TimestampFormat)
	}
	return b.String()
}
