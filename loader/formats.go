package loader

// TimestampInputFormats is the ordered timestamp candidate list.
// Candidates are tried in order and the first format under which every
// non-null value converts with zero failures wins, so the order is a
// deliberate tie-break: more specific masks come before the catch-all AUTO.
// Changing the order changes inference results.
var TimestampInputFormats = []string{
	"DD-MON-YY",
	"Mon DD, YYYY HH:MI:SS AM",
	"DD-MON-YY HH12.MI.SS.FF9 AM",
	"YYYY-",
	"MM/DD/YYYY HH12:MI AM",
	"AUTO",
}
