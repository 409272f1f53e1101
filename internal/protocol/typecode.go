package protocol

import "fmt"

// TypeCode identifies the wire type of a column value or parameter.
// Valid ids run 1..=82 (§4.2); the high bit (0x80) marks the NULL variant
// of a type where the protocol supports an in-band NULL encoding.
type TypeCode byte

const (
	TCNull       TypeCode = 0
	TCTinyInt    TypeCode = 1
	TCSmallInt   TypeCode = 2
	TCInt        TypeCode = 3
	TCBigInt     TypeCode = 4
	TCDecimal    TypeCode = 5
	TCReal       TypeCode = 6
	TCDouble     TypeCode = 7
	TCChar       TypeCode = 8
	TCVarChar    TypeCode = 9
	TCNChar      TypeCode = 10
	TCNVarChar   TypeCode = 11
	TCBinary     TypeCode = 12
	TCVarBinary  TypeCode = 13
	TCDate       TypeCode = 14
	TCTime       TypeCode = 15
	TCTimestamp  TypeCode = 16
	TCClob       TypeCode = 25
	TCNClob      TypeCode = 26
	TCBlob       TypeCode = 27
	TCBoolean    TypeCode = 28
	TCString     TypeCode = 29
	TCNString    TypeCode = 30
	TCBStrin     TypeCode = 33
	TCText       TypeCode = 51
	TCShortText  TypeCode = 52
	TCLongDate   TypeCode = 61
	TCSecondDate TypeCode = 62
	TCDayDate    TypeCode = 63
	TCSecondTime TypeCode = 64
	TCGeometry   TypeCode = 74
	TCPoint      TypeCode = 75
	TCFixed16    TypeCode = 76
	TCFixed8     TypeCode = 81
	TCFixed12    TypeCode = 82
)

// secondTimeNullCode is a HANA quirk: SECONDTIME's NULL variant cannot be
// signalled by setting the high bit (0xC0 collides with a different type
// on some server versions), so the server uses 0xB0 instead.
const secondTimeNullCode TypeCode = 0xB0

const maxTypeCode = 82

// Null returns the NULL-variant type code for tc.
func (tc TypeCode) Null() TypeCode {
	if tc == TCSecondTime {
		return secondTimeNullCode
	}
	return tc | 0x80
}

// IsNull reports whether tc is itself a NULL-variant code.
func (tc TypeCode) IsNull() bool {
	return tc == secondTimeNullCode || tc&0x80 != 0
}

// Base strips the NULL-variant high bit, returning the plain type code.
func (tc TypeCode) Base() TypeCode {
	if tc == secondTimeNullCode {
		return TCSecondTime
	}
	return tc &^ 0x80
}

// IsLob reports whether tc (after stripping NULL) denotes a large object.
func (tc TypeCode) IsLob() bool {
	switch tc.Base() {
	case TCClob, TCNClob, TCBlob, TCText:
		return true
	}
	return false
}

// IsCharacterLob reports whether tc is a character (as opposed to binary) LOB.
func (tc TypeCode) IsCharacterLob() bool {
	switch tc.Base() {
	case TCClob, TCNClob, TCText:
		return true
	}
	return false
}

// IsVariableLength reports whether tc carries an explicit length prefix.
func (tc TypeCode) IsVariableLength() bool {
	switch tc.Base() {
	case TCChar, TCNChar, TCVarChar, TCNVarChar, TCBinary, TCVarBinary, TCString, TCNString, TCBStrin, TCText, TCShortText, TCGeometry, TCPoint:
		return true
	}
	return false
}

// IsDecimal reports whether tc is one of the fixed-point decimal variants.
func (tc TypeCode) IsDecimal() bool {
	switch tc.Base() {
	case TCDecimal, TCFixed8, TCFixed12, TCFixed16:
		return true
	}
	return false
}

// Valid reports whether tc's base code is in the supported 1..82 range.
func (tc TypeCode) Valid() bool {
	b := tc.Base()
	return b >= 1 && b <= maxTypeCode
}

// CheckTypeCode rejects type ids outside the supported range (§4.2).
func CheckTypeCode(tc TypeCode) error {
	if !tc.Valid() {
		return fmt.Errorf("protocol: unsupported type code %d", tc.Base())
	}
	return nil
}

func (tc TypeCode) String() string {
	names := map[TypeCode]string{
		TCTinyInt: "TINYINT", TCSmallInt: "SMALLINT", TCInt: "INT", TCBigInt: "BIGINT",
		TCDecimal: "DECIMAL", TCReal: "REAL", TCDouble: "DOUBLE",
		TCChar: "CHAR", TCVarChar: "VARCHAR", TCNChar: "NCHAR", TCNVarChar: "NVARCHAR",
		TCBinary: "BINARY", TCVarBinary: "VARBINARY",
		TCDate: "DATE", TCTime: "TIME", TCTimestamp: "TIMESTAMP",
		TCClob: "CLOB", TCNClob: "NCLOB", TCBlob: "BLOB", TCBoolean: "BOOLEAN",
		TCString: "STRING", TCNString: "NSTRING", TCBStrin: "BSTRING",
		TCText: "TEXT", TCShortText: "SHORTTEXT",
		TCLongDate: "LONGDATE", TCSecondDate: "SECONDDATE", TCDayDate: "DAYDATE", TCSecondTime: "SECONDTIME",
		TCGeometry: "GEOMETRY", TCPoint: "POINT",
		TCFixed8: "FIXED8", TCFixed12: "FIXED12", TCFixed16: "FIXED16",
	}
	if n, ok := names[tc.Base()]; ok {
		return n
	}
	return fmt.Sprintf("TypeCode(%d)", byte(tc))
}
