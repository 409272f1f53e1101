package protocol

import "testing"

func TestTypeCodeNullRoundTrip(t *testing.T) {
	for _, tc := range []TypeCode{TCTinyInt, TCInt, TCBigInt, TCDecimal, TCChar, TCBlob, TCLongDate} {
		null := tc.Null()
		if !null.IsNull() {
			t.Fatalf("%s.Null() = %v, want IsNull", tc, null)
		}
		if null.Base() != tc {
			t.Fatalf("%s.Null().Base() = %s, want %s", tc, null.Base(), tc)
		}
	}
}

func TestSecondTimeNullQuirk(t *testing.T) {
	null := TCSecondTime.Null()
	if null != secondTimeNullCode {
		t.Fatalf("TCSecondTime.Null() = %x, want %x", byte(null), byte(secondTimeNullCode))
	}
	if !null.IsNull() {
		t.Fatalf("secondTimeNullCode should report IsNull")
	}
	if null.Base() != TCSecondTime {
		t.Fatalf("secondTimeNullCode.Base() = %s, want SECONDTIME", null.Base())
	}
}

func TestIsLob(t *testing.T) {
	for _, tc := range []TypeCode{TCClob, TCNClob, TCBlob, TCText} {
		if !tc.IsLob() {
			t.Fatalf("%s should be a lob", tc)
		}
	}
	if TCInt.IsLob() {
		t.Fatalf("INT should not be a lob")
	}
}

func TestIsCharacterLob(t *testing.T) {
	if !TCClob.IsCharacterLob() || !TCNClob.IsCharacterLob() || !TCText.IsCharacterLob() {
		t.Fatalf("CLOB/NCLOB/TEXT should be character lobs")
	}
	if TCBlob.IsCharacterLob() {
		t.Fatalf("BLOB should not be a character lob")
	}
}

func TestIsDecimal(t *testing.T) {
	for _, tc := range []TypeCode{TCDecimal, TCFixed8, TCFixed12, TCFixed16} {
		if !tc.IsDecimal() {
			t.Fatalf("%s should be decimal", tc)
		}
	}
}

func TestValidAndCheckTypeCode(t *testing.T) {
	if !TCFixed12.Valid() {
		t.Fatalf("FIXED12 should be valid")
	}
	bad := TypeCode(100)
	if bad.Valid() {
		t.Fatalf("100 should not be a valid type code")
	}
	if err := CheckTypeCode(bad); err == nil {
		t.Fatalf("expected error for invalid type code")
	}
	if err := CheckTypeCode(TCBigInt); err != nil {
		t.Fatalf("unexpected error for BIGINT: %v", err)
	}
}

func TestTypeCodeString(t *testing.T) {
	if TCBigInt.String() != "BIGINT" {
		t.Fatalf("String() = %q, want BIGINT", TCBigInt.String())
	}
	if got := TypeCode(200).String(); got != "TypeCode(200)" {
		t.Fatalf("String() = %q, want fallback form", got)
	}
}


