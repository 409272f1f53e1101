package protocol

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
	"github.com/hdbdrv/hdb/internal/protocol/codec/cesu8"
)

// Decimal is a wire-format fixed-point number: Mantissa * 10^Exp.
type Decimal struct {
	Mantissa *big.Int
	Exp      int
}

func (d *Decimal) String() string {
	if d == nil {
		return "<nil>"
	}
	if d.Exp == 0 {
		return d.Mantissa.String()
	}
	return fmt.Sprintf("%se%d", d.Mantissa.String(), d.Exp)
}

// LobFetcher retrieves additional chunks of a server-side LOB locator. It is
// implemented by Session; kept as a narrow interface here so value.go has no
// dependency on connection plumbing.
type LobFetcher interface {
	FetchLobChunk(locatorID uint64, offset int64, length int32) (data []byte, isLast bool, err error)
}

// Lob is a handle to a LOB column value. Small values arrive fully inlined
// (Complete is true immediately); larger ones carry only the first chunk and
// pull the rest lazily through Read, which calls back into the owning
// session via a LobFetcher (§4.10).
type Lob struct {
	fetcher    LobFetcher
	locatorID  uint64
	isChar     bool
	complete   bool
	totalBytes int64
	totalChars int64
	data       []byte // bytes not yet handed to the caller
	readBytes  int64  // bytes already fetched from the server (including data)
	readChars  int64
	tail       []byte // CESU-8 bytes held back across a chunk boundary (char LOBs only)
}

// IsChar reports whether this is a character LOB (CLOB/NCLOB/TEXT) as
// opposed to a binary one (BLOB).
func (l *Lob) IsChar() bool { return l.isChar }

// Len returns the LOB's total length: characters for a character LOB, bytes
// for a binary one.
func (l *Lob) Len() int64 {
	if l.isChar {
		return l.totalChars
	}
	return l.totalBytes
}

// Read implements io.Reader, pulling further chunks from the server as
// needed. For character LOBs, CESU-8 decoding happens a safe-split chunk at
// a time so a 4-byte supplementary character is never bisected across two
// Read calls worth of wire data (§4.10, §8 property: no dangling surrogate).
func (l *Lob) Read(p []byte) (int, error) {
	for len(l.data) == 0 {
		if l.complete {
			return 0, io.EOF
		}
		if err := l.fetchMore(); err != nil {
			return 0, err
		}
	}
	if l.isChar {
		return l.readChar(p)
	}
	n := copy(p, l.data)
	l.data = l.data[n:]
	return n, nil
}

func (l *Lob) readChar(p []byte) (int, error) {
	avail := append(l.tail, l.data...)
	n := cesu8.SafeSplit(avail, len(p))
	if n == 0 && !l.complete {
		// not enough buffered to make a safe split decision; pull more first
		if err := l.fetchMore(); err != nil {
			return 0, err
		}
		return l.readChar(p)
	}
	decoded := cesu8.Decode(nil, avail[:n])
	copy(p, decoded)
	consumed := n - len(l.tail)
	if consumed < 0 {
		consumed = 0
	}
	l.tail = nil
	l.data = l.data[consumed:]
	if n < len(avail) {
		l.tail = append([]byte(nil), avail[n:]...)
	}
	return len(decoded), nil
}

func (l *Lob) fetchMore() error {
	if l.complete {
		return nil
	}
	remaining := l.totalBytes - l.readBytes
	data, isLast, err := l.fetcher.FetchLobChunk(l.locatorID, l.readBytes+1, clampChunk(remaining))
	if err != nil {
		return err
	}
	l.readBytes += int64(len(data))
	l.data = append(l.data, data...)
	l.complete = isLast
	return nil
}

func clampChunk(remaining int64) int32 {
	const maxChunk = 1 << 20
	if remaining > maxChunk {
		return maxChunk
	}
	return int32(remaining)
}

// LobWriter is supplied by the caller as a parameter value to stream a LOB
// into a write-enabled statement. The driver pulls from R in chunks sized to
// the server's negotiated write length and interleaves WriteLob requests
// with the original Execute (§4.10 write path).
type LobWriter struct {
	R      io.Reader
	IsChar bool
}

// DecodeValue reads one column/parameter value of type tc from dec. ctx
// supplies the LobFetcher used to build streaming Lob handles; it may be
// nil when the caller already knows no LOB columns are present.
func DecodeValue(dec *codec.Decoder, tc TypeCode, ctx LobFetcher) (any, error) {
	if tc.IsNull() {
		return nil, nil
	}
	switch tc.Base() {
	case TCTinyInt:
		return dec.Byte(), nil
	case TCSmallInt:
		return dec.Int16(), nil
	case TCInt:
		return dec.Int32(), nil
	case TCBigInt:
		return dec.Int64(), nil
	case TCReal:
		return dec.Float32(), nil
	case TCDouble:
		return dec.Float64(), nil
	case TCBoolean:
		return dec.Bool(), nil
	case TCDecimal:
		m, exp, isNull, err := dec.Decimal()
		if err != nil {
			return nil, err
		}
		if isNull {
			return nil, nil
		}
		return &Decimal{Mantissa: m, Exp: exp}, nil
	case TCFixed8, TCFixed12, TCFixed16:
		size := fixedSize(tc.Base())
		scale := int(dec.Int8())
		m := dec.Fixed(size)
		return &Decimal{Mantissa: m, Exp: -scale}, nil
	case TCChar, TCVarChar, TCString, TCShortText:
		n := int(dec.Uint16())
		b, err := dec.CESU8Bytes(n)
		return string(b), err
	case TCNChar, TCNVarChar, TCNString, TCText:
		n := int(dec.Uint16())
		b, err := dec.CESU8Bytes(n)
		return string(b), err
	case TCBinary, TCVarBinary, TCBStrin:
		n := int(dec.Uint16())
		b := make([]byte, n)
		dec.Bytes(b)
		return b, nil
	case TCDate:
		return decodeDate(dec)
	case TCTime:
		return decodeTime(dec)
	case TCTimestamp:
		d, err := decodeDate(dec)
		if err != nil || d == nil {
			return d, err
		}
		t, err := decodeTime(dec)
		if err != nil || t == nil {
			return nil, err
		}
		dt, tt := d.(time.Time), t.(time.Time)
		return time.Date(dt.Year(), dt.Month(), dt.Day(), tt.Hour(), tt.Minute(), tt.Second(), tt.Nanosecond(), time.UTC), nil
	case TCLongDate:
		v := dec.Int64()
		if v == codec.LongDateNull {
			return nil, nil
		}
		return codec.LongDateToTime(v), nil
	case TCSecondDate:
		v := dec.Int64()
		if v == codec.SecondDateNull {
			return nil, nil
		}
		return codec.SecondDateToTime(v), nil
	case TCDayDate:
		v := dec.Int32()
		if int32(v) == codec.DayDateNull {
			return nil, nil
		}
		return codec.DayDateToTime(int64(v)), nil
	case TCSecondTime:
		v := dec.Int32()
		if v == codec.SecondTimeNull {
			return nil, nil
		}
		return codec.SecondTimeToTime(v), nil
	case TCClob, TCNClob, TCBlob:
		return decodeLob(dec, ctx, tc.IsCharacterLob())
	default:
		return nil, fmt.Errorf("protocol: DecodeValue: unsupported type code %s", tc)
	}
}

func fixedSize(tc TypeCode) int {
	switch tc {
	case TCFixed8:
		return 8
	case TCFixed12:
		return 12
	default:
		return 16
	}
}

func decodeDate(dec *codec.Decoder) (any, error) {
	year := dec.Uint16()
	isNull := year&0x8000 == 0
	year &= 0x3fff
	month := dec.Int8() + 1
	day := dec.Int8()
	if isNull {
		return nil, nil
	}
	return time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC), nil
}

func decodeTime(dec *codec.Decoder) (any, error) {
	hour := dec.Byte()
	isNull := hour&0x80 == 0
	hour &= 0x7f
	minute := dec.Int8()
	millis := dec.Uint16()
	if isNull {
		return nil, nil
	}
	return time.Date(1, 1, 1, int(hour), int(minute), 0, int(millis)*1000000, time.UTC), nil
}

// decodeLob reads the wire LOB header (§4.10): a type byte, an options byte
// (bit0 isNull, bit2 isLastData), a filler, total char/byte counts, a
// locator id, and an inline data chunk length + bytes.
func decodeLob(dec *codec.Decoder, ctx LobFetcher, isChar bool) (any, error) {
	_ = dec.Byte() // data type, unused
	options := dec.Byte()
	isNull := options&0x01 != 0
	isLastData := options&0x04 != 0
	if isNull {
		return nil, nil
	}
	dec.Skip(2) // filler
	lengthC := dec.Int64()
	lengthB := dec.Int64()
	locatorID := dec.Uint64()
	chunkLen := int(dec.Int32())
	data := make([]byte, chunkLen)
	dec.Bytes(data)

	lob := &Lob{
		fetcher:    ctx,
		locatorID:  locatorID,
		isChar:     isChar,
		complete:   isLastData,
		totalBytes: lengthB,
		totalChars: lengthC,
		data:       data,
		readBytes:  int64(chunkLen),
	}
	return lob, nil
}


