package protocol

import (
	"fmt"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

// Options is a generic key/value option bag (§9 "option bags"): each entry
// pairs a small enumerated key with a value tagged by a TypeCode drawn from
// a closed {bool, int32, int64, float64, string, []byte} set. ConnectOptions,
// CommitOptions, FetchOptions, ClientContext, ClientInfo, StatementContext,
// TransactionFlags, SessionContext, LobFlags, XatOptions and DBConnectInfo
// are all instantiations of this one generic part body, mirroring go-hdb's
// own `Options[K ~int8]` generic part (driver/internal/protocol/optionsparts1.18.go).
type Options[K ~int8] map[K]any

func (o Options[K]) size() int {
	size := 2 * len(o) // key byte + type byte per entry
	for _, v := range o {
		size += optValueSize(v)
	}
	return size
}

func (o Options[K]) numArg() int { return len(o) }

func (o Options[K]) encode(enc *codec.Encoder) error {
	for k, v := range o {
		enc.Int8(int8(k))
		tc, err := optValueTypeCode(v)
		if err != nil {
			return err
		}
		enc.Byte(byte(tc))
		encodeOptValue(enc, v)
	}
	return enc.Error()
}

func (o *Options[K]) decode(dec *codec.Decoder, h *PartHeader) error {
	*o = Options[K]{}
	for i := 0; i < int(h.ArgumentCount); i++ {
		k := K(dec.Int8())
		tc := TypeCode(dec.Byte())
		v, err := decodeOptValue(dec, tc)
		if err != nil {
			return err
		}
		(*o)[k] = v
	}
	return dec.Error()
}

// optValueTypeCode maps a Go value to the wire TypeCode that tags it.
func optValueTypeCode(v any) (TypeCode, error) {
	switch v.(type) {
	case bool:
		return TCBoolean, nil
	case int32:
		return TCInt, nil
	case int64:
		return TCBigInt, nil
	case float64:
		return TCDouble, nil
	case string:
		return TCString, nil
	case []byte:
		return TCBStrin, nil
	default:
		return 0, fmt.Errorf("protocol: option value of type %T has no wire representation", v)
	}
}

func optValueSize(v any) int {
	switch v := v.(type) {
	case bool:
		return 1
	case int32:
		return 4
	case int64:
		return 8
	case float64:
		return 8
	case string:
		return optBytesSize(len(v))
	case []byte:
		return optBytesSize(len(v))
	default:
		return 0
	}
}

// optBytesSize mirrors the short/long field framing used elsewhere on the
// wire (auth.go's writeAuthField): a 1-byte length for values up to 250
// bytes, else a 0xFF marker plus a little-endian uint16 length.
func optBytesSize(n int) int {
	return authFieldSize(n)
}

func encodeOptValue(enc *codec.Encoder, v any) {
	switch v := v.(type) {
	case bool:
		enc.Bool(v)
	case int32:
		enc.Int32(v)
	case int64:
		enc.Int64(v)
	case float64:
		enc.Float64(v)
	case string:
		writeAuthField(enc, []byte(v))
	case []byte:
		writeAuthField(enc, v)
	}
}

func decodeOptValue(dec *codec.Decoder, tc TypeCode) (any, error) {
	switch tc {
	case TCBoolean:
		return dec.Bool(), nil
	case TCInt:
		return dec.Int32(), nil
	case TCBigInt:
		return dec.Int64(), nil
	case TCDouble:
		return dec.Float64(), nil
	case TCString:
		return string(readAuthField(dec)), nil
	case TCBStrin:
		return readAuthField(dec), nil
	default:
		return nil, fmt.Errorf("protocol: option: unsupported value type code %s", tc)
	}
}
