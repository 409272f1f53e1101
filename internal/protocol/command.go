package protocol

import (
	"github.com/hdbdrv/hdb/internal/protocol/codec"
	"github.com/hdbdrv/hdb/internal/protocol/codec/cesu8"
)

// Command carries the raw SQL text of a request (§4.9 PREPARE/§6 execute),
// CESU-8 encoded on the wire like every other HDB string payload.
type Command string

func (c Command) kind() PartKind { return PkCommand }
func (c Command) numArg() int    { return 1 }
func (c Command) size() int      { return cesu8.StringSize(string(c)) }

func (c Command) encode(enc *codec.Encoder) error {
	enc.CESU8String(string(c))
	return enc.Error()
}

func (c *Command) decode(dec *codec.Decoder, h *PartHeader) error {
	b, err := dec.CESU8Bytes(int(h.BufferLength))
	if err != nil {
		return err
	}
	*c = Command(b)
	return dec.Error()
}
