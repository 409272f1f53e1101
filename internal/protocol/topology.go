package protocol

import "github.com/hdbdrv/hdb/internal/protocol/codec"

// TopologyInformation describes the set of hosts/ports the server cluster
// advertises for client-side statement routing (§9 design notes). The
// reference implementation models this as a sequence of option bags, one per
// host; this module simplifies it to a single flattened Options bag with one
// ToHostName/ToHostPortNo/ToIsPrimary/ToLoadFactor reading per decode call
// and leaves multi-host topologies as repeated parts rather than a nested
// per-part array, since the driver only needs the primary host to implement
// §4.5 redirect handling.
type TopologyInformation Options[TopologyOption]

func (o TopologyInformation) kind() PartKind { return PkTopologyInformation }
func (o TopologyInformation) numArg() int    { return Options[TopologyOption](o).numArg() }
func (o TopologyInformation) size() int      { return Options[TopologyOption](o).size() }
func (o TopologyInformation) encode(enc *codec.Encoder) error {
	return Options[TopologyOption](o).encode(enc)
}
func (o *TopologyInformation) decode(dec *codec.Decoder, h *PartHeader) error {
	return (*Options[TopologyOption])(o).decode(dec, h)
}

// HostName and HostPort report the advertised routing target, when present.
func (o TopologyInformation) HostName() (string, bool) {
	v, ok := o[ToHostName]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (o TopologyInformation) HostPort() (int32, bool) {
	v, ok := o[ToHostPortNo]
	if !ok {
		return 0, false
	}
	p, ok := v.(int32)
	return p, ok
}

// IsPrimary reports whether this topology entry names the primary (write
// master) host of the cluster.
func (o TopologyInformation) IsPrimary() bool {
	v, ok := o[ToIsPrimary]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
