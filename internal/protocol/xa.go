package protocol

import (
	"context"
	"encoding/binary"
)

// Xid identifies an XA global transaction branch: the standard
// format-id/global-transaction-id/branch-qualifier triple (§6 XA verbs),
// carried over the wire inside an XatOptions bag's XoXid entry.
type Xid struct {
	FormatID            int32
	GlobalTransactionID []byte
	BranchQualifier     []byte
}

// XA flag bits, reused verbatim from the X/Open XA specification since
// XatOptions passes XoFlags straight through to the server untouched.
const (
	XaTMNoFlags  int32 = 0x00000000
	XaTMJoin     int32 = 0x00200000
	XaTMResume   int32 = 0x08000000
	XaTMSuccess  int32 = 0x04000000
	XaTMFail     int32 = 0x20000000
	XaTMOnePhase int32 = 0x40000000
)

// encodeXid packs an Xid into the flat byte form XoXid carries: a 4-byte
// format id, then the gtrid and bqual lengths, then the two byte strings
// back to back.
func encodeXid(xid Xid) []byte {
	buf := make([]byte, 4+4+4+len(xid.GlobalTransactionID)+len(xid.BranchQualifier))
	binary.BigEndian.PutUint32(buf[0:4], uint32(xid.FormatID))
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(xid.GlobalTransactionID)))
	binary.BigEndian.PutUint32(buf[8:12], uint32(len(xid.BranchQualifier)))
	n := copy(buf[12:], xid.GlobalTransactionID)
	copy(buf[12+n:], xid.BranchQualifier)
	return buf
}

func decodeXid(b []byte) (Xid, error) {
	if len(b) < 12 {
		return Xid{}, newProtocolError("xid too short: %d bytes", len(b))
	}
	formatID := int32(binary.BigEndian.Uint32(b[0:4]))
	gtridLen := int(binary.BigEndian.Uint32(b[4:8]))
	bqualLen := int(binary.BigEndian.Uint32(b[8:12]))
	rest := b[12:]
	if len(rest) < gtridLen+bqualLen {
		return Xid{}, newProtocolError("xid body too short: %d bytes, want %d", len(rest), gtridLen+bqualLen)
	}
	return Xid{
		FormatID:            formatID,
		GlobalTransactionID: append([]byte(nil), rest[:gtridLen]...),
		BranchQualifier:     append([]byte(nil), rest[gtridLen:gtridLen+bqualLen]...),
	}, nil
}

func xidOptions(xid Xid, flags int32) XatOptions {
	return XatOptions{
		XoFlags: flags,
		XoXid:   encodeXid(xid),
	}
}

// XAReturnCode reports the outcome of an XA verb as the server's XoReturnCode
// entry; 0 (XA_OK) means success.
type XAReturnCode int32

const XAOK XAReturnCode = 0

func xaReturnCode(reply *Reply) XAReturnCode {
	if v, ok := reply.XatOptions[XoReturnCode]; ok {
		if rc, ok := v.(int32); ok {
			return XAReturnCode(rc)
		}
	}
	return XAOK
}

// XAStart starts (or joins, with XaTMJoin set in flags) work on behalf of a
// global transaction branch (§6 XA verbs).
func (s *Session) XAStart(ctx context.Context, xid Xid, flags int32) (XAReturnCode, error) {
	reply, err := s.send(MtXAOpenStart, false, xidOptions(xid, flags))
	if err != nil {
		return 0, err
	}
	return xaReturnCode(reply), nil
}

// XAEnd disassociates the session from xid's branch (§6 XA verbs). Pass
// XaTMSuccess on a normal end or XaTMFail to mark the branch rollback-only.
func (s *Session) XAEnd(ctx context.Context, xid Xid, flags int32) (XAReturnCode, error) {
	reply, err := s.send(MtXAOpenEnd, false, xidOptions(xid, flags))
	if err != nil {
		return 0, err
	}
	return xaReturnCode(reply), nil
}

// XAPrepare asks the resource manager to vote on committing xid's branch
// (the first phase of two-phase commit, §6 XA verbs).
func (s *Session) XAPrepare(ctx context.Context, xid Xid) (XAReturnCode, error) {
	reply, err := s.send(MtXAOpenPrepare, false, xidOptions(xid, XaTMNoFlags))
	if err != nil {
		return 0, err
	}
	return xaReturnCode(reply), nil
}

// XACommit commits xid's branch; onePhase requests a one-phase commit,
// skipping a separate XAPrepare call (§6 XA verbs).
func (s *Session) XACommit(ctx context.Context, xid Xid, onePhase bool) (XAReturnCode, error) {
	flags := XaTMNoFlags
	if onePhase {
		flags = XaTMOnePhase
	}
	reply, err := s.send(MtXAOpenCommit, false, xidOptions(xid, flags))
	if err != nil {
		return 0, err
	}
	return xaReturnCode(reply), nil
}

// XARollback rolls back xid's branch (§6 XA verbs).
func (s *Session) XARollback(ctx context.Context, xid Xid) (XAReturnCode, error) {
	reply, err := s.send(MtXAOpenRollback, false, xidOptions(xid, XaTMNoFlags))
	if err != nil {
		return 0, err
	}
	return xaReturnCode(reply), nil
}

// XAForget discards heuristically-completed branch state for xid (§6 XA
// verbs).
func (s *Session) XAForget(ctx context.Context, xid Xid) (XAReturnCode, error) {
	reply, err := s.send(MtXAOpenForget, false, xidOptions(xid, XaTMNoFlags))
	if err != nil {
		return 0, err
	}
	return xaReturnCode(reply), nil
}

// XARecover lists the in-doubt branch Xids the server currently holds for
// this resource manager (§6 XA verbs, crash recovery).
func (s *Session) XARecover(ctx context.Context) ([]Xid, error) {
	reply, err := s.send(MtXAOpenRecover, false, XatOptions{})
	if err != nil {
		return nil, err
	}
	n, _ := reply.XatOptions[XoNumberOfXid].(int32)
	if n == 0 {
		return nil, nil
	}
	raw, ok := reply.XatOptions[XoXid].([]byte)
	if !ok {
		return nil, nil
	}
	// Multiple in-doubt Xids are packed back to back in one XoXid entry;
	// each is self-describing via its gtrid/bqual length prefixes, so walk
	// the buffer rather than requiring a fixed per-entry size.
	xids := make([]Xid, 0, n)
	for len(raw) > 0 {
		xid, err := decodeXid(raw)
		if err != nil {
			return nil, err
		}
		xids = append(xids, xid)
		consumed := 12 + len(xid.GlobalTransactionID) + len(xid.BranchQualifier)
		raw = raw[consumed:]
	}
	return xids, nil
}
