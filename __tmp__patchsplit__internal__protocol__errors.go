package protocol

import (
	"fmt"
	"strings"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

// ErrorSeverity is the server's classification of a reported error
// (§4.7: "if present and the error severity is above Warning, the reply
// is re-interpreted as a failure").
type ErrorSeverity int8

const (
	SeverityWarning ErrorSeverity = 0
	SeverityError   ErrorSeverity = 1
	SeverityFatal   ErrorSeverity = 2
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

const sqlStateSize = 5

// ServerError is one error entry returned by the server in an Error part.
type ServerError struct {
	Code     int32
	Position int32
	Severity ErrorSeverity
	SQLState [sqlStateSize]byte
	Text     string
	StmtNo   int
}

func (e *ServerError) Error() string {
	if e.StmtNo > 0 {
		return fmt.Sprintf("hdb %s %d: %s (statement %d)", e.Severity, e.Code, e.Text, e.StmtNo)
	}
	return fmt.Sprintf("hdb %s %d: %s", e.Severity, e.Code, e.Text)
}

// IsWarning reports whether this entry is informational only.
func (e *ServerError) IsWarning() bool { return e.Severity == SeverityWarning }

// ServerErrors is the decoded PkError part: one or more ServerError
// entries, consumed together because the server only ever reports them
// as a batch (§4.3, §7).
type ServerErrors struct {
	Errs []*ServerError
}

func (e *ServerErrors) kind() PartKind { return PkError }
func (e *ServerErrors) numArg() int    { return len(e.Errs) }
func (e *ServerErrors) size() int      { return 0 } // decode-only part; never emitted

func (e *ServerErrors) Error() string {
	texts := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		texts[i] = err.Error()
	}
	return strings.Join(texts, "; ")
}

// HasOnlyWarnings reports whether every entry is a warning (§4.7: warnings
// are captured without failing the call).
func (e *ServerErrors) HasOnlyWarnings() bool {
	for _, err := range e.Errs {
		if !err.IsWarning() {
			return false
		}
	}
	return true
}

// decode parses a PkError part body per the server's fixed-then-variable
// layout: a 18-byte fixed header (code, position, text length, severity,
// sql state) followed by errorTextLength bytes of text, the whole entry
// padded to an 8-byte boundary -- except when there is exactly one error,
// where the server's declared buffer length runs one byte long relative
// to the padding formula (grounded on go-hdb's documented quirk).
func (e *ServerErrors) decode(dec *codec.Decoder, h *PartHeader) error {
	const fixLength = 18
	n := int(h.ArgumentCount)
	e.Errs = make([]*ServerError, n)
	for i := 0; i < n; i++ {
		se := &ServerError{}
		se.Code = dec.Int32()
		se.Position = dec.Int32()
		textLen := dec.Int32()
		se.Severity = ErrorSeverity(dec.Int8())
		dec.Bytes(se.SQLState[:])
		text := make([]byte, textLen)
		dec.Bytes(text)
		se.Text = string(text)
		e.Errs[i] = se

		if n == 1 {
			dec.Skip(1)
			break
		}
		if pad := padBytes(fixLength + int(textLen)); pad != 0 {
			dec.Skip(pad)
		}
	}
	return dec.Error()
}

// ProtocolError reports a malformed or unexpected wire structure: a
// header arithmetic mismatch, an out-of-range type code, a reply type
// that doesn't match what was requested, and similar framing-level
// violations (§4.4, §8).
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return "hdb: protocol error: " + e.Msg }

func newProtocolError(format string, args ...any) *ProtocolError {
	return &ProtocolError{Msg: fmt.Sprintf(format, args...)}
}

// UsageError reports a caller-level contract violation: wrong parameter
// count, a mismatched LOB writer count, a read after close, and similar
// (§4.9 "readers-count ≠ locators-count is an impl error", §4.8 "protocol
// violation; surface as impl error").
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return "hdb: usage error: " + e.Msg }

func newUsageError(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// TransportError wraps an I/O failure from the underlying connection; a
// connection that returns one must be considered tainted and closed
// (§5: "after that the connection must be considered tainted and
// closed").
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("hdb: transport error during %s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

func newTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// BatchError reports a per-row outcome from statement.ExecuteBatch: some
// rows succeeded (RowsAffected is populated for those indices) while
// others failed (Errs holds a *ServerError per failing index, keyed by
// the same index). This merges the ExecutionResult and Error parts the
// server returns together for a batch (§4.3 reply-assembly rule, §8
// property: batch outcome merging).
type BatchError struct {
	RowsAffected []int64
	Errs         map[int]*ServerError
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("hdb: batch error: %d of %d statements failed", len(e.Errs), len(e.RowsAffected))
}

// MergeBatchOutcome builds a BatchError from a batch's rows-affected list
// (one entry per input row; -2 is the server's sentinel for "failed") and
// the corresponding server errors, in order.
func MergeBatchOutcome(rowsAffected []int64, errs []*ServerError) *BatchError {
	const executeFailed = -2
	be := &BatchError{RowsAffected: rowsAffected, Errs: map[int]*ServerError{}}
	ei := 0
	for i, ra := range rowsAffected {
		if ra == executeFailed && ei < len(errs) {
			be.Errs[i] = errs[ei]
			ei++
		}
	}
	return be
}


