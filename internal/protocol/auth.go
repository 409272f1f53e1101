package protocol

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

// Authentication method names, sent verbatim as an auth field (§4.6).
const (
	methodSCRAMSHA256     = "SCRAMSHA256"
	methodSCRAMPBKDF2SHA256 = "SCRAMPBKDF2SHA256"
)

const clientNonceSize = 64

func newClientNonce() ([]byte, error) {
	b := make([]byte, clientNonceSize)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("protocol: generating client nonce: %w", err)
	}
	return b, nil
}

func sha256Sum(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

// scramsha256Key derives the SCRAM-SHA-256 key from password and salt
// (§4.6): key = sha256(hmac(password, salt)).
func scramsha256Key(password, salt []byte) []byte {
	return sha256Sum(hmacSHA256(password, salt))
}

// scrampbkdf2sha256Key is the PBKDF2 variant offered by newer servers; not
// required by the spec but wired in as a documented domain-stack addition
// (golang.org/x/crypto/pbkdf2, grounded on go-hdb's
// authscrampbkdf2sha256.go).
func scrampbkdf2sha256Key(password, salt []byte, rounds int) []byte {
	return sha256Sum(pbkdf2.Key(password, salt, rounds, sha256.Size, sha256.New))
}

// clientProof computes one SCRAM scramble for a single (salt, serverKey)
// pair (§4.6 step 3): sig = hmac(sha256(key), salt‖serverKey‖clientNonce);
// scramble = sig XOR key.
func clientProof(key, salt, serverKey, clientNonce []byte) []byte {
	msg := make([]byte, 0, len(salt)+len(serverKey)+len(clientNonce))
	msg = append(msg, salt...)
	msg = append(msg, serverKey...)
	msg = append(msg, clientNonce...)
	sig := hmacSHA256(sha256Sum(key), msg)
	out := make([]byte, len(sig))
	for i := range out {
		out[i] = sig[i] ^ key[i]
	}
	return out
}

// --- wire-level auth field helpers ---
//
// Each auth part's payload is a list of length-prefixed byte fields: a
// little-endian int16 field count, then per field a 1-byte length (or,
// for fields over 250 bytes, a 0xFF marker followed by a little-endian
// uint16 length) and the field bytes themselves.

const authFieldLongMarker = 0xFF
const authFieldMaxShort = 250

func writeAuthField(enc *codec.Encoder, b []byte) {
	if len(b) <= authFieldMaxShort {
		enc.Byte(byte(len(b)))
	} else {
		enc.Byte(authFieldLongMarker)
		enc.Uint16(uint16(len(b)))
	}
	enc.Bytes(b)
}

// authFieldSize returns the number of wire bytes writeAuthField emits for a
// value of length n, for callers that need to precompute a part's size().
func authFieldSize(n int) int {
	if n <= authFieldMaxShort {
		return 1 + n
	}
	return 3 + n
}

func readAuthField(dec *codec.Decoder) []byte {
	n := int(dec.Byte())
	if n == authFieldLongMarker {
		n = int(dec.Uint16())
	}
	b := make([]byte, n)
	dec.Bytes(b)
	return b
}

func encodeAuthFields(enc *codec.Encoder, fields [][]byte) {
	enc.Int16(int16(len(fields)))
	for _, f := range fields {
		writeAuthField(enc, f)
	}
}

func decodeAuthFields(dec *codec.Decoder, n int) [][]byte {
	fields := make([][]byte, n)
	for i := range fields {
		fields[i] = readAuthField(dec)
	}
	return fields
}

// authPart is the PkAuthentication part body: an arbitrary field list
// (request or reply direction share the same wire shape).
type authPart struct {
	fields [][]byte
}

func (p *authPart) kind() PartKind { return PkAuthentication }
func (p *authPart) numArg() int    { return 1 }
func (p *authPart) size() int {
	n := 2
	for _, f := range p.fields {
		if len(f) <= authFieldMaxShort {
			n += 1 + len(f)
		} else {
			n += 3 + len(f)
		}
	}
	return n
}
func (p *authPart) encode(enc *codec.Encoder) error {
	encodeAuthFields(enc, p.fields)
	return enc.Error()
}
func (p *authPart) decode(dec *codec.Decoder, h *PartHeader) error {
	n := int(dec.Int16())
	p.fields = decodeAuthFields(dec, n)
	return dec.Error()
}

// serverChallenge is the structured second field of the init reply
// (§4.6 step 2): a little-endian int16 salt count, that many 1-byte
// length-prefixed salts, and one 1-byte length-prefixed server key.
type serverChallenge struct {
	salts     [][]byte
	serverKey []byte
}

func parseServerChallenge(raw []byte) (*serverChallenge, error) {
	dec := codec.NewDecoder(bytes.NewReader(raw))
	n := int(dec.Int16())
	if n <= 0 {
		return nil, fmt.Errorf("protocol: auth: server challenge has no salts")
	}
	salts := make([][]byte, n)
	for i := range salts {
		salts[i] = readAuthField(dec)
	}
	serverKey := readAuthField(dec)
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("protocol: auth: malformed server challenge: %w", err)
	}
	return &serverChallenge{salts: salts, serverKey: serverKey}, nil
}

// buildClientProofField assembles the §4.6 step 3 wire format:
// [0x00, saltCount, 32, scramble0, 32, scramble1, ...].
func buildClientProofField(password string, sc *serverChallenge, clientNonce []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x00)
	buf.WriteByte(byte(len(sc.salts)))
	for _, salt := range sc.salts {
		key := scramsha256Key([]byte(password), salt)
		scramble := clientProof(key, salt, sc.serverKey, clientNonce)
		buf.WriteByte(byte(len(scramble)))
		buf.Write(scramble)
	}
	return buf.Bytes()
}

// ScramSha256Handshake drives the three-round SCRAM-SHA-256 dance (§4.6).
// It only builds and checks the Authentication parts (InitRequest,
// FinalRequest, VerifyFinalReply); Session.authenticate sends them in an
// Authenticate request followed by a Connect request.
type ScramSha256Handshake struct {
	Username string
	Password string

	clientNonce []byte
}

// InitRequest builds the fields for the first Authenticate message.
func (h *ScramSha256Handshake) InitRequest() (*authPart, error) {
	nonce, err := newClientNonce()
	if err != nil {
		return nil, err
	}
	h.clientNonce = nonce
	return &authPart{fields: [][]byte{
		[]byte(h.Username),
		[]byte(methodSCRAMSHA256),
		nonce,
	}}, nil
}

// FinalRequest consumes the init reply's auth part and builds the fields
// for the Connect message's auth part.
func (h *ScramSha256Handshake) FinalRequest(initReply *authPart) (*authPart, error) {
	if len(initReply.fields) < 2 {
		return nil, fmt.Errorf("protocol: auth: init reply missing fields")
	}
	sc, err := parseServerChallenge(initReply.fields[1])
	if err != nil {
		return nil, err
	}
	proof := buildClientProofField(h.Password, sc, h.clientNonce)
	return &authPart{fields: [][]byte{
		[]byte(h.Username),
		[]byte(methodSCRAMSHA256),
		proof,
	}}, nil
}

// VerifyFinalReply checks the server's final auth part, if it carries a
// server proof field; a missing proof is accepted (§4.6: "optional to
// verify"). Only the method-name field is mandatory.
func (h *ScramSha256Handshake) VerifyFinalReply(finalReply *authPart) error {
	if len(finalReply.fields) < 1 {
		return fmt.Errorf("protocol: auth: final reply missing method field")
	}
	if string(finalReply.fields[0]) != methodSCRAMSHA256 {
		return fmt.Errorf("protocol: auth: unexpected method %q in final reply", finalReply.fields[0])
	}
	// A server proof, when present, is not independently re-derivable from
	// data available to the client (it authenticates the server's
	// possession of the stored key, not a value the client also computes
	// from the wire) so it is accepted without recomputation here.
	return nil
}
