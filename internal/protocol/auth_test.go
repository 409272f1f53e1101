package protocol

import (
	"bytes"
	"testing"

	"github.com/hdbdrv/hdb/internal/protocol/codec"
)

// Known-answer vectors for the SCRAM-SHA-256 client proof primitive.
func TestClientProofKnownAnswer(t *testing.T) {
	salt := []byte{214, 199, 255, 118, 92, 174, 94, 190, 197, 225, 57, 154, 157, 109, 119, 245}
	serverChallenge := []byte{224, 22, 242, 18, 237, 99, 6, 28, 162, 248, 96, 7, 115, 152, 134, 65, 141, 65, 168, 126, 168, 86, 87, 72, 16, 119, 12, 91, 227, 123, 51, 194, 203, 168, 56, 133, 70, 236, 230, 214, 89, 167, 130, 123, 132, 178, 211, 186}
	clientChallenge := []byte{219, 141, 27, 200, 255, 90, 182, 125, 133, 151, 127, 36, 26, 106, 213, 31, 57, 89, 50, 201, 237, 11, 158, 110, 8, 13, 2, 71, 9, 235, 213, 27, 64, 43, 181, 181, 147, 140, 10, 63, 156, 133, 133, 165, 171, 67, 187, 250, 41, 145, 176, 164, 137, 54, 72, 42, 47, 112, 252, 77, 102, 152, 220, 223}
	password := []byte{65, 100, 109, 105, 110, 49, 50, 51, 52}
	want := []byte{23, 243, 209, 70, 117, 54, 25, 92, 21, 173, 194, 108, 63, 25, 188, 185, 230, 61, 124, 190, 73, 80, 225, 126, 191, 119, 32, 112, 231, 72, 184, 199}

	key := scramsha256Key(password, salt)
	got := clientProof(key, salt, serverChallenge, clientChallenge)
	if !bytes.Equal(got, want) {
		t.Fatalf("clientProof mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestScramPBKDF2KeyKnownAnswer(t *testing.T) {
	salt := []byte{51, 178, 213, 213, 92, 82, 194, 40, 80, 120, 197, 91, 166, 67, 23, 63}
	serverChallenge := []byte{32, 91, 165, 18, 158, 77, 134, 69, 128, 157, 69, 209, 47, 33, 171, 164, 56, 172, 229, 0, 153, 3, 65, 29, 239, 210, 186, 134, 81, 32, 29, 137, 239, 167, 39, 1, 171, 117, 85, 138, 109, 38, 42, 77, 43, 42, 82, 70}
	clientChallenge := []byte{137, 156, 182, 60, 158, 138, 93, 103, 80, 202, 54, 191, 210, 78, 142, 207, 210, 176, 157, 129, 128, 19, 135, 0, 127, 26, 58, 197, 188, 216, 121, 26, 120, 196, 34, 138, 5, 8, 58, 32, 36, 240, 199, 126, 164, 112, 64, 35, 46, 102, 255, 249, 126, 250, 24, 103, 198, 152, 33, 75, 6, 179, 187, 230}
	password := []byte{84, 111, 111, 114, 49, 50, 51, 52}
	rounds := 15000
	want := []byte{253, 181, 101, 0, 214, 222, 25, 99, 98, 253, 141, 106, 38, 255, 16, 153, 34, 74, 211, 70, 21, 91, 71, 223, 170, 36, 249, 124, 1, 135, 176, 37}

	key := scrampbkdf2sha256Key(password, salt, rounds)
	got := clientProof(key, salt, serverChallenge, clientChallenge)
	if !bytes.Equal(got, want) {
		t.Fatalf("clientProof (pbkdf2) mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestAuthFieldShortLongRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	short := bytes.Repeat([]byte{0xAB}, 10)
	long := bytes.Repeat([]byte{0xCD}, 300)
	writeAuthField(enc, short)
	writeAuthField(enc, long)

	dec := codec.NewDecoder(&buf)
	gotShort := readAuthField(dec)
	gotLong := readAuthField(dec)
	if !bytes.Equal(gotShort, short) {
		t.Fatalf("short field roundtrip mismatch")
	}
	if !bytes.Equal(gotLong, long) {
		t.Fatalf("long field roundtrip mismatch")
	}
}

func TestScramSha256Handshake(t *testing.T) {
	h := &ScramSha256Handshake{Username: "SYSTEM", Password: "secret"}
	initReq, err := h.InitRequest()
	if err != nil {
		t.Fatalf("InitRequest: %v", err)
	}
	if string(initReq.fields[0]) != "SYSTEM" || string(initReq.fields[1]) != methodSCRAMSHA256 {
		t.Fatalf("unexpected init request fields: %v", initReq.fields)
	}
	if len(initReq.fields[2]) != clientNonceSize {
		t.Fatalf("client nonce size = %d, want %d", len(initReq.fields[2]), clientNonceSize)
	}

	salt := bytes.Repeat([]byte{0x01}, 16)
	serverKey := bytes.Repeat([]byte{0x02}, 32)
	var scBuf bytes.Buffer
	scEnc := codec.NewEncoder(&scBuf)
	scEnc.Int16(1)
	writeAuthField(scEnc, salt)
	writeAuthField(scEnc, serverKey)

	initReply := &authPart{fields: [][]byte{[]byte(methodSCRAMSHA256), scBuf.Bytes()}}
	finalReq, err := h.FinalRequest(initReply)
	if err != nil {
		t.Fatalf("FinalRequest: %v", err)
	}
	proof := finalReq.fields[2]
	if proof[0] != 0x00 || proof[1] != 1 || proof[2] != 32 {
		t.Fatalf("unexpected client proof framing: %v", proof[:3])
	}
	if len(proof) != 3+32 {
		t.Fatalf("client proof field length = %d, want %d", len(proof), 3+32)
	}

	if err := h.VerifyFinalReply(&authPart{fields: [][]byte{[]byte(methodSCRAMSHA256)}}); err != nil {
		t.Fatalf("VerifyFinalReply: %v", err)
	}
	if err := h.VerifyFinalReply(&authPart{fields: [][]byte{[]byte("WRONG")}}); err == nil {
		t.Fatalf("expected error for wrong method name")
	}
}

func TestAuthPartSizeMatchesEncodedLength(t *testing.T) {
	p := &authPart{fields: [][]byte{[]byte("SYSTEM"), []byte(methodSCRAMSHA256), bytes.Repeat([]byte{9}, 64)}}
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)
	if err := p.encode(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.Len() != p.size() {
		t.Fatalf("encoded %d bytes, size() reported %d", buf.Len(), p.size())
	}
}
