package ledger

import (
	"encoding/hex"
	"encoding/json"
)

// Hash is a bytea column (tx hash, pool hash, script hash, ...). It renders
// as lowercase hex in logs and JSON.
type Hash []byte

// HashFromHex decodes a hex string, tolerating the "\x" bytea prefix.
func HashFromHex(s string) (Hash, error) {
	if len(s) >= 2 && s[0] == '\\' && s[1] == 'x' {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return Hash(b), nil
}

func (h Hash) String() string {
	return hex.EncodeToString(h)
}

// ScanBytes implements pgtype.BytesScanner. pgx reuses its read buffer, so
// the bytes are copied.
func (h *Hash) ScanBytes(v []byte) error {
	if v == nil {
		*h = nil
		return nil
	}
	*h = append(Hash(nil), v...)
	return nil
}

func (h Hash) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("null"), nil
	}
	return json.Marshal(h.String())
}
