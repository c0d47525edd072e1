package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// keyOf builds "<kind>:<digest>" where the digest covers the JSON encoding
// of parts.
func keyOf(kind string, parts ...any) string {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(parts); err != nil {
		// parts are plain strings and structs of scalars
		panic("cache: unencodable key part: " + err.Error())
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
