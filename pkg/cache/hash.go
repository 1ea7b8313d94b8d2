package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash is the lowercase hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey namespaces a hashed part: "manifest:<sha256>".
func hashKey(namespace, part string) string {
	return namespace + ":" + Hash([]byte(part))
}
