package project

import (
	"crypto/sha256"
	"encoding/binary"

	"fortio.org/safecast"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит ключ: H( content || len(part1) part1 || ... ).
// Длины частей входят в хеш, чтобы ("ab","c") и ("a","bc") не совпадали.
func Combine(content Digest, parts ...string) (Digest, error) {
	h := sha256.New()
	_, _ = h.Write(content[:])
	var n [4]byte
	for _, p := range parts {
		l, err := safecast.Conv[uint32](len(p))
		if err != nil {
			return Digest{}, err
		}
		binary.BigEndian.PutUint32(n[:], l)
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out, nil
}
