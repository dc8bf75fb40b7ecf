package edit_engine

import (
	"bytes"
	"crypto/sha256"
	"math/rand"
	"testing"

	"github.com/zeebo/xxh3"
)

// BenchmarkContentDigest compares ways of deciding whether a snapshot copy
// still matches the workspace file.
func BenchmarkContentDigest(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	sizes := map[string]int{"1KiB": 1 << 10, "64KiB": 64 << 10, "1MiB": 1 << 20}

	for name, size := range sizes {
		saved := make([]byte, size)
		rng.Read(saved)
		current := append([]byte(nil), saved...)
		current[len(current)-1] ^= 0xFF

		b.Run("XXH3_"+name, func(b *testing.B) {
			b.SetBytes(int64(size))
			for i := 0; i < b.N; i++ {
				_ = xxh3.Hash(saved) == xxh3.Hash(current)
			}
		})

		b.Run("SHA256_"+name, func(b *testing.B) {
			b.SetBytes(int64(size))
			for i := 0; i < b.N; i++ {
				_ = sha256.Sum256(saved) == sha256.Sum256(current)
			}
		})

		b.Run("BytesEqual_"+name, func(b *testing.B) {
			b.SetBytes(int64(size))
			for i := 0; i < b.N; i++ {
				_ = bytes.Equal(saved, current)
			}
		})
	}
}
