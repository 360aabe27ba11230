package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := Fingerprint(DefaultKeyPrefix, "John Doe React", "React developer")
		k2 := Fingerprint(DefaultKeyPrefix, "John Doe React", "React developer")
		assert.Equal(t, k1, k2)
	})

	t.Run("has prefix and fixed length", func(t *testing.T) {
		k := Fingerprint(DefaultKeyPrefix, "a", "b")
		assert.True(t, strings.HasPrefix(k, "resume:"))
		assert.Len(t, k, len("resume:")+64)
	})

	t.Run("known digest", func(t *testing.T) {
		// sha256("abc")
		assert.Equal(t,
			"resume:ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
			Fingerprint(DefaultKeyPrefix, "ab", "c"),
		)
	})

	t.Run("custom prefix", func(t *testing.T) {
		k := Fingerprint("screening:v2:", "a", "b")
		assert.True(t, strings.HasPrefix(k, "screening:v2:"))
	})

	t.Run("job description is compared byte for byte", func(t *testing.T) {
		k1 := Fingerprint(DefaultKeyPrefix, "resume", "React developer")
		k2 := Fingerprint(DefaultKeyPrefix, "resume", "React developer ")
		assert.NotEqual(t, k1, k2)
	})
}

func TestFingerprintDistinct(t *testing.T) {
	seen := make(map[string]string)
	for i := 0; i < 2000; i++ {
		resume := fmt.Sprintf("candidate %d with %d years", i, i%37)
		jd := fmt.Sprintf("role %d", i%113)

		key := Fingerprint(DefaultKeyPrefix, resume, jd)
		pair := resume + "|" + jd
		if prev, ok := seen[key]; ok {
			t.Fatalf("collision between %q and %q", prev, pair)
		}
		seen[key] = pair

		assert.Equal(t, key, Fingerprint(DefaultKeyPrefix, resume, jd))
	}
}
