package services

import (
	"crypto/sha256"
	"encoding/hex"
)

const DefaultKeyPrefix = "resume:"

// Fingerprint builds the cache key for a normalized résumé and job
// description: prefix + hex(sha256(resume + jobDescription)).
func Fingerprint(prefix, resume, jobDescription string) string {
	h := sha256.New()
	h.Write([]byte(resume))
	h.Write([]byte(jobDescription))
	return prefix + hex.EncodeToString(h.Sum(nil))
}
