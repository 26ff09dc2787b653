package driver

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"texfix/internal/pipeline"
)

// Digest is a SHA-256 value.
type Digest [32]byte

// combineDigest: H(content || dep1 || dep2 ...). deps уже в детерминированном порядке.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint hashes everything besides the document that decides the
// formatting result: the stage list and the pipeline configuration.
func Fingerprint(cfg pipeline.Config) (Digest, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	err := enc.Encode(struct {
		Schema uint16
		Stages []string
		Config pipeline.Config
	}{diskCacheSchemaVersion, pipeline.StageNames(), cfg})
	if err != nil {
		return Digest{}, fmt.Errorf("fingerprint: %w", err)
	}
	return sha256.Sum256(buf.Bytes()), nil
}

// CacheKey identifies the formatting result of content under fingerprint.
func CacheKey(content [32]byte, fingerprint Digest) Digest {
	return combineDigest(Digest(content), fingerprint)
}
