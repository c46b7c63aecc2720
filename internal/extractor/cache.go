package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/mldsl-tools/mldsl/internal/model"
)

// snapshot is the cbor-encoded cache payload: the extracted records keyed
// by the content hash of the dump bytes they came from.
type snapshot struct {
	DumpHash string               `cbor:"dumpHash"`
	Records  []model.ActionRecord `cbor:"records"`
}

// CachePath derives the sibling ".mcache" path for a dump file.
func CachePath(dumpPath string) string {
	return dumpPath + ".mcache"
}

// LoadCached returns previously extracted records if a cache file exists
// next to dumpPath and its stored hash matches raw's content hash. A
// cache miss (absent file, hash mismatch, decode error) is not an error:
// the caller falls back to re-extracting from raw.
func LoadCached(dumpPath string, raw []byte) ([]model.ActionRecord, bool) {
	data, err := os.ReadFile(CachePath(dumpPath))
	if err != nil {
		return nil, false
	}
	var snap snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	if snap.DumpHash != contentHash(raw) {
		return nil, false
	}
	return snap.Records, true
}

// StoreCache persists the extracted records for raw's content hash. A
// write failure is non-fatal: the cache is a pure optimization.
func StoreCache(dumpPath string, raw []byte, records []model.ActionRecord) error {
	snap := snapshot{DumpHash: contentHash(raw), Records: records}
	data, err := cbor.Marshal(snap)
	if err != nil {
		return err
	}
	tmp := CachePath(dumpPath) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, CachePath(dumpPath))
}

func contentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
