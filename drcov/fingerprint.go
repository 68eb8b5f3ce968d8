package drcov

import "github.com/zeebo/blake3"

// Fingerprint returns the BLAKE3-256 digest of data's encoding. Two
// aggregates share a fingerprint exactly when they encode to the same
// bytes.
func Fingerprint(data *CoverageData) ([32]byte, error) {
	b, err := data.Bytes()
	if err != nil {
		return [32]byte{}, err
	}
	return blake3.Sum256(b), nil
}
