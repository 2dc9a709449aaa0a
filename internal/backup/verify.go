package backup

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/spf13/afero"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/sample"
	"github.com/canonical/securewipe/internal/wipeerr"
)

// verifySamples decrypts a seeded-random subset of manifest entries from
// destFS and compares the recovered plaintext hash against the recorded
// one, per spec §4.E step 5. It returns the number of samples drawn, the
// number that mismatched, and the DRBG seed used (recorded into
// certificate evidence for audit replay).
func verifySamples(entries []certmodel.ManifestEntry, destFS afero.Fs, keys *sessionKeys, count int) (samples, failures int, seed string, err error) {
	if len(entries) == 0 {
		return 0, 0, "", nil
	}

	drawer, err := sample.NewDrawer()
	if err != nil {
		return 0, 0, "", err
	}
	idxs, err := drawer.Draw(len(entries), count)
	if err != nil {
		return 0, 0, "", err
	}

	for _, idx := range idxs {
		entry := entries[idx]
		ok, verr := verifyOneEntry(entry, destFS, keys)
		if verr != nil {
			return len(idxs), failures + 1, drawer.Seed(), wipeerr.Wrap(wipeerr.IoFailure, "verify "+entry.RelativePath, verr)
		}
		if !ok {
			failures++
		}
	}
	return len(idxs), failures, drawer.Seed(), nil
}

func verifyOneEntry(entry certmodel.ManifestEntry, destFS afero.Fs, keys *sessionKeys) (bool, error) {
	f, err := destFS.Open(entry.EncryptedPath)
	if err != nil {
		return false, err
	}
	defer f.Close()

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(f, iv); err != nil {
		return false, err
	}
	block, err := aes.NewCipher(keys.aesKey)
	if err != nil {
		return false, err
	}
	stream := cipher.NewCTR(block, iv)
	reader := &cipher.StreamReader{S: stream, R: f}

	hasher := sha256.New()
	if _, err := io.Copy(hasher, reader); err != nil {
		return false, err
	}
	return hex.EncodeToString(hasher.Sum(nil)) == entry.SHA256, nil
}
