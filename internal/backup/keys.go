// Package backup implements the Backup Engine (spec §4.E): source path
// resolution, ephemeral encryption key handling, streaming AES-256-CTR
// copy, manifest sealing, and sampled post-copy verification.
package backup

import (
	"crypto/rand"
	"crypto/sha256"

	kbkdf "github.com/canonical/go-kbkdf"

	"github.com/canonical/securewipe/internal/wipeerr"
	"github.com/canonical/securewipe/internal/zero"
)

const (
	masterKeySize = 32
	subKeySize    = 32
)

// sessionKeys holds the derived AES and HMAC subkeys for one backup
// invocation. Neither the master key nor the derived subkeys are ever
// persisted; both are zeroized on Close (spec §4.E "ephemeral key,
// never written to disk").
type sessionKeys struct {
	master []byte
	aesKey []byte
	hmacKey []byte
}

// newSessionKeys generates a fresh 256-bit master key and derives
// independent AES and HMAC subkeys from it via SP 800-108 KBKDF in
// counter mode, so a single random source yields two keys with formally
// separated roles rather than reusing one key for both confidentiality
// and integrity.
func newSessionKeys() (*sessionKeys, error) {
	master := make([]byte, masterKeySize)
	if _, err := rand.Read(master); err != nil {
		return nil, wipeerr.Wrap(wipeerr.Internal, "generate backup session key", err)
	}

	aesKey, err := kbkdf.Key(sha256.New, master, []byte("securewipe-backup-aes"), nil, subKeySize)
	if err != nil {
		zero.Bytes(master)
		return nil, wipeerr.Wrap(wipeerr.Internal, "derive backup AES subkey", err)
	}
	hmacKey, err := kbkdf.Key(sha256.New, master, []byte("securewipe-backup-hmac"), nil, subKeySize)
	if err != nil {
		zero.Bytes(master)
		zero.Bytes(aesKey)
		return nil, wipeerr.Wrap(wipeerr.Internal, "derive backup HMAC subkey", err)
	}

	return &sessionKeys{master: master, aesKey: aesKey, hmacKey: hmacKey}, nil
}

// Close zeroizes every key held by the session.
func (k *sessionKeys) Close() {
	zero.Bytes(k.master)
	zero.Bytes(k.aesKey)
	zero.Bytes(k.hmacKey)
}
