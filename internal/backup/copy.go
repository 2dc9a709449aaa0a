package backup

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/canonical/securewipe/internal/certmodel"
	"github.com/canonical/securewipe/internal/logsink"
	"github.com/canonical/securewipe/internal/wipeerr"
)

// copyResult is one completed file copy: the plaintext's relative path and
// hash, and where its ciphertext landed.
type copyResult struct {
	entry         certmodel.ManifestEntry
	plainSHA256   [32]byte
	encryptedPath string
}

// copyTree walks every include path on srcFS, encrypting each regular
// file under destFS with AES-256-CTR under a fresh random IV. It returns
// one copyResult per file and whether every include path was read in
// full (spec §4.E "fully_copied").
func copyTree(ctx context.Context, srcFS, destFS afero.Fs, includePaths []string, keys *sessionKeys, sink *logsink.Sink) ([]copyResult, bool, error) {
	var results []copyResult
	fullyCopied := true

	for _, root := range includePaths {
		root = filepath.Clean(root)
		err := afero.Walk(srcFS, root, func(path string, info os.FileInfo, walkErr error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if walkErr != nil {
				sink.Event("backup.walk_error", map[string]any{"path": path, "error": walkErr.Error()})
				fullyCopied = false
				return nil
			}
			if info.IsDir() {
				return nil
			}
			rel := strings.TrimPrefix(path, string(filepath.Separator))
			res, cerr := copyOneFile(srcFS, destFS, path, rel, keys)
			if cerr != nil {
				sink.Event("backup.copy_error", map[string]any{"path": path, "error": cerr.Error()})
				fullyCopied = false
				return nil
			}
			results = append(results, res)
			return nil
		})
		if err != nil {
			return results, false, wipeerr.Wrap(wipeerr.IoFailure, "walk "+root, err)
		}
	}
	return results, fullyCopied, nil
}

// copyOneFile encrypts a single file, streaming plaintext through a SHA-256
// hash and an AES-256-CTR cipher.StreamWriter simultaneously so the whole
// file is never buffered in memory.
func copyOneFile(srcFS, destFS afero.Fs, path, rel string, keys *sessionKeys) (copyResult, error) {
	src, err := srcFS.Open(path)
	if err != nil {
		return copyResult{}, err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return copyResult{}, err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return copyResult{}, err
	}
	block, err := aes.NewCipher(keys.aesKey)
	if err != nil {
		return copyResult{}, err
	}
	stream := cipher.NewCTR(block, iv)

	encPath := rel + ".enc"
	if err := destFS.MkdirAll(filepath.Dir(encPath), 0o700); err != nil {
		return copyResult{}, err
	}
	dst, err := destFS.Create(encPath)
	if err != nil {
		return copyResult{}, err
	}
	defer dst.Close()

	if _, err := dst.Write(iv); err != nil {
		return copyResult{}, err
	}

	hasher := sha256.New()
	writer := &cipher.StreamWriter{S: stream, W: dst}
	if _, err := io.Copy(io.MultiWriter(writer, hasher), src); err != nil {
		return copyResult{}, err
	}

	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))

	return copyResult{
		entry: certmodel.ManifestEntry{
			RelativePath:  rel,
			SizeBytes:     info.Size(),
			SHA256:        hex.EncodeToString(sum[:]),
			EncryptedPath: encPath,
		},
		plainSHA256:   sum,
		encryptedPath: encPath,
	}, nil
}
