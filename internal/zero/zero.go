// Package zero provides deterministic zeroization helpers for sensitive
// byte slices (signing keys, ephemeral backup keys), matching the
// "held in memory for the lifetime of the call, zeroized on drop"
// requirement of spec §5.
package zero

// Bytes overwrites b with zeroes in place. It is a no-op for a nil slice.
// Callers defer zero.Bytes(secret) immediately after acquiring secret.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
