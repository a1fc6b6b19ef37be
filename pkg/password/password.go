// Package password generates the one-time plaintext passwords handed to
// admin-created users. This system stores passwords in cleartext on purpose
// (mock data, no hardening), so there is no hashing here.
package password

import "crypto/rand"

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength matches the 8-character passwords issued at user creation.
const DefaultLength = 8

// Generate returns a random alphanumeric password of n characters.
func Generate(n int) string {
	if n <= 0 {
		n = DefaultLength
	}
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return string(b)
}
