// Package crypto provides the public key and signer abstractions used by the
// verification engine, together with the Ed25519 and NIST P-256 ECDSA
// implementations that governance rules carry in practice.
package crypto

// PubKey represents a crypto public key we use.
type PubKey interface {
	// Verify reports whether sig is a valid signature of message created
	// by the holder of this key. Malformed signatures are reported as
	// invalid, never as an error.
	Verify(message []byte, sig []byte) bool

	// Fingerprint returns a short stable identifier of this key. Two keys
	// are the same if and only if their fingerprints are equal.
	Fingerprint() Fingerprint
}

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKey() PubKey
}
