package crypto

import (
	"golang.org/x/crypto/ed25519"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

var _ PubKey = (*PublicKeyEd25519)(nil)

// PublicKeyEd25519 is a public key for the Ed25519 signature scheme. The
// signature is expected in the standard 64 byte form.
type PublicKeyEd25519 struct {
	Key ed25519.PublicKey
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKeyEd25519) Verify(message []byte, sig []byte) bool {
	if len(p.Key) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(p.Key, message, sig)
}

// Fingerprint identifies this key in logs and signer sets.
func (p *PublicKeyEd25519) Fingerprint() Fingerprint {
	return keyFingerprint("ed25519", p.Key)
}

var _ Signer = (*PrivateKeyEd25519)(nil)

// PrivateKeyEd25519 holds an Ed25519 private key.
type PrivateKeyEd25519 struct {
	Key ed25519.PrivateKey
}

// Sign returns a matching signature for this private key
func (p *PrivateKeyEd25519) Sign(message []byte) ([]byte, error) {
	if len(p.Key) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrKey, "ed25519 private key length %d", len(p.Key))
	}
	return ed25519.Sign(p.Key, message), nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKeyEd25519) PublicKey() PubKey {
	pub := p.Key.Public().(ed25519.PublicKey)
	return &PublicKeyEd25519{Key: pub}
}

// GenPrivKeyEd25519 returns a random new private key
// (TODO: look at sources of randomness, other than default crypto/rand)
func GenPrivKeyEd25519() *PrivateKeyEd25519 {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKeyEd25519{Key: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKeyEd25519 {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKeyEd25519{Key: priv}
}
