package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/pem"

	"golang.org/x/crypto/ed25519"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// pemPublicKeyType is the PEM block type of a DER SubjectPublicKeyInfo.
const pemPublicKeyType = "PUBLIC KEY"

// ParsePublicKey decodes a PEM encoded public key in the form distributed
// inside a rules container. The block must hold a DER SubjectPublicKeyInfo
// with either an Ed25519 or a NIST P-256 key. Any other content fails with
// an ErrKey.
func ParsePublicKey(raw []byte) (PubKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.Wrap(errors.ErrKey, "no PEM block")
	}
	if block.Type != pemPublicKeyType {
		return nil, errors.ErrKey.Newf("unsupported PEM block type %q", block.Type)
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrKey, "parse SubjectPublicKeyInfo: %v", err)
	}
	switch key := key.(type) {
	case ed25519.PublicKey:
		return &PublicKeyEd25519{Key: key}, nil
	case *ecdsa.PublicKey:
		if key.Curve != elliptic.P256() {
			return nil, errors.ErrKey.Newf("unsupported curve %q", key.Curve.Params().Name)
		}
		return &PublicKeyP256{Key: key}, nil
	default:
		return nil, errors.WithType(errors.Wrap(errors.ErrKey, "unsupported key algorithm"), key)
	}
}

// MarshalPublicKey encodes a public key into the PEM form understood by
// ParsePublicKey.
func MarshalPublicKey(pub PubKey) ([]byte, error) {
	var key interface{}
	switch pub := pub.(type) {
	case *PublicKeyEd25519:
		key = pub.Key
	case *PublicKeyP256:
		key = pub.Key
	default:
		return nil, errors.WithType(errors.Wrap(errors.ErrKey, "cannot serialize"), pub)
	}
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrKey, "marshal SubjectPublicKeyInfo: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemPublicKeyType, Bytes: der}), nil
}
