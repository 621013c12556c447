package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/asn1"
	"math/big"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

var _ PubKey = (*PublicKeyP256)(nil)

// PublicKeyP256 is a public key on the NIST P-256 curve. Signatures are
// ECDSA over the SHA-256 digest of the message.
type PublicKeyP256 struct {
	Key *ecdsa.PublicKey
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKeyP256) Verify(message []byte, sig []byte) bool {
	if p.Key == nil || p.Key.Curve != elliptic.P256() {
		return false
	}
	r, s, err := parseECDSASignature(sig)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(message)
	return ecdsa.Verify(p.Key, digest[:], r, s)
}

// Fingerprint identifies this key in logs and signer sets.
func (p *PublicKeyP256) Fingerprint() Fingerprint {
	if p.Key == nil || p.Key.X == nil || p.Key.Y == nil {
		return nil
	}
	return keyFingerprint("secp256r1", uncompressedPoint(p.Key))
}

// uncompressedPoint serializes the key in the uncompressed SEC 1 form, a 0x04
// octet followed by the 32 byte X and Y coordinates.
func uncompressedPoint(key *ecdsa.PublicKey) []byte {
	out := make([]byte, 65)
	out[0] = 4
	key.X.FillBytes(out[1:33])
	key.Y.FillBytes(out[33:65])
	return out
}

// parseECDSASignature accepts both encodings seen on the wire: the ASN.1 DER
// sequence and the raw fixed width 64 byte r||s concatenation.
func parseECDSASignature(sig []byte) (*big.Int, *big.Int, error) {
	if len(sig) == 64 {
		r := new(big.Int).SetBytes(sig[:32])
		s := new(big.Int).SetBytes(sig[32:])
		if r.Sign() <= 0 || s.Sign() <= 0 {
			return nil, nil, errors.Wrap(errors.ErrInput, "signature scalar out of range")
		}
		return r, s, nil
	}
	var der struct {
		R *big.Int
		S *big.Int
	}
	rest, err := asn1.Unmarshal(sig, &der)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrInput, "not a DER sequence")
	}
	if len(rest) != 0 {
		return nil, nil, errors.Wrap(errors.ErrInput, "trailing bytes after DER sequence")
	}
	if der.R == nil || der.S == nil || der.R.Sign() <= 0 || der.S.Sign() <= 0 {
		return nil, nil, errors.Wrap(errors.ErrInput, "signature scalar out of range")
	}
	return der.R, der.S, nil
}

var _ Signer = (*PrivateKeyP256)(nil)

// PrivateKeyP256 holds an ECDSA private key on the P-256 curve.
type PrivateKeyP256 struct {
	Key *ecdsa.PrivateKey
}

// Sign returns a DER encoded ECDSA signature of the SHA-256 message digest.
func (p *PrivateKeyP256) Sign(message []byte) ([]byte, error) {
	if p.Key == nil {
		return nil, errors.Wrap(errors.ErrKey, "missing private key")
	}
	digest := sha256.Sum256(message)
	sig, err := ecdsa.SignASN1(rand.Reader, p.Key, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "ecdsa sign")
	}
	return sig, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKeyP256) PublicKey() PubKey {
	return &PublicKeyP256{Key: &p.Key.PublicKey}
}

// GenPrivKeyP256 returns a random new private key
func GenPrivKeyP256() *PrivateKeyP256 {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic(err)
	}
	return &PrivateKeyP256{Key: key}
}
