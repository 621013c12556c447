package integrity

import (
	"fmt"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/crypto"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// Signature is one detached signature over a verified document.
type Signature struct {
	// SignerID identifies the signer within the platform. An empty id is
	// allowed: such a signature still counts when valid, but can never be
	// deduplicated.
	SignerID string
	// Signature holds the raw signature bytes.
	Signature []byte
}

// Config is the verification policy for one class of documents.
type Config struct {
	// TrustedKeys are the keys signatures are checked against. There is
	// no signer-to-key binding on the wire, every key is tried until one
	// verifies.
	TrustedKeys []crypto.PubKey

	// MinValidSignatures is the number of valid signatures by distinct
	// signers required. Zero disables signature verification and must be
	// an explicit, deliberate choice; it is never a default.
	MinValidSignatures int
}

func (c Config) Validate() error {
	var errs error
	if c.MinValidSignatures < 0 {
		errs = errors.Append(errs,
			errors.Field("MinValidSignatures", errors.ErrInput, "must not be negative"))
	}
	for i, key := range c.TrustedKeys {
		if key == nil {
			errs = errors.Append(errs,
				errors.Field(fmt.Sprintf("TrustedKeys.%d", i), errors.ErrEmpty, "nil key"))
		}
	}
	return errs
}

// VerifySignatures checks that at least min distinct signers produced a
// valid signature over data.
//
// A threshold of zero or less accepts immediately: disabling verification is
// an explicit caller decision. A positive threshold with no trusted keys can
// never be satisfied and fails up front.
//
// Every trusted key is tried per signature; the first key that verifies
// counts the signature and marks its signer as seen. Further signatures by a
// seen signer are skipped, so M-of-N means M distinct signers. Signatures
// with empty bytes are skipped. The walk stops as soon as the threshold is
// reached.
func VerifySignatures(data []byte, sigs []Signature, keys []crypto.PubKey, min int) error {
	if min <= 0 {
		return nil
	}
	if len(keys) == 0 {
		return errors.Wrap(errors.ErrIntegrity, "no trusted keys")
	}

	valid := 0
	seen := make(map[string]struct{}, len(sigs))
	for _, sig := range sigs {
		if len(sig.Signature) == 0 {
			continue
		}
		if sig.SignerID != "" {
			if _, done := seen[sig.SignerID]; done {
				continue
			}
		}
		for _, key := range keys {
			if key == nil || !key.Verify(data, sig.Signature) {
				continue
			}
			valid++
			if sig.SignerID != "" {
				seen[sig.SignerID] = struct{}{}
			}
			break
		}
		if valid >= min {
			return nil
		}
	}
	return errors.Wrapf(errors.ErrIntegrity, "%d valid signatures, %d required", valid, min)
}
