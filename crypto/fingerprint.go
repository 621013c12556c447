package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/crypto/bech32"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// FingerprintLength is the size in bytes of a key fingerprint.
const FingerprintLength = 20

// fingerprintHRP is the human readable part of the bech32 display form.
const fingerprintHRP = "tpk"

// Fingerprint is a short stable identifier of a public key. It is built as
// the truncated sha256 digest over the algorithm name and the raw key
// material, so the same key always maps to the same fingerprint no matter
// which carrier encoding delivered it.
type Fingerprint []byte

// keyFingerprint builds the fingerprint for a raw public key. The algorithm
// name is mixed in so that equal byte strings of different schemes cannot
// collide.
func keyFingerprint(algo string, key []byte) Fingerprint {
	if len(key) == 0 {
		return nil
	}
	data := append([]byte("pubkey/"+algo+"/"), key...)
	h := sha256.Sum256(data)
	return Fingerprint(h[:FingerprintLength])
}

// Equals checks if two fingerprints identify the same key.
func (f Fingerprint) Equals(other Fingerprint) bool {
	return bytes.Equal(f, other)
}

// Validate returns an error if the fingerprint is not the proper size.
func (f Fingerprint) Validate() error {
	if len(f) != FingerprintLength {
		return errors.Wrapf(errors.ErrInput, "invalid fingerprint length %d", len(f))
	}
	return nil
}

// String returns the bech32 representation. This is the form to use in logs
// and error messages.
func (f Fingerprint) String() string {
	if len(f) == 0 {
		return "(empty)"
	}
	enc, err := bech32.Encode(fingerprintHRP, f)
	if err != nil {
		return "(invalid)"
	}
	return string(enc)
}

// MarshalJSON provides a hex representation for JSON, to override the
// standard base64 encoding of []byte.
func (f Fingerprint) MarshalJSON() ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(f))
	return json.Marshal(s)
}

func (f *Fingerprint) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}

	// If the encoded string starts with a prefix, cut it off and use
	// specified decoding method instead of default one.
	chunks := strings.SplitN(enc, ":", 2)
	format := chunks[0]
	if len(chunks) == 1 {
		format = "hex"
	} else {
		enc = chunks[1]
	}

	// No value zero the fingerprint.
	if len(enc) == 0 {
		*f = nil
		return nil
	}

	switch format {
	case "hex":
		val, err := hex.DecodeString(enc)
		if err != nil {
			return errors.Wrap(err, "cannot decode hex")
		}
		fp := Fingerprint(val)
		if err := fp.Validate(); err != nil {
			return err
		}
		*f = fp
		return nil
	case "bech32":
		_, payload, err := bech32.Decode(enc)
		if err != nil {
			return errors.Wrap(err, "deserialize bech32")
		}
		fp := Fingerprint(payload)
		if err := fp.Validate(); err != nil {
			return err
		}
		*f = fp
		return nil
	default:
		return errors.ErrInput.Newf("unknown format %q", chunks[0])
	}
}
