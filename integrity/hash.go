package integrity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// PayloadHash returns the lowercase hex encoded sha256 of the payload. This
// is the hash format the platform attaches to every payload-carrying entity.
func PayloadHash(payload []byte) string {
	digest := sha256.Sum256(payload)
	return hex.EncodeToString(digest[:])
}

// VerifyPayloadHash checks a payload against its declared sha256 hex hash.
//
// No declared hash means the entity does not carry one and there is nothing
// to check. A declared hash with an empty payload is an integrity failure:
// a stripped payload must not slip through as unhashed. The comparison is
// constant time and case insensitive on the declared hash.
func VerifyPayloadHash(payload, hash string) error {
	if hash == "" {
		return nil
	}
	if payload == "" {
		return errors.Wrap(errors.ErrIntegrity, "hash present but payload empty")
	}
	want := strings.ToLower(hash)
	got := PayloadHash([]byte(payload))
	if len(got) != len(want) || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return errors.Wrapf(errors.ErrIntegrity,
			"payload hash mismatch: computed %s, declared %s", got, want)
	}
	return nil
}

// CanonicalHashes returns the byte message signers commit to when approving
// a set of entities: the JSON array of their hash strings, in the order
// given. Nil input encodes as an empty array, not null.
func CanonicalHashes(hashes []string) []byte {
	if hashes == nil {
		hashes = []string{}
	}
	raw, err := json.Marshal(hashes)
	if err != nil {
		panic("A string slice always marshals.")
	}
	return raw
}
