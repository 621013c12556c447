package protect

import (
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/integrity"
)

// Signature is one entity level user signature. Approvals are commonly given
// for several entities at once; CoveredHashes lists every entity hash the
// signature commits to. An empty list means the signature covers exactly the
// entity it is attached to.
type Signature struct {
	SignerID      string
	Signature     []byte
	CoveredHashes []string
}

// Envelope bundles one platform entity with everything needed to verify it.
type Envelope struct {
	// Payload is the raw transport form of the entity. It is carried for
	// diagnostics and never used for verification.
	Payload []byte

	// PayloadString is the canonical payload text. It is the only data a
	// domain object may be built from.
	PayloadString string

	// Hash is the hex sha256 of PayloadString as declared by the
	// platform.
	Hash string

	// Signatures are the entity level user signatures.
	Signatures []Signature

	// RulesContainer holds the binary rules container in effect for this
	// entity.
	RulesContainer []byte

	// RulesSignatures are the governance signatures over RulesContainer.
	RulesSignatures []integrity.Signature
}

// Validate checks the envelope shape. Integrity of the content is the
// Verifier's job.
func (e *Envelope) Validate() error {
	if e == nil {
		return errors.Wrap(errors.ErrEmpty, "nil envelope")
	}
	if len(e.Payload) != 0 && e.PayloadString != "" && string(e.Payload) != e.PayloadString {
		return errors.Field("Payload", errors.ErrInput, "payload and payload string disagree")
	}
	return nil
}
