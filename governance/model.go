package governance

import (
	"time"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/integrity"
)

// Rules is one version of the governance rules document as served by the
// platform: the base64 encoded container bytes plus the signatures over
// them. The metadata fields are unverified platform bookkeeping.
type Rules struct {
	ID             string
	RulesContainer string
	Signatures     []integrity.Signature

	// Unverified metadata.
	Locked       bool
	CreationDate time.Time
}

// Validate returns an error if this is not a verifiable rules document.
func (r *Rules) Validate() error {
	if r == nil {
		return errors.Wrap(errors.ErrEmpty, "nil rules")
	}
	if r.RulesContainer == "" {
		return errors.Field("RulesContainer", errors.ErrEmpty, "missing container")
	}
	return nil
}
