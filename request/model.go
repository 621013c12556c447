package request

import (
	protect "github.com/taurushq-io/taurus-protect-sdk-sub004"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// Request is a transaction request awaiting a decision. Instances returned
// by this package are built from a verified canonical payload only.
type Request struct {
	ID             string `json:"id"`
	Currency       string `json:"currency"`
	Amount         string `json:"amount"`
	FromWalletPath string `json:"from_wallet_path,omitempty"`
	ToAddress      string `json:"to_address,omitempty"`

	// Hash is the platform hash this request was verified under. Approval
	// signatures cover it. It is set during verification and is not part
	// of the payload.
	Hash string `json:"-"`
}

// Validate returns an error if this is not a usable request.
func (r *Request) Validate() error {
	if r == nil {
		return errors.Wrap(errors.ErrEmpty, "nil request")
	}
	var errs error
	if r.ID == "" {
		errs = errors.Append(errs, errors.Field("ID", errors.ErrEmpty, "missing id"))
	}
	if r.Currency == "" {
		errs = errors.Append(errs, errors.Field("Currency", errors.ErrEmpty, "missing currency"))
	}
	if r.Amount == "" {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrEmpty, "missing amount"))
	}
	return errs
}

// RequestRecord is one transaction request as served by the platform. Only
// the envelope is trusted.
type RequestRecord struct {
	Envelope protect.Envelope

	// Unverified display copy.
	ID string
}
