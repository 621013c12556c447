package whitelist

import (
	protect "github.com/taurushq-io/taurus-protect-sdk-sub004"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// Address is a whitelisted withdrawal address. Instances returned by this
// package are built from a verified canonical payload only.
type Address struct {
	ID         string `json:"id"`
	Blockchain string `json:"blockchain,omitempty"`
	Currency   string `json:"currency"`
	Address    string `json:"address"`
	Label      string `json:"label,omitempty"`
	Memo       string `json:"memo,omitempty"`
}

// Validate returns an error if this is not a usable address entry.
func (a *Address) Validate() error {
	if a == nil {
		return errors.Wrap(errors.ErrEmpty, "nil address")
	}
	var errs error
	if a.ID == "" {
		errs = errors.Append(errs, errors.Field("ID", errors.ErrEmpty, "missing id"))
	}
	if a.Currency == "" {
		errs = errors.Append(errs, errors.Field("Currency", errors.ErrEmpty, "missing currency"))
	}
	if a.Address == "" {
		errs = errors.Append(errs, errors.Field("Address", errors.ErrEmpty, "missing address"))
	}
	return errs
}

// Contract is a whitelisted smart contract. Instances returned by this
// package are built from a verified canonical payload only.
type Contract struct {
	ID         string `json:"id"`
	Blockchain string `json:"blockchain,omitempty"`
	Address    string `json:"address"`
	Name       string `json:"name,omitempty"`
}

// Validate returns an error if this is not a usable contract entry.
func (c *Contract) Validate() error {
	if c == nil {
		return errors.Wrap(errors.ErrEmpty, "nil contract")
	}
	var errs error
	if c.ID == "" {
		errs = errors.Append(errs, errors.Field("ID", errors.ErrEmpty, "missing id"))
	}
	if c.Address == "" {
		errs = errors.Append(errs, errors.Field("Address", errors.ErrEmpty, "missing address"))
	}
	return errs
}

// AddressRecord is one whitelisted address entry as served by the platform.
// The display fields repeat payload content for listing convenience and are
// never trusted; only the envelope is.
type AddressRecord struct {
	Envelope protect.Envelope

	// Unverified display copies.
	Address  string
	Currency string
}

// ContractRecord is one whitelisted contract entry as served by the
// platform. The display field is never trusted; only the envelope is.
type ContractRecord struct {
	Envelope protect.Envelope

	// Unverified display copy.
	Address string
}
