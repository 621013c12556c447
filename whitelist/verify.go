package whitelist

import (
	"encoding/json"

	protect "github.com/taurushq-io/taurus-protect-sdk-sub004"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// VerifyAddress checks the full chain of custody of one record and returns
// the address built from its verified payload. The record's display fields
// never reach the result.
func VerifyAddress(v *protect.Verifier, rec *AddressRecord) (*Address, error) {
	if rec == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "nil record")
	}
	var addr Address
	if err := v.VerifyEnvelope(&rec.Envelope, decodeAddress(&addr)); err != nil {
		return nil, err
	}
	return &addr, nil
}

// VerifyAddresses verifies a batch of records, sharing rules container
// verification work across the batch. It fails on the first bad record.
func VerifyAddresses(v *protect.Verifier, recs []*AddressRecord) ([]*Address, error) {
	envs, err := addressEnvelopes(recs)
	if err != nil {
		return nil, err
	}
	addrs := make([]*Address, len(recs))
	err = v.VerifyEnvelopes(envs, func(i int, payload string) error {
		var addr Address
		if err := decodeAddress(&addr)(payload); err != nil {
			return err
		}
		addrs[i] = &addr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return addrs, nil
}

// VerifyContract checks the full chain of custody of one record and returns
// the contract built from its verified payload.
func VerifyContract(v *protect.Verifier, rec *ContractRecord) (*Contract, error) {
	if rec == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "nil record")
	}
	var contract Contract
	if err := v.VerifyEnvelope(&rec.Envelope, decodeContract(&contract)); err != nil {
		return nil, err
	}
	return &contract, nil
}

// VerifyContracts verifies a batch of records, sharing rules container
// verification work across the batch. It fails on the first bad record.
func VerifyContracts(v *protect.Verifier, recs []*ContractRecord) ([]*Contract, error) {
	envs, err := contractEnvelopes(recs)
	if err != nil {
		return nil, err
	}
	contracts := make([]*Contract, len(recs))
	err = v.VerifyEnvelopes(envs, func(i int, payload string) error {
		var contract Contract
		if err := decodeContract(&contract)(payload); err != nil {
			return err
		}
		contracts[i] = &contract
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func decodeAddress(dst *Address) protect.DecodeFunc {
	return func(payload string) error {
		if err := json.Unmarshal([]byte(payload), dst); err != nil {
			return errors.Wrapf(errors.ErrDecode, "address payload: %v", err)
		}
		return dst.Validate()
	}
}

func decodeContract(dst *Contract) protect.DecodeFunc {
	return func(payload string) error {
		if err := json.Unmarshal([]byte(payload), dst); err != nil {
			return errors.Wrapf(errors.ErrDecode, "contract payload: %v", err)
		}
		return dst.Validate()
	}
}

func addressEnvelopes(recs []*AddressRecord) ([]*protect.Envelope, error) {
	envs := make([]*protect.Envelope, len(recs))
	for i, rec := range recs {
		if rec == nil {
			return nil, errors.Wrapf(errors.ErrEmpty, "record %d", i)
		}
		envs[i] = &rec.Envelope
	}
	return envs, nil
}

func contractEnvelopes(recs []*ContractRecord) ([]*protect.Envelope, error) {
	envs := make([]*protect.Envelope, len(recs))
	for i, rec := range recs {
		if rec == nil {
			return nil, errors.Wrapf(errors.ErrEmpty, "record %d", i)
		}
		envs[i] = &rec.Envelope
	}
	return envs, nil
}
