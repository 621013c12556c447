package whitelist

import (
	"context"

	protect "github.com/taurushq-io/taurus-protect-sdk-sub004"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// Source serves raw whitelist records from the platform. Implementations
// live outside this module; a source is trusted for availability only,
// never for content.
type Source interface {
	Address(ctx context.Context, id string) (*AddressRecord, error)
	Addresses(ctx context.Context, cursor string, limit int) ([]*AddressRecord, string, error)
	Contract(ctx context.Context, id string) (*ContractRecord, error)
	Contracts(ctx context.Context, cursor string, limit int) ([]*ContractRecord, string, error)
}

// Service fetches whitelist entries and releases them only after
// verification.
type Service struct {
	source   Source
	verifier *protect.Verifier
}

// NewService returns a whitelist service reading from the source.
func NewService(source Source, verifier *protect.Verifier) (*Service, error) {
	if source == nil {
		return nil, errors.Wrap(errors.ErrInput, "nil source")
	}
	if verifier == nil {
		return nil, errors.Wrap(errors.ErrInput, "nil verifier")
	}
	return &Service{source: source, verifier: verifier}, nil
}

// Address fetches and verifies a single whitelisted address.
func (s *Service) Address(ctx context.Context, id string) (*Address, error) {
	if id == "" {
		return nil, errors.Wrap(errors.ErrInput, "empty id")
	}
	rec, err := s.source.Address(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "fetch address")
	}
	return VerifyAddress(s.verifier, rec)
}

// Addresses fetches and verifies one page of whitelisted addresses. The
// returned cursor continues the listing; it is empty on the last page.
func (s *Service) Addresses(ctx context.Context, cursor string, limit int) ([]*Address, string, error) {
	recs, next, err := s.source.Addresses(ctx, cursor, limit)
	if err != nil {
		return nil, "", errors.Wrap(err, "fetch addresses")
	}
	addrs, err := VerifyAddresses(s.verifier, recs)
	if err != nil {
		return nil, "", err
	}
	return addrs, next, nil
}

// Contract fetches and verifies a single whitelisted contract.
func (s *Service) Contract(ctx context.Context, id string) (*Contract, error) {
	if id == "" {
		return nil, errors.Wrap(errors.ErrInput, "empty id")
	}
	rec, err := s.source.Contract(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "fetch contract")
	}
	return VerifyContract(s.verifier, rec)
}

// Contracts fetches and verifies one page of whitelisted contracts. The
// returned cursor continues the listing; it is empty on the last page.
func (s *Service) Contracts(ctx context.Context, cursor string, limit int) ([]*Contract, string, error) {
	recs, next, err := s.source.Contracts(ctx, cursor, limit)
	if err != nil {
		return nil, "", errors.Wrap(err, "fetch contracts")
	}
	contracts, err := VerifyContracts(s.verifier, recs)
	if err != nil {
		return nil, "", err
	}
	return contracts, next, nil
}
