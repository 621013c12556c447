package request

import (
	"context"

	protect "github.com/taurushq-io/taurus-protect-sdk-sub004"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// Source serves raw request records from the platform. Implementations live
// outside this module; a source is trusted for availability only, never for
// content.
type Source interface {
	Request(ctx context.Context, id string) (*RequestRecord, error)
	Requests(ctx context.Context, cursor string, limit int) ([]*RequestRecord, string, error)
}

// Service fetches transaction requests and releases them only after
// verification.
type Service struct {
	source   Source
	verifier *protect.Verifier
}

// NewService returns a request service reading from the source.
func NewService(source Source, verifier *protect.Verifier) (*Service, error) {
	if source == nil {
		return nil, errors.Wrap(errors.ErrInput, "nil source")
	}
	if verifier == nil {
		return nil, errors.Wrap(errors.ErrInput, "nil verifier")
	}
	return &Service{source: source, verifier: verifier}, nil
}

// Request fetches and verifies a single transaction request.
func (s *Service) Request(ctx context.Context, id string) (*Request, error) {
	if id == "" {
		return nil, errors.Wrap(errors.ErrInput, "empty id")
	}
	rec, err := s.source.Request(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "fetch request")
	}
	return VerifyRequest(s.verifier, rec)
}

// Requests fetches and verifies one page of transaction requests. The
// returned cursor continues the listing; it is empty on the last page.
func (s *Service) Requests(ctx context.Context, cursor string, limit int) ([]*Request, string, error) {
	recs, next, err := s.source.Requests(ctx, cursor, limit)
	if err != nil {
		return nil, "", errors.Wrap(err, "fetch requests")
	}
	reqs, err := VerifyRequests(s.verifier, recs)
	if err != nil {
		return nil, "", err
	}
	return reqs, next, nil
}
