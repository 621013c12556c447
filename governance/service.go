package governance

import (
	"context"
	"encoding/base64"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/integrity"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/rules"
)

// Source serves raw rules documents from the platform. Implementations live
// outside this module; a source is trusted for availability only, never for
// content.
type Source interface {
	CurrentRules(ctx context.Context) (*Rules, error)
	ProposedRules(ctx context.Context) (*Rules, error)
	RulesByID(ctx context.Context, id string) (*Rules, error)
	RulesHistory(ctx context.Context, cursor string, limit int) ([]*Rules, string, error)
}

// HistoryEntry is one verified element of the rules history.
type HistoryEntry struct {
	Container *rules.Container
	Rules     *Rules
}

// Service fetches rules documents and releases them only after enough
// trusted keys signed the container bytes.
type Service struct {
	source  Source
	cfg     integrity.Config
	logger  log.Logger
	decoder *rules.Decoder
}

// NewService returns a governance service reading from the source and
// enforcing the signature policy of the configuration.
func NewService(source Source, cfg integrity.Config, logger log.Logger) (*Service, error) {
	if source == nil {
		return nil, errors.Wrap(errors.ErrInput, "nil source")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Service{
		source:  source,
		cfg:     cfg,
		logger:  logger,
		decoder: rules.NewDecoder(logger),
	}, nil
}

// Current fetches and verifies the rules in force.
func (s *Service) Current(ctx context.Context) (*rules.Container, *Rules, error) {
	r, err := s.source.CurrentRules(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fetch current rules")
	}
	return s.verify(r)
}

// Proposed fetches and verifies the rules awaiting activation. The source
// returns ErrNotFound when no change is pending.
func (s *Service) Proposed(ctx context.Context) (*rules.Container, *Rules, error) {
	r, err := s.source.ProposedRules(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "fetch proposed rules")
	}
	return s.verify(r)
}

// ByID fetches and verifies one historic rules version.
func (s *Service) ByID(ctx context.Context, id string) (*rules.Container, *Rules, error) {
	if id == "" {
		return nil, nil, errors.Wrap(errors.ErrInput, "empty id")
	}
	r, err := s.source.RulesByID(ctx, id)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fetch rules %q", id)
	}
	return s.verify(r)
}

// History fetches and verifies one page of the rules history. Every element
// of the page must verify; a single bad version fails the whole page. The
// returned cursor continues the listing; it is empty on the last page.
func (s *Service) History(ctx context.Context, cursor string, limit int) ([]*HistoryEntry, string, error) {
	page, next, err := s.source.RulesHistory(ctx, cursor, limit)
	if err != nil {
		return nil, "", errors.Wrap(err, "fetch rules history")
	}
	entries := make([]*HistoryEntry, len(page))
	for i, r := range page {
		container, verified, err := s.verify(r)
		if err != nil {
			return nil, "", errors.Wrapf(err, "rules version %d", i)
		}
		entries[i] = &HistoryEntry{Container: container, Rules: verified}
	}
	return entries, next, nil
}

// verify authenticates the container bytes against the trusted platform
// keys and decodes them.
func (s *Service) verify(r *Rules) (*rules.Container, *Rules, error) {
	if err := r.Validate(); err != nil {
		return nil, nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(r.RulesContainer)
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrDecode, "rules container base64: %v", err)
	}
	if err := integrity.VerifySignatures(raw, r.Signatures, s.cfg.TrustedKeys, s.cfg.MinValidSignatures); err != nil {
		return nil, nil, errors.Wrap(err, "rules container")
	}
	container, err := s.decoder.DecodeContainer(raw)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("verified governance rules", "id", r.ID, "locked", r.Locked)
	return container, r, nil
}
