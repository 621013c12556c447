package governance

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/integrity"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/protecttest"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/protecttest/assert"
)

type stubSource struct {
	current  *Rules
	proposed *Rules
	byID     map[string]*Rules
	history  []*Rules
	next     string
	err      error
}

var _ Source = (*stubSource)(nil)

func (s *stubSource) CurrentRules(ctx context.Context) (*Rules, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.current, nil
}

func (s *stubSource) ProposedRules(ctx context.Context) (*Rules, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.proposed == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "no proposed rules")
	}
	return s.proposed, nil
}

func (s *stubSource) RulesByID(ctx context.Context, id string) (*Rules, error) {
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.byID[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "rules %q", id)
	}
	return r, nil
}

func (s *stubSource) RulesHistory(ctx context.Context, cursor string, limit int) ([]*Rules, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.history, s.next, nil
}

// signedRules wraps the fixture container into a rules document with the
// given signatures.
func signedRules(f *protecttest.Fixture, id string, sigs []integrity.Signature) *Rules {
	return &Rules{
		ID:             id,
		RulesContainer: base64.StdEncoding.EncodeToString(f.RawContainer),
		Signatures:     sigs,
	}
}

func TestServiceCurrent(t *testing.T) {
	f := protecttest.NewFixture()

	cases := map[string]struct {
		rules   *Rules
		wantErr *errors.Error
	}{
		"properly signed rules": {
			rules: signedRules(f, "41", f.RulesSigs),
		},
		"not enough signatures": {
			rules:   signedRules(f, "41", f.RulesSigs[:1]),
			wantErr: errors.ErrIntegrity,
		},
		"tampered container": {
			rules: func() *Rules {
				raw := append([]byte{}, f.RawContainer...)
				raw[0] ^= 0x01
				return &Rules{
					ID:             "41",
					RulesContainer: base64.StdEncoding.EncodeToString(raw),
					Signatures:     f.RulesSigs,
				}
			}(),
			wantErr: errors.ErrIntegrity,
		},
		"signatures from unknown keys": {
			rules: signedRules(f, "41", []integrity.Signature{
				protecttest.MustSign(protecttest.Ed25519Key(200), "intruder-1", f.RawContainer),
				protecttest.MustSign(protecttest.Ed25519Key(201), "intruder-2", f.RawContainer),
			}),
			wantErr: errors.ErrIntegrity,
		},
		"container is not base64": {
			rules:   &Rules{ID: "41", RulesContainer: "%%%", Signatures: f.RulesSigs},
			wantErr: errors.ErrDecode,
		},
		"empty container": {
			rules:   &Rules{ID: "41"},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			svc, err := NewService(&stubSource{current: tc.rules}, f.Cfg, nil)
			assert.Nil(t, err)

			container, verified, err := svc.Current(context.Background())
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				if container != nil {
					t.Fatal("failed verification must not release a container")
				}
				return
			}
			assert.Equal(t, "41", verified.ID)
			if len(container.Users) != 3 {
				t.Fatalf("want 3 users, got %d", len(container.Users))
			}
		})
	}
}

func TestServiceProposed(t *testing.T) {
	f := protecttest.NewFixture()

	svc, err := NewService(&stubSource{proposed: signedRules(f, "42", f.RulesSigs)}, f.Cfg, nil)
	assert.Nil(t, err)
	container, verified, err := svc.Proposed(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, "42", verified.ID)
	if len(container.Users) != 3 {
		t.Fatalf("want 3 users, got %d", len(container.Users))
	}

	// No pending change surfaces as not found.
	svc, err = NewService(&stubSource{}, f.Cfg, nil)
	assert.Nil(t, err)
	if _, _, err := svc.Proposed(context.Background()); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestServiceByID(t *testing.T) {
	f := protecttest.NewFixture()
	source := &stubSource{
		byID: map[string]*Rules{"7": signedRules(f, "7", f.RulesSigs)},
	}
	svc, err := NewService(source, f.Cfg, nil)
	assert.Nil(t, err)

	_, verified, err := svc.ByID(context.Background(), "7")
	assert.Nil(t, err)
	assert.Equal(t, "7", verified.ID)

	if _, _, err := svc.ByID(context.Background(), ""); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if _, _, err := svc.ByID(context.Background(), "404"); !errors.ErrNotFound.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestServiceHistory(t *testing.T) {
	f := protecttest.NewFixture()
	source := &stubSource{
		history: []*Rules{
			signedRules(f, "1", f.RulesSigs),
			signedRules(f, "2", f.RulesSigs),
		},
		next: "after-2",
	}
	svc, err := NewService(source, f.Cfg, nil)
	assert.Nil(t, err)

	entries, next, err := svc.History(context.Background(), "", 10)
	assert.Nil(t, err)
	assert.Equal(t, "after-2", next)
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	assert.Equal(t, "1", entries[0].Rules.ID)
	assert.Equal(t, "2", entries[1].Rules.ID)
}

func TestServiceHistoryFailLoud(t *testing.T) {
	f := protecttest.NewFixture()
	source := &stubSource{
		history: []*Rules{
			signedRules(f, "1", f.RulesSigs),
			signedRules(f, "2", f.RulesSigs[:1]),
		},
	}
	svc, err := NewService(source, f.Cfg, nil)
	assert.Nil(t, err)

	entries, _, err := svc.History(context.Background(), "", 10)
	if !errors.ErrIntegrity.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if entries != nil {
		t.Fatalf("a page with a bad version must not release anything: %+v", entries)
	}
	if !strings.Contains(err.Error(), "rules version 1") {
		t.Fatalf("error must name the offending version: %s", err)
	}
}

func TestNewService(t *testing.T) {
	f := protecttest.NewFixture()
	if _, err := NewService(nil, f.Cfg, nil); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	badCfg := f.Cfg
	badCfg.MinValidSignatures = -1
	if _, err := NewService(&stubSource{}, badCfg, nil); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
