package protect

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	proto "github.com/gogo/protobuf/proto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/crypto"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/integrity"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/metrics"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/protecttest/assert"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/rules"
)

// fixture bundles a signed rules container with the keys behind it: three
// container users and two platform admin keys trusted for the container
// governance check.
type fixture struct {
	cfg          integrity.Config
	rawContainer []byte
	rulesSigs    []integrity.Signature
	admins       []*crypto.PrivateKeyEd25519
	userKeys     map[string]*crypto.PrivateKeyEd25519
}

func newFixture(t testing.TB) *fixture {
	t.Helper()

	admin1 := crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{101}, 32))
	admin2 := crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{102}, 32))

	userKeys := map[string]*crypto.PrivateKeyEd25519{
		"1": crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{1}, 32)),
		"2": crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{2}, 32)),
		"3": crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{3}, 32)),
	}

	container := &rules.Container{
		Groups: []*rules.Group{{Id: "g1", UserIds: []string{"1", "2", "3"}}},
	}
	for _, id := range []string{"1", "2", "3"} {
		pem, err := crypto.MarshalPublicKey(userKeys[id].PublicKey())
		if err != nil {
			t.Fatalf("cannot marshal user key: %+v", err)
		}
		container.Users = append(container.Users, &rules.User{
			Id: id, PublicKey: pem, Roles: []string{"approver"},
		})
	}
	raw, err := proto.Marshal(container)
	if err != nil {
		t.Fatalf("cannot marshal container: %+v", err)
	}

	return &fixture{
		cfg: integrity.Config{
			TrustedKeys:        []crypto.PubKey{admin1.PublicKey(), admin2.PublicKey()},
			MinValidSignatures: 2,
		},
		rawContainer: raw,
		rulesSigs: []integrity.Signature{
			mustSign(t, admin1, "admin-1", raw),
			mustSign(t, admin2, "admin-2", raw),
		},
		admins:   []*crypto.PrivateKeyEd25519{admin1, admin2},
		userKeys: userKeys,
	}
}

func mustSign(t testing.TB, signer crypto.Signer, id string, msg []byte) integrity.Signature {
	t.Helper()
	raw, err := signer.Sign(msg)
	if err != nil {
		t.Fatalf("cannot sign: %+v", err)
	}
	return integrity.Signature{SignerID: id, Signature: raw}
}

// envelope returns an envelope over the payload, hashed and signed by the
// given container users.
func (f *fixture) envelope(t testing.TB, payload string, signerIDs ...string) *Envelope {
	t.Helper()
	hash := integrity.PayloadHash([]byte(payload))
	env := &Envelope{
		PayloadString:   payload,
		Hash:            hash,
		RulesContainer:  f.rawContainer,
		RulesSignatures: f.rulesSigs,
	}
	msg := integrity.CanonicalHashes([]string{hash})
	for _, id := range signerIDs {
		raw, err := f.userKeys[id].Sign(msg)
		if err != nil {
			t.Fatalf("cannot sign: %+v", err)
		}
		env.Signatures = append(env.Signatures, Signature{SignerID: id, Signature: raw})
	}
	return env
}

func TestVerifyEnvelope(t *testing.T) {
	f := newFixture(t)
	const payload = `{"id":"7","address":"0xaaa0000000000000000000000000000000000aaa","currency":"ETH"}`

	corrupt := func(sig Signature) Signature {
		raw := append([]byte(nil), sig.Signature...)
		raw[0] ^= 0x01
		return Signature{SignerID: sig.SignerID, Signature: raw}
	}

	cases := map[string]struct {
		env     func(t testing.TB) *Envelope
		wantErr *errors.Error
	}{
		"valid with two signers": {
			env: func(t testing.TB) *Envelope {
				return f.envelope(t, payload, "1", "2")
			},
		},
		"two valid and one corrupted signature": {
			env: func(t testing.TB) *Envelope {
				// The corrupted signature comes first so the two
				// valid ones must carry the threshold alone.
				env := f.envelope(t, payload, "1", "2", "3")
				env.Signatures[0] = corrupt(env.Signatures[0])
				return env
			},
		},
		"same signer twice": {
			env: func(t testing.TB) *Envelope {
				env := f.envelope(t, payload, "1")
				env.Signatures = append(env.Signatures, env.Signatures[0])
				return env
			},
			wantErr: errors.ErrIntegrity,
		},
		"one signer short": {
			env: func(t testing.TB) *Envelope {
				return f.envelope(t, payload, "1")
			},
			wantErr: errors.ErrIntegrity,
		},
		"tampered payload": {
			env: func(t testing.TB) *Envelope {
				env := f.envelope(t, payload, "1", "2")
				env.PayloadString = payload + " "
				return env
			},
			wantErr: errors.ErrIntegrity,
		},
		"stripped payload": {
			env: func(t testing.TB) *Envelope {
				env := f.envelope(t, payload, "1", "2")
				env.PayloadString = ""
				return env
			},
			wantErr: errors.ErrIntegrity,
		},
		"payload and payload string disagree": {
			env: func(t testing.TB) *Envelope {
				env := f.envelope(t, payload, "1", "2")
				env.Payload = []byte("something else")
				return env
			},
			wantErr: errors.ErrInput,
		},
		"container signed by untrusted keys": {
			env: func(t testing.TB) *Envelope {
				env := f.envelope(t, payload, "1", "2")
				env.RulesSignatures = []integrity.Signature{
					mustSign(t, f.userKeys["1"], "1", f.rawContainer),
					mustSign(t, f.userKeys["2"], "2", f.rawContainer),
				}
				return env
			},
			wantErr: errors.ErrIntegrity,
		},
		"container signatures below threshold": {
			env: func(t testing.TB) *Envelope {
				env := f.envelope(t, payload, "1", "2")
				env.RulesSignatures = env.RulesSignatures[:1]
				return env
			},
			wantErr: errors.ErrIntegrity,
		},
		"container bytes do not decode": {
			env: func(t testing.TB) *Envelope {
				env := f.envelope(t, payload, "1", "2")
				env.RulesContainer = []byte{0xff}
				env.RulesSignatures = []integrity.Signature{
					mustSign(t, f.admins[0], "admin-1", env.RulesContainer),
					mustSign(t, f.admins[1], "admin-2", env.RulesContainer),
				}
				return env
			},
			wantErr: errors.ErrDecode,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			v, err := NewVerifier(f.cfg)
			assert.Nil(t, err)
			err = v.VerifyEnvelope(tc.env(t), nil)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestVerifyEnvelopeDecodeCallback(t *testing.T) {
	f := newFixture(t)
	v, err := NewVerifier(f.cfg)
	assert.Nil(t, err)

	const payload = `{"id":"7"}`

	t.Run("runs on the canonical payload", func(t *testing.T) {
		var got string
		err := v.VerifyEnvelope(f.envelope(t, payload, "1", "2"), func(p string) error {
			got = p
			return nil
		})
		assert.Nil(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("decode failure fails the envelope", func(t *testing.T) {
		err := v.VerifyEnvelope(f.envelope(t, payload, "1", "2"), func(string) error {
			return errors.ErrDecode.New("not the expected document")
		})
		if !errors.ErrDecode.Is(err) {
			t.Fatalf("unexpected error: %+v", err)
		}
	})

	t.Run("never runs on a broken chain", func(t *testing.T) {
		env := f.envelope(t, payload, "1")
		ran := false
		err := v.VerifyEnvelope(env, func(string) error {
			ran = true
			return nil
		})
		if !errors.ErrIntegrity.Is(err) {
			t.Fatalf("unexpected error: %+v", err)
		}
		assert.False(t, ran)
	})
}

func TestVerifyEnvelopeCoveredHashes(t *testing.T) {
	f := newFixture(t)
	v, err := NewVerifier(f.cfg)
	assert.Nil(t, err)

	payloadA := `{"id":"1"}`
	payloadB := `{"id":"2"}`
	hashA := integrity.PayloadHash([]byte(payloadA))
	hashB := integrity.PayloadHash([]byte(payloadB))

	// Both users approved A and B in one batch: the signed message is the
	// canonical array of both hashes.
	covered := []string{hashA, hashB}
	msg := integrity.CanonicalHashes(covered)
	batchSigs := []Signature{
		{SignerID: "1", Signature: mustSign(t, f.userKeys["1"], "1", msg).Signature, CoveredHashes: covered},
		{SignerID: "2", Signature: mustSign(t, f.userKeys["2"], "2", msg).Signature, CoveredHashes: covered},
	}

	envA := &Envelope{
		PayloadString:   payloadA,
		Hash:            hashA,
		Signatures:      batchSigs,
		RulesContainer:  f.rawContainer,
		RulesSignatures: f.rulesSigs,
	}
	assert.Nil(t, v.VerifyEnvelope(envA, nil))

	envB := &Envelope{
		PayloadString:   payloadB,
		Hash:            hashB,
		Signatures:      batchSigs,
		RulesContainer:  f.rawContainer,
		RulesSignatures: f.rulesSigs,
	}
	assert.Nil(t, v.VerifyEnvelope(envB, nil))

	// An entity outside the covered set gains nothing from these
	// signatures.
	payloadC := `{"id":"3"}`
	envC := &Envelope{
		PayloadString:   payloadC,
		Hash:            integrity.PayloadHash([]byte(payloadC)),
		Signatures:      batchSigs,
		RulesContainer:  f.rawContainer,
		RulesSignatures: f.rulesSigs,
	}
	if err := v.VerifyEnvelope(envC, nil); !errors.ErrIntegrity.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestVerifyEnvelopeDisabled(t *testing.T) {
	v, err := NewVerifier(integrity.Config{MinValidSignatures: 0})
	assert.Nil(t, err)

	const payload = `{"id":"7"}`

	// No container, no signatures: with verification explicitly disabled
	// only the payload hash is checked.
	env := &Envelope{
		PayloadString: payload,
		Hash:          integrity.PayloadHash([]byte(payload)),
	}
	ran := false
	err = v.VerifyEnvelope(env, func(string) error {
		ran = true
		return nil
	})
	assert.Nil(t, err)
	assert.True(t, ran)

	// The hash check is never disabled.
	env.Hash = strings.Repeat("0", 64)
	if err := v.VerifyEnvelope(env, nil); !errors.ErrIntegrity.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestVerifyEnvelopeUnusableContainerKeys(t *testing.T) {
	f := newFixture(t)

	container := &rules.Container{
		Users: []*rules.User{{Id: "1", PublicKey: []byte("not a pem block")}},
	}
	raw, err := proto.Marshal(container)
	assert.Nil(t, err)

	env := f.envelope(t, `{"id":"7"}`, "1", "2")
	env.RulesContainer = raw
	env.RulesSignatures = []integrity.Signature{
		mustSign(t, f.admins[0], "admin-1", raw),
		mustSign(t, f.admins[1], "admin-2", raw),
	}

	v, err := NewVerifier(f.cfg)
	assert.Nil(t, err)
	if err := v.VerifyEnvelope(env, nil); !errors.ErrIntegrity.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestVerifyEnvelopesSharedContainer(t *testing.T) {
	f := newFixture(t)
	reg := prometheus.NewRegistry()
	cache := NewContainerCache()
	v, err := NewVerifier(f.cfg, WithCache(cache), WithMetrics(metrics.New(reg)))
	assert.Nil(t, err)

	var envs []*Envelope
	for i := 0; i < 10; i++ {
		envs = append(envs, f.envelope(t, fmt.Sprintf(`{"id":"%d"}`, i), "1", "2"))
	}

	decoded := 0
	err = v.VerifyEnvelopes(envs, func(i int, payload string) error {
		decoded++
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 10, decoded)

	// One container for the whole batch: a single verification, nine
	// cache answers.
	assert.Equal(t, CacheStats{Hits: 9, Misses: 1}, cache.Stats())

	expected := `
# HELP protect_verifier_container_cache_hits_total Rule container verifications skipped because the exact content was verified before.
# TYPE protect_verifier_container_cache_hits_total counter
protect_verifier_container_cache_hits_total 9
# HELP protect_verifier_container_cache_misses_total Rule containers that had to be verified and decoded.
# TYPE protect_verifier_container_cache_misses_total counter
protect_verifier_container_cache_misses_total 1
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"protect_verifier_container_cache_hits_total",
		"protect_verifier_container_cache_misses_total")
	assert.Nil(t, err)
}

func TestVerifyEnvelopesFailLoud(t *testing.T) {
	f := newFixture(t)
	v, err := NewVerifier(f.cfg)
	assert.Nil(t, err)

	good1 := f.envelope(t, `{"id":"1"}`, "1", "2")
	bad := f.envelope(t, `{"id":"2"}`, "1", "2")
	bad.PayloadString += " "
	good2 := f.envelope(t, `{"id":"3"}`, "1", "2")

	var decoded []int
	err = v.VerifyEnvelopes([]*Envelope{good1, bad, good2}, func(i int, payload string) error {
		decoded = append(decoded, i)
		return nil
	})
	if !errors.ErrIntegrity.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
	if !strings.Contains(err.Error(), "envelope 1") {
		t.Fatalf("error does not name the failing envelope: %s", err)
	}
	assert.Equal(t, []int{0}, decoded)
}

func TestNewVerifierConfig(t *testing.T) {
	if _, err := NewVerifier(integrity.Config{MinValidSignatures: -1}); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	v, err := NewVerifier(integrity.Config{MinValidSignatures: 0})
	assert.Nil(t, err)
	if v == nil {
		t.Fatal("verifier expected")
	}
}
