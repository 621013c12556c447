package protect

import (
	"github.com/tendermint/tendermint/libs/log"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/integrity"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/metrics"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/rules"
)

// DefaultLogger is used by every verifier that does not set its own.
var DefaultLogger = log.NewNopLogger()

// DecodeFunc builds a domain object from the verified canonical payload. It
// runs only after every integrity check passed.
type DecodeFunc func(payload string) error

// Verifier runs the full verification pipeline over envelopes: payload hash,
// rules container governance signatures, entity level signature threshold,
// and only then the payload decode.
type Verifier struct {
	cfg     integrity.Config
	logger  log.Logger
	cache   *ContainerCache
	metrics *metrics.Metrics
	decoder *rules.Decoder
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger routes verification reports to the given logger.
func WithLogger(logger log.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithCache shares one verified container cache across every call on this
// verifier. Without it each call scopes its own cache.
func WithCache(cache *ContainerCache) Option {
	return func(v *Verifier) {
		v.cache = cache
	}
}

// WithMetrics attaches prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Verifier) {
		v.metrics = m
	}
}

// NewVerifier returns a verifier enforcing the given policy. A
// MinValidSignatures of zero disables all signature work and must be an
// explicit, deliberate configuration.
func NewVerifier(cfg integrity.Config, opts ...Option) (*Verifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	v := &Verifier{
		cfg:    cfg,
		logger: DefaultLogger,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.decoder = rules.NewDecoder(v.logger)
	return v, nil
}

// VerifyEnvelope checks the full chain of custody of one envelope and, when
// it is intact, runs decode on the canonical payload. Any failure aborts
// before the payload is handed out.
func (v *Verifier) VerifyEnvelope(env *Envelope, decode DecodeFunc) error {
	cache := v.cache
	if cache == nil {
		cache = NewContainerCache()
	}
	return v.verify(cache, env, decode)
}

// VerifyEnvelopes checks a batch. All envelopes share one container cache, so
// a container appearing many times is verified once. The first failure fails
// the whole batch.
func (v *Verifier) VerifyEnvelopes(envs []*Envelope, decode func(i int, payload string) error) error {
	cache := v.cache
	if cache == nil {
		cache = NewContainerCache()
	}
	for i, env := range envs {
		var fn DecodeFunc
		if decode != nil {
			i := i
			fn = func(payload string) error { return decode(i, payload) }
		}
		if err := v.verify(cache, env, fn); err != nil {
			return errors.Wrapf(err, "envelope %d", i)
		}
	}
	stats := cache.Stats()
	v.logger.Info("verified envelopes",
		"count", len(envs), "cache_hits", stats.Hits, "cache_misses", stats.Misses)
	return nil
}

func (v *Verifier) verify(cache *ContainerCache, env *Envelope, decode DecodeFunc) error {
	if err := env.Validate(); err != nil {
		v.metrics.Failed("envelope")
		return errors.Wrap(err, "envelope")
	}
	if err := integrity.VerifyPayloadHash(env.PayloadString, env.Hash); err != nil {
		v.metrics.Failed("payload_hash")
		return err
	}

	if v.cfg.MinValidSignatures > 0 {
		container, err := v.container(cache, env)
		if err != nil {
			v.metrics.Failed("container")
			return err
		}
		if err := v.verifyEntitySignatures(container, env); err != nil {
			v.metrics.Failed("signatures")
			return err
		}
	}

	if decode != nil {
		if err := decode(env.PayloadString); err != nil {
			v.metrics.Failed("payload_decode")
			return errors.Wrap(err, "verified payload")
		}
	}
	v.metrics.Verified()
	return nil
}

// container returns the decoded rules container for the envelope, verifying
// the governance signatures over the raw bytes first. The bytes are
// authenticated before they are parsed. Identical content is served from the
// cache without repeating either step.
func (v *Verifier) container(cache *ContainerCache, env *Envelope) (*rules.Container, error) {
	if c, ok := cache.Lookup(env.RulesContainer); ok {
		v.metrics.CacheHit()
		return c, nil
	}
	v.metrics.CacheMiss()

	err := integrity.VerifySignatures(env.RulesContainer, env.RulesSignatures,
		v.cfg.TrustedKeys, v.cfg.MinValidSignatures)
	if err != nil {
		return nil, errors.Wrap(err, "rules container")
	}
	c, err := v.decoder.DecodeContainer(env.RulesContainer)
	if err != nil {
		return nil, err
	}
	v.logger.Debug("verified rules container",
		"users", len(c.Users), "groups", len(c.Groups))
	cache.Add(env.RulesContainer, c)
	return c, nil
}

// verifyEntitySignatures checks that enough container users signed this
// entity. Trusted keys are the parseable user keys of the verified container.
// The message of each signature is the canonical hash array it covers; a
// signature whose covered hashes do not include the entity hash does not
// apply. Counting follows the threshold discipline of
// integrity.VerifySignatures: distinct signers, every key tried, early exit.
func (v *Verifier) verifyEntitySignatures(c *rules.Container, env *Envelope) error {
	keys := c.PublicKeys()
	if len(keys) == 0 {
		return errors.Wrap(errors.ErrIntegrity, "rules container carries no usable user keys")
	}

	min := v.cfg.MinValidSignatures
	valid := 0
	seen := make(map[string]struct{}, len(env.Signatures))
	for _, sig := range env.Signatures {
		if len(sig.Signature) == 0 {
			continue
		}
		if sig.SignerID != "" {
			if _, done := seen[sig.SignerID]; done {
				continue
			}
		}
		msg, ok := coveredMessage(sig, env.Hash)
		if !ok {
			continue
		}
		for _, key := range keys {
			if !key.Verify(msg, sig.Signature) {
				continue
			}
			valid++
			if sig.SignerID != "" {
				seen[sig.SignerID] = struct{}{}
			}
			break
		}
		if valid >= min {
			return nil
		}
	}
	return errors.Wrapf(errors.ErrIntegrity, "%d valid entity signatures, %d required", valid, min)
}

// coveredMessage returns the exact bytes a signature was made over. An empty
// covered set means the signature was given for this entity alone.
func coveredMessage(sig Signature, hash string) ([]byte, bool) {
	if len(sig.CoveredHashes) == 0 {
		return integrity.CanonicalHashes([]string{hash}), true
	}
	for _, h := range sig.CoveredHashes {
		if h == hash {
			return integrity.CanonicalHashes(sig.CoveredHashes), true
		}
	}
	return nil, false
}
