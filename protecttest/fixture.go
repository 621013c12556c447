/*
Package protecttest provides deterministic fixtures for testing the
verification pipeline: reproducible keys, a prebuilt signed rules container
and envelope builders. Helpers panic instead of returning errors; they run
only under tests and only fail when the fixture itself is broken.
*/
package protecttest

import (
	"bytes"
	"fmt"

	proto "github.com/gogo/protobuf/proto"

	protect "github.com/taurushq-io/taurus-protect-sdk-sub004"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/crypto"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/integrity"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/rules"
)

// Ed25519Key returns the deterministic test key of a seed. The same seed
// always yields the same key.
func Ed25519Key(seed byte) *crypto.PrivateKeyEd25519 {
	return crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{seed}, 32))
}

// PublicKeyPEM returns the PEM encoding of the signer's public half.
func PublicKeyPEM(signer crypto.Signer) []byte {
	raw, err := crypto.MarshalPublicKey(signer.PublicKey())
	if err != nil {
		panic(fmt.Sprintf("cannot marshal a test key: %+v", err))
	}
	return raw
}

// MustSign signs the message with a test key.
func MustSign(signer crypto.Signer, id string, msg []byte) integrity.Signature {
	raw, err := signer.Sign(msg)
	if err != nil {
		panic(fmt.Sprintf("cannot sign with a test key: %+v", err))
	}
	return integrity.Signature{SignerID: id, Signature: raw}
}

// Fixture is a ready made governance world: a rules container holding three
// approver users in one group, marshaled and signed by two platform admin
// keys. Cfg trusts the two admin keys with a threshold of two.
type Fixture struct {
	Cfg          integrity.Config
	Container    *rules.Container
	RawContainer []byte
	RulesSigs    []integrity.Signature
	Admins       []*crypto.PrivateKeyEd25519
	Users        map[string]*crypto.PrivateKeyEd25519
}

// NewFixture builds the deterministic fixture. Every call yields the same
// keys and the same container bytes.
func NewFixture() *Fixture {
	admins := []*crypto.PrivateKeyEd25519{Ed25519Key(101), Ed25519Key(102)}
	users := map[string]*crypto.PrivateKeyEd25519{
		"1": Ed25519Key(1),
		"2": Ed25519Key(2),
		"3": Ed25519Key(3),
	}

	container := &rules.Container{
		Groups: []*rules.Group{{Id: "g1", UserIds: []string{"1", "2", "3"}}},
	}
	for _, id := range []string{"1", "2", "3"} {
		container.Users = append(container.Users, &rules.User{
			Id:        id,
			PublicKey: PublicKeyPEM(users[id]),
			Roles:     []string{"approver"},
		})
	}
	raw, err := proto.Marshal(container)
	if err != nil {
		panic(fmt.Sprintf("cannot marshal the test container: %+v", err))
	}

	return &Fixture{
		Cfg: integrity.Config{
			TrustedKeys:        []crypto.PubKey{admins[0].PublicKey(), admins[1].PublicKey()},
			MinValidSignatures: 2,
		},
		Container:    container,
		RawContainer: raw,
		RulesSigs: []integrity.Signature{
			MustSign(admins[0], "admin-1", raw),
			MustSign(admins[1], "admin-2", raw),
		},
		Admins: admins,
		Users:  users,
	}
}

// Envelope wraps a payload into a fully signed envelope: hashed, signed by
// the given container users and carrying the fixture's rules container.
func (f *Fixture) Envelope(payload string, signerIDs ...string) *protect.Envelope {
	hash := integrity.PayloadHash([]byte(payload))
	env := &protect.Envelope{
		PayloadString:   payload,
		Hash:            hash,
		RulesContainer:  f.RawContainer,
		RulesSignatures: f.RulesSigs,
	}
	msg := integrity.CanonicalHashes([]string{hash})
	for _, id := range signerIDs {
		signer, ok := f.Users[id]
		if !ok {
			panic(fmt.Sprintf("unknown fixture user %q", id))
		}
		sig := MustSign(signer, id, msg)
		env.Signatures = append(env.Signatures, protect.Signature{
			SignerID:  id,
			Signature: sig.Signature,
		})
	}
	return env
}

// Verifier returns a verifier enforcing the fixture policy.
func (f *Fixture) Verifier(opts ...protect.Option) *protect.Verifier {
	v, err := protect.NewVerifier(f.Cfg, opts...)
	if err != nil {
		panic(fmt.Sprintf("cannot build the fixture verifier: %+v", err))
	}
	return v
}
