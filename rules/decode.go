package rules

import (
	"encoding/base64"

	proto "github.com/gogo/protobuf/proto"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/crypto"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/integrity"
)

// Decoder parses binary rules containers. Build instances with NewDecoder.
type Decoder struct {
	logger log.Logger
}

// NewDecoder returns a decoder that reports dropped cells and unusable user
// keys on the given logger. A nil logger silences the reports.
func NewDecoder(logger log.Logger) *Decoder {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Decoder{logger: logger}
}

// DecodeContainer parses a binary rules container document. A failure to
// parse the outer document or a structurally broken container (duplicate
// ids, unusable thresholds) is fatal and produces no partial result. Matrix
// cells that do not decode are dropped from their line, and user keys that do
// not parse are reported; both are expected with historical containers and
// never fail the decode.
func (d *Decoder) DecodeContainer(raw []byte) (*Container, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "empty rules container")
	}
	var c Container
	if err := proto.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrapf(errors.ErrDecode, "rules container: %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "rules container")
	}

	for _, u := range c.Users {
		if u == nil || len(u.PublicKey) == 0 {
			continue
		}
		if _, err := crypto.ParsePublicKey(u.PublicKey); err != nil {
			d.logger.Debug("user key does not parse", "user", u.Id, "err", err)
		}
	}

	d.pruneMatrix("transaction", c.TransactionRules)
	d.pruneMatrix("address_whitelisting", c.AddressWhitelistingRules)
	d.pruneMatrix("contract_whitelisting", c.ContractWhitelistingRules)

	d.reportUnknownReferences(&c)

	return &c, nil
}

// DecodeContainerBase64 decodes the base64 transport form of a container.
func (d *Decoder) DecodeContainerBase64(enc string) (*Container, error) {
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDecode, "base64: %v", err)
	}
	return d.DecodeContainer(raw)
}

// pruneMatrix drops the cells that do not decode, keeping line order intact.
func (d *Decoder) pruneMatrix(name string, m *Matrix) {
	if m == nil {
		return
	}
	for li, line := range m.Lines {
		if line == nil {
			continue
		}
		kept := line.Cells[:0]
		for ci, raw := range line.Cells {
			if _, err := DecodeSource(raw); err != nil {
				d.logger.Debug("dropping rule cell",
					"matrix", name, "line", li, "cell", ci, "err", err)
				continue
			}
			kept = append(kept, raw)
		}
		line.Cells = kept
	}
}

// reportUnknownReferences logs references to retired users or groups. Old
// containers legitimately keep them around, so this never fails a decode.
func (d *Decoder) reportUnknownReferences(c *Container) {
	for _, g := range c.Groups {
		if g == nil {
			continue
		}
		for _, uid := range g.UserIds {
			if _, ok := c.User(uid); !ok {
				d.logger.Debug("group references unknown user", "group", g.Id, "user", uid)
			}
		}
	}

	check := func(name string, m *Matrix) {
		if m == nil {
			return
		}
		for li, line := range m.Lines {
			if line == nil {
				continue
			}
			for _, seq := range line.ParallelThresholds {
				if seq == nil {
					continue
				}
				for _, th := range seq.Thresholds {
					if th == nil {
						continue
					}
					if _, ok := c.Group(th.GroupId); !ok {
						d.logger.Debug("threshold references unknown group",
							"matrix", name, "line", li, "group", th.GroupId)
					}
				}
			}
		}
	}
	check("transaction", c.TransactionRules)
	check("address_whitelisting", c.AddressWhitelistingRules)
	check("contract_whitelisting", c.ContractWhitelistingRules)
}

// DecodeContainer parses a binary rules container without reporting.
func DecodeContainer(raw []byte) (*Container, error) {
	return NewDecoder(nil).DecodeContainer(raw)
}

// DecodeContainerBase64 parses a base64 encoded container without reporting.
func DecodeContainerBase64(enc string) (*Container, error) {
	return NewDecoder(nil).DecodeContainerBase64(enc)
}

// DecodeUserSignatures parses a detached signature list into verifier
// signatures. Unlike matrix cells, a signature list is small and curated: a
// member that does not decode fails the whole list.
func DecodeUserSignatures(raw []byte) ([]integrity.Signature, error) {
	var list UserSignatures
	if err := proto.Unmarshal(raw, &list); err != nil {
		return nil, errors.Wrapf(errors.ErrDecode, "user signatures: %v", err)
	}
	sigs := make([]integrity.Signature, 0, len(list.Signatures))
	for i, us := range list.Signatures {
		if us == nil {
			continue
		}
		sig, err := base64.StdEncoding.DecodeString(us.Signature)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrDecode, "signature %d of user %q: %v", i, us.UserId, err)
		}
		sigs = append(sigs, integrity.Signature{SignerID: us.UserId, Signature: sig})
	}
	return sigs, nil
}

// DecodeUserSignaturesBase64 decodes the base64 transport form of a
// signature list.
func DecodeUserSignaturesBase64(enc string) ([]integrity.Signature, error) {
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDecode, "base64: %v", err)
	}
	return DecodeUserSignatures(raw)
}
