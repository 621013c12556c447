package request

import (
	"encoding/json"

	protect "github.com/taurushq-io/taurus-protect-sdk-sub004"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// VerifyRequest checks the full chain of custody of one record and returns
// the request built from its verified payload. The returned request carries
// the platform hash it was verified under, ready for an approval signature.
func VerifyRequest(v *protect.Verifier, rec *RequestRecord) (*Request, error) {
	if rec == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "nil record")
	}
	var req Request
	if err := v.VerifyEnvelope(&rec.Envelope, decodeRequest(&req)); err != nil {
		return nil, err
	}
	req.Hash = rec.Envelope.Hash
	return &req, nil
}

// VerifyRequests verifies a batch of records, sharing rules container
// verification work across the batch. It fails on the first bad record.
func VerifyRequests(v *protect.Verifier, recs []*RequestRecord) ([]*Request, error) {
	envs := make([]*protect.Envelope, len(recs))
	for i, rec := range recs {
		if rec == nil {
			return nil, errors.Wrapf(errors.ErrEmpty, "record %d", i)
		}
		envs[i] = &rec.Envelope
	}
	reqs := make([]*Request, len(recs))
	err := v.VerifyEnvelopes(envs, func(i int, payload string) error {
		var req Request
		if err := decodeRequest(&req)(payload); err != nil {
			return err
		}
		req.Hash = envs[i].Hash
		reqs[i] = &req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func decodeRequest(dst *Request) protect.DecodeFunc {
	return func(payload string) error {
		if err := json.Unmarshal([]byte(payload), dst); err != nil {
			return errors.Wrapf(errors.ErrDecode, "request payload: %v", err)
		}
		return dst.Validate()
	}
}
