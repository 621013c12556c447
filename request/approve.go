package request

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/crypto"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/integrity"
)

// Approval is a signed batch decision. The signature covers the canonical
// array of the approved requests' hashes, ordered by numeric request id.
type Approval struct {
	IDs       []string
	Signature []byte
	Comment   string
}

// Rejection mirrors Approval without a signature. Rejection authorship is
// recorded by the platform session.
type Rejection struct {
	IDs     []string
	Comment string
}

// Submitter delivers decisions to the platform. Implementations live
// outside this module.
type Submitter interface {
	SubmitApproval(ctx context.Context, approval Approval) error
	SubmitRejection(ctx context.Context, rejection Rejection) error
}

// ApprovalSigner signs batch decisions with an operator key and submits
// them.
type ApprovalSigner struct {
	key       crypto.Signer
	submitter Submitter
}

// NewApprovalSigner returns a signer submitting decisions under the given
// operator key.
func NewApprovalSigner(key crypto.Signer, submitter Submitter) (*ApprovalSigner, error) {
	if key == nil {
		return nil, errors.Wrap(errors.ErrInput, "nil key")
	}
	if submitter == nil {
		return nil, errors.Wrap(errors.ErrInput, "nil submitter")
	}
	return &ApprovalSigner{key: key, submitter: submitter}, nil
}

// Approve signs one batch approval over the requests and submits it. Every
// request must carry its verified hash; a missing hash fails before anything
// is signed or sent. The signed message is the canonical array of the
// hashes, ordered by numeric request id, so that any party can recompute it
// from the ids alone.
func (a *ApprovalSigner) Approve(ctx context.Context, requests []*Request, comment string) error {
	ordered, err := orderByID(requests)
	if err != nil {
		return err
	}
	hashes := make([]string, len(ordered))
	for i, r := range ordered {
		hashes[i] = r.Hash
	}
	sig, err := a.key.Sign(integrity.CanonicalHashes(hashes))
	if err != nil {
		return errors.Wrap(err, "sign approval")
	}
	approval := Approval{
		IDs:       requestIDs(ordered),
		Signature: sig,
		Comment:   comment,
	}
	return errors.Wrap(a.submitter.SubmitApproval(ctx, approval), "submit approval")
}

// Reject submits a rejection for the requests. Batch checks mirror Approve
// but nothing is signed.
func (a *ApprovalSigner) Reject(ctx context.Context, requests []*Request, comment string) error {
	ordered, err := orderByID(requests)
	if err != nil {
		return err
	}
	rejection := Rejection{
		IDs:     requestIDs(ordered),
		Comment: comment,
	}
	return errors.Wrap(a.submitter.SubmitRejection(ctx, rejection), "submit rejection")
}

// orderByID validates the batch and returns a copy sorted by numeric id
// ascending.
func orderByID(requests []*Request) ([]*Request, error) {
	if len(requests) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no requests")
	}
	var errs error
	for i, r := range requests {
		field := fmt.Sprintf("Requests.%d", i)
		switch {
		case r == nil:
			errs = errors.Append(errs, errors.Field(field, errors.ErrEmpty, "nil request"))
		case r.Hash == "":
			errs = errors.Append(errs, errors.Field(field+".Hash", errors.ErrInput, "request was not verified"))
		default:
			if _, err := strconv.ParseUint(r.ID, 10, 64); err != nil {
				errs = errors.Append(errs, errors.Field(field+".ID", errors.ErrInput, "not a numeric id: %q", r.ID))
			}
		}
	}
	if errs != nil {
		return nil, errs
	}

	ordered := make([]*Request, len(requests))
	copy(ordered, requests)
	sort.SliceStable(ordered, func(i, j int) bool {
		// Ids were validated above, they all parse.
		a, _ := strconv.ParseUint(ordered[i].ID, 10, 64)
		b, _ := strconv.ParseUint(ordered[j].ID, 10, 64)
		return a < b
	})
	return ordered, nil
}

func requestIDs(requests []*Request) []string {
	ids := make([]string, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}
	return ids
}
