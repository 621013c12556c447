package request

import (
	"testing"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/protecttest"
	"github.com/taurushq-io/taurus-protect-sdk-sub004/protecttest/assert"
)

func TestVerifyRequest(t *testing.T) {
	f := protecttest.NewFixture()
	payload := `{"id":"12","currency":"ETH","amount":"1.5","to_address":"0xa1"}`

	cases := map[string]struct {
		rec     *RequestRecord
		wantErr *errors.Error
	}{
		"valid record": {
			rec: &RequestRecord{Envelope: *f.Envelope(payload, "1", "2")},
		},
		"display id is ignored, only the payload counts": {
			rec: &RequestRecord{Envelope: *f.Envelope(payload, "1", "2"), ID: "666"},
		},
		"tampered payload": {
			rec: func() *RequestRecord {
				env := f.Envelope(payload, "1", "2")
				env.PayloadString = `{"id":"12","currency":"ETH","amount":"999999","to_address":"0xa1"}`
				return &RequestRecord{Envelope: *env}
			}(),
			wantErr: errors.ErrIntegrity,
		},
		"payload misses the amount": {
			rec:     &RequestRecord{Envelope: *f.Envelope(`{"id":"12","currency":"ETH"}`, "1", "2")},
			wantErr: errors.ErrEmpty,
		},
		"nil record": {
			rec:     nil,
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			req, err := VerifyRequest(f.Verifier(), tc.rec)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, "12", req.ID)
			assert.Equal(t, "1.5", req.Amount)
			// The verified request is stamped with the platform hash so an
			// approval signature can cover it.
			assert.Equal(t, tc.rec.Envelope.Hash, req.Hash)
			if req.Hash == "" {
				t.Fatal("verified request must carry a hash")
			}
		})
	}
}

func TestVerifyRequests(t *testing.T) {
	f := protecttest.NewFixture()
	recs := []*RequestRecord{
		{Envelope: *f.Envelope(`{"id":"5","currency":"ETH","amount":"1"}`, "1", "2")},
		{Envelope: *f.Envelope(`{"id":"2","currency":"BTC","amount":"2"}`, "2", "3")},
	}

	reqs, err := VerifyRequests(f.Verifier(), recs)
	assert.Nil(t, err)
	if len(reqs) != 2 {
		t.Fatalf("want 2 requests, got %d", len(reqs))
	}
	assert.Equal(t, "5", reqs[0].ID)
	assert.Equal(t, recs[0].Envelope.Hash, reqs[0].Hash)
	assert.Equal(t, "2", reqs[1].ID)
	assert.Equal(t, recs[1].Envelope.Hash, reqs[1].Hash)
}
