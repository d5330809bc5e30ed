package notify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsExactSentinel(t *testing.T) {
	out := Outcome{Status: StatusReturned, Value: TransferAccepted}
	assert.True(t, Validate(KindTransfer, out))

	out = Outcome{Status: StatusReturned, Value: ApprovalAccepted}
	assert.True(t, Validate(KindApproval, out))
}

func TestValidateRejectsZeroValue(t *testing.T) {
	// The generic empty return of a non-conforming contract must
	// never be read as acceptance.
	out := Outcome{Status: StatusReturned, Value: Sentinel{}}
	assert.False(t, Validate(KindTransfer, out))
	assert.False(t, Validate(KindApproval, out))
}

func TestValidateRejectsCrossKindSentinel(t *testing.T) {
	out := Outcome{Status: StatusReturned, Value: TransferAccepted}
	assert.False(t, Validate(KindApproval, out))

	out = Outcome{Status: StatusReturned, Value: ApprovalAccepted}
	assert.False(t, Validate(KindTransfer, out))
}

func TestValidateRejectsArbitraryValue(t *testing.T) {
	out := Outcome{Status: StatusReturned, Value: Sentinel{1, 2, 3, 4}}
	assert.False(t, Validate(KindTransfer, out))
}

func TestValidateRejectsFailures(t *testing.T) {
	assert.False(t, Validate(KindTransfer, Outcome{Status: StatusHandlerMissing}))
	assert.False(t, Validate(KindTransfer, Outcome{Status: StatusHandlerFailed, Err: errors.New("boom")}))

	// Even a failure outcome carrying the right value rejects.
	out := Outcome{Status: StatusHandlerFailed, Value: TransferAccepted}
	assert.False(t, Validate(KindTransfer, out))
}

func TestValidateUnknownKind(t *testing.T) {
	out := Outcome{Status: StatusReturned, Value: TransferAccepted}
	assert.False(t, Validate(Kind(99), out))
}

func TestSentinelFor(t *testing.T) {
	assert.Equal(t, TransferAccepted, SentinelFor(KindTransfer))
	assert.Equal(t, ApprovalAccepted, SentinelFor(KindApproval))
	assert.Equal(t, Sentinel{}, SentinelFor(Kind(7)))
}
