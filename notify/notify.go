// Package notify implements the callback half of the
// transfer/approve-then-notify protocol: building notification
// requests, dispatching them to counterparty handlers and validating
// the captured results against the acceptance sentinels.
package notify

import (
	"github.com/tokenledger/go-tokenledger/contract"
)

// Kind enumerates the two notification operation kinds.
type Kind uint8

const (
	_ Kind = iota // skip zero
	KindTransfer
	KindApproval
)

func (k Kind) String() string {
	switch k {
	case KindTransfer:
		return "transfer-notify"
	case KindApproval:
		return "approve-notify"
	}
	return "unknown"
}

// Sentinel is the fixed value a compliant handler must return to
// signal acceptance of a notification. The sentinel of each kind is
// the interface identifier of its handler signature, which keeps the
// two sentinels distinct from each other and from the zero value a
// non-implementing contract would produce.
type Sentinel [4]byte

var (
	// TransferAccepted must be returned by OnTransferReceived to
	// accept an incoming transfer.
	TransferAccepted = Sentinel(contract.TransferReceiverID)

	// ApprovalAccepted must be returned by OnApprovalReceived to
	// accept an approval.
	ApprovalAccepted = Sentinel(contract.ApprovalReceiverID)
)

// Request describes one callback attempt. It is built immediately
// before dispatch, consumed by the dispatcher and discarded after
// validation, it is never persisted.
type Request struct {
	// Kind of the notification.
	Kind Kind
	// Initiator is the operator triggering the operation.
	Initiator string
	// Counterparty is the account the funds or the approval came
	// from.
	Counterparty string
	// Target is the recipient or spender being notified.
	Target string
	// Amount moved or approved.
	Amount uint64
	// Payload is opaque auxiliary data passed through uninterpreted.
	Payload []byte
}

// TransferReceiver is the handler interface a contract implements to
// be notified of incoming transfers.
type TransferReceiver interface {
	OnTransferReceived(operator, from string, amount uint64, payload []byte) (Sentinel, error)
}

// ApprovalReceiver is the handler interface a contract implements to
// be notified of approvals naming it as the spender.
type ApprovalReceiver interface {
	OnApprovalReceived(owner string, amount uint64, payload []byte) (Sentinel, error)
}
