package notify

import (
	"fmt"

	"github.com/tokenledger/go-tokenledger/contract"
	"github.com/tokenledger/go-tokenledger/log"
)

// Status enumerates the possible dispatch results.
type Status uint8

const (
	_ Status = iota // skip zero
	// StatusReturned means the handler completed and produced a value.
	StatusReturned
	// StatusHandlerMissing means the target has no code or no handler
	// matching the notification kind.
	StatusHandlerMissing
	// StatusHandlerFailed means the invocation itself aborted.
	StatusHandlerFailed
)

// Outcome captures the result of one dispatch. Value is only
// meaningful when Status is StatusReturned, Err only when Status is
// StatusHandlerFailed.
type Outcome struct {
	Status Status
	Value  Sentinel
	Err    error
}

// Dispatcher invokes counterparty notification handlers. The invoked
// handler is untrusted code: it may return anything, abort, or call
// back into the coordinator's public operations during the callback
// window. Reentrancy is a protocol feature, the coordinator
// guarantees the ledger mutation is already applied before dispatch
// so reentrant reads observe consistent state.
type Dispatcher struct {
	registry *contract.Registry
}

func NewDispatcher(registry *contract.Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Resolve reports whether the target exposes a handler matching the
// notification kind. It is used before dispatch so that targets
// without a matching handler can be skipped without wasted work.
func (d *Dispatcher) Resolve(target string, kind Kind) bool {
	c, ok := d.registry.Lookup(target)
	if !ok {
		return false
	}
	switch kind {
	case KindTransfer:
		_, ok = c.(TransferReceiver)
	case KindApproval:
		_, ok = c.(ApprovalReceiver)
	default:
		ok = false
	}
	return ok
}

// Dispatch invokes the handler on the target matching the request
// kind and captures either the returned value or a failure signal.
// A panic inside the untrusted handler is captured as a failed
// invocation, never propagated.
func (d *Dispatcher) Dispatch(target string, req *Request) (out Outcome) {
	c, ok := d.registry.Lookup(target)
	if !ok {
		return Outcome{Status: StatusHandlerMissing}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Warnw("notification handler aborted",
				"target", target,
				"kind", req.Kind.String(),
				"panic", r,
			)
			out = Outcome{
				Status: StatusHandlerFailed,
				Err:    fmt.Errorf("handler aborted: %v", r),
			}
		}
	}()

	switch req.Kind {
	case KindTransfer:
		h, ok := c.(TransferReceiver)
		if !ok {
			return Outcome{Status: StatusHandlerMissing}
		}
		v, err := h.OnTransferReceived(req.Initiator, req.Counterparty, req.Amount, req.Payload)
		if err != nil {
			return Outcome{Status: StatusHandlerFailed, Err: err}
		}
		return Outcome{Status: StatusReturned, Value: v}
	case KindApproval:
		h, ok := c.(ApprovalReceiver)
		if !ok {
			return Outcome{Status: StatusHandlerMissing}
		}
		v, err := h.OnApprovalReceived(req.Counterparty, req.Amount, req.Payload)
		if err != nil {
			return Outcome{Status: StatusHandlerFailed, Err: err}
		}
		return Outcome{Status: StatusReturned, Value: v}
	}
	return Outcome{Status: StatusHandlerFailed, Err: fmt.Errorf("unknown notification kind %d", req.Kind)}
}
