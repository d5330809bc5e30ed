package contract

import (
	"encoding/hex"

	"github.com/tokenledger/go-tokenledger/crypto"
)

// InterfaceID is the fixed identifier of a handler interface or of a
// protocol, derived purely from canonical operation signatures so that
// independent implementations agree on identifiers without
// coordination.
type InterfaceID [4]byte

// Canonical signatures of the protocol surface. The strings are part
// of the wire-level contract: changing one changes the derived
// identifiers for every implementation.
const (
	SigOnTransferReceived = "onTransferReceived(operator,from,amount,payload)"
	SigOnApprovalReceived = "onApprovalReceived(owner,amount,payload)"

	SigSendAndNotify     = "sendAndNotify(to,amount,payload)"
	SigSendFromAndNotify = "sendFromAndNotify(from,to,amount,payload)"
	SigApproveAndNotify  = "approveAndNotify(spender,amount,payload)"
)

var (
	// TransferReceiverID identifies the transfer notification
	// handler interface.
	TransferReceiverID = SignatureID(SigOnTransferReceived)

	// ApprovalReceiverID identifies the approval notification
	// handler interface.
	ApprovalReceiverID = SignatureID(SigOnApprovalReceived)

	// ProtocolID identifies the notify protocol itself, derived from
	// the three public operation signatures.
	ProtocolID = CombineIDs(
		SignatureID(SigSendAndNotify),
		SignatureID(SigSendFromAndNotify),
		SignatureID(SigApproveAndNotify),
	)
)

// SignatureID derives the interface identifier of one canonical
// signature as the leading four bytes of its sha256 checksum.
func SignatureID(sig string) InterfaceID {
	h := crypto.SHA256HashBytes([]byte(sig))
	var id InterfaceID
	copy(id[:], h[:4])
	return id
}

// CombineIDs folds several identifiers into one by xor, the result is
// independent of the argument order.
func CombineIDs(ids ...InterfaceID) InterfaceID {
	var out InterfaceID
	for _, id := range ids {
		for i := range out {
			out[i] ^= id[i]
		}
	}
	return out
}

func (id InterfaceID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}
