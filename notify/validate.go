package notify

// SentinelFor returns the acceptance sentinel of the notification
// kind, the zero sentinel for an unknown kind.
func SentinelFor(kind Kind) Sentinel {
	switch kind {
	case KindTransfer:
		return TransferAccepted
	case KindApproval:
		return ApprovalAccepted
	}
	return Sentinel{}
}

// Validate compares a dispatch outcome against the sentinel mandated
// for the kind. Only a returned value equal to the exact sentinel is
// accepted, any other value, a missing handler or a failed invocation
// rejects. Comparing against the exact constant is what keeps a
// non-conforming contract's default return from being misread as
// acceptance.
func Validate(kind Kind, out Outcome) bool {
	if out.Status != StatusReturned {
		return false
	}
	want := SentinelFor(kind)
	if want == (Sentinel{}) {
		return false
	}
	return out.Value == want
}
