package contract

// Prober answers capability questions about counterparties before a
// notification is attempted. Detection order is fixed: the
// code-presence check comes first, the declared-capabilities table is
// only consulted afterwards to refine the kind-specific handler
// choice or to serve integrator queries. Probing never invokes the
// counterparty.
type Prober struct {
	registry *Registry
}

func NewProber(registry *Registry) *Prober {
	return &Prober{registry: registry}
}

// HasCode reports whether the identity carries executable logic.
func (p *Prober) HasCode(accountID string) bool {
	return p.registry.HasCode(accountID)
}

// Supports reports whether the identity has code and declares the
// interface identifier.
func (p *Prober) Supports(accountID string, id InterfaceID) bool {
	if !p.registry.HasCode(accountID) {
		return false
	}
	return p.registry.Declares(accountID, id)
}

// SupportsProtocol reports whether the identity declares conformance
// with the notify protocol as a whole.
func (p *Prober) SupportsProtocol(accountID string) bool {
	return p.Supports(accountID, ProtocolID)
}
