package token

import (
	"github.com/tokenledger/go-tokenledger/db"
	"github.com/tokenledger/go-tokenledger/ledger"
)

// Transfer moves the amount from the caller to the recipient without
// notifying it. It is the plain variant the notify protocol extends.
func (m *Manager) Transfer(caller, to string, amount uint64) error {
	if err := checkAccount(caller); err != nil {
		return err
	}
	if err := checkTarget(to); err != nil {
		return err
	}
	dt, top, err := m.begin()
	if err != nil {
		return err
	}
	return m.finish(top, m.transfer(dt, caller, to, amount))
}

func (m *Manager) transfer(dt db.Tx, caller, to string, amount uint64) error {
	if err := m.move(dt, caller, to, amount); err != nil {
		return err
	}
	return m.lm.RecordEvent(dt, &ledger.Event{
		Kind:     ledger.EventTransfer,
		Operator: caller,
		From:     caller,
		To:       to,
		Amount:   amount,
	})
}

// TransferFrom moves the amount from the owner account to the
// recipient on the strength of the caller's allowance, without
// notifying the recipient.
func (m *Manager) TransferFrom(caller, from, to string, amount uint64) error {
	if err := checkAccount(caller); err != nil {
		return err
	}
	if err := checkAccount(from); err != nil {
		return err
	}
	if err := checkTarget(to); err != nil {
		return err
	}
	dt, top, err := m.begin()
	if err != nil {
		return err
	}
	return m.finish(top, m.transferFrom(dt, caller, from, to, amount))
}

func (m *Manager) transferFrom(dt db.Tx, caller, from, to string, amount uint64) error {
	prior, err := m.lm.GetAllowance(dt, from, caller)
	if err != nil {
		return err
	}
	if prior < amount {
		return ErrInsufficientAllowance
	}
	if err := m.lm.SetAllowance(dt, from, caller, prior-amount); err != nil {
		return err
	}
	if err := m.move(dt, from, to, amount); err != nil {
		if aerr := m.lm.SetAllowance(dt, from, caller, prior); aerr != nil {
			return aerr
		}
		return err
	}
	return m.lm.RecordEvent(dt, &ledger.Event{
		Kind:     ledger.EventTransfer,
		Operator: caller,
		From:     from,
		To:       to,
		Amount:   amount,
	})
}

// Approve sets the allowance of the spender over the caller's balance
// without notifying it.
func (m *Manager) Approve(caller, spender string, amount uint64) error {
	if err := checkAccount(caller); err != nil {
		return err
	}
	if err := checkTarget(spender); err != nil {
		return err
	}
	dt, top, err := m.begin()
	if err != nil {
		return err
	}
	return m.finish(top, m.approve(dt, caller, spender, amount))
}

func (m *Manager) approve(dt db.Tx, caller, spender string, amount uint64) error {
	if err := m.lm.SetAllowance(dt, caller, spender, amount); err != nil {
		return err
	}
	return m.lm.RecordEvent(dt, &ledger.Event{
		Kind:     ledger.EventApproval,
		Operator: caller,
		From:     caller,
		To:       spender,
		Amount:   amount,
	})
}
