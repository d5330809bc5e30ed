// Copyright 2026 The go-tokenledger Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package token

import (
	"github.com/tokenledger/go-tokenledger/db"
	"github.com/tokenledger/go-tokenledger/ledger"
	"github.com/tokenledger/go-tokenledger/log"
	"github.com/tokenledger/go-tokenledger/notify"
)

// SendAndNotify moves the amount from the caller to the recipient and
// completes with a verified notification into the recipient contract.
// The balance mutation is applied before dispatch so the handler (and
// any operation it reenters with) observes the post-transfer state; a
// rejected notification unwinds the mutation exactly. A recipient
// without executable code, or without a transfer handler, skips the
// notification and the transfer commits unconditionally.
func (m *Manager) SendAndNotify(caller, to string, amount uint64, payload []byte) error {
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
	return m.finish(top, m.sendAndNotify(dt, caller, to, amount, payload))
}

func (m *Manager) sendAndNotify(dt db.Tx, caller, to string, amount uint64, payload []byte) error {
	// Mutate first, notify afterwards.
	if err := m.move(dt, caller, to, amount); err != nil {
		return err
	}

	req := &notify.Request{
		Kind:         notify.KindTransfer,
		Initiator:    caller,
		Counterparty: caller,
		Target:       to,
		Amount:       amount,
		Payload:      payload,
	}
	if !m.accept(req) {
		if err := m.move(dt, to, caller, amount); err != nil {
			log.Warnw("exact-inverse revert failed, discarding transaction",
				"op", "send-and-notify", "caller", caller, "to", to, "err", err)
			m.damaged = true
		}
		return ErrCallbackRejected
	}

	return m.lm.RecordEvent(dt, &ledger.Event{
		Kind:     ledger.EventTransfer,
		Operator: caller,
		From:     caller,
		To:       to,
		Amount:   amount,
	})
}

// SendFromAndNotify moves the amount from the owner account to the
// recipient on the strength of the caller's allowance, then notifies
// the recipient the way SendAndNotify does. A rejected notification
// restores both the balances and the allowance.
func (m *Manager) SendFromAndNotify(caller, from, to string, amount uint64, payload []byte) error {
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
	return m.finish(top, m.sendFromAndNotify(dt, caller, from, to, amount, payload))
}

func (m *Manager) sendFromAndNotify(dt db.Tx, caller, from, to string, amount uint64, payload []byte) error {
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

	req := &notify.Request{
		Kind:         notify.KindTransfer,
		Initiator:    caller,
		Counterparty: from,
		Target:       to,
		Amount:       amount,
		Payload:      payload,
	}
	if !m.accept(req) {
		if err := m.lm.SetAllowance(dt, from, caller, prior); err != nil {
			log.Warnw("exact-inverse revert failed, discarding transaction",
				"op", "send-from-and-notify", "caller", caller, "from", from, "to", to, "err", err)
			m.damaged = true
			return ErrCallbackRejected
		}
		if err := m.move(dt, to, from, amount); err != nil {
			log.Warnw("exact-inverse revert failed, discarding transaction",
				"op", "send-from-and-notify", "caller", caller, "from", from, "to", to, "err", err)
			m.damaged = true
		}
		return ErrCallbackRejected
	}

	return m.lm.RecordEvent(dt, &ledger.Event{
		Kind:     ledger.EventTransfer,
		Operator: caller,
		From:     from,
		To:       to,
		Amount:   amount,
	})
}

// ApproveAndNotify sets the allowance of the spender over the
// caller's balance and completes with a verified notification into
// the spender contract. The allowance is written before dispatch so a
// reentrant spend during the callback already observes it; a rejected
// notification restores the prior allowance.
func (m *Manager) ApproveAndNotify(caller, spender string, amount uint64, payload []byte) error {
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
	return m.finish(top, m.approveAndNotify(dt, caller, spender, amount, payload))
}

func (m *Manager) approveAndNotify(dt db.Tx, caller, spender string, amount uint64, payload []byte) error {
	prior, err := m.lm.GetAllowance(dt, caller, spender)
	if err != nil {
		return err
	}
	if err := m.lm.SetAllowance(dt, caller, spender, amount); err != nil {
		return err
	}

	req := &notify.Request{
		Kind:         notify.KindApproval,
		Initiator:    caller,
		Counterparty: caller,
		Target:       spender,
		Amount:       amount,
		Payload:      payload,
	}
	if !m.accept(req) {
		if err := m.lm.SetAllowance(dt, caller, spender, prior); err != nil {
			log.Warnw("exact-inverse revert failed, discarding transaction",
				"op", "approve-and-notify", "caller", caller, "spender", spender, "err", err)
			m.damaged = true
		}
		return ErrCallbackRejected
	}

	return m.lm.RecordEvent(dt, &ledger.Event{
		Kind:     ledger.EventApproval,
		Operator: caller,
		From:     caller,
		To:       spender,
		Amount:   amount,
	})
}

// accept dispatches the notification and validates the outcome. A
// target without executable code or without a handler matching the
// request kind skips the dispatch entirely and counts as accepted:
// the protocol only gates operations into callback-capable targets.
func (m *Manager) accept(req *notify.Request) bool {
	if !m.dispatcher.Resolve(req.Target, req.Kind) {
		return true
	}
	out := m.dispatcher.Dispatch(req.Target, req)
	ok := notify.Validate(req.Kind, out)
	if !ok {
		log.Debugw("notification rejected",
			"kind", req.Kind.String(),
			"target", req.Target,
			"status", out.Status,
			"err", out.Err,
		)
	}
	return ok
}
