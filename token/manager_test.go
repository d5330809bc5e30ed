package token

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tokenledger/go-tokenledger/contract"
	"github.com/tokenledger/go-tokenledger/crypto"
	"github.com/tokenledger/go-tokenledger/db/memdb"
	"github.com/tokenledger/go-tokenledger/ledger"
	"github.com/tokenledger/go-tokenledger/notify"
)

func newTestManager() *Manager {
	memorydb := memdb.New()
	lm := ledger.NewManager(memorydb, ledger.TokenInfo{Name: "Test Token", Symbol: "TST", Decimals: 8})
	return NewManager(memorydb, lm, contract.NewRegistry())
}

func fund(t *testing.T, m *Manager, accountID string, amount uint64) {
	dt, err := m.database.Begin()
	assert.Nil(t, err)
	assert.Nil(t, m.lm.Credit(dt, accountID, amount))
	assert.Nil(t, dt.Commit())
}

func newAccount() string {
	accountID, _, _ := crypto.GetAccountKeypair()
	return accountID
}

// snapshot captures the observable state the failure invariants
// compare against.
type snapshot struct {
	balances   map[string]uint64
	allowances map[string]uint64
	events     int
}

func takeSnapshot(t *testing.T, m *Manager, accounts []string, pairs [][2]string) *snapshot {
	s := &snapshot{
		balances:   make(map[string]uint64),
		allowances: make(map[string]uint64),
	}
	for _, acc := range accounts {
		balance, err := m.BalanceOf(acc)
		assert.Nil(t, err)
		s.balances[acc] = balance
	}
	for _, p := range pairs {
		amount, err := m.Allowance(p[0], p[1])
		assert.Nil(t, err)
		s.allowances[p[0]+"/"+p[1]] = amount
	}
	events, err := m.Events()
	assert.Nil(t, err)
	s.events = len(events)
	return s
}

func assertSnapshot(t *testing.T, m *Manager, s *snapshot, accounts []string, pairs [][2]string) {
	for _, acc := range accounts {
		balance, err := m.BalanceOf(acc)
		assert.Nil(t, err)
		assert.Equal(t, s.balances[acc], balance, "balance of %s changed", acc)
	}
	for _, p := range pairs {
		amount, err := m.Allowance(p[0], p[1])
		assert.Nil(t, err)
		assert.Equal(t, s.allowances[p[0]+"/"+p[1]], amount, "allowance %s/%s changed", p[0], p[1])
	}
	events, err := m.Events()
	assert.Nil(t, err)
	assert.Equal(t, s.events, len(events), "event log changed")
}

// acceptingContract returns the exact sentinel of both kinds.
type acceptingContract struct{}

func (c *acceptingContract) OnTransferReceived(operator, from string, amount uint64, payload []byte) (notify.Sentinel, error) {
	return notify.TransferAccepted, nil
}

func (c *acceptingContract) OnApprovalReceived(owner string, amount uint64, payload []byte) (notify.Sentinel, error) {
	return notify.ApprovalAccepted, nil
}

// valueContract returns a fixed value from both handlers.
type valueContract struct {
	value notify.Sentinel
}

func (c *valueContract) OnTransferReceived(operator, from string, amount uint64, payload []byte) (notify.Sentinel, error) {
	return c.value, nil
}

func (c *valueContract) OnApprovalReceived(owner string, amount uint64, payload []byte) (notify.Sentinel, error) {
	return c.value, nil
}

// failingContract aborts every invocation.
type failingContract struct{}

func (c *failingContract) OnTransferReceived(operator, from string, amount uint64, payload []byte) (notify.Sentinel, error) {
	return notify.Sentinel{}, errors.New("rejecting everything")
}

// panickyContract exhausts its resources mid-callback.
type panickyContract struct{}

func (c *panickyContract) OnTransferReceived(operator, from string, amount uint64, payload []byte) (notify.Sentinel, error) {
	panic("resource budget exhausted")
}

// inertContract carries code but no handler interfaces.
type inertContract struct{}

func TestSendAndNotifyToPlainHolder(t *testing.T) {
	m := newTestManager()
	a, b := newAccount(), newAccount()
	fund(t, m, a, 100)

	// No code at the target: the notification is skipped and the
	// transfer commits unconditionally.
	assert.Nil(t, m.SendAndNotify(a, b, 40, []byte("payload")))

	balance, _ := m.BalanceOf(a)
	assert.Equal(t, uint64(60), balance)
	balance, _ = m.BalanceOf(b)
	assert.Equal(t, uint64(40), balance)

	events, err := m.Events()
	assert.Nil(t, err)
	assert.Equal(t, 1, len(events))
	assert.Equal(t, ledger.EventTransfer, events[0].Kind)
	assert.Equal(t, a, events[0].From)
	assert.Equal(t, b, events[0].To)
	assert.Equal(t, uint64(40), events[0].Amount)
}

func TestSendAndNotifyToContractWithoutHandler(t *testing.T) {
	m := newTestManager()
	a, b := newAccount(), newAccount()
	fund(t, m, a, 100)
	assert.Nil(t, m.Registry().Register(b, &inertContract{}))

	// Code without a transfer handler resolves to skip before dispatch.
	assert.Nil(t, m.SendAndNotify(a, b, 40, nil))

	balance, _ := m.BalanceOf(b)
	assert.Equal(t, uint64(40), balance)
}

func TestSendAndNotifyAccepted(t *testing.T) {
	m := newTestManager()
	a, b := newAccount(), newAccount()
	fund(t, m, a, 100)
	assert.Nil(t, m.Registry().Register(b, &acceptingContract{}))

	assert.Nil(t, m.SendAndNotify(a, b, 40, []byte("payload")))

	balance, _ := m.BalanceOf(a)
	assert.Equal(t, uint64(60), balance)
	balance, _ = m.BalanceOf(b)
	assert.Equal(t, uint64(40), balance)
}

func TestSendAndNotifyWrongSentinel(t *testing.T) {
	m := newTestManager()
	a, b := newAccount(), newAccount()
	fund(t, m, a, 100)
	assert.Nil(t, m.Registry().Register(b, &valueContract{value: notify.Sentinel{0xde, 0xad, 0xbe, 0xef}}))

	pre := takeSnapshot(t, m, []string{a, b}, nil)
	err := m.SendAndNotify(a, b, 40, nil)
	assert.Equal(t, ErrCallbackRejected, err)
	assertSnapshot(t, m, pre, []string{a, b}, nil)
}

func TestSendAndNotifyZeroValueRejected(t *testing.T) {
	m := newTestManager()
	a, b := newAccount(), newAccount()
	fund(t, m, a, 100)
	assert.Nil(t, m.Registry().Register(b, &valueContract{}))

	err := m.SendAndNotify(a, b, 40, nil)
	assert.Equal(t, ErrCallbackRejected, err)

	balance, _ := m.BalanceOf(a)
	assert.Equal(t, uint64(100), balance)
	balance, _ = m.BalanceOf(b)
	assert.Equal(t, uint64(0), balance)
}

func TestSendAndNotifyCrossKindSentinel(t *testing.T) {
	m := newTestManager()
	a, b := newAccount(), newAccount()
	fund(t, m, a, 100)
	// The approval sentinel must never be accepted for a transfer
	// notification.
	assert.Nil(t, m.Registry().Register(b, &valueContract{value: notify.ApprovalAccepted}))

	err := m.SendAndNotify(a, b, 40, nil)
	assert.Equal(t, ErrCallbackRejected, err)
}

func TestSendAndNotifyHandlerFailure(t *testing.T) {
	m := newTestManager()
	a, b, c := newAccount(), newAccount(), newAccount()
	fund(t, m, a, 100)
	assert.Nil(t, m.Registry().Register(b, &failingContract{}))
	assert.Nil(t, m.Registry().Register(c, &panickyContract{}))

	pre := takeSnapshot(t, m, []string{a, b, c}, nil)

	assert.Equal(t, ErrCallbackRejected, m.SendAndNotify(a, b, 40, nil))
	assert.Equal(t, ErrCallbackRejected, m.SendAndNotify(a, c, 40, nil))

	assertSnapshot(t, m, pre, []string{a, b, c}, nil)
}

func TestSendAndNotifyPreconditions(t *testing.T) {
	m := newTestManager()
	a, b := newAccount(), newAccount()
	fund(t, m, a, 100)

	assert.Equal(t, ErrInsufficientBalance, m.SendAndNotify(a, b, 101, nil))
	assert.Equal(t, ErrInvalidTarget, m.SendAndNotify(a, crypto.NullAccountID(), 10, nil))
	assert.Equal(t, ErrInvalidTarget, m.SendAndNotify(a, "", 10, nil))
	assert.Equal(t, ErrInvalidAccount, m.SendAndNotify("", b, 10, nil))

	balance, _ := m.BalanceOf(a)
	assert.Equal(t, uint64(100), balance)
}

func TestSendFromAndNotify(t *testing.T) {
	m := newTestManager()
	owner, spender, dest := newAccount(), newAccount(), newAccount()
	fund(t, m, owner, 100)
	assert.Nil(t, m.Approve(owner, spender, 50))

	assert.Nil(t, m.SendFromAndNotify(spender, owner, dest, 30, nil))

	balance, _ := m.BalanceOf(owner)
	assert.Equal(t, uint64(70), balance)
	balance, _ = m.BalanceOf(dest)
	assert.Equal(t, uint64(30), balance)
	amount, _ := m.Allowance(owner, spender)
	assert.Equal(t, uint64(20), amount)
}

func TestSendFromAndNotifyInsufficientAllowance(t *testing.T) {
	m := newTestManager()
	owner, spender, dest := newAccount(), newAccount(), newAccount()
	fund(t, m, owner, 100)
	assert.Nil(t, m.Approve(owner, spender, 50))

	pre := takeSnapshot(t, m, []string{owner, spender, dest}, [][2]string{{owner, spender}})
	err := m.SendFromAndNotify(spender, owner, dest, 60, nil)
	assert.Equal(t, ErrInsufficientAllowance, err)
	assertSnapshot(t, m, pre, []string{owner, spender, dest}, [][2]string{{owner, spender}})
}

func TestSendFromAndNotifyRejected(t *testing.T) {
	m := newTestManager()
	owner, spender, dest := newAccount(), newAccount(), newAccount()
	fund(t, m, owner, 100)
	assert.Nil(t, m.Approve(owner, spender, 50))
	assert.Nil(t, m.Registry().Register(dest, &valueContract{value: notify.Sentinel{1}}))

	pre := takeSnapshot(t, m, []string{owner, spender, dest}, [][2]string{{owner, spender}})
	err := m.SendFromAndNotify(spender, owner, dest, 30, nil)
	assert.Equal(t, ErrCallbackRejected, err)

	// The revert restores the balances and the allowance.
	assertSnapshot(t, m, pre, []string{owner, spender, dest}, [][2]string{{owner, spender}})
}

func TestApproveAndNotifyPlainSpender(t *testing.T) {
	m := newTestManager()
	owner, spender := newAccount(), newAccount()

	assert.Nil(t, m.ApproveAndNotify(owner, spender, 30, nil))

	amount, _ := m.Allowance(owner, spender)
	assert.Equal(t, uint64(30), amount)

	events, err := m.Events()
	assert.Nil(t, err)
	assert.Equal(t, 1, len(events))
	assert.Equal(t, ledger.EventApproval, events[0].Kind)
}

func TestApproveAndNotifyAccepted(t *testing.T) {
	m := newTestManager()
	owner, spender := newAccount(), newAccount()
	assert.Nil(t, m.Registry().Register(spender, &acceptingContract{}))

	assert.Nil(t, m.ApproveAndNotify(owner, spender, 30, nil))

	amount, _ := m.Allowance(owner, spender)
	assert.Equal(t, uint64(30), amount)
}

func TestApproveAndNotifyRejected(t *testing.T) {
	m := newTestManager()
	owner, spender := newAccount(), newAccount()
	assert.Nil(t, m.Approve(owner, spender, 10))
	// The transfer sentinel is the wrong value for an approval.
	assert.Nil(t, m.Registry().Register(spender, &valueContract{value: notify.TransferAccepted}))

	err := m.ApproveAndNotify(owner, spender, 30, nil)
	assert.Equal(t, ErrCallbackRejected, err)

	// The prior allowance is restored.
	amount, _ := m.Allowance(owner, spender)
	assert.Equal(t, uint64(10), amount)
}

func TestApproveZeroThenAmount(t *testing.T) {
	m1 := newTestManager()
	m2 := newTestManager()
	owner, spender := newAccount(), newAccount()

	// Approving zero then the amount ends at the same allowance
	// as a single approval.
	assert.Nil(t, m1.ApproveAndNotify(owner, spender, 0, nil))
	assert.Nil(t, m1.ApproveAndNotify(owner, spender, 25, nil))
	assert.Nil(t, m2.ApproveAndNotify(owner, spender, 25, nil))

	a1, _ := m1.Allowance(owner, spender)
	a2, _ := m2.Allowance(owner, spender)
	assert.Equal(t, a2, a1)
	assert.Equal(t, uint64(25), a1)
}

func TestInvalidSpender(t *testing.T) {
	m := newTestManager()
	owner := newAccount()

	assert.Equal(t, ErrInvalidTarget, m.ApproveAndNotify(owner, crypto.NullAccountID(), 10, nil))
	assert.Equal(t, ErrInvalidTarget, m.Approve(owner, "", 10))
}

// observingContract records the balance it observes for itself during
// the callback window.
type observingContract struct {
	m        *Manager
	self     string
	observed uint64
}

func (c *observingContract) OnTransferReceived(operator, from string, amount uint64, payload []byte) (notify.Sentinel, error) {
	balance, err := c.m.BalanceOf(c.self)
	if err != nil {
		return notify.Sentinel{}, err
	}
	c.observed = balance
	return notify.TransferAccepted, nil
}

func TestReceiverObservesPostTransferState(t *testing.T) {
	m := newTestManager()
	a, b := newAccount(), newAccount()
	fund(t, m, a, 100)

	c := &observingContract{m: m, self: b}
	assert.Nil(t, m.Registry().Register(b, c))

	assert.Nil(t, m.SendAndNotify(a, b, 40, nil))

	// The mutation happened before dispatch, the handler saw its
	// own balance already credited.
	assert.Equal(t, uint64(40), c.observed)
}

// spendingApprover reacts to an approval by immediately spending the
// fresh allowance with a reentrant operation.
type spendingApprover struct {
	m    *Manager
	self string
	dest string
}

func (c *spendingApprover) OnApprovalReceived(owner string, amount uint64, payload []byte) (notify.Sentinel, error) {
	if err := c.m.SendFromAndNotify(c.self, owner, c.dest, amount, nil); err != nil {
		return notify.Sentinel{}, err
	}
	return notify.ApprovalAccepted, nil
}

func TestReentrantSpendInsideApprovalCallback(t *testing.T) {
	m := newTestManager()
	owner, spender, dest := newAccount(), newAccount(), newAccount()
	fund(t, m, owner, 100)

	c := &spendingApprover{m: m, self: spender, dest: dest}
	assert.Nil(t, m.Registry().Register(spender, c))

	// The allowance write precedes the dispatch, the reentrant
	// send-from inside the callback must observe it.
	assert.Nil(t, m.ApproveAndNotify(owner, spender, 30, nil))

	balance, _ := m.BalanceOf(owner)
	assert.Equal(t, uint64(70), balance)
	balance, _ = m.BalanceOf(dest)
	assert.Equal(t, uint64(30), balance)
	amount, _ := m.Allowance(owner, spender)
	assert.Equal(t, uint64(0), amount)
}

// thievingContract moves the received funds away with a nested
// operation and then rejects the outer transfer.
type thievingContract struct {
	m     *Manager
	self  string
	stash string
}

func (c *thievingContract) OnTransferReceived(operator, from string, amount uint64, payload []byte) (notify.Sentinel, error) {
	if err := c.m.Transfer(c.self, c.stash, amount); err != nil {
		return notify.Sentinel{}, err
	}
	return notify.Sentinel{0xba, 0xad, 0xf0, 0x0d}, nil
}

func TestRejectAfterNestedSpendRestoresEverything(t *testing.T) {
	m := newTestManager()
	a, b, stash := newAccount(), newAccount(), newAccount()
	fund(t, m, a, 100)

	c := &thievingContract{m: m, self: b, stash: stash}
	assert.Nil(t, m.Registry().Register(b, c))

	pre := takeSnapshot(t, m, []string{a, b, stash}, nil)
	err := m.SendAndNotify(a, b, 40, nil)
	assert.Equal(t, ErrCallbackRejected, err)

	// The funds were gone when the revert ran, the whole unit is
	// discarded and the pre-call state restored bit for bit.
	assertSnapshot(t, m, pre, []string{a, b, stash}, nil)
}

func TestPlainTransferAndTransferFrom(t *testing.T) {
	m := newTestManager()
	a, b, c := newAccount(), newAccount(), newAccount()
	fund(t, m, a, 100)

	assert.Nil(t, m.Transfer(a, b, 25))
	assert.Nil(t, m.Approve(a, c, 40))
	assert.Nil(t, m.TransferFrom(c, a, b, 15))

	balance, _ := m.BalanceOf(a)
	assert.Equal(t, uint64(60), balance)
	balance, _ = m.BalanceOf(b)
	assert.Equal(t, uint64(40), balance)
	amount, _ := m.Allowance(a, c)
	assert.Equal(t, uint64(25), amount)

	assert.Equal(t, ErrInsufficientAllowance, m.TransferFrom(c, a, b, 26))
}

func TestInitSupplyAndTotalSupply(t *testing.T) {
	m := newTestManager()
	genesis := newAccount()

	assert.Nil(t, m.InitSupply(genesis, 1000000))

	supply, err := m.TotalSupply()
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000000), supply)

	balance, _ := m.BalanceOf(genesis)
	assert.Equal(t, uint64(1000000), balance)

	assert.Equal(t, ledger.ErrSupplyInitialized, m.InitSupply(genesis, 5))
}

func TestSupportsProtocol(t *testing.T) {
	m := newTestManager()

	assert.True(t, m.SupportsProtocol(contract.ProtocolID))
	assert.False(t, m.SupportsProtocol(contract.TransferReceiverID))
	assert.False(t, m.SupportsProtocol(contract.InterfaceID{}))
}

func TestTokenMetadata(t *testing.T) {
	m := newTestManager()

	assert.Equal(t, "Test Token", m.Name())
	assert.Equal(t, "TST", m.Symbol())
	assert.Equal(t, 8, m.Decimals())
}
