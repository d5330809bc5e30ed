package ledger

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/tokenledger/go-tokenledger/db"
	"github.com/tokenledger/go-tokenledger/log"
)

// enumeration of event kinds
const (
	EventTransfer = "Transfer"
	EventApproval = "Approval"
)

// Event is one append-only record of a committed ledger mutation
// for external observers. Events are only written after an operation
// has passed acceptance validation, a reverted operation leaves no
// event behind.
type Event struct {
	ID       string `json:"id"`
	Seq      uint64 `json:"seq"`
	Kind     string `json:"kind"`
	Operator string `json:"operator"`
	From     string `json:"from"`
	To       string `json:"to"`
	Amount   uint64 `json:"amount"`
}

// RecordEvent appends the event to the event log with the next
// sequence number and a fresh event ID.
func (m *Manager) RecordEvent(dt db.Tx, e *Event) error {
	seq, err := m.nextEventSeq(dt)
	if err != nil {
		return err
	}
	e.Seq = seq
	e.ID = uuid.NewString()

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event failed: %v", err)
	}
	if err := dt.Put(eventBucket, eventKey(seq), b); err != nil {
		return fmt.Errorf("save event in db failed: %v", err)
	}

	log.Infow("ledger event recorded",
		"id", e.ID,
		"seq", e.Seq,
		"kind", e.Kind,
		"operator", e.Operator,
		"from", e.From,
		"to", e.To,
		"amount", e.Amount,
	)
	return nil
}

// Events returns the whole event log in sequence order.
func (m *Manager) Events(getter db.Getter) ([]*Event, error) {
	vals, err := getter.GetAll(eventBucket, nil)
	if err != nil {
		return nil, fmt.Errorf("load events failed: %v", err)
	}
	var events []*Event
	for _, b := range vals {
		var e Event
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, fmt.Errorf("decode event failed: %v", err)
		}
		events = append(events, &e)
	}
	return events, nil
}

func (m *Manager) nextEventSeq(dt db.Tx) (uint64, error) {
	b, err := dt.Get(stateBucket, []byte(eventSeqKey))
	if err != nil {
		return 0, fmt.Errorf("get event sequence failed: %v", err)
	}
	var seq uint64
	if b != nil {
		seq = binary.BigEndian.Uint64(b)
	}
	seq++

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	if err := dt.Put(stateBucket, []byte(eventSeqKey), buf[:]); err != nil {
		return 0, fmt.Errorf("save event sequence failed: %v", err)
	}
	return seq, nil
}

// eventKey encodes the sequence number so that byte-ordered
// iteration yields events in sequence order.
func eventKey(seq uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], seq)
	return k[:]
}
