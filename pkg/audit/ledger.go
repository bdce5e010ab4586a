// Package audit maintains a signed hash chain over decision records, so
// that the assignment history of a shipping experiment is tamper-evident:
// rewriting or dropping any recorded decision breaks the chain.
package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Entry is one signed link in the ledger. Each entry includes the hash
// of the previous entry; modifying any record breaks every later link.
type Entry struct {
	Sequence   int64     `json:"sequence"`    // monotonic counter (1-based)
	RunID      string    `json:"run_id"`      // the decision record this signs
	RecordHash string    `json:"record_hash"` // sha256 of the record JSON
	PrevHash   string    `json:"prev_hash"`   // hash of the previous Entry (empty for first)
	Signature  string    `json:"signature"`   // HMAC-SHA256(sequence|run_id|record_hash|prev_hash, secret)
	Timestamp  time.Time `json:"timestamp"`
}

// Ledger is an ordered, signed sequence of decision record hashes.
// Safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	secret  []byte
	entries []Entry
	last    string // hash of last entry, chained into the next
	seq     int64
}

// NewLedger creates a ledger with the given HMAC signing key.
func NewLedger(secret string) *Ledger {
	return &Ledger{
		secret:  []byte(secret),
		entries: make([]Entry, 0),
	}
}

// Append adds a decision record to the ledger and returns the new entry.
func (l *Ledger) Append(runID string, recordJSON []byte) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++

	entry := Entry{
		Sequence:   l.seq,
		RunID:      runID,
		RecordHash: sha256Hex(recordJSON),
		PrevHash:   l.last,
		Timestamp:  time.Now().UTC(),
	}
	entry.Signature = l.sign(entry)

	entryJSON, _ := json.Marshal(entry)
	l.last = sha256Hex(entryJSON)

	l.entries = append(l.entries, entry)
	return entry
}

// Verify walks the ledger and checks every signature and prev_hash link.
// Returns (true, 0, nil) if valid, or (false, brokenAt, err) if tampered.
func (l *Ledger) Verify() (valid bool, brokenAt int64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return true, 0, nil
	}

	prevHash := ""
	for i, entry := range l.entries {
		if entry.PrevHash != prevHash {
			return false, entry.Sequence, fmt.Errorf(
				"ledger broken at sequence %d: prev_hash mismatch", entry.Sequence)
		}

		if entry.Signature != l.sign(entry) {
			return false, entry.Sequence, fmt.Errorf(
				"ledger broken at sequence %d: signature mismatch", entry.Sequence)
		}

		entryJSON, _ := json.Marshal(l.entries[i])
		prevHash = sha256Hex(entryJSON)
	}

	return true, 0, nil
}

// Entries returns a copy of all ledger entries.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

func (l *Ledger) sign(e Entry) string {
	msg := fmt.Sprintf("%d|%s|%s|%s", e.Sequence, e.RunID, e.RecordHash, e.PrevHash)
	mac := hmac.New(sha256.New, l.secret)
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func sha256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
