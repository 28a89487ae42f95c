// Package publisher persists signal emissions: a last-write-wins latest
// snapshot for the executor, an append-only JSONL history for offline
// analysis, and per-window finalize deduplication.
package publisher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/clawdkrab/polymarket-signal-bot/internal/signal"
)

// Store persists the latest per-asset signal map. Overwrite semantics are
// last-write-wins by design; this core assumes a single writer per asset.
type Store interface {
	WriteLatest(signals map[string]signal.Signal) error
}

// FileStore overwrites one JSON file atomically via a temp file and rename.
type FileStore struct {
	path string
}

// NewFileStore creates parent directories and returns a file-backed store.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// WriteLatest replaces the snapshot file with the supplied signal map.
func (f *FileStore) WriteLatest(signals map[string]signal.Signal) error {
	data, err := json.MarshalIndent(signals, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal signals: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("swap snapshot: %w", err)
	}
	return nil
}

// Publisher fans the latest snapshot out to every configured store, appends
// one JSONL record per emission batch, and deduplicates finalize emissions
// per market window. Finalize batches additionally go to the readiness log
// when one is configured.
type Publisher struct {
	stores   []Store
	ledger   *Ledger
	mu       sync.Mutex
	history  *os.File
	histEnc  *json.Encoder
	ready    *os.File
	readyEnc *json.Encoder
	// finalized holds the open time of the last window a finalize batch
	// was written for.
	finalized time.Time
}

// New opens the history log (append-only) and wires the given stores.
func New(historyPath string, stores ...Store) (*Publisher, error) {
	if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	file, err := os.OpenFile(historyPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return &Publisher{
		stores:  stores,
		ledger:  NewLedger(256),
		history: file,
		histEnc: json.NewEncoder(file),
	}, nil
}

// SetReadinessLog opens a second append-only JSONL log that receives only
// finalize batches, so the executor can tail entry decisions without
// filtering the full history.
func (p *Publisher) SetReadinessLog(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create readiness dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open readiness log: %w", err)
	}
	p.mu.Lock()
	p.ready = file
	p.readyEnc = json.NewEncoder(file)
	p.mu.Unlock()
	return nil
}

// Publish overwrites the latest snapshot in every store and appends the
// batch to history. Store failures are collected, not fatal.
func (p *Publisher) Publish(signals map[string]signal.Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.publishLocked(signals, false)
}

// PublishFinalize publishes like Publish and additionally appends the batch
// to the readiness log.
func (p *Publisher) PublishFinalize(signals map[string]signal.Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.publishLocked(signals, true)
}

func (p *Publisher) publishLocked(signals map[string]signal.Signal, finalize bool) error {
	var firstErr error
	for _, store := range p.stores {
		if err := store.WriteLatest(signals); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := p.appendHistoryLocked(signals); err != nil && firstErr == nil {
		firstErr = err
	}
	if finalize && p.readyEnc != nil {
		if err := p.readyEnc.Encode(signals); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("append readiness: %w", err)
		}
	}
	p.ledger.Record(signals)
	return firstErr
}

// MarkFinalize reports whether a finalize batch may be emitted for the
// window opening at open, and records it. At most one finalize per window.
func (p *Publisher) MarkFinalize(open time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finalized.Equal(open) {
		return false
	}
	p.finalized = open
	return true
}

// Ledger exposes the in-memory record of recent emissions.
func (p *Publisher) Ledger() *Ledger { return p.ledger }

// Close releases the log file handles.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	if p.history != nil {
		firstErr = p.history.Close()
		p.history = nil
	}
	if p.ready != nil {
		if err := p.ready.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.ready = nil
	}
	return firstErr
}

func (p *Publisher) appendHistoryLocked(signals map[string]signal.Signal) error {
	if p.histEnc == nil {
		return nil
	}
	if err := p.histEnc.Encode(signals); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}
