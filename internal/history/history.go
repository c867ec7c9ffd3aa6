// Package history keeps the verdicts of the previous run of each corpus so
// the next run can report what changed.
package history

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"rtest/internal/corpus"
	"rtest/internal/result"
)

// schemaVersion is bumped whenever Snapshot changes shape.
const schemaVersion uint16 = 1

// Key identifies a corpus run: its directory, mode and subject.
type Key [sha256.Size]byte

// KeyFor hashes the identity of a run. The corpus directory is made absolute
// so the same corpus gets the same key from any working directory.
func KeyFor(corpusDir string, mode corpus.Mode, subject string) Key {
	if abs, err := filepath.Abs(corpusDir); err == nil {
		corpusDir = abs
	}
	h := sha256.New()
	for _, part := range []string{corpusDir, mode.String(), subject} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// String returns the hex form of the key.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Record is the stored verdict of one unit.
type Record struct {
	Name      string
	Index     uint32
	Passed    bool
	ExitCode  int32
	Failure   uint8 // result.Kind, 0 when passed
	Stream    uint8 // result.Stream
	ElapsedMS float64
}

// Snapshot is the stored verdict of one run.
type Snapshot struct {
	Schema  uint16
	Corpus  string
	Taken   time.Time
	Records []Record
}

// NewSnapshot records outcomes.
func NewSnapshot(corpusDir string, outcomes []result.Outcome) (*Snapshot, error) {
	snap := &Snapshot{
		Schema:  schemaVersion,
		Corpus:  corpusDir,
		Taken:   time.Now().UTC(),
		Records: make([]Record, 0, len(outcomes)),
	}
	for i := range outcomes {
		o := &outcomes[i]
		index, err := safecast.Conv[uint32](o.Index)
		if err != nil {
			return nil, fmt.Errorf("unit %s: index: %w", o.Name(), err)
		}
		code, err := safecast.Conv[int32](o.ExitCode)
		if err != nil {
			return nil, fmt.Errorf("unit %s: exit code: %w", o.Name(), err)
		}
		rec := Record{
			Name:      o.Name(),
			Index:     index,
			Passed:    o.Passed,
			ExitCode:  code,
			ElapsedMS: float64(o.Elapsed) / float64(time.Millisecond),
		}
		if o.Failure != nil {
			rec.Failure = uint8(o.Failure.Kind())
			rec.Stream = uint8(result.StreamOf(o.Failure))
		}
		snap.Records = append(snap.Records, rec)
	}
	return snap, nil
}

// Equivalent reports whether two snapshots hold the same verdicts, ignoring
// timing.
func Equivalent(a, b *Snapshot) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Records) != len(b.Records) {
		return false
	}
	for i := range a.Records {
		x, y := a.Records[i], b.Records[i]
		x.ElapsedMS, y.ElapsedMS = 0, 0
		if x != y {
			return false
		}
	}
	return true
}

// Changes lists units whose verdict flipped between two runs.
type Changes struct {
	// Regressions passed before and fail now.
	Regressions []string
	// Fixes failed before and pass now.
	Fixes []string
}

// Empty reports whether nothing flipped.
func (c Changes) Empty() bool {
	return len(c.Regressions) == 0 && len(c.Fixes) == 0
}

// Compare matches units by name. Units present in only one run are ignored.
func Compare(prev, cur *Snapshot) Changes {
	var changes Changes
	if prev == nil || cur == nil {
		return changes
	}
	before := make(map[string]bool, len(prev.Records))
	for _, rec := range prev.Records {
		before[rec.Name] = rec.Passed
	}
	for _, rec := range cur.Records {
		passed, ok := before[rec.Name]
		if !ok || passed == rec.Passed {
			continue
		}
		if passed {
			changes.Regressions = append(changes.Regressions, rec.Name)
		} else {
			changes.Fixes = append(changes.Fixes, rec.Name)
		}
	}
	return changes
}

// Store keeps one snapshot per key on disk. Safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Open returns the store under $XDG_CACHE_HOME/<app>/runs, falling back to
// ~/.cache.
func Open(app string) (*Store, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app, "runs"))
}

// OpenDir returns a store rooted at dir, creating it.
func OpenDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) pathFor(key Key) string {
	return filepath.Join(s.dir, key.String()+".mp")
}

// Put writes snap atomically, replacing any previous snapshot for key.
func (s *Store) Put(key Key, snap *Snapshot) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := msgpack.NewEncoder(f).Encode(snap); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.pathFor(key))
}

// Get reads the snapshot stored for key. A missing snapshot, or one written
// with another schema, reports false.
func (s *Store) Get(key Key) (*Snapshot, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	// #nosec G304 -- path is derived from a hash inside the cache directory
	f, err := os.Open(s.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()

	var snap Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return nil, false, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Schema != schemaVersion {
		return nil, false, nil
	}
	return &snap, true, nil
}
