package extract

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fidpulse/fidpulse/internal/domain/models"
)

// Extractor reads one bank/brokerage export format and produces
// transactions plus a content fingerprint for duplicate-import detection.
//
// Outcomes that are expected rather than exceptional are signaled through
// return values, not errors: a format mismatch makes Detect return false,
// and an empty (or fully filtered) file makes Fingerprint return nil.
// Stream I/O failures are the only errors an extractor surfaces.
type Extractor interface {
	// Name returns the registered name of the format, e.g. "fidelity".
	Name() string

	// Detect reports whether the source matches this extractor's format.
	Detect() bool

	// Fingerprint computes the identity of the file's content as of its
	// first accepted row. A nil fingerprint with a nil error means there
	// is nothing to fingerprint; callers must check for it explicitly.
	Fingerprint() (*models.Fingerprint, error)

	// Extract returns a fresh iterator over the file's transactions.
	// The sequence is lazy, finite, and restartable: every call re-reads
	// the rewound source, so repeated calls yield the same transactions
	// as long as the underlying stream is unchanged.
	Extract() TransactionIter
}

// TransactionIter iterates over extracted transactions in the sql.Rows
// style:
//
//	it := ext.Extract()
//	for it.Next() {
//		tx := it.Transaction()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
//
// Abandoning a partially-drained iterator is safe and has no side effects.
type TransactionIter interface {
	Next() bool
	Transaction() models.Transaction
	Err() error
}

// Factory builds an extractor bound to a source. Construction may read the
// stream (the fidelity extractor pre-counts rows), so it can fail on I/O.
type Factory func(src *Source) (Extractor, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes an extractor factory available under the given name.
// It is intended to be called from package init functions, the same way
// database/sql drivers register themselves. Registering a duplicate or
// nil factory panics.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("extract: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("extract: Register called twice for extractor " + name)
	}
	registry[name] = factory
}

// Names returns the sorted names of all registered extractors.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named extractor for src.
func New(name string, src *Source) (Extractor, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("extract: unknown extractor %q", name)
	}
	return factory(src)
}

// Detect tries every registered extractor against src in name order and
// returns the first one that claims the format. A nil extractor with a
// nil error means no registered format matched, which callers treat as a
// skip, not a failure.
func Detect(src *Source) (Extractor, error) {
	for _, name := range Names() {
		ext, err := New(name, src)
		if err != nil {
			return nil, fmt.Errorf("extract: build %s: %w", name, err)
		}
		if ext.Detect() {
			return ext, nil
		}
	}
	return nil, nil
}
