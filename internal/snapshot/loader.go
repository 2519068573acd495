// Package snapshot loads the canonical JSON snapshot file and produces the
// normalized in-memory record set the filter and aggregation engines work
// over. Loads are cached per (path, file signature) so repeated queries do
// not re-parse an unchanged file.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"
	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/monitoring"
)

// ErrMalformedSnapshot means the snapshot file exists but is not valid JSON.
// A missing file is not an error; it is the empty "no data yet" state.
var ErrMalformedSnapshot = errors.New("malformed snapshot file")

// rawSnapshot mirrors the canonical snapshot file layout. Record fields use
// interface{} where upstream is known to emit mixed types.
type rawSnapshot struct {
	GeneratedAt string                   `json:"generated_at"`
	InputFile   string                   `json:"input_file"`
	Tabs        []string                 `json:"tabs"`
	Records     []map[string]interface{} `json:"records"`
}

// cacheEntry pairs a parsed snapshot with the file signature it was built
// from. A signature mismatch invalidates the entry.
type cacheEntry struct {
	signature string
	snapshot  *models.Snapshot
}

// Loader reads and normalizes snapshot files.
type Loader struct {
	mu      sync.Mutex // one in-flight load per loader; later callers hit the cache
	cache   *gocache.Cache
	metrics *monitoring.Metrics
	log     *zap.Logger
}

// NewLoader creates a Loader. Entries never expire on their own; they are
// replaced when the underlying file changes and dropped on Invalidate.
func NewLoader(metrics *monitoring.Metrics, log *zap.Logger) *Loader {
	return &Loader{
		cache:   gocache.New(gocache.NoExpiration, 0),
		metrics: metrics,
		log:     log,
	}
}

// Load returns the Snapshot for the file at path.
//
// A nonexistent path yields the empty "no data yet" snapshot without error.
// Invalid JSON yields ErrMalformedSnapshot. A JSON document without a
// records collection is treated the same as an empty snapshot.
func (l *Loader) Load(path string) (*models.Snapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return models.EmptySnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}

	sig := fmt.Sprintf("%d:%d", info.Size(), info.ModTime().UnixNano())
	if v, ok := l.cache.Get(path); ok {
		if entry := v.(*cacheEntry); entry.signature == sig {
			l.metrics.RecordCacheHit()
			return entry.snapshot, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		l.metrics.RecordLoad("error")
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		l.metrics.RecordLoad("malformed")
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	snap := &models.Snapshot{
		Records:     make([]models.KycRecord, 0, len(raw.Records)),
		GeneratedAt: raw.GeneratedAt,
		InputFile:   raw.InputFile,
		ManagerTabs: raw.Tabs,
	}
	for _, rec := range raw.Records {
		snap.Records = append(snap.Records, normalizeRecord(rec))
	}

	l.cache.Set(path, &cacheEntry{signature: sig, snapshot: snap}, gocache.NoExpiration)
	l.metrics.RecordLoad("ok")
	l.log.Info("snapshot loaded",
		zap.String("path", path),
		zap.Int("records", len(snap.Records)),
		zap.String("signature", sig))

	return snap, nil
}

// Invalidate drops the cached snapshot for path, forcing the next Load to
// re-parse the file.
func (l *Loader) Invalidate(path string) {
	l.cache.Delete(path)
}
