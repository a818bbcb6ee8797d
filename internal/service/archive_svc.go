package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Creativityliberty/Trace-AI/internal/model"
	"github.com/Creativityliberty/Trace-AI/internal/storage"
)

const (
	// archiveKey is the versioned persistence key; legacyArchiveKey is read
	// once at startup for archives written before the key was versioned.
	archiveKey       = "trace:archive:v2"
	legacyArchiveKey = "trace:archive"
)

// ArchiveService owns the persisted history of extraction runs: an ordered,
// most-recent-first list with at most one entry per video id. Every
// mutation is followed by a persistence attempt; persistence failures are
// contained here and never surface to callers.
type ArchiveService struct {
	store          storage.Store
	maxItems       int
	keepThumbnails int
	log            zerolog.Logger

	mu    sync.Mutex
	items []model.ExtractionResult
}

func NewArchiveService(store storage.Store, maxItems, keepThumbnails int, logger zerolog.Logger) *ArchiveService {
	return &ArchiveService{
		store:          store,
		maxItems:       maxItems,
		keepThumbnails: keepThumbnails,
		log:            logger,
	}
}

// Load reads the persisted archive, falling back to the legacy key. Parse
// failures and structurally invalid entries yield an empty or filtered
// archive, never an error.
func (s *ArchiveService) Load(ctx context.Context) []model.ExtractionResult {
	data, err := s.store.Read(ctx, archiveKey)
	if err != nil {
		data, err = s.store.Read(ctx, legacyArchiveKey)
	}
	if err != nil {
		if err != storage.ErrNotFound {
			s.log.Warn().Err(err).Msg("archive read failed, starting empty")
		}
		return s.List()
	}

	items := decodeArchive(data, s.log)
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return s.List()
}

// decodeArchive parses a persisted archive blob, silently dropping entries
// without a truthy id or an array-typed tools field.
func decodeArchive(data []byte, log zerolog.Logger) []model.ExtractionResult {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warn().Err(err).Msg("archive blob not a JSON array, starting empty")
		return nil
	}

	items := make([]model.ExtractionResult, 0, len(raw))
	for _, entry := range raw {
		var probe struct {
			ID    string          `json:"id"`
			Tools json.RawMessage `json:"tools"`
		}
		if err := json.Unmarshal(entry, &probe); err != nil {
			continue
		}
		if probe.ID == "" || !isJSONArray(probe.Tools) {
			continue
		}
		var res model.ExtractionResult
		if err := json.Unmarshal(entry, &res); err != nil {
			continue
		}
		items = append(items, res)
	}
	return items
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

// Upsert inserts a result at the front, replacing any existing entry with
// the same id, truncates to the configured maximum, and persists.
func (s *ArchiveService) Upsert(ctx context.Context, res model.ExtractionResult) []model.ExtractionResult {
	s.mu.Lock()
	next := make([]model.ExtractionResult, 0, len(s.items)+1)
	next = append(next, res)
	for _, it := range s.items {
		if it.ID != res.ID {
			next = append(next, it)
		}
	}
	if len(next) > s.maxItems {
		next = next[:s.maxItems]
	}
	s.items = next
	s.persistLocked(ctx)
	s.mu.Unlock()

	return s.List()
}

// Delete removes the entry with the given id and persists. It reports
// whether an entry was removed.
func (s *ArchiveService) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	next := s.items[:0]
	for _, it := range s.items {
		if it.ID == id {
			found = true
			continue
		}
		next = append(next, it)
	}
	if !found {
		return false
	}
	s.items = next
	s.persistLocked(ctx)
	return true
}

// Get returns the archived result for a video id.
func (s *ArchiveService) Get(id string) (model.ExtractionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return model.ExtractionResult{}, false
}

// List returns a copy of the archive, most recent first.
func (s *ArchiveService) List() []model.ExtractionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ExtractionResult, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the current archive length.
func (s *ArchiveService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persistLocked writes the archive with thumbnail pruning applied. On a
// capacity rejection it retries exactly once with a harder prune (drop the
// oldest 30% of entries, strip every thumbnail); if that still fails, the
// previously persisted state is left as-is and only a log line is emitted.
// In-memory state is never rolled back. Caller must hold s.mu.
func (s *ArchiveService) persistLocked(ctx context.Context) {
	snapshot := cloneResults(s.items)
	for i := range snapshot {
		if i >= s.keepThumbnails {
			stripThumbnails(&snapshot[i])
		}
	}

	err := s.write(ctx, snapshot)
	if err == nil {
		return
	}
	if err != storage.ErrCapacityExceeded {
		s.log.Error().Err(err).Msg("archive persist failed")
		return
	}

	// Degraded retry: keep the newest ~70%, no thumbnails at all.
	keep := len(snapshot) - len(snapshot)*3/10
	degraded := snapshot[:keep]
	for i := range degraded {
		stripThumbnails(&degraded[i])
	}
	if err := s.write(ctx, degraded); err != nil {
		s.log.Error().Err(err).Int("entries", keep).Msg("archive persist failed after degraded retry")
	}
}

func (s *ArchiveService) write(ctx context.Context, items []model.ExtractionResult) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.store.Write(ctx, archiveKey, data)
}

func stripThumbnails(res *model.ExtractionResult) {
	for i := range res.Tools {
		res.Tools[i].AIThumbnail = ""
	}
}

// cloneResults copies the list and each entry's tools slice so pruning the
// snapshot never mutates the in-memory archive.
func cloneResults(items []model.ExtractionResult) []model.ExtractionResult {
	out := make([]model.ExtractionResult, len(items))
	copy(out, items)
	for i := range out {
		tools := make([]model.ToolMention, len(out[i].Tools))
		copy(tools, out[i].Tools)
		out[i].Tools = tools
	}
	return out
}
