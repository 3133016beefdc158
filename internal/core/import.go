package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vare7/cloud-db-inventory/internal/database"
	"github.com/vare7/cloud-db-inventory/internal/inventory"
	"github.com/vare7/cloud-db-inventory/internal/logging"
	"github.com/vare7/cloud-db-inventory/internal/normalize"
)

// DefaultBatchSize is the number of records written per insert call.
const DefaultBatchSize = 500

// DuplicateReason is reported for records whose key is already stored.
const DuplicateReason = "Already exists in database"

// ImportRequest describes one CSV file to import.
type ImportRequest struct {
	Provider string // "AWS" or "Azure", case-insensitive
	FileName string
	Source   string // "upload", "cli" or "s3://bucket/key"
	Content  []byte
	Purge    bool // delete the provider's records first
	Sync     bool // delete the provider's records missing from this file
}

// DuplicateDetail describes a record that was not created because its key exists.
type DuplicateDetail struct {
	Provider inventory.Provider `json:"provider"`
	Service  string             `json:"service"`
	Region   string             `json:"region"`
	Reason   string             `json:"reason"`
}

// DeletedDetail describes a record removed by sync mode.
type DeletedDetail struct {
	Provider inventory.Provider `json:"provider"`
	Service  string             `json:"service"`
	Engine   string             `json:"engine"`
	Region   string             `json:"region"`
	Endpoint string             `json:"endpoint"`
}

// ImportResult summarizes a finished import.
type ImportResult struct {
	ImportID         uuid.UUID             `json:"import_id"`
	Message          string                `json:"message"`
	Provider         inventory.Provider    `json:"provider"`
	Encoding         string                `json:"encoding"`
	Rows             int                   `json:"rows"`
	Created          int                   `json:"created"`
	Skipped          int                   `json:"skipped"`
	Duplicates       int                   `json:"duplicates"`
	Deleted          int                   `json:"deleted"`
	Purged           int64                 `json:"purged,omitempty"`
	SkippedDetails   []inventory.SkipEntry `json:"skipped_details"`
	DuplicateDetails []DuplicateDetail     `json:"duplicate_details"`
	DeletedDetails   []DeletedDetail       `json:"deleted_details"`
	Duration         time.Duration         `json:"duration_ns"`
}

func (r *ImportResult) summarize() {
	r.Message = fmt.Sprintf("Import completed: %d created, %d skipped, %d duplicates",
		r.Created, r.Skipped, r.Duplicates)
	if r.Deleted > 0 {
		r.Message += fmt.Sprintf(", %d deleted", r.Deleted)
	}
}

// NoValidRecordsError is returned when a non-empty file produced no records.
// Nothing is written in that case.
type NoValidRecordsError struct {
	Provider      inventory.Provider
	Rows          int
	MissingCounts map[string]int
	Skipped       []inventory.SkipEntry
}

func newNoValidRecordsError(p inventory.Provider, res normalize.Result) *NoValidRecordsError {
	return &NoValidRecordsError{
		Provider:      p,
		Rows:          res.Rows,
		MissingCounts: res.MissingFieldCounts(),
		Skipped:       res.Skipped,
	}
}

func (e *NoValidRecordsError) Error() string {
	var b strings.Builder
	b.WriteString("No valid records found in CSV.")
	if e.Provider.Valid() {
		fmt.Fprintf(&b, " Check that the file is an %s database export with a header row", e.Provider.Label())
		b.WriteString(" and that rows carry a service name and a region.")
	}

	if len(e.MissingCounts) > 0 {
		b.WriteString(" Observed missing field frequencies: ")
		b.WriteString(joinCounts(e.MissingCounts))
		return b.String()
	}

	reasons := make(map[string]int)
	for _, s := range e.Skipped {
		reasons[s.Reason]++
	}
	if len(reasons) > 0 {
		b.WriteString(" Most common skip reasons: ")
		b.WriteString(joinCounts(topCounts(reasons, 3)))
	}
	return b.String()
}

type countEntry struct {
	key string
	n   int
}

// sortedCounts orders by count descending, then key.
func sortedCounts(m map[string]int) []countEntry {
	out := make([]countEntry, 0, len(m))
	for k, n := range m {
		out = append(out, countEntry{k, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].key < out[j].key
	})
	return out
}

func topCounts(m map[string]int, n int) map[string]int {
	entries := sortedCounts(m)
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		out[e.key] = e.n
	}
	return out
}

func joinCounts(m map[string]int) string {
	entries := sortedCounts(m)
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s=%d", e.key, e.n)
	}
	return strings.Join(parts, ", ")
}

// ImportCSV normalizes req.Content and writes the accepted records.
func (s *Service) ImportCSV(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	provider, err := inventory.ParseProvider(req.Provider)
	if err != nil {
		return nil, err
	}
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("empty file: %q has no content", req.FileName)
	}
	if s.maxFileSize > 0 && int64(len(req.Content)) > s.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes exceeds limit of %d", len(req.Content), s.maxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	started := time.Now().UTC()

	res, err := normalize.Normalize(req.Content, provider)
	if err != nil {
		return nil, err
	}
	if res.Rows == 0 {
		return nil, fmt.Errorf("empty file: %q has no data rows", req.FileName)
	}
	if len(res.Accepted) == 0 {
		return nil, newNoValidRecordsError(provider, res)
	}

	out := &ImportResult{
		ImportID:         uuid.New(),
		Provider:         provider,
		Encoding:         res.Encoding,
		Rows:             res.Rows,
		Skipped:          len(res.Skipped),
		SkippedDetails:   res.Skipped,
		DuplicateDetails: []DuplicateDetail{},
		DeletedDetails:   []DeletedDetail{},
	}

	log := logging.WithFields(ctx, "import_id", out.ImportID, "provider", provider, "file", req.FileName)
	log.Debug("import started", "rows", res.Rows, "accepted", len(res.Accepted), "purge", req.Purge, "sync", req.Sync)

	err = s.store.WithImportTx(ctx, func(tx database.RecordTx) error {
		if req.Purge {
			n, err := tx.PurgeProvider(ctx, provider)
			if err != nil {
				return err
			}
			out.Purged = n
		}

		created, dups, err := bulkCreate(ctx, tx, provider, res.Accepted, s.dupKey, s.batchSize)
		if err != nil {
			return err
		}
		out.Created = len(created)
		out.Duplicates = len(dups)
		out.DuplicateDetails = dups

		if req.Sync {
			deleted, err := deleteAbsent(ctx, tx, provider, res.Accepted, s.dupKey)
			if err != nil {
				return err
			}
			out.Deleted = len(deleted)
			out.DeletedDetails = deleted
		}

		return tx.SaveImportRun(ctx, inventory.ImportRun{
			ID:         out.ImportID,
			Provider:   provider,
			FileName:   req.FileName,
			Source:     req.Source,
			Encoding:   res.Encoding,
			Purge:      req.Purge,
			Sync:       req.Sync,
			Created:    out.Created,
			Skipped:    out.Skipped,
			Duplicates: out.Duplicates,
			Deleted:    out.Deleted,
			StartedAt:  started,
			FinishedAt: time.Now().UTC(),
		})
	})
	if err != nil {
		log.Error("import rolled back", "error", err)
		return nil, fmt.Errorf("import %s: %w", provider.Label(), err)
	}

	out.Duration = time.Since(started)
	out.summarize()

	log.Info("import completed",
		"source", req.Source,
		"created", out.Created,
		"skipped", out.Skipped,
		"duplicates", out.Duplicates,
		"deleted", out.Deleted,
		"duration", out.Duration,
	)

	return out, nil
}

// existingScope returns the filter that covers every stored record whose key
// can collide with a record of provider p.
func existingScope(p inventory.Provider, key inventory.DuplicateKey) inventory.Filters {
	if key == inventory.KeyService {
		return inventory.Filters{}
	}
	return inventory.Filters{Provider: p}
}

// bulkCreate inserts records whose key is neither stored nor repeated earlier
// in recs. Insertion order follows recs.
func bulkCreate(ctx context.Context, tx database.RecordTx, p inventory.Provider, recs []inventory.Record, key inventory.DuplicateKey, batchSize int) ([]inventory.Record, []DuplicateDetail, error) {
	existing, err := tx.ListRecords(ctx, existingScope(p, key))
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[string]struct{}, len(existing)+len(recs))
	for _, r := range existing {
		seen[key.Of(r)] = struct{}{}
	}

	fresh := make([]inventory.Record, 0, len(recs))
	dups := []DuplicateDetail{}
	for _, r := range recs {
		k := key.Of(r)
		if _, ok := seen[k]; ok {
			dups = append(dups, DuplicateDetail{
				Provider: r.Provider,
				Service:  r.Service,
				Region:   r.Region,
				Reason:   DuplicateReason,
			})
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, r)
	}

	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	created := make([]inventory.Record, 0, len(fresh))
	for start := 0; start < len(fresh); start += batchSize {
		end := min(start+batchSize, len(fresh))
		batch, err := tx.InsertRecords(ctx, fresh[start:end])
		if err != nil {
			return nil, nil, err
		}
		created = append(created, batch...)
	}

	return created, dups, nil
}

// deleteAbsent removes stored records of provider p whose key does not occur
// in recs.
func deleteAbsent(ctx context.Context, tx database.RecordTx, p inventory.Provider, recs []inventory.Record, key inventory.DuplicateKey) ([]DeletedDetail, error) {
	keep := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		keep[key.Of(r)] = struct{}{}
	}

	stored, err := tx.ListRecords(ctx, inventory.Filters{Provider: p})
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	deleted := []DeletedDetail{}
	for _, r := range stored {
		if _, ok := keep[key.Of(r)]; ok {
			continue
		}
		ids = append(ids, r.ID)
		deleted = append(deleted, DeletedDetail{
			Provider: r.Provider,
			Service:  r.Service,
			Engine:   r.Engine,
			Region:   r.Region,
			Endpoint: r.Endpoint,
		})
	}

	if len(ids) == 0 {
		return deleted, nil
	}
	if _, err := tx.DeleteRecords(ctx, ids); err != nil {
		return nil, err
	}
	return deleted, nil
}
