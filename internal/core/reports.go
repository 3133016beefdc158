package core

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"

	"github.com/google/uuid"

	"github.com/vare7/cloud-db-inventory/internal/database"
	"github.com/vare7/cloud-db-inventory/internal/inventory"
)

// Stats is the inventory summary shown on the dashboard.
type Stats struct {
	Total          int            `json:"total"`
	ByProvider     map[string]int `json:"by_provider"`
	ByStatus       map[string]int `json:"by_status"`
	StorageGBTotal int            `json:"storage_gb_total"`
}

// Metrics counts tracked engine families and their versions.
type Metrics struct {
	RDBMSCounts      map[string]int            `json:"rdbms_counts"`
	RDBMSPercentages map[string]float64        `json:"rdbms_percentages"`
	VersionCounts    map[string]map[string]int `json:"version_counts"`
}

// UpgradeCandidate is a record running an engine version due for upgrade.
type UpgradeCandidate struct {
	inventory.Record
	Family string `json:"family"`
	Reason string `json:"reason"`
}

// Upgrades lists records needing an engine upgrade.
type Upgrades struct {
	Total     int                `json:"total"`
	ByEngine  map[string]int     `json:"by_engine"`
	Databases []UpgradeCandidate `json:"databases"`
}

// DuplicateGroup is a set of stored records sharing one duplicate key.
type DuplicateGroup struct {
	Key      string             `json:"key"`
	Provider inventory.Provider `json:"provider"`
	Service  string             `json:"service"`
	Region   string             `json:"region"`
	Count    int                `json:"count"`
	Records  []inventory.Record `json:"records"`
}

// DuplicateReport lists all duplicate groups.
type DuplicateReport struct {
	Groups       []DuplicateGroup `json:"groups"`
	GroupsCount  int              `json:"groups_count"`
	RecordsCount int              `json:"records_count"`
}

// ResolvedGroup records which member of a duplicate group survived.
type ResolvedGroup struct {
	Key         string      `json:"key"`
	KeptID      uuid.UUID   `json:"kept_id"`
	KeptVersion string      `json:"kept_version"`
	DeletedIDs  []uuid.UUID `json:"deleted_ids"`
}

// ResolveResult summarizes a keep-latest duplicate resolution.
type ResolveResult struct {
	KeysProcessed int             `json:"keys_processed"`
	KeptCount     int             `json:"kept_count"`
	DeletedCount  int             `json:"deleted_count"`
	KeptIDs       []uuid.UUID     `json:"kept_ids"`
	DeletedIDs    []uuid.UUID     `json:"deleted_ids"`
	Details       []ResolvedGroup `json:"details"`
}

// FilterOptions are the distinct values offered by the listing filters.
type FilterOptions struct {
	Regions       []string `json:"regions"`
	Engines       []string `json:"engines"`
	Versions      []string `json:"versions"`
	Subscriptions []string `json:"subscriptions"`
}

// ComputeStats summarizes recs.
func ComputeStats(recs []inventory.Record) Stats {
	st := Stats{
		Total:      len(recs),
		ByProvider: make(map[string]int),
		ByStatus:   make(map[string]int),
	}
	for _, r := range recs {
		st.ByProvider[string(r.Provider)]++
		st.ByStatus[string(r.Status)]++
		st.StorageGBTotal += r.StorageGB
	}
	return st
}

// ComputeMetrics counts records per tracked engine family. Percentages are of
// the tracked total and rounded to two decimals.
func ComputeMetrics(recs []inventory.Record) Metrics {
	m := Metrics{
		RDBMSCounts:      make(map[string]int, len(trackedFamilies)),
		RDBMSPercentages: make(map[string]float64, len(trackedFamilies)),
		VersionCounts:    make(map[string]map[string]int, len(trackedFamilies)),
	}
	for _, f := range trackedFamilies {
		m.RDBMSCounts[f] = 0
		m.VersionCounts[f] = make(map[string]int)
	}

	tracked := 0
	for _, r := range recs {
		family := EngineFamily(r.Engine)
		if !isTracked(family) {
			continue
		}
		tracked++
		m.RDBMSCounts[family]++
		v := r.Version
		if v == "" {
			v = "unknown"
		}
		m.VersionCounts[family][v]++
	}

	for _, f := range trackedFamilies {
		if tracked == 0 {
			m.RDBMSPercentages[f] = 0
			continue
		}
		pct := float64(m.RDBMSCounts[f]) / float64(tracked) * 100
		m.RDBMSPercentages[f] = math.Round(pct*100) / 100
	}
	return m
}

// ComputeUpgrades returns the records of tracked families whose version is
// unknown or below the supported minimum.
func ComputeUpgrades(recs []inventory.Record) Upgrades {
	up := Upgrades{
		ByEngine:  make(map[string]int, len(trackedFamilies)),
		Databases: []UpgradeCandidate{},
	}
	for _, f := range trackedFamilies {
		up.ByEngine[f] = 0
	}

	for _, r := range recs {
		family := EngineFamily(r.Engine)
		reason := upgradeReason(family, r.Version)
		if reason == "" {
			continue
		}
		up.Databases = append(up.Databases, UpgradeCandidate{Record: r, Family: family, Reason: reason})
		up.ByEngine[family]++
	}
	up.Total = len(up.Databases)
	return up
}

// FindDuplicates groups recs by key and keeps groups with more than one
// member. Groups are ordered by key.
func FindDuplicates(recs []inventory.Record, key inventory.DuplicateKey) DuplicateReport {
	byKey := make(map[string][]inventory.Record)
	var order []string
	for _, r := range recs {
		k := key.Of(r)
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], r)
	}
	sort.Strings(order)

	rep := DuplicateReport{Groups: []DuplicateGroup{}}
	for _, k := range order {
		members := byKey[k]
		if len(members) < 2 {
			continue
		}
		first := members[0]
		rep.Groups = append(rep.Groups, DuplicateGroup{
			Key:      k,
			Provider: first.Provider,
			Service:  first.Service,
			Region:   first.Region,
			Count:    len(members),
			Records:  members,
		})
		rep.RecordsCount += len(members)
	}
	rep.GroupsCount = len(rep.Groups)
	return rep
}

// latestFirst orders records by version descending, then creation time, then
// id, so the first element is the one to keep.
func latestFirst(a, b inventory.Record) int {
	if c := compareVersions(b.Version, a.Version); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID.String(), a.ID.String())
}

// planResolution picks the survivor of every duplicate group.
func planResolution(rep DuplicateReport) ResolveResult {
	res := ResolveResult{
		KeptIDs:    []uuid.UUID{},
		DeletedIDs: []uuid.UUID{},
		Details:    []ResolvedGroup{},
	}
	for _, g := range rep.Groups {
		members := slices.Clone(g.Records)
		slices.SortStableFunc(members, latestFirst)

		keep := members[0]
		group := ResolvedGroup{
			Key:         g.Key,
			KeptID:      keep.ID,
			KeptVersion: keep.Version,
			DeletedIDs:  make([]uuid.UUID, 0, len(members)-1),
		}
		for _, r := range members[1:] {
			group.DeletedIDs = append(group.DeletedIDs, r.ID)
		}

		res.KeptIDs = append(res.KeptIDs, keep.ID)
		res.DeletedIDs = append(res.DeletedIDs, group.DeletedIDs...)
		res.Details = append(res.Details, group)
	}
	res.KeysProcessed = len(rep.Groups)
	res.KeptCount = len(res.KeptIDs)
	res.DeletedCount = len(res.DeletedIDs)
	return res
}

// ComputeFilterOptions returns the sorted distinct non-empty values of recs.
func ComputeFilterOptions(recs []inventory.Record) FilterOptions {
	regions := make(map[string]struct{})
	engines := make(map[string]struct{})
	versions := make(map[string]struct{})
	subs := make(map[string]struct{})
	for _, r := range recs {
		addNonEmpty(regions, r.Region)
		addNonEmpty(engines, r.Engine)
		addNonEmpty(versions, r.Version)
		addNonEmpty(subs, r.Subscription)
	}
	return FilterOptions{
		Regions:       sortedKeys(regions),
		Engines:       sortedKeys(engines),
		Versions:      sortedKeys(versions),
		Subscriptions: sortedKeys(subs),
	}
}

func addNonEmpty(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Stats summarizes the whole inventory.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	recs, err := s.store.ListRecords(ctx, inventory.Filters{})
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(recs), nil
}

// Metrics counts engine families across the inventory.
func (s *Service) Metrics(ctx context.Context) (Metrics, error) {
	recs, err := s.store.ListRecords(ctx, inventory.Filters{})
	if err != nil {
		return Metrics{}, err
	}
	return ComputeMetrics(recs), nil
}

// Upgrades lists records due for an engine upgrade.
func (s *Service) Upgrades(ctx context.Context) (Upgrades, error) {
	recs, err := s.store.ListRecords(ctx, inventory.Filters{})
	if err != nil {
		return Upgrades{}, err
	}
	return ComputeUpgrades(recs), nil
}

// Duplicates lists stored records that share the configured duplicate key.
func (s *Service) Duplicates(ctx context.Context) (DuplicateReport, error) {
	recs, err := s.store.ListRecords(ctx, inventory.Filters{})
	if err != nil {
		return DuplicateReport{}, err
	}
	return FindDuplicates(recs, s.dupKey), nil
}

// ResolveDuplicates keeps the newest record of every duplicate group and
// deletes the rest in one transaction.
func (s *Service) ResolveDuplicates(ctx context.Context) (ResolveResult, error) {
	var res ResolveResult
	err := s.store.WithImportTx(ctx, func(tx database.RecordTx) error {
		recs, err := tx.ListRecords(ctx, inventory.Filters{})
		if err != nil {
			return err
		}
		res = planResolution(FindDuplicates(recs, s.dupKey))
		if len(res.DeletedIDs) == 0 {
			return nil
		}
		n, err := tx.DeleteRecords(ctx, res.DeletedIDs)
		if err != nil {
			return err
		}
		if int(n) != len(res.DeletedIDs) {
			return fmt.Errorf("resolve duplicates: deleted %d of %d records", n, len(res.DeletedIDs))
		}
		return nil
	})
	if err != nil {
		return ResolveResult{}, err
	}

	slog.Info("duplicates resolved",
		"groups", res.KeysProcessed,
		"deleted", res.DeletedCount,
	)
	return res, nil
}

// FilterOptions returns the distinct values for the listing filters.
func (s *Service) FilterOptions(ctx context.Context) (FilterOptions, error) {
	recs, err := s.store.ListRecords(ctx, inventory.Filters{})
	if err != nil {
		return FilterOptions{}, err
	}
	return ComputeFilterOptions(recs), nil
}
