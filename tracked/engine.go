package tracked

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"modlist-manager/db"
	"modlist-manager/ingest"
	"modlist-manager/nexus"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const DefaultRateLimit = 25.0

// Catalog is the slice of the Nexus client a sync needs.
type Catalog interface {
	ListTrackedMods(ctx context.Context) ([]nexus.TrackedModRef, error)
	GetMod(ctx context.Context, domain string, modID int) (*nexus.ModDetailRecord, error)
}

type WarningKind int

const (
	WarnFetchFailed WarningKind = iota
	WarnUnpublished
	WarnGameMissing
)

func (k WarningKind) String() string {
	switch k {
	case WarnFetchFailed:
		return "fetch failed"
	case WarnUnpublished:
		return "unpublished"
	case WarnGameMissing:
		return "game missing"
	}
	return "unknown"
}

// Warning is a non-fatal problem met during a sync.
type Warning struct {
	Kind   WarningKind
	ModID  int
	Domain string
	Err    error
}

func (w Warning) String() string {
	switch w.Kind {
	case WarnGameMissing:
		return fmt.Sprintf("game %q is not known locally; its mods were stored without a game", w.Domain)
	case WarnUnpublished:
		return fmt.Sprintf("mod %d (%s) is not published and was skipped", w.ModID, w.Domain)
	default:
		return fmt.Sprintf("mod %d (%s) could not be fetched: %v", w.ModID, w.Domain, w.Err)
	}
}

// Result summarises a sync. Added and Removed describe the tracked
// modlist; Fetched lists mods pulled from the catalog during backfill.
type Result struct {
	Added    []int
	Removed  []int
	Fetched  []int
	Warnings []Warning
}

func (r *Result) warn(w Warning) {
	r.Warnings = append(r.Warnings, w)
}

type Options struct {
	// RateLimit caps backfill requests per second. Zero uses DefaultRateLimit.
	RateLimit float64
	Logger    *zap.SugaredLogger
	// Now is used for last_updated stamps.
	Now func() time.Time
}

// Engine reconciles each user's tracked modlist with their Nexus Tracking
// Centre.
type Engine struct {
	db        *gorm.DB
	rateLimit float64
	log       *zap.SugaredLogger
	now       func() time.Time
	group     singleflight.Group
}

func NewEngine(gdb *gorm.DB, opts Options) *Engine {
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		db:        gdb,
		rateLimit: opts.RateLimit,
		log:       opts.Logger,
		now:       opts.Now,
	}
}

// Sync runs one reconciliation for userID. Concurrent calls for the same
// user share a single run: a caller that joins a run in flight gets the
// leader's *Result and error, and its own ctx, catalog and progress channel
// are not used. Cancelling a joiner's ctx does not stop the shared run.
// The shared *Result must be treated as read-only.
//
// On *ApplyError the returned Result still carries the backfill outcome.
func (e *Engine) Sync(ctx context.Context, userID int, catalog Catalog, progress chan<- Progress) (*Result, error) {
	v, err, shared := e.group.Do(strconv.Itoa(userID), func() (any, error) {
		return e.sync(ctx, userID, catalog, progress)
	})
	if shared {
		e.log.Infow("Joined in-flight sync", zap.Int("user", userID))
	}
	res, _ := v.(*Result)
	return res, err
}

type domainGroup struct {
	domain string
	ids    []int
}

// groupByDomain keeps first-seen order of domains and drops duplicate ids.
func groupByDomain(refs []nexus.TrackedModRef) ([]domainGroup, []int) {
	var groups []domainGroup
	index := make(map[string]int)
	seen := make(map[int]struct{}, len(refs))
	remote := make([]int, 0, len(refs))
	for _, ref := range refs {
		if _, dup := seen[ref.ModID]; dup {
			continue
		}
		seen[ref.ModID] = struct{}{}
		remote = append(remote, ref.ModID)

		i, ok := index[ref.DomainName]
		if !ok {
			i = len(groups)
			index[ref.DomainName] = i
			groups = append(groups, domainGroup{domain: ref.DomainName})
		}
		groups[i].ids = append(groups[i].ids, ref.ModID)
	}
	return groups, remote
}

func (e *Engine) sync(ctx context.Context, userID int, catalog Catalog, progress chan<- Progress) (*Result, error) {
	result := &Result{}
	gdb := e.db.WithContext(ctx)

	sendProgress(progress, fetchingUpdate())
	refs, err := catalog.ListTrackedMods(ctx)
	if err != nil {
		e.log.Warnw("Tracked mods fetch failed", zap.Int("user", userID), zap.Error(err))
		return nil, &FetchError{Err: err}
	}
	groups, remote := groupByDomain(refs)

	current, err := currentMembers(gdb, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracked modlist: %w", err)
	}

	total := 0
	for _, g := range groups {
		total += len(missingIDs(g.ids, current))
	}

	unpublished := make(map[int]struct{})
	limiter := rate.NewLimiter(rate.Limit(e.rateLimit), 1)
	step := 0
	for _, g := range groups {
		missing := missingIDs(g.ids, current)
		if len(missing) == 0 {
			continue
		}

		fetched := make([]nexus.ModRecord, 0, len(missing))
		for _, id := range missing {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
			step++
			sendProgress(progress, backfillUpdate(step, total, g.domain, id))

			detail, err := catalog.GetMod(ctx, g.domain, id)
			if err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				e.log.Warnw("Mod fetch failed", zap.Int("mod", id), zap.String("domain", g.domain), zap.Error(err))
				result.warn(Warning{Kind: WarnFetchFailed, ModID: id, Domain: g.domain, Err: err})
				continue
			}
			if !detail.Published() {
				unpublished[id] = struct{}{}
				result.warn(Warning{Kind: WarnUnpublished, ModID: id, Domain: g.domain})
				continue
			}
			record := detail.ModRecord
			record.ModID = id
			fetched = append(fetched, record)
		}

		if err := e.storeFetched(gdb, g.domain, fetched, result); err != nil {
			return result, err
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	sendProgress(progress, reconcileUpdate())
	err = gdb.Transaction(func(tx *gorm.DB) error {
		return e.reconcile(tx, userID, remote, unpublished, result)
	})
	if err != nil {
		e.log.Warnw("Tracked modlist reconcile failed", zap.Int("user", userID), zap.Error(err))
		return result, &ApplyError{Err: err}
	}

	e.log.Infow("Tracked mods synced",
		zap.Int("user", userID),
		zap.Int("remote", len(remote)),
		zap.Int("added", len(result.Added)),
		zap.Int("removed", len(result.Removed)),
		zap.Int("warnings", len(result.Warnings)),
	)
	sendProgress(progress, doneUpdate(result))
	return result, nil
}

// storeFetched commits one domain's backfill on its own.
func (e *Engine) storeFetched(gdb *gorm.DB, domain string, records []nexus.ModRecord, result *Result) error {
	if len(records) == 0 {
		return nil
	}
	mods := ingest.NormalizeMods(records, true)

	game, err := db.GameByDomain(gdb, domain)
	if errors.Is(err, db.ErrGameNotFound) {
		result.warn(Warning{Kind: WarnGameMissing, Domain: domain})
		game = nil
	} else if err != nil {
		return fmt.Errorf("failed to resolve game %s: %w", domain, err)
	}

	if err := ingest.StoreModsForGame(gdb, game, mods); err != nil {
		return fmt.Errorf("failed to store tracked mods for %s: %w", domain, err)
	}
	result.Fetched = append(result.Fetched, ingest.ModIDs(mods)...)
	return nil
}

func (e *Engine) reconcile(tx *gorm.DB, userID int, remote []int, unpublished map[int]struct{}, result *Result) error {
	ml, err := db.EnsureTrackedModlist(tx, userID)
	if err != nil {
		return err
	}
	current, err := db.MemberIDs(tx, ml.ID)
	if err != nil {
		return err
	}

	target := make([]int, 0, len(remote))
	for _, id := range remote {
		if _, skip := unpublished[id]; !skip {
			target = append(target, id)
		}
	}
	known, err := db.ExistingModIDs(tx, target)
	if err != nil {
		return err
	}

	d := diffMembership(current, target, known)
	if d.empty() {
		return nil
	}

	if err := db.AddMembers(tx, ml.ID, d.add); err != nil {
		return err
	}
	if err := db.RemoveMembers(tx, ml.ID, d.remove); err != nil {
		return err
	}
	if _, err := db.MarkNSFWIfAny(tx, ml.ID, d.add); err != nil {
		return err
	}
	if err := db.AssignGamesForMods(tx, ml.ID, d.add); err != nil {
		return err
	}
	if len(d.remove) > 0 {
		if err := db.RetractOrphanedGames(tx, ml.ID); err != nil {
			return err
		}
	}
	if err := db.TouchModlist(tx, ml.ID, e.now()); err != nil {
		return err
	}

	result.Added = d.add
	result.Removed = d.remove
	return nil
}

func currentMembers(gdb *gorm.DB, userID int) (map[int]struct{}, error) {
	ml, err := db.FindTrackedModlist(gdb, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return map[int]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	ids, err := db.MemberIDs(gdb, ml.ID)
	if err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

func missingIDs(ids []int, current map[int]struct{}) []int {
	var missing []int
	for _, id := range ids {
		if _, ok := current[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

type membershipDiff struct {
	add    []int
	remove []int
}

func (d membershipDiff) empty() bool {
	return len(d.add) == 0 && len(d.remove) == 0
}

// diffMembership computes the changes that make current equal to
// target ∩ known. Both slices come back sorted.
func diffMembership(current, target, known []int) membershipDiff {
	cur := toSet(current)
	tgt := toSet(target)
	kn := toSet(known)

	var d membershipDiff
	for id := range tgt {
		if _, ok := kn[id]; !ok {
			continue
		}
		if _, ok := cur[id]; !ok {
			d.add = append(d.add, id)
		}
	}
	for id := range cur {
		_, inTarget := tgt[id]
		_, isKnown := kn[id]
		if !inTarget || !isKnown {
			d.remove = append(d.remove, id)
		}
	}
	sort.Ints(d.add)
	sort.Ints(d.remove)
	return d
}

func toSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
