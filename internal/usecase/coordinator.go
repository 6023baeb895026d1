package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"portfolio-server/internal/domain"
)

// SnapshotStore is the primary system of record (the hosted table store).
type SnapshotStore interface {
	FetchSnapshot(ctx context.Context) (*domain.Snapshot, bool)
	SaveSnapshot(ctx context.Context, p *domain.Patch) bool
}

// MirrorStore is an opportunistic backup target (the GitHub JSON file),
// only consulted on read when the primary is unavailable and only written
// by an explicit admin action.
type MirrorStore interface {
	FetchSnapshot(ctx context.Context) (*domain.Snapshot, bool)
	SaveSnapshot(ctx context.Context, s *domain.Snapshot, credential, message string) bool
}

// CacheStore is the local last-resort continuity store.
type CacheStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Remove(key string) error
}

// Cache keys, one per snapshot field. These are a stable persisted-state
// contract; renaming one orphans previously cached data.
var cacheKeys = map[string]string{
	domain.SectionExperiences: "dev_portfolio_experiences",
	domain.SectionEducation:   "dev_portfolio_education",
	domain.SectionSkills:      "dev_portfolio_skills",
	domain.SectionSocials:     "dev_portfolio_socials",
	domain.SectionLogos:       "dev_portfolio_logos",
	domain.SectionBrands:      "dev_portfolio_brands",
	domain.SectionHero:        "dev_portfolio_hero_content",
	domain.SectionWhatsapp:    "dev_portfolio_whatsapp",
	domain.SectionPDF:         "dev_portfolio_resume_pdf",
}

const keyGithubToken = "github_token"

// ErrNoCredential means a GitHub sync was requested with no stored token;
// the caller should prompt for one. No network call was attempted.
var ErrNoCredential = errors.New("github credential not configured")

// ErrMirrorRejected means the GitHub store refused the write (bad token,
// stale content version, or the backend was unreachable).
var ErrMirrorRejected = errors.New("github sync rejected")

// Coordinator owns the multi-store persistence policy: which store is
// authoritative on load, how admin mutations fan out, and how empty or
// partial remote data is reconciled against the built-in defaults.
//
// Writes are a best-effort broadcast, not a transaction: the cache is
// written synchronously, the table store asynchronously, the GitHub
// mirror only on explicit request. Stores may lag or fail independently;
// the read-side fallback chain is the compensating mechanism.
type Coordinator struct {
	mu      sync.Mutex
	primary SnapshotStore
	mirror  MirrorStore
	cache   CacheStore

	current *domain.Snapshot
}

func NewCoordinator(primary SnapshotStore, mirror MirrorStore, cache CacheStore) *Coordinator {
	return &Coordinator{primary: primary, mirror: mirror, cache: cache}
}

// Load returns the resolved snapshot, resolving it from the stores on
// first call and serving the in-memory copy afterwards. Invalidate forces
// the next Load to resolve again.
func (c *Coordinator) Load(ctx context.Context) *domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		c.current = c.resolve(ctx)
	}
	return c.current.Clone()
}

// Invalidate drops the in-memory snapshot. It is the coarse
// resynchronize-everything barrier used after an import.
func (c *Coordinator) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// resolve runs the load fallback chain: table store, then GitHub JSON
// store, then the local cache, stopping at the first store that answers.
func (c *Coordinator) resolve(ctx context.Context) *domain.Snapshot {
	if snap, ok := c.primary.FetchSnapshot(ctx); ok {
		return c.adoptPrimary(ctx, snap)
	}
	if snap, ok := c.mirror.FetchSnapshot(ctx); ok {
		slog.Info("portfolio loaded from github mirror")
		return c.adoptMirror(snap)
	}
	slog.Info("remote stores unavailable, loading from local cache")
	return c.assembleFromCache()
}

// adoptPrimary resolves a snapshot fetched from the table store:
// per-field default substitution for the three resume fields, a
// fire-and-forget self-healing write-back when any substitution
// happened, and mirroring into the cache. Cached values for the
// non-resume fields are only overwritten when the remote field was
// non-empty, so empty remote data never stomps a populated cache.
func (c *Coordinator) adoptPrimary(ctx context.Context, snap *domain.Snapshot) *domain.Snapshot {
	remoteEmpty := map[string]bool{}
	for _, sec := range domain.Sections {
		remoteEmpty[sec] = snap.SectionEmpty(sec)
	}

	healed := snap.ApplyDefaults()
	if remoteEmpty[domain.SectionHero] {
		snap.HeroContent = domain.DefaultHeroContent()
	} else {
		snap.RepairHero()
	}

	if len(healed) > 0 {
		slog.Info("self-healing table store", "fields", healed)
		back := snap.Clone()
		go func() {
			if !c.primary.SaveSnapshot(context.Background(), back.AsPatch()) {
				slog.Warn("self-healing write-back failed")
			}
		}()
	}

	for _, sec := range domain.Sections {
		switch sec {
		case domain.SectionExperiences, domain.SectionEducation, domain.SectionSkills:
			c.cacheSection(snap, sec)
		default:
			if !remoteEmpty[sec] {
				c.cacheSection(snap, sec)
			}
		}
	}
	return snap
}

// adoptMirror resolves a snapshot fetched from the GitHub JSON store:
// same per-field defaulting, then every field is written to the cache
// unconditionally.
func (c *Coordinator) adoptMirror(snap *domain.Snapshot) *domain.Snapshot {
	snap.ApplyDefaults()
	snap.RepairHero()
	for _, sec := range domain.Sections {
		c.cacheSection(snap, sec)
	}
	return snap
}

// assembleFromCache builds the full snapshot from the cache store alone,
// best-effort: each field key is read independently and any absent or
// undecodable key keeps the in-memory default.
func (c *Coordinator) assembleFromCache() *domain.Snapshot {
	snap := domain.DefaultSnapshot()
	for _, sec := range domain.Sections {
		raw, ok := c.cache.Get(cacheKeys[sec])
		if !ok {
			continue
		}
		if err := snap.SetSection(sec, raw); err != nil {
			slog.Warn("cached field undecodable", "section", sec, "error", err)
		}
	}
	snap.RepairHero()
	return snap
}

func (c *Coordinator) cacheSection(snap *domain.Snapshot, section string) {
	val, err := snap.SectionValue(section)
	if err != nil {
		return
	}
	if err := c.cache.Set(cacheKeys[section], val); err != nil {
		slog.Warn("cache write failed", "section", section, "error", err)
	}
}

// UpdateSection applies one admin mutation: the in-memory snapshot and
// the cache are updated synchronously, then the full snapshot is pushed
// to the table store in the background. Within one edit the cache always
// reflects the new value before any remote call is issued; auto-save
// failures are logged only.
func (c *Coordinator) UpdateSection(ctx context.Context, section string, raw []byte) error {
	key, ok := cacheKeys[section]
	if !ok {
		return domain.ErrUnknownSection
	}

	c.mu.Lock()
	if c.current == nil {
		c.current = c.resolve(ctx)
	}
	if err := c.current.SetSection(section, raw); err != nil {
		c.mu.Unlock()
		return err
	}
	c.current.AssignIDs(section)
	val, err := c.current.SectionValue(section)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.cache.Set(key, val); err != nil {
		// fatal for this write only; the in-memory state is still current
		slog.Warn("cache write failed", "section", section, "error", err)
	}
	c.mu.Unlock()

	go func() {
		if !c.primary.SaveSnapshot(context.Background(), c.assembleFromCache().AsPatch()) {
			slog.Warn("auto-save to table store failed", "section", section)
		}
	}()
	return nil
}

// SaveAll pushes the full assembled snapshot to the table store and
// reports the outcome. This is the explicit "save" action with a
// user-visible acknowledgment, unlike the auto-save path.
func (c *Coordinator) SaveAll(ctx context.Context) bool {
	return c.primary.SaveSnapshot(ctx, c.assembleFromCache().AsPatch())
}

// SyncToGitHub pushes the full snapshot to the JSON mirror. The
// credential lives in the cache store; without one the operation
// short-circuits before any network call.
func (c *Coordinator) SyncToGitHub(ctx context.Context, message string) error {
	token, ok := c.cache.Get(keyGithubToken)
	if !ok || len(token) == 0 {
		return ErrNoCredential
	}
	if message == "" {
		message = "Update portfolio data"
	}
	if !c.mirror.SaveSnapshot(ctx, c.assembleFromCache(), string(token), message) {
		return ErrMirrorRejected
	}
	return nil
}

// SetCredential stores the GitHub write token in the cache store.
func (c *Coordinator) SetCredential(token string) error {
	return c.cache.Set(keyGithubToken, []byte(token))
}

// ClearCredential forgets the stored GitHub token.
func (c *Coordinator) ClearCredential() error {
	return c.cache.Remove(keyGithubToken)
}

// Export packages the full resolved snapshot with an export timestamp.
func (c *Coordinator) Export(ctx context.Context) *domain.ExportDocument {
	return &domain.ExportDocument{
		Snapshot:   *c.Load(ctx),
		ExportedAt: time.Now().Format(time.RFC3339),
	}
}

// Import merges an export document into the cache store, overwriting
// only the keys present in the document, then invalidates the in-memory
// snapshot so the next load re-resolves from persisted state.
func (c *Coordinator) Import(raw []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}

	tmp := &domain.Snapshot{}
	for _, sec := range domain.Sections {
		val, present := doc[sec]
		if !present {
			continue
		}
		// round-trip through the snapshot so imported values get the same
		// normalization as edits (whatsapp digits, string encoding)
		if err := tmp.SetSection(sec, val); err != nil {
			return err
		}
		enc, err := tmp.SectionValue(sec)
		if err != nil {
			return err
		}
		if err := c.cache.Set(cacheKeys[sec], enc); err != nil {
			return err
		}
	}

	c.Invalidate()
	return nil
}
