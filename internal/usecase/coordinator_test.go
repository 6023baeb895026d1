package usecase

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"
	"testing"
	"time"

	"portfolio-server/internal/domain"
)

type fakePrimary struct {
	snap  *domain.Snapshot
	ok    bool
	saves chan *domain.Patch
}

func (f *fakePrimary) FetchSnapshot(ctx context.Context) (*domain.Snapshot, bool) {
	if !f.ok || f.snap == nil {
		return nil, false
	}
	return f.snap.Clone(), true
}

func (f *fakePrimary) SaveSnapshot(ctx context.Context, p *domain.Patch) bool {
	if f.saves != nil {
		f.saves <- p
	}
	return true
}

type fakeMirror struct {
	snap       *domain.Snapshot
	ok         bool
	savedCred  string
	savedMsg   string
	saveCalled bool
}

func (f *fakeMirror) FetchSnapshot(ctx context.Context) (*domain.Snapshot, bool) {
	if !f.ok || f.snap == nil {
		return nil, false
	}
	return f.snap.Clone(), true
}

func (f *fakeMirror) SaveSnapshot(ctx context.Context, s *domain.Snapshot, credential, message string) bool {
	f.saveCalled = true
	f.savedCred = credential
	f.savedMsg = message
	return true
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCache) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), value...)
	return nil
}

func (f *fakeCache) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func validSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Experiences: []domain.Experience{{ID: "10", Role: "Editor", Company: "Studio", Period: "2023", Description: "cutting"}},
		Education:   []domain.Education{{ID: "20", Degree: "Design", Institution: "Institute", Year: "2020"}},
		Skills:      []domain.Skill{{Name: "Premiere", Level: 90}},
		Logos:       []domain.LogoItem{{ID: "30", Title: "Reel", ImageURL: "https://example.com/a.png", Date: "2024"}},
		Brands:      []domain.Brand{{ID: "40", Name: "Acme", Logo: "https://example.com/b.png"}},
		Socials:     domain.SocialLinks{Instagram: "https://instagram.com/x"},
		HeroContent: domain.HeroContent{Title: "Editor", Name: "Lady", Description: "desc", BackgroundType: "gradient", GradientFrom: "#000", GradientVia: "#111", GradientTo: "#222"},
		Whatsapp:    "573001112233",
		PDFData:     "data:application/pdf;base64,AAAA",
	}
}

func TestLoadSubstitutesDefaultsPerFieldAndSelfHeals(t *testing.T) {
	snap := validSnapshot()
	snap.Experiences = []domain.Experience{} // empty, education and skills valid
	primary := &fakePrimary{snap: snap, ok: true, saves: make(chan *domain.Patch, 1)}
	c := NewCoordinator(primary, &fakeMirror{}, newFakeCache())

	got := c.Load(context.Background())

	if !reflect.DeepEqual(got.Experiences, domain.DefaultExperiences()) {
		t.Fatalf("experiences not defaulted: %+v", got.Experiences)
	}
	if len(got.Education) != 1 || got.Education[0].ID != "20" {
		t.Fatalf("education not preserved: %+v", got.Education)
	}
	if len(got.Skills) != 1 || got.Skills[0].Name != "Premiere" {
		t.Fatalf("skills not preserved: %+v", got.Skills)
	}

	select {
	case p := <-primary.saves:
		if p.Experiences == nil || !reflect.DeepEqual(*p.Experiences, domain.DefaultExperiences()) {
			t.Fatalf("write-back does not carry defaulted experiences")
		}
		if p.Education == nil || len(*p.Education) != 1 {
			t.Fatalf("write-back does not carry preserved education")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("self-healing write-back never issued")
	}
}

func TestLoadNoWriteBackWhenComplete(t *testing.T) {
	primary := &fakePrimary{snap: validSnapshot(), ok: true, saves: make(chan *domain.Patch, 1)}
	c := NewCoordinator(primary, &fakeMirror{}, newFakeCache())

	c.Load(context.Background())

	select {
	case <-primary.saves:
		t.Fatal("write-back issued for a complete snapshot")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	primary := &fakePrimary{snap: validSnapshot(), ok: true}
	c := NewCoordinator(primary, &fakeMirror{}, newFakeCache())

	first := c.Load(context.Background())
	c.Invalidate()
	second := c.Load(context.Background())

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two loads with no mutation differ:\n%+v\n%+v", first, second)
	}
}

func TestFallbackToMirrorSkipsPrimaryWrite(t *testing.T) {
	primary := &fakePrimary{ok: false, saves: make(chan *domain.Patch, 1)}
	mirror := &fakeMirror{snap: validSnapshot(), ok: true}
	c := NewCoordinator(primary, mirror, newFakeCache())

	got := c.Load(context.Background())

	if got.Experiences[0].ID != "10" {
		t.Fatalf("snapshot not adopted from mirror: %+v", got.Experiences)
	}
	select {
	case <-primary.saves:
		t.Fatal("table store was written during a mirror fallback load")
	default:
	}
}

func TestFallbackExhaustionUsesCacheThenDefaults(t *testing.T) {
	cache := newFakeCache()
	cachedSkills := []domain.Skill{{Name: "Photoshop", Level: 70}}
	raw, _ := json.Marshal(cachedSkills)
	cache.Set("dev_portfolio_skills", raw)
	cache.Set("dev_portfolio_whatsapp", []byte("573009998877"))

	c := NewCoordinator(&fakePrimary{}, &fakeMirror{}, cache)
	got := c.Load(context.Background())

	if !reflect.DeepEqual(got.Skills, cachedSkills) {
		t.Fatalf("cached skills not used: %+v", got.Skills)
	}
	if got.Whatsapp != "573009998877" {
		t.Fatalf("cached whatsapp not used: %q", got.Whatsapp)
	}
	if !reflect.DeepEqual(got.Experiences, domain.DefaultExperiences()) {
		t.Fatalf("missing field did not fall back to defaults")
	}
}

func TestEmptyRemoteNeverStompsPopulatedCache(t *testing.T) {
	cache := newFakeCache()
	socials := domain.SocialLinks{Instagram: "https://instagram.com/kept"}
	raw, _ := json.Marshal(socials)
	cache.Set("dev_portfolio_socials", raw)

	snap := validSnapshot()
	snap.Socials = domain.SocialLinks{} // remote socials empty
	primary := &fakePrimary{snap: snap, ok: true}
	c := NewCoordinator(primary, &fakeMirror{}, cache)

	c.Load(context.Background())

	got, ok := cache.Get("dev_portfolio_socials")
	if !ok {
		t.Fatal("cached socials removed")
	}
	var after domain.SocialLinks
	if err := json.Unmarshal(got, &after); err != nil || after != socials {
		t.Fatalf("populated cache overwritten by empty remote field: %s", got)
	}
}

func TestUpdateSectionWritesCacheBeforeReturning(t *testing.T) {
	cache := newFakeCache()
	c := NewCoordinator(&fakePrimary{}, &fakeMirror{}, cache)

	skills := []domain.Skill{{Name: "DaVinci", Level: 60}}
	raw, _ := json.Marshal(skills)
	if err := c.UpdateSection(context.Background(), domain.SectionSkills, raw); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	cached, ok := cache.Get("dev_portfolio_skills")
	if !ok {
		t.Fatal("skills not in cache after update")
	}
	var got []domain.Skill
	if err := json.Unmarshal(cached, &got); err != nil || !reflect.DeepEqual(got, skills) {
		t.Fatalf("cache holds %s, want %v", cached, skills)
	}
}

func TestUpdateSectionRejectsUnknownSection(t *testing.T) {
	c := NewCoordinator(&fakePrimary{}, &fakeMirror{}, newFakeCache())
	if err := c.UpdateSection(context.Background(), "bogus", []byte(`[]`)); err == nil {
		t.Fatal("unknown section accepted")
	}
}

func TestSyncToGitHubWithoutCredentialShortCircuits(t *testing.T) {
	mirror := &fakeMirror{}
	c := NewCoordinator(&fakePrimary{}, mirror, newFakeCache())

	err := c.SyncToGitHub(context.Background(), "backup")
	if err != ErrNoCredential {
		t.Fatalf("want ErrNoCredential, got %v", err)
	}
	if mirror.saveCalled {
		t.Fatal("mirror contacted despite missing credential")
	}
}

func TestSyncToGitHubUsesStoredCredential(t *testing.T) {
	mirror := &fakeMirror{}
	c := NewCoordinator(&fakePrimary{}, mirror, newFakeCache())

	if err := c.SetCredential("ghp_secret"); err != nil {
		t.Fatalf("set credential: %v", err)
	}
	if err := c.SyncToGitHub(context.Background(), "backup"); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if mirror.savedCred != "ghp_secret" || mirror.savedMsg != "backup" {
		t.Fatalf("mirror called with %q/%q", mirror.savedCred, mirror.savedMsg)
	}
}

func TestImportOverwritesOnlyPresentKeys(t *testing.T) {
	cache := newFakeCache()
	exps, _ := json.Marshal([]domain.Experience{{ID: "1", Role: "kept", Company: "kept"}})
	cache.Set("dev_portfolio_experiences", exps)

	c := NewCoordinator(&fakePrimary{}, &fakeMirror{}, cache)
	doc := []byte(`{"skills":[{"name":"Blender","level":40}],"exportedAt":"2026-01-01T00:00:00Z"}`)
	if err := c.Import(doc); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	gotSkills, ok := cache.Get("dev_portfolio_skills")
	if !ok {
		t.Fatal("imported skills not written")
	}
	var skills []domain.Skill
	if err := json.Unmarshal(gotSkills, &skills); err != nil || len(skills) != 1 || skills[0].Name != "Blender" {
		t.Fatalf("imported skills wrong: %s", gotSkills)
	}

	gotExps, _ := cache.Get("dev_portfolio_experiences")
	if string(gotExps) != string(exps) {
		t.Fatalf("experiences overwritten by import that did not carry them")
	}
}
