package domain

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var ErrUnknownSection = errors.New("unknown snapshot section")

// Experience is one entry of the resume's work history. Order is list
// order; IDs are assigned once at creation and never reused.
type Experience struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

type Education struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Skill is keyed by Name, not by a surrogate id. Renaming a skill
// therefore changes its identity (rename behaves as delete+add); this
// matches the upstream product behavior and is intentional until the
// product decides otherwise.
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"` // 0-100
}

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"` // remote URL or base64 payload
}

// LogoItem is one project-gallery entry.
type LogoItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"` // remote URL or base64 payload
	Date     string `json:"date"`
	Link     string `json:"link,omitempty"`
}

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Email     string `json:"email,omitempty"`
}

// HeroContent describes the hero section: display text, profile photo and
// background configuration (a three-stop gradient or a single image).
type HeroContent struct {
	Title           string `json:"title"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ProfilePhoto    string `json:"profilePhoto"`
	BackgroundType  string `json:"backgroundType"` // "gradient" or "image"
	GradientFrom    string `json:"gradientFrom"`
	GradientVia     string `json:"gradientVia"`
	GradientTo      string `json:"gradientTo"`
	BackgroundImage string `json:"backgroundImage"`
}

// Snapshot is the complete portfolio content record, the unit of
// persistence and sync. Every field is always concrete once a snapshot
// leaves the coordinator: missing fields are backfilled from defaults,
// never left undefined.
type Snapshot struct {
	Experiences []Experience `json:"experiences"`
	Education   []Education  `json:"education"`
	Skills      []Skill      `json:"skills"`
	Logos       []LogoItem   `json:"logos"`
	Brands      []Brand      `json:"brands"`
	Socials     SocialLinks  `json:"socials"`
	HeroContent HeroContent  `json:"heroContent"`
	Whatsapp    string       `json:"whatsapp"`
	PDFData     string       `json:"pdfData"`
}

// Patch is a partial snapshot: nil fields are "not present" and are left
// untouched by the table store's partial update.
type Patch struct {
	Experiences *[]Experience `json:"experiences,omitempty"`
	Education   *[]Education  `json:"education,omitempty"`
	Skills      *[]Skill      `json:"skills,omitempty"`
	Logos       *[]LogoItem   `json:"logos,omitempty"`
	Brands      *[]Brand      `json:"brands,omitempty"`
	Socials     *SocialLinks  `json:"socials,omitempty"`
	HeroContent *HeroContent  `json:"heroContent,omitempty"`
	Whatsapp    *string       `json:"whatsapp,omitempty"`
	PDFData     *string       `json:"pdfData,omitempty"`
}

// AsPatch returns a full patch carrying every snapshot field.
func (s *Snapshot) AsPatch() *Patch {
	return &Patch{
		Experiences: &s.Experiences,
		Education:   &s.Education,
		Skills:      &s.Skills,
		Logos:       &s.Logos,
		Brands:      &s.Brands,
		Socials:     &s.Socials,
		HeroContent: &s.HeroContent,
		Whatsapp:    &s.Whatsapp,
		PDFData:     &s.PDFData,
	}
}

// Clone returns a deep copy so callers can hand snapshots to goroutines
// without sharing backing arrays.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Experiences = append([]Experience(nil), s.Experiences...)
	out.Education = append([]Education(nil), s.Education...)
	out.Skills = append([]Skill(nil), s.Skills...)
	out.Logos = append([]LogoItem(nil), s.Logos...)
	out.Brands = append([]Brand(nil), s.Brands...)
	return &out
}

// ContactMessage is an append-only inbound message; the core never
// updates or deletes rows of this entity.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportDocument is the download/import boundary shape: the full snapshot
// plus an export timestamp.
type ExportDocument struct {
	Snapshot
	ExportedAt string `json:"exportedAt"`
}

// Role gates which admin affordances exist. It does not gate the data
// layer itself: any caller holding the store packages can write.
type Role int

const (
	RoleGuest Role = iota
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "guest"
}

var lastID atomic.Int64

// NewID returns a millisecond-timestamp-derived entity id, monotonic
// within the process so two adds in the same millisecond stay distinct.
func NewID() string {
	now := time.Now().UnixMilli()
	for {
		prev := lastID.Load()
		if now <= prev {
			now = prev + 1
		}
		if lastID.CompareAndSwap(prev, now) {
			return strconv.FormatInt(now, 10)
		}
	}
}

// NormalizeWhatsapp strips everything but digits from a phone number.
func NormalizeWhatsapp(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Section names as they appear on the wire and as cache-key suffixes.
const (
	SectionExperiences = "experiences"
	SectionEducation   = "education"
	SectionSkills      = "skills"
	SectionLogos       = "logos"
	SectionBrands      = "brands"
	SectionSocials     = "socials"
	SectionHero        = "heroContent"
	SectionWhatsapp    = "whatsapp"
	SectionPDF         = "pdfData"
)

// Sections lists every snapshot section in persistence order.
var Sections = []string{
	SectionExperiences, SectionEducation, SectionSkills,
	SectionLogos, SectionBrands, SectionSocials,
	SectionHero, SectionWhatsapp, SectionPDF,
}

// SetSection decodes raw JSON into the named snapshot field. Whatsapp and
// pdfData accept either a bare JSON string or a raw string value, which is
// how they live in the cache store.
func (s *Snapshot) SetSection(section string, raw []byte) error {
	switch section {
	case SectionExperiences:
		return json.Unmarshal(raw, &s.Experiences)
	case SectionEducation:
		return json.Unmarshal(raw, &s.Education)
	case SectionSkills:
		return json.Unmarshal(raw, &s.Skills)
	case SectionLogos:
		return json.Unmarshal(raw, &s.Logos)
	case SectionBrands:
		return json.Unmarshal(raw, &s.Brands)
	case SectionSocials:
		return json.Unmarshal(raw, &s.Socials)
	case SectionHero:
		return json.Unmarshal(raw, &s.HeroContent)
	case SectionWhatsapp:
		s.Whatsapp = NormalizeWhatsapp(decodeStringValue(raw))
		return nil
	case SectionPDF:
		s.PDFData = decodeStringValue(raw)
		return nil
	}
	return ErrUnknownSection
}

// SectionValue encodes the named field the way the cache stores it:
// JSON for structured fields, the raw string for whatsapp and pdfData.
func (s *Snapshot) SectionValue(section string) ([]byte, error) {
	switch section {
	case SectionExperiences:
		return json.Marshal(s.Experiences)
	case SectionEducation:
		return json.Marshal(s.Education)
	case SectionSkills:
		return json.Marshal(s.Skills)
	case SectionLogos:
		return json.Marshal(s.Logos)
	case SectionBrands:
		return json.Marshal(s.Brands)
	case SectionSocials:
		return json.Marshal(s.Socials)
	case SectionHero:
		return json.Marshal(s.HeroContent)
	case SectionWhatsapp:
		return []byte(s.Whatsapp), nil
	case SectionPDF:
		return []byte(s.PDFData), nil
	}
	return nil, ErrUnknownSection
}

// AssignIDs fills in ids for entries of the named section that were
// submitted without one (newly added items). Existing ids are never
// changed or reused. Skills carry no id; their name is the key.
func (s *Snapshot) AssignIDs(section string) {
	switch section {
	case SectionExperiences:
		for i := range s.Experiences {
			if s.Experiences[i].ID == "" {
				s.Experiences[i].ID = NewID()
			}
		}
	case SectionEducation:
		for i := range s.Education {
			if s.Education[i].ID == "" {
				s.Education[i].ID = NewID()
			}
		}
	case SectionLogos:
		for i := range s.Logos {
			if s.Logos[i].ID == "" {
				s.Logos[i].ID = NewID()
			}
		}
	case SectionBrands:
		for i := range s.Brands {
			if s.Brands[i].ID == "" {
				s.Brands[i].ID = NewID()
			}
		}
	}
}

// decodeStringValue tolerates both `"123"` (JSON string) and `123` (raw).
func decodeStringValue(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
