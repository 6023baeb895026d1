package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"portfolio-server/internal/domain"
)

// Store treats a single JSON file in a GitHub repository as a portable
// portfolio snapshot: a versioned backup readable without a database.
// Reads are unauthenticated; writes need a token with repo write scope
// and are conditional on the blob's current SHA, so a concurrent edit
// makes the API reject the stale write (surfaced as false). Last
// successful write wins; there is no merge of concurrent remote edits.
type Store struct {
	BaseURL string
	Owner   string
	Repo    string
	Path    string
	Branch  string
	HTTP    *http.Client
}

func NewStore() *Store {
	s := &Store{
		BaseURL: "https://api.github.com",
		Owner:   os.Getenv("GITHUB_OWNER"),
		Repo:    os.Getenv("GITHUB_REPO"),
		Path:    os.Getenv("GITHUB_FILE_PATH"),
		Branch:  os.Getenv("GITHUB_BRANCH"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
	if s.Path == "" {
		s.Path = "portfolio-data.json"
	}
	if s.Branch == "" {
		s.Branch = "main"
	}
	return s
}

func (s *Store) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.BaseURL, s.Owner, s.Repo, s.Path)
}

type contentsResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// FetchSnapshot reads and decodes the hosted JSON file. Any non-success
// response or decode failure is reported as absence, never as an error.
func (s *Store) FetchSnapshot(ctx context.Context) (*domain.Snapshot, bool) {
	if s.Owner == "" || s.Repo == "" {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.contentsURL(), nil)
	if err != nil {
		return nil, false
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		slog.Warn("github fetch failed", "error", err)
		return nil, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	var file contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		slog.Warn("github contents undecodable", "error", err)
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		slog.Warn("github content not base64", "error", err)
		return nil, false
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		slog.Warn("github snapshot undecodable", "error", err)
		return nil, false
	}
	return &snap, true
}

// SaveSnapshot performs the read-modify-write: fetch the current SHA
// (empty when the file does not exist yet), then PUT the new content
// tagged with that SHA, a commit message and the fixed branch. False on
// auth rejection, SHA conflict or any transport error.
func (s *Store) SaveSnapshot(ctx context.Context, snap *domain.Snapshot, token, message string) bool {
	if s.Owner == "" || s.Repo == "" || token == "" {
		return false
	}

	sha := s.currentSHA(ctx, token)

	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return false
	}
	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  s.Branch,
	}
	if sha != "" {
		body["sha"] = sha
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.contentsURL(), bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		slog.Warn("github save failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("github save rejected", "status", resp.StatusCode)
		return false
	}
	return true
}

func (s *Store) currentSHA(ctx context.Context, token string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.contentsURL(), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "token "+token)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var file contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return ""
	}
	return file.SHA
}
