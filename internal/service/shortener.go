// Package service provides business logic for the application.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linkpocket/linkpocket/internal/metrics"
	"github.com/linkpocket/linkpocket/internal/model"
	"github.com/linkpocket/linkpocket/internal/repository"
	"github.com/linkpocket/linkpocket/internal/telemetry"
	"github.com/linkpocket/linkpocket/internal/validate"
)

// Service errors.
var (
	ErrInvalidURL            = errors.New("invalid destination URL")
	ErrInvalidValidityPeriod = errors.New("invalid validity period")
	ErrInvalidShortCode      = errors.New("invalid short code format")
	ErrCodeTaken             = errors.New("short code already taken")
	ErrQuotaExceeded         = errors.New("stored link quota exceeded")
	ErrLinkNotFound          = errors.New("link not found")
	ErrLinkExpired           = errors.New("link has expired")
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// maxGenerateAttempts caps the random-retry loop. Collisions against
	// a handful of stored links are vanishingly rare at length 6, but the
	// loop still must not be able to spin forever.
	maxGenerateAttempts = 100
)

// GeoResolver locates the approximate origin of a click. The contract is
// best-effort: implementations always return a location and never fail.
type GeoResolver interface {
	Resolve(ctx context.Context, ip string) model.Location
}

// Config holds the shortener's behavioral knobs.
type Config struct {
	// BaseURL prefixes generated short links, e.g. "http://localhost:8080".
	BaseURL string

	// CodeLength is the length of generated short codes. Defaults to 6.
	CodeLength int

	// MaxLinks caps the stored collection. Zero means unlimited.
	MaxLinks int

	// DefaultValidityMinutes applies when a create request carries no
	// validity period. Defaults to 30.
	DefaultValidityMinutes int
}

// Shortener owns the authoritative in-memory link collection. It is the
// sole writer of persisted state: the collection loads once at
// construction and every mutation rewrites the whole blob.
type Shortener struct {
	mu       sync.Mutex
	links    []*model.Link
	reserved map[string]struct{} // case-folded short codes in use

	repo      *repository.Repository
	geo       GeoResolver
	logger    *slog.Logger
	telemetry telemetry.Reporter
	metrics   metrics.Recorder

	baseURL         string
	codeLength      int
	maxLinks        int
	defaultValidity int

	clock    func() time.Time
	tracking sync.WaitGroup
}

// New constructs a Shortener and loads the persisted collection.
// Construction never fails: corrupt or unreadable persisted data is
// reported and the service starts with an empty collection.
func New(
	ctx context.Context,
	repo *repository.Repository,
	resolver GeoResolver,
	cfg Config,
	logger *slog.Logger,
	reporter telemetry.Reporter,
	recorder metrics.Recorder,
) *Shortener {
	if resolver == nil {
		resolver = staticUnknown{}
	}
	if reporter == nil {
		reporter = telemetry.Noop{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = 6
	}
	if cfg.DefaultValidityMinutes <= 0 {
		cfg.DefaultValidityMinutes = 30
	}

	s := &Shortener{
		reserved:        make(map[string]struct{}),
		repo:            repo,
		geo:             resolver,
		logger:          logger.With("component", "service.shortener"),
		telemetry:       reporter,
		metrics:         recorder,
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		codeLength:      cfg.CodeLength,
		maxLinks:        cfg.MaxLinks,
		defaultValidity: cfg.DefaultValidityMinutes,
		clock:           time.Now,
	}

	links, err := repo.LoadAll(ctx)
	if err != nil {
		s.logger.Warn("failed to load persisted links, starting empty", "error", err)
		s.telemetry.Report("warn", "storage", "persisted collection unreadable: "+err.Error())
		links = nil
	}
	s.links = links
	for _, link := range links {
		s.reserved[strings.ToLower(link.ShortCode)] = struct{}{}
	}

	s.logger.Info("shortener initialized", "links", len(s.links))
	return s
}

// CreateLinkInput defines input for creating a short link.
type CreateLinkInput struct {
	OriginalURL string

	// Validity is the validity period in minutes as entered by the
	// user; empty selects the default.
	Validity string

	// CustomCode requests a specific short code; empty generates one.
	CustomCode string
}

// CreateLink validates the input, reserves a short code and persists the
// grown collection. No partial state is committed on a validation
// failure; a persistence failure after the in-memory mutation is logged
// and swallowed so the session keeps working (fail-soft).
func (s *Shortener) CreateLink(ctx context.Context, input CreateLinkInput) (*model.Link, error) {
	if !validate.URL(input.OriginalURL) {
		return nil, ErrInvalidURL
	}

	minutes := s.defaultValidity
	if input.Validity != "" {
		parsed, ok := validate.ParseValidityPeriod(input.Validity)
		if !ok {
			return nil, ErrInvalidValidityPeriod
		}
		minutes = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxLinks > 0 && len(s.links) >= s.maxLinks {
		return nil, ErrQuotaExceeded
	}

	code := input.CustomCode
	if code != "" {
		if !validate.ShortCode(code) {
			return nil, ErrInvalidShortCode
		}
		if _, taken := s.reserved[strings.ToLower(code)]; taken {
			return nil, ErrCodeTaken
		}
	} else {
		generated, err := s.generateCodeLocked()
		if err != nil {
			return nil, err
		}
		code = generated
	}

	now := s.clock().UTC()
	link := &model.Link{
		ID:              uuid.New().String(),
		OriginalURL:     input.OriginalURL,
		ShortCode:       code,
		ShortURL:        s.baseURL + "/" + code,
		ValidityMinutes: minutes,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Duration(minutes) * time.Minute),
		ClickCount:      0,
		Clicks:          []model.Click{},
	}

	s.links = append(s.links, link)
	s.reserved[strings.ToLower(code)] = struct{}{}
	s.persistLocked(ctx)
	s.metrics.IncLinkCreated()

	s.logger.Info("link created",
		"short_code", code,
		"validity_minutes", minutes,
		"custom", input.CustomCode != "",
	)

	return link.Clone(), nil
}

// ResolveRedirect resolves a short code to its link for a redirect.
// Lookup is case-insensitive across all held records; unknown codes
// return ErrLinkNotFound and expired ones ErrLinkExpired. Click tracking
// is the caller's concern (see TrackClickAsync) so that the destination
// is always returned before any click is recorded.
func (s *Shortener) ResolveRedirect(ctx context.Context, code string) (*model.Link, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveResolveDuration(time.Since(start))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	link := s.findByCodeLocked(code)
	if link == nil {
		return nil, ErrLinkNotFound
	}
	if link.Expired(s.clock()) {
		return nil, ErrLinkExpired
	}

	s.metrics.IncRedirect()
	return link.Clone(), nil
}

// Links returns a snapshot of the collection in insertion order. Every
// element is a deep copy; mutating it cannot corrupt service state.
func (s *Shortener) Links() []*model.Link {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Link, len(s.links))
	for i, link := range s.links {
		out[i] = link.Clone()
	}
	return out
}

// Statistics computes the aggregate projection over the current
// collection, evaluated freshly against the current time.
func (s *Shortener) Statistics() model.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	stats := model.Statistics{TotalLinks: len(s.links)}

	var best *model.Link
	for _, link := range s.links {
		if link.Expired(now) {
			stats.ExpiredLinks++
		} else {
			stats.ActiveLinks++
		}
		stats.TotalClicks += link.ClickCount

		// Strict > keeps the first link on ties; links with zero
		// clicks never become the maximum.
		if link.ClickCount > 0 && (best == nil || link.ClickCount > best.ClickCount) {
			best = link
		}
	}

	if stats.TotalLinks > 0 {
		stats.AvgClicksPerLink = float64(stats.TotalClicks) / float64(stats.TotalLinks)
	}
	stats.MostClicked = best.Clone()

	return stats
}

// ClearExpired removes every expired record, releases their short code
// reservations and persists the shrunken collection. Calling it again
// immediately is a no-op.
func (s *Shortener) ClearExpired(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	survivors := s.links[:0]
	removed := 0
	for _, link := range s.links {
		if link.Expired(now) {
			removed++
			continue
		}
		survivors = append(survivors, link)
	}
	if removed == 0 {
		return 0
	}

	s.links = survivors
	s.reserved = make(map[string]struct{}, len(survivors))
	for _, link := range survivors {
		s.reserved[strings.ToLower(link.ShortCode)] = struct{}{}
	}

	s.persistLocked(ctx)
	s.metrics.IncExpiredCleared(removed)
	s.logger.Info("expired links cleared", "removed", removed)
	return removed
}

// Delete removes the link with the given id, releases its short code
// and persists. Unknown ids are a no-op, not an error.
func (s *Shortener) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, link := range s.links {
		if link.ID != id {
			continue
		}
		s.links = append(s.links[:i], s.links[i+1:]...)
		delete(s.reserved, strings.ToLower(link.ShortCode))
		s.persistLocked(ctx)
		s.metrics.IncLinkDeleted()
		s.logger.Info("link deleted", "short_code", link.ShortCode)
		return true
	}
	return false
}

// Ping checks the persistence backend for readiness probes.
func (s *Shortener) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// findByCodeLocked scans for a record by case-folded short code.
// Expired records still match; expiry is the caller's check.
func (s *Shortener) findByCodeLocked(code string) *model.Link {
	folded := strings.ToLower(code)
	for _, link := range s.links {
		if strings.ToLower(link.ShortCode) == folded {
			return link
		}
	}
	return nil
}

// findByIDLocked scans for a record by id.
func (s *Shortener) findByIDLocked(id string) *model.Link {
	for _, link := range s.links {
		if link.ID == id {
			return link
		}
	}
	return nil
}

// generateCodeLocked draws random alphanumeric codes until one is
// unreserved, up to the retry cap.
func (s *Shortener) generateCodeLocked() (string, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code := randomCode(s.codeLength)
		if _, taken := s.reserved[strings.ToLower(code)]; !taken {
			return code, nil
		}
	}
	return "", errors.New("failed to generate an unreserved short code")
}

// persistLocked rewrites the full collection. Persistence failures are
// deliberately swallowed: the in-memory collection stays authoritative
// for the rest of the session even if the write did not land.
func (s *Shortener) persistLocked(ctx context.Context) {
	if err := s.repo.SaveAll(ctx, s.links); err != nil {
		s.logger.Error("failed to persist links", "error", err)
		s.telemetry.Report("error", "storage", "failed to persist collection: "+err.Error())
	}
}

// randomCode generates a random code over the alphanumeric alphabet
// using crypto/rand.
func randomCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// crypto/rand only fails when the platform source is
			// broken; fall back to the first character.
			b[i] = codeAlphabet[0]
			continue
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b)
}

// staticUnknown is the resolver used when geolocation is disabled.
type staticUnknown struct{}

func (staticUnknown) Resolve(context.Context, string) model.Location {
	return model.UnknownLocation()
}
