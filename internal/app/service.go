// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/harusports/teamsite/internal/adapters/blob"
	"github.com/harusports/teamsite/internal/adapters/repository"
	"github.com/harusports/teamsite/internal/auth"
	"github.com/harusports/teamsite/internal/domain/calendar"
	"github.com/harusports/teamsite/internal/domain/holiday"
	"github.com/harusports/teamsite/internal/domain/model"
	"github.com/harusports/teamsite/internal/domain/scoring"
	"github.com/harusports/teamsite/pkg/logger"
	"github.com/harusports/teamsite/pkg/metrics"
)

// Service wires the store, blob store, authenticator and calendar
// builder behind the typed operations the HTTP API depends on.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	blobs   blob.Store
	authn   *auth.Authenticator
	builder *calendar.Builder
	cron    *cron.Cron

	// Configuration
	dataFile      string
	uploadDir     string
	authFile      string
	sessionTTL    time.Duration
	snapshotSpec  string
	hourStart     int
	hourEnd       int
	cellCap       int
	teamName      string
	extraHolidays map[string]string

	// State
	started bool

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataFile:   "data/teamsite.json",
		uploadDir:  "data/uploads",
		authFile:   "auth.secret",
		sessionTTL: 12 * time.Hour,
		hourStart:  5,
		hourEnd:    21,
		cellCap:    3,
		teamName:   "ポストン",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting teamsite service...")

	if s.store == nil {
		store, err := repository.NewFileStore(s.dataFile)
		if err != nil {
			return fmt.Errorf("open document store: %w", err)
		}
		s.store = store
		s.logger.Info(ctx, "using file store", logger.String("path", s.dataFile))
	}

	if s.blobs == nil {
		blobs, err := blob.NewLocalStore(s.uploadDir, "/files")
		if err != nil {
			return fmt.Errorf("open blob store: %w", err)
		}
		s.blobs = blobs
	}

	if s.authn == nil {
		creds, err := auth.LoadCredentials(s.authFile)
		if err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}
		if creds == nil {
			s.logger.Warn(ctx, "no credentials file found; admin API is UNPROTECTED (dev mode only)",
				logger.String("expected", s.authFile))
		}
		s.authn = auth.New(creds, auth.NewSessionStore(auth.WithTTL(s.sessionTTL)))
	}

	table := holiday.Default2026().Merge(s.extraHolidays)
	s.builder = calendar.New(
		calendar.WithHourRange(s.hourStart, s.hourEnd),
		calendar.WithCellCap(s.cellCap),
		calendar.WithHolidayTable(table),
	)

	if s.snapshotSpec != "" {
		if fs, ok := s.store.(*repository.FileStore); ok {
			s.cron = cron.New()
			if _, err := s.cron.AddFunc(s.snapshotSpec, func() {
				if dest, err := fs.Snapshot(); err != nil {
					s.logger.Error(context.Background(), "snapshot failed", logger.Error(err))
				} else {
					s.logger.Info(context.Background(), "snapshot written", logger.String("path", dest))
				}
			}); err != nil {
				return fmt.Errorf("schedule snapshot: %w", err)
			}
			s.cron.Start()
		}
	}

	s.started = true
	s.logger.Info(ctx, "teamsite service started",
		logger.String("team", s.teamName),
		logger.Int("hourStart", s.hourStart),
		logger.Int("hourEnd", s.hourEnd),
	)
	return nil
}

// Stop shuts down background tasks.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.cron != nil {
		s.cron.Stop()
	}
	s.started = false
	s.logger.Info(context.Background(), "teamsite service stopped")
}

// Auth exposes the identity seam to the HTTP layer.
func (s *Service) Auth() *auth.Authenticator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authn
}

// OpenAttachment returns a stored attachment blob for serving.
func (s *Service) OpenAttachment(p string) (io.ReadSeekCloser, error) {
	return s.blobs.Open(p)
}

// --- Events ---

// ListEvents returns events ordered by start time, optionally limited
// to those starting within [from, to).
func (s *Service) ListEvents(ctx context.Context, from, to *time.Time) ([]model.Event, error) {
	docs, err := s.store.List(ctx, repository.CollectionEvents, repository.WithOrderBy("start", false))
	if err != nil {
		return nil, err
	}
	events := make([]model.Event, 0, len(docs))
	for _, d := range docs {
		ev, err := decodeEvent(d)
		if err != nil {
			return nil, err
		}
		if from != nil && ev.Start.Before(*from) {
			continue
		}
		if to != nil && !ev.Start.Before(*to) {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// GetEvent returns one event.
func (s *Service) GetEvent(ctx context.Context, id string) (model.Event, error) {
	doc, err := s.store.Get(ctx, repository.CollectionEvents, id)
	if err != nil {
		return model.Event{}, err
	}
	return decodeEvent(doc)
}

// CreateEvent validates and stores a new event.
func (s *Service) CreateEvent(ctx context.Context, ev model.Event) (model.Event, error) {
	if err := validateEvent(ev); err != nil {
		return model.Event{}, err
	}
	ev.ID = ""
	ev.Attachments = nil
	id, err := s.store.Create(ctx, repository.CollectionEvents, ev)
	if err != nil {
		return model.Event{}, err
	}
	return s.GetEvent(ctx, id)
}

// UpdateEvent validates and replaces an event, keeping its attachments.
func (s *Service) UpdateEvent(ctx context.Context, id string, ev model.Event) (model.Event, error) {
	if err := validateEvent(ev); err != nil {
		return model.Event{}, err
	}
	current, err := s.GetEvent(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	ev.ID = ""
	ev.Attachments = current.Attachments
	if err := s.store.Update(ctx, repository.CollectionEvents, id, ev); err != nil {
		return model.Event{}, err
	}
	return s.GetEvent(ctx, id)
}

// DeleteEvent removes an event and best-effort deletes its attachment
// blobs; blob failures are logged and swallowed.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	ev, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, repository.CollectionEvents, id); err != nil {
		return err
	}
	for _, att := range ev.Attachments {
		if err := s.blobs.Delete(ctx, attachmentPath(id, att.ID, att.Name)); err != nil {
			s.logger.Warn(ctx, "attachment cleanup failed",
				logger.String("event", id), logger.String("attachment", att.ID), logger.Error(err))
		}
	}
	return nil
}

// AddAttachment stores an uploaded file and appends its reference to
// the event's attachment list.
func (s *Service) AddAttachment(ctx context.Context, eventID, name, contentType string, r io.Reader) (model.Attachment, error) {
	if name == "" {
		return model.Attachment{}, fmt.Errorf("%w: attachment name is required", ErrValidation)
	}
	ev, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return model.Attachment{}, err
	}

	att := model.Attachment{
		ID:         uuid.NewString(),
		Name:       name,
		Type:       contentType,
		UploadedAt: time.Now(),
	}
	url, size, err := s.blobs.Save(ctx, attachmentPath(eventID, att.ID, name), r)
	if err != nil {
		return model.Attachment{}, err
	}
	att.URL = url
	att.Size = size

	ev.Attachments = append(ev.Attachments, att)
	ev.ID = ""
	if err := s.store.Update(ctx, repository.CollectionEvents, eventID, ev); err != nil {
		// Roll the blob back; the record is the source of truth.
		_ = s.blobs.Delete(ctx, attachmentPath(eventID, att.ID, name))
		return model.Attachment{}, err
	}
	return att, nil
}

// RemoveAttachment drops the attachment record and best-effort deletes
// its blob; a blob already gone does not fail the removal.
func (s *Service) RemoveAttachment(ctx context.Context, eventID, attID string) error {
	ev, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	kept := ev.Attachments[:0:0]
	var removed *model.Attachment
	for _, att := range ev.Attachments {
		if att.ID == attID {
			a := att
			removed = &a
			continue
		}
		kept = append(kept, att)
	}
	if removed == nil {
		return fmt.Errorf("attachment %s: %w", attID, repository.ErrNotFound)
	}

	ev.Attachments = kept
	ev.ID = ""
	if err := s.store.Update(ctx, repository.CollectionEvents, eventID, ev); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, attachmentPath(eventID, removed.ID, removed.Name)); err != nil {
		s.logger.Warn(ctx, "attachment cleanup failed",
			logger.String("event", eventID), logger.String("attachment", attID), logger.Error(err))
	}
	return nil
}

// --- Calendar ---

// CalendarGrid builds the renderable grid for a view and reference date.
func (s *Service) CalendarGrid(ctx context.Context, view calendar.ViewMode, ref time.Time) (calendar.Grid, error) {
	events, err := s.ListEvents(ctx, nil, nil)
	if err != nil {
		return calendar.Grid{}, err
	}
	return s.builder.Build(events, view, ref), nil
}

// CalendarDay returns the full event list of one day, backing the
// "+N more" expansion.
func (s *Service) CalendarDay(ctx context.Context, date time.Time) ([]model.Event, error) {
	events, err := s.ListEvents(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	return s.builder.DayEvents(events, date), nil
}

// Slot returns the {start, end} pair of an empty one-hour slot.
func (s *Service) Slot(date time.Time, hour int) calendar.Slot {
	return s.builder.Slot(date, hour)
}

// CalendarFeed serializes all events as an iCalendar document.
func (s *Service) CalendarFeed(ctx context.Context) (string, error) {
	events, err := s.ListEvents(ctx, nil, nil)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//teamsite//calendar//JA")
	cal.SetXWRCalName(s.teamName)

	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(e.UpdatedAt)
		ve.SetStartAt(e.Start)
		ve.SetEndAt(e.End)
		ve.SetSummary(e.Title)
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		ve.SetProperty(ics.ComponentProperty(ics.PropertyCategories), string(e.Type))
	}
	return cal.Serialize(), nil
}

// --- Game results ---

// ListResults returns game results ordered by date, newest first.
func (s *Service) ListResults(ctx context.Context) ([]model.GameResult, error) {
	docs, err := s.store.List(ctx, repository.CollectionGameResults, repository.WithOrderBy("date", true))
	if err != nil {
		return nil, err
	}
	results := make([]model.GameResult, 0, len(docs))
	for _, d := range docs {
		r, err := decodeResult(d)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// GetResult returns one game result.
func (s *Service) GetResult(ctx context.Context, id string) (model.GameResult, error) {
	doc, err := s.store.Get(ctx, repository.CollectionGameResults, id)
	if err != nil {
		return model.GameResult{}, err
	}
	return decodeResult(doc)
}

// CreateResult validates, normalizes and stores a new game result. The
// stored totals always come from the aggregator, never the caller.
func (s *Service) CreateResult(ctx context.Context, r model.GameResult) (model.GameResult, error) {
	if err := s.normalizeResult(&r); err != nil {
		return model.GameResult{}, err
	}
	r.ID = ""
	id, err := s.store.Create(ctx, repository.CollectionGameResults, r)
	if err != nil {
		return model.GameResult{}, err
	}
	metrics.RecordResultSaved()
	return s.GetResult(ctx, id)
}

// UpdateResult validates, normalizes and replaces a game result.
func (s *Service) UpdateResult(ctx context.Context, id string, r model.GameResult) (model.GameResult, error) {
	if err := s.normalizeResult(&r); err != nil {
		return model.GameResult{}, err
	}
	if _, err := s.GetResult(ctx, id); err != nil {
		return model.GameResult{}, err
	}
	r.ID = ""
	if err := s.store.Update(ctx, repository.CollectionGameResults, id, r); err != nil {
		return model.GameResult{}, err
	}
	metrics.RecordResultSaved()
	return s.GetResult(ctx, id)
}

// DeleteResult removes a game result.
func (s *Service) DeleteResult(ctx context.Context, id string) error {
	return s.store.Delete(ctx, repository.CollectionGameResults, id)
}

func (s *Service) normalizeResult(r *model.GameResult) error {
	switch {
	case r.Opponent == "":
		return fmt.Errorf("%w: opponent is required", ErrValidation)
	case r.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	if r.OurTeamName == "" {
		r.OurTeamName = s.teamName
	}
	if len(r.InningScores) == 0 {
		r.InningScores = scoring.NewScoreSheet()
	}
	for _, in := range r.InningScores {
		if (in.Our != nil && *in.Our < 0) || (in.Opponent != nil && *in.Opponent < 0) {
			return fmt.Errorf("%w: inning scores must not be negative", ErrValidation)
		}
	}
	r.InningScores = scoring.Renumber(r.InningScores)
	totals := scoring.Aggregate(r.InningScores)
	r.OurScore = totals.Our
	r.OpponentScore = totals.Opponent
	return nil
}

// --- Contacts ---

// SubmitContact validates and stores a contact form submission.
func (s *Service) SubmitContact(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error) {
	switch {
	case m.Name == "":
		return model.ContactMessage{}, fmt.Errorf("%w: name is required", ErrValidation)
	case m.Email == "":
		return model.ContactMessage{}, fmt.Errorf("%w: email is required", ErrValidation)
	case m.Message == "":
		return model.ContactMessage{}, fmt.Errorf("%w: message is required", ErrValidation)
	}
	m.ID = ""
	m.Status = model.ContactUnread
	id, err := s.store.Create(ctx, repository.CollectionContacts, m)
	if err != nil {
		return model.ContactMessage{}, err
	}
	metrics.RecordContactSubmission()
	return s.getContact(ctx, id)
}

// ListContacts returns contact messages, newest first.
func (s *Service) ListContacts(ctx context.Context) ([]model.ContactMessage, error) {
	docs, err := s.store.List(ctx, repository.CollectionContacts)
	if err != nil {
		return nil, err
	}
	contacts := make([]model.ContactMessage, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		c, err := decodeContact(docs[i])
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// UpdateContactStatus moves a message between unread/read/replied.
func (s *Service) UpdateContactStatus(ctx context.Context, id string, status model.ContactStatus) (model.ContactMessage, error) {
	if !status.Valid() {
		return model.ContactMessage{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	c, err := s.getContact(ctx, id)
	if err != nil {
		return model.ContactMessage{}, err
	}
	c.Status = status
	c.ID = ""
	if err := s.store.Update(ctx, repository.CollectionContacts, id, c); err != nil {
		return model.ContactMessage{}, err
	}
	return s.getContact(ctx, id)
}

// DeleteContact removes a contact message.
func (s *Service) DeleteContact(ctx context.Context, id string) error {
	return s.store.Delete(ctx, repository.CollectionContacts, id)
}

func (s *Service) getContact(ctx context.Context, id string) (model.ContactMessage, error) {
	doc, err := s.store.Get(ctx, repository.CollectionContacts, id)
	if err != nil {
		return model.ContactMessage{}, err
	}
	return decodeContact(doc)
}

// --- Announcement ---

// Announcement returns the banner settings document; never written
// means a hidden, empty banner rather than an error.
func (s *Service) Announcement(ctx context.Context) (model.Announcement, error) {
	var a model.Announcement
	err := s.store.GetSetting(ctx, repository.SettingAnnouncement, &a)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Announcement{}, nil
	}
	if err != nil {
		return model.Announcement{}, err
	}
	return a, nil
}

// SetAnnouncement replaces the banner text and visibility.
func (s *Service) SetAnnouncement(ctx context.Context, text string, visible bool) (model.Announcement, error) {
	a := model.Announcement{Text: text, Visible: visible, UpdatedAt: time.Now()}
	if err := s.store.PutSetting(ctx, repository.SettingAnnouncement, a); err != nil {
		return model.Announcement{}, err
	}
	return a, nil
}

// --- Stats ---

// Stats is a point-in-time snapshot of service state for monitoring.
type Stats struct {
	Started     bool   `json:"started"`
	TeamName    string `json:"teamName"`
	Events      int    `json:"events"`
	GameResults int    `json:"gameResults"`
	Contacts    int    `json:"contacts"`
	Sessions    int    `json:"sessions"`
}

// GetStats returns service statistics for monitoring. It also refreshes
// the per-collection document count gauges.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Started: s.started, TeamName: s.teamName}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	counts := map[string]*int{
		repository.CollectionEvents:      &stats.Events,
		repository.CollectionGameResults: &stats.GameResults,
		repository.CollectionContacts:    &stats.Contacts,
	}
	for c, dst := range counts {
		*dst = s.store.Count(ctx, c)
		metrics.UpdateDocumentCount(c, *dst)
	}
	stats.Sessions = s.authn.Sessions().Count()
	return stats
}

// --- helpers ---

func validateEvent(ev model.Event) error {
	switch {
	case ev.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case ev.Start.IsZero() || ev.End.IsZero():
		return fmt.Errorf("%w: start and end are required", ErrValidation)
	case ev.End.Before(ev.Start):
		return fmt.Errorf("%w: end precedes start", ErrValidation)
	case !ev.Type.Valid():
		return fmt.Errorf("%w: unknown event type %q", ErrValidation, ev.Type)
	}
	return nil
}

func attachmentPath(eventID, attID, name string) string {
	return path.Join("attachments", eventID, attID+"_"+name)
}

func decodeEvent(d repository.Document) (model.Event, error) {
	var ev model.Event
	if err := d.Decode(&ev); err != nil {
		return model.Event{}, err
	}
	ev.ID = d.ID
	ev.CreatedAt = d.CreatedAt
	ev.UpdatedAt = d.UpdatedAt
	return ev, nil
}

func decodeResult(d repository.Document) (model.GameResult, error) {
	var r model.GameResult
	if err := d.Decode(&r); err != nil {
		return model.GameResult{}, err
	}
	r.ID = d.ID
	r.CreatedAt = d.CreatedAt
	r.UpdatedAt = d.UpdatedAt
	return r, nil
}

func decodeContact(d repository.Document) (model.ContactMessage, error) {
	var c model.ContactMessage
	if err := d.Decode(&c); err != nil {
		return model.ContactMessage{}, err
	}
	c.ID = d.ID
	c.CreatedAt = d.CreatedAt
	return c, nil
}
