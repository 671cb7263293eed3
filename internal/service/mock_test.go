package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sakif/learnhub/internal/apperror"
	"github.com/sakif/learnhub/internal/model"
	"github.com/sakif/learnhub/internal/notify"
)

// =========================================================================
// MOCK STORE
// =========================================================================
//
// mockStore is an in-memory implementation of every repository interface.
// Records are stored as deep copies so a service mutating a returned record
// cannot change stored state without calling Update, just like a real store.

var errStoreDown = errors.New("store unavailable")

type mockStore struct {
	nextID int

	events    map[string]model.Event
	eventIDs  []string
	resources map[string]model.Resource
	resIDs    []string
	progress  map[string]model.LearningProgress
	progIDs   []string
	inbox     []model.Notification

	updates int   // successful UpdateProgress/UpdateEvent calls
	failErr error // returned by every write when set
}

func newMockStore() *mockStore {
	return &mockStore{
		events:    make(map[string]model.Event),
		resources: make(map[string]model.Resource),
		progress:  make(map[string]model.LearningProgress),
	}
}

func (m *mockStore) id() string {
	m.nextID++
	return fmt.Sprintf("mock-%d", m.nextID)
}

func cloneEvent(e model.Event) model.Event {
	e.Participants = slices.Clone(e.Participants)
	return e
}

func cloneProgress(p model.LearningProgress) model.LearningProgress {
	p.Likes = slices.Clone(p.Likes)
	p.Comments = slices.Clone(p.Comments)
	return p
}

// --- events ---

func (m *mockStore) CreateEvent(_ context.Context, e *model.Event) error {
	if m.failErr != nil {
		return m.failErr
	}
	e.ID = m.id()
	m.events[e.ID] = cloneEvent(*e)
	m.eventIDs = append(m.eventIDs, e.ID)
	return nil
}

func (m *mockStore) GetEvent(_ context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, apperror.NotFound("event", id)
	}
	e = cloneEvent(e)
	return &e, nil
}

func (m *mockStore) ListEvents(_ context.Context) ([]model.Event, error) {
	out := []model.Event{}
	for _, id := range m.eventIDs {
		if e, ok := m.events[id]; ok {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}

func (m *mockStore) ListEventsByUser(ctx context.Context, userID string) ([]model.Event, error) {
	all, _ := m.ListEvents(ctx)
	return slices.DeleteFunc(all, func(e model.Event) bool { return e.UserID != userID }), nil
}

func (m *mockStore) UpdateEvent(_ context.Context, e *model.Event) error {
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.events[e.ID]; !ok {
		return apperror.NotFound("event", e.ID)
	}
	m.events[e.ID] = cloneEvent(*e)
	m.updates++
	return nil
}

func (m *mockStore) DeleteEvent(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return apperror.NotFound("event", id)
	}
	delete(m.events, id)
	return nil
}

// --- resources ---

func (m *mockStore) CreateResource(_ context.Context, r *model.Resource) error {
	if m.failErr != nil {
		return m.failErr
	}
	r.ID = m.id()
	m.resources[r.ID] = *r
	m.resIDs = append(m.resIDs, r.ID)
	return nil
}

func (m *mockStore) GetResource(_ context.Context, id string) (*model.Resource, error) {
	r, ok := m.resources[id]
	if !ok {
		return nil, apperror.NotFound("resource", id)
	}
	return &r, nil
}

func (m *mockStore) ListResources(_ context.Context) ([]model.Resource, error) {
	out := []model.Resource{}
	for _, id := range m.resIDs {
		if r, ok := m.resources[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) ListResourcesByUser(ctx context.Context, userID string) ([]model.Resource, error) {
	all, _ := m.ListResources(ctx)
	return slices.DeleteFunc(all, func(r model.Resource) bool { return r.UserID != userID }), nil
}

func (m *mockStore) SearchResourcesByTitle(ctx context.Context, query string) ([]model.Resource, error) {
	all, _ := m.ListResources(ctx)
	q := strings.ToLower(query)
	return slices.DeleteFunc(all, func(r model.Resource) bool {
		return !strings.Contains(strings.ToLower(r.Title), q)
	}), nil
}

func (m *mockStore) UpdateResource(_ context.Context, r *model.Resource) error {
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.resources[r.ID]; !ok {
		return apperror.NotFound("resource", r.ID)
	}
	m.resources[r.ID] = *r
	return nil
}

func (m *mockStore) DeleteResource(_ context.Context, id string) error {
	if _, ok := m.resources[id]; !ok {
		return apperror.NotFound("resource", id)
	}
	delete(m.resources, id)
	return nil
}

// --- learning progress ---

func (m *mockStore) CreateProgress(_ context.Context, p *model.LearningProgress) error {
	if m.failErr != nil {
		return m.failErr
	}
	p.ID = m.id()
	m.progress[p.ID] = cloneProgress(*p)
	m.progIDs = append(m.progIDs, p.ID)
	return nil
}

func (m *mockStore) GetProgress(_ context.Context, id string) (*model.LearningProgress, error) {
	p, ok := m.progress[id]
	if !ok {
		return nil, apperror.NotFound("learning progress", id)
	}
	p = cloneProgress(p)
	return &p, nil
}

func (m *mockStore) ListProgress(_ context.Context) ([]model.LearningProgress, error) {
	out := []model.LearningProgress{}
	for i := len(m.progIDs) - 1; i >= 0; i-- {
		if p, ok := m.progress[m.progIDs[i]]; ok {
			out = append(out, cloneProgress(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockStore) ListProgressByUser(_ context.Context, userID string) ([]model.LearningProgress, error) {
	out := []model.LearningProgress{}
	for _, id := range m.progIDs {
		if p, ok := m.progress[id]; ok && p.UserID == userID {
			out = append(out, cloneProgress(p))
		}
	}
	return out, nil
}

func (m *mockStore) UpdateProgress(_ context.Context, p *model.LearningProgress) error {
	if m.failErr != nil {
		return m.failErr
	}
	if _, ok := m.progress[p.ID]; !ok {
		return apperror.NotFound("learning progress", p.ID)
	}
	m.progress[p.ID] = cloneProgress(*p)
	m.updates++
	return nil
}

func (m *mockStore) DeleteProgress(_ context.Context, id string) error {
	if _, ok := m.progress[id]; !ok {
		return apperror.NotFound("learning progress", id)
	}
	delete(m.progress, id)
	return nil
}

// --- notifications ---

func (m *mockStore) CreateNotification(_ context.Context, n *model.Notification) error {
	if m.failErr != nil {
		return m.failErr
	}
	n.ID = m.id()
	m.inbox = append(m.inbox, *n)
	return nil
}

func (m *mockStore) ListNotifications(_ context.Context, userID string, limit int) ([]model.Notification, error) {
	out := []model.Notification{}
	for i := len(m.inbox) - 1; i >= 0 && len(out) < limit; i-- {
		if m.inbox[i].UserID == userID {
			out = append(out, m.inbox[i])
		}
	}
	return out, nil
}

func (m *mockStore) CountUnreadNotifications(_ context.Context, userID string) (int, error) {
	n := 0
	for _, x := range m.inbox {
		if x.UserID == userID && !x.Read {
			n++
		}
	}
	return n, nil
}

func (m *mockStore) MarkNotificationRead(_ context.Context, id, userID string) error {
	for i := range m.inbox {
		if m.inbox[i].ID == id && m.inbox[i].UserID == userID {
			m.inbox[i].Read = true
			return nil
		}
	}
	return apperror.NotFound("notification", id)
}

func (m *mockStore) MarkAllNotificationsRead(_ context.Context, userID string) error {
	if m.failErr != nil {
		return m.failErr
	}
	for i := range m.inbox {
		if m.inbox[i].UserID == userID {
			m.inbox[i].Read = true
		}
	}
	return nil
}

// =========================================================================
// RECORDING SINK
// =========================================================================

type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingSink) Notify(_ context.Context, ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fixedClock returns a Clock that starts at start and advances one second per call.
func fixedClock(start time.Time) Clock {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Second)
		return now
	}
}
