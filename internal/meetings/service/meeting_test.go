package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"sync"
	"testing"
	"time"

	"roombook/internal/accesscode"
	"roombook/internal/interval"
	meetingserrors "roombook/internal/meetings/errors"
	"roombook/internal/meetings/lifecycle"
	"roombook/internal/meetings/validator"
	"roombook/internal/notifications"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// In-memory collaborators
// ────────────────────────────────────────────────

type memMeetingRepository struct {
	txMu sync.Mutex

	mu       sync.Mutex
	meetings map[string]model.Meeting

	hideCodes  bool
	replaceErr error
	rollbacks  int
}

func newMemMeetingRepository() *memMeetingRepository {
	return &memMeetingRepository{meetings: map[string]model.Meeting{}}
}

func (m *memMeetingRepository) put(meeting model.Meeting) model.Meeting {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meeting.ID == "" {
		meeting.ID = primitive.NewObjectID().Hex()
	}
	m.meetings[meeting.ID] = meeting
	return meeting
}

func (m *memMeetingRepository) get(id string) model.Meeting {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meetings[id]
}

func (m *memMeetingRepository) scheduledIn(roomID string) []model.Meeting {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Meeting
	for _, mt := range m.meetings {
		if mt.RoomID == roomID && mt.Status == model.MeetingStatusScheduled {
			out = append(out, mt)
		}
	}
	return out
}

func (m *memMeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.meetings {
		if existing.AccessCode == meeting.AccessCode {
			return meetingserrors.ErrDuplicateCode
		}
	}
	meeting.ID = primitive.NewObjectID().Hex()
	m.meetings[meeting.ID] = *meeting
	return nil
}

func (m *memMeetingRepository) FindByID(ctx context.Context, id string) (*model.Meeting, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, meetingserrors.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mt, ok := m.meetings[id]
	if !ok {
		return nil, meetingserrors.ErrNotFound
	}
	return &mt, nil
}

func (m *memMeetingRepository) FindByAccessCode(ctx context.Context, code string) (*model.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mt := range m.meetings {
		if mt.AccessCode == code {
			return &mt, nil
		}
	}
	return nil, meetingserrors.ErrNotFound
}

func (m *memMeetingRepository) AccessCodeExists(ctx context.Context, code string) (bool, error) {
	if m.hideCodes {
		return false, nil
	}
	_, err := m.FindByAccessCode(ctx, code)
	return err == nil, nil
}

func (m *memMeetingRepository) FindConflicts(ctx context.Context, roomID string, r interval.Range, excludeID string) ([]*model.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Meeting
	for _, mt := range m.meetings {
		if mt.RoomID != roomID || mt.Status != model.MeetingStatusScheduled || mt.ID == excludeID {
			continue
		}
		if interval.Overlaps(mt.StartDate, mt.EndDate, r.Start, r.End) {
			out = append(out, &mt)
		}
	}
	return out, nil
}

func (m *memMeetingRepository) FindAll(ctx context.Context, filter model.MeetingFilter, limit int, offset int64) ([]*model.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Meeting{}
	for _, mt := range m.meetings {
		if filter.RoomID != "" && mt.RoomID != filter.RoomID {
			continue
		}
		if filter.OrganizerEmail != "" && mt.OrganizerEmail != filter.OrganizerEmail {
			continue
		}
		if filter.Status != "" && mt.Status != filter.Status {
			continue
		}
		out = append(out, &mt)
	}
	sortByStart(out)
	return out, nil
}

func (m *memMeetingRepository) Count(ctx context.Context, filter model.MeetingFilter) (int64, error) {
	all, _ := m.FindAll(ctx, filter, 0, 0)
	return int64(len(all)), nil
}

func (m *memMeetingRepository) FindUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Meeting{}
	for _, mt := range m.meetings {
		if mt.Status == model.MeetingStatusScheduled && !mt.StartDate.Before(from) {
			out = append(out, &mt)
		}
	}
	sortByStart(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memMeetingRepository) FindRoomSchedule(ctx context.Context, roomID string, day interval.Range) ([]*model.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Meeting{}
	for _, mt := range m.meetings {
		if mt.RoomID == roomID && mt.Status == model.MeetingStatusScheduled && day.Contains(mt.StartDate) {
			out = append(out, &mt)
		}
	}
	sortByStart(out)
	return out, nil
}

func (m *memMeetingRepository) CountScheduledByRoom(ctx context.Context, roomID string) (int64, error) {
	return int64(len(m.scheduledIn(roomID))), nil
}

func (m *memMeetingRepository) ReplaceScheduled(ctx context.Context, meeting *model.Meeting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	current, ok := m.meetings[meeting.ID]
	if !ok || current.Status != model.MeetingStatusScheduled {
		return meetingserrors.ErrStateChanged
	}
	m.meetings[meeting.ID] = *meeting
	return nil
}

func (m *memMeetingRepository) Delete(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return meetingserrors.ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.meetings[id]; !ok {
		return meetingserrors.ErrNotFound
	}
	delete(m.meetings, id)
	return nil
}

// ExecuteTransaction serialises transactions and restores the prior state when fn fails.
func (m *memMeetingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := make(map[string]model.Meeting, len(m.meetings))
	for k, v := range m.meetings {
		snapshot[k] = v
	}
	m.mu.Unlock()

	if err := fn(mongo.NewSessionContext(ctx, nil)); err != nil {
		m.mu.Lock()
		m.meetings = snapshot
		m.rollbacks++
		m.mu.Unlock()
		return err
	}
	return nil
}

func sortByStart(ms []*model.Meeting) {
	sort.Slice(ms, func(i, j int) bool { return ms[i].StartDate.Before(ms[j].StartDate) })
}

type memLockRepository struct {
	mu         sync.Mutex
	held       map[string]string
	acquireErr error
	acquired   int
	released   int
}

func newMemLockRepository() *memLockRepository {
	return &memLockRepository{held: map[string]string{}}
}

func (l *memLockRepository) Acquire(ctx context.Context, roomID, owner string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.acquireErr != nil {
		return l.acquireErr
	}
	if _, ok := l.held[roomID]; ok {
		return meetingserrors.ErrLockHeld
	}
	l.held[roomID] = owner
	l.acquired++
	return nil
}

func (l *memLockRepository) Release(ctx context.Context, roomID, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[roomID] == owner {
		delete(l.held, roomID)
		l.released++
	}
	return nil
}

type stubRooms map[string]*model.Room

func (s stubRooms) GetByID(ctx context.Context, id string) (*model.Room, error) {
	room, ok := s[id]
	if !ok {
		return nil, apperrors.NotFoundWithID("Room", id)
	}
	copied := *room
	return &copied, nil
}

type stubOracle struct {
	privileged map[string]bool
	err        error
}

func (s stubOracle) IsPrivileged(ctx context.Context, email string) (bool, error) {
	return s.privileged[email], s.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (r *recordingNotifier) Notify(events ...notifications.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recordingNotifier) kinds() []notifications.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]notifications.Kind, 0, len(r.events))
	for _, ev := range r.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

type fixedSource struct{ values []int }

func (f *fixedSource) IntN(n int) int {
	v := f.values[0] % n
	if len(f.values) > 1 {
		f.values = f.values[1:]
	}
	return v
}

// ────────────────────────────────────────────────
// Fixture
// ────────────────────────────────────────────────

var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

const (
	alice = "alice@acme.io"
	boss  = "boss@acme.io"
)

type fixture struct {
	svc      SchedulingService
	repo     *memMeetingRepository
	locks    *memLockRepository
	rooms    stubRooms
	oracle   *stubOracle
	notifier *recordingNotifier
	room     *model.Room
}

func newFixture(t *testing.T, src accesscode.Source) *fixture {
	t.Helper()

	room := &model.Room{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Atlas",
		Company:    "Acme",
		Available:  true,
		AccessCode: "482913",
	}
	f := &fixture{
		repo:     newMemMeetingRepository(),
		locks:    newMemLockRepository(),
		rooms:    stubRooms{room.ID: room},
		oracle:   &stubOracle{privileged: map[string]bool{boss: true}},
		notifier: &recordingNotifier{},
		room:     room,
	}
	if src == nil {
		src = rand.New(rand.NewPCG(3, 4))
	}

	log := logger.Discard()
	cfg := &config.Config{
		Log:                  log,
		MeetingLockTTL:       10 * time.Second,
		UpcomingDefaultLimit: 10,
	}
	f.svc = NewSchedulingService(
		f.repo,
		f.locks,
		f.rooms,
		f.oracle,
		accesscode.NewGenerator(src, accesscode.DefaultMaxAttempts),
		validator.NewMeetingValidator(log),
		f.notifier,
		cfg,
		func() time.Time { return testNow },
	)
	return f
}

func (f *fixture) request(organizer string, start, end time.Time) *model.MeetingCreate {
	return &model.MeetingCreate{
		Title:             "Sync",
		StartDate:         start,
		EndDate:           end,
		Attendees:         []string{"carol@acme.io"},
		OrganizerFullName: nameOf(organizer),
		OrganizerEmail:    organizer,
		RoomID:            f.room.ID,
	}
}

func (f *fixture) seed(start, end time.Time) model.Meeting {
	return f.repo.put(model.Meeting{
		AccessCode:        "SEED" + start.Format("1504") + "0000",
		Title:             "Existing",
		StartDate:         start,
		EndDate:           end,
		OrganizerFullName: "Dave",
		OrganizerEmail:    "dave@acme.io",
		RoomID:            f.room.ID,
		Status:            model.MeetingStatusScheduled,
	})
}

func nameOf(email string) string {
	switch email {
	case boss:
		return "The Boss"
	default:
		return "Alice"
	}
}

func conflictingIDs(t *testing.T, err error) []string {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	ids, ok := appErr.Details["conflicting_ids"].([]string)
	require.True(t, ok, "conflicting_ids missing from %v", appErr.Details)
	return ids
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_AcceptedInEmptyRoom(t *testing.T) {
	f := newFixture(t, nil)

	m, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, model.MeetingStatusScheduled, m.Status)
	assert.True(t, accesscode.Valid(accesscode.Meeting, m.AccessCode), "code %q", m.AccessCode)
	assert.False(t, m.IsOrganizerPrivileged)
	assert.Equal(t, testNow, m.CreatedAt)
	assert.Equal(t, []notifications.Kind{notifications.KindCreated}, f.notifier.kinds())
	assert.Equal(t, 1, f.locks.acquired)
	assert.Equal(t, 1, f.locks.released)
}

func TestCreate_NormalizesInput(t *testing.T) {
	f := newFixture(t, nil)
	req := f.request(" Alice@Acme.IO ", at(10, 0), at(11, 0))
	req.Title = "  Weekly   sync "
	req.Attendees = []string{"Carol@acme.io", "carol@acme.io", " "}

	m, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Weekly sync", m.Title)
	assert.Equal(t, alice, m.OrganizerEmail)
	assert.Equal(t, []string{"carol@acme.io", "carol@acme.io"}, m.Attendees)
}

func TestCreate_RangeErrors(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"end before start", at(11, 0), at(10, 0)},
		{"zero length", at(10, 0), at(10, 0)},
		{"in the past", at(7, 0), at(9, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), f.request(alice, tt.start, tt.end))
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput), "got %v", err)
		})
	}
	assert.Empty(t, f.repo.meetings)
}

func TestCreate_ValidationFailure(t *testing.T) {
	f := newFixture(t, nil)
	req := f.request("not-an-email", at(10, 0), at(11, 0))

	_, err := f.svc.Create(context.Background(), req)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestCreate_RoomChecks(t *testing.T) {
	f := newFixture(t, nil)

	req := f.request(alice, at(10, 0), at(11, 0))
	req.RoomID = primitive.NewObjectID().Hex()
	_, err := f.svc.Create(context.Background(), req)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	f.room.Available = false
	_, err = f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeRoomUnavailable))
	assert.Empty(t, f.repo.meetings)
}

func TestCreate_NonPrivilegedConflictWritesNothing(t *testing.T) {
	f := newFixture(t, nil)
	existing := f.seed(at(10, 0), at(11, 0))

	_, err := f.svc.Create(context.Background(), f.request(alice, at(10, 30), at(11, 30)))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Equal(t, []string{existing.ID}, conflictingIDs(t, err))

	assert.Len(t, f.repo.meetings, 1)
	assert.Equal(t, model.MeetingStatusScheduled, f.repo.get(existing.ID).Status)
	assert.Empty(t, f.notifier.kinds())
	assert.Empty(t, f.locks.held)
}

func TestCreate_AdjacentRangesDoNotConflict(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(at(10, 0), at(11, 0))

	_, err := f.svc.Create(context.Background(), f.request(alice, at(11, 0), at(12, 0)))
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), f.request(alice, at(9, 0), at(10, 0)))
	require.NoError(t, err)

	assert.Len(t, f.repo.scheduledIn(f.room.ID), 3)
}

func TestCreate_PrivilegedPreemptsEveryOverlap(t *testing.T) {
	f := newFixture(t, nil)
	first := f.seed(at(10, 0), at(11, 0))
	second := f.seed(at(11, 0), at(12, 0))
	adjacent := f.seed(at(12, 0), at(13, 0))

	m, err := f.svc.Create(context.Background(), f.request(boss, at(10, 30), at(12, 0)))
	require.NoError(t, err)
	assert.True(t, m.IsOrganizerPrivileged)

	for _, id := range []string{first.ID, second.ID} {
		cancelled := f.repo.get(id)
		assert.Equal(t, model.MeetingStatusCancelled, cancelled.Status)
		assert.Equal(t, model.SystemCanceller, cancelled.CancelledBy)
		assert.Equal(t, lifecycle.PreemptionReason("The Boss"), cancelled.CancelledReason)
		require.NotNil(t, cancelled.CancelledAt)
		assert.Equal(t, testNow, *cancelled.CancelledAt)
	}
	assert.Equal(t, model.MeetingStatusScheduled, f.repo.get(adjacent.ID).Status)

	scheduled := f.repo.scheduledIn(f.room.ID)
	assert.Len(t, scheduled, 2)

	assert.Equal(t, []notifications.Kind{
		notifications.KindCreated,
		notifications.KindCancelled,
		notifications.KindCancelled,
	}, f.notifier.kinds())
}

func TestCreate_PrivilegedPreemptsPrivileged(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Create(context.Background(), f.request(boss, at(10, 0), at(11, 0)))
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), f.request(boss, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	scheduled := f.repo.scheduledIn(f.room.ID)
	require.Len(t, scheduled, 1)
	assert.Equal(t, second.ID, scheduled[0].ID)
}

func TestCreate_LockHeld(t *testing.T) {
	f := newFixture(t, nil)
	f.locks.held[f.room.ID] = "someone-else"

	_, err := f.svc.Create(context.Background(), f.request(boss, at(10, 0), at(11, 0)))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Empty(t, f.repo.meetings)
	assert.Equal(t, "someone-else", f.locks.held[f.room.ID])
}

func TestCreate_LockStoreFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.locks.acquireErr = errors.New("connection refused")

	_, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestCreate_PrivilegeLookupFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.oracle.err = apperrors.Internal("Failed to check privilege", errors.New("timeout"))

	_, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
	assert.Empty(t, f.repo.meetings)
}

func TestCreate_DuplicateCodeOnInsertIsRetried(t *testing.T) {
	// Twelve zeros draw AAAAAAAAAAAA, then every draw yields B.
	values := make([]int, 12, 13)
	values = append(values, 1)
	f := newFixture(t, &fixedSource{values: values})
	f.repo.hideCodes = true
	f.repo.put(model.Meeting{AccessCode: "AAAAAAAAAAAA", RoomID: f.room.ID, Status: model.MeetingStatusCompleted})

	m, err := f.svc.Create(context.Background(), f.request(boss, at(10, 0), at(11, 0)))
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBBBBBB", m.AccessCode)
	assert.Equal(t, 1, f.repo.rollbacks)
}

func TestCreate_CodeSpaceExhausted(t *testing.T) {
	f := newFixture(t, &fixedSource{values: []int{0}})
	f.repo.put(model.Meeting{AccessCode: "AAAAAAAAAAAA", RoomID: f.room.ID, Status: model.MeetingStatusCancelled})

	_, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeCodeSpaceExhausted))
	assert.Len(t, f.repo.meetings, 1)
}

func TestCreate_ConcurrentRequestsForOneSlot(t *testing.T) {
	f := newFixture(t, nil)

	const requests = 8
	var wg sync.WaitGroup
	errs := make([]error, requests)
	for i := range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict), "got %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.repo.scheduledIn(f.room.ID), 1)
	assert.Empty(t, f.locks.held)
}

// ────────────────────────────────────────────────
// Update
// ────────────────────────────────────────────────

func TestUpdate_SelfNeverConflicts(t *testing.T) {
	f := newFixture(t, nil)
	m, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	start, end := at(10, 15), at(11, 15)
	updated, err := f.svc.Update(context.Background(), m.ID, &model.MeetingUpdate{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	assert.Equal(t, start, updated.StartDate)
	assert.Equal(t, end, updated.EndDate)
	assert.Equal(t, m.AccessCode, updated.AccessCode)
	assert.Equal(t, start, f.repo.get(m.ID).StartDate)
}

func TestUpdate_OverlapIsRejectedEvenForPrivilegedOrganizer(t *testing.T) {
	f := newFixture(t, nil)
	other := f.seed(at(12, 0), at(13, 0))
	m, err := f.svc.Create(context.Background(), f.request(boss, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	end := at(12, 30)
	_, err = f.svc.Update(context.Background(), m.ID, &model.MeetingUpdate{EndDate: &end})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Equal(t, []string{other.ID}, conflictingIDs(t, err))

	assert.Equal(t, model.MeetingStatusScheduled, f.repo.get(other.ID).Status)
	assert.Equal(t, at(11, 0), f.repo.get(m.ID).EndDate)
}

func TestUpdate_OnlySuppliedFieldsChange(t *testing.T) {
	f := newFixture(t, nil)
	m, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	title := "  Retro "
	updated, err := f.svc.Update(context.Background(), m.ID, &model.MeetingUpdate{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Retro", updated.Title)
	assert.Equal(t, m.StartDate, updated.StartDate)
	assert.Equal(t, m.Attendees, updated.Attendees)
	assert.Equal(t, m.OrganizerEmail, updated.OrganizerEmail)
}

func TestUpdate_EmitsAttendeeDiff(t *testing.T) {
	f := newFixture(t, nil)
	m, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	require.NoError(t, err)
	f.notifier.events = nil

	attendees := []string{"erin@acme.io"}
	_, err = f.svc.Update(context.Background(), m.ID, &model.MeetingUpdate{Attendees: &attendees})
	require.NoError(t, err)

	assert.Equal(t, []notifications.Kind{
		notifications.KindUpdated,
		notifications.KindAttendeeAdded,
		notifications.KindAttendeeRemoved,
	}, f.notifier.kinds())
	assert.Equal(t, []string{"erin@acme.io"}, f.notifier.events[1].Recipients)
	assert.Equal(t, []string{"carol@acme.io"}, f.notifier.events[2].Recipients)
}

func TestUpdate_Errors(t *testing.T) {
	f := newFixture(t, nil)
	m, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), primitive.NewObjectID().Hex(), &model.MeetingUpdate{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	past := at(7, 0)
	_, err = f.svc.Update(context.Background(), m.ID, &model.MeetingUpdate{StartDate: &past})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	end := at(9, 0)
	_, err = f.svc.Update(context.Background(), m.ID, &model.MeetingUpdate{EndDate: &end})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	missingRoom := primitive.NewObjectID().Hex()
	_, err = f.svc.Update(context.Background(), m.ID, &model.MeetingUpdate{RoomID: &missingRoom})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.svc.CancelByID(context.Background(), m.ID, &model.MeetingCancel{})
	require.NoError(t, err)

	title := "Too late"
	_, err = f.svc.Update(context.Background(), m.ID, &model.MeetingUpdate{Title: &title})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
	assert.Equal(t, "Sync", f.repo.get(m.ID).Title)
}

func TestUpdate_StartedMeetingCannotBeMoved(t *testing.T) {
	f := newFixture(t, nil)
	m := f.seed(testNow.Add(-2*time.Hour), testNow.Add(-time.Hour))
	before := f.repo.get(m.ID)

	end := testNow.Add(3 * time.Hour)
	_, err := f.svc.Update(context.Background(), m.ID, &model.MeetingUpdate{EndDate: &end})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	title := "Renamed"
	_, err = f.svc.Update(context.Background(), m.ID, &model.MeetingUpdate{Title: &title})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	assert.Equal(t, before, f.repo.get(m.ID))
	assert.Empty(t, f.notifier.kinds())
}

// ────────────────────────────────────────────────
// Cancel / Complete / Delete
// ────────────────────────────────────────────────

func TestCancelByID_DefaultsCancellerAndIsTerminal(t *testing.T) {
	f := newFixture(t, nil)
	m, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	cancelled, err := f.svc.CancelByID(context.Background(), m.ID, &model.MeetingCancel{Reason: "moved"})
	require.NoError(t, err)
	assert.Equal(t, model.MeetingStatusCancelled, cancelled.Status)
	assert.Equal(t, lifecycle.UnknownCanceller, cancelled.CancelledBy)
	assert.Equal(t, "moved", cancelled.CancelledReason)

	before := f.repo.get(m.ID)
	_, err = f.svc.CancelByID(context.Background(), m.ID, &model.MeetingCancel{Reason: "again", CancelledBy: "Bob"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
	assert.Equal(t, before, f.repo.get(m.ID))

	assert.Equal(t, []notifications.Kind{notifications.KindCreated, notifications.KindCancelled}, f.notifier.kinds())
}

func TestCancelByAccessCode(t *testing.T) {
	f := newFixture(t, nil)
	m, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	_, err = f.svc.CancelByAccessCode(context.Background(), &model.MeetingCancelByCode{AccessCode: "ZZZZZZZZZZZZ"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	cancelled, err := f.svc.CancelByAccessCode(context.Background(), &model.MeetingCancelByCode{
		AccessCode: " " + m.AccessCode[:6] + " " + m.AccessCode[6:],
		Reason:     "room change",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", cancelled.CancelledBy)
	assert.Equal(t, "room change", cancelled.CancelledReason)

	before := f.repo.get(m.ID)
	_, err = f.svc.CancelByAccessCode(context.Background(), &model.MeetingCancelByCode{
		AccessCode:  m.AccessCode,
		Reason:      "again",
		CancelledBy: "Bob",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
	assert.Equal(t, before, f.repo.get(m.ID))
	assert.Equal(t, []notifications.Kind{notifications.KindCreated, notifications.KindCancelled}, f.notifier.kinds())
}

func TestCancel_LostRace(t *testing.T) {
	f := newFixture(t, nil)
	m, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	f.repo.replaceErr = meetingserrors.ErrStateChanged
	_, err = f.svc.CancelByID(context.Background(), m.ID, &model.MeetingCancel{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
}

func TestComplete(t *testing.T) {
	f := newFixture(t, nil)
	m, err := f.svc.Create(context.Background(), f.request(alice, at(10, 0), at(11, 0)))
	require.NoError(t, err)

	completed, err := f.svc.Complete(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MeetingStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	_, err = f.svc.Complete(context.Background(), m.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
	_, err = f.svc.CancelByID(context.Background(), m.ID, &model.MeetingCancel{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidState))
}

func TestDelete(t *testing.T) {
	f := newFixture(t, nil)
	m := f.seed(at(10, 0), at(11, 0))

	require.NoError(t, f.svc.Delete(context.Background(), m.ID))
	assert.Empty(t, f.repo.meetings)

	err := f.svc.Delete(context.Background(), m.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	err = f.svc.Delete(context.Background(), "bogus")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

// ────────────────────────────────────────────────
// Queries
// ────────────────────────────────────────────────

func TestUpcoming(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(at(7, 0), at(7, 30))
	later := f.seed(at(12, 0), at(13, 0))
	sooner := f.seed(at(9, 0), at(10, 0))

	got, err := f.svc.Upcoming(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, sooner.ID, got[0].ID)
	assert.Equal(t, later.ID, got[1].ID)

	got, err = f.svc.Upcoming(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRoomSchedule(t *testing.T) {
	f := newFixture(t, nil)
	today := f.seed(at(9, 0), at(10, 0))
	f.seed(at(9, 0).Add(24*time.Hour), at(10, 0).Add(24*time.Hour))

	got, err := f.svc.RoomSchedule(context.Background(), f.room.ID, at(15, 0))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, today.ID, got[0].ID)

	_, err = f.svc.RoomSchedule(context.Background(), primitive.NewObjectID().Hex(), at(15, 0))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestGetAll(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(at(9, 0), at(10, 0))
	_, err := f.svc.Create(context.Background(), f.request(alice, at(11, 0), at(12, 0)))
	require.NoError(t, err)

	got, total, err := f.svc.GetAll(context.Background(), model.MeetingFilter{OrganizerEmail: "ALICE@acme.io"}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, got, 1)

	_, _, err = f.svc.GetAll(context.Background(), model.MeetingFilter{Status: "archived"}, 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestGetByAccessCode_RejectsMalformedCode(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.GetByAccessCode(context.Background(), "123456")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}
