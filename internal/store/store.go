// Package store holds the client-side task state and keeps it in sync with
// the remote service.
package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tgienger/todo/internal/api"
	"github.com/tgienger/todo/internal/logger"
	"github.com/tgienger/todo/internal/models"
)

// User-visible failure messages, one per operation.
const (
	MsgLoadFailed   = "Failed to load todos"
	MsgCreateFailed = "Create failed"
	MsgUpdateFailed = "Update failed"
	MsgToggleFailed = "Toggle failed"
	MsgDeleteFailed = "Delete failed"
)

// Snapshot is a copy of the store state plus its derived lists.
type Snapshot struct {
	Tasks            []models.Task
	Filtered         []models.Task // search applied
	Visible          []models.Task // search and tab applied
	SearchQuery      string
	Tab              models.Tab
	PendingEdit      *models.Task
	DraftTitle       string
	DraftDescription string
	Font             models.Font
	Loading          bool
	LastError        string
}

// Editing reports whether the form is in edit mode.
func (s Snapshot) Editing() bool {
	return s.PendingEdit != nil
}

// Store is safe for concurrent use. Remote calls run without holding the
// lock, so overlapping calls each apply their own result when they finish.
type Store struct {
	svc    api.Service
	logger *zap.Logger

	mu               sync.Mutex
	tasks            []models.Task
	searchQuery      string
	tab              models.Tab
	pendingEdit      *models.Task
	draftTitle       string
	draftDescription string
	font             models.Font
	inFlight         int
	lastError        string

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for failed operations.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFont sets the initial font.
func WithFont(f models.Font) Option {
	return func(s *Store) {
		s.font = f
	}
}

// WithTab sets the initial tab.
func WithTab(t models.Tab) Option {
	return func(s *Store) {
		s.tab = t
	}
}

// New creates an empty store backed by svc.
func New(svc api.Service, opts ...Option) *Store {
	s := &Store{
		svc:    svc,
		logger: zap.NewNop(),
		font:   models.DefaultFont,
		tab:    models.TabAll,
		subs:   make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to receive a snapshot after every change.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	tasks := slices.Clone(s.tasks)
	filtered := SearchFilter(tasks, s.searchQuery)
	snap := Snapshot{
		Tasks:            tasks,
		Filtered:         filtered,
		Visible:          TabFilter(filtered, s.tab),
		SearchQuery:      s.searchQuery,
		Tab:              s.tab,
		DraftTitle:       s.draftTitle,
		DraftDescription: s.draftDescription,
		Font:             s.font,
		Loading:          s.inFlight > 0,
		LastError:        s.lastError,
	}
	if s.pendingEdit != nil {
		edit := *s.pendingEdit
		snap.PendingEdit = &edit
	}
	return snap
}

// mutate applies fn under the lock and notifies subscribers.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) begin() {
	s.mutate(func() { s.inFlight++ })
}

// finish records the outcome of a remote call and ends its loading span.
func (s *Store) finish(ctx context.Context, op string, err error, failMsg string, onSuccess func()) {
	if err != nil {
		logger.WithRequestID(ctx, s.logger).Warn("remote operation failed", zap.String("op", op), zap.Error(err))
	}
	s.mutate(func() {
		s.inFlight--
		if err != nil {
			s.lastError = failMsg
			return
		}
		s.lastError = ""
		if onSuccess != nil {
			onSuccess()
		}
	})
}

// Load replaces the local tasks with the remote list, newest first.
func (s *Store) Load(ctx context.Context) error {
	s.begin()
	tasks, err := s.svc.ListTasks(ctx)
	s.finish(ctx, api.OpList, err, MsgLoadFailed, func() {
		sorted := slices.Clone(tasks)
		slices.SortStableFunc(sorted, func(a, b models.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
		s.tasks = sorted
	})
	return err
}

// Create adds a new task. A blank title is ignored without a remote call.
func (s *Store) Create(ctx context.Context, title, description string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	s.begin()
	task, err := s.svc.CreateTask(ctx, models.NewTask{Title: title, Description: description})
	s.finish(ctx, api.OpCreate, err, MsgCreateFailed, func() {
		s.tasks = append([]models.Task{task}, s.tasks...)
		s.clearDraftLocked()
	})
	return err
}

// Update saves title and description onto the task being edited.
// It does nothing when no edit is pending or the title is blank.
func (s *Store) Update(ctx context.Context, title, description string) error {
	s.mu.Lock()
	var id string
	if s.pendingEdit != nil {
		id = s.pendingEdit.ID
	}
	s.mu.Unlock()
	if id == "" || strings.TrimSpace(title) == "" {
		return nil
	}

	s.begin()
	task, err := s.svc.UpdateTask(ctx, id, models.EditPatch(title, description))
	s.finish(ctx, api.OpUpdate, err, MsgUpdateFailed, func() {
		s.replaceLocked(id, task)
		if s.pendingEdit != nil && s.pendingEdit.ID == id {
			s.pendingEdit = nil
			s.clearDraftLocked()
		}
	})
	return err
}

// ToggleDone sets the completion flag of a task.
func (s *Store) ToggleDone(ctx context.Context, id string, done bool) error {
	s.begin()
	task, err := s.svc.UpdateTask(ctx, id, models.DonePatch(done))
	s.finish(ctx, api.OpUpdate, err, MsgToggleFailed, func() {
		s.replaceLocked(id, task)
	})
	return err
}

// Remove deletes a task, leaving edit mode if it was being edited.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.begin()
	err := s.svc.DeleteTask(ctx, id)
	s.finish(ctx, api.OpDelete, err, MsgDeleteFailed, func() {
		s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
		if s.pendingEdit != nil && s.pendingEdit.ID == id {
			s.pendingEdit = nil
			s.clearDraftLocked()
		}
	})
	return err
}

// BeginEdit puts the form into edit mode for task.
func (s *Store) BeginEdit(task models.Task) {
	s.mutate(func() {
		s.pendingEdit = &task
		s.draftTitle = task.Title
		s.draftDescription = task.Description
	})
}

// CancelEdit returns the form to create mode.
func (s *Store) CancelEdit() {
	s.mutate(func() {
		s.pendingEdit = nil
		s.clearDraftLocked()
	})
}

// SetSearchQuery updates the search text.
func (s *Store) SetSearchQuery(q string) {
	s.mutate(func() { s.searchQuery = q })
}

// SetDraft updates the form text.
func (s *Store) SetDraft(title, description string) {
	s.mutate(func() {
		s.draftTitle = title
		s.draftDescription = description
	})
}

// SetFont changes the display font.
func (s *Store) SetFont(f models.Font) {
	s.mutate(func() { s.font = f })
}

// SetTab changes the selected tab.
func (s *Store) SetTab(t models.Tab) {
	s.mutate(func() { s.tab = t })
}

// ClearError dismisses the current error message.
func (s *Store) ClearError() {
	s.mutate(func() { s.lastError = "" })
}

// replaceLocked swaps in the server copy of the task the call was made for.
func (s *Store) replaceLocked(id string, task models.Task) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = task
			return
		}
	}
}

func (s *Store) clearDraftLocked() {
	s.draftTitle = ""
	s.draftDescription = ""
}
