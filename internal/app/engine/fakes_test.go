package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/hardware"
	"github.com/RenzoRomeroCas/DOMO-PROGRAMACION-2/internal/app/models"
)

// fakeStore — потокобезопасное хранилище в памяти для тестов движка.
// Возвращает копии записей, чтобы тесты ловили забытые Update.
type fakeStore struct {
	mu           sync.Mutex
	telescopes   map[int]models.Telescope
	configs      map[string]models.TelescopeConfig
	users        map[int]models.User
	sessions     map[int]models.Session
	queue        []models.QueueEntry
	observations map[string]models.Observation
	nextSession  int
	nextQueue    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		telescopes:   map[int]models.Telescope{},
		configs:      map[string]models.TelescopeConfig{},
		users:        map[int]models.User{},
		sessions:     map[int]models.Session{},
		observations: map[string]models.Observation{},
	}
}

func cfgKey(telescopeID int, kind string) string {
	return fmt.Sprintf("%d/%s", telescopeID, kind)
}

func (f *fakeStore) addTelescope(id int, status string) {
	f.telescopes[id] = models.Telescope{TelescopeID: id, Name: fmt.Sprintf("Domo %d", id), Status: status}
}

func (f *fakeStore) addUser(id int) {
	f.users[id] = models.User{UserID: id, Username: fmt.Sprintf("user%d", id)}
}

func (f *fakeStore) addConfig(telescopeID int, kind, host string) {
	f.configs[cfgKey(telescopeID, kind)] = models.TelescopeConfig{
		TelescopeID: telescopeID, Kind: kind, Host: host, Port: 80,
	}
}

func (f *fakeStore) GetTelescope(_ context.Context, id int) (*models.Telescope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.telescopes[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeStore) GetTelescopeConfig(_ context.Context, telescopeID int, kind string) (*models.TelescopeConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.configs[cfgKey(telescopeID, kind)]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeStore) GetUser(_ context.Context, id int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeStore) GetSession(_ context.Context, id int) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStore) ActiveSession(_ context.Context, telescopeID int) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.TelescopeID == telescopeID && s.Status == models.SessionActive {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateSession(_ context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSession++
	s.SessionID = f.nextSession
	f.sessions[s.SessionID] = *s
	return nil
}

func (f *fakeStore) UpdateSession(_ context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.SessionID] = *s
	return nil
}

func (f *fakeStore) ExpiredSessions(_ context.Context, now time.Time) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Session
	for _, s := range f.sessions {
		if s.Status == models.SessionActive && s.ExpiresAt != nil && !s.ExpiresAt.After(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) sortedQueue(telescopeID int) []models.QueueEntry {
	var out []models.QueueEntry
	for _, e := range f.queue {
		if e.TelescopeID == telescopeID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EnqueuedAt.Equal(out[j].EnqueuedAt) {
			return out[i].QueueID < out[j].QueueID
		}
		return out[i].EnqueuedAt.Before(out[j].EnqueuedAt)
	})
	return out
}

func (f *fakeStore) QueueFor(_ context.Context, telescopeID int) ([]models.QueueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedQueue(telescopeID), nil
}

func (f *fakeStore) FindQueueEntry(_ context.Context, telescopeID, userID int) (*models.QueueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.queue {
		if e.TelescopeID == telescopeID && e.UserID == userID {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FirstQueueEntry(_ context.Context, telescopeID int) (*models.QueueEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.sortedQueue(telescopeID)
	if len(q) == 0 {
		return nil, nil
	}
	return &q[0], nil
}

func (f *fakeStore) CreateQueueEntry(_ context.Context, e *models.QueueEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextQueue++
	e.QueueID = f.nextQueue
	f.queue = append(f.queue, *e)
	return nil
}

func (f *fakeStore) DeleteQueueEntry(_ context.Context, queueID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.queue {
		if e.QueueID == queueID {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) DeleteQueueEntriesByUser(_ context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rest []models.QueueEntry
	for _, e := range f.queue {
		if e.UserID != userID {
			rest = append(rest, e)
		}
	}
	f.queue = rest
	return nil
}

func (f *fakeStore) ActiveObservation(_ context.Context, sessionID int) (*models.Observation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.observations {
		if o.SessionID == sessionID && o.Status == models.ObservationInProgress {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateObservation(_ context.Context, o *models.Observation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observations[o.ObservationID] = *o
	return nil
}

func (f *fakeStore) UpdateObservation(_ context.Context, o *models.Observation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observations[o.ObservationID] = *o
	return nil
}

// activeCount — число активных сессий телескопа (проверка инварианта)
func (f *fakeStore) activeCount(telescopeID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sessions {
		if s.TelescopeID == telescopeID && s.Status == models.SessionActive {
			n++
		}
	}
	return n
}

// inProgressCount — число наблюдений en_curso у сессии
func (f *fakeStore) inProgressCount(sessionID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, o := range f.observations {
		if o.SessionID == sessionID && o.Status == models.ObservationInProgress {
			n++
		}
	}
	return n
}

// fakeGateway — управляемый из теста шлюз к железу.
type fakeGateway struct {
	mu           sync.Mutex
	pointResult  *hardware.PointResult
	pointErr     error
	photo        []byte
	photoErr     error
	pointCalls   int
	captureCalls int
}

func (g *fakeGateway) PointAt(_ context.Context, _ hardware.Endpoint, _ string) (*hardware.PointResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pointCalls++
	if g.pointErr != nil {
		return nil, g.pointErr
	}
	res := *g.pointResult
	return &res, nil
}

func (g *fakeGateway) CapturePhoto(_ context.Context, _ hardware.Endpoint) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.captureCalls++
	return g.photo, g.photoErr
}

func (g *fakeGateway) captures() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.captureCalls
}

// fakePhotos — хранилище снимков в памяти.
type fakePhotos struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{saved: map[string][]byte{}}
}

func (p *fakePhotos) SavePhoto(_ context.Context, path string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.saved[path] = data
	return nil
}
