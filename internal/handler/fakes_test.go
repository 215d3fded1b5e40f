package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-garage-api/internal/middleware"
	"github.com/iliyamo/parking-garage-api/internal/model"
	"github.com/iliyamo/parking-garage-api/internal/queue"
	"github.com/iliyamo/parking-garage-api/internal/repository"
)

// In-memory stores backing the handler tests. They mirror the repository
// contract including the partial-update merge over column-name field maps.

type fakeGarageStore struct {
	mu     sync.Mutex
	nextID uint64
	items  map[uint64]*model.Garage
}

func newFakeGarageStore() *fakeGarageStore {
	return &fakeGarageStore{nextID: 1, items: map[uint64]*model.Garage{}}
}

func (f *fakeGarageStore) Create(_ context.Context, g *model.Garage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.items {
		if other.Prefix == g.Prefix {
			return repository.ErrDuplicatePrefix
		}
	}
	g.ID = f.nextID
	f.nextID++
	cp := *g
	f.items[g.ID] = &cp
	return nil
}

func (f *fakeGarageStore) GetByID(_ context.Context, id uint64) (*model.Garage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGarageStore) List(_ context.Context) ([]*model.Garage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Garage, 0, len(f.items))
	for _, g := range f.items {
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeGarageStore) Update(_ context.Context, id uint64, fields map[string]any) (*model.Garage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for col, v := range fields {
		s, _ := v.(string)
		switch col {
		case "alias":
			g.Alias = s
		case "zipcode":
			g.Zipcode = s
		case "prefix":
			g.Prefix = s
		case "location":
			g.Location = s
		case "rate_compact":
			g.RateCompact = s
		case "rate_regular":
			g.RateRegular = s
		case "rate_large":
			g.RateLarge = s
		}
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGarageStore) Delete(_ context.Context, id uint64) (*model.Garage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.items, id)
	return g, nil
}

func (f *fakeGarageStore) PrefixExists(_ context.Context, prefix string, excludeID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.items {
		if g.Prefix == prefix && g.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeSpotStore struct {
	mu     sync.Mutex
	nextID uint64
	items  map[uint64]*model.Spot
}

func newFakeSpotStore() *fakeSpotStore {
	return &fakeSpotStore{nextID: 1, items: map[uint64]*model.Spot{}}
}

func (f *fakeSpotStore) Create(_ context.Context, s *model.Spot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.nextID
	f.nextID++
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeSpotStore) GetByID(_ context.Context, id uint64) (*model.Spot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSpotStore) List(_ context.Context) ([]*model.Spot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Spot, 0, len(f.items))
	for _, s := range f.items {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeSpotStore) Update(_ context.Context, id uint64, fields map[string]any) (*model.Spot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for col, v := range fields {
		val, _ := v.(string)
		switch col {
		case "vehicle_type":
			s.VehicleType = val
		case "status":
			s.Status = val
		case "rate":
			s.Rate = val
		}
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSpotStore) Delete(_ context.Context, id uint64) (*model.Spot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.items, id)
	return s, nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	items  map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, items: map[uint64]*model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.items {
		if other.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = f.nextID
	f.nextID++
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.User, 0, len(f.items))
	for _, u := range f.items {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, id uint64, fields map[string]any) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for col, v := range fields {
		s, _ := v.(string)
		switch col {
		case "first_name":
			u.FirstName = s
		case "last_name":
			u.LastName = s
		}
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uint64, passwordHash string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Delete(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.items, id)
	return u, nil
}

type fakeVehicleStore struct {
	mu     sync.Mutex
	nextID uint64
	items  map[uint64]*model.Vehicle
}

func newFakeVehicleStore() *fakeVehicleStore {
	return &fakeVehicleStore{nextID: 1, items: map[uint64]*model.Vehicle{}}
}

func (f *fakeVehicleStore) Create(_ context.Context, v *model.Vehicle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = f.nextID
	f.nextID++
	cp := *v
	f.items[v.ID] = &cp
	return nil
}

func (f *fakeVehicleStore) GetByID(_ context.Context, id uint64) (*model.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVehicleStore) List(_ context.Context) ([]*model.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Vehicle, 0, len(f.items))
	for _, v := range f.items {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeVehicleStore) Update(_ context.Context, id uint64, fields map[string]any) (*model.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for col, val := range fields {
		s, _ := val.(string)
		switch col {
		case "vehicle_type":
			v.VehicleType = s
		case "license":
			v.License = s
		}
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVehicleStore) Delete(_ context.Context, id uint64) (*model.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.items, id)
	return v, nil
}

// fakePublisher records every published event so tests can assert on the
// occupancy stream without a broker.
type fakePublisher struct {
	mu     sync.Mutex
	events []queue.SpotStatusChangedEvent
	done   chan struct{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{done: make(chan struct{}, 8)}
}

func (f *fakePublisher) PublishStatusChanged(_ context.Context, ev queue.SpotStatusChangedEvent) error {
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakePublisher) published() []queue.SpotStatusChangedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]queue.SpotStatusChangedEvent, len(f.events))
	copy(out, f.events)
	return out
}

// newJSONContext builds an echo context carrying a JSON body and the route
// id parameter when one is given.
func newJSONContext(t *testing.T, method, path, body, id string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

// asAuthed stamps caller claims onto the context the way the token
// middleware does after verification.
func asAuthed(c echo.Context, uid uint64, first, last string, admin bool) {
	c.Set(middleware.CtxUserID, uid)
	c.Set(middleware.CtxFirstName, first)
	c.Set(middleware.CtxLastName, last)
	c.Set(middleware.CtxIsAdmin, admin)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var m map[string]string
	decodeBody(t, rec, &m)
	return m["error"]
}
