package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
	"github.com/forgo/folio/internal/render"
	"github.com/forgo/folio/internal/storage"
	"github.com/forgo/folio/pkg/jwt"
)

// ============================================================================
// In-memory repository
// ============================================================================

// memRepo is an in-memory collection that mirrors the storage contract:
// a unique key (slug or location) is enforced like the UNIQUE index,
// missing records read as nil, and writes on missing records fail with
// database.ErrNotFound.
type memRepo[T any] struct {
	mu     sync.Mutex
	table  string
	seq    int
	rows   map[string]*T
	order  []string
	id     func(*T) *string
	key    func(*T) string  // unique key; nil when the table has none
	parent func(*T) *string // nil when the table is flat
}

func newMemRepo[T any](table string, id func(*T) *string, key func(*T) string, parent func(*T) *string) *memRepo[T] {
	return &memRepo[T]{table: table, rows: map[string]*T{}, id: id, key: key, parent: parent}
}

func (m *memRepo[T]) keyTaken(key, excludeID string) bool {
	if m.key == nil {
		return false
	}
	for id, row := range m.rows {
		if id != excludeID && m.key(row) == key {
			return true
		}
	}
	return false
}

func (m *memRepo[T]) Create(_ context.Context, v *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key != nil && m.keyTaken(m.key(v), "") {
		return fmt.Errorf("%w: index violation", database.ErrDuplicate)
	}
	m.seq++
	id := fmt.Sprintf("%s:r%d", m.table, m.seq)
	*m.id(v) = id
	c := *v
	m.rows[id] = &c
	m.order = append(m.order, id)
	return nil
}

func (m *memRepo[T]) Update(_ context.Context, v *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := *m.id(v)
	if _, ok := m.rows[id]; !ok {
		return database.ErrNotFound
	}
	if m.key != nil && m.keyTaken(m.key(v), id) {
		return fmt.Errorf("%w: index violation", database.ErrDuplicate)
	}
	c := *v
	m.rows[id] = &c
	return nil
}

func (m *memRepo[T]) UpdateMetadata(ctx context.Context, v *T) error {
	return m.Update(ctx, v)
}

func (m *memRepo[T]) GetByID(_ context.Context, id string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	c := *row
	return &c, nil
}

func (m *memRepo[T]) byKey(key string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if m.key != nil && m.key(row) == key {
			c := *row
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memRepo[T]) GetBySlug(_ context.Context, slug string) (*T, error) {
	return m.byKey(slug)
}

func (m *memRepo[T]) GetByLocation(_ context.Context, location string) (*T, error) {
	return m.byKey(location)
}

func (m *memRepo[T]) SlugTaken(_ context.Context, slug, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keyTaken(slug, excludeID), nil
}

func (m *memRepo[T]) LocationTaken(ctx context.Context, location, excludeID string) (bool, error) {
	return m.SlugTaken(ctx, location, excludeID)
}

func (m *memRepo[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memRepo[T]) Children(_ context.Context, id string) ([]*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*T
	for _, rowID := range m.order {
		row, ok := m.rows[rowID]
		if !ok || m.parent == nil {
			continue
		}
		if p := m.parent(row); p != nil && *p == id {
			c := *row
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *memRepo[T]) DeleteIfLeaf(ctx context.Context, id string) error {
	children, _ := m.Children(ctx, id)
	if len(children) > 0 {
		return model.ErrCategoryHasChildren
	}
	return m.Delete(ctx, id)
}

func (m *memRepo[T]) List(_ context.Context, params model.ListParams) ([]*T, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*T
	for _, id := range m.order {
		if row, ok := m.rows[id]; ok {
			c := *row
			all = append(all, &c)
		}
	}
	total := len(all)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (m *memRepo[T]) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func newPageRepo() *memRepo[model.Page] {
	return newMemRepo("page",
		func(p *model.Page) *string { return &p.ID },
		func(p *model.Page) string { return p.Slug },
		func(p *model.Page) *string { return p.ParentID })
}

func newPostRepo() *memRepo[model.Post] {
	return newMemRepo("post",
		func(p *model.Post) *string { return &p.ID },
		func(p *model.Post) string { return p.Slug },
		nil)
}

func newProductRepo() *memRepo[model.Product] {
	return newMemRepo("product",
		func(p *model.Product) *string { return &p.ID },
		func(p *model.Product) string { return p.Slug },
		nil)
}

func newCategoryRepo() *memRepo[model.Category] {
	return newMemRepo("category",
		func(c *model.Category) *string { return &c.ID },
		func(c *model.Category) string { return c.Slug },
		func(c *model.Category) *string { return c.ParentID })
}

func newContentRepo() *memRepo[model.Content] {
	return newMemRepo("content",
		func(c *model.Content) *string { return &c.ID },
		func(c *model.Content) string { return c.Slug },
		func(c *model.Content) *string { return c.ParentID })
}

func newMenuRepo() *memRepo[model.Menu] {
	return newMemRepo("menu",
		func(m *model.Menu) *string { return &m.ID },
		func(m *model.Menu) string { return m.Location },
		nil)
}

func newMediaRepo() *memRepo[model.Media] {
	return newMemRepo[model.Media]("media",
		func(m *model.Media) *string { return &m.ID },
		nil,
		nil)
}

// ============================================================================
// In-memory users
// ============================================================================

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*model.User{}}
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return database.ErrDuplicate
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("user:u%d", m.seq)
	if u.Role == "" {
		u.Role = model.UserRoleUser
	}
	c := *u
	m.users[u.ID] = &c
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memUsers) SetRole(_ context.Context, userID string, role model.UserRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return database.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *memUsers) TouchLogin(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		now := time.Now()
		u.LoginOn = &now
	}
	return nil
}

func (m *memUsers) List(_ context.Context, params model.ListParams) ([]*model.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

// add stores a user directly, bypassing registration
func (m *memUsers) add(id, email, name string, role model.UserRole) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &model.User{ID: id, Email: email, Name: name, Role: role}
	m.users[id] = u
	c := *u
	return &c
}

// ============================================================================
// Other fakes
// ============================================================================

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, key, _ string, data []byte) (storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return storage.Object{}, s.putErr
	}
	s.objects[key] = data
	return storage.Object{Storage: model.StorageLocal, Key: key, URL: "/uploads/" + key}, nil
}

func (s *memStore) Delete(_ context.Context, _ model.StorageKind, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type memSettings struct {
	mu       sync.Mutex
	settings *model.SiteSettings
	writes   int
}

func (m *memSettings) Get(_ context.Context) (*model.SiteSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return nil, nil
	}
	c := *m.settings
	return &c, nil
}

func (m *memSettings) Upsert(_ context.Context, s *model.SiteSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *s
	c.ID = model.SettingsRecordID
	m.settings = &c
	m.writes++
	s.ID = c.ID
	return nil
}

// ============================================================================
// Helpers
// ============================================================================

var (
	adminID = &model.Identity{ID: "user:admin", Role: model.UserRoleAdmin}
	user1   = &model.Identity{ID: "user:u1", Role: model.UserRoleUser}
	user2   = &model.Identity{ID: "user:u2", Role: model.UserRoleUser}
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testNow() time.Time { return fixedNow }

func testRenderer() Renderer {
	return render.New(render.Options{})
}

func createTestJWTService(t *testing.T) *jwt.Service {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	return jwt.NewTestService(privateKey, "test-issuer", time.Hour)
}

func strPtr(s string) *string { return &s }
