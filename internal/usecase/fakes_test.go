package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/learnhubhq/learnhub-api/internal/domain"
)

// fakeUserRepo is a test-only in-memory domain.UserRepository with error
// injection fields.
type fakeUserRepo struct {
	mu        sync.RWMutex
	users     map[string]*domain.User // by id
	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrDuplicate
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, u := range f.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return domain.ErrDuplicate
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, page, limit int) ([]*domain.User, int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var all []*domain.User
	for _, u := range f.users {
		clone := *u
		all = append(all, &clone)
	}
	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// fakeUserCache is an in-memory domain.UserCache. Entries go through the
// same JSON round trip as the Redis cache, so a cached user loses exactly
// what a real cached user loses (the credential hash, tagged json:"-").
type fakeUserCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{entries: make(map[string][]byte)}
}

func (f *fakeUserCache) Get(_ context.Context, id string) (*domain.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	data, ok := f.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := &domain.User{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (f *fakeUserCache) Set(_ context.Context, user *domain.User, _ time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[user.ID] = data
	return nil
}

func (f *fakeUserCache) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
	return nil
}

// fakeMailer records every sent mail so tests can fish the OTP back out of
// the side channel.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []domain.Mail
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, mail domain.Mail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, mail)
	return nil
}

func (f *fakeMailer) last() (domain.Mail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return domain.Mail{}, false
	}
	return f.sent[len(f.sent)-1], true
}

// lastCode returns the OTP embedded in the most recent mail.
func (f *fakeMailer) lastCode() string {
	mail, ok := f.last()
	if !ok {
		return ""
	}
	code, _ := mail.Data["Code"].(string)
	return code
}

// fakeMedia records uploads and destroys.
type fakeMedia struct {
	mu         sync.Mutex
	uploads    int
	destroyed  []string
	uploadErr  error
	destroyErr error
}

func (f *fakeMedia) Upload(_ context.Context, folder, _ string) (*domain.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads++
	id := fmt.Sprintf("%s/asset-%d", folder, f.uploads)
	return &domain.MediaAsset{PublicID: id, URL: "https://media.example.com/" + id}, nil
}

func (f *fakeMedia) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

// fakeCourseRepo is an in-memory domain.CourseRepository.
type fakeCourseRepo struct {
	mu      sync.RWMutex
	courses map[string]*domain.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*domain.Course)}
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id string) (*domain.Course, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCourseRepo) Create(_ context.Context, course *domain.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *course
	f.courses[course.ID] = &clone
	return nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *domain.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[course.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *course
	f.courses[course.ID] = &clone
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) List(_ context.Context) ([]*domain.Course, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var all []*domain.Course
	for _, c := range f.courses {
		clone := *c
		all = append(all, &clone)
	}
	return all, nil
}

// fakeOrderRepo is an in-memory domain.OrderRepository.
type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *order
	f.orders = append(f.orders, &clone)
	return nil
}

func (f *fakeOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Order(nil), f.orders...), nil
}

// fakeGateway returns a static client secret.
type fakeGateway struct {
	lastAmount int64
}

func (f *fakeGateway) CreateIntent(_ context.Context, amount int64, _ string) (string, error) {
	f.lastAmount = amount
	return "pi_test_secret", nil
}

// fakeLayoutRepo is an in-memory domain.LayoutRepository keyed by type.
type fakeLayoutRepo struct {
	mu      sync.RWMutex
	layouts map[string]*domain.Layout
}

func newFakeLayoutRepo() *fakeLayoutRepo {
	return &fakeLayoutRepo{layouts: make(map[string]*domain.Layout)}
}

func (f *fakeLayoutRepo) GetByType(_ context.Context, layoutType string) (*domain.Layout, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	l, ok := f.layouts[layoutType]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *l
	return &clone, nil
}

func (f *fakeLayoutRepo) Create(_ context.Context, layout *domain.Layout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.layouts[layout.Type]; ok {
		return domain.ErrDuplicate
	}
	clone := *layout
	f.layouts[layout.Type] = &clone
	return nil
}

func (f *fakeLayoutRepo) Update(_ context.Context, layout *domain.Layout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.layouts[layout.Type]; !ok {
		return domain.ErrNotFound
	}
	clone := *layout
	f.layouts[layout.Type] = &clone
	return nil
}
