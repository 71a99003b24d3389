package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"viralhub-backend-go/internal/models"
)

// ErrConstraint is the cause carried by StorageError when Memory rejects a write
// that Postgres would reject through a foreign key or unique index.
var ErrConstraint = errors.New("constraint violation")

// Memory keeps every table in-process. It follows the Postgres semantics closely
// enough to stand in for it in tests and DB-less local runs.
type Memory struct {
	mu            sync.RWMutex
	users         map[string]models.User
	products      map[int64]models.Product
	contents      map[int64]models.Content
	assistants    map[int64]models.Assistant
	nextProduct   int64
	nextContent   int64
	nextAssistant int64
	now           func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:      make(map[string]models.User),
		products:   make(map[int64]models.Product),
		contents:   make(map[int64]models.Content),
		assistants: make(map[int64]models.Assistant),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (m *Memory) GetUser(_ context.Context, id string) (models.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	return user, ok, nil
}

func (m *Memory) UpsertUser(_ context.Context, profile models.UserProfile) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if profile.ID == "" {
		return models.User{}, wrap("upsert user", fmt.Errorf("%w: empty id", ErrConstraint))
	}
	if profile.Email != nil {
		for id, other := range m.users {
			if id != profile.ID && other.Email != nil && *other.Email == *profile.Email {
				return models.User{}, wrap("upsert user", fmt.Errorf("%w: duplicate email", ErrConstraint))
			}
		}
	}
	now := m.now()
	user, exists := m.users[profile.ID]
	if !exists {
		user = models.User{
			ID:                        profile.ID,
			SubscriptionPlan:          ptr("free"),
			SubscriptionStatus:        ptr("active"),
			MonthlyProductGenerations: ptr(0),
			MonthlyContentGenerations: ptr(0),
			LastResetDate:             ptr(now),
			AffiliateEarnings:         ptr(0.0),
			CreatedAt:                 ptr(now),
		}
	}
	user.Email = profile.Email
	user.FirstName = profile.FirstName
	user.LastName = profile.LastName
	user.ProfileImageURL = profile.ProfileImageURL
	user.UpdatedAt = ptr(now)
	m.users[profile.ID] = user
	return user, nil
}

func (m *Memory) GetProduct(_ context.Context, id int64) (models.Product, bool, error) {
	if !validID(id) {
		return models.Product{}, false, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	product, ok := m.products[id]
	return product, ok, nil
}

func (m *Memory) GetRecentProducts(_ context.Context, limit int) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return newestFirst(m.products, normalizeLimit(limit), func(models.Product) bool { return true }), nil
}

func (m *Memory) GetUserProducts(_ context.Context, userID string, limit int) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return newestFirst(m.products, normalizeLimit(limit), func(p models.Product) bool {
		return p.UserID != nil && *p.UserID == userID
	}), nil
}

func (m *Memory) CreateProduct(_ context.Context, input models.NewProduct) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[input.UserID]; !ok {
		return models.Product{}, wrap("create product", fmt.Errorf("%w: unknown user %q", ErrConstraint, input.UserID))
	}
	m.nextProduct++
	product := models.Product{
		ID:           m.nextProduct,
		UserID:       ptr(input.UserID),
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		ImageURL:     input.ImageURL,
		Rating:       input.Rating,
		Reviews:      input.Reviews,
		Trending:     orDefault(input.Trending, false),
		Viral:        orDefault(input.Viral, false),
		Popular:      orDefault(input.Popular, false),
		Views:        input.Views,
		Tags:         append([]string(nil), input.Tags...),
		AffiliateURL: input.AffiliateURL,
		Commission:   orDefault(input.Commission, 0),
		Supplier:     input.Supplier,
		SupplierURL:  input.SupplierURL,
		CreatedAt:    ptr(m.now()),
	}
	m.products[product.ID] = product
	return product, nil
}

func (m *Memory) CreateContent(_ context.Context, input models.NewContent) (models.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[input.UserID]; !ok {
		return models.Content{}, wrap("create content", fmt.Errorf("%w: unknown user %q", ErrConstraint, input.UserID))
	}
	if input.ProductID != nil {
		if _, ok := m.products[*input.ProductID]; !ok {
			return models.Content{}, wrap("create content", fmt.Errorf("%w: unknown product %d", ErrConstraint, *input.ProductID))
		}
	}
	m.nextContent++
	content := models.Content{
		ID:          m.nextContent,
		UserID:      ptr(input.UserID),
		ProductID:   input.ProductID,
		Title:       input.Title,
		Description: input.Description,
		Music:       input.Music,
		Animation:   input.Animation,
		CTA:         input.CTA,
		VideoURL:    input.VideoURL,
		CreatedAt:   ptr(m.now()),
	}
	m.contents[content.ID] = content
	return content, nil
}

func (m *Memory) CreateAssistant(_ context.Context, input models.NewAssistant) (models.Assistant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[input.UserID]; !ok {
		return models.Assistant{}, wrap("create assistant", fmt.Errorf("%w: unknown user %q", ErrConstraint, input.UserID))
	}
	m.nextAssistant++
	assistant := models.Assistant{
		ID:           m.nextAssistant,
		UserID:       ptr(input.UserID),
		Name:         input.Name,
		Role:         input.Role,
		SystemPrompt: input.SystemPrompt,
		Temperature:  orDefault(input.Temperature, models.DefaultTemperature),
		Active:       orDefault(input.Active, true),
		CreatedAt:    ptr(m.now()),
	}
	m.assistants[assistant.ID] = assistant
	return assistant, nil
}

func (m *Memory) GetAssistant(_ context.Context, id int64) (models.Assistant, bool, error) {
	if !validID(id) {
		return models.Assistant{}, false, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	assistant, ok := m.assistants[id]
	return assistant, ok, nil
}

func (m *Memory) GetUserAssistants(_ context.Context, userID string) ([]models.Assistant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return newestFirst(m.assistants, -1, func(a models.Assistant) bool {
		return a.UserID != nil && *a.UserID == userID
	}), nil
}

func (m *Memory) CountUserAssistants(ctx context.Context, userID string) (int, error) {
	items, err := m.GetUserAssistants(ctx, userID)
	return len(items), err
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

// newestFirst returns matching rows ordered by descending id; limit < 0 means unbounded.
func newestFirst[T any](rows map[int64]T, limit int, match func(T) bool) []T {
	ids := make([]int64, 0, len(rows))
	for id, row := range rows {
		if match(row) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	if limit >= 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	items := make([]T, 0, len(ids))
	for _, id := range ids {
		items = append(items, rows[id])
	}
	return items
}

func ptr[T any](value T) *T {
	return &value
}

func orDefault[T any](value *T, fallback T) *T {
	if value == nil {
		return ptr(fallback)
	}
	return ptr(*value)
}
