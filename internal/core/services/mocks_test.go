package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
	"github.com/brightpath-labs/zohobridge/internal/core/ports/driven"
)

// mockTokenStore implements driven.TokenStore for testing
type mockTokenStore struct {
	mu    sync.Mutex
	token *domain.Token

	getErr     error
	replaceErr error
	updateErr  error

	getCalls     int
	replaceCalls int
	updateCalls  int
}

func (m *mockTokenStore) Get(ctx context.Context) (*domain.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.token == nil {
		return nil, nil
	}
	cp := *m.token
	return &cp, nil
}

func (m *mockTokenStore) Replace(ctx context.Context, token *domain.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceCalls++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	cp := *token
	m.token = &cp
	return nil
}

func (m *mockTokenStore) Update(ctx context.Context, accessToken string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.token == nil {
		return nil
	}
	m.token.AccessToken = accessToken
	m.token.ExpiresAt = expiresAt
	m.token.UpdatedAt = time.Now()
	return nil
}

func (m *mockTokenStore) current() *domain.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// mockStateStore implements driven.AuthStateStore for testing
type mockStateStore struct {
	mu     sync.Mutex
	states map[string]*driven.AuthState
}

func newMockStateStore() *mockStateStore {
	return &mockStateStore{states: make(map[string]*driven.AuthState)}
}

func (m *mockStateStore) Save(ctx context.Context, state *driven.AuthState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.State] = state
	return nil
}

func (m *mockStateStore) GetAndDelete(ctx context.Context, state string) (*driven.AuthState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[state]
	if !ok {
		return nil, nil
	}
	delete(m.states, state)
	if time.Now().After(s.ExpiresAt) {
		return nil, nil
	}
	return s, nil
}

func (m *mockStateStore) Cleanup(ctx context.Context) error {
	return nil
}

// mockCRMClient implements driven.CRMClient for testing
type mockCRMClient struct {
	mu sync.Mutex

	exchangeFn func(ctx context.Context, region domain.Region, code string) (*driven.TokenExchange, error)
	refreshFn  func(ctx context.Context, region domain.Region, refreshToken string) (*driven.TokenExchange, error)
	fieldsFn   func(ctx context.Context, region domain.Region, accessToken, module string) ([]driven.Field, error)
	createFn   func(ctx context.Context, region domain.Region, accessToken, module string, record map[string]any) (*driven.RecordResult, error)

	exchangeCalls int
	refreshCalls  int
	fieldsCalls   int
	createCalls   int
}

func (m *mockCRMClient) ExchangeCode(ctx context.Context, region domain.Region, code string) (*driven.TokenExchange, error) {
	m.mu.Lock()
	m.exchangeCalls++
	fn := m.exchangeFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, region, code)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCRMClient) RefreshAccessToken(ctx context.Context, region domain.Region, refreshToken string) (*driven.TokenExchange, error) {
	m.mu.Lock()
	m.refreshCalls++
	fn := m.refreshFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, region, refreshToken)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCRMClient) ModuleFields(ctx context.Context, region domain.Region, accessToken, module string) ([]driven.Field, error) {
	m.mu.Lock()
	m.fieldsCalls++
	fn := m.fieldsFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, region, accessToken, module)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCRMClient) CreateRecord(ctx context.Context, region domain.Region, accessToken, module string, record map[string]any) (*driven.RecordResult, error) {
	m.mu.Lock()
	m.createCalls++
	fn := m.createFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, region, accessToken, module, record)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCRMClient) calls() (exchange, refresh, fields, create int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchangeCalls, m.refreshCalls, m.fieldsCalls, m.createCalls
}

// mockLock implements driven.DistributedLock for testing
type mockLock struct {
	mu           sync.Mutex
	held         bool
	acquireCalls int
	releaseCalls int
}

func (m *mockLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquireCalls++
	if m.held {
		return false, nil
	}
	m.held = true
	return true, nil
}

func (m *mockLock) Release(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseCalls++
	m.held = false
	return nil
}

// mockTokenService implements driving.TokenService for CRM gateway tests
type mockTokenService struct {
	grant *domain.AccessGrant
	err   error
}

func (m *mockTokenService) BeginAuth(ctx context.Context) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockTokenService) ExchangeCode(ctx context.Context, code, state string, region domain.Region) error {
	return errors.New("not implemented")
}

func (m *mockTokenService) ValidAccessToken(ctx context.Context) (*domain.AccessGrant, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.grant, nil
}

// mockOrphanStore implements driven.OrphanStore for testing
type mockOrphanStore struct {
	mu      sync.Mutex
	records []*domain.OrphanedRecord
	saveErr error
}

func (m *mockOrphanStore) Save(ctx context.Context, rec *domain.OrphanedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockOrphanStore) List(ctx context.Context) ([]*domain.OrphanedRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.OrphanedRecord(nil), m.records...), nil
}
