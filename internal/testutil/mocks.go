package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/database/service"
)

// ==================== MOCK USER REPOSITORY ====================

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// ==================== MOCK STOCK REPOSITORY ====================

// MockStockRepository implements repository.StockRepository for testing
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Create(stock *models.Stock) error {
	args := m.Called(stock)
	return args.Error(0)
}

func (m *MockStockRepository) FindByID(id uint) (*models.Stock, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stock), args.Error(1)
}

func (m *MockStockRepository) FindAll() ([]models.Stock, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Stock), args.Error(1)
}

func (m *MockStockRepository) FindByOwner(ownerID uint) ([]models.Stock, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Stock), args.Error(1)
}

func (m *MockStockRepository) Update(stock *models.Stock) error {
	args := m.Called(stock)
	return args.Error(0)
}

func (m *MockStockRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// ==================== MOCK SESSION STORE ====================

// MockSessionStore implements database.SessionStore for testing
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) LookupSession(ctx context.Context, token string) (uint, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockSessionStore) RevokeSession(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ==================== MOCK AUTH SERVICE ====================

// MockAuthService implements service.AuthService for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(input service.RegisterInput) (*models.User, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// ==================== MOCK STOCK SERVICE ====================

// MockStockService implements service.StockService for testing
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) ListAll() ([]models.Stock, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Stock), args.Error(1)
}

func (m *MockStockService) ListOwned(ownerID uint) ([]models.Stock, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Stock), args.Error(1)
}

func (m *MockStockService) ListForView(view service.View, userID uint) ([]models.Stock, error) {
	args := m.Called(view, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Stock), args.Error(1)
}

func (m *MockStockService) Create(ownerID uint, input service.StockInput) (*models.Stock, error) {
	args := m.Called(ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stock), args.Error(1)
}

func (m *MockStockService) Update(ownerID, stockID uint, input service.StockInput) (*models.Stock, error) {
	args := m.Called(ownerID, stockID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stock), args.Error(1)
}

func (m *MockStockService) Delete(ownerID, stockID uint) error {
	args := m.Called(ownerID, stockID)
	return args.Error(0)
}
