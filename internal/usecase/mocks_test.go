package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*entity.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, hash string, requireChange bool) error {
	return m.Called(ctx, id, hash, requireChange).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *entity.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepository) FindByTokenHash(ctx context.Context, hash string) (*entity.Session, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, hash string) error {
	return m.Called(ctx, hash).Error(0)
}

func (m *MockSessionRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, p *entity.Plan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id string) (*entity.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Plan), args.Error(1)
}

func (m *MockPlanRepository) List(ctx context.Context, limit, offset int) ([]*entity.Plan, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*entity.Plan), args.Int(1), args.Error(2)
}

func (m *MockPlanRepository) Update(ctx context.Context, p *entity.Plan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserPlanRepository struct {
	mock.Mock
}

func (m *MockUserPlanRepository) Assign(ctx context.Context, userID, planID string) (*entity.UserPlan, error) {
	args := m.Called(ctx, userID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserPlan), args.Error(1)
}

func (m *MockUserPlanRepository) FindActiveByUserID(ctx context.Context, userID string) (*entity.UserPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserPlan), args.Error(1)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, s *entity.Sale) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id string) (*entity.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindLatestOpenByClientID(ctx context.Context, clientID string) (*entity.Sale, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Sale), args.Error(1)
}

func (m *MockSaleRepository) List(ctx context.Context, f entity.SaleFilter) ([]*entity.Sale, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*entity.Sale), args.Int(1), args.Error(2)
}

func (m *MockSaleRepository) Update(ctx context.Context, s *entity.Sale) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSaleRepository) TotalsByStatus(ctx context.Context) ([]entity.StatusTotal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.StatusTotal), args.Error(1)
}

func (m *MockSaleRepository) DailyTotals(ctx context.Context, since time.Time) ([]entity.DailyTotal, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]entity.DailyTotal), args.Error(1)
}

func (m *MockSaleRepository) ExpirePending(ctx context.Context, cutoff time.Time) ([]*entity.Sale, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]*entity.Sale), args.Error(1)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, c *entity.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id string) (*entity.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) FindByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) List(ctx context.Context, f entity.ClientFilter) ([]*entity.Client, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*entity.Client), args.Int(1), args.Error(2)
}

func (m *MockClientRepository) Update(ctx context.Context, c *entity.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
