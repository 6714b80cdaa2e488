package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

type MockWebhookRepository struct {
	mock.Mock
}

func (m *MockWebhookRepository) Create(ctx context.Context, w *entity.Webhook) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWebhookRepository) FindByID(ctx context.Context, id string) (*entity.Webhook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Webhook), args.Error(1)
}

func (m *MockWebhookRepository) List(ctx context.Context, limit, offset int) ([]*entity.Webhook, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*entity.Webhook), args.Int(1), args.Error(2)
}

func (m *MockWebhookRepository) ListActiveByEvent(ctx context.Context, event string) ([]*entity.Webhook, error) {
	args := m.Called(ctx, event)
	return args.Get(0).([]*entity.Webhook), args.Error(1)
}

func (m *MockWebhookRepository) Update(ctx context.Context, w *entity.Webhook) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWebhookRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockWebhookTrigger struct {
	mock.Mock
}

func (m *MockWebhookTrigger) Trigger(ctx context.Context, w *entity.Webhook, event string, payload any) (*entity.WebhookEvent, error) {
	args := m.Called(ctx, w, event, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WebhookEvent), args.Error(1)
}

type MockChipRepository struct {
	mock.Mock
}

func (m *MockChipRepository) Create(ctx context.Context, c *entity.WhatsappChip) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockChipRepository) FindByID(ctx context.Context, id string) (*entity.WhatsappChip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WhatsappChip), args.Error(1)
}

func (m *MockChipRepository) List(ctx context.Context, status entity.ChipStatus, limit, offset int) ([]*entity.WhatsappChip, int, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*entity.WhatsappChip), args.Int(1), args.Error(2)
}

func (m *MockChipRepository) Update(ctx context.Context, c *entity.WhatsappChip) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockChipRepository) MarkRecovery(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockChipRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestPlanUseCase_CreateParsesPrice(t *testing.T) {
	ctx := context.Background()
	plans := new(MockPlanRepository)
	plans.On("Create", ctx, mock.Anything).Return(nil)

	p, err := NewPlanUseCase(plans).Create(ctx, PlanInput{Name: " Pro ", Price: "R$ 199,90", MaxChips: 3})
	require.NoError(t, err)
	assert.Equal(t, "Pro", p.Name)
	assert.True(t, dec("199.90").Equal(p.Price))
	assert.True(t, p.Active)
}

func TestPlanUseCase_DeleteInUse(t *testing.T) {
	ctx := context.Background()
	plans := new(MockPlanRepository)
	plans.On("Delete", ctx, "p1").Return(fmt.Errorf("%w: user_plans_plan_id_fkey", entity.ErrConflict))

	err := NewPlanUseCase(plans).Delete(ctx, "p1")
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "PLAN_IN_USE", de.Code)
}

func TestWebhookUseCase_CreateValidates(t *testing.T) {
	ctx := context.Background()
	hooks := new(MockWebhookRepository)
	uc := NewWebhookUseCase(hooks, nil, nil)

	_, err := uc.Create(ctx, WebhookInput{Name: "CRM", URL: "ftp://crm.local", Events: []string{"sale.sold"}})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := []string{}
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "url")
	assert.Contains(t, fields, "events[0]")
	hooks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWebhookUseCase_CreateDedupesEvents(t *testing.T) {
	ctx := context.Background()
	hooks := new(MockWebhookRepository)
	hooks.On("Create", ctx, mock.Anything).Return(nil)

	w, err := NewWebhookUseCase(hooks, nil, nil).Create(ctx, WebhookInput{
		Name:   "CRM",
		URL:    "https://crm.example.com/hooks",
		Events: []string{"sale.realized", "sale.lost", "sale.realized"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sale.realized", "sale.lost"}, w.Events)
	assert.True(t, w.Active)
}

func TestWebhookUseCase_TestDelivery(t *testing.T) {
	ctx := context.Background()
	hooks := new(MockWebhookRepository)
	trigger := new(MockWebhookTrigger)
	w := &entity.Webhook{ID: "w1", URL: "https://crm.example.com"}
	hooks.On("FindByID", ctx, "w1").Return(w, nil)
	trigger.On("Trigger", ctx, w, entity.EventWebhookTest, mock.Anything).
		Return(&entity.WebhookEvent{WebhookID: "w1", Status: entity.DeliveryFailed}, nil)

	ev, err := NewWebhookUseCase(hooks, nil, trigger).Test(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryFailed, ev.Status)
}

func TestChipUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate phone", func(t *testing.T) {
		chips := new(MockChipRepository)
		chips.On("Create", ctx, mock.Anything).Return(fmt.Errorf("%w: whatsapp_chips_phone_number_key", entity.ErrConflict))

		_, err := NewChipUseCase(chips).Create(ctx, ChipInput{PhoneNumber: "+55 11 98888-7777", Label: "Vendas 1"})
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "PHONE_TAKEN", de.Code)
	})

	t.Run("recover", func(t *testing.T) {
		chips := new(MockChipRepository)
		now := time.Now()
		chips.On("MarkRecovery", ctx, "ch1", mock.AnythingOfType("time.Time")).Return(nil)
		chips.On("FindByID", ctx, "ch1").Return(&entity.WhatsappChip{ID: "ch1", Status: entity.ChipRecovery, LastRecoveryAt: &now}, nil)

		c, err := NewChipUseCase(chips).Recover(ctx, "ch1")
		require.NoError(t, err)
		assert.Equal(t, entity.ChipRecovery, c.Status)
	})

	t.Run("recover missing", func(t *testing.T) {
		chips := new(MockChipRepository)
		chips.On("MarkRecovery", ctx, "ghost", mock.Anything).Return(entity.ErrNotFound)

		_, err := NewChipUseCase(chips).Recover(ctx, "ghost")
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf)
	})

	t.Run("list rejects unknown status", func(t *testing.T) {
		_, err := NewChipUseCase(new(MockChipRepository)).List(ctx, "broken", 0, 0)
		var verrs ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}
