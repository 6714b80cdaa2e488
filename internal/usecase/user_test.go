package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

func newUsers() (*UserUseCase, *MockUserRepository, *MockPlanRepository, *MockUserPlanRepository) {
	users := new(MockUserRepository)
	plans := new(MockPlanRepository)
	userPlans := new(MockUserPlanRepository)
	uc := NewUserUseCase(users, plans, userPlans)
	uc.HashCost = bcrypt.MinCost
	return uc, users, plans, userPlans
}

func TestUserUseCase_CreateWithPlan(t *testing.T) {
	ctx := context.Background()
	uc, users, plans, userPlans := newUsers()

	plans.On("FindByID", ctx, "p1").Return(&entity.Plan{ID: "p1", Name: "Pro"}, nil)
	users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "bia@example.com" && u.RequirePasswordChange && u.Role == entity.RoleUser
	})).Return(nil)
	userPlans.On("Assign", ctx, mock.Anything, "p1").Return(&entity.UserPlan{PlanID: "p1", Status: entity.UserPlanActive}, nil)

	view, err := uc.Create(ctx, CreateUserInput{Name: "Bia", Email: "Bia@Example.com", Password: "temporary1", PlanID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "bia@example.com", view.Email)
	require.NotNil(t, view.Plan)
	assert.Equal(t, "p1", view.Plan.PlanID)
	assert.NotEqual(t, "temporary1", view.PasswordHash)
}

func TestUserUseCase_CreateRollsBackUserWhenPlanFails(t *testing.T) {
	ctx := context.Background()
	uc, users, plans, userPlans := newUsers()

	var created *entity.User
	plans.On("FindByID", ctx, "p1").Return(&entity.Plan{ID: "p1"}, nil)
	users.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.User)
	}).Return(nil)
	userPlans.On("Assign", ctx, mock.Anything, "p1").Return(nil, errors.New("deadlock"))
	users.On("Delete", ctx, mock.Anything).Return(nil)

	_, err := uc.Create(ctx, CreateUserInput{Name: "Bia", Email: "bia@example.com", Password: "temporary1", PlanID: "p1"})
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	require.NotNil(t, created)
	users.AssertCalled(t, "Delete", ctx, created.ID)
}

func TestUserUseCase_CreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	uc, users, _, _ := newUsers()
	users.On("Create", ctx, mock.Anything).Return(fmt.Errorf("%w: users_email_key", entity.ErrConflict))

	_, err := uc.Create(ctx, CreateUserInput{Name: "Bia", Email: "bia@example.com", Password: "temporary1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserUseCase_CreateUnknownPlan(t *testing.T) {
	ctx := context.Background()
	uc, users, plans, _ := newUsers()
	plans.On("FindByID", ctx, "nope").Return(nil, entity.ErrNotFound)

	_, err := uc.Create(ctx, CreateUserInput{Name: "Bia", Email: "bia@example.com", Password: "temporary1", PlanID: "nope"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "plan", nf.Resource)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUseCase_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the first admin", func(t *testing.T) {
		uc, users, _, _ := newUsers()
		users.On("Count", ctx).Return(0, nil)
		users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.IsAdmin() && !u.RequirePasswordChange
		})).Return(nil)

		created, err := uc.EnsureAdmin(ctx, "admin@example.com", "change-me-now")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("skips when users exist", func(t *testing.T) {
		uc, users, _, _ := newUsers()
		users.On("Count", ctx).Return(2, nil)

		created, err := uc.EnsureAdmin(ctx, "admin@example.com", "change-me-now")
		require.NoError(t, err)
		assert.False(t, created)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("skips without credentials", func(t *testing.T) {
		uc, users, _, _ := newUsers()
		created, err := uc.EnsureAdmin(ctx, "", "")
		require.NoError(t, err)
		assert.False(t, created)
		users.AssertNotCalled(t, "Count", mock.Anything)
	})
}

func TestUserUseCase_GetIncludesActivePlan(t *testing.T) {
	ctx := context.Background()
	uc, users, _, userPlans := newUsers()
	users.On("FindByID", ctx, "u1").Return(&entity.User{ID: "u1"}, nil)
	userPlans.On("FindActiveByUserID", ctx, "u1").Return(nil, entity.ErrNotFound)

	view, err := uc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, view.Plan)
}
