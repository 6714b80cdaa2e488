package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

var ErrEmailTaken = &DomainError{Code: "EMAIL_TAKEN", Message: "a user with this email already exists"}

type UserUseCase struct {
	Users     entity.UserRepositoryInterface
	Plans     entity.PlanRepositoryInterface
	UserPlans entity.UserPlanRepositoryInterface
	HashCost  int
}

func NewUserUseCase(users entity.UserRepositoryInterface, plans entity.PlanRepositoryInterface, userPlans entity.UserPlanRepositoryInterface) *UserUseCase {
	return &UserUseCase{
		Users:     users,
		Plans:     plans,
		UserPlans: userPlans,
		HashCost:  bcrypt.DefaultCost,
	}
}

// Create registers a user with a temporary password and, when PlanID is set, assigns the
// plan. A failed assignment deletes the user again.
func (uc *UserUseCase) Create(ctx context.Context, in CreateUserInput) (*UserView, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	if in.PlanID != "" {
		if _, err := uc.Plans.FindByID(ctx, in.PlanID); err != nil {
			return nil, notFoundOr("plan", in.PlanID, "find plan", err)
		}
	}

	user, err := uc.newUser(in.Name, in.Email, in.Password, entity.Role(in.Role), true)
	if err != nil {
		return nil, err
	}
	view := &UserView{User: user}

	saga := NewSaga().Step("create user",
		func(ctx context.Context) error { return uc.Users.Create(ctx, user) },
		func(ctx context.Context) error { return uc.Users.Delete(ctx, user.ID) },
	)
	if in.PlanID != "" {
		saga.Step("assign plan", func(ctx context.Context) error {
			up, err := uc.UserPlans.Assign(ctx, user.ID, in.PlanID)
			view.Plan = up
			return err
		}, nil)
	}

	if err := saga.Execute(ctx); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, persistence("create user", err)
	}
	log.Printf("👤 [ADMIN] usuário %s criado (%s)", user.Email, user.Role)
	return view, nil
}

func (uc *UserUseCase) Get(ctx context.Context, id string) (*UserView, error) {
	user, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("user", id, "find user", err)
	}
	return uc.view(ctx, user)
}

func (uc *UserUseCase) List(ctx context.Context, limit, offset int) (*Page[*UserView], error) {
	limit, offset = Paginate(limit, offset)
	users, total, err := uc.Users.List(ctx, limit, offset)
	if err != nil {
		return nil, persistence("list users", err)
	}
	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		v, err := uc.view(ctx, u)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return newPage(views, total, limit, offset), nil
}

func (uc *UserUseCase) Update(ctx context.Context, id string, in UpdateUserInput) (*UserView, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.Users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("user", id, "find user", err)
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Role != nil {
		user.Role = entity.Role(*in.Role)
	}
	user.UpdatedAt = time.Now()

	if err := uc.Users.Update(ctx, user); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, notFoundOr("user", id, "update user", err)
	}

	if in.PlanID != nil && *in.PlanID != "" {
		if _, err := uc.Plans.FindByID(ctx, *in.PlanID); err != nil {
			return nil, notFoundOr("plan", *in.PlanID, "find plan", err)
		}
		up, err := uc.UserPlans.Assign(ctx, user.ID, *in.PlanID)
		if err != nil {
			return nil, persistence("assign plan", err)
		}
		return &UserView{User: user, Plan: up}, nil
	}
	return uc.view(ctx, user)
}

// Delete removes the user; sessions and plans go with it.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Users.Delete(ctx, id); err != nil {
		return notFoundOr("user", id, "delete user", err)
	}
	return nil
}

// CreateAdmin registers an administrator that does not need to change its password.
func (uc *UserUseCase) CreateAdmin(ctx context.Context, name, email, password string) (*entity.User, error) {
	if err := Validate(LoginInput{Email: email, Password: password}); err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, fieldError("password", "must have at least 8 characters")
	}
	if name == "" {
		name = "Administrator"
	}
	user, err := uc.newUser(name, email, password, entity.RoleAdmin, false)
	if err != nil {
		return nil, err
	}
	if err := uc.Users.Create(ctx, user); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, persistence("create admin", err)
	}
	return user, nil
}

// EnsureAdmin creates the first administrator when the users table is empty. It reports
// whether a user was created.
func (uc *UserUseCase) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	n, err := uc.Users.Count(ctx)
	if err != nil {
		return false, persistence("count users", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := uc.CreateAdmin(ctx, "", email, password); err != nil {
		return false, err
	}
	log.Printf("👤 [ADMIN] administrador inicial %s criado", email)
	return true, nil
}

func (uc *UserUseCase) newUser(name, email, password string, role entity.Role, requireChange bool) (*entity.User, error) {
	if role == "" {
		role = entity.RoleUser
	}
	cost := uc.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &entity.User{
		ID:                    uuid.New().String(),
		Name:                  strings.TrimSpace(name),
		Email:                 strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:          hash,
		Role:                  role,
		RequirePasswordChange: requireChange,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

func (uc *UserUseCase) view(ctx context.Context, u *entity.User) (*UserView, error) {
	up, err := uc.UserPlans.FindActiveByUserID(ctx, u.ID)
	if errors.Is(err, entity.ErrNotFound) {
		return &UserView{User: u}, nil
	}
	if err != nil {
		return nil, persistence("find user plan", err)
	}
	return &UserView{User: u, Plan: up}, nil
}
