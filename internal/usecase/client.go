package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

type ClientUseCase struct {
	Clients entity.ClientRepositoryInterface
}

func NewClientUseCase(clients entity.ClientRepositoryInterface) *ClientUseCase {
	return &ClientUseCase{Clients: clients}
}

func (uc *ClientUseCase) Create(ctx context.Context, in CreateClientInput) (*entity.Client, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	client, err := entity.NewClient(in.Name, in.Email, in.Phone)
	if err != nil {
		return nil, fieldError("client", err.Error())
	}
	client.Company = in.Company
	client.UserID = in.UserID

	if _, err := uc.Clients.FindByPhone(ctx, client.Phone); err == nil {
		return nil, &DomainError{Code: "PHONE_TAKEN", Message: "a client with this phone already exists"}
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, persistence("find client by phone", err)
	}

	if err := uc.Clients.Create(ctx, client); err != nil {
		return nil, clientWriteError("create client", err)
	}
	return client, nil
}

func (uc *ClientUseCase) Get(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.Clients.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("client", id, "find client", err)
	}
	return client, nil
}

func (uc *ClientUseCase) List(ctx context.Context, f entity.ClientFilter) (*Page[*entity.Client], error) {
	f.Limit, f.Offset = Paginate(f.Limit, f.Offset)
	items, total, err := uc.Clients.List(ctx, f)
	if err != nil {
		return nil, persistence("list clients", err)
	}
	return newPage(items, total, f.Limit, f.Offset), nil
}

func (uc *ClientUseCase) Update(ctx context.Context, id string, in UpdateClientInput) (*entity.Client, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	client, err := uc.Clients.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("client", id, "find client", err)
	}

	if in.Name != nil {
		client.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		client.Phone = entity.NormalizePhone(*in.Phone)
	}
	if in.Company != nil {
		client.Company = in.Company
	}
	if in.UserID != nil {
		client.UserID = in.UserID
	}
	if err := client.Validate(); err != nil {
		return nil, fieldError("client", err.Error())
	}
	client.UpdatedAt = time.Now()

	if err := uc.Clients.Update(ctx, client); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, &NotFoundError{Resource: "client", ID: id}
		}
		return nil, clientWriteError("update client", err)
	}
	return client, nil
}

// Delete removes the client together with its sales and tickets.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.Clients.Delete(ctx, id); err != nil {
		return notFoundOr("client", id, "delete client", err)
	}
	return nil
}

func clientWriteError(op string, err error) error {
	switch {
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		return &DomainError{Code: "EMAIL_TAKEN", Message: "a client with this email already exists"}
	case errors.Is(err, entity.ErrConflict):
		return &DomainError{Code: "PHONE_TAKEN", Message: "a client with this phone already exists"}
	}
	return persistence(op, err)
}
