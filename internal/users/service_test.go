package users

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/avilesdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/avilesdev/storefront-backend/pkg/errors"
	"github.com/avilesdev/storefront-backend/pkg/types"
)

func TestUpdateShippingAddressRejectsIncomplete(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.UpdateShippingAddress(context.Background(), uuid.New(), types.ShippingAddress{
		FullName: "Dana Smith",
		City:     "Austin",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestUpdateShippingAddressPersists(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	userID := uuid.New()
	repo.users[userID] = &models.User{ID: userID, Email: "dana@example.com"}

	address := types.ShippingAddress{
		FullName:    "Dana Smith",
		Address:     "100 Main St",
		City:        "Austin",
		PostalCode:  "73301",
		Country:     "US",
		PhoneNumber: "5125550100",
	}
	user, err := svc.UpdateShippingAddress(context.Background(), userID, address)
	if err != nil {
		t.Fatalf("UpdateShippingAddress: %v", err)
	}
	if user.ShippingAddress == nil || user.ShippingAddress.City != "Austin" {
		t.Fatalf("address not persisted: %+v", user.ShippingAddress)
	}
}

func newTestService(t *testing.T) (Service, *memUserRepo) {
	t.Helper()
	repo := &memUserRepo{users: map[uuid.UUID]*models.User{}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

type memUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (m *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

func (m *memUserRepo) SaveShippingAddress(ctx context.Context, userID uuid.UUID, address *types.ShippingAddress) error {
	user, ok := m.users[userID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	user.ShippingAddress = address
	return nil
}
