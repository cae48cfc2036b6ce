package company_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcompany "github.com/xiebiao/bookshop/internal/application/company"
	"github.com/xiebiao/bookshop/internal/domain/company"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookshop/internal/testutil"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func setup(t *testing.T) (*appcompany.CompanyUseCase, user.Repository) {
	t.Helper()
	db := testutil.NewDB(t)
	users := gormstore.NewUserRepository(db)
	return appcompany.NewCompanyUseCase(gormstore.NewCompanyRepository(db), users), users
}

func createUser(t *testing.T, repo user.Repository, email string, role user.Role, companyName string) user.Principal {
	t.Helper()
	u, err := user.NewUser(email, "hash", "First", "Last", role, companyName, false)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u.Principal()
}

func TestCreateCompany(t *testing.T) {
	uc, users := setup(t)
	ctx := context.Background()
	seller := createUser(t, users, "seller@example.com", user.RoleSeller, "Acme")
	buyer := createUser(t, users, "buyer@example.com", user.RoleBuyer, "")

	_, err := uc.Create(ctx, buyer, appcompany.CompanyRequest{Name: "Nope"})
	assert.ErrorIs(t, err, company.ErrSellerRequired)

	resp, err := uc.Create(ctx, seller, appcompany.CompanyRequest{Name: "Acme", Website: "https://acme.example.com"})
	require.NoError(t, err)
	assert.Equal(t, seller.UserID, resp.OwnerID)

	_, err = uc.Create(ctx, seller, appcompany.CompanyRequest{Name: "Acme 2"})
	assert.ErrorIs(t, err, company.ErrCompanyExists)

	_, err = uc.Create(ctx, seller, appcompany.CompanyRequest{Name: "Bad", Website: "ftp://acme"})
	assert.ErrorIs(t, err, company.ErrInvalidWebsite)

	mine, err := uc.Mine(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, mine.ID)

	_, err = uc.Mine(ctx, buyer)
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}

func TestCompanyObjectPermissions(t *testing.T) {
	uc, users := setup(t)
	ctx := context.Background()
	owner := createUser(t, users, "owner@example.com", user.RoleSeller, "Acme")
	other := createUser(t, users, "other@example.com", user.RoleSeller, "Other")
	admin := user.Principal{UserID: 99, Role: user.RoleAdmin, Groups: []user.Group{user.GroupAdmin}}

	created, err := uc.Create(ctx, owner, appcompany.CompanyRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = uc.Get(ctx, other, created.ID)
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
	_, err = uc.Update(ctx, other, created.ID, appcompany.CompanyRequest{Name: "Stolen"})
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)

	updated, err := uc.Update(ctx, admin, created.ID, appcompany.CompanyRequest{Name: "Acme Ltd", Description: "books"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, owner.UserID, updated.OwnerID, "所有者不变")

	_, err = uc.List(ctx, owner, 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	list, err := uc.List(ctx, admin, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	require.NoError(t, uc.Delete(ctx, owner, created.ID))
	_, err = uc.Get(ctx, admin, created.ID)
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
}
