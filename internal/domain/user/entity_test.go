package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserCompanyRules(t *testing.T) {
	cases := []struct {
		name    string
		role    Role
		company string
		wantErr error
	}{
		{"卖家必须填写公司", RoleSeller, "", ErrSellerCompanyRequired},
		{"卖家填写公司", RoleSeller, "Acme Books", nil},
		{"买家不能填写公司", RoleBuyer, "Acme", ErrBuyerCompanyForbidden},
		{"买家不填公司", RoleBuyer, "", nil},
		{"管理员随意", RoleAdmin, "", nil},
		{"未知角色", Role("guest"), "", ErrInvalidRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser("a@example.com", "hash", "A", "B", tc.role, tc.company, false)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultGroups(t *testing.T) {
	assert.Equal(t, []Group{GroupBuyer}, DefaultGroups(RoleBuyer, false))
	assert.Equal(t, []Group{GroupBuyer, GroupSeller}, DefaultGroups(RoleSeller, false))
	assert.Equal(t, []Group{GroupBuyer, GroupAdmin}, DefaultGroups(RoleAdmin, false))
	assert.Equal(t, []Group{GroupBuyer, GroupAdmin}, DefaultGroups(RoleBuyer, true))
}

func TestNewUserNormalizesEmail(t *testing.T) {
	u, err := NewUser("  Reader@Example.COM ", "hash", "Ada", "Lovelace", RoleBuyer, "", false)
	require.NoError(t, err)

	assert.Equal(t, "reader@example.com", u.Email)
	assert.Equal(t, "Ada Lovelace", u.FullName())
	assert.Equal(t, []string{"Buyer"}, u.GroupNames())
}
