package user

import (
	"strings"
	"time"
)

// Role 账号类型(注册时选择,决定公司字段规则和默认用户组)
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Group 权限用户组(固定枚举,启动时幂等写入roles表)
type Group string

const (
	GroupBuyer  Group = "Buyer"
	GroupSeller Group = "Seller"
	GroupAdmin  Group = "Admin"
)

// AllGroups 全部用户组
var AllGroups = []Group{GroupBuyer, GroupSeller, GroupAdmin}

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 邮箱是登录标识,由数据库唯一索引保证唯一
// 2. 密码只保存bcrypt哈希
// 3. Groups是授权依据,Role只描述账号类型
type User struct {
	ID          uint
	Email       string
	Password    string // bcrypt哈希值
	FirstName   string
	LastName    string
	Role        Role
	CompanyName string
	IsSuperuser bool
	Groups      []Group
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUser 创建新用户（工厂方法）
// 校验账号类型与公司名称的对应关系,并分配默认用户组
func NewUser(email, hashedPassword, firstName, lastName string, role Role, companyName string, superuser bool) (*User, error) {
	u := &User{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Password:    hashedPassword,
		FirstName:   strings.TrimSpace(firstName),
		LastName:    strings.TrimSpace(lastName),
		Role:        role,
		CompanyName: strings.TrimSpace(companyName),
		IsSuperuser: superuser,
	}
	if err := u.validateCompany(); err != nil {
		return nil, err
	}
	u.Groups = DefaultGroups(role, superuser)

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	return u, nil
}

// validateCompany 卖家必须填写公司名称,买家不能填写
func (u *User) validateCompany() error {
	switch u.Role {
	case RoleSeller:
		if u.CompanyName == "" {
			return ErrSellerCompanyRequired
		}
	case RoleBuyer:
		if u.CompanyName != "" {
			return ErrBuyerCompanyForbidden
		}
	case RoleAdmin:
	default:
		return ErrInvalidRole
	}
	return nil
}

// DefaultGroups 新账号的默认用户组
// 所有账号都属于Buyer;卖家额外加入Seller;管理员和超级用户加入Admin
func DefaultGroups(role Role, superuser bool) []Group {
	groups := []Group{GroupBuyer}
	if role == RoleSeller {
		groups = append(groups, GroupSeller)
	}
	if role == RoleAdmin || superuser {
		groups = append(groups, GroupAdmin)
	}
	return groups
}

// FullName 姓名
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Principal 当前用户的授权视图
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Role: u.Role, Groups: u.Groups}
}

// GroupNames 用户组名称(写入JWT)
func (u *User) GroupNames() []string {
	names := make([]string, len(u.Groups))
	for i, g := range u.Groups {
		names[i] = string(g)
	}
	return names
}
