package user

// Principal 发起请求的主体(来自Access Token)
// 零值表示匿名用户,所有权限判断对匿名用户一律拒绝
type Principal struct {
	UserID uint
	Role   Role
	Groups []Group
}

// NewPrincipal 从Token中的字符串字段构造
func NewPrincipal(userID uint, role string, groups []string) Principal {
	p := Principal{UserID: userID, Role: Role(role)}
	for _, g := range groups {
		p.Groups = append(p.Groups, Group(g))
	}
	return p
}

// IsAnonymous 是否匿名
func (p Principal) IsAnonymous() bool {
	return p.UserID == 0
}

// InGroup 是否属于用户组g
func (p Principal) InGroup(g Group) bool {
	if p.IsAnonymous() {
		return false
	}
	for _, have := range p.Groups {
		if have == g {
			return true
		}
	}
	return false
}

// IsAdmin 是否属于Admin组
func (p Principal) IsAdmin() bool {
	return p.InGroup(GroupAdmin)
}

// IsOwnerOrAdmin 对象级权限:资源所有者或管理员
func IsOwnerOrAdmin(p Principal, ownerID uint) bool {
	if p.IsAnonymous() {
		return false
	}
	return p.UserID == ownerID || p.IsAdmin()
}

// IsAdminOrSeller 接口级权限:属于Admin或Seller组(图书写操作)
func IsAdminOrSeller(p Principal) bool {
	return p.InGroup(GroupAdmin) || p.InGroup(GroupSeller)
}
