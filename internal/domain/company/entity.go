package company

import (
	"net/url"
	"strings"
	"time"
)

// Company 卖家公司资料
// 与用户一对一(owner_id唯一),创建后OwnerID不可修改
type Company struct {
	ID          uint
	Name        string
	Description string
	Website     string
	OwnerID     uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCompany 创建公司(工厂方法)
func NewCompany(ownerID uint, name, description, website string) (*Company, error) {
	c := &Company{OwnerID: ownerID}
	if err := c.Update(name, description, website); err != nil {
		return nil, err
	}
	c.CreatedAt = c.UpdatedAt
	return c, nil
}

// Update 修改公司资料(不涉及OwnerID)
func (c *Company) Update(name, description, website string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 255 {
		return ErrInvalidName
	}
	website = strings.TrimSpace(website)
	if website != "" && !validWebsite(website) {
		return ErrInvalidWebsite
	}
	c.Name = name
	c.Description = description
	c.Website = website
	c.UpdatedAt = time.Now()
	return nil
}

// IsOwnedBy 是否属于指定用户
func (c *Company) IsOwnedBy(userID uint) bool {
	return userID != 0 && c.OwnerID == userID
}

func validWebsite(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
