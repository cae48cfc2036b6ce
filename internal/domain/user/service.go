package user

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Service 用户领域服务
// 负责密码加密与校验、注册字段的业务规则
type Service interface {
	// Register 创建账号(公开注册和createadmin命令共用)
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Authenticate 邮箱+密码认证
	// 邮箱不存在和密码错误返回同一个错误,避免泄露账号是否存在
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

// RegisterParams 注册参数
type RegisterParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Role        Role
	CompanyName string
	Superuser   bool
}

// Option 服务选项
type Option func(*service)

// WithBcryptCost 设置bcrypt cost(测试中用bcrypt.MinCost加速)
func WithBcryptCost(cost int) Option {
	return func(s *service) {
		s.cost = cost
	}
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
// bcrypt cost默认12:单次哈希约250ms,cost每+1耗时翻倍
func NewService(repo Repository, opts ...Option) Service {
	s := &service{repo: repo, cost: 12}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

func (s *service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if !emailPattern.MatchString(params.Email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePasswordStrength(params.Password); err != nil {
		return nil, err
	}
	if !validName(params.FirstName) || !validName(params.LastName) {
		return nil, ErrInvalidName
	}
	if !params.Role.Valid() {
		return nil, ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	u, err := NewUser(params.Email, string(hashed), params.FirstName, params.LastName, params.Role, params.CompanyName, params.Superuser)
	if err != nil {
		return nil, err
	}

	// 邮箱唯一性交给数据库UNIQUE索引,仓储把冲突转换为ErrEmailDuplicate
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "failed to verify password")
	}
	return u, nil
}

// validatePasswordStrength 8-20位,必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}

func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 1 && n <= 50
}
