package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/jwt"
)

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对(角色和用户组写入Claims)
// 3. 保存会话到Redis
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	u, err := uc.userService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	tokenPair, err := uc.jwtManager.GenerateToken(jwt.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		Groups: u.GroupNames(),
	})
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis,有效期与Refresh Token一致
	sess := redis.Session{
		UserID:    u.ID,
		Email:     u.Email,
		ClientIP:  req.ClientIP,
		UserAgent: req.UserAgent,
		LoginAt:   time.Now(),
	}
	if err := uc.sessionStore.SaveSession(ctx, sess, uc.jwtManager.RefreshTokenTTL()); err != nil {
		// 会话保存失败不影响登录，只记录日志
		zap.L().Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	zap.L().Info("user logged in", zap.Uint("user_id", u.ID), zap.String("client_ip", req.ClientIP))

	return &LoginResponse{
		User:         toUserResponse(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
	jwtManager   *jwt.Manager
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore, jwtManager *jwt.Manager) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, jwtManager: jwtManager}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string) error {
	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, userID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单（防止Token在过期前继续使用）
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, uc.jwtManager.AccessTokenTTL())
}

// ProfileUseCase 当前用户信息
type ProfileUseCase struct {
	userRepo user.Repository
}

// NewProfileUseCase 创建用户信息用例
func NewProfileUseCase(userRepo user.Repository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// Execute 查询用户信息
func (uc *ProfileUseCase) Execute(ctx context.Context, userID uint) (*UserResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// RefreshUseCase 用Refresh Token换取新的Token对
// 会话已删除(登出)或Refresh Token已使用过时拒绝;角色和用户组按数据库最新值签发
type RefreshUseCase struct {
	userRepo     user.Repository
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewRefreshUseCase 创建刷新Token用例
func NewRefreshUseCase(userRepo user.Repository, jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *RefreshUseCase {
	return &RefreshUseCase{userRepo: userRepo, jwtManager: jwtManager, sessionStore: sessionStore}
}

// Execute 执行刷新,旧的Refresh Token随即加入黑名单
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	userID, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	revoked, err := uc.sessionStore.IsInBlacklist(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrTokenExpired
	}
	if _, err := uc.sessionStore.GetSession(ctx, userID); err != nil {
		return nil, apperrors.ErrTokenExpired
	}

	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	tokenPair, err := uc.jwtManager.GenerateToken(jwt.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		Groups: u.GroupNames(),
	})
	if err != nil {
		return nil, err
	}
	if err := uc.sessionStore.AddToBlacklist(ctx, refreshToken, uc.jwtManager.RefreshTokenTTL()); err != nil {
		return nil, err
	}

	return &LoginResponse{
		User:         toUserResponse(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Email     string
	Password  string
	ClientIP  string
	UserAgent string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"` // Access Token过期时间（秒）
}
