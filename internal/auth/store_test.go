package auth

import (
	"errors"
	"fmt"
	"testing"

	"stellar-indexer/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// ============ 注册 ============

func TestStore_Register(t *testing.T) {
	store := NewStore(setupTestDB(t))

	user, err := store.Register("u1", "User One", "A@B.com", "abcdef")
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if user.ID == 0 {
		t.Error("应分配主键")
	}
	if user.Email != "a@b.com" {
		t.Errorf("邮箱应转小写，实际 %q", user.Email)
	}
	if user.PasswordHash == "abcdef" || user.PasswordHash == "" {
		t.Error("密码必须以哈希形式存储")
	}
}

func TestStore_RegisterDuplicateUserID(t *testing.T) {
	store := NewStore(setupTestDB(t))

	if _, err := store.Register("u1", "User One", "a@b.com", "abcdef"); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}

	_, err := store.Register("u1", "Other", "other@b.com", "abcdef")
	if !errors.Is(err, ErrDuplicateUserID) {
		t.Errorf("重复用户标识应返回 ErrDuplicateUserID，实际 %v", err)
	}

	// 不应产生新用户
	var count int64
	store.db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("用户数应为 1，实际 %d", count)
	}
}

func TestStore_RegisterDuplicateEmail(t *testing.T) {
	store := NewStore(setupTestDB(t))

	if _, err := store.Register("u1", "User One", "a@b.com", "abcdef"); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}

	// 邮箱不区分大小写判重
	_, err := store.Register("u2", "Other", "A@B.COM", "abcdef")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("重复邮箱应返回 ErrDuplicateEmail，实际 %v", err)
	}
}

func TestStore_RegisterValidation(t *testing.T) {
	store := NewStore(setupTestDB(t))

	cases := []struct {
		name     string
		userID   string
		email    string
		password string
	}{
		{"短用户名", "ab", "a@b.com", "abcdef"},
		{"空邮箱", "u1", "", "abcdef"},
		{"短密码", "u1", "a@b.com", "12345"},
	}
	for _, tc := range cases {
		if _, err := store.Register(tc.userID, "Name", tc.email, tc.password); err == nil {
			t.Errorf("%s: 应返回错误", tc.name)
		}
	}
}

// mapUniqueViolation 覆盖并发注册时约束冲突的映射
func TestMapUniqueViolation(t *testing.T) {
	err := mapUniqueViolation(errors.New("UNIQUE constraint failed: users.user_id"))
	if !errors.Is(err, ErrDuplicateUserID) {
		t.Errorf("user_id 冲突应映射为 ErrDuplicateUserID，实际 %v", err)
	}

	err = mapUniqueViolation(errors.New("UNIQUE constraint failed: users.email"))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("email 冲突应映射为 ErrDuplicateEmail，实际 %v", err)
	}

	err = mapUniqueViolation(errors.New("disk I/O error"))
	if errors.Is(err, ErrDuplicateUserID) || errors.Is(err, ErrDuplicateEmail) {
		t.Error("其他错误不应映射为重复注册")
	}
}

// ============ 登录校验 ============

func TestStore_Verify(t *testing.T) {
	store := NewStore(setupTestDB(t))
	if _, err := store.Register("u1", "User One", "a@b.com", "abcdef"); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	user, err := store.Verify("a@b.com", "abcdef")
	if err != nil {
		t.Fatalf("正确密码校验失败: %v", err)
	}
	if user.UserID != "u1" {
		t.Errorf("返回了错误的用户: %q", user.UserID)
	}

	// 大小写不同的邮箱也能登录
	if _, err := store.Verify("A@B.com", "abcdef"); err != nil {
		t.Errorf("邮箱大小写不应影响登录: %v", err)
	}
}

// 未知邮箱和错误密码必须返回同一个错误，防止账号枚举
func TestStore_VerifyIndistinguishableErrors(t *testing.T) {
	store := NewStore(setupTestDB(t))
	if _, err := store.Register("u1", "User One", "a@b.com", "abcdef"); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	_, errWrongPass := store.Verify("a@b.com", "wrong-password")
	_, errNoUser := store.Verify("nobody@b.com", "abcdef")

	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Errorf("错误密码: %v", errWrongPass)
	}
	if !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Errorf("未知邮箱: %v", errNoUser)
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Errorf("两种失败的错误文本必须一致: %q vs %q",
			errWrongPass.Error(), errNoUser.Error())
	}
}

// ============ 查询 ============

func TestStore_GetByID(t *testing.T) {
	store := NewStore(setupTestDB(t))
	created, err := store.Register("u1", "User One", "a@b.com", "abcdef")
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	user, err := store.GetByID(created.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if user.Email != "a@b.com" {
		t.Errorf("邮箱不匹配: %q", user.Email)
	}

	if _, err := store.GetByID(99999); err == nil {
		t.Error("不存在的 ID 应返回错误")
	}
}
