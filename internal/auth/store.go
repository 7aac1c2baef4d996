package auth

import (
	"errors"
	"fmt"
	"strings"

	"stellar-indexer/internal/models"
	"stellar-indexer/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDuplicateUserID = errors.New("user id already exists")
	ErrDuplicateEmail  = errors.New("email already exists")
	// 未知邮箱和密码错误必须返回同一个错误，避免账号枚举
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Store 负责账号的注册、登录校验和查询
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Register creates a new user. The password is stored only as a bcrypt hash.
func (s *Store) Register(userID, fullName, email, password string) (*models.User, error) {
	userID = strings.TrimSpace(userID)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := util.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, fmt.Errorf("email is empty")
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	// 先分别检查两个唯一字段，让调用方拿到准确的错误
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateUserID
	}

	if err := s.db.Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		UserID:       userID,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		// 并发注册时预检查可能漏网，唯一约束兜底，映射回同样的错误
		return nil, mapUniqueViolation(err)
	}
	return &user, nil
}

// mapUniqueViolation 把存储层的唯一约束冲突映射为重复注册错误
func mapUniqueViolation(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || errors.Is(err, gorm.ErrDuplicatedKey) {
		if strings.Contains(msg, "user_id") {
			return ErrDuplicateUserID
		}
		if strings.Contains(msg, "email") {
			return ErrDuplicateEmail
		}
	}
	return fmt.Errorf("create user: %w", err)
}

// Verify checks email + password and returns the matching user.
func (s *Store) Verify(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetByID returns the user by primary key.
// PasswordHash 在 JSON 序列化时被忽略，不会泄露给调用方。
func (s *Store) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
