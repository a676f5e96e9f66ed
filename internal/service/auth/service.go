// Package auth 会话令牌与管理接口密钥校验
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken 会话令牌无效或过期
var ErrInvalidToken = errors.New("invalid session token")

const tokenType = "chat_session"

// randomSecret 未配置密钥时生成进程内随机密钥，重启后旧令牌失效
func randomSecret() string {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		panic(fmt.Sprintf("failed to generate session token secret: %v", err))
	}
	return base64.StdEncoding.EncodeToString(randomBytes)
}

// Service 认证服务
type Service struct {
	secret      []byte
	ttl         time.Duration
	adminSecret string
	now         func() time.Time
}

// NewService 创建认证服务
// tokenSecret 为空时使用随机密钥；adminSecret 可以是明文或 bcrypt 哈希
func NewService(tokenSecret string, ttl time.Duration, adminSecret string) *Service {
	tokenSecret = strings.TrimSpace(tokenSecret)
	if tokenSecret == "" {
		tokenSecret = randomSecret()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		secret:      []byte(tokenSecret),
		ttl:         ttl,
		adminSecret: strings.TrimSpace(adminSecret),
		now:         time.Now,
	}
}

// IssueSessionToken 签发新的会话令牌，返回令牌和会话 ID
func (s *Service) IssueSessionToken() (string, string, error) {
	sessionID := uuid.New().String()
	now := s.now()

	claims := jwt.MapClaims{
		"sid":  sessionID,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
		"type": tokenType,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, sessionID, nil
}

// ParseSessionToken 校验令牌并返回会话 ID
func (s *Service) ParseSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if t, _ := claims["type"].(string); t != tokenType {
		return "", ErrInvalidToken
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrInvalidToken
	}
	return sid, nil
}

// AdminConfigured 是否配置了管理密钥
func (s *Service) AdminConfigured() bool {
	return s.adminSecret != ""
}

// CheckAdminKey 校验管理密钥，未配置密钥时总是拒绝
func (s *Service) CheckAdminKey(key string) bool {
	if s.adminSecret == "" || key == "" {
		return false
	}
	if isBcryptHash(s.adminSecret) {
		return bcrypt.CompareHashAndPassword([]byte(s.adminSecret), []byte(key)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.adminSecret), []byte(key)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
