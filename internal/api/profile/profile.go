// Package profile 签发和校验匿名 profile 令牌。
//
// 没有账号体系：每个浏览器第一次访问时申请一个 profile，令牌的 subject 即 profile ID，
// 购物车、收藏等文档都挂在这个 ID 下。
package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"avnu/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RoleGuest = "guest"

var ErrInvalidToken = errors.New("invalid profile token")

// Claims 令牌载荷。
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Issuer 使用 HS256 签发令牌。
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer ttl <= 0 时令牌有效期为 30 天。
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue 为 profileID 签发令牌。
//
// 返回值:
//
//	string: 签名后的令牌
//	time.Time: 过期时间
//	error: 签名失败
func (i *Issuer) Issue(profileID string) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role: RoleGuest,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign profile token: %w", err)
	}
	return signed, expires, nil
}

// Parse 校验令牌并返回 profile ID，subject 必须是合法 UUID。
func (i *Issuer) Parse(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Handler 提供 POST /profiles。
type Handler struct {
	issuer *Issuer
	logger *slog.Logger
}

// NewHandler 创建 profile Handler。
func NewHandler(issuer *Issuer, logger *slog.Logger) *Handler {
	return &Handler{issuer: issuer, logger: logger}
}

type createResponse struct {
	ProfileID string    `json:"profile_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Create 新建匿名 profile 并签发令牌。
func (h *Handler) Create(c *gin.Context) {
	profileID := uuid.NewString()
	token, expires, err := h.issuer.Issue(profileID)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("sign token failed", slog.String("error", err.Error()))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}
	metrics.ProfilesIssuedTotal.Inc()
	if h.logger != nil {
		h.logger.Info("profile issued", slog.String("profile_id", profileID))
	}
	c.JSON(http.StatusCreated, createResponse{ProfileID: profileID, Token: token, ExpiresAt: expires})
}
