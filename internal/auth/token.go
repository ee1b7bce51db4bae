/* 사용자 서비스 호출에 붙이는 서비스 간 JWT 생성 및 검증 */

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	Issuer   = "record-service"
	tokenTTL = 5 * time.Minute
)

var ErrEmptySecret = errors.New("auth: empty signing secret")

// Claims 구조체, 조회 대상 외부 식별자를 Subject 로 담음
type Claims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

type Signer struct {
	key []byte
	now func() time.Time
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{key: []byte(secret), now: time.Now}, nil
}

// 서비스 토큰 생성
func (s *Signer) GenerateToken(subject string) (string, error) {
	now := s.now()
	claims := &Claims{
		Service: Issuer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// 서비스 토큰 검증
func (s *Signer) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("auth: unexpected signing method")
		}
		return s.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("auth: invalid token")
	}
	if claims.Issuer != Issuer {
		return nil, errors.New("auth: unexpected issuer")
	}
	return claims, nil
}
