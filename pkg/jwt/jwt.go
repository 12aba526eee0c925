package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// 单用户应用的会话token：口令验证通过后发放，无黑名单机制

type CustomClaims struct {
	Sub string `json:"sub"` // 鉴权主题，固定为trader
	jwt.RegisteredClaims
}

func BuildClaims(exp time.Time, issuer string) *CustomClaims {
	return &CustomClaims{
		Sub: "trader",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}
}

func GenToken(c *CustomClaims, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	ss, err := token.SignedString([]byte(secretKey))
	return ss, err
}

// 解析jwt token
func ParseToken(jwtStr, secretKey string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(jwtStr, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
