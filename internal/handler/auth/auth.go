package auth

import (
	"crypto/subtle"
	"time"

	"papertrade/conf"
	"papertrade/internal/model"
	"papertrade/pkg/errors"
	"papertrade/pkg/errors/ecode"
	"papertrade/pkg/jwt"
	"papertrade/pkg/response"
	"papertrade/pkg/validator"

	"github.com/gin-gonic/gin"
)

// 单用户口令闸门，口令在配置文件里，验证通过发放会话token

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Login() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.LoginReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "%s", validator.Translate(err)), nil)
			return
		}

		cfg := conf.AppConfig.Auth
		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(cfg.Password)) != 1 {
			response.JSON(ctx, errors.WithCode(ecode.RequireAuthErr, "password incorrect"), nil)
			return
		}

		ttl := cfg.JwtTtl
		if ttl <= 0 {
			ttl = int64((24 * time.Hour).Seconds())
		}
		exp := time.Now().Add(time.Duration(ttl) * time.Second)
		claims := jwt.BuildClaims(exp, conf.AppConfig.AppName)
		token, err := jwt.GenToken(claims, cfg.JwtSecret)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "issue token failed"), nil)
			return
		}

		response.JSON(ctx, nil, model.LoginRes{
			AccessToken: token,
			ExpiresIn:   ttl,
		})
	}
}
