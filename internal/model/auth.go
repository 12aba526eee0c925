package model

// 单用户口令闸门：口令正确即发放会话token

type LoginReq struct {
	Password string `json:"password" binding:"required"`
}

type LoginRes struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // 秒
}
