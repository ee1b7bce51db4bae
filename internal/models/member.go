package models

// 사용자 서비스(user directory)가 돌려주는 회원 정보
type Member struct {
	Idx      string `json:"idx"`
	Username string `json:"username,omitempty"`
}
