package models

import "time"

// DateLayout 은 createdDate 조회/저장에 쓰는 ISO 8601 날짜 형식
const DateLayout = "2006-01-02"

// 음성 파일 업로드 단위 기록
type Record struct {
	RecordIdx   string    `json:"recordIdx"`
	UserIdx     string    `json:"userIdx"`
	DeviceType  string    `json:"deviceType"`
	FileName    string    `json:"fileName,omitempty"`
	CreatedDate string    `json:"createdDate"`
	CreatedAt   time.Time `json:"createdAt"`
	Checked     bool      `json:"checked"`
}

// 새 Record 생성 요청. OwnerRef 는 게이트웨이가 넘겨준 외부 식별자
type NewRecord struct {
	OwnerRef   string
	DeviceType string
	FileName   string
}
