package model

import "time"

// 何をしたか
type AuditAction string

const (
	//全refresh tokenの失効（token_versionを+1）
	AuditActionRevokeTokens AuditAction = "REVOKE_TOKENS"
)

// 監査ログ。
// 「誰が」「何を」したか、失効後のversionを残す。
type AuditLog struct {
	//IDは監査ログの主キー
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null" json:"action"`

	//操作後のtoken_version
	TokenVersion int `gorm:"not null" json:"token_version"`

	//作成時刻
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
