package auth

import (
	"context"
	"errors"
	"log/slog"

	"jidauth/internal/domain/model"
	"jidauth/internal/logging"
	"jidauth/internal/repository"
)

type RevokeOutput struct {
	UserID       int64 `json:"userId"`
	TokenVersion int   `json:"tokenVersion"`
}

// RevokeTokensUsecase はユーザーのtoken_versionを+1して、
// それまでに出したrefresh tokenを全部使えなくする。
// 発行済みのaccess tokenは期限（短い）まではそのまま有効。
type RevokeTokensUsecase struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	clock     Clock
}

func NewRevokeTokensUsecase(
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	clock Clock,
) *RevokeTokensUsecase {
	return &RevokeTokensUsecase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		clock:     clock,
	}
}

func (u *RevokeTokensUsecase) Execute(ctx context.Context, userID int64) (RevokeOutput, error) {
	var out RevokeOutput

	if userID <= 0 {
		return out, ErrInvalidInput
	}

	version, err := u.userRepo.IncrementTokenVersion(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, ErrUserNotFound
		}
		return out, storageError("increment token version", err)
	}

	lg := logging.From(ctx)
	lg.Info("tokens_revoked",
		slog.Int64("user_id", userID),
		slog.Int("token_version", version),
	)

	// 失効はもう反映済みなので、監査ログの失敗では戻さない
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  userID,
		Action:       model.AuditActionRevokeTokens,
		TokenVersion: version,
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		lg.Warn("audit_log_failed", slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}

	out.UserID = userID
	out.TokenVersion = version
	return out, nil
}
