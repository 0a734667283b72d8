package repotest

import (
	"context"
	"sync"

	"jidauth/internal/domain/model"
	"jidauth/internal/repository"
)

type MemoryAuditLogRepository struct {
	mu   sync.Mutex
	logs []model.AuditLog
}

func NewMemoryAuditLogRepository() *MemoryAuditLogRepository {
	return &MemoryAuditLogRepository{}
}

var _ repository.AuditLogRepository = (*MemoryAuditLogRepository)(nil)

func (r *MemoryAuditLogRepository) Create(_ context.Context, log model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, log)
	return nil
}

// Logs は保存済みのコピー
func (r *MemoryAuditLogRepository) Logs() []model.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.AuditLog(nil), r.logs...)
}
