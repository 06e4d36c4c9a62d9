package services

import (
	"context"
	"errors"
	"testing"

	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAuditRepo struct {
	repositories.AuditRepository
	logs []models.AuditLog
	err  error
}

func (r *recordingAuditRepo) Create(log *models.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, *log)
	return nil
}

func TestAuditRecord_PersistsEntry(t *testing.T) {
	repo := &recordingAuditRepo{}
	svc := NewAuditService(repo)

	svc.Record(context.Background(), AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "procurement.created",
		UserID:       "officer-1",
		ResourceType: "procurement",
		ResourceID:   "proc-1",
		ResourceName: "Road tender",
		Changes:      map[string]interface{}{"status": "draft"},
	})

	require.Len(t, repo.logs, 1)
	entry := repo.logs[0]
	assert.Equal(t, "procurement.created", entry.Action)
	assert.Equal(t, models.AuditInfo, entry.Severity, "Severity defaults to info")
	assert.NotEmpty(t, entry.Changes)
	assert.False(t, entry.CreatedAt.IsZero())
}

// Сбой журнала не должен ронять бизнес-операцию: Record не возвращает
// ошибку и не паникует при отказе хранилища
func TestAuditRecord_StorageFailureIsSwallowed(t *testing.T) {
	repo := &recordingAuditRepo{err: errors.New("disk full")}
	svc := NewAuditService(repo)

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), AuditEntry{
			EventType: models.AuditAuthentication,
			Action:    "user.login",
			UserID:    "user-1",
		})
	})
	assert.Empty(t, repo.logs)
}
