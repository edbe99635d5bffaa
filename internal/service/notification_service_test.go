package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/villageflow/villageflow-api/internal/models"
)

func TestNotificationServiceDeliversApprovalNotice(t *testing.T) {
	var mu sync.Mutex
	var received []ApprovalNoticePayload
	done := make(chan struct{}, 1)

	sender := NoticeSenderFunc(func(_ context.Context, payload ApprovalNoticePayload) error {
		mu.Lock()
		received = append(received, payload)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})

	svc := NewNotificationService(sender, nil, NotificationConfig{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	reviewedAt := time.Now().UTC()
	svc.NotifyApproval(&models.Application{
		ID:              "app-1",
		OwnerID:         "user-1",
		SubjectName:     "Nimal Perera",
		SubjectNIC:      "912345678V",
		CertificateType: models.CertificateResidency,
		ReviewedAt:      &reviewedAt,
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	require.Equal(t, "app-1", received[0].ApplicationID)
	require.Equal(t, reviewedAt, received[0].ApprovedAt)
}
