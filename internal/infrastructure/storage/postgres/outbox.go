package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"broilerfarm/internal/core/id"
)

// NotificationStatus represents the state of a queued notification.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// maxNotificationRetries before a notification is marked failed.
const maxNotificationRetries = 5

// Notification is a queued outbound alert. Alerts are written in the
// same transaction as the state change that triggered them, so a
// rolled-back update never produces a message.
type Notification struct {
	ID          id.ID              `db:"id"`
	OwnerID     id.ID              `db:"owner_id"`
	Kind        string             `db:"kind"`
	SubjectType string             `db:"subject_type"`
	SubjectID   id.ID              `db:"subject_id"`
	Payload     []byte             `db:"payload"`
	Status      NotificationStatus `db:"status"`
	RetryCount  int                `db:"retry_count"`
	LastError   *string            `db:"last_error"`
	NextRetryAt *time.Time         `db:"next_retry_at"`
	CreatedAt   time.Time          `db:"created_at"`
	SentAt      *time.Time         `db:"sent_at"`
}

// NotificationQueue writes alerts to the notification outbox table.
type NotificationQueue struct {
	txManager *TxManager
}

// NewNotificationQueue creates a new notification queue.
func NewNotificationQueue(txManager *TxManager) *NotificationQueue {
	return &NotificationQueue{txManager: txManager}
}

// Enqueue writes an alert inside the current transaction. MUST be
// called within a transaction context.
func (q *NotificationQueue) Enqueue(ctx context.Context, ownerID id.ID, kind, subjectType string, subjectID id.ID, payload any) error {
	tx := q.txManager.GetTx(ctx)
	if tx == nil {
		return fmt.Errorf("notification enqueue requires transaction context")
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO notification_outbox (id, owner_id, kind, subject_type, subject_id, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id.New(), ownerID, kind, subjectType, subjectID, payloadBytes, NotificationStatusPending, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// NotificationSender delivers a queued notification.
type NotificationSender interface {
	// Send delivers the notification and returns error if failed
	Send(ctx context.Context, n *Notification) error
}

// NotificationDispatcher drains the outbox. The low-stock cron job
// runs it on a schedule. Each batch is claimed and delivered within
// one transaction; FOR UPDATE SKIP LOCKED holds the row locks until
// commit, so a concurrent drain skips the claimed rows instead of
// double-sending them.
type NotificationDispatcher struct {
	pool      *pgxpool.Pool
	batchSize int
	sender    NotificationSender
}

// NewNotificationDispatcher creates a new dispatcher.
func NewNotificationDispatcher(pool *pgxpool.Pool, batchSize int, sender NotificationSender) *NotificationDispatcher {
	return &NotificationDispatcher{
		pool:      pool,
		batchSize: batchSize,
		sender:    sender,
	}
}

// ProcessBatch claims pending notifications under row locks, delivers
// them, and records the outcomes. Everything happens in one
// transaction held open across delivery, so the claimed rows stay
// invisible to concurrent drains until commit.
// Returns number of delivered notifications.
func (d *NotificationDispatcher) ProcessBatch(ctx context.Context) (int, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin outbox transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, owner_id, kind, subject_type, subject_id, payload, status,
		       retry_count, last_error, next_retry_at, created_at, sent_at
		FROM notification_outbox
		WHERE status = $1
		  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY created_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, NotificationStatusPending, d.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch notifications: %w", err)
	}

	var pending []*Notification
	for rows.Next() {
		var n Notification
		err := rows.Scan(
			&n.ID, &n.OwnerID, &n.Kind, &n.SubjectType, &n.SubjectID,
			&n.Payload, &n.Status, &n.RetryCount, &n.LastError,
			&n.NextRetryAt, &n.CreatedAt, &n.SentAt,
		)
		if err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan notification: %w", err)
		}
		pending = append(pending, &n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate notifications: %w", err)
	}

	delivered := 0
	for _, n := range pending {
		if err := d.deliver(ctx, tx, n); err != nil {
			continue
		}
		delivered++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit outbox transaction: %w", err)
	}
	return delivered, nil
}

// deliver sends a single notification and records the outcome on the
// claiming transaction.
func (d *NotificationDispatcher) deliver(ctx context.Context, tx pgx.Tx, n *Notification) error {
	err := d.sender.Send(ctx, n)

	if err != nil {
		// Exponential-ish backoff: one extra minute per retry
		nextRetry := time.Now().Add(time.Duration(n.RetryCount+1) * time.Minute)
		errStr := err.Error()

		_, updateErr := tx.Exec(ctx, `
			UPDATE notification_outbox
			SET retry_count = retry_count + 1,
			    last_error = $1,
			    next_retry_at = $2,
			    status = CASE WHEN retry_count >= $3 THEN $4 ELSE status END
			WHERE id = $5
		`, errStr, nextRetry, maxNotificationRetries, NotificationStatusFailed, n.ID)

		if updateErr != nil {
			return fmt.Errorf("update failed notification: %w", updateErr)
		}
		return err
	}

	now := time.Now().UTC()
	_, err = tx.Exec(ctx, `
		UPDATE notification_outbox
		SET status = $1, sent_at = $2
		WHERE id = $3
	`, NotificationStatusSent, now, n.ID)

	return err
}

// PurgeSent removes delivered notifications older than the retention
// window.
func (d *NotificationDispatcher) PurgeSent(ctx context.Context, olderThan time.Duration) (int64, error) {
	result, err := d.pool.Exec(ctx, `
		DELETE FROM notification_outbox
		WHERE status = $1 AND sent_at < $2
	`, NotificationStatusSent, time.Now().Add(-olderThan))

	if err != nil {
		return 0, fmt.Errorf("purge sent notifications: %w", err)
	}

	return result.RowsAffected(), nil
}
