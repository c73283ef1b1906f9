package services

import (
	"database/sql"

	"onlineshop/internal/domain"
	applog "onlineshop/internal/log"
	"onlineshop/internal/repos"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// Activity types recorded on the trail.
const (
	ActivityPlaceOrder      = "PLACE_ORDER"
	ActivityCancelOrder     = "CANCEL_ORDER"
	ActivityConfirmDelivery = "CONFIRM_DELIVERY"
	ActivityOrderShipped    = "ORDER_SHIPPED"
	ActivityPaymentPaid     = "PAYMENT_PAID"
	ActivityLogin           = "LOGIN"
)

// ActivityService appends to the user activity trail off the critical path.
// A write failure is logged and dropped; it never reaches the caller.
type ActivityService struct {
	Repo *repos.ActivityRepo
	pool *ants.Pool
}

// NewActivityService takes a shared worker pool; a nil pool makes writes
// synchronous, which tests rely on.
func NewActivityService(repo *repos.ActivityRepo, pool *ants.Pool) *ActivityService {
	return &ActivityService{Repo: repo, pool: pool}
}

func (s *ActivityService) Record(userID, activityType, details string) {
	s.record(domain.ActivityLog{
		ID:      uuid.NewString(),
		UserID:  userID,
		Type:    activityType,
		Details: details,
	})
}

// RecordFrom additionally captures the request origin.
func (s *ActivityService) RecordFrom(userID, activityType, details, ip, userAgent string) {
	s.record(domain.ActivityLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      activityType,
		Details:   details,
		IPAddress: sql.NullString{String: ip, Valid: ip != ""},
		UserAgent: sql.NullString{String: userAgent, Valid: userAgent != ""},
	})
}

func (s *ActivityService) record(a domain.ActivityLog) {
	task := func() {
		if err := s.Repo.Insert(a); err != nil {
			applog.Error(nil, "activity.record.fail", err, map[string]any{"type": a.Type, "user_id": a.UserID})
		}
	}
	if s.pool == nil {
		task()
		return
	}
	if err := s.pool.Submit(task); err != nil {
		applog.Error(nil, "activity.dispatch.fail", err, map[string]any{"type": a.Type})
	}
}
