package repos

import (
	"onlineshop/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ActivityRepo struct{ db *sqlx.DB }

func NewActivityRepo(db *sqlx.DB) *ActivityRepo { return &ActivityRepo{db: db} }

func (r *ActivityRepo) Insert(a domain.ActivityLog) error {
	_, err := r.db.Exec(`
	  INSERT INTO user_activity_logs(id, user_id, activity_type, activity_details, ip_address, user_agent, created_at)
	  VALUES (?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, a.ID, a.UserID, a.Type, a.Details, a.IPAddress, a.UserAgent)
	return err
}

func (r *ActivityRepo) ListByUser(userID string, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.ActivityLog
	err := r.db.Select(&out, `
	  SELECT id, user_id, activity_type, COALESCE(activity_details,'') AS activity_details,
	         ip_address, user_agent, created_at
	  FROM user_activity_logs
	  WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, userID, limit)
	return out, err
}
