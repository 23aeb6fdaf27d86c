package repo

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/dbpg"
)

// UserRepo exposes the slice of the users table the notification worker
// needs: who subscribed to which notifications.
type UserRepo struct {
	db *dbpg.DB
}

func (r *UserRepo) GetSubscribedEmails(ctx context.Context, preference string) ([]string, error) {
	query := `
		SELECT email
		FROM users
		WHERE (notification_preferences ->> $1)::boolean IS TRUE
	`
	rows, err := r.db.QueryContext(ctx, query, preference)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribed users: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan user email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, nil
}
