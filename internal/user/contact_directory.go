package user

import (
	"context"

	"go-faculty-leave/internal/notification"
)

// ContactDirectory resolves notification recipients from the users table.
type ContactDirectory struct {
	repo Repository
}

var _ notification.ContactDirectory = (*ContactDirectory)(nil)

func NewContactDirectory(repo Repository) *ContactDirectory {
	return &ContactDirectory{repo: repo}
}

func (d *ContactDirectory) FindContact(ctx context.Context, userID uint64) (notification.Contact, error) {
	u, err := d.repo.FindByID(ctx, userID)
	if err != nil {
		return notification.Contact{}, mapRepositoryError(err)
	}
	return notification.Contact{
		UserID:   u.ID,
		Name:     u.Name,
		Email:    u.Email,
		IsActive: u.IsActive,
	}, nil
}
