package car

import "context"

type Repository interface {
	Create(ctx context.Context, c *Car) (*Car, error)
	GetByID(ctx context.Context, id int) (*Car, error)
	ListApproved(ctx context.Context, limit, offset int) ([]Car, error)
	ListByOwner(ctx context.Context, ownerID int) ([]Car, error)
	CountByOwner(ctx context.Context, ownerID int) (int, error)
	UpdateApproval(ctx context.Context, id int, status string) (*Car, error)
	UpdateAvailability(ctx context.Context, c *Car) (*Car, error)
}
