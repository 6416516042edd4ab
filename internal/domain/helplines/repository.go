package helplines

import "context"

type Repository interface {
	Create(ctx context.Context, h Helpline) (Helpline, error)
	List(ctx context.Context) ([]Helpline, error)
	Count(ctx context.Context) (int, error)
}
