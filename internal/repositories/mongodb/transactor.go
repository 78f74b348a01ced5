package mongodb

import (
	"context"

	"github.com/SellStarHQ/partner-rewards-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure Transactor implements the interface
var _ repositories.Transactor = (*Transactor)(nil)

// Transactor runs functions inside a MongoDB session transaction. Callbacks
// receive the session context, so repository calls made with it join the
// transaction transparently.
type Transactor struct {
	client *mongo.Client
}

// NewTransactor creates a new Transactor
func NewTransactor(client *mongo.Client) *Transactor {
	return &Transactor{client: client}
}

// WithinTransaction runs fn inside a single transaction. The driver retries
// transient transaction errors; any error returned by fn aborts the whole
// unit of work.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
