package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/virtual-artifact/social-api/internal/core/domain"
)

type LikeRepository struct {
	col *mongo.Collection
	ids *sequence
}

func NewLikeRepository(db *mongo.Database) *LikeRepository {
	return &LikeRepository{
		col: db.Collection(collectionLikes),
		ids: newSequence(db, collectionLikes),
	}
}

// Create records a like. A user may like the same post more than once.
func (r *LikeRepository) Create(ctx context.Context, l *domain.Like) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}
	l.ID = id

	if _, err := r.col.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}
