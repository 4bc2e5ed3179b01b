package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/virtual-artifact/social-api/internal/core/domain"
)

type PostRepository struct {
	col *mongo.Collection
	ids *sequence
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		col: db.Collection(collectionPosts),
		ids: newSequence(db, collectionPosts),
	}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx)
	if err != nil {
		return err
	}
	p.ID = id

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &p, nil
}

func (r *PostRepository) FindWithLikes(ctx context.Context, id int64) (*domain.PostWithLikes, error) {
	posts, err := r.aggregate(ctx, bson.D{{Key: "$match", Value: bson.M{"_id": id}}}, bson.D{{Key: "_id", Value: 1}})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, domain.ErrPostNotFound
	}
	return &posts[0], nil
}

func (r *PostRepository) List(ctx context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error) {
	return r.aggregate(ctx, nil, sortStage(sorting))
}

// UpdateImageURL returns the number of matched posts: writing the same URL
// twice still counts as one.
func (r *PostRepository) UpdateImageURL(ctx context.Context, id int64, url string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"image_url": url}})
	if err != nil {
		return 0, fmt.Errorf("update post image: %w", err)
	}
	return res.MatchedCount, nil
}

// aggregate joins the like count onto posts. match may be nil.
func (r *PostRepository) aggregate(ctx context.Context, match bson.D, sort bson.D) ([]domain.PostWithLikes, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, match)
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionLikes},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "post_id"},
			{Key: "as", Value: "likes"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "likes", Value: bson.D{{Key: "$size", Value: "$likes"}}},
		}}},
		bson.D{{Key: "$sort", Value: sort}},
	)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate posts: %w", err)
	}

	posts := []domain.PostWithLikes{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func sortStage(sorting domain.PostSorting) bson.D {
	switch sorting {
	case domain.SortOld:
		return bson.D{{Key: "_id", Value: 1}}
	case domain.SortMostLikes:
		return bson.D{{Key: "likes", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: -1}}
	}
}
