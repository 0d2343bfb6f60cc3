package repositories

import (
	"context"
	"time"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityLogRepository defines the interface for the append-only audit log
type ActivityLogRepository interface {
	InsertLog(ctx context.Context, entry *models.ActivityLog) error
	GetLogsByUser(ctx context.Context, userID uint, limit int64) ([]models.ActivityLog, error)
}

type mongoActivityLogRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityLogRepository creates an ActivityLogRepository backed by
// the activity_logs collection
func NewMongoActivityLogRepository(db *mongo.Database) ActivityLogRepository {
	return &mongoActivityLogRepository{collection: db.Collection("activity_logs")}
}

func (r *mongoActivityLogRepository) InsertLog(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *mongoActivityLogRepository) GetLogsByUser(ctx context.Context, userID uint, limit int64) ([]models.ActivityLog, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []models.ActivityLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
