package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

type MongoEndorsementService struct {
	endorsementsCol *mongo.Collection
	now             func() time.Time
}

func NewMongoEndorsementService(ctx context.Context, db *mongo.Database) *MongoEndorsementService {
	col := db.Collection(EndorsementCollection)

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "to_user", Value: 1}, {Key: "skill", Value: 1}}},
		{Keys: bson.D{{Key: "from_user", Value: 1}}},
		{Keys: createdOrder},
	})

	return &MongoEndorsementService{
		endorsementsCol: col,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *MongoEndorsementService) Create(ctx context.Context, req *models.CreateEndorsementRequest) (*models.Endorsement, error) {
	e := models.NewEndorsement(uuid.New().String(), req, s.now())
	if _, err := s.endorsementsCol.InsertOne(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *MongoEndorsementService) GetByID(ctx context.Context, id string) (*models.Endorsement, error) {
	var e models.Endorsement
	if err := s.endorsementsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if isNotFound(err) {
			return nil, ErrEndorsementNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *MongoEndorsementService) List(ctx context.Context, q models.ListEndorsementsQuery) ([]models.Endorsement, error) {
	filter := bson.M{}
	if q.ToUser != "" {
		filter["to_user"] = q.ToUser
	}
	if q.FromUser != "" {
		filter["from_user"] = q.FromUser
	}
	if q.Skill != "" {
		filter["skill"] = q.Skill
	}

	return s.find(ctx, filter, limitOr(q.Limit, DefaultEndorsementListLimit))
}

func (s *MongoEndorsementService) All(ctx context.Context) ([]models.Endorsement, error) {
	return s.find(ctx, bson.M{}, 0)
}

// find returns matching endorsements in created_at, id order. A limit of 0 means no limit.
func (s *MongoEndorsementService) find(ctx context.Context, filter bson.M, limit int) ([]models.Endorsement, error) {
	opts := options.Find().SetSort(createdOrder)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.endorsementsCol.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	out := make([]models.Endorsement, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoEndorsementService) Import(ctx context.Context, endorsements []models.Endorsement) (int, error) {
	n := 0
	for i := range endorsements {
		e := endorsements[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if _, err := s.endorsementsCol.InsertOne(ctx, &e); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}
