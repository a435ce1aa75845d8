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

type MongoProfileService struct {
	profilesCol *mongo.Collection
	now         func() time.Time
}

func NewMongoProfileService(ctx context.Context, db *mongo.Database) *MongoProfileService {
	col := db.Collection(ProfileCollection)

	// Best-effort indexes. The unique email index closes the race the
	// pre-check in Create leaves open.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: createdOrder},
	})

	return &MongoProfileService{
		profilesCol: col,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MongoProfileService) Create(ctx context.Context, req *models.CreateProfileRequest) (*models.Profile, error) {
	n, err := s.profilesCol.CountDocuments(ctx, bson.M{"email": req.Email}, options.Count().SetLimit(1))
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrEmailExists
	}

	p := models.NewProfile(uuid.New().String(), req, s.now())
	if _, err := s.profilesCol.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return p, nil
}

func (s *MongoProfileService) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	normalizeProfile(&p)
	return &p, nil
}

func (s *MongoProfileService) FindAll(ctx context.Context) ([]models.Profile, error) {
	return s.find(ctx, bson.M{}, 0)
}

func (s *MongoProfileService) List(ctx context.Context, q models.ListProfilesQuery) ([]models.Profile, error) {
	filter := bson.M{}
	if q.Email != "" {
		filter["email"] = q.Email
	}
	if q.Q != "" {
		filter["$or"] = substringAny(q.Q, "name", "headline", "skills")
	}
	return s.find(ctx, filter, limitOr(q.Limit, DefaultProfileListLimit))
}

func (s *MongoProfileService) Update(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	set := bson.M(req.Changes())
	set["updated_at"] = s.now()

	res := s.profilesCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Profile
	if err := res.Decode(&updated); err != nil {
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	normalizeProfile(&updated)
	return &updated, nil
}

func (s *MongoProfileService) Import(ctx context.Context, profiles []models.Profile) (int, error) {
	n := 0
	for i := range profiles {
		p := profiles[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		normalizeProfile(&p)
		if _, err := s.profilesCol.InsertOne(ctx, &p); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}

// find returns matching profiles in created_at, id order. A limit of 0 means no limit.
func (s *MongoProfileService) find(ctx context.Context, filter bson.M, limit int) ([]models.Profile, error) {
	opts := options.Find().SetSort(createdOrder)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.profilesCol.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Profile, 0)
	for cur.Next(ctx) {
		var p models.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		normalizeProfile(&p)
		out = append(out, p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeProfile replaces null lists left by documents written outside this service.
func normalizeProfile(p *models.Profile) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	if p.Links == nil {
		p.Links = []string{}
	}
}
