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

type MongoProjectService struct {
	projectsCol *mongo.Collection
	now         func() time.Time
}

func NewMongoProjectService(ctx context.Context, db *mongo.Database) *MongoProjectService {
	col := db.Collection(ProjectCollection)

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: createdOrder},
	})

	return &MongoProjectService{
		projectsCol: col,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *MongoProjectService) Create(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	p := models.NewProject(uuid.New().String(), req, s.now())
	if _, err := s.projectsCol.InsertOne(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *MongoProjectService) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.projectsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if isNotFound(err) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	normalizeProject(&p)
	return &p, nil
}

func (s *MongoProjectService) List(ctx context.Context, q models.ListProjectsQuery) ([]models.Project, error) {
	filter := bson.M{}
	if q.OwnerID != "" {
		filter["owner_id"] = q.OwnerID
	}
	if q.Q != "" {
		filter["$or"] = substringAny(q.Q, "title", "brief", "tags")
	}

	return s.find(ctx, filter, limitOr(q.Limit, DefaultProjectListLimit))
}

func (s *MongoProjectService) All(ctx context.Context) ([]models.Project, error) {
	return s.find(ctx, bson.M{}, 0)
}

// find returns matching projects in created_at, id order. A limit of 0 means no limit.
func (s *MongoProjectService) find(ctx context.Context, filter bson.M, limit int) ([]models.Project, error) {
	opts := options.Find().SetSort(createdOrder)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.projectsCol.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Project, 0)
	for cur.Next(ctx) {
		var p models.Project
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		normalizeProject(&p)
		out = append(out, p)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoProjectService) Update(ctx context.Context, id string, req *models.UpdateProjectRequest) (*models.Project, error) {
	set := bson.M(req.Changes())
	set["updated_at"] = s.now()

	res := s.projectsCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Project
	if err := res.Decode(&updated); err != nil {
		if isNotFound(err) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	normalizeProject(&updated)
	return &updated, nil
}

func (s *MongoProjectService) Import(ctx context.Context, projects []models.Project) (int, error) {
	n := 0
	for i := range projects {
		p := projects[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		normalizeProject(&p)
		if _, err := s.projectsCol.InsertOne(ctx, &p); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}

func normalizeProject(p *models.Project) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.RolesNeeded == nil {
		p.RolesNeeded = []string{}
	}
}
