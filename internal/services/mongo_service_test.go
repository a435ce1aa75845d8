package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

// The mock deployment answers commands from a queue, so every service is built
// before responses are queued; its best-effort index creation fails harmlessly.

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// startedCommand returns the last command with the given name sent to the mock.
func startedCommand(mt *mtest.T, name string) bson.Raw {
	mt.Helper()
	var cmd bson.Raw
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == name {
			cmd = evt.Command
		}
	}
	if cmd == nil {
		mt.Fatalf("no %s command sent", name)
	}
	return cmd
}

func profileDoc(id, name string, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "email", Value: id + "@example.com"},
		{Key: "created_at", Value: created},
		{Key: "updated_at", Value: created},
	}
}

// --- Profiles ---

func TestMongoProfileService_Create(t *testing.T) {
	mt := newMockT(t)
	req := &models.CreateProfileRequest{Name: "Ada", Email: "ada@example.com", Skills: []string{"math"}}

	mt.Run("inserts when email is free", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.profile", mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		p, err := svc.Create(context.Background(), req)
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if p.ID == "" || p.Email != "ada@example.com" || p.CreatedAt.IsZero() {
			mt.Errorf("created = %+v", p)
		}
		if p.Interests == nil || p.Links == nil {
			mt.Error("lists must be non-nil")
		}
	})

	mt.Run("pre-check finds email", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.profile", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrEmailExists) {
			mt.Errorf("err = %v, want ErrEmailExists", err)
		}
	})

	mt.Run("duplicate key race", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.profile", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "E11000 duplicate key error collection: db.profile index: email_1",
			}),
		)

		if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrEmailExists) {
			mt.Errorf("err = %v, want ErrEmailExists", err)
		}
	})

	mt.Run("other write errors pass through", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.profile", mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 121, Message: "document failed validation"}),
		)

		_, err := svc.Create(context.Background(), req)
		if err == nil || errors.Is(err, ErrEmailExists) {
			mt.Errorf("err = %v, want a non-conflict error", err)
		}
	})
}

func TestMongoProfileService_FindByID(t *testing.T) {
	mt := newMockT(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mt.Run("found", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.profile", mtest.FirstBatch, profileDoc("p1", "Ada", created)))

		p, err := svc.FindByID(context.Background(), "p1")
		if err != nil {
			mt.Fatalf("FindByID: %v", err)
		}
		if p.Name != "Ada" || !p.CreatedAt.Equal(created) {
			mt.Errorf("profile = %+v", p)
		}
		// Documents written without list fields still decode to empty lists.
		if p.Skills == nil || p.Interests == nil || p.Links == nil {
			mt.Error("lists must be normalized to empty")
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.profile", mtest.FirstBatch))

		if _, err := svc.FindByID(context.Background(), "nope"); !errors.Is(err, ErrProfileNotFound) {
			mt.Errorf("err = %v, want ErrProfileNotFound", err)
		}
	})
}

func TestMongoProfileService_Update(t *testing.T) {
	mt := newMockT(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mt.Run("returns the updated document", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		doc := append(profileDoc("p1", "Ada", created), bson.E{Key: "headline", Value: "Analyst"})
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}))

		p, err := svc.Update(context.Background(), "p1", &models.UpdateProfileRequest{Headline: strPtr("Analyst")})
		if err != nil {
			mt.Fatalf("Update: %v", err)
		}
		if p.Headline != "Analyst" {
			mt.Errorf("headline = %q", p.Headline)
		}

		cmd := startedCommand(mt, "findAndModify")
		set := cmd.Lookup("update", "$set").Document()
		if _, err := set.LookupErr("headline"); err != nil {
			mt.Error("$set should carry headline")
		}
		if _, err := set.LookupErr("updated_at"); err != nil {
			mt.Error("$set should bump updated_at")
		}
		if _, err := set.LookupErr("name"); err == nil {
			mt.Error("$set must not touch fields absent from the patch")
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := svc.Update(context.Background(), "nope", &models.UpdateProfileRequest{Bio: strPtr("x")})
		if !errors.Is(err, ErrProfileNotFound) {
			mt.Errorf("err = %v, want ErrProfileNotFound", err)
		}
	})
}

func TestMongoProfileService_FindAllOrder(t *testing.T) {
	mt := newMockT(t)

	mt.Run("sorted by created_at then _id", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.profile", mtest.FirstBatch,
			profileDoc("a", "First", t0),
			profileDoc("b", "Second", t0.Add(time.Minute)),
		))

		all, err := svc.FindAll(context.Background())
		if err != nil {
			mt.Fatalf("FindAll: %v", err)
		}
		if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" {
			mt.Errorf("profiles = %+v", all)
		}

		cmd := startedCommand(mt, "find")
		sortDoc := cmd.Lookup("sort").Document()
		elems, err := sortDoc.Elements()
		if err != nil {
			mt.Fatal(err)
		}
		if len(elems) != 2 || elems[0].Key() != "created_at" || elems[1].Key() != "_id" {
			mt.Errorf("sort = %s, want created_at then _id", sortDoc)
		}
		if _, err := cmd.LookupErr("limit"); err == nil {
			mt.Error("FindAll must not limit the corpus")
		}
	})

	mt.Run("empty corpus is an empty slice", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.profile", mtest.FirstBatch))

		all, err := svc.FindAll(context.Background())
		if err != nil || all == nil || len(all) != 0 {
			mt.Errorf("all = %#v, err = %v", all, err)
		}
	})
}

func TestMongoProfileService_ListFilter(t *testing.T) {
	mt := newMockT(t)

	mt.Run("q is matched literally", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.profile", mtest.FirstBatch))

		if _, err := svc.List(context.Background(), models.ListProfilesQuery{Q: "c++ (dev)", Limit: 5}); err != nil {
			mt.Fatalf("List: %v", err)
		}

		cmd := startedCommand(mt, "find")
		clauses, err := cmd.Lookup("filter", "$or").Array().Values()
		if err != nil {
			mt.Fatal(err)
		}
		if len(clauses) != 3 {
			mt.Fatalf("got %d $or clauses, want 3", len(clauses))
		}
		name := clauses[0].Document().Lookup("name")
		if got := name.Document().Lookup("$regex").StringValue(); got != regexp.QuoteMeta("c++ (dev)") {
			mt.Errorf("$regex = %q", got)
		}
		if got := name.Document().Lookup("$options").StringValue(); got != "i" {
			mt.Errorf("$options = %q", got)
		}
		if got := cmd.Lookup("limit").AsInt64(); got != 5 {
			mt.Errorf("limit = %d, want 5", got)
		}
	})

	mt.Run("default limit", func(mt *mtest.T) {
		svc := NewMongoProfileService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.profile", mtest.FirstBatch))

		if _, err := svc.List(context.Background(), models.ListProfilesQuery{Email: "a@example.com"}); err != nil {
			mt.Fatalf("List: %v", err)
		}

		cmd := startedCommand(mt, "find")
		if got := cmd.Lookup("filter", "email").StringValue(); got != "a@example.com" {
			mt.Errorf("email filter = %q", got)
		}
		if got := cmd.Lookup("limit").AsInt64(); got != DefaultProfileListLimit {
			mt.Errorf("limit = %d, want %d", got, DefaultProfileListLimit)
		}
	})
}

func TestSubstringAny(t *testing.T) {
	tests := []struct {
		q       string
		pattern string
	}{
		{"go", "go"},
		{"a.b", `a\.b`},
		{"c++", `c\+\+`},
		{"^x$", `\^x\$`},
	}
	for _, tc := range tests {
		t.Run(tc.q, func(t *testing.T) {
			or := substringAny(tc.q, "title", "tags")
			if len(or) != 2 {
				t.Fatalf("len = %d, want 2", len(or))
			}
			clause := or[1].(bson.M)["tags"].(bson.M)
			if clause["$regex"] != tc.pattern || clause["$options"] != "i" {
				t.Errorf("clause = %v", clause)
			}
			if !regexp.MustCompile("(?i)" + tc.pattern).MatchString("prefix " + tc.q + " suffix") {
				t.Errorf("pattern %q does not match its own input", tc.pattern)
			}
		})
	}
}

// --- Projects ---

func TestMongoProjectService(t *testing.T) {
	mt := newMockT(t)

	mt.Run("create applies defaults", func(mt *mtest.T) {
		svc := NewMongoProjectService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p, err := svc.Create(context.Background(), &models.CreateProjectRequest{OwnerID: "u1", Title: "Garden", Brief: "Community garden"})
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if p.Status != models.ProjectStatusOpen || p.Visibility != models.VisibilityPublic {
			mt.Errorf("defaults = %s/%s", p.Status, p.Visibility)
		}
	})

	mt.Run("get missing", func(mt *mtest.T) {
		svc := NewMongoProjectService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.project", mtest.FirstBatch))

		if _, err := svc.GetByID(context.Background(), "nope"); !errors.Is(err, ErrProjectNotFound) {
			mt.Errorf("err = %v, want ErrProjectNotFound", err)
		}
	})

	mt.Run("update missing", func(mt *mtest.T) {
		svc := NewMongoProjectService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := svc.Update(context.Background(), "nope", &models.UpdateProjectRequest{Title: strPtr("t")})
		if !errors.Is(err, ErrProjectNotFound) {
			mt.Errorf("err = %v, want ErrProjectNotFound", err)
		}
	})

	mt.Run("list filters by owner and q", func(mt *mtest.T) {
		svc := NewMongoProjectService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.project", mtest.FirstBatch))

		if _, err := svc.List(context.Background(), models.ListProjectsQuery{OwnerID: "u1", Q: "a.b"}); err != nil {
			mt.Fatalf("List: %v", err)
		}

		cmd := startedCommand(mt, "find")
		if got := cmd.Lookup("filter", "owner_id").StringValue(); got != "u1" {
			mt.Errorf("owner_id = %q", got)
		}
		clauses, err := cmd.Lookup("filter", "$or").Array().Values()
		if err != nil || len(clauses) != 3 {
			mt.Fatalf("$or = %v, err = %v", clauses, err)
		}
		if got := cmd.Lookup("limit").AsInt64(); got != DefaultProjectListLimit {
			mt.Errorf("limit = %d, want %d", got, DefaultProjectListLimit)
		}
	})
}

// --- Endorsements ---

func TestMongoEndorsementService(t *testing.T) {
	mt := newMockT(t)

	mt.Run("create defaults weight", func(mt *mtest.T) {
		svc := NewMongoEndorsementService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		e, err := svc.Create(context.Background(), &models.CreateEndorsementRequest{FromUser: "a", ToUser: "b", Skill: "go"})
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if e.Weight != models.DefaultEndorsementWeight {
			mt.Errorf("weight = %v", e.Weight)
		}
	})

	mt.Run("get missing", func(mt *mtest.T) {
		svc := NewMongoEndorsementService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.endorsement", mtest.FirstBatch))

		if _, err := svc.GetByID(context.Background(), "nope"); !errors.Is(err, ErrEndorsementNotFound) {
			mt.Errorf("err = %v, want ErrEndorsementNotFound", err)
		}
	})

	mt.Run("list filters are exact", func(mt *mtest.T) {
		svc := NewMongoEndorsementService(context.Background(), mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.endorsement", mtest.FirstBatch))

		q := models.ListEndorsementsQuery{ToUser: "b", FromUser: "a", Skill: "go"}
		if _, err := svc.List(context.Background(), q); err != nil {
			mt.Fatalf("List: %v", err)
		}

		filter := startedCommand(mt, "find").Lookup("filter").Document()
		for key, want := range map[string]string{"to_user": "b", "from_user": "a", "skill": "go"} {
			if got := filter.Lookup(key).StringValue(); got != want {
				mt.Errorf("%s = %q, want %q", key, got, want)
			}
		}
	})

	mt.Run("import skips duplicates", func(mt *mtest.T) {
		svc := NewMongoEndorsementService(context.Background(), mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key"}),
		)

		n, err := svc.Import(context.Background(), []models.Endorsement{
			{ID: "e1", FromUser: "a", ToUser: "b", Skill: "go"},
			{ID: "e2", FromUser: "a", ToUser: "b", Skill: "go"},
		})
		if err != nil || n != 1 {
			mt.Errorf("n = %d, err = %v, want 1 insert", n, err)
		}
	})
}
