package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

func dupKey(index string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: yamdb.users index: " + index + " dup key",
	}}}
}

func TestUserConflict(t *testing.T) {
	cases := []struct {
		err  error
		want error
	}{
		{dupKey(indexUsername), domain.ErrUsernameTaken},
		{dupKey(indexEmail), domain.ErrEmailTaken},
		{dupKey("_id_"), domain.ErrConflict},
	}
	for _, tc := range cases {
		if !mongo.IsDuplicateKeyError(tc.err) {
			t.Fatalf("fixture is not a duplicate key error: %v", tc.err)
		}
		if got := userConflict(tc.err); !errors.Is(got, tc.want) {
			t.Errorf("userConflict(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestUserDoc_UnsetTimestampsStayAbsent(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	doc := toUserDoc(&domain.User{Username: "alice", Email: "a@example.com", Role: domain.RoleModerator, CreatedAt: now, UpdatedAt: now})

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bson.Raw(raw).LookupErr("last_login"); err == nil {
		t.Error("zero last_login should not be stored")
	}
	if _, err := bson.Raw(raw).LookupErr("code_issued_at"); err == nil {
		t.Error("zero code_issued_at should not be stored")
	}

	var back userDoc
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	u, err := back.toDomain()
	if err != nil {
		t.Fatal(err)
	}
	if !u.LastLogin.IsZero() || !u.CodeIssuedAt.IsZero() {
		t.Errorf("expected zero timestamps, got %v / %v", u.LastLogin, u.CodeIssuedAt)
	}
	if u.Role != domain.RoleModerator {
		t.Errorf("role = %v", u.Role)
	}
}

func TestUserDoc_UnknownRole(t *testing.T) {
	if _, err := (userDoc{Role: "root"}).toDomain(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for unknown stored role, got %v", err)
	}
}

func TestConsumeFilter_MatchesNullForUnsetLogin(t *testing.T) {
	id := primitive.NewObjectID()
	issued := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	raw, err := bson.Marshal(consumeFilter(id, time.Time{}, issued))
	if err != nil {
		t.Fatal(err)
	}
	if v := bson.Raw(raw).Lookup("last_login"); v.Type != bson.TypeNull {
		t.Errorf("last_login should filter on null, got %v", v.Type)
	}
	if v := bson.Raw(raw).Lookup("code_issued_at"); !v.Time().Equal(issued) {
		t.Errorf("code_issued_at = %v, want %v", v.Time(), issued)
	}
}

func TestIssueFilter_ComparesPreviousStamp(t *testing.T) {
	id := primitive.NewObjectID()

	raw, err := bson.Marshal(issueFilter(id, time.Time{}))
	if err != nil {
		t.Fatal(err)
	}
	if v := bson.Raw(raw).Lookup("code_issued_at"); v.Type != bson.TypeNull {
		t.Errorf("first issuance should filter on null, got %v", v.Type)
	}

	prev := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	raw, err = bson.Marshal(issueFilter(id, prev))
	if err != nil {
		t.Fatal(err)
	}
	if v := bson.Raw(raw).Lookup("code_issued_at"); !v.Time().Equal(prev) {
		t.Errorf("code_issued_at = %v, want %v", v.Time(), prev)
	}
	if v := bson.Raw(raw).Lookup("_id"); v.ObjectID() != id {
		t.Errorf("_id = %v, want %v", v.ObjectID(), id)
	}
}

func TestTitleViewDoc_Decode(t *testing.T) {
	id := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{
		"_id":           id,
		"name":          "Solaris",
		"year":          1972,
		"category":      "films",
		"genres":        bson.A{"drama"},
		"category_docs": bson.A{bson.M{"name": "Films", "slug": "films"}},
		"genre_docs":    bson.A{bson.M{"name": "Drama", "slug": "drama"}},
		"rating":        7.5,
	})
	if err != nil {
		t.Fatal(err)
	}

	var doc titleViewDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	v := doc.toDomain()

	if v.ID != id.Hex() || v.Name != "Solaris" || v.Year != 1972 {
		t.Errorf("unexpected title: %+v", v.Title)
	}
	if v.Category == nil || v.Category.Slug != "films" {
		t.Errorf("category not resolved: %+v", v.Category)
	}
	if len(v.Genres) != 1 || v.Genres[0].Name != "Drama" {
		t.Errorf("genres not resolved: %+v", v.Genres)
	}
	if v.Rating == nil || *v.Rating != 7.5 {
		t.Errorf("rating = %v", v.Rating)
	}
}

func TestTitleViewDoc_NoReviewsNoCategory(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"_id":           primitive.NewObjectID(),
		"name":          "Untitled",
		"year":          2000,
		"genres":        bson.A{},
		"category_docs": bson.A{},
		"genre_docs":    bson.A{},
		"rating":        nil,
	})
	if err != nil {
		t.Fatal(err)
	}

	var doc titleViewDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	v := doc.toDomain()
	if v.Rating != nil {
		t.Errorf("rating should be nil without reviews, got %v", *v.Rating)
	}
	if v.Category != nil {
		t.Errorf("category should be nil, got %+v", v.Category)
	}
}

func TestPipelines_StartWithMatch(t *testing.T) {
	for name, p := range map[string]mongo.Pipeline{
		"titleView":  titleView(bson.M{}),
		"withAuthor": withAuthor(bson.M{}),
	} {
		if len(p) == 0 || p[0][0].Key != "$match" {
			t.Errorf("%s: first stage should be $match", name)
		}
	}
}

func TestParseID(t *testing.T) {
	if _, ok := parseID("not-an-id"); ok {
		t.Error("malformed id accepted")
	}
	id := primitive.NewObjectID()
	if got, ok := parseID(id.Hex()); !ok || got != id {
		t.Error("valid id rejected")
	}
}
