package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spin2win/internal/model"
)

// QuizSetFilter narrows quiz set listings.
type QuizSetFilter struct {
	IsActive     *bool
	IsCompleted  *bool
	BattleNumber string
	Limit        int
	Page         int
}

// QuizSetRepo handles MongoDB operations for quiz sets. The battleNumber is
// unique-indexed: at most one set exists per tournament battle.
type QuizSetRepo interface {
	// Create inserts the set; a duplicate battleNumber surfaces as a
	// ConflictError.
	Create(ctx context.Context, set *model.QuizSet) (string, error)
	GetByID(ctx context.Context, id string) (*model.QuizSet, error)
	GetByBattleNumber(ctx context.Context, battleNumber string) (*model.QuizSet, error)
	// GetByQuestionID finds the set owning the embedded question.
	GetByQuestionID(ctx context.Context, questionID string) (*model.QuizSet, error)
	GetActive(ctx context.Context) (*model.QuizSet, error)
	List(ctx context.Context, filter QuizSetFilter) ([]*model.QuizSet, int64, error)
	ReplaceDraft(ctx context.Context, set *model.QuizSet) (bool, error)
	Start(ctx context.Context, id string, now time.Time) (bool, error)
	End(ctx context.Context, id string, now time.Time) (bool, error)
	IncrementCounters(ctx context.Context, id string, correct bool) error
	// SetMatchResult overwrites the question array and match result in one
	// update. Safe to re-run; a later application simply overwrites.
	SetMatchResult(ctx context.Context, id string, questions []model.Question, result model.MatchResult) error
	Delete(ctx context.Context, id string) error
}

type quizSetRepo struct {
	collection *mongo.Collection
}

// NewQuizSetRepo creates a new quiz set repository and ensures its indexes.
func NewQuizSetRepo(db *mongo.Database) QuizSetRepo {
	r := &quizSetRepo{collection: db.Collection("quiz_sets")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	createIndex(ctx, r.collection, bson.D{{Key: "battleNumber", Value: 1}}, true)
	createIndex(ctx, r.collection, bson.D{{Key: "matchId", Value: 1}}, false)
	createIndex(ctx, r.collection, bson.D{{Key: "questions.id", Value: 1}}, false)
	createIndex(ctx, r.collection, bson.D{{Key: "isActive", Value: 1}, {Key: "isCompleted", Value: 1}}, false)
	return r
}

func (r *quizSetRepo) Create(ctx context.Context, set *model.QuizSet) (string, error) {
	if set.ID == "" {
		set.ID = newID()
	}
	now := time.Now()
	set.CreatedAt = now
	set.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, set)
	if mongo.IsDuplicateKeyError(err) {
		return "", &model.ConflictError{Reason: "quiz set already exists for this battle number"}
	}
	if err != nil {
		return "", err
	}
	return set.ID, nil
}

func (r *quizSetRepo) getOne(ctx context.Context, query bson.M, opts ...*options.FindOneOptions) (*model.QuizSet, error) {
	var set model.QuizSet
	err := retryRead(func() error {
		return r.collection.FindOne(ctx, query, opts...).Decode(&set)
	})
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *quizSetRepo) GetByID(ctx context.Context, id string) (*model.QuizSet, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, bson.M{"_id": id})
}

func (r *quizSetRepo) GetByBattleNumber(ctx context.Context, battleNumber string) (*model.QuizSet, error) {
	return r.getOne(ctx, bson.M{"battleNumber": battleNumber})
}

func (r *quizSetRepo) GetByQuestionID(ctx context.Context, questionID string) (*model.QuizSet, error) {
	return r.getOne(ctx, bson.M{"questions.id": questionID})
}

func (r *quizSetRepo) GetActive(ctx context.Context) (*model.QuizSet, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.getOne(ctx, bson.M{"isActive": true, "isCompleted": false}, opts)
}

func (r *quizSetRepo) List(ctx context.Context, filter QuizSetFilter) ([]*model.QuizSet, int64, error) {
	query := bson.M{}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}
	if filter.IsCompleted != nil {
		query["isCompleted"] = *filter.IsCompleted
	}
	if filter.BattleNumber != "" {
		query["battleNumber"] = filter.BattleNumber
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	var sets []*model.QuizSet
	err := retryRead(func() error {
		cursor, err := r.collection.Find(ctx, query, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		sets = nil
		return cursor.All(ctx, &sets)
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return sets, total, nil
}

func (r *quizSetRepo) ReplaceDraft(ctx context.Context, set *model.QuizSet) (bool, error) {
	if !validID(set.ID) {
		return false, nil
	}
	set.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": set.ID, "isActive": false, "isCompleted": false},
		set,
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *quizSetRepo) Start(ctx context.Context, id string, now time.Time) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isActive": false, "isCompleted": false},
		bson.M{"$set": bson.M{"isActive": true, "startedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *quizSetRepo) End(ctx context.Context, id string, now time.Time) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "isCompleted": true, "endedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *quizSetRepo) IncrementCounters(ctx context.Context, id string, correct bool) error {
	inc := bson.M{"totalResponses": 1}
	if correct {
		inc["correctResponses"] = 1
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": inc})
	return err
}

func (r *quizSetRepo) SetMatchResult(ctx context.Context, id string, questions []model.Question, result model.MatchResult) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"questions":   questions,
			"matchResult": result,
			"updatedAt":   time.Now(),
		}},
	)
	return err
}

func (r *quizSetRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
