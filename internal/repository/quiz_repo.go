package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spin2win/internal/model"
)

// QuizFilter narrows quiz listings. Nil pointer fields are not filtered on.
type QuizFilter struct {
	IsActive    *bool
	IsCompleted *bool
	Category    string
	Difficulty  string
	Limit       int
	Page        int
}

// QuizRepo handles MongoDB operations for standalone quizzes.
type QuizRepo interface {
	Create(ctx context.Context, quiz *model.Quiz) (string, error)
	GetByID(ctx context.Context, id string) (*model.Quiz, error)
	GetActive(ctx context.Context) (*model.Quiz, error)
	List(ctx context.Context, filter QuizFilter) ([]*model.Quiz, int64, error)
	// ReplaceDraft overwrites the quiz only while it is neither active nor
	// completed. Returns false when the draft guard did not match.
	ReplaceDraft(ctx context.Context, quiz *model.Quiz) (bool, error)
	// Start and End are compare-and-set lifecycle transitions; false means
	// the quiz was not in the required state.
	Start(ctx context.Context, id string, now time.Time) (bool, error)
	End(ctx context.Context, id string, now time.Time) (bool, error)
	IncrementCounters(ctx context.Context, id string, correct bool) error
	Delete(ctx context.Context, id string) error
}

type quizRepo struct {
	collection *mongo.Collection
}

// NewQuizRepo creates a new quiz repository and ensures its indexes.
func NewQuizRepo(db *mongo.Database) QuizRepo {
	r := &quizRepo{collection: db.Collection("quizzes")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	createIndex(ctx, r.collection, bson.D{{Key: "battleNumber", Value: 1}}, false)
	createIndex(ctx, r.collection, bson.D{{Key: "isActive", Value: 1}, {Key: "isCompleted", Value: 1}}, false)
	createIndex(ctx, r.collection, bson.D{{Key: "category", Value: 1}, {Key: "difficulty", Value: 1}}, false)
	return r
}

func (r *quizRepo) Create(ctx context.Context, quiz *model.Quiz) (string, error) {
	if quiz.ID == "" {
		quiz.ID = newID()
	}
	now := time.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, quiz); err != nil {
		return "", err
	}
	return quiz.ID, nil
}

func (r *quizRepo) GetByID(ctx context.Context, id string) (*model.Quiz, error) {
	if !validID(id) {
		return nil, nil
	}

	var quiz model.Quiz
	err := retryRead(func() error {
		return r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	})
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) GetActive(ctx context.Context) (*model.Quiz, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var quiz model.Quiz
	err := retryRead(func() error {
		return r.collection.FindOne(ctx, bson.M{"isActive": true, "isCompleted": false}, opts).Decode(&quiz)
	})
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) List(ctx context.Context, filter QuizFilter) ([]*model.Quiz, int64, error) {
	query := bson.M{}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}
	if filter.IsCompleted != nil {
		query["isCompleted"] = *filter.IsCompleted
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
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

	var quizzes []*model.Quiz
	err := retryRead(func() error {
		cursor, err := r.collection.Find(ctx, query, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		quizzes = nil
		return cursor.All(ctx, &quizzes)
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return quizzes, total, nil
}

func (r *quizRepo) ReplaceDraft(ctx context.Context, quiz *model.Quiz) (bool, error) {
	if !validID(quiz.ID) {
		return false, nil
	}
	quiz.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": quiz.ID, "isActive": false, "isCompleted": false},
		quiz,
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *quizRepo) Start(ctx context.Context, id string, now time.Time) (bool, error) {
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

func (r *quizRepo) End(ctx context.Context, id string, now time.Time) (bool, error) {
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

func (r *quizRepo) IncrementCounters(ctx context.Context, id string, correct bool) error {
	inc := bson.M{"totalResponses": 1}
	if correct {
		inc["correctResponses"] = 1
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": inc})
	return err
}

func (r *quizRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
