package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spin2win/internal/model"
)

// ResponseRepo handles MongoDB operations for the response ledger. The
// (participantId, quizId) pair is unique-indexed: two concurrent submissions
// for the same pair produce exactly one insert and one duplicate-key error.
type ResponseRepo interface {
	// Create inserts the response. A duplicate (participant, quiz) pair
	// surfaces as a ConflictError.
	Create(ctx context.Context, response *model.Response) error
	Get(ctx context.Context, participantID, quizID string) (*model.Response, error)
	// GetLatestByParticipant returns the participant's most recently created
	// response across all quizzes, or nil.
	GetLatestByParticipant(ctx context.Context, participantID string) (*model.Response, error)
	ListByParticipant(ctx context.Context, participantID string, limit, page int) ([]*model.Response, int64, error)
	ListByQuiz(ctx context.Context, quizID string, limit, page int) ([]*model.Response, int64, error)
	// ExistsForQuizzes reports whether any response references one of the
	// given quiz unit ids.
	ExistsForQuizzes(ctx context.Context, quizIDs []string) (bool, error)
	ParticipantStats(ctx context.Context, participantID string) (*model.UserStats, error)
	// LeaderboardRows groups the whole ledger per participant. Sorting and
	// pagination are done by the caller.
	LeaderboardRows(ctx context.Context) ([]model.LeaderboardEntry, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository and ensures its indexes,
// including the unique (participantId, quizId) constraint the submission
// protocol depends on.
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	r := &responseRepo{collection: db.Collection("responses")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	createIndex(ctx, r.collection, bson.D{{Key: "participantId", Value: 1}, {Key: "quizId", Value: 1}}, true)
	createIndex(ctx, r.collection, bson.D{{Key: "participantId", Value: 1}, {Key: "createdAt", Value: -1}}, false)
	createIndex(ctx, r.collection, bson.D{{Key: "quizId", Value: 1}, {Key: "isCorrect", Value: 1}}, false)
	createIndex(ctx, r.collection, bson.D{{Key: "createdAt", Value: -1}}, false)
	return r
}

func (r *responseRepo) Create(ctx context.Context, response *model.Response) error {
	if response.ID == "" {
		response.ID = newID()
	}
	if response.CreatedAt.IsZero() {
		response.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, response)
	if mongo.IsDuplicateKeyError(err) {
		return &model.ConflictError{Reason: "participant has already responded to this quiz"}
	}
	return err
}

func (r *responseRepo) getOne(ctx context.Context, query bson.M, opts ...*options.FindOneOptions) (*model.Response, error) {
	var response model.Response
	err := retryRead(func() error {
		return r.collection.FindOne(ctx, query, opts...).Decode(&response)
	})
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *responseRepo) Get(ctx context.Context, participantID, quizID string) (*model.Response, error) {
	return r.getOne(ctx, bson.M{"participantId": participantID, "quizId": quizID})
}

func (r *responseRepo) GetLatestByParticipant(ctx context.Context, participantID string) (*model.Response, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return r.getOne(ctx, bson.M{"participantId": participantID}, opts)
}

func (r *responseRepo) list(ctx context.Context, query bson.M, limit, page int) ([]*model.Response, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	var responses []*model.Response
	err := retryRead(func() error {
		cursor, err := r.collection.Find(ctx, query, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		responses = nil
		return cursor.All(ctx, &responses)
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

func (r *responseRepo) ListByParticipant(ctx context.Context, participantID string, limit, page int) ([]*model.Response, int64, error) {
	return r.list(ctx, bson.M{"participantId": participantID}, limit, page)
}

func (r *responseRepo) ListByQuiz(ctx context.Context, quizID string, limit, page int) ([]*model.Response, int64, error) {
	return r.list(ctx, bson.M{"quizId": quizID}, limit, page)
}

func (r *responseRepo) ExistsForQuizzes(ctx context.Context, quizIDs []string) (bool, error) {
	if len(quizIDs) == 0 {
		return false, nil
	}
	count, err := r.collection.CountDocuments(ctx,
		bson.M{"quizId": bson.M{"$in": quizIDs}},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *responseRepo) ParticipantStats(ctx context.Context, participantID string) (*model.UserStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "participantId", Value: participantID}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalResponses", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "correctResponses", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{"$isCorrect", 1, 0}}}}}},
			{Key: "totalScore", Value: bson.D{{Key: "$sum", Value: "$score"}}},
			{Key: "averageResponseTime", Value: bson.D{{Key: "$avg", Value: "$responseTime"}}},
			{Key: "currentStreak", Value: bson.D{{Key: "$last", Value: "$streak"}}},
			{Key: "maxStreak", Value: bson.D{{Key: "$max", Value: "$totalStreak"}}},
		}}},
	}

	var rows []model.UserStats
	err := retryRead(func() error {
		cursor, err := r.collection.Aggregate(ctx, pipeline)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		rows = nil
		return cursor.All(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &model.UserStats{}, nil
	}
	return &rows[0], nil
}

func (r *responseRepo) LeaderboardRows(ctx context.Context) ([]model.LeaderboardEntry, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$participantId"},
			{Key: "totalScore", Value: bson.D{{Key: "$sum", Value: "$score"}}},
			{Key: "totalResponses", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "correctResponses", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{"$isCorrect", 1, 0}}}}}},
		}}},
	}

	var rows []model.LeaderboardEntry
	err := retryRead(func() error {
		cursor, err := r.collection.Aggregate(ctx, pipeline)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		rows = nil
		return cursor.All(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
