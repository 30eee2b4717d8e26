package mongodb

import (
	"context"
	"encoding/json"
	"time"

	"clinect-backend/application/ports"
	apperrors "clinect-backend/pkg/errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const savedTrialsCollection = "saved_trials"

type savedTrialDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	NCTID     string    `bson:"nctId"`
	TrialData []byte    `bson:"trialData,omitempty"`
	SavedAt   time.Time `bson:"savedAt"`
}

// SavedTrialStore persists per-user trial bookmarks.
type SavedTrialStore struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewSavedTrialStore creates a saved-trial store over the given database.
func NewSavedTrialStore(db *mongo.Database, logger *zap.Logger) *SavedTrialStore {
	return &SavedTrialStore{
		collection: db.Collection(savedTrialsCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the per-user uniqueness index.
func (s *SavedTrialStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}, {Key: "nctId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return apperrors.NewStoreUnavailableError("document cache", err)
	}
	return nil
}

// List returns the user's saved trials, most recent first.
func (s *SavedTrialStore) List(ctx context.Context, username string) ([]ports.SavedTrial, error) {
	cursor, err := s.collection.Find(ctx,
		bson.D{{Key: "username", Value: username}},
		options.Find().SetSort(bson.D{{Key: "savedAt", Value: -1}}),
	)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("document cache", err)
	}
	defer cursor.Close(ctx)

	var docs []savedTrialDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.NewStoreUnavailableError("document cache", err)
	}

	saved := make([]ports.SavedTrial, 0, len(docs))
	for _, doc := range docs {
		saved = append(saved, ports.SavedTrial{
			ID:        doc.ID,
			Username:  doc.Username,
			NCTID:     doc.NCTID,
			TrialData: json.RawMessage(doc.TrialData),
			SavedAt:   doc.SavedAt,
		})
	}
	return saved, nil
}

// Save bookmarks a trial for the user. Returns false without error when the
// trial was already saved.
func (s *SavedTrialStore) Save(ctx context.Context, username, nctID string, trialData json.RawMessage) (bool, error) {
	doc := savedTrialDoc{
		ID:        uuid.New().String(),
		Username:  username,
		NCTID:     nctID,
		TrialData: trialData,
		SavedAt:   time.Now().UTC(),
	}

	_, err := s.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewStoreUnavailableError("document cache", err)
	}
	return true, nil
}

// Delete removes a bookmark. Deleting an absent bookmark is a no-op.
func (s *SavedTrialStore) Delete(ctx context.Context, username, nctID string) error {
	_, err := s.collection.DeleteOne(ctx, bson.D{
		{Key: "username", Value: username},
		{Key: "nctId", Value: nctID},
	})
	if err != nil {
		return apperrors.NewStoreUnavailableError("document cache", err)
	}
	return nil
}
