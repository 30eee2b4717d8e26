package mongodb

import (
	"context"
	"errors"
	"time"

	"clinect-backend/application/ports"
	apperrors "clinect-backend/pkg/errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const medicalHistoriesCollection = "medical_histories"

type medicalHistoryDoc struct {
	Username    string    `bson:"username"`
	Age         int       `bson:"age,omitempty"`
	Gender      string    `bson:"gender,omitempty"`
	Location    string    `bson:"location,omitempty"`
	Conditions  []string  `bson:"conditions,omitempty"`
	Medications []string  `bson:"medications,omitempty"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// MedicalHistoryStore persists one history document per user, replaced
// wholesale on each save.
type MedicalHistoryStore struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMedicalHistoryStore creates a medical-history store over the given database.
func NewMedicalHistoryStore(db *mongo.Database, logger *zap.Logger) *MedicalHistoryStore {
	return &MedicalHistoryStore{
		collection: db.Collection(medicalHistoriesCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the one-document-per-user index.
func (s *MedicalHistoryStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return apperrors.NewStoreUnavailableError("document cache", err)
	}
	return nil
}

// Get returns the user's history, or (nil, nil) when none was saved.
func (s *MedicalHistoryStore) Get(ctx context.Context, username string) (*ports.MedicalHistory, error) {
	var doc medicalHistoryDoc
	err := s.collection.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("document cache", err)
	}
	return historyFromDoc(doc), nil
}

// Save upserts the user's history and returns the stored document.
func (s *MedicalHistoryStore) Save(ctx context.Context, history *ports.MedicalHistory) (*ports.MedicalHistory, error) {
	doc := medicalHistoryDoc{
		Username:    history.Username,
		Age:         history.Age,
		Gender:      history.Gender,
		Location:    history.Location,
		Conditions:  history.Conditions,
		Medications: history.Medications,
		UpdatedAt:   time.Now().UTC(),
	}

	filter := bson.D{{Key: "username", Value: history.Username}}
	update := bson.D{{Key: "$set", Value: doc}}

	_, err := s.collection.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("document cache", err)
	}
	return historyFromDoc(doc), nil
}

func historyFromDoc(doc medicalHistoryDoc) *ports.MedicalHistory {
	return &ports.MedicalHistory{
		Username:    doc.Username,
		Age:         doc.Age,
		Gender:      doc.Gender,
		Location:    doc.Location,
		Conditions:  doc.Conditions,
		Medications: doc.Medications,
		UpdatedAt:   doc.UpdatedAt,
	}
}
