package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shinely/database"
	"shinely/models"
	"shinely/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
type MongoAppointmentRepo struct {
	coll *mongo.Collection
}

func NewMongoAppointmentRepo() AppointmentRepository {
	repo := &MongoAppointmentRepo{coll: database.Database().Collection("appointments")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("appointment indexes not created", zap.Error(err))
	}
	return repo
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "scheduledDate", Value: 1}, {Key: "scheduledTime", Value: 1}}},
		{Keys: bson.D{{Key: "bookingId", Value: 1}}},
		{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "scheduledDate", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) ListByProviderDate(ctx context.Context, providerID, date string) ([]models.Appointment, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"providerId": providerID, "scheduledDate": date}
	opts := options.Find().SetSort(bson.D{{Key: "scheduledTime", Value: 1}, {Key: "id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for provider %s on %s: %w", providerID, date, err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) CreateMany(ctx context.Context, appts []models.Appointment) error {
	if len(appts) == 0 {
		return nil
	}
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(appts))
	for i := range appts {
		docs[i] = appts[i]
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to create appointments: %w", err)
	}
	return nil
}

func (r *MongoAppointmentRepo) Update(ctx context.Context, appt *models.Appointment, expectedVersion int) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	next := *appt
	next.Version = expectedVersion + 1
	next.UpdatedAt = time.Now()

	filter := bson.M{"id": appt.ID, "version": expectedVersion}
	result, err := r.coll.ReplaceOne(ctx, filter, next)
	if err != nil {
		return fmt.Errorf("failed to update appointment %s: %w", appt.ID, err)
	}
	if result.MatchedCount == 0 {
		count, err := r.coll.CountDocuments(ctx, bson.M{"id": appt.ID})
		if err != nil {
			return fmt.Errorf("failed to check appointment %s: %w", appt.ID, err)
		}
		if count == 0 {
			return ErrAppointmentNotFound
		}
		return ErrVersionConflict
	}
	*appt = next
	return nil
}
