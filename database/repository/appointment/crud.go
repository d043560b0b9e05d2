package appointmentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (repo *MongoAppointmentRepo) Create(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, appt); err != nil {
		return fmt.Errorf("failed to insert appointment: %w", err)
	}
	return nil
}

func (repo *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (repo *MongoAppointmentRepo) GetByPublicToken(ctx context.Context, token string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	if err := repo.coll.FindOne(ctx, bson.M{"publicToken": token}).Decode(&appt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching appointment by token: %w", err)
	}
	return &appt, nil
}

// UpdateStatus performs a compare-and-set on the status field. MatchedCount
// of zero means the record was not in the expected status (or does not
// exist) and maps to ErrStaleStatus; callers surface that as an illegal
// transition and everything else as a storage fault.
func (repo *MongoAppointmentRepo) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus, cancellationReason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	set := bson.M{
		"status":       to,
		"lastModified": time.Now(),
	}
	if cancellationReason != "" {
		set["cancellationReason"] = cancellationReason
	}

	res, err := repo.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update appointment %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not in status %s: %w", id, from, ErrStaleStatus)
	}
	return nil
}

// CloseOutRescheduled atomically marks the old appointment rescheduled and
// inserts its successor, so no reader sees the vacated interval free while
// the new one is still unwritten.
func (repo *MongoAppointmentRepo) CloseOutRescheduled(ctx context.Context, oldID string, successor *models.Appointment) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{"id": oldID, "status": bson.M{"$in": bson.A{models.StatusScheduled, models.StatusConfirmed}}}
		set := bson.M{
			"status":        models.StatusRescheduled,
			"rescheduledTo": successor.ID,
			"lastModified":  time.Now(),
		}
		res, err := repo.coll.UpdateOne(sc, filter, bson.M{"$set": set})
		if err != nil {
			return fmt.Errorf("close out rescheduled failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("appointment %s not open for rescheduling: %w", oldID, ErrStaleStatus)
		}
		if _, err := repo.coll.InsertOne(sc, successor); err != nil {
			return fmt.Errorf("insert successor appointment failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sess.StartTransaction(); err != nil {
			return fmt.Errorf("could not start transaction: %w", err)
		}
		if err := txnFn(sc); err != nil {
			_ = sess.AbortTransaction(sc)
			return err
		}
		return sess.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}
