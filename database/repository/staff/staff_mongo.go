package staffRepo

import (
	"context"
	"fmt"
	"time"

	"salonflow/database"
	"salonflow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStaffRepo implements StaffRepository using MongoDB.
type MongoStaffRepo struct {
	stylistColl *mongo.Collection
	hoursColl   *mongo.Collection
	serviceColl *mongo.Collection
}

// NewMongoStaffRepo constructs a new instance of MongoStaffRepo.
func NewMongoStaffRepo() StaffRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &MongoStaffRepo{
		stylistColl: db.Collection("stylists"),
		hoursColl:   db.Collection("working_hours"),
		serviceColl: db.Collection("services"),
	}
}

// workingHoursDoc flattens the weekday map into an array; BSON map keys
// must be strings.
type workingHoursDoc struct {
	StylistID string   `bson:"stylistId"`
	Days      []dayDoc `bson:"days"`
}

type dayDoc struct {
	Weekday   int                  `bson:"weekday"`
	IsWorking bool                 `bson:"isWorking"`
	Start     int                  `bson:"start,omitempty"`
	End       int                  `bson:"end,omitempty"`
	Breaks    []models.BreakWindow `bson:"breaks,omitempty"`
}

func toDoc(w *models.WorkingHours) workingHoursDoc {
	doc := workingHoursDoc{StylistID: w.StylistID}
	for wd, day := range w.Days {
		doc.Days = append(doc.Days, dayDoc{
			Weekday:   int(wd),
			IsWorking: day.IsWorking,
			Start:     day.Start,
			End:       day.End,
			Breaks:    day.Breaks,
		})
	}
	return doc
}

func fromDoc(doc workingHoursDoc) *models.WorkingHours {
	w := &models.WorkingHours{
		StylistID: doc.StylistID,
		Days:      make(map[time.Weekday]models.DayHours, len(doc.Days)),
	}
	for _, d := range doc.Days {
		w.Days[time.Weekday(d.Weekday)] = models.DayHours{
			IsWorking: d.IsWorking,
			Start:     d.Start,
			End:       d.End,
			Breaks:    d.Breaks,
		}
	}
	return w
}

func (repo *MongoStaffRepo) GetStylist(ctx context.Context, stylistID string) (*models.Stylist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var stylist models.Stylist
	if err := repo.stylistColl.FindOne(ctx, bson.M{"id": stylistID}).Decode(&stylist); err != nil {
		return nil, fmt.Errorf("error fetching stylist %s: %w", stylistID, err)
	}
	return &stylist, nil
}

func (repo *MongoStaffRepo) GetWorkingHours(ctx context.Context, stylistID string) (*models.WorkingHours, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc workingHoursDoc
	if err := repo.hoursColl.FindOne(ctx, bson.M{"stylistId": stylistID}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error fetching working hours for stylist %s: %w", stylistID, err)
	}
	return fromDoc(doc), nil
}

func (repo *MongoStaffRepo) SetWorkingHours(ctx context.Context, hours *models.WorkingHours) error {
	if err := hours.Validate(); err != nil {
		return fmt.Errorf("invalid working hours: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"stylistId": hours.StylistID}
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.hoursColl.ReplaceOne(ctx, filter, toDoc(hours), opts); err != nil {
		return fmt.Errorf("failed to save working hours for stylist %s: %w", hours.StylistID, err)
	}
	return nil
}

func (repo *MongoStaffRepo) GetService(ctx context.Context, serviceID string) (*models.SalonService, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.SalonService
	if err := repo.serviceColl.FindOne(ctx, bson.M{"id": serviceID}).Decode(&svc); err != nil {
		return nil, fmt.Errorf("error fetching service %s: %w", serviceID, err)
	}
	return &svc, nil
}

func (repo *MongoStaffRepo) ListServices(ctx context.Context) ([]models.SalonService, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.serviceColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error fetching services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.SalonService
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("error decoding services: %w", err)
	}
	return services, nil
}
