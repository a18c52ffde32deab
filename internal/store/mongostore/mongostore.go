// Package mongostore provides a Mongo-backed engine.ReservationStore,
// swapped in for internal/engine's default in-memory store when
// config.AppConfig.DatabaseURL is set. Reservation inserts run their
// conflict re-check and write inside one mongo.Session transaction so
// concurrent writers cannot double-book a slot.
package mongostore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"schedulingengine/internal/engine"
)

// reservationDoc is the Mongo representation of an engine.Reservation.
type reservationDoc struct {
	ReservationID string    `bson:"reservation_id"`
	ServiceID     string    `bson:"service_id"`
	EmployeeID    string    `bson:"employee_id"`
	EquipmentID   string    `bson:"equipment_id"`
	Start         time.Time `bson:"start"`
	End           time.Time `bson:"end"`
	CreatedAt     time.Time `bson:"created_at"`
	State         string    `bson:"state"`
	Version       int       `bson:"version"`
	ScenarioID    string    `bson:"scenario_id"`
}

func (d reservationDoc) toEngine() engine.Reservation {
	return engine.Reservation{
		ReservationID: d.ReservationID,
		ServiceID:     d.ServiceID,
		EmployeeID:    d.EmployeeID,
		EquipmentID:   d.EquipmentID,
		Start:         d.Start,
		End:           d.End,
		CreatedAt:     d.CreatedAt,
		State:         engine.ReservationState(d.State),
		Version:       d.Version,
		ScenarioID:    d.ScenarioID,
	}
}

// blockingDoc is the Mongo representation of an engine.OperationalBlocking.
// Scope is flattened to a discriminator string plus the three target-id
// lists, since Mongo documents cannot carry a Go interface directly.
type blockingDoc struct {
	ID           string    `bson:"id"`
	Scope        string    `bson:"scope"`
	Start        time.Time `bson:"start"`
	End          time.Time `bson:"end"`
	Reason       string    `bson:"reason"`
	EmployeeIDs  []string  `bson:"employee_ids,omitempty"`
	EquipmentIDs []string  `bson:"equipment_ids,omitempty"`
	ServiceIDs   []string  `bson:"service_ids,omitempty"`
}

func scopeToDoc(scope engine.ExceptionScope, b blockingDoc) blockingDoc {
	switch s := scope.(type) {
	case engine.BusinessScope:
		b.Scope = "business"
	case engine.EmployeeScope:
		b.Scope = "employee"
		b.EmployeeIDs = s.EmployeeIDs
	case engine.EquipmentScope:
		b.Scope = "equipment"
		b.EquipmentIDs = s.EquipmentIDs
	case engine.ServiceScope:
		b.Scope = "service"
		b.ServiceIDs = s.ServiceIDs
	}
	return b
}

func (d blockingDoc) toEngine() engine.OperationalBlocking {
	var scope engine.ExceptionScope
	switch d.Scope {
	case "employee":
		scope = engine.EmployeeScope{EmployeeIDs: d.EmployeeIDs}
	case "equipment":
		scope = engine.EquipmentScope{EquipmentIDs: d.EquipmentIDs}
	case "service":
		scope = engine.ServiceScope{ServiceIDs: d.ServiceIDs}
	default:
		scope = engine.BusinessScope{}
	}
	return engine.OperationalBlocking{
		ID: d.ID, Scope: scope, Start: d.Start, End: d.End, Reason: d.Reason,
		EmployeeIDs: d.EmployeeIDs, EquipmentIDs: d.EquipmentIDs, ServiceIDs: d.ServiceIDs,
	}
}

// Store implements engine.ReservationStore against two Mongo collections.
type Store struct {
	reservationColl *mongo.Collection
	blockingColl    *mongo.Collection
}

// New constructs a Store over the given database's collections.
func New(db *mongo.Database) *Store {
	return &Store{
		reservationColl: db.Collection("reservations"),
		blockingColl:    db.Collection("operational_blockings"),
	}
}

func overlapsFilter(start, end time.Time) bson.M {
	return bson.M{"start": bson.M{"$lt": end}, "end": bson.M{"$gt": start}}
}

// ListReservations returns every reservation in the collection.
func (s *Store) ListReservations() []engine.Reservation {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cur, err := s.reservationColl.Find(ctx, bson.M{})
	if err != nil {
		return nil
	}
	defer cur.Close(ctx)

	var out []engine.Reservation
	for cur.Next(ctx) {
		var d reservationDoc
		if err := cur.Decode(&d); err != nil {
			continue
		}
		out = append(out, d.toEngine())
	}
	return out
}

// ListInRange returns reservations overlapping [start, end).
func (s *Store) ListInRange(start, end time.Time) []engine.Reservation {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cur, err := s.reservationColl.Find(ctx, overlapsFilter(start, end))
	if err != nil {
		return nil
	}
	defer cur.Close(ctx)

	var out []engine.Reservation
	for cur.Next(ctx) {
		var d reservationDoc
		if err := cur.Decode(&d); err != nil {
			continue
		}
		out = append(out, d.toEngine())
	}
	return out
}

// HasConflict reports whether a non-pending reservation matching employee or
// equipment overlaps the window.
func (s *Store) HasConflict(employeeID, equipmentID string, start, end time.Time) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.hasConflict(ctx, employeeID, equipmentID, start, end)
}

func (s *Store) hasConflict(ctx context.Context, employeeID, equipmentID string, start, end time.Time) bool {
	var idFilters bson.A
	if employeeID != "" {
		idFilters = append(idFilters, bson.M{"employee_id": employeeID})
	}
	if equipmentID != "" {
		idFilters = append(idFilters, bson.M{"equipment_id": equipmentID})
	}
	if len(idFilters) == 0 {
		return false
	}

	filter := bson.M{
		"$and": bson.A{
			overlapsFilter(start, end),
			bson.M{"state": bson.M{"$ne": string(engine.PendingReschedule)}},
			bson.M{"$or": idFilters},
		},
	}
	count, err := s.reservationColl.CountDocuments(ctx, filter, nil)
	return err == nil && count > 0
}

// Add re-checks conflict and inserts the new reservation inside a Mongo
// session/transaction.
func (s *Store) Add(r engine.NewReservation) (engine.Reservation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := s.reservationColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return engine.Reservation{}, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now().UTC()
	doc := reservationDoc{
		ReservationID: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.New().String()),
		ServiceID:     r.ServiceID,
		EmployeeID:    r.EmployeeID,
		EquipmentID:   r.EquipmentID,
		Start:         r.Start,
		End:           r.End,
		CreatedAt:     now,
		State:         string(engine.Confirmed),
		Version:       1,
		ScenarioID:    r.ScenarioID,
	}

	txnFn := func(sc mongo.SessionContext) error {
		if s.hasConflict(sc, r.EmployeeID, r.EquipmentID, r.Start, r.End) {
			return fmt.Errorf("slot already reserved")
		}
		_, err := s.reservationColl.InsertOne(sc, doc)
		return err
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return engine.Reservation{}, fmt.Errorf("slot already reserved")
	}

	return doc.toEngine(), nil
}

// Update mutates employee/equipment/state fields and bumps the version.
func (s *Store) Update(id string, u engine.ReservationUpdate) (engine.Reservation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	set := bson.M{}
	if u.EmployeeID != nil {
		set["employee_id"] = *u.EmployeeID
	}
	if u.EquipmentID != nil {
		set["equipment_id"] = *u.EquipmentID
	}
	if u.State != nil {
		set["state"] = string(*u.State)
	}

	after := options.After
	var doc reservationDoc
	err := s.reservationColl.FindOneAndUpdate(
		ctx,
		bson.M{"reservation_id": id},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&doc)
	if err != nil {
		return engine.Reservation{}, fmt.Errorf("reservation not found: %s", id)
	}
	return doc.toEngine(), nil
}

// AddBlocking inserts an operational blocking.
func (s *Store) AddBlocking(b engine.NewBlocking) (engine.OperationalBlocking, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	doc := scopeToDoc(b.Scope, blockingDoc{
		ID: uuid.New().String(), Start: b.Start, End: b.End, Reason: b.Reason,
	})
	if _, err := s.blockingColl.InsertOne(ctx, doc); err != nil {
		return engine.OperationalBlocking{}, fmt.Errorf("failed to persist blocking: %w", err)
	}
	return doc.toEngine(), nil
}

// ListBlockingsIntersecting returns persisted blockings overlapping the
// window, sorted by start for deterministic enumeration.
func (s *Store) ListBlockingsIntersecting(start, end time.Time) []engine.OperationalBlocking {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cur, err := s.blockingColl.Find(ctx, overlapsFilter(start, end))
	if err != nil {
		return nil
	}
	defer cur.Close(ctx)

	var out []engine.OperationalBlocking
	for cur.Next(ctx) {
		var d blockingDoc
		if err := cur.Decode(&d); err != nil {
			continue
		}
		out = append(out, d.toEngine())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
