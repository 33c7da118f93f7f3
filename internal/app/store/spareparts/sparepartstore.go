// internal/app/store/spareparts/sparepartstore.go
package sparepartstore

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/plantfloor/sparetrack/internal/app/system/apperr"
	"github.com/plantfloor/sparetrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxWriteOps is the ceiling on documents per bulk commit. Large imports
// and plant purges are split into commits of at most this many operations.
const maxWriteOps = 500

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("spareparts")}
}

func validate(sp models.SparePart) error {
	if strings.TrimSpace(sp.Name) == "" {
		return apperr.Validation("name is required")
	}
	if sp.Quantity < 0 {
		return apperr.Validation("quantity cannot be negative")
	}
	if sp.Plant != "" && !models.ValidPlant(sp.Plant) {
		return apperr.Validation("unknown plant: " + sp.Plant)
	}
	if sp.Urgency != models.UrgencyNormal && sp.Urgency != models.UrgencyUrgent {
		return apperr.Validation("urgency must be 'normal' or 'urgent'")
	}
	return nil
}

// prepare fills the derived and default fields of a record before insert.
func prepare(sp models.SparePart, now time.Time) models.SparePart {
	sp.ID = primitive.NewObjectID()
	sp.NameCI = text.Fold(sp.Name)
	if sp.Urgency == "" {
		sp.Urgency = models.UrgencyNormal
	}
	if sp.Plant == "" {
		sp.Plant = models.DefaultPlant
	}
	if sp.OrderDate.IsZero() {
		sp.OrderDate = now
	}
	sp.CreatedAt = now
	sp.UpdatedAt = &now
	return sp
}

// Create inserts a new spare-part record, setting NameCI and timestamps.
func (s *Store) Create(ctx context.Context, sp models.SparePart) (models.SparePart, error) {
	now := time.Now().UTC()
	sp = prepare(sp, now)

	if err := validate(sp); err != nil {
		return models.SparePart{}, err
	}

	if _, err := s.c.InsertOne(ctx, sp); err != nil {
		return models.SparePart{}, apperr.Unavailable("insert spare part", err)
	}
	return sp, nil
}

// BatchCreate inserts many records as one import run. Every inserted
// record is stamped with the same batch ID, and the insert is split into
// commits of at most maxWriteOps documents. Returns the batch ID and the
// number of records inserted.
func (s *Store) BatchCreate(ctx context.Context, parts []models.SparePart) (string, int, error) {
	if len(parts) == 0 {
		return "", 0, nil
	}

	now := time.Now().UTC()
	batchID := uuid.NewString()

	docs := make([]interface{}, 0, len(parts))
	for i, sp := range parts {
		sp = prepare(sp, now)
		sp.ImportBatchID = batchID
		if err := validate(sp); err != nil {
			return "", 0, apperr.Validation("row " + strconv.Itoa(i+1) + ": " + err.Error())
		}
		docs = append(docs, sp)
	}

	inserted := 0
	for start := 0; start < len(docs); start += maxWriteOps {
		end := start + maxWriteOps
		if end > len(docs) {
			end = len(docs)
		}
		res, err := s.c.InsertMany(ctx, docs[start:end])
		if err != nil {
			return batchID, inserted, apperr.Unavailable("bulk insert spare parts", err)
		}
		inserted += len(res.InsertedIDs)
	}
	return batchID, inserted, nil
}

// Update modifies the editable fields of a record and refreshes UpdatedAt.
// Progress flags are changed through SetStep, not here.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.SparePart) error {
	if err := validate(mut); err != nil {
		return err
	}

	set := bson.M{
		"name":              mut.Name,
		"name_ci":           text.Fold(mut.Name),
		"specification":     mut.Specification,
		"machine":           mut.Machine,
		"quantity":          mut.Quantity,
		"ordered_by":        mut.OrderedBy,
		"vendor":            mut.Vendor,
		"plant":             mut.Plant,
		"work_order_number": mut.WorkOrderNumber,
		"urgency":           mut.Urgency,
		"notes":             mut.Notes,
		"updated_at":        time.Now().UTC(),
	}
	if !mut.OrderDate.IsZero() {
		set["order_date"] = mut.OrderDate
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return apperr.Unavailable("update spare part", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("spare part")
	}
	return nil
}

// SetStep flips one progress flag. The ordering rules (including the
// urgency waiver) are enforced here against the stored record, so a
// stale form post cannot skip a step.
func (s *Store) SetStep(ctx context.Context, id primitive.ObjectID, step string, done bool) error {
	sp, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if done && !sp.CanToggleStep(step) {
		return apperr.Validation("step '" + step + "' cannot be completed yet")
	}

	var field string
	switch step {
	case models.StepDocument:
		field = "document_complete"
	case models.StepOnProcess:
		field = "on_process_complete"
	case models.StepArrived:
		field = "arrived_complete"
	case models.StepInstallation:
		field = "installation_complete"
	default:
		return apperr.Validation("unknown step: " + step)
	}

	set := bson.M{field: done, "updated_at": time.Now().UTC()}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return apperr.Unavailable("update spare part step", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("spare part")
	}
	return nil
}

// SetHidden archives or restores a record for operator views.
func (s *Store) SetHidden(ctx context.Context, id primitive.ObjectID, hidden bool) error {
	set := bson.M{"hidden_from_operator": hidden, "updated_at": time.Now().UTC()}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return apperr.Unavailable("update spare part", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("spare part")
	}
	return nil
}

// GetByID returns a record by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.SparePart, error) {
	var sp models.SparePart
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sp)
	if err == mongo.ErrNoDocuments {
		return models.SparePart{}, apperr.NotFound("spare part")
	}
	if err != nil {
		return models.SparePart{}, apperr.Unavailable("load spare part", err)
	}
	return sp, nil
}

// Delete removes a record by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Unavailable("delete spare part", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("spare part")
	}
	return nil
}

// DeleteByPlant removes every record belonging to the given plant.
// The delete runs as bulk commits of at most maxWriteOps operations,
// so a 1200-record plant is purged in three commits. Returns the total
// number of records removed.
func (s *Store) DeleteByPlant(ctx context.Context, plant string) (int64, error) {
	if !models.ValidPlant(plant) {
		return 0, apperr.Validation("unknown plant: " + plant)
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"plant": plant}, opts)
	if err != nil {
		return 0, apperr.Unavailable("list spare parts for plant", err)
	}
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, apperr.Unavailable("list spare parts for plant", err)
	}

	var deleted int64
	for start := 0; start < len(rows); start += maxWriteOps {
		end := start + maxWriteOps
		if end > len(rows) {
			end = len(rows)
		}
		writes := make([]mongo.WriteModel, 0, end-start)
		for _, row := range rows[start:end] {
			writes = append(writes, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": row.ID}))
		}
		res, err := s.c.BulkWrite(ctx, writes)
		if err != nil {
			return deleted, apperr.Unavailable("bulk delete spare parts", err)
		}
		deleted += res.DeletedCount
	}
	return deleted, nil
}

// Snapshot returns every record, newest order first. This is the full
// canonical sequence the live views are derived from.
func (s *Store) Snapshot(ctx context.Context) ([]models.SparePart, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "order_date", Value: -1},
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Unavailable("load spare parts", err)
	}
	defer cur.Close(ctx)

	parts := []models.SparePart{}
	if err := cur.All(ctx, &parts); err != nil {
		return nil, apperr.Unavailable("load spare parts", err)
	}
	return parts, nil
}

// Count returns the number of records matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
