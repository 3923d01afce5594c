package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cmcs/claims-api/internal/core/domain"
	"github.com/cmcs/claims-api/internal/core/ports"
)

const collectionClaims = "claims"

type ClaimRepository struct {
	col *mongo.Collection
}

func NewClaimRepository(db *mongo.Database) *ClaimRepository {
	return &ClaimRepository{col: db.Collection(collectionClaims)}
}

// claimDoc is the persisted shape. Decimal fields are stored as canonical
// strings; all arithmetic and equality on them happens in Go, never in
// Mongo query operators.
type claimDoc struct {
	ID             string     `bson:"_id"`
	LecturerID     string     `bson:"lecturer_id"`
	HoursWorked    string     `bson:"hours_worked"`
	HourlyRate     string     `bson:"hourly_rate"`
	TotalAmount    string     `bson:"total_amount"`
	SubmissionDate time.Time  `bson:"submission_date"`
	Status         string     `bson:"status"`
	ProcessedAt    *time.Time `bson:"processed_at,omitempty"`
	ProcessedBy    string     `bson:"processed_by,omitempty"`
}

func toDoc(c *domain.Claim) claimDoc {
	return claimDoc{
		ID:             c.ID,
		LecturerID:     c.LecturerID,
		HoursWorked:    c.HoursWorked.String(),
		HourlyRate:     c.HourlyRate.String(),
		TotalAmount:    c.TotalAmount.String(),
		SubmissionDate: c.SubmissionDate,
		Status:         string(c.Status),
		ProcessedAt:    c.ProcessedAt,
		ProcessedBy:    c.ProcessedBy,
	}
}

func (d claimDoc) toDomain() (*domain.Claim, error) {
	hours, err := decimal.NewFromString(d.HoursWorked)
	if err != nil {
		return nil, fmt.Errorf("claim %s: bad hours_worked %q: %w", d.ID, d.HoursWorked, err)
	}
	rate, err := decimal.NewFromString(d.HourlyRate)
	if err != nil {
		return nil, fmt.Errorf("claim %s: bad hourly_rate %q: %w", d.ID, d.HourlyRate, err)
	}
	amount, err := decimal.NewFromString(d.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("claim %s: bad total_amount %q: %w", d.ID, d.TotalAmount, err)
	}
	return &domain.Claim{
		ID:             d.ID,
		LecturerID:     d.LecturerID,
		HoursWorked:    hours,
		HourlyRate:     rate,
		TotalAmount:    amount,
		SubmissionDate: d.SubmissionDate,
		Status:         domain.ClaimStatus(d.Status),
		ProcessedAt:    d.ProcessedAt,
		ProcessedBy:    d.ProcessedBy,
	}, nil
}

// Create inserts a new claim document.
func (r *ClaimRepository) Create(ctx context.Context, c *domain.Claim) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, toDoc(c))
	return err
}

// FindByID retrieves a claim by its identifier.
func (r *ClaimRepository) FindByID(ctx context.Context, id string) (*domain.Claim, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc claimDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClaimNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

// SumHoursInRange sums hours worked over the lecturer's claims submitted
// in [from, to), excluding claims in excludeStatus.
func (r *ClaimRepository) SumHoursInRange(ctx context.Context, lecturerID string, from, to time.Time, excludeStatus domain.ClaimStatus) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"lecturer_id":     lecturerID,
		"submission_date": bson.M{"$gte": from, "$lt": to},
		"status":          bson.M{"$ne": string(excludeStatus)},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer cursor.Close(ctx)

	total := decimal.Zero
	for cursor.Next(ctx) {
		var doc claimDoc
		if err := cursor.Decode(&doc); err != nil {
			return decimal.Decimal{}, err
		}
		hours, err := decimal.NewFromString(doc.HoursWorked)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("claim %s: bad hours_worked %q: %w", doc.ID, doc.HoursWorked, err)
		}
		total = total.Add(hours)
	}
	return total, cursor.Err()
}

// ExistsDuplicate reports whether another claim exists for the lecturer on
// the given calendar day with an identical hours-worked value. Hours are
// compared numerically in Go so textual variants of the same value match.
func (r *ClaimRepository) ExistsDuplicate(ctx context.Context, lecturerID string, day time.Time, hours decimal.Decimal, excludeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	filter := bson.M{
		"_id":             bson.M{"$ne": excludeID},
		"lecturer_id":     lecturerID,
		"submission_date": bson.M{"$gte": dayStart, "$lt": dayStart.AddDate(0, 0, 1)},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return false, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc claimDoc
		if err := cursor.Decode(&doc); err != nil {
			return false, err
		}
		h, err := decimal.NewFromString(doc.HoursWorked)
		if err != nil {
			return false, fmt.Errorf("claim %s: bad hours_worked %q: %w", doc.ID, doc.HoursWorked, err)
		}
		if h.Equal(hours) {
			return true, nil
		}
	}
	return false, cursor.Err()
}

// FindInRange returns every claim submitted in [from, to).
func (r *ClaimRepository) FindInRange(ctx context.Context, from, to time.Time) ([]*domain.Claim, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"submission_date": bson.M{"$gte": from, "$lt": to}}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeClaims(ctx, cursor)
}

// List returns a page of claims matching filter, newest first, plus the
// total match count.
func (r *ClaimRepository) List(ctx context.Context, f ports.ListClaimsFilter) ([]*domain.Claim, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.LecturerID != "" {
		filter["lecturer_id"] = f.LecturerID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	dateFilter := bson.M{}
	if !f.DateFrom.IsZero() {
		dateFilter["$gte"] = f.DateFrom
	}
	if !f.DateTo.IsZero() {
		dateFilter["$lte"] = f.DateTo
	}
	if len(dateFilter) > 0 {
		filter["submission_date"] = dateFilter
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "submission_date", Value: -1}})
	if f.Limit > 0 {
		opts = opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	claims, err := decodeClaims(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

// UpdateStatus performs the conditional status transition: the update only
// matches while the claim is still in the `from` status, so a concurrent
// caller that lost the race observes applied=false.
func (r *ClaimRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ClaimStatus, processedAt time.Time, processedBy string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": bson.M{
			"status":       string(to),
			"processed_at": processedAt,
			"processed_by": processedBy,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// EnsureIndexes creates the indexes the query methods rely on.
func (r *ClaimRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "lecturer_id", Value: 1}, {Key: "submission_date", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "submission_date", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeClaims(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Claim, error) {
	var claims []*domain.Claim
	for cursor.Next(ctx) {
		var doc claimDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		claim, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, cursor.Err()
}
