package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cmcs/claims-api/internal/core/domain"
)

const collectionReports = "hr_reports"

type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(collectionReports)}
}

type reportDoc struct {
	ID          string    `bson:"_id"`
	ReportType  string    `bson:"report_type"`
	GeneratedAt time.Time `bson:"generated_at"`
	GeneratedBy string    `bson:"generated_by"`
	Data        string    `bson:"data"`
}

// Append stores a generated report. Reports are append-only; there is no
// update path.
func (r *ReportRepository) Append(ctx context.Context, report *domain.HRReport) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, reportDoc{
		ID:          report.ID,
		ReportType:  report.ReportType,
		GeneratedAt: report.GeneratedAt,
		GeneratedBy: report.GeneratedBy,
		Data:        report.Data,
	})
	return err
}

// ListRecent returns up to limit reports, most recently generated first.
func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]*domain.HRReport, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "generated_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []*domain.HRReport
	for cursor.Next(ctx) {
		var doc reportDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reports = append(reports, &domain.HRReport{
			ID:          doc.ID,
			ReportType:  doc.ReportType,
			GeneratedAt: doc.GeneratedAt,
			GeneratedBy: doc.GeneratedBy,
			Data:        doc.Data,
		})
	}
	return reports, cursor.Err()
}
