package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cmcs/claims-api/internal/core/domain"
)

const collectionLecturers = "lecturers"

type LecturerRepository struct {
	col *mongo.Collection
}

func NewLecturerRepository(db *mongo.Database) *LecturerRepository {
	return &LecturerRepository{col: db.Collection(collectionLecturers)}
}

type lecturerDoc struct {
	ID                string     `bson:"_id"`
	FullName          string     `bson:"full_name"`
	Email             string     `bson:"email"`
	ContactNumber     string     `bson:"contact_number,omitempty"`
	ContractStartDate time.Time  `bson:"contract_start_date"`
	ContractEndDate   *time.Time `bson:"contract_end_date,omitempty"`
	Active            bool       `bson:"active"`
}

func toLecturerDoc(l *domain.Lecturer) lecturerDoc {
	return lecturerDoc{
		ID:                l.ID,
		FullName:          l.FullName,
		Email:             l.Email,
		ContactNumber:     l.ContactNumber,
		ContractStartDate: l.ContractStartDate,
		ContractEndDate:   l.ContractEndDate,
		Active:            l.Active,
	}
}

func (d lecturerDoc) toDomain() *domain.Lecturer {
	return &domain.Lecturer{
		ID:                d.ID,
		FullName:          d.FullName,
		Email:             d.Email,
		ContactNumber:     d.ContactNumber,
		ContractStartDate: d.ContractStartDate,
		ContractEndDate:   d.ContractEndDate,
		Active:            d.Active,
	}
}

func (r *LecturerRepository) FindByID(ctx context.Context, id string) (*domain.Lecturer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc lecturerDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLecturerNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *LecturerRepository) Upsert(ctx context.Context, l *domain.Lecturer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toLecturerDoc(l)
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"_id": l.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}
