package mongo

import (
	"context"
	"fmt"
	"time"

	"echeck-gateway/internal/check"
	"echeck-gateway/internal/core/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PrintsCollection holds one document per printed check.
const PrintsCollection = "instrument_prints"

// printDocument is the stored form of domain.InstrumentPrint.
type printDocument struct {
	IssuerID      string            `bson:"issuer_id"`
	TransactionID string            `bson:"transaction_id"`
	PrintNumber   int               `bson:"print_number"`
	Instrument    *check.Instrument `bson:"instrument"`
	PrintedAt     time.Time         `bson:"printed_at"`
}

// InstrumentArchive implements ports.InstrumentArchive.
type InstrumentArchive struct {
	provider CollectionProvider
}

func NewInstrumentArchive(provider CollectionProvider) *InstrumentArchive {
	return &InstrumentArchive{provider: provider}
}

// Save stores one printed instrument.
func (a *InstrumentArchive) Save(ctx context.Context, rec *domain.InstrumentPrint) error {
	doc := printDocument{
		IssuerID:      rec.IssuerID.String(),
		TransactionID: rec.TransactionID.String(),
		PrintNumber:   rec.PrintNumber,
		Instrument:    rec.Instrument,
		PrintedAt:     rec.PrintedAt,
	}
	if _, err := a.provider.Collection(PrintsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert instrument print: %w", err)
	}
	return nil
}

// ListByTransaction returns the prints of a transaction in print order.
func (a *InstrumentArchive) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.InstrumentPrint, error) {
	cur, err := a.provider.Collection(PrintsCollection).Find(ctx,
		bson.M{"transaction_id": transactionID.String()},
		options.Find().SetSort(bson.D{{Key: "print_number", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find instrument prints: %w", err)
	}

	var docs []printDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode instrument prints: %w", err)
	}

	prints := make([]domain.InstrumentPrint, 0, len(docs))
	for _, d := range docs {
		issuerID, err := uuid.Parse(d.IssuerID)
		if err != nil {
			return nil, fmt.Errorf("parse issuer id %q: %w", d.IssuerID, err)
		}
		prints = append(prints, domain.InstrumentPrint{
			IssuerID:      issuerID,
			TransactionID: transactionID,
			PrintNumber:   d.PrintNumber,
			Instrument:    d.Instrument,
			PrintedAt:     d.PrintedAt,
		})
	}
	return prints, nil
}
