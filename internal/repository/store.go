package repository

import (
	"context"
	"encoding/json"

	apperrors "garagy/internal/errors"
)

// Document is a schemaless record as it sits in the store.
type Document map[string]any

// Record pairs a document with its id, as returned by Find.
type Record struct {
	ID   string
	Data Document
}

// DocumentStore is keyed document storage addressed by (collection, id).
// Every driver returns NOT_FOUND coded errors for missing documents and
// REMOTE_IO coded errors for backend failures.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set creates or replaces a document.
	Set(ctx context.Context, collection, id string, doc Document) error
	// Update merges fields into the top level of an existing document.
	Update(ctx context.Context, collection, id string, fields Document) error
	// Find returns documents whose top-level field equals value, in id
	// order. An empty field lists the whole collection.
	Find(ctx context.Context, collection, field string, value any) ([]Record, error)
	Delete(ctx context.Context, collection string, ids ...string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Encode turns a tagged struct into a Document through its JSON form, so
// field names match across drivers.
func Encode(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "encode document")
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "encode document")
	}
	return doc, nil
}

// Decode fills v from doc. Shape mismatches are DATA_SHAPE errors.
func Decode(doc any, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDataShape, err, "decode document")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperrors.Wrap(apperrors.CodeDataShape, err, "decode document")
	}
	return nil
}

func notFound(collection, id string) error {
	return apperrors.New(apperrors.CodeNotFound, "%s/%s not found", collection, id)
}

func remoteIO(err error, op, collection string) error {
	return apperrors.Wrap(apperrors.CodeRemoteIO, err, "%s %s", op, collection)
}

func badDocument(err error, collection string) error {
	return apperrors.Wrap(apperrors.CodeDataShape, err, "stored %s document does not decode", collection)
}
