package db

// Schema creates the single table backing the postgres document store.
// Every collection shares it; documents are jsonb keyed by (collection, id).
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	data       JSONB       NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS documents_data_gin ON documents USING GIN (data);
`
