package db

import "context"

// Schema is applied idempotently at startup. Referential policy:
// deleting a user or a park is blocked while dependents exist, deleting a
// visit cascades to its hike records, and photos keep their row with the
// visit/hike reference nulled.
const schema = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY,
    username text NOT NULL UNIQUE,
    display_name text,
    auth_subject text UNIQUE,
    email text,
    picture text,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS parks (
    id uuid PRIMARY KEY,
    name text NOT NULL,
    code text NOT NULL,
    description text,
    state text,
    region text,
    image_url text,
    website_url text,
    location geography(Point,4326),
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS trails (
    id uuid PRIMARY KEY,
    park_id uuid NOT NULL REFERENCES parks(id) ON DELETE RESTRICT,
    name text NOT NULL,
    description text,
    difficulty text,
    length_km double precision,
    elevation_gain_m double precision,
    path jsonb,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS trails_park_id_idx ON trails (park_id);

CREATE TABLE IF NOT EXISTS visits (
    id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
    park_id uuid NOT NULL REFERENCES parks(id) ON DELETE RESTRICT,
    visit_date date NOT NULL,
    notes text,
    weather jsonb,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS visits_user_id_idx ON visits (user_id);
CREATE INDEX IF NOT EXISTS visits_park_id_idx ON visits (park_id);

CREATE TABLE IF NOT EXISTS hike_records (
    id uuid PRIMARY KEY,
    visit_id uuid NOT NULL REFERENCES visits(id) ON DELETE CASCADE,
    trail_id uuid REFERENCES trails(id) ON DELETE SET NULL,
    hike_date date NOT NULL,
    duration_minutes integer,
    distance_km double precision,
    completed boolean NOT NULL DEFAULT false,
    notes text,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS hike_records_visit_id_idx ON hike_records (visit_id);

CREATE TABLE IF NOT EXISTS photos (
    id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
    visit_id uuid REFERENCES visits(id) ON DELETE SET NULL,
    hike_record_id uuid REFERENCES hike_records(id) ON DELETE SET NULL,
    url text NOT NULL,
    caption text,
    taken_on date,
    location geography(Point,4326),
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS photos_user_id_idx ON photos (user_id);
`

func Migrate(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, schema)
	return err
}
