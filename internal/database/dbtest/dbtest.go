// Package dbtest opens throwaway SQLite databases carrying the same tables as
// the MySQL migrations, for repository and handler tests.
package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open returns an in-memory database with foreign keys enforced.  The pool is
// pinned to one connection so every query sees the same memory database.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

const schema = `
CREATE TABLE users (
    id          TEXT PRIMARY KEY,
    email       TEXT NOT NULL UNIQUE,
    password    TEXT NOT NULL,
    nickname    TEXT NOT NULL UNIQUE,
    first_name  TEXT NOT NULL DEFAULT '',
    last_name   TEXT NOT NULL DEFAULT '',
    bio         TEXT,
    profile_img TEXT NOT NULL DEFAULT '',
    created_at  DATETIME NOT NULL
);
CREATE TABLE areas (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    address       TEXT NOT NULL DEFAULT '',
    website       TEXT NOT NULL DEFAULT '',
    contact_num   TEXT NOT NULL DEFAULT '',
    open_time     TEXT NOT NULL DEFAULT '',
    visitor_count INTEGER NOT NULL DEFAULT 0,
    created_at    DATETIME NOT NULL
);
CREATE TABLE area_images (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    area_id    INTEGER NOT NULL REFERENCES areas (id) ON DELETE CASCADE,
    area_img   TEXT NOT NULL,
    created_at DATETIME NOT NULL
);
CREATE TABLE listings (
    id              TEXT PRIMARY KEY,
    seller_id       TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    is_closed       BOOLEAN NOT NULL DEFAULT 0,
    detail          TEXT,
    seller_info     TEXT,
    promotion_start DATETIME,
    promotion_end   DATETIME,
    amount          INTEGER NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL
);
CREATE TABLE orders (
    id          TEXT PRIMARY KEY,
    buyer_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    listing_id  TEXT NOT NULL REFERENCES listings (id) ON DELETE CASCADE,
    amount      INTEGER NOT NULL DEFAULT 0,
    is_refunded BOOLEAN NOT NULL DEFAULT 0,
    created_at  DATETIME NOT NULL
);
CREATE TABLE itinerary_requests (
    id              TEXT PRIMARY KEY,
    listing_id      TEXT NOT NULL REFERENCES listings (id) ON DELETE CASCADE,
    order_id        TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    request_user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    first_name      TEXT NOT NULL DEFAULT '',
    last_name       TEXT NOT NULL DEFAULT '',
    birthday        DATE,
    person_under    INTEGER NOT NULL DEFAULT 0,
    person_over     INTEGER NOT NULL DEFAULT 0,
    contact_method  TEXT NOT NULL DEFAULT '',
    contact         TEXT NOT NULL DEFAULT '',
    travel_start    DATE,
    travel_end      DATE,
    travel_purpose  TEXT NOT NULL DEFAULT '',
    travel_pri      TEXT,
    transport_pri   TEXT,
    travel_restrict TEXT,
    travel_addi     TEXT,
    is_deleted      BOOLEAN NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL
);
CREATE TABLE itineraries (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    request_id TEXT REFERENCES itinerary_requests (id) ON DELETE SET NULL,
    title      TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);
CREATE TABLE place_containers (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    itinerary_id TEXT NOT NULL REFERENCES itineraries (id) ON DELETE CASCADE,
    date         DATE,
    place_name   TEXT NOT NULL,
    memo         TEXT,
    order_index  INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE transport_containers (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    itinerary_id   TEXT NOT NULL REFERENCES itineraries (id) ON DELETE CASCADE,
    date           DATE,
    transport_type TEXT NOT NULL,
    departure      TEXT NOT NULL DEFAULT '',
    arrival        TEXT NOT NULL DEFAULT '',
    memo           TEXT
);
CREATE TABLE point_events (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    event_type TEXT NOT NULL,
    amount     INTEGER NOT NULL,
    detail     TEXT NOT NULL DEFAULT '',
    event_date DATETIME NOT NULL,
    exp_date   DATETIME
);
CREATE TABLE point_details (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    event_id         INTEGER NOT NULL REFERENCES point_events (id) ON DELETE CASCADE,
    related_event_id INTEGER REFERENCES point_events (id) ON DELETE SET NULL,
    point_date       DATETIME NOT NULL,
    point            INTEGER NOT NULL
);
CREATE TABLE user_reviews (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    reviewer_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    target_user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    rating         INTEGER NOT NULL,
    content        TEXT,
    created_at     DATETIME NOT NULL
);
CREATE TABLE area_reviews (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    area_id    INTEGER NOT NULL REFERENCES areas (id) ON DELETE CASCADE,
    user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    rating     INTEGER NOT NULL,
    content    TEXT,
    created_at DATETIME NOT NULL
);
CREATE TABLE hashtags (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    area_id    INTEGER NOT NULL REFERENCES areas (id) ON DELETE CASCADE,
    tag        TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    UNIQUE (area_id, tag)
);
`
