// Command migrate creates or drops the bot's PostgreSQL schema.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate drop
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

const schema = `
CREATE TABLE IF NOT EXISTS topics (
	key        TEXT PRIMARY KEY,
	chat_id    BIGINT NOT NULL,
	thread_id  INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
	id              BIGINT PRIMARY KEY,
	lang            TEXT NOT NULL DEFAULT 'RU',
	display_name    TEXT NOT NULL DEFAULT '',
	first_name      TEXT NOT NULL DEFAULT '',
	last_name       TEXT NOT NULL DEFAULT '',
	username        TEXT NOT NULL DEFAULT '',
	main_message_id INTEGER NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS polls (
	id              TEXT PRIMARY KEY,
	topic_key       TEXT NOT NULL,
	chat_id         BIGINT NOT NULL,
	thread_id       INTEGER NOT NULL DEFAULT 0,
	post_message_id INTEGER NOT NULL DEFAULT 0,
	card_message_id INTEGER NOT NULL DEFAULT 0,
	question_ru     TEXT NOT NULL,
	question_de     TEXT NOT NULL,
	date_label      TEXT NOT NULL,
	member_count    INTEGER NOT NULL DEFAULT 0,
	yes_count       INTEGER NOT NULL DEFAULT 0,
	no_count        INTEGER NOT NULL DEFAULT 0,
	active          BOOLEAN NOT NULL DEFAULT TRUE,
	ui_locked       BOOLEAN NOT NULL DEFAULT FALSE,
	checkin_closed  BOOLEAN NOT NULL DEFAULT FALSE,
	checkin_by      BIGINT NOT NULL DEFAULT 0,
	checkin_at      TIMESTAMPTZ,
	checkin_yes     INTEGER NOT NULL DEFAULT 0,
	checkin_here    INTEGER NOT NULL DEFAULT 0,
	checkin_noshow  INTEGER NOT NULL DEFAULT 0,
	created_by      BIGINT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_polls_active ON polls (active, created_at DESC);

CREATE TABLE IF NOT EXISTS votes (
	poll_id    TEXT NOT NULL REFERENCES polls (id) ON DELETE CASCADE,
	voter_id   BIGINT NOT NULL,
	choice     TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (poll_id, voter_id)
);

CREATE TABLE IF NOT EXISTS points (
	id        TEXT PRIMARY KEY,
	user_id   BIGINT NOT NULL,
	name      TEXT NOT NULL DEFAULT '',
	points    INTEGER NOT NULL,
	ts        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	source    TEXT NOT NULL,
	poll_id   TEXT NOT NULL DEFAULT '',
	topic_key TEXT NOT NULL DEFAULT '',
	kind      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_points_user_ts ON points (user_id, ts);
CREATE INDEX IF NOT EXISTS idx_points_ts ON points (ts);

CREATE TABLE IF NOT EXISTS bot_config (
	id                   INTEGER PRIMARY KEY,
	group_chat_id        BIGINT NOT NULL DEFAULT 0,
	last_monthly_top5    TEXT NOT NULL DEFAULT '',
	last_year_winner     TEXT NOT NULL DEFAULT '',
	month_photo_id       TEXT NOT NULL DEFAULT '',
	month_empty_photo_id TEXT NOT NULL DEFAULT '',
	year_photo_id        TEXT NOT NULL DEFAULT ''
);
`

const dropSchema = `
DROP TABLE IF EXISTS bot_config;
DROP TABLE IF EXISTS points;
DROP TABLE IF EXISTS votes;
DROP TABLE IF EXISTS polls;
DROP TABLE IF EXISTS users;
DROP TABLE IF EXISTS topics;
`

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|drop>")
	}

	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	var sql, verb string
	switch os.Args[1] {
	case "up":
		sql, verb = schema, "applied"
	case "drop":
		sql, verb = dropSchema, "dropped"
	default:
		log.Fatalf("unknown command %q", os.Args[1])
	}

	if _, err := conn.Exec(ctx, sql); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	fmt.Printf("schema %s\n", verb)
}
