package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/ONA-Kneel/JuanLMS-MobileApp-sub006/internal/config"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	host := config.GetEnv("DB_HOST", "localhost")
	port := config.GetEnv("DB_PORT", "5432")
	user := config.GetEnv("DB_USER", "juanlms_user")
	password := config.GetEnv("DB_PASSWORD", "juanlms_password")
	dbname := config.GetEnv("DB_NAME", "juanlms_chat")
	sslmode := config.GetEnv("DB_SSLMODE", "disable")

	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	// Groups with their unique join code. The UNIQUE constraint on
	// join_code is the storage backstop behind the allocation retry.
	groupsTable := `
	CREATE TABLE IF NOT EXISTS groups (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_by VARCHAR(255) NOT NULL,
		max_participants INTEGER NOT NULL DEFAULT 50,
		join_code VARCHAR(6) UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	// Membership as one row per (group, user): adding a participant is
	// an atomic insert, never a rewrite of the whole set.
	groupMembersTable := `
	CREATE TABLE IF NOT EXISTS group_members (
		group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		user_id VARCHAR(255) NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (group_id, user_id)
	);`

	// Append-only message log. seq breaks ties between messages that
	// share a sequence_time.
	groupMessagesTable := `
	CREATE TABLE IF NOT EXISTS group_messages (
		id UUID PRIMARY KEY,
		group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		sender_id VARCHAR(255) NOT NULL,
		sender_name VARCHAR(255) NOT NULL,
		body TEXT NOT NULL,
		attachment_ref VARCHAR(500),
		sequence_time TIMESTAMPTZ NOT NULL,
		seq BIGSERIAL
	);`

	messageOrderIndex := `
	CREATE INDEX IF NOT EXISTS idx_group_messages_order
	ON group_messages (group_id, sequence_time, seq);`

	tables := []string{
		groupsTable,
		groupMembersTable,
		groupMessagesTable,
		messageOrderIndex,
	}

	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
