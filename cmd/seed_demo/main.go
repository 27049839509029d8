package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

func main() {
	// Database connection
	db, err := sql.Open("postgres", "host=localhost port=5432 user=juanlms_user password=juanlms_password dbname=juanlms_chat sslmode=disable")
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	fmt.Println("Connected to database successfully")

	// Demo groups with fixed ids so reseeding stays idempotent
	groups := []struct {
		id       string
		name     string
		creator  string
		joinCode string
	}{
		{"1d1a6a3e-0b57-4a7e-9e30-52c1a1b5f001", "Math 7 - Section A", "teacher-reyes", "MATH7A"},
		{"1d1a6a3e-0b57-4a7e-9e30-52c1a1b5f002", "Science Club", "teacher-cruz", "SCI001"},
		{"1d1a6a3e-0b57-4a7e-9e30-52c1a1b5f003", "Student Council", "adviser-santos", "COUNCL"},
	}

	for _, g := range groups {
		query := `
			INSERT INTO groups (id, name, description, created_by, max_participants, join_code)
			VALUES ($1, $2, '', $3, 50, $4)
			ON CONFLICT (id) DO NOTHING
		`

		result, err := db.Exec(query, g.id, g.name, g.creator, g.joinCode)
		if err != nil {
			log.Printf("Error inserting group %s: %v", g.name, err)
			continue
		}

		if _, err := db.Exec(`
			INSERT INTO group_members (group_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, g.id, g.creator); err != nil {
			log.Printf("Error inserting creator for %s: %v", g.name, err)
			continue
		}

		rowsAffected, _ := result.RowsAffected()
		fmt.Printf("Seeded group %s: join_code=%s, rows_affected=%d\n",
			g.name, g.joinCode, rowsAffected)
	}

	// A couple of demo students in the first group
	students := []string{"student-ana", "student-ben", "student-carla"}
	for _, s := range students {
		if _, err := db.Exec(`
			INSERT INTO group_members (group_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, groups[0].id, s); err != nil {
			log.Printf("Error adding %s: %v", s, err)
		}
	}

	if _, err := db.Exec(`
		INSERT INTO group_messages (id, group_id, sender_id, sender_name, body, sequence_time)
		VALUES (gen_random_uuid(), $1, $2, 'Ms. Reyes', 'Welcome to the class group chat!', NOW())
	`, groups[0].id, groups[0].creator); err != nil {
		log.Printf("Error inserting welcome message: %v", err)
	}

	fmt.Println("Demo data seeding completed!")
}
