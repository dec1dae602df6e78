// seed_requests.go — standalone script to create the schema and seed sample
// requests and officer metrics for local development.
//
// Usage:
//
//	go run scripts/seed_requests.go -db postgres://localhost/balance
package main

import (
	"context"
	"flag"
	"log"

	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
	`CREATE TABLE IF NOT EXISTS requests (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		requester TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'NORMAL',
		status TEXT NOT NULL DEFAULT 'draft',
		assigned_officer_id BIGINT,
		items JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS request_status_history (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		request_id UUID NOT NULL REFERENCES requests(id),
		status TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		actor_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS officer_metrics (
		officer_id BIGINT PRIMARY KEY,
		officer_name TEXT NOT NULL DEFAULT '',
		total_assignments INT NOT NULL DEFAULT 0,
		completed_assignments INT NOT NULL DEFAULT 0,
		success_rate DOUBLE PRECISION NOT NULL DEFAULT 0.75,
		avg_completion_hours DOUBLE PRECISION NOT NULL DEFAULT 24,
		efficiency_score DOUBLE PRECISION NOT NULL DEFAULT 0.7,
		current_workload INT NOT NULL DEFAULT 0,
		category_expertise JSONB NOT NULL DEFAULT '{}',
		complexity_handling DOUBLE PRECISION NOT NULL DEFAULT 0.5,
		peak_hours INT[] NOT NULL DEFAULT '{}',
		last_assigned_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT completed_le_total CHECK (completed_assignments <= total_assignments)
	)`,
	`CREATE TABLE IF NOT EXISTS assignment_logs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		request_id UUID NOT NULL REFERENCES requests(id),
		officer_id BIGINT NOT NULL,
		strategy TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		predicted_hours DOUBLE PRECISION,
		assigned_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		assigned_by TEXT NOT NULL DEFAULT '',
		completed_at TIMESTAMPTZ,
		actual_hours DOUBLE PRECISION,
		was_successful BOOLEAN,
		feedback_score DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assignment_logs_request ON assignment_logs (request_id, assigned_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_officer_status ON requests (assigned_officer_id, status)`,
	`CREATE TABLE IF NOT EXISTS engine_settings (
		id INT PRIMARY KEY CHECK (id = 1),
		enabled BOOLEAN NOT NULL DEFAULT false,
		strategy TEXT NOT NULL DEFAULT 'AI_SMART',
		auto_assign_on_approval BOOLEAN NOT NULL DEFAULT true,
		learning_enabled BOOLEAN NOT NULL DEFAULT true,
		weight_workload DOUBLE PRECISION NOT NULL DEFAULT 0.3,
		weight_performance DOUBLE PRECISION NOT NULL DEFAULT 0.3,
		weight_specialty DOUBLE PRECISION NOT NULL DEFAULT 0.2,
		weight_priority DOUBLE PRECISION NOT NULL DEFAULT 0.2,
		min_confidence DOUBLE PRECISION NOT NULL DEFAULT 0.6,
		round_robin_cursor BIGINT NOT NULL DEFAULT 0,
		version INT NOT NULL DEFAULT 1,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_by TEXT NOT NULL DEFAULT ''
	)`,
}

type sampleRequest struct {
	title    string
	category string
	priority string
	items    string
}

var sampleRequests = []sampleRequest{
	{"Office laptops refresh", "IT Equipment", "HIGH",
		`[{"description":"Laptop 14in","quantity":12,"unit_price":1450},{"description":"Docking station","quantity":12,"unit_price":220}]`},
	{"Lab reagents Q3", "Laboratory Supplies", "URGENT",
		`[{"description":"Reagent kit A","quantity":40,"unit_price":310},{"description":"Reagent kit B","quantity":25,"unit_price":480},{"description":"Gloves box","quantity":200,"unit_price":9}]`},
	{"Cafeteria furniture", "Furniture", "NORMAL",
		`[{"description":"Table","quantity":10,"unit_price":380},{"description":"Chair","quantity":40,"unit_price":85}]`},
	{"Data center UPS units", "IT Equipment", "URGENT",
		`[{"description":"UPS 10kVA","quantity":4,"unit_price":8200}]`},
}

func main() {
	dbURL := flag.String("db", "postgres://localhost/balance", "database URL")
	flag.Parse()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer conn.Close(ctx)

	for _, stmt := range schema {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			log.Fatalf("schema: %v", err)
		}
	}
	log.Println("schema ready")

	officers := []struct {
		id        int64
		name      string
		expertise string
	}{
		{1, "Dana Whitfield", `{"IT Equipment":0.9,"Software":0.7}`},
		{2, "Marcus Oyelaran", `{"Laboratory Supplies":0.85,"Chemicals":0.6}`},
		{3, "Priya Raghunathan", `{"Furniture":0.8,"Office Supplies":0.75}`},
	}
	for _, o := range officers {
		_, err := conn.Exec(ctx, `
			INSERT INTO officer_metrics (officer_id, officer_name, category_expertise, peak_hours)
			VALUES ($1, $2, $3, '{9,10,11,14,15,16}')
			ON CONFLICT (officer_id) DO NOTHING`,
			o.id, o.name, o.expertise)
		if err != nil {
			log.Fatalf("seed officer %d: %v", o.id, err)
		}
	}

	for _, r := range sampleRequests {
		_, err := conn.Exec(ctx, `
			INSERT INTO requests (title, requester, category, priority, status, items)
			VALUES ($1, 'seed', $2, $3, 'pending_procurement', $4)`,
			r.title, r.category, r.priority, r.items)
		if err != nil {
			log.Fatalf("seed request %q: %v", r.title, err)
		}
	}

	log.Printf("seeded %d officers, %d requests", len(officers), len(sampleRequests))
}
