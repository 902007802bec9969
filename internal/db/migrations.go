package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS boq_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		boq_ref VARCHAR(100) NOT NULL,
		description TEXT,
		make VARCHAR(255),
		model VARCHAR(255),
		unit VARCHAR(50),
		boq_qty NUMERIC(12,2) NOT NULL DEFAULT 0,
		rate NUMERIC(12,2) NOT NULL DEFAULT 0,
		amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivered_qty_1 NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivered_qty_2 NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivered_qty_3 NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivered_qty_4 NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivered_qty_5 NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivered_qty_6 NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivered_qty_7 NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivered_qty_8 NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivered_qty_9 NUMERIC(12,2) NOT NULL DEFAULT 0,
		delivered_qty_10 NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_delivery_qty NUMERIC(12,2) NOT NULL DEFAULT 0,
		balance_to_deliver NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_boq_items_project_ref ON boq_items (project_id, boq_ref);`,
	`CREATE INDEX IF NOT EXISTS idx_boq_items_project_id ON boq_items (project_id);`,
	`CREATE TABLE IF NOT EXISTS locations (
		location_code VARCHAR(10) PRIMARY KEY,
		location_name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS po_counters (
		location_code VARCHAR(10) PRIMARY KEY,
		last_serial BIGINT NOT NULL DEFAULT 0 CHECK (last_serial >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		address TEXT,
		gst_number VARCHAR(50),
		contact_person VARCHAR(255),
		contact_number VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS bill_to_companies (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_name VARCHAR(255) NOT NULL,
		address TEXT,
		gst_number VARCHAR(50),
		contact_person VARCHAR(255),
		contact_number VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS ship_to_addresses (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		address TEXT,
		gst_number VARCHAR(50),
		contact_person VARCHAR(255),
		contact_number VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`INSERT INTO locations (location_code, location_name) VALUES
		('HR', 'Haryana'),
		('DL', 'Delhi'),
		('PN', 'Pune')
	ON CONFLICT (location_code) DO NOTHING;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
