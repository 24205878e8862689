package repository

import (
	"database/sql"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

func CreateTableIfNotExists(db *sql.DB) {
	query := `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL UNIQUE,
    password VARCHAR(255) NOT NULL,
    is_global_admin BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS companies (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_company_roles (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users (id),
    company_id INT NOT NULL REFERENCES companies (id),
    role VARCHAR(50) NOT NULL,
    UNIQUE (user_id, company_id)
);

CREATE TABLE IF NOT EXISTS projects (
    id SERIAL PRIMARY KEY,
    company_id INT NOT NULL REFERENCES companies (id),
    name VARCHAR(255) NOT NULL,
    description TEXT,
    start_date DATE,
    end_date DATE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS subprojects (
    id SERIAL PRIMARY KEY,
    project_id INT NOT NULL REFERENCES projects (id),
    name VARCHAR(255) NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
    id SERIAL PRIMARY KEY,
    project_id INT NOT NULL REFERENCES projects (id),
    subproject_id INT REFERENCES subprojects (id),
    title VARCHAR(255) NOT NULL,
    description TEXT,
    assigned_to INT NOT NULL REFERENCES users (id),
    created_by INT NOT NULL REFERENCES users (id),
    planned_start DATE NOT NULL,
    planned_end DATE NOT NULL,
    real_start TIMESTAMP,
    real_end TIMESTAMP,
    progress INT NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
    status VARCHAR(50) NOT NULL DEFAULT 'Todo',
    is_extra BOOLEAN NOT NULL DEFAULT FALSE,
    approval_status VARCHAR(50) NOT NULL DEFAULT 'Approved',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS daily_logs (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users (id),
    task_id INT NOT NULL REFERENCES tasks (id),
    type VARCHAR(50) NOT NULL DEFAULT 'PROGRESS',
    progress_log INT,
    status_color VARCHAR(20),
    comment TEXT,
    related_user_id INT REFERENCES users (id),
    log_date DATE NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notifications (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users (id),
    type VARCHAR(50) NOT NULL,
    message TEXT NOT NULL,
    related_id INT,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS pending_items (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users (id),
    description TEXT NOT NULL,
    origin_date DATE NOT NULL,
    resolved BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error creating table: %v", err)
	} else {
		fmt.Println("Tracker tables are ready.")
	}
}

func CreateAdminUser(db *sql.DB) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error hashing password: %v", err)
	}

	// Insert global admin user
	query := "INSERT INTO users (name, email, password, is_global_admin) VALUES ($1, $2, $3, TRUE)"
	_, err = db.Exec(query, "admin", "admin@mail.com", string(hashedPassword))
	if err != nil {
		log.Fatalf("Error inserting admin user: %v", err)
	} else {
		fmt.Println("Admin user 'admin' is created.")
	}
}

func DeleteAllTable(db *sql.DB) {
	query := `
    DROP TABLE IF EXISTS pending_items;
    DROP TABLE IF EXISTS notifications;
    DROP TABLE IF EXISTS daily_logs;
    DROP TABLE IF EXISTS tasks;
    DROP TABLE IF EXISTS subprojects;
    DROP TABLE IF EXISTS projects;
    DROP TABLE IF EXISTS user_company_roles;
    DROP TABLE IF EXISTS companies;
    DROP TABLE IF EXISTS users;
    `

	_, err := db.Exec(query)
	if err != nil {
		log.Fatalf("Error deleting table: %v", err)
	} else {
		fmt.Println("Tracker tables are deleted.")
	}
}
