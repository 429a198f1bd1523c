// Package store executes routed database actions using SQLite.
//
// The pipeline core only hands over (action, sender, message, entities);
// everything about schema and row derivation lives here.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	// SQLite driver (required for database/sql registration).
	_ "github.com/mattn/go-sqlite3"

	"github.com/workhub-ai/workhub-agent/internal/classifier"
	"github.com/workhub-ai/workhub-agent/internal/routing"
)

// Store persists the outcomes of routed actions.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at the given path, creating tables if
// they don't exist.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			assigned_to TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'upcoming',
			progress INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS incidents (
			id TEXT PRIMARY KEY,
			reported_by TEXT NOT NULL,
			description TEXT NOT NULL,
			severity TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'open',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS permission_requests (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			request_type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'normal',
			is_urgent INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			check_in_time TIMESTAMP,
			check_out_time TIMESTAMP,
			break_start TIMESTAMP,
			break_end TIMESTAMP,
			status TEXT NOT NULL DEFAULT 'present',
			location TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS message_log (
			id TEXT PRIMARY KEY,
			sender_id TEXT NOT NULL,
			message TEXT NOT NULL,
			kind TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the routed action. It is the sole contract surface between
// the pipeline and persistence; a failure here is reported to the caller
// but never blocks returning the outcome to the worker.
func (s *Store) Execute(ctx context.Context, action routing.Action, senderID, message string, entities classifier.EntitySet) error {
	switch action {
	case routing.ActionUpdateTaskProgress:
		return s.updateTaskProgress(ctx, senderID, message)
	case routing.ActionCreateIncidentRecord:
		return s.createIncidentRecord(ctx, senderID, message)
	case routing.ActionCreatePermissionRequest:
		return s.createPermissionRequest(ctx, senderID, message, entities)
	case routing.ActionUpdateAttendanceRecord:
		return s.updateAttendanceRecord(ctx, senderID, message, entities)
	case routing.ActionRouteToSupport:
		return s.logMessage(ctx, senderID, message, "support")
	case routing.ActionLogGeneralMessage:
		return s.logMessage(ctx, senderID, message, "general")
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

// progressKeywords maps status words in a message to a progress value.
// First match wins.
var progressKeywords = []struct {
	word     string
	progress int
	status   string
}{
	{"completed", 100, "completed"},
	{"finished", 100, "completed"},
	{"done", 100, "completed"},
	{"almost", 80, "ongoing"},
	{"halfway", 50, "ongoing"},
	{"progress", 50, "ongoing"},
	{"begun", 15, "ongoing"},
	{"started", 10, "ongoing"},
	{"beginning", 10, "ongoing"},
}

func (s *Store) updateTaskProgress(ctx context.Context, senderID, message string) error {
	msg := strings.ToLower(message)

	progress := 0
	status := "ongoing"
	for _, kw := range progressKeywords {
		if strings.Contains(msg, kw.word) {
			progress = kw.progress
			status = kw.status
			break
		}
	}

	var taskID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM tasks
		WHERE assigned_to = ? AND status IN ('upcoming', 'ongoing')
		ORDER BY created_at DESC LIMIT 1`, senderID).Scan(&taskID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no active task for worker %s", senderID)
	}
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks SET status = ?, progress = ?, updated_at = ?
		WHERE id = ?`, status, progress, time.Now().UTC(), taskID)
	return err
}

// severityKeywords is checked in order; first match sets the severity.
var severityKeywords = []struct {
	word     string
	severity string
}{
	{"emergency", "critical"},
	{"urgent", "critical"},
	{"critical", "critical"},
	{"fire", "critical"},
	{"gas", "critical"},
	{"serious", "high"},
	{"danger", "high"},
	{"safety", "high"},
	{"injury", "high"},
	{"problem", "medium"},
	{"issue", "medium"},
	{"broken", "medium"},
}

func (s *Store) createIncidentRecord(ctx context.Context, senderID, message string) error {
	msg := strings.ToLower(message)

	severity := "low"
	for _, kw := range severityKeywords {
		if strings.Contains(msg, kw.word) {
			severity = kw.severity
			break
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incidents (id, reported_by, description, severity, status)
		VALUES (?, ?, ?, ?, 'open')`,
		uuid.NewString(), senderID, message, severity)
	return err
}

func (s *Store) createPermissionRequest(ctx context.Context, senderID, message string, entities classifier.EntitySet) error {
	msg := strings.ToLower(message)

	requestType := "general"
	title := "General Permission Request"
	switch {
	case containsAny(msg, "overtime", "extra hours", "weekend", "holiday"):
		requestType = "overtime"
		title = "Overtime Request"
	case containsAny(msg, "vacation", "leave", "time off"):
		requestType = "vacation"
		title = "Vacation Request"
	case containsAny(msg, "sick", "ill", "medical"):
		requestType = "sick_leave"
		title = "Sick Leave Request"
	case containsAny(msg, "access", "permission", "authorization"):
		requestType = "special_access"
		title = "Special Access Request"
	}

	isUrgent := entities.Urgent()
	priority := "normal"
	if isUrgent {
		priority = "urgent"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO permission_requests (id, user_id, request_type, title, description, priority, is_urgent, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'pending')`,
		uuid.NewString(), senderID, requestType, title, message, priority, isUrgent)
	return err
}

func (s *Store) updateAttendanceRecord(ctx context.Context, senderID, message string, entities classifier.EntitySet) error {
	msg := strings.ToLower(message)

	action := "check_in"
	switch {
	case containsAny(msg, "check out", "leaving", "going home"):
		action = "check_out"
	case containsAny(msg, "break", "lunch", "rest"):
		action = "break_start"
	case containsAny(msg, "back", "return", "resume"):
		action = "break_end"
	}

	location := ""
	if locs := entities[classifier.CategoryLocations]; len(locs) > 0 {
		location = locs[0]
	}

	notes := message
	if len(notes) > 255 {
		notes = notes[:255]
	}

	now := time.Now().UTC()
	day := now.Format("2006-01-02")

	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM attendance
		WHERE user_id = ? AND day = ?
		ORDER BY updated_at DESC LIMIT 1`, senderID, day).Scan(&id)
	if err == sql.ErrNoRows {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO attendance (id, user_id, day, check_in_time, status, location, notes, updated_at)
			VALUES (?, ?, ?, ?, 'present', ?, ?, ?)`,
			uuid.NewString(), senderID, day, now, location, notes, now)
		return err
	}
	if err != nil {
		return err
	}

	var stmt string
	switch action {
	case "check_in":
		stmt = `UPDATE attendance SET check_in_time = ?, status = 'present', location = ?, notes = ?, updated_at = ? WHERE id = ?`
		_, err = s.db.ExecContext(ctx, stmt, now, location, notes, now, id)
	case "check_out":
		stmt = `UPDATE attendance SET check_out_time = ?, status = 'absent', notes = ?, updated_at = ? WHERE id = ?`
		_, err = s.db.ExecContext(ctx, stmt, now, notes, now, id)
	case "break_start":
		stmt = `UPDATE attendance SET break_start = ?, status = 'on_break', notes = ?, updated_at = ? WHERE id = ?`
		_, err = s.db.ExecContext(ctx, stmt, now, notes, now, id)
	default:
		stmt = `UPDATE attendance SET break_end = ?, status = 'present', notes = ?, updated_at = ? WHERE id = ?`
		_, err = s.db.ExecContext(ctx, stmt, now, notes, now, id)
	}
	return err
}

func (s *Store) logMessage(ctx context.Context, senderID, message, kind string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO message_log (id, sender_id, message, kind)
		VALUES (?, ?, ?, ?)`,
		uuid.NewString(), senderID, message, kind)
	return err
}

// CreateTask inserts a task for a worker. Used by operators and tests;
// message-driven updates only ever touch existing tasks.
func (s *Store) CreateTask(ctx context.Context, workerID, description string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, assigned_to, description, status)
		VALUES (?, ?, ?, 'upcoming')`, id, workerID, description)
	return id, err
}

// TaskStatus returns the status and progress of a task.
func (s *Store) TaskStatus(ctx context.Context, taskID string) (string, int, error) {
	var status string
	var progress int
	err := s.db.QueryRowContext(ctx, `
		SELECT status, progress FROM tasks WHERE id = ?`, taskID).Scan(&status, &progress)
	return status, progress, err
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
