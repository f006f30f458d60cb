package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gabru-xD/geo-rescue-optimizer/internal/models"
)

// Postgres persists incidents and resources in PostgreSQL. Embedded
// collections (assigned resources, update feed) are stored as JSONB.
type Postgres struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) Close() {
	p.Pool.Close()
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

// EnsureSchema creates the tables if they do not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS incidents (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			priority TEXT NOT NULL,
			status TEXT NOT NULL,
			address TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			reported_time TIMESTAMPTZ NOT NULL,
			estimated_response_time INT,
			affected_people INT,
			assigned_resources JSONB NOT NULL DEFAULT '[]',
			updates JSONB NOT NULL DEFAULT '[]'
		);
		CREATE TABLE IF NOT EXISTS resources (
			id TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			capacity INT NOT NULL,
			eta INT
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const incidentColumns = `id, title, description, type, priority, status, address, latitude, longitude,
	reported_time, estimated_response_time, affected_people, assigned_resources, updates`

func scanIncident(row pgx.Row) (models.Incident, error) {
	var inc models.Incident
	var assigned, updates []byte
	err := row.Scan(
		&inc.ID,
		&inc.Title,
		&inc.Description,
		&inc.Type,
		&inc.Priority,
		&inc.Status,
		&inc.Location.Address,
		&inc.Location.Coordinates.Latitude,
		&inc.Location.Coordinates.Longitude,
		&inc.ReportedTime,
		&inc.EstimatedResponseTime,
		&inc.AffectedPeople,
		&assigned,
		&updates,
	)
	if err != nil {
		return models.Incident{}, err
	}
	if err := json.Unmarshal(assigned, &inc.AssignedResources); err != nil {
		return models.Incident{}, fmt.Errorf("decode assigned_resources: %w", err)
	}
	if err := json.Unmarshal(updates, &inc.Updates); err != nil {
		return models.Incident{}, fmt.Errorf("decode updates: %w", err)
	}
	return inc, nil
}

func (p *Postgres) GetAllIncidents(ctx context.Context) ([]models.Incident, error) {
	rows, err := p.Pool.Query(ctx, `SELECT `+incidentColumns+` FROM incidents ORDER BY reported_time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (p *Postgres) AddIncident(ctx context.Context, incident models.Incident) (models.Incident, error) {
	assigned, err := json.Marshal(incident.AssignedResources)
	if err != nil {
		return models.Incident{}, err
	}
	updates, err := json.Marshal(incident.Updates)
	if err != nil {
		return models.Incident{}, err
	}

	// The backend assigns the canonical id; the client-generated one is
	// discarded on success.
	err = p.Pool.QueryRow(ctx, `
		INSERT INTO incidents (title, description, type, priority, status, address, latitude, longitude,
			reported_time, estimated_response_time, affected_people, assigned_resources, updates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		incident.Title,
		incident.Description,
		incident.Type,
		incident.Priority,
		incident.Status,
		incident.Location.Address,
		incident.Location.Coordinates.Latitude,
		incident.Location.Coordinates.Longitude,
		incident.ReportedTime,
		incident.EstimatedResponseTime,
		incident.AffectedPeople,
		assigned,
		updates,
	).Scan(&incident.ID)
	if err != nil {
		return models.Incident{}, fmt.Errorf("insert incident: %w", err)
	}
	return incident, nil
}

func (p *Postgres) UpdateIncident(ctx context.Context, id string, patch models.IncidentPatch) (bool, error) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.EstimatedResponseTime != nil {
		add("estimated_response_time", *patch.EstimatedResponseTime)
	}
	if patch.AffectedPeople != nil {
		add("affected_people", *patch.AffectedPeople)
	}
	if patch.AssignedResources != nil {
		assigned, err := json.Marshal(*patch.AssignedResources)
		if err != nil {
			return false, err
		}
		add("assigned_resources", assigned)
	}
	if len(sets) == 0 {
		return false, nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE incidents SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := p.Pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update incident: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (p *Postgres) GetAllResources(ctx context.Context) ([]models.Resource, error) {
	rows, err := p.Pool.Query(ctx, `SELECT id, type, name, status, latitude, longitude, capacity, eta FROM resources ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Resource
	for rows.Next() {
		var r models.Resource
		if err := rows.Scan(
			&r.ID,
			&r.Type,
			&r.Name,
			&r.Status,
			&r.Coordinates.Latitude,
			&r.Coordinates.Longitude,
			&r.Capacity,
			&r.ETA,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) AddResource(ctx context.Context, resource models.Resource) (models.Resource, error) {
	err := p.Pool.QueryRow(ctx, `
		INSERT INTO resources (type, name, status, latitude, longitude, capacity, eta)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		resource.Type,
		resource.Name,
		resource.Status,
		resource.Coordinates.Latitude,
		resource.Coordinates.Longitude,
		resource.Capacity,
		resource.ETA,
	).Scan(&resource.ID)
	if err != nil {
		return models.Resource{}, fmt.Errorf("insert resource: %w", err)
	}
	return resource, nil
}

func (p *Postgres) UpdateResource(ctx context.Context, id string, patch models.ResourcePatch) (bool, error) {
	var sets []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.ETA != nil {
		add("eta", *patch.ETA)
	}
	if patch.Coordinates != nil {
		add("latitude", patch.Coordinates.Latitude)
		add("longitude", patch.Coordinates.Longitude)
	}
	if len(sets) == 0 {
		return false, nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE resources SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := p.Pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update resource: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
