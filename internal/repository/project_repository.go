package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorwamb/IA-PF/internal/entities"
)

const projectColumns = `id, title, title_simple, description, description2, description3, details,
	technologies, date, categorie, image, image_simple, images, type, vue`

// ProjectRepository stores projects in Postgres. List columns are JSONB.
type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) List(ctx context.Context) ([]entities.Project, error) {
	rows, err := r.db.Query(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := []entities.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Get(ctx context.Context, id int) (*entities.Project, error) {
	row := r.db.QueryRow(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = $1", id)
	p, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrProjectNotFound
	}
	return p, err
}

// Create assigns the next id (max + 1) and inserts p.
func (r *ProjectRepository) Create(ctx context.Context, p *entities.Project) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize id allocation between concurrent creates
	if _, err := tx.Exec(ctx, "LOCK TABLE projects IN EXCLUSIVE MODE"); err != nil {
		return fmt.Errorf("lock projects: %w", err)
	}
	if err := tx.QueryRow(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM projects").Scan(&p.ID); err != nil {
		return fmt.Errorf("next project id: %w", err)
	}
	if err := insertProject(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ProjectRepository) Update(ctx context.Context, id int, u entities.ProjectUpdate) (*entities.Project, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanProject(tx.QueryRow(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = $1 FOR UPDATE", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Apply(p)

	_, err = tx.Exec(ctx, `
		UPDATE projects SET title = $2, title_simple = $3, description = $4, description2 = $5,
			description3 = $6, details = $7, technologies = $8, date = $9, categorie = $10,
			image = $11, image_simple = $12, images = $13, type = $14, vue = $15,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`, projectArgs(p)...)
	if err != nil {
		return nil, fmt.Errorf("update project %d: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrProjectNotFound
	}
	return nil
}

// SeedIfEmpty inserts projects when the table has no rows yet.
func (r *ProjectRepository) SeedIfEmpty(ctx context.Context, projects []entities.Project) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM projects").Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)
	for i := range projects {
		if err := insertProject(ctx, tx, &projects[i]); err != nil {
			return 0, err
		}
	}
	return len(projects), tx.Commit(ctx)
}

func insertProject(ctx context.Context, tx pgx.Tx, p *entities.Project) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, projectArgs(p)...)
	if err != nil {
		return fmt.Errorf("insert project %d: %w", p.ID, err)
	}
	return nil
}

func projectArgs(p *entities.Project) []any {
	return []any{
		p.ID, p.Title, p.TitleSimple, p.Description, p.Description2, p.Description3, p.Details,
		nonNil(p.Technologies), p.Date, nonNil(p.Categorie), p.Image, p.ImageSimple, nonNil(p.Images),
		p.Type, p.Vue,
	}
}

func scanProject(row pgx.Row) (*entities.Project, error) {
	var p entities.Project
	err := row.Scan(&p.ID, &p.Title, &p.TitleSimple, &p.Description, &p.Description2, &p.Description3,
		&p.Details, &p.Technologies, &p.Date, &p.Categorie, &p.Image, &p.ImageSimple, &p.Images,
		&p.Type, &p.Vue)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// JSONB columns are NOT NULL; a nil slice would encode as null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
