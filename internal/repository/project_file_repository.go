package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/victorwamb/IA-PF/internal/entities"
)

// ProjectFileRepository keeps projects in a single JSON file. Every call
// reloads the file so manual edits are picked up.
type ProjectFileRepository struct {
	mu   sync.Mutex
	path string
}

// NewProjectFileRepository opens path, writing seed there first if the file does not exist.
func NewProjectFileRepository(path string, seed []entities.Project) (*ProjectFileRepository, error) {
	r := &ProjectFileRepository{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		if seed == nil {
			seed = []entities.Project{}
		}
		if err := r.save(seed); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat projects file: %w", err)
	}
	return r, nil
}

func (r *ProjectFileRepository) List(_ context.Context) ([]entities.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *ProjectFileRepository) Get(_ context.Context, id int) (*entities.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(projects, id)
	if i < 0 {
		return nil, entities.ErrProjectNotFound
	}
	return &projects[i], nil
}

func (r *ProjectFileRepository) Create(_ context.Context, p *entities.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return err
	}
	maxID := 0
	for _, existing := range projects {
		maxID = max(maxID, existing.ID)
	}
	p.ID = maxID + 1
	return r.save(append(projects, *p))
}

func (r *ProjectFileRepository) Update(_ context.Context, id int, u entities.ProjectUpdate) (*entities.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(projects, id)
	if i < 0 {
		return nil, entities.ErrProjectNotFound
	}
	u.Apply(&projects[i])
	if err := r.save(projects); err != nil {
		return nil, err
	}
	updated := projects[i]
	return &updated, nil
}

func (r *ProjectFileRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return err
	}
	i := indexOf(projects, id)
	if i < 0 {
		return entities.ErrProjectNotFound
	}
	return r.save(append(projects[:i], projects[i+1:]...))
}

func (r *ProjectFileRepository) load() ([]entities.Project, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []entities.Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read projects file: %w", err)
	}
	projects := []entities.Project{}
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decode projects file: %w", err)
	}
	return projects, nil
}

// save writes through a temp file so readers never see a partial document.
func (r *ProjectFileRepository) save(projects []entities.Project) error {
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write projects file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace projects file: %w", err)
	}
	return nil
}

func indexOf(projects []entities.Project, id int) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}
