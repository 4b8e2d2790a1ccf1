package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/victorwamb/IA-PF/internal/entities"
	"github.com/victorwamb/IA-PF/internal/interfaces"
)

// MaxUploadSize is the largest accepted image upload.
const MaxUploadSize = 10 << 20

var (
	ErrUnsupportedFileType = errors.New("file type not allowed")
	ErrFileTooLarge        = errors.New("file too large")
)

var allowedImageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

// FileSaver stores uploaded bytes under a generated name.
type FileSaver interface {
	Save(name string, data []byte) error
}

type ProjectUsecase struct {
	store   interfaces.ProjectStore
	uploads FileSaver
	now     func() time.Time
}

func NewProjectUsecase(store interfaces.ProjectStore, uploads FileSaver) *ProjectUsecase {
	return &ProjectUsecase{store: store, uploads: uploads, now: time.Now}
}

func (u *ProjectUsecase) ListProjects(ctx context.Context) ([]entities.Project, error) {
	return u.store.List(ctx)
}

func (u *ProjectUsecase) GetProject(ctx context.Context, id int) (*entities.Project, error) {
	return u.store.Get(ctx, id)
}

func (u *ProjectUsecase) CreateProject(ctx context.Context, p *entities.Project) error {
	return u.store.Create(ctx, p)
}

func (u *ProjectUsecase) UpdateProject(ctx context.Context, id int, upd entities.ProjectUpdate) (*entities.Project, error) {
	return u.store.Update(ctx, id, upd)
}

func (u *ProjectUsecase) DeleteProject(ctx context.Context, id int) error {
	return u.store.Delete(ctx, id)
}

// SaveUpload validates an image and stores it as <timestamp>_<8 hex><ext>.
// It returns the stored file name.
func (u *ProjectUsecase) SaveUpload(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("%w: maximum size is %.1fMB", ErrFileTooLarge, float64(MaxUploadSize)/(1024*1024))
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}
	name := fmt.Sprintf("%s_%s%s", u.now().Format("20060102_150405"), hex.EncodeToString(suffix), ext)

	if err := u.uploads.Save(name, data); err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return name, nil
}
