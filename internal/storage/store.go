package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/internal/model"
)

// ErrNotFound means the project id has no record on disk.
var ErrNotFound = errors.New("project not found")

// Store persists one JSON file per project under the projects directory and
// one subdirectory per project under the uploads directory (source PDF,
// wireframe PNGs, metrics chart PNGs).
//
// There is no cross-process locking: concurrent read-modify-write cycles on
// the same id are last-writer-wins.
type Store struct {
	projectsDir string
	uploadsDir  string
}

func NewStore(projectsDir, uploadsDir string) (*Store, error) {
	s := &Store{projectsDir: projectsDir, uploadsDir: uploadsDir}
	if err := s.ensureDirs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureDirs() error {
	if err := os.MkdirAll(s.projectsDir, 0755); err != nil {
		return fmt.Errorf("create projects dir: %w", err)
	}
	if err := os.MkdirAll(s.uploadsDir, 0755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	return nil
}

func (s *Store) dataPath(id string) string {
	return filepath.Join(s.projectsDir, id+".json")
}

// UploadDir returns the per-project upload directory.
func (s *Store) UploadDir(id string) string {
	return filepath.Join(s.uploadsDir, id)
}

// UploadPath returns the path of a file inside the project's upload dir.
func (s *Store) UploadPath(id string, elem ...string) string {
	parts := append([]string{s.UploadDir(id)}, elem...)
	return filepath.Join(parts...)
}

// Save writes the full project record, replacing any previous one.
func (s *Store) Save(project *model.Project) error {
	if err := s.ensureDirs(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	return os.WriteFile(s.dataPath(project.ID), data, 0644)
}

// Get loads one project by id.
func (s *Store) Get(id string) (*model.Project, error) {
	data, err := os.ReadFile(s.dataPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var project model.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	return &project, nil
}

// List returns all readable project records; unreadable files are skipped.
func (s *Store) List() ([]model.Project, error) {
	if err := s.ensureDirs(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.projectsDir)
	if err != nil {
		return nil, err
	}

	var projects []model.Project
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		project, err := s.Get(id)
		if err != nil {
			klog.V(6).Infof("skipping unreadable project file %s: %v", entry.Name(), err)
			continue
		}
		projects = append(projects, *project)
	}
	return projects, nil
}

// SaveUpload writes a file into the project's upload directory and returns
// its path relative to the uploads root.
func (s *Store) SaveUpload(id, filename string, data []byte) (string, error) {
	dir := s.UploadDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", err
	}
	return filepath.Join("uploads", id, filename), nil
}

// Delete removes the project record and its entire upload directory.
func (s *Store) Delete(id string) error {
	if _, err := os.Stat(s.dataPath(id)); os.IsNotExist(err) {
		return ErrNotFound
	}
	if err := os.Remove(s.dataPath(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.RemoveAll(s.UploadDir(id)); err != nil {
		return err
	}
	return nil
}
