package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aumanu2/backend-repo-7f4ot1ci-jurvfh/internal/models"
)

const SnapshotVersion = 1

// Snapshot is a portable dump of every collection.
type Snapshot struct {
	Version      int                  `json:"version"`
	ExportedAt   time.Time            `json:"exported_at"`
	Profiles     []models.Profile     `json:"profiles"`
	Projects     []models.Project     `json:"projects"`
	Endorsements []models.Endorsement `json:"endorsements"`
}

// SnapshotFile provides thread-safe JSON file persistence for snapshots.
type SnapshotFile struct {
	mu       sync.RWMutex
	filePath string
}

func NewSnapshotFile(path string) (*SnapshotFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &SnapshotFile{filePath: path}, nil
}

func (f *SnapshotFile) Path() string { return f.filePath }

// Load reads the snapshot. A missing file is an error.
func (f *SnapshotFile) Load() (*Snapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	file, err := os.Open(f.filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap Snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.filePath, err)
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", snap.Version, SnapshotVersion)
	}
	return &snap, nil
}

// Save writes the snapshot through a temp file and rename.
func (f *SnapshotFile) Save(snap *Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tempFile := f.filePath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		file.Close()
		os.Remove(tempFile)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, f.filePath)
}

// Source is the read side of a backend used by Capture.
type Source interface {
	AllProfiles(ctx context.Context) ([]models.Profile, error)
	AllProjects(ctx context.Context) ([]models.Project, error)
	AllEndorsements(ctx context.Context) ([]models.Endorsement, error)
}

// Sink is the write side of a backend used by Restore.
type Sink interface {
	ImportProfiles(ctx context.Context, profiles []models.Profile) (int, error)
	ImportProjects(ctx context.Context, projects []models.Project) (int, error)
	ImportEndorsements(ctx context.Context, endorsements []models.Endorsement) (int, error)
}

// RestoreCounts reports how many records of each kind were inserted.
type RestoreCounts struct {
	Profiles     int
	Projects     int
	Endorsements int
}

func Capture(ctx context.Context, src Source, now time.Time) (*Snapshot, error) {
	profiles, err := src.AllProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	projects, err := src.AllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("read projects: %w", err)
	}
	endorsements, err := src.AllEndorsements(ctx)
	if err != nil {
		return nil, fmt.Errorf("read endorsements: %w", err)
	}
	return &Snapshot{
		Version:      SnapshotVersion,
		ExportedAt:   now,
		Profiles:     profiles,
		Projects:     projects,
		Endorsements: endorsements,
	}, nil
}

func Restore(ctx context.Context, dst Sink, snap *Snapshot) (RestoreCounts, error) {
	var counts RestoreCounts
	if snap == nil {
		return counts, errors.New("nil snapshot")
	}

	var err error
	if counts.Profiles, err = dst.ImportProfiles(ctx, snap.Profiles); err != nil {
		return counts, fmt.Errorf("import profiles: %w", err)
	}
	if counts.Projects, err = dst.ImportProjects(ctx, snap.Projects); err != nil {
		return counts, fmt.Errorf("import projects: %w", err)
	}
	if counts.Endorsements, err = dst.ImportEndorsements(ctx, snap.Endorsements); err != nil {
		return counts, fmt.Errorf("import endorsements: %w", err)
	}
	return counts, nil
}
