package ops

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"nucdeck/internal/config"
	"nucdeck/internal/db"
	"nucdeck/internal/errors"
	"nucdeck/internal/material"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path           string // optional, default: ~/.nucdeck/exports/materials-<timestamp>.jsonl
	IncludeDeleted bool
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the first line of a JSONL export file.
type ExportHeader struct {
	NucdeckExport bool   `json:"_nucdeck_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
}

// Export writes all materials to a JSONL file: one header line, then one
// record per line in creation order.
func Export(database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = defaultExportPath(now)
		if err != nil {
			return nil, err
		}
	}

	// Default paths are validated too: the timestamped filename is generated
	// here, but the directory may still have been tampered with.
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Write to a temp file, then atomically rename into place so a failed
	// export never clobbers an existing file.
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	header := ExportHeader{
		NucdeckExport: true,
		SchemaVersion: "1.0",
		ExportedAt:    exportedAt,
	}
	if err := writeJSONLine(file, header); err != nil {
		return nil, err
	}

	records, err := db.ListAll(database, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		if err := writeJSONLine(file, material.RecordToExportRecord(r)); err != nil {
			return nil, err
		}
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before atomic replace (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink destination.
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	// On Windows, os.Rename fails if the destination exists. Failing safely
	// preserves the existing file instead of a non-atomic delete+rename.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Count:      len(records),
		ExportedAt: exportedAt,
	}, nil
}

// writeJSONLine marshals v and writes it followed by a newline.
func writeJSONLine(file *os.File, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(err)
	}
	if _, err := file.Write(append(data, '\n')); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// defaultExportPath generates the default export path.
// Format: ~/.nucdeck/exports/materials-<timestamp>.jsonl
func defaultExportPath(now time.Time) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
	}

	filename := fmt.Sprintf("materials-%s.jsonl", now.Format("2006-01-02T150405"))
	return filepath.Join(homeDir, ".nucdeck", "exports", filename), nil
}
