package storage

import (
	"coursetrack/internal/models"
	"coursetrack/internal/providers"
	"coursetrack/internal/storage/interfaces"
	"coursetrack/internal/structures"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

const documentIndent = "    "

// FileManager persists the course document as one indented JSON file. Every save
// rewrites the whole file through a temp file and rename.
type FileManager struct {
	filePath string
	logger   providers.Logger
}

func NewFileManager(conf *structures.Config, logger providers.Logger) *FileManager {
	return &FileManager{
		filePath: conf.Persistence.FilePath,
		logger:   logger,
	}
}

// NewPersister exposes the FileManager bound to the configured data file.
func NewPersister(fm *FileManager) interfaces.PersisterInterface {
	return fm
}

func (f *FileManager) Load() (*models.Document, error) {
	return f.LoadFromFile(f.filePath)
}

func (f *FileManager) Save(doc *models.Document) error {
	return f.SaveToFile(f.filePath, doc)
}

func (f *FileManager) SaveToFile(fileName string, doc *models.Document) error {
	jsonData, err := json.MarshalIndent(doc, "", documentIndent)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fileName); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(jsonData)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// LoadFromFile returns an empty document when the file does not exist and
// ErrMalformedStorage when it cannot be decoded.
func (f *FileManager) LoadFromFile(fileName string) (*models.Document, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Infof(providers.TypeStore, "No course file at %s, starting empty", fileName)
			return models.NewDocument(), nil
		}
		return nil, err
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrMalformedStorage, fileName, err)
	}
	doc.Normalize()
	return &doc, nil
}
