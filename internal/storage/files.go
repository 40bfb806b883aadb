package storage

import (
	"errors"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/starford/yada/internal/models"
)

// File layout inside the data directory.
const (
	FoodsFile  = "foods.yaml"
	LogsDir    = "logs"
	TempPrefix = ".yada-tmp-"
)

// LogFile returns the path of owner's log file.
func LogFile(owner string) string {
	return path.Join(LogsDir, owner+"_logs.yaml")
}

// FoodsDocument is the on-disk form of the food catalog.
type FoodsDocument struct {
	BasicFoods     []models.AtomicFood      `yaml:"basic_foods"`
	CompositeFoods []models.CompositeRecord `yaml:"composite_foods"`
}

// LogsDocument is the on-disk form of one owner's logs.
type LogsDocument struct {
	UserName  string               `yaml:"user_name"`
	DailyLogs []models.DaySnapshot `yaml:"daily_logs"`
}

// ReadFoods loads the catalog document. A missing file is an empty document.
func ReadFoods(p Provider) (*FoodsDocument, []byte, error) {
	doc := &FoodsDocument{}
	data, err := readYAML(p, FoodsFile, doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// WriteFoods stores the catalog document and returns the bytes written.
func WriteFoods(p Provider, doc *FoodsDocument) ([]byte, error) {
	return writeYAML(p, FoodsFile, doc)
}

// ReadLogs loads owner's log document. A missing file is an empty document
// for owner.
func ReadLogs(p Provider, owner string) (*LogsDocument, error) {
	doc := &LogsDocument{UserName: owner}
	if _, err := readYAML(p, LogFile(owner), doc); err != nil {
		return nil, err
	}
	if doc.UserName != owner {
		return nil, fmt.Errorf("storage: %s belongs to %q, not %q", LogFile(owner), doc.UserName, owner)
	}
	return doc, nil
}

// WriteLogs stores owner's log document.
func WriteLogs(p Provider, doc *LogsDocument) error {
	_, err := writeYAML(p, LogFile(doc.UserName), doc)
	return err
}

func readYAML(p Provider, name string, target any) ([]byte, error) {
	data, err := p.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("storage: parse %s: %w", name, err)
	}
	return data, nil
}

func writeYAML(p Provider, name string, doc any) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("storage: encode %s: %w", name, err)
	}
	if err := p.Write(name, data); err != nil {
		return nil, err
	}
	return data, nil
}
