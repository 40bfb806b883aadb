package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("YADA_TEST_NAME", "alice")
	s := sample{Port: 8080}
	if err := Parse([]byte("name: ${YADA_TEST_NAME}\n"), &s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "alice" || s.Port != 8080 {
		t.Errorf("got %+v", s)
	}
}

func TestParse_Validates(t *testing.T) {
	s := sample{}
	err := Parse([]byte("port: 0\n"), &s)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s := sample{Port: 1}
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()

	s := sample{Port: 1}
	if err := LoadOptional(filepath.Join(dir, "nope.yaml"), &s); err != nil {
		t.Fatalf("missing file: %v", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: 9090\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadOptional(path, &s); err != nil || s.Port != 9090 {
		t.Errorf("got %+v, %v", s, err)
	}
}
