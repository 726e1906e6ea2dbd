// Package loader reads sample collections from JSON, JSONL, and CSV files.
// Every loaded sample is a model.Sample keyed by field name; samples keep
// their input order, which is the identity rules and reports refer to.
package loader

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knowlyr/datacheck/internal/model"
	"gopkg.in/yaml.v3"
)

// Extensions recognized by Load and CollectFiles
var supportedExtensions = map[string]bool{
	".json":  true,
	".jsonl": true,
	".csv":   true,
}

// Supported reports whether the file extension is a loadable format
func Supported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Load reads a sample collection from a file, dispatching on extension.
// The returned schema is non-nil only for JSON files that embed one.
func Load(path string) ([]model.Sample, *model.Schema, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".jsonl":
		samples, err := loadJSONL(path)
		return samples, nil, err
	case ".csv":
		samples, err := loadCSV(path)
		return samples, nil, err
	}
	return nil, nil, fmt.Errorf("unsupported file format %q (expected .json, .jsonl, or .csv)", filepath.Ext(path))
}

// jsonDocument is the object form of a JSON collection file, with an
// optional embedded schema
type jsonDocument struct {
	Samples []model.Sample `json:"samples"`
	Data    []model.Sample `json:"data"`
	Schema  *model.Schema  `json:"schema"`
}

// loadJSON accepts either a top-level array of samples or an object holding
// the samples under "samples" (or "data") with an optional "schema".
func loadJSON(path string) ([]model.Sample, *model.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	trimmed := strings.TrimLeftFunc(string(raw), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if strings.HasPrefix(trimmed, "[") {
		var samples []model.Sample
		if err := json.Unmarshal(raw, &samples); err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return samples, nil, nil
	}

	var doc jsonDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	samples := doc.Samples
	if samples == nil {
		samples = doc.Data
	}
	if samples == nil {
		return nil, nil, fmt.Errorf("parse %s: no samples array found", path)
	}
	return samples, doc.Schema, nil
}

// loadJSONL reads one JSON object per line. Blank lines are skipped; a
// malformed line is a fatal error identified by its line number.
func loadJSONL(path string) ([]model.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	var samples []model.Sample
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var sample model.Sample
		if err := json.Unmarshal([]byte(line), &sample); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", path, lineNo, err)
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return samples, nil
}

// loadCSV reads a header row plus records. Every value stays a string; rules
// and anomaly detection coerce numeric columns themselves.
func loadCSV(path string) ([]model.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parse %s: missing header row: %w", path, err)
	}

	var samples []model.Sample
	recordNo := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s record %d: %w", path, recordNo, err)
		}
		recordNo++
		sample := make(model.Sample, len(header))
		for i, field := range header {
			if i < len(record) {
				sample[field] = record[i]
			}
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// CollectFiles walks a directory tree and returns every loadable file,
// sorted by path
func CollectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// LoadSchemaFile reads an explicit schema from a JSON or YAML file
func LoadSchemaFile(path string) (*model.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	var schema model.Schema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(raw, &schema); err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(raw, &schema); err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", path, err)
		}
	}
	return &schema, nil
}
