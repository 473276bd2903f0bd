package eval

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/akolanti/ragops/internal/domain/evalModel"
)

var (
	ErrMalformedDataset = errors.New("malformed eval dataset")
	ErrDatasetNotFound  = errors.New("eval dataset not found")
)

// wireDataset mirrors the on-disk shape; pointers tell a missing key from an empty one.
type wireDataset struct {
	Name        *string               `json:"name"`
	Description string                `json:"description,omitempty"`
	Cases       *[]evalModel.EvalCase `json:"cases"`
}

// ParseDataset decodes a dataset. Keys it does not know, such as a version or
// per-case tags, are ignored. A missing name, a missing cases key or a case
// without case_id/question rejects the whole dataset.
func ParseDataset(r io.Reader) (evalModel.EvalDataset, error) {
	dec := json.NewDecoder(r)

	var wire wireDataset
	if err := dec.Decode(&wire); err != nil {
		return evalModel.EvalDataset{}, fmt.Errorf("%w: %v", ErrMalformedDataset, err)
	}
	if dec.More() {
		return evalModel.EvalDataset{}, fmt.Errorf("%w: trailing data after dataset object", ErrMalformedDataset)
	}
	if wire.Name == nil || strings.TrimSpace(*wire.Name) == "" {
		return evalModel.EvalDataset{}, fmt.Errorf("%w: missing name", ErrMalformedDataset)
	}
	if wire.Cases == nil {
		return evalModel.EvalDataset{}, fmt.Errorf("%w: missing cases", ErrMalformedDataset)
	}
	for i, c := range *wire.Cases {
		if strings.TrimSpace(c.CaseId) == "" {
			return evalModel.EvalDataset{}, fmt.Errorf("%w: case %d has no case_id", ErrMalformedDataset, i)
		}
		if strings.TrimSpace(c.Question) == "" {
			return evalModel.EvalDataset{}, fmt.Errorf("%w: case %s has no question", ErrMalformedDataset, c.CaseId)
		}
	}

	return evalModel.EvalDataset{
		Name:        *wire.Name,
		Description: wire.Description,
		Cases:       *wire.Cases,
	}, nil
}

// Datasets reads <name>.json files from a directory.
type Datasets struct {
	dir string
}

func NewDatasets(dir string) *Datasets {
	return &Datasets{dir: dir}
}

func (d *Datasets) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: invalid dataset name %q", ErrDatasetNotFound, name)
	}
	return filepath.Join(d.dir, name+".json"), nil
}

func (d *Datasets) Load(name string) (evalModel.EvalDataset, error) {
	path, err := d.path(name)
	if err != nil {
		return evalModel.EvalDataset{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return evalModel.EvalDataset{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	if err != nil {
		return evalModel.EvalDataset{}, fmt.Errorf("reading dataset %s: %w", name, err)
	}
	return ParseDataset(bytes.NewReader(data))
}

// List describes every readable dataset in the directory, sorted by name.
// Malformed files are skipped so one bad file does not hide the others.
func (d *Datasets) List() ([]evalModel.DatasetInfo, error) {
	entries, err := os.ReadDir(d.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []evalModel.DatasetInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}

	infos := []evalModel.DatasetInfo{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		dataset, err := d.Load(name)
		if err != nil {
			logger.Warn("Skipping unreadable dataset", "file", entry.Name(), "error", err)
			continue
		}
		infos = append(infos, evalModel.DatasetInfo{
			Name:        name,
			Filename:    entry.Name(),
			Description: dataset.Description,
			CaseCount:   len(dataset.Cases),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
