package grid

import (
	"fmt"
	"os"

	"wind_assess/internal/ingest"
	"wind_assess/internal/model"
)

// Load reads one or more gridded wind CSV files and merges them into a
// single dataset. Each file must cover the same spatial grid; files
// typically hold contiguous multi-year time chunks.
func Load(paths []string) (*Dataset, error) {
	if len(paths) == 0 {
		return nil, model.ErrEmptyInput
	}

	parser := &ingest.ERA5Parser{}
	datasets := make([]*Dataset, 0, len(paths))

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}

		records, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		d, err := FromRecords(records)
		if err != nil {
			return nil, fmt.Errorf("building grid from %s: %w", path, err)
		}
		datasets = append(datasets, d)
	}

	return Merge(datasets...)
}
