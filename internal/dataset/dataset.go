// Package dataset reads and writes the CSV artifacts of the pipeline.
package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/qbstats/internal/model"
)

// WriteCSV writes rows to path with a header derived from T's csv tags.
// Missing parent directories are created. An empty slice still writes the
// header.
func WriteCSV[T any](path string, rows []T) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	enc.AutoHeader = false

	var zero T
	if err := enc.EncodeHeader(zero); err != nil {
		return eris.Wrapf(err, "dataset: encode header %s", path)
	}
	for i := range rows {
		if err := enc.Encode(rows[i]); err != nil {
			return eris.Wrapf(err, "dataset: encode row %d of %s", i, path)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "dataset: flush %s", path)
	}
	return eris.Wrapf(f.Close(), "dataset: close %s", path)
}

// WriteTable writes a plain string grid with the given header.
func WriteTable(path string, header []string, rows [][]string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrapf(err, "dataset: write header %s", path)
	}
	if err := w.WriteAll(rows); err != nil {
		return eris.Wrapf(err, "dataset: write rows %s", path)
	}
	return eris.Wrapf(f.Close(), "dataset: close %s", path)
}

// LoadRecords reads a combined dataset written by WriteCSV. Columns not
// known to the record type are ignored.
func LoadRecords(path string) ([]model.QuarterbackSeasonRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, eris.Errorf("dataset: %s is empty", path)
		}
		return nil, eris.Wrapf(err, "dataset: read header %s", path)
	}

	var out []model.QuarterbackSeasonRecord
	for {
		var rec model.QuarterbackSeasonRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: decode %s line %d", path, len(out)+2)
		}
		out = append(out, rec)
	}
	return out, nil
}

func create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "dataset: create dir %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: create %s", path)
	}
	return f, nil
}
