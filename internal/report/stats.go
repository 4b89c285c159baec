package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/nao1215/terrareport/internal/model"
)

// WriteStatsCSV writes one row per band and year with a header line.
func WriteStatsCSV(w io.Writer, stats []model.RegionStats) error {
	rows := stats
	if rows == nil {
		rows = []model.RegionStats{}
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write stats csv: %w", err)
	}
	return nil
}

// ReadStatsCSV parses what WriteStatsCSV produced.
func ReadStatsCSV(r io.Reader) ([]model.RegionStats, error) {
	var rows []model.RegionStats
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("read stats csv: %w", err)
	}
	return rows, nil
}
