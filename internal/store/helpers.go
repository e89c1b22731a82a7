package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		fault      sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Source,
		&run.Band,
		&run.Policy,
		&run.Rows,
		&run.Subsets,
		&run.SeriesMismatches,
		&fault,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	run.Fault = fault.String
	if created, err := parseTimeString(createdRaw); err == nil {
		run.CreatedAt = created
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
