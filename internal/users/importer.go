package users

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Reconciliation strategy for the bulk import. "upsert" merges file rows
// into the store and never deletes; "replace" additionally removes every
// stored user whose sapid is absent from the file. The two are distinct
// policies and are never mixed.
type Strategy string

const (
	StrategyUpsert  Strategy = "upsert"
	StrategyReplace Strategy = "replace"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyUpsert, StrategyReplace:
		return Strategy(s), nil
	case "":
		return StrategyUpsert, nil
	default:
		return "", ErrInvalid(fmt.Sprintf("unknown import strategy %q", s))
	}
}

// Import reconciles an xlsx export of the employee directory against the
// users table. First sheet only, fixed column order (sapid, nombre,
// descripcion, grupo, puesto, supervisor), header row skipped.
func (s *Service) Import(ctx context.Context, r io.Reader, strategy Strategy) (ImportSummary, error) {
	rows, total, err := parseWorkbook(r)
	if err != nil {
		return ImportSummary{}, err
	}

	summary := ImportSummary{
		Strategy:  string(strategy),
		TotalRows: total,
		Unique:    len(rows),
	}
	if len(rows) == 0 {
		return summary, ErrInvalid("file contains no usable rows")
	}

	switch strategy {
	case StrategyUpsert:
		n, err := s.store.UpsertBatch(ctx, rows)
		if err != nil {
			return ImportSummary{}, err
		}
		summary.Upserted = n

	case StrategyReplace:
		existing, err := s.store.ListSAPIDs(ctx)
		if err != nil {
			return ImportSummary{}, err
		}

		inFile := make(map[string]struct{}, len(rows))
		for _, r := range rows {
			inFile[r.SAPID] = struct{}{}
		}
		var stale []string
		for _, id := range existing {
			if _, ok := inFile[id]; !ok {
				stale = append(stale, id)
			}
		}

		n, err := s.store.UpsertBatch(ctx, rows)
		if err != nil {
			return ImportSummary{}, err
		}
		summary.Upserted = n

		deleted, err := s.store.DeleteBySAPIDs(ctx, stale)
		if err != nil {
			return ImportSummary{}, err
		}
		summary.Deleted = deleted

	default:
		return ImportSummary{}, ErrInvalid(fmt.Sprintf("unknown import strategy %q", strategy))
	}

	return summary, nil
}

// parseWorkbook reads the first sheet and dedupes by sapid, last
// occurrence wins. Returns the deduped rows and the raw data-row count.
func parseWorkbook(r io.Reader) ([]User, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, ErrInvalid("file is not a readable xlsx workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, ErrInvalid("workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, ErrInvalid("could not read first sheet")
	}

	var (
		ordered []User
		index   = make(map[string]int)
		total   int
	)
	for i, row := range raw {
		if i == 0 {
			continue // header
		}
		sapid := strings.TrimSpace(cell(row, 0))
		if sapid == "" {
			continue
		}
		total++

		u := User{
			SAPID:       sapid,
			Nombre:      strings.TrimSpace(cell(row, 1)),
			Descripcion: strings.TrimSpace(cell(row, 2)),
			Grupo:       strings.TrimSpace(cell(row, 3)),
			Puesto:      strings.TrimSpace(cell(row, 4)),
			Supervisor:  strings.TrimSpace(cell(row, 5)),
		}

		if at, seen := index[sapid]; seen {
			ordered[at] = u
			continue
		}
		index[sapid] = len(ordered)
		ordered = append(ordered, u)
	}

	return ordered, total, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
