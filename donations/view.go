// Package donations turns raw sheet rows into header-keyed records and
// provides the classification, search, sort, and summary operations the
// admin dashboard is built on. Everything is recomputed per query; there is
// no cache to invalidate.
package donations

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Record is one row keyed by header name. Downstream code never touches
// positional indexes; the zip in Materialize is the only place positions
// exist.
type Record map[string]string

// Dataset is the full materialized view of one table.
type Dataset struct {
	Headers []string `json:"headers"`
	Records []Record `json:"records"`
}

// Source is the slice of the tabular store the engine needs.
type Source interface {
	ReadAll(ctx context.Context, table string) ([]string, [][]string, error)
}

type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// List reads the table whole and materializes it. On read failure the caller
// gets the error and no rows, never a partial view.
func (e *Engine) List(ctx context.Context, table string) (*Dataset, error) {
	headers, rows, err := e.src.ReadAll(ctx, table)
	if err != nil {
		return nil, err
	}
	return &Dataset{Headers: headers, Records: Materialize(headers, rows)}, nil
}

// Materialize zips each data row against the header row by position. Rows
// shorter than the header get empty strings for the missing trailing
// columns; values past the last header are dropped.
func Materialize(headers []string, rows [][]string) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

// Auction type classifications.
const (
	ClassLive        = "live"
	ClassSilent      = "silent"
	ClassBoth        = "both"
	ClassUnspecified = "unspecified"
)

// Classify tags a record by case-insensitive substring match on its
// "Auction Type" value. A value like "Live/Silent" matches both literals and
// classifies as both.
func Classify(rec Record) string {
	value := rec["Auction Type"]
	if value == "" {
		value = rec["auctionType"]
	}
	value = strings.ToLower(value)

	live := strings.Contains(value, "live")
	silent := strings.Contains(value, "silent")
	switch {
	case live && silent:
		return ClassBoth
	case live:
		return ClassLive
	case silent:
		return ClassSilent
	default:
		return ClassUnspecified
	}
}

// FilterByAuction keeps records matching the filter ("all", "live",
// "silent"). live and silent both admit records classified as both.
func FilterByAuction(records []Record, filter string) []Record {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == "all" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		class := Classify(rec)
		if class == filter || class == ClassBoth {
			out = append(out, rec)
		}
	}
	return out
}

// searchFields is the fixed projection queries are matched against.
var searchFields = []string{
	"Name",
	"Email",
	"Phone",
	"Item Description",
	"Estimated Value",
	"Special Instructions",
	"Auction Type",
	"Submission ID",
}

// Search keeps records where any projected field contains the query,
// case-insensitively. A blank query keeps everything. Relative order is
// preserved.
func Search(records []Record, query string) []Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		for _, field := range searchFields {
			v := rec[field]
			if v != "" && strings.Contains(strings.ToLower(v), query) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// SortState tracks the active sort column and direction. Selecting the same
// field again flips direction; a new field resets to ascending.
type SortState struct {
	Field     string
	Ascending bool
}

func (s *SortState) Select(field string) {
	if s.Field == field {
		s.Ascending = !s.Ascending
		return
	}
	s.Field = field
	s.Ascending = true
}

// SortRecords returns a stably sorted copy ordered by the named field.
// Comparison is locale-aware and numeric-aware, so "10" sorts after "9".
// Missing values compare as empty strings and sort first ascending.
func SortRecords(records []Record, field string, ascending bool) []Record {
	out := make([]Record, len(records))
	copy(out, records)

	coll := collate.New(language.English, collate.Numeric, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := coll.CompareString(out[i][field], out[j][field])
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})
	return out
}

// Summary counts over the unfiltered dataset. Live and Silent each include
// records classified as both; Both is also reported on its own, so
// Total == (Live-Both) + (Silent-Both) + Both + Unspecified.
type Summary struct {
	Total       int `json:"total"`
	Live        int `json:"live"`
	Silent      int `json:"silent"`
	Both        int `json:"both"`
	Unspecified int `json:"unspecified"`
}

func Summarize(records []Record) Summary {
	s := Summary{Total: len(records)}
	for _, rec := range records {
		switch Classify(rec) {
		case ClassLive:
			s.Live++
		case ClassSilent:
			s.Silent++
		case ClassBoth:
			s.Live++
			s.Silent++
			s.Both++
		default:
			s.Unspecified++
		}
	}
	return s
}
