package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/katflow/internal/energy"
)

// SheetSource downloads a spreadsheet published as CSV (for Google Sheets,
// File > Share > Publish to web > CSV).
type SheetSource struct {
	URL    string
	Client *http.Client
}

func NewSheetSource(url string, timeout time.Duration) *SheetSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SheetSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (s *SheetSource) Fetch(ctx context.Context) ([]energy.Entry, error) {
	entries, _, err := s.FetchCounted(ctx)
	return entries, err
}

// FetchCounted is Fetch that also reports how many rows were skipped.
func (s *SheetSource) FetchCounted(ctx context.Context) ([]energy.Entry, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("fetch sheet: unexpected status %s", resp.Status)
	}
	return ParseCSV(resp.Body)
}

var (
	dateColumns     = []string{"date", "day", "дата"}
	scoreColumns    = []string{"score", "energy", "level", "оценка", "энергия"}
	thoughtsColumns = []string{"thoughts", "notes", "note", "comment", "мысли", "заметки"}
)

// ParseCSV reads date,score,thoughts rows. A header row is recognised by
// column names; without one the columns are taken positionally. Rows whose
// score is not an integer are skipped and counted.
func ParseCSV(r io.Reader) ([]energy.Entry, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []energy.Entry{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("unable to read CSV: %w", err)
	}

	dateIdx, scoreIdx, thoughtsIdx := 0, 1, 2
	var pending []string
	colMap := normalizeHeaders(first)
	d, okDate := findColumn(colMap, dateColumns)
	sc, okScore := findColumn(colMap, scoreColumns)
	if okDate && okScore {
		dateIdx, scoreIdx = d, sc
		thoughtsIdx, _ = findColumn(colMap, thoughtsColumns)
	} else {
		pending = first
	}

	entries := make([]energy.Entry, 0)
	skipped := 0
	for {
		record := pending
		pending = nil
		if record == nil {
			record, err = reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, 0, fmt.Errorf("unable to read CSV: %w", err)
			}
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}

		score, err := strconv.Atoi(getValue(record, scoreIdx))
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, energy.Entry{
			Date:     getValue(record, dateIdx),
			Score:    score,
			Thoughts: getValue(record, thoughtsIdx),
		})
	}
	return entries, skipped, nil
}

func normalizeHeaders(headers []string) map[string]int {
	result := make(map[string]int, len(headers))
	for idx, header := range headers {
		normalized := normalizeHeader(header)
		if _, exists := result[normalized]; !exists {
			result[normalized] = idx
		}
	}
	return result
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	return value
}

func findColumn(headers map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if idx, ok := headers[normalizeHeader(name)]; ok {
			return idx, true
		}
	}
	return -1, false
}

func getValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
