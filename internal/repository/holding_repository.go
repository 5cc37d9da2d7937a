package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

// holdingColumns is the header of the holdings file, in write order.
var holdingColumns = []string{"id", "ticker", "shares", "buy_price", "current_price", "purchase_date", "sector"}

// HoldingRepository persists the portfolio as a CSV file.
// The file is the single source of truth: every read loads it fresh, and every
// write replaces it atomically.
type HoldingRepository struct {
	path string
	mu   sync.Mutex
}

// NewHoldingRepository creates a HoldingRepository for the file at path.
func NewHoldingRepository(path string) *HoldingRepository {
	return &HoldingRepository{path: path}
}

// Path returns the location of the holdings file.
func (r *HoldingRepository) Path() string {
	return r.path
}

// Load reads all holdings. A missing file is seeded with the default portfolio.
func (r *HoldingRepository) Load() ([]model.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Save replaces the holdings file with holdings.
func (r *HoldingRepository) Save(holdings []model.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(holdings)
}

// Update loads the holdings, passes them to fn and saves the result, all under
// the repository lock. Nothing is written when fn returns an error.
func (r *HoldingRepository) Update(fn func([]model.Holding) ([]model.Holding, error)) ([]model.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	holdings, err := r.load()
	if err != nil {
		return nil, err
	}

	updated, err := fn(holdings)
	if err != nil {
		return nil, err
	}

	if err := r.save(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *HoldingRepository) load() ([]model.Holding, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		seed := model.SeedHoldings()
		if err := r.save(seed); err != nil {
			return nil, fmt.Errorf("failed to seed holdings file: %w", err)
		}
		return seed, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open holdings file: %w", err)
	}
	defer f.Close()

	return parseHoldings(f)
}

func (r *HoldingRepository) save(holdings []model.Holding) error {
	rows := make([][]string, 0, len(holdings)+1)
	rows = append(rows, holdingColumns)
	for _, h := range holdings {
		rows = append(rows, []string{
			strconv.Itoa(h.ID),
			h.Ticker,
			formatFloat(h.Shares),
			formatFloat(h.BuyPrice),
			formatFloat(h.CurrentPrice),
			h.PurchaseDate,
			h.Sector,
		})
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create holdings directory: %w", err)
	}
	if err := atomicWriteCSV(r.path, rows); err != nil {
		return fmt.Errorf("failed to write holdings file: %w", err)
	}
	return nil
}

// parseHoldings decodes a holdings file. Columns are located by header name.
func parseHoldings(src io.Reader) ([]model.Holding, error) {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", apperrors.ErrInvalidCSVHeaders)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrCorruptHoldingsFile, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}
	var missing []string
	for _, col := range holdingColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", apperrors.ErrInvalidCSVHeaders, strings.Join(missing, ", "))
	}

	holdings := []model.Holding{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrCorruptHoldingsFile, err)
		}

		h, err := parseHolding(record, index)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", apperrors.ErrCorruptHoldingsFile, line, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

func parseHolding(record []string, index map[string]int) (model.Holding, error) {
	field := func(name string) string {
		return strings.TrimSpace(record[index[name]])
	}

	id, err := strconv.Atoi(field("id"))
	if err != nil {
		return model.Holding{}, fmt.Errorf("invalid id %q", field("id"))
	}

	var values [3]float64
	for i, name := range []string{"shares", "buy_price", "current_price"} {
		values[i], err = strconv.ParseFloat(field(name), 64)
		if err != nil || math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			return model.Holding{}, fmt.Errorf("invalid %s %q", name, field(name))
		}
	}

	if _, err := model.ParseDate(field("purchase_date")); err != nil {
		return model.Holding{}, fmt.Errorf("invalid purchase_date %q", field("purchase_date"))
	}

	ticker := model.NormalizeTicker(field("ticker"))
	if ticker == "" {
		return model.Holding{}, errors.New("empty ticker")
	}

	return model.Holding{
		ID:           id,
		Ticker:       ticker,
		Shares:       values[0],
		BuyPrice:     values[1],
		CurrentPrice: values[2],
		PurchaseDate: field("purchase_date"),
		Sector:       field("sector"),
	}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// atomicWriteCSV writes rows to a temp file next to path and renames it into place.
func atomicWriteCSV(path string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".holdings-*.csv")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
