package repository_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/testutil"
)

func TestHoldingRepository_Load(t *testing.T) {
	t.Run("missing file writes the seed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "portfolio_holdings.csv")
		repo := repository.NewHoldingRepository(path)

		holdings, err := repo.Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if len(holdings) != 5 || holdings[0].Ticker != "AAPL" || holdings[4].Ticker != "NVDA" {
			t.Errorf("Expected the 5 seed holdings, got %+v", holdings)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected seed file to be written, got %v", err)
		}
	})

	t.Run("columns are located by header name", func(t *testing.T) {
		path := testutil.WriteHoldingsFile(t,
			"ticker,id,sector,shares,buy_price,current_price,purchase_date\n"+
				"msft,7,Technology,12,300,380.5,2024-04-01\n")

		holdings, err := repository.NewHoldingRepository(path).Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		want := model.Holding{ID: 7, Ticker: "MSFT", Shares: 12, BuyPrice: 300, CurrentPrice: 380.5, PurchaseDate: "2024-04-01", Sector: "Technology"}
		if len(holdings) != 1 || holdings[0] != want {
			t.Errorf("Expected %+v, got %+v", want, holdings)
		}
	})

	t.Run("header only is an empty portfolio", func(t *testing.T) {
		path := testutil.WriteHoldingsFile(t, "id,ticker,shares,buy_price,current_price,purchase_date,sector\n")

		holdings, err := repository.NewHoldingRepository(path).Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if holdings == nil || len(holdings) != 0 {
			t.Errorf("Expected empty non-nil slice, got %#v", holdings)
		}
	})

	t.Run("invalid files", func(t *testing.T) {
		tests := []struct {
			name    string
			content string
			wantErr error
			wantMsg string
		}{
			{
				name:    "missing column",
				content: "id,ticker,shares,buy_price,current_price,purchase_date\n1,AAPL,1,1,1,2024-01-01\n",
				wantErr: apperrors.ErrInvalidCSVHeaders,
				wantMsg: "sector",
			},
			{
				name:    "empty file",
				content: "",
				wantErr: apperrors.ErrInvalidCSVHeaders,
			},
			{
				name:    "non-numeric shares",
				content: "id,ticker,shares,buy_price,current_price,purchase_date,sector\n1,AAPL,ten,1,1,2024-01-01,Tech\n",
				wantErr: apperrors.ErrCorruptHoldingsFile,
				wantMsg: "line 2",
			},
			{
				name:    "NaN shares",
				content: "id,ticker,shares,buy_price,current_price,purchase_date,sector\n1,AAPL,NaN,1,1,2024-01-01,Tech\n",
				wantErr: apperrors.ErrCorruptHoldingsFile,
				wantMsg: "shares",
			},
			{
				name:    "infinite current price",
				content: "id,ticker,shares,buy_price,current_price,purchase_date,sector\n1,AAPL,1,1,Inf,2024-01-01,Tech\n",
				wantErr: apperrors.ErrCorruptHoldingsFile,
				wantMsg: "current_price",
			},
			{
				name:    "bad date",
				content: "id,ticker,shares,buy_price,current_price,purchase_date,sector\n1,AAPL,1,1,1,01/02/2024,Tech\n",
				wantErr: apperrors.ErrCorruptHoldingsFile,
				wantMsg: "purchase_date",
			},
			{
				name:    "short row",
				content: "id,ticker,shares,buy_price,current_price,purchase_date,sector\n1,AAPL,1\n",
				wantErr: apperrors.ErrCorruptHoldingsFile,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := testutil.WriteHoldingsFile(t, tt.content)

				_, err := repository.NewHoldingRepository(path).Load()
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("Expected error to mention %q, got %v", tt.wantMsg, err)
				}
			})
		}
	})
}

func TestHoldingRepository_SaveRoundTrip(t *testing.T) {
	repo := testutil.NewHoldingStore(t)
	holdings := []model.Holding{
		testutil.NewHolding().WithID(1).WithTicker("AAPL").WithShares(2.5).WithPrices(150.25, 185.2).Build(),
		testutil.NewHolding().WithID(4).WithTicker("BRK.B").WithSector("Financial, Insurance").Build(),
	}

	if err := repo.Save(holdings); err != nil {
		t.Fatalf("Save() returned unexpected error: %v", err)
	}

	loaded := testutil.LoadHoldings(t, repo)
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 holdings, got %d", len(loaded))
	}
	for i := range holdings {
		if loaded[i] != holdings[i] {
			t.Errorf("Expected %+v, got %+v", holdings[i], loaded[i])
		}
	}

	entries, err := os.ReadDir(filepath.Dir(repo.Path()))
	if err != nil {
		t.Fatalf("ReadDir() returned unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestHoldingRepository_Update(t *testing.T) {
	t.Run("error leaves the file untouched", func(t *testing.T) {
		repo := testutil.NewHoldingStore(t)
		before := testutil.LoadHoldings(t, repo)

		_, err := repo.Update(func(h []model.Holding) ([]model.Holding, error) {
			return nil, apperrors.ErrHoldingNotFound
		})
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Fatalf("Expected ErrHoldingNotFound, got %v", err)
		}

		if after := testutil.LoadHoldings(t, repo); len(after) != len(before) {
			t.Errorf("Expected %d holdings, got %d", len(before), len(after))
		}
	})

	t.Run("concurrent appends are serialized", func(t *testing.T) {
		repo := testutil.NewHoldingStore(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Update(func(h []model.Holding) ([]model.Holding, error) {
					next := testutil.NewHolding().WithID(model.NextHoldingID(h)).Build()
					return append(h, next), nil
				})
				if err != nil {
					t.Errorf("Update() returned unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		holdings := testutil.LoadHoldings(t, repo)
		if len(holdings) != 15 {
			t.Errorf("Expected 15 holdings, got %d", len(holdings))
		}
		seen := map[int]bool{}
		for _, h := range holdings {
			if seen[h.ID] {
				t.Errorf("Duplicate id %d", h.ID)
			}
			seen[h.ID] = true
		}
	})
}
