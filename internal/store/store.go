package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"admin-pulse/internal/config"
	"admin-pulse/internal/models"
)

// Dataset names, also used as failure keys.
const (
	DatasetUsers        = "users"
	DatasetTransactions = "transactions"
	DatasetVisitors     = "visitors"
)

// Store loads the three fixture snapshots once and holds them immutably.
// A dataset that fails to load stays empty for the life of the process and
// carries a fixed user-visible message naming the expected file; there is
// no retry path.
type Store struct {
	mu           sync.RWMutex
	logger       *slog.Logger
	users        []models.User
	transactions []models.Transaction
	visitors     []models.Visitor
	failures     map[string]string
	loadedAt     time.Time
}

func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger:   logger,
		failures: make(map[string]string),
	}
}

// Load fetches all three snapshots concurrently. Individual failures are
// terminal for that dataset only, so Load itself never returns an error.
func (s *Store) Load(ctx context.Context, cfg config.DataConfig) {
	start := time.Now()

	var g errgroup.Group

	g.Go(func() error {
		users, err := decodeUsers(ctx, cfg.UsersPath())
		if err != nil {
			s.recordFailure(DatasetUsers, cfg.UsersFile, err)
			return nil
		}
		s.mu.Lock()
		s.users = users
		s.mu.Unlock()
		return nil
	})

	g.Go(func() error {
		txs, err := decodeTransactions(ctx, cfg.TransactionsPath())
		if err != nil {
			s.recordFailure(DatasetTransactions, cfg.TransactionsFile, err)
			return nil
		}
		// Newest first is the ledger's initial presentation order.
		slices.SortStableFunc(txs, func(a, b models.Transaction) int {
			return b.TransactionDate.Compare(a.TransactionDate.Time)
		})
		s.mu.Lock()
		s.transactions = txs
		s.mu.Unlock()
		return nil
	})

	g.Go(func() error {
		visitors, err := decodeVisitors(ctx, cfg.VisitorsPath())
		if err != nil {
			s.recordFailure(DatasetVisitors, cfg.VisitorsFile, err)
			return nil
		}
		s.mu.Lock()
		s.visitors = visitors
		s.mu.Unlock()
		return nil
	})

	g.Wait()

	s.mu.Lock()
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("snapshots loaded",
		"users", len(s.Users()),
		"transactions", len(s.Transactions()),
		"visitors", len(s.Visitors()),
		"failures", len(s.failureKeys()),
		"duration", time.Since(start))
}

func (s *Store) recordFailure(dataset, file string, err error) {
	s.logger.Error("snapshot load failed", "dataset", dataset, "file", file, "error", err)
	s.mu.Lock()
	s.failures[dataset] = fmt.Sprintf("Error loading %s data. Please ensure %s is in the data directory.", dataset, file)
	s.mu.Unlock()
}

func decodeUsers(ctx context.Context, path string) ([]models.User, error) {
	var doc struct {
		Users []models.User `json:"users"`
	}
	if err := decodeSnapshot(ctx, path, &doc); err != nil {
		return nil, err
	}
	return doc.Users, nil
}

func decodeTransactions(ctx context.Context, path string) ([]models.Transaction, error) {
	var doc struct {
		Transactions []models.Transaction `json:"transactions"`
	}
	if err := decodeSnapshot(ctx, path, &doc); err != nil {
		return nil, err
	}
	return doc.Transactions, nil
}

func decodeVisitors(ctx context.Context, path string) ([]models.Visitor, error) {
	var doc struct {
		Visitors []models.Visitor `json:"visitors"`
	}
	if err := decodeSnapshot(ctx, path, &doc); err != nil {
		return nil, err
	}
	return doc.Visitors, nil
}

func decodeSnapshot(ctx context.Context, path string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users
}

func (s *Store) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions
}

func (s *Store) Visitors() []models.Visitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visitors
}

// Failure returns the user-visible load error for a dataset, or "" when the
// dataset loaded.
func (s *Store) Failure(dataset string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures[dataset]
}

func (s *Store) failureKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.failures))
	for k := range s.failures {
		keys = append(keys, k)
	}
	return keys
}

// Stats backs the admin endpoint.
func (s *Store) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"users":        len(s.users),
		"transactions": len(s.transactions),
		"visitors":     len(s.visitors),
		"failures":     s.failures,
		"loaded_at":    s.loadedAt,
	}
}
