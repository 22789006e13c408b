package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/potmover/potmover/internal/model"
)

// FileName is the ledger file inside the data directory.
const FileName = "ledger.csv"

// FileStore keeps the ledger as <dataDir>/ledger.csv.
type FileStore struct {
	dataDir string
}

// NewFileStore creates a FileStore rooted at dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dataDir: dataDir}
}

// Path returns the ledger file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dataDir, FileName)
}

// Load reads and validates the ledger. A missing file is an empty ledger.
func (s *FileStore) Load() ([]model.Transaction, error) {
	f, err := os.Open(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	txs, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.Path(), err)
	}

	if verrs := Validate(txs); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return nil, fmt.Errorf("validating ledger %s: %s", s.Path(), strings.Join(msgs, "; "))
	}
	return txs, nil
}

// SaveTransactions rewrites the whole ledger file.
func (s *FileStore) SaveTransactions(txs []model.Transaction) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp := s.Path() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating ledger file: %w", err)
	}

	if err := WriteTransactions(f, txs); err != nil {
		f.Close()
		return fmt.Errorf("writing ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing ledger: %w", err)
	}

	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}
