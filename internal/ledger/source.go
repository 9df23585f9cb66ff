package ledger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/txanalyser/internal/model"
)

//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks

// Source yields the raw transactions.csv stream.
type Source interface {
	Open() (io.ReadCloser, error)
	Name() string
}

// FileSource reads transactions from a file on disk.
type FileSource struct {
	Path string
}

// Open opens the file for reading.
func (s FileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// Name returns the file path.
func (s FileSource) Name() string { return s.Path }

// Recorder receives load outcomes. *metrics.Metrics implements it.
type Recorder interface {
	ObserveLoad(txns []model.Transaction, elapsed time.Duration)
	ObserveLoadError(err error)
}

// Loader decodes a Source into an in-memory transaction set.
type Loader struct {
	log      zerolog.Logger
	recorder Recorder
}

// NewLoader creates a Loader. recorder may be nil.
func NewLoader(log zerolog.Logger, recorder Recorder) *Loader {
	return &Loader{log: log, recorder: recorder}
}

// Load opens src, decodes every row and closes src on all paths. Open and read
// failures wrap ErrSource; decode failures are *FormatError.
func (l *Loader) Load(src Source) ([]model.Transaction, error) {
	start := time.Now()
	txns, err := load(src)
	if err != nil {
		if l.recorder != nil {
			l.recorder.ObserveLoadError(err)
		}
		return nil, err
	}

	elapsed := time.Since(start)
	if l.recorder != nil {
		l.recorder.ObserveLoad(txns, elapsed)
	}

	var payments, reversals int
	for _, txn := range txns {
		if txn.Kind == model.KindReversal {
			reversals++
		} else {
			payments++
		}
	}
	l.log.Debug().
		Str("source", src.Name()).
		Int("payments", payments).
		Int("reversals", reversals).
		Dur("elapsed", elapsed).
		Msg("transactions loaded")
	return txns, nil
}

// Load is a convenience wrapper for a Loader without logging or metrics.
func Load(src Source) ([]model.Transaction, error) {
	return NewLoader(zerolog.Nop(), nil).Load(src)
}

func load(src Source) ([]model.Transaction, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrSource, src.Name(), err)
	}
	defer rc.Close()

	txns, err := ReadTransactions(rc)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", src.Name(), err)
	}
	return txns, nil
}
