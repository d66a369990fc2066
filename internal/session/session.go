package session

import (
	"fmt"
	"log/slog"

	"github.com/leengari/larex/internal/dataset"
	"github.com/leengari/larex/internal/equation"
	"github.com/leengari/larex/internal/highlight"
	"github.com/leengari/larex/internal/importer"
	"github.com/leengari/larex/internal/storage/writer"
)

// Session owns one Dataset for the lifetime of a REPL run or a client
// connection. It is not safe for concurrent use.
type Session struct {
	ds     *dataset.Dataset
	engine *equation.Engine
	logger *slog.Logger
}

// New creates a Session with no dataset loaded
func New(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	eng := equation.New(logger)
	eng.AddObserver(equation.NewLoggingObserver(logger))
	return &Session{engine: eng, logger: logger}
}

// Dataset returns the current dataset, or nil before anything was loaded
func (s *Session) Dataset() *dataset.Dataset {
	return s.ds
}

// LoadFile replaces the current dataset with the contents of a CSV file
func (s *Session) LoadFile(path string) error {
	ds, err := importer.ImportFile(path, s.logger)
	if err != nil {
		return err
	}
	s.ds = ds
	return nil
}

// LoadCSV replaces the current dataset with parsed CSV text
func (s *Session) LoadCSV(text string) error {
	ds, err := importer.ParseCSV(text, s.logger)
	if err != nil {
		return err
	}
	s.ds = ds
	return nil
}

// Evaluate runs an equation against the current dataset and returns the
// name of the channel it wrote.
func (s *Session) Evaluate(eq string) (string, error) {
	if err := s.requireData(); err != nil {
		return "", err
	}
	out, _, err := s.engine.Compute(eq, s.ds)
	return out, err
}

// Check returns the channels eq references that are not loaded
func (s *Session) Check(eq string) []string {
	return s.engine.Check(eq, s.ds)
}

// Highlight returns the display markup for eq
func (s *Session) Highlight(eq string) string {
	return highlight.Markup(eq)
}

// Column returns a single channel
func (s *Session) Column(name string) ([]float64, error) {
	if err := s.requireData(); err != nil {
		return nil, err
	}
	col, ok := s.ds.Get(dataset.SanitizeName(name))
	if !ok {
		return nil, fmt.Errorf("channel %q not found", name)
	}
	return col, nil
}

// Drop removes a channel
func (s *Session) Drop(name string) error {
	if err := s.requireData(); err != nil {
		return err
	}
	name = dataset.SanitizeName(name)
	if !s.ds.Has(name) {
		return fmt.Errorf("channel %q not found", name)
	}
	s.ds.Delete(name)
	return nil
}

// Save writes the current dataset to a CSV file
func (s *Session) Save(path string) error {
	if err := s.requireData(); err != nil {
		return err
	}
	if err := writer.SaveCSV(path, s.ds); err != nil {
		return err
	}
	s.logger.Info("dataset saved", slog.String("path", path), slog.Int("columns", s.ds.Len()))
	return nil
}

func (s *Session) requireData() error {
	if s.ds == nil {
		return fmt.Errorf("no dataset loaded. Use 'load <file.csv>' first")
	}
	return nil
}
