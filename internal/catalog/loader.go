package catalog

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/myrjola/bookinator/internal/errors"
	"github.com/myrjola/bookinator/internal/models"
	"gopkg.in/yaml.v3"
)

// Load reads the catalog files from dataDir: books.csv for the dialogue
// knowledge base and books.yaml + questions.yaml for the feature model.
//
// A missing or malformed file degrades to an empty catalog for that file.
// The engines still function with reduced quality, so load failures are
// logged and never abort startup.
func Load(dataDir string, logger *slog.Logger) *Store {
	books, err := LoadBooks(filepath.Join(dataDir, "books.csv"))
	if err != nil {
		logger.Warn("knowledge base unavailable", errors.SlogError(err))
	}
	featureBooks, err := LoadFeatureBooks(filepath.Join(dataDir, "books.yaml"))
	if err != nil {
		logger.Warn("feature catalog unavailable", errors.SlogError(err))
	}
	questions, err := LoadQuestions(filepath.Join(dataDir, "questions.yaml"))
	if err != nil {
		logger.Warn("question catalog unavailable", errors.SlogError(err))
	}
	logger.Info("catalog loaded",
		slog.Int("books", len(books)),
		slog.Int("feature_books", len(featureBooks)),
		slog.Int("questions", len(questions)))
	return New(books, featureBooks, questions)
}

// LoadBooks reads the dialogue knowledge base from a CSV file with a header
// row. The title, authors and publication_date columns are recognized, other
// columns are ignored.
func LoadBooks(path string) ([]models.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open knowledge base", slog.String("path", path))
	}
	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	// Some knowledge base rows carry free-form notes with stray quotes.
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read knowledge base", slog.String("path", path))
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	column := make(map[string]int, len(header))
	for i, name := range header {
		column[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := column[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	books := make([]models.Book, 0, len(records)-1)
	for _, row := range records[1:] {
		book := models.Book{
			Title:   field(row, "title"),
			Authors: field(row, "authors"),
			Year:    field(row, "publication_date"),
		}
		if book.Title == "" {
			continue
		}
		books = append(books, book)
	}
	return books, nil
}

// LoadFeatureBooks reads the feature-annotated books from a YAML file.
func LoadFeatureBooks(path string) ([]models.Book, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read feature catalog", slog.String("path", path))
	}
	var books []models.Book
	if err = yaml.Unmarshal(raw, &books); err != nil {
		return nil, errors.Wrap(err, "unmarshal feature catalog", slog.String("path", path))
	}
	return books, nil
}

// LoadQuestions reads the question catalog from a YAML file.
func LoadQuestions(path string) ([]models.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read question catalog", slog.String("path", path))
	}
	var questions []models.Question
	if err = yaml.Unmarshal(raw, &questions); err != nil {
		return nil, errors.Wrap(err, "unmarshal question catalog", slog.String("path", path))
	}
	return questions, nil
}
