// Package words provides the category/word content that secret words are drawn from.
package words

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"shadowsignal/internal/domain"
)

//go:embed words.json
var embedded []byte

// ErrNoCategories is returned when the content has nothing to draw from
var ErrNoCategories = errors.New("word list has no categories")

type wordFile struct {
	Categories []domain.Category `json:"categories"`
}

// Source is a read-only set of word categories
type Source struct {
	categories []domain.Category
}

// Default returns the built-in word list
func Default() (*Source, error) {
	return Parse(embedded)
}

// Load reads a word list from path, or the built-in list when path is empty
func Load(path string) (*Source, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON word list. Every category needs at
// least two distinct words so a spy can always be given a different one.
func Parse(data []byte) (*Source, error) {
	var file wordFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing word list: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, ErrNoCategories
	}

	categories := make([]domain.Category, 0, len(file.Categories))
	for _, c := range file.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, errors.New("word list has a category without a name")
		}

		words := make([]string, 0, len(c.Words))
		for _, w := range c.Words {
			w = strings.TrimSpace(w)
			if w != "" && !slices.Contains(words, w) {
				words = append(words, w)
			}
		}
		if len(words) < 2 {
			return nil, fmt.Errorf("category %q needs at least 2 distinct words, has %d", name, len(words))
		}

		categories = append(categories, domain.Category{Name: name, Words: words})
	}

	return &Source{categories: categories}, nil
}

// Categories returns a copy of the categories
func (s *Source) Categories() []domain.Category {
	out := make([]domain.Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = domain.Category{Name: c.Name, Words: slices.Clone(c.Words)}
	}
	return out
}
