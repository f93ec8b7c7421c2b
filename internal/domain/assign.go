package domain

import (
	"math/rand/v2"
	"sync"
)

// Category is a named group of related words
type Category struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

// WordPick is the word drawn for one game, plus a different word from the
// same category (or the same word when the category has no other)
type WordPick struct {
	Category  string
	Word      string
	Alternate string
}

// Assignment describes the roles handed out for one game
type Assignment struct {
	Mode      Mode
	Pick      WordPick
	DeviantID string
}

// Assignor hands out roles and words. It is safe for concurrent use.
type Assignor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssignor creates an assignor; a nil rng gets a randomly seeded one
func NewAssignor(rng *rand.Rand) *Assignor {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Assignor{rng: rng}
}

// PickWords draws a category uniformly, then a word uniformly within it
func (a *Assignor) PickWords(categories []Category) WordPick {
	if len(categories) == 0 {
		panic("domain: no word categories to pick from")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	category := categories[a.rng.IntN(len(categories))]
	if len(category.Words) == 0 {
		panic("domain: empty word category " + category.Name)
	}
	word := category.Words[a.rng.IntN(len(category.Words))]

	alternates := make([]string, 0, len(category.Words))
	for _, w := range category.Words {
		if w != word {
			alternates = append(alternates, w)
		}
	}

	alternate := word
	if len(alternates) > 0 {
		alternate = alternates[a.rng.IntN(len(alternates))]
	}

	return WordPick{
		Category:  category.Name,
		Word:      word,
		Alternate: alternate,
	}
}

// Assign gives exactly one participant, chosen uniformly, the deviant role
// and everyone else the majority role, along with their private words.
func (a *Assignor) Assign(participants []*Participant, mode Mode, categories []Category) Assignment {
	if len(participants) == 0 {
		panic("domain: cannot assign roles without participants")
	}
	if !mode.IsValid() {
		panic("domain: unknown mode " + mode.String())
	}

	pick := a.PickWords(categories)

	a.mu.Lock()
	deviant := participants[a.rng.IntN(len(participants))]
	a.mu.Unlock()

	deviantWord := mode.DeviantWord(pick)
	for _, p := range participants {
		p.IsAlive = true
		p.resetVote()
		if p == deviant {
			p.Role = mode.DeviantRole()
			p.Word = deviantWord
		} else {
			p.Role = mode.MajorityRole()
			p.Word = pick.Word
		}
	}

	return Assignment{
		Mode:      mode,
		Pick:      pick,
		DeviantID: deviant.ID,
	}
}
