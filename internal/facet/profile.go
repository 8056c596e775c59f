package facet

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"vapeshop-be/internal/product"

	"gopkg.in/yaml.v3"
)

const (
	ProfileFruity  = "Frutados"
	ProfileMint    = "Mentolados"
	ProfileIce     = "Gelados/Ice"
	ProfileSweet   = "Doces/Sobremesas"
	ProfileTobacco = "Tabaco"
	ProfileDrinks  = "Bebidas"
	ProfileOther   = "Outros"
)

// abbreviations expands shorthand flavor tokens before keyword matching.
// Only whole tokens listed here are expanded.
var abbreviations = map[string]string{
	"straw":  "strawberry",
	"razz":   "raspberry",
	"wmelon": "watermelon",
	"choc":   "chocolate",
	"tabac":  "tabaco",
}

type Profile struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

var defaultProfiles = []Profile{
	{Name: ProfileFruity, Keywords: []string{
		"morango", "uva", "manga", "melancia", "melão", "maçã", "banana", "abacaxi",
		"pêssego", "maracujá", "limão", "laranja", "kiwi", "cereja", "framboesa",
		"amora", "mirtilo", "goiaba", "lichia", "acerola", "caju", "tangerina",
		"strawberry", "grape", "mango", "watermelon", "melon", "apple", "peach",
		"pineapple", "passion", "lemon", "lime", "orange", "cherry", "raspberry",
		"blueberry", "blackberry", "lychee", "guava", "tropical", "fruta", "fruit",
	}},
	{Name: ProfileMint, Keywords: []string{
		"menta", "mentol", "hortelã", "mint", "menthol", "spearmint", "peppermint",
	}},
	{Name: ProfileIce, Keywords: []string{
		"ice", "gelado", "gelo", "cool", "frozen", "freeze", "chill",
	}},
	{Name: ProfileSweet, Keywords: []string{
		"baunilha", "chocolate", "caramelo", "creme", "doce", "bolo", "melado",
		"algodão", "chiclete", "vanilla", "caramel", "cream", "custard", "cookie",
		"cake", "honey", "candy", "gum", "donut", "pudding", "cheesecake",
	}},
	{Name: ProfileTobacco, Keywords: []string{
		"tabaco", "tobacco", "cigar", "charuto", "havana", "virginia",
	}},
	{Name: ProfileDrinks, Keywords: []string{
		"café", "coffee", "coca", "refri", "energético", "energy", "chá", "tea",
		"soda", "drink", "mojito", "lemonade", "limonada", "whisky",
	}},
}

// Classifier maps raw flavor strings to profile buckets by keyword.
// Buckets are tried in table order; the order decides enumeration only,
// membership does not depend on it.
type Classifier struct {
	profiles []Profile
	fallback string
	rank     map[string]int
	names    []string
}

func NewClassifier(profiles []Profile, fallback string) (*Classifier, error) {
	if fallback == "" {
		fallback = ProfileOther
	}
	c := &Classifier{fallback: fallback, rank: make(map[string]int)}

	for _, p := range profiles {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: profile without name", ErrInvalidProfileTable)
		}
		if _, dup := c.rank[name]; dup {
			return nil, fmt.Errorf("%w: duplicate profile %q", ErrInvalidProfileTable, name)
		}
		kws := make([]string, 0, len(p.Keywords))
		for _, kw := range p.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		c.rank[name] = len(c.profiles)
		c.profiles = append(c.profiles, Profile{Name: name, Keywords: kws})
	}

	// heuristic and fallback buckets sort after the table
	for _, name := range []string{ProfileIce, ProfileFruity, fallback} {
		if _, ok := c.rank[name]; !ok {
			c.rank[name] = len(c.rank)
		}
	}

	c.names = make([]string, len(c.rank))
	for name, i := range c.rank {
		c.names[i] = name
	}
	return c, nil
}

func DefaultClassifier() *Classifier {
	c, err := NewClassifier(defaultProfiles, ProfileOther)
	if err != nil {
		panic(err)
	}
	return c
}

type profileFile struct {
	Fallback string    `yaml:"fallback"`
	Profiles []Profile `yaml:"profiles"`
}

// LoadClassifier reads a profile table from YAML:
//
//	fallback: Outros
//	profiles:
//	  - name: Frutados
//	    keywords: [morango, uva]
func LoadClassifier(path string) (*Classifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile table: %w", err)
	}
	var f profileFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfileTable, err)
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("%w: no profiles in %s", ErrInvalidProfileTable, path)
	}
	return NewClassifier(f.Profiles, f.Fallback)
}

// Names lists every bucket Classify can return, in enumeration order.
func (c *Classifier) Names() []string {
	return append([]string(nil), c.names...)
}

func (c *Classifier) Fallback() string {
	return c.fallback
}

// Classify returns the profiles of one flavor string. The result is never
// empty.
func (c *Classifier) Classify(flavor string) []string {
	lower := strings.ToLower(strings.TrimSpace(flavor))
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '-'
	})
	for i, tok := range tokens {
		if full, ok := abbreviations[tok]; ok {
			tokens[i] = full
		}
	}

	var out []string
	for _, p := range c.profiles {
		if matchesKeywords(lower, tokens, p.Keywords) {
			out = append(out, p.Name)
		}
	}
	if len(out) > 0 {
		return out
	}

	if strings.Contains(lower, "ice") {
		return []string{ProfileIce}
	}
	if strings.Contains(lower, "fruit") || strings.Contains(lower, "berry") {
		return []string{ProfileFruity}
	}
	return []string{c.fallback}
}

func matchesKeywords(flavor string, tokens, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(flavor, kw) {
			return true
		}
		// a keyword matches a token it equals or prefixes
		for _, tok := range tokens {
			if tok == kw || strings.HasPrefix(tok, kw) {
				return true
			}
		}
	}
	return false
}

// ProfilesOf is the union of the profiles of every flavor of p, in
// enumeration order. A product without flavors has no profile.
func (c *Classifier) ProfilesOf(p product.Product) []string {
	if len(p.Flavors) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, 2)
	for _, f := range p.Flavors {
		for _, name := range c.Classify(f) {
			seen[name] = struct{}{}
		}
	}
	return c.ordered(seen)
}

func (c *Classifier) ordered(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for _, name := range c.names {
		if _, ok := set[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
