// Package sortname derives library-style sort keys for book titles and author
// names, so "The Hobbit" files under H and "Ursula K. Le Guin" under L.
package sortname

import (
	"strings"
)

// titleArticles are moved from the front of a title to the end.
var titleArticles = []string{"The", "A", "An"}

// generationalSuffixes stay in the sort name since they distinguish people.
var generationalSuffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "II", "III", "IV"}

// particles travel with the given name rather than starting the surname, so
// "Ludwig van Beethoven" sorts as "Beethoven, Ludwig van".
var particles = []string{"van", "von", "de", "da", "di", "du", "del", "la", "le", "el", "al"}

// ForTitle moves a leading article to the end of the title.
//
//	"The Hobbit"            -> "Hobbit, The"
//	"A Wizard of Earthsea"  -> "Wizard of Earthsea, A"
//	"Lord of the Rings"     -> unchanged
func ForTitle(title string) string {
	title = strings.TrimSpace(title)

	for _, article := range titleArticles {
		prefix := article + " "
		if len(title) <= len(prefix) {
			continue
		}
		if strings.EqualFold(title[:len(prefix)], prefix) {
			rest := strings.TrimSpace(title[len(prefix):])
			if rest != "" {
				return rest + ", " + title[:len(article)]
			}
		}
	}

	return title
}

// ForAuthor converts a display name to "Last, First" form. Generational
// suffixes are kept after the given name and particles move with it.
//
//	"Stephen King"            -> "King, Stephen"
//	"Martin Luther King Jr."  -> "King, Martin Luther, Jr."
//	"Ursula K. Le Guin"       -> "Guin, Ursula K. Le"
func ForAuthor(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return strings.TrimSpace(name)
	}

	var suffixes []string
	for len(parts) > 1 && matchesAny(parts[len(parts)-1], generationalSuffixes) {
		suffixes = append([]string{strings.TrimSuffix(parts[len(parts)-1], ",")}, suffixes...)
		parts = parts[:len(parts)-1]
	}

	surname := parts[len(parts)-1]
	given := parts[:len(parts)-1]

	// Particles immediately before the surname belong to it bibliographically
	// but sort with the given name.
	var tail []string
	for len(given) > 0 && matchesAny(given[len(given)-1], particles) {
		tail = append([]string{given[len(given)-1]}, tail...)
		given = given[:len(given)-1]
	}

	sorted := surname
	if rest := strings.Join(append(given, tail...), " "); rest != "" {
		sorted += ", " + rest
	}
	if len(suffixes) > 0 {
		sorted += ", " + strings.Join(suffixes, ", ")
	}
	return sorted
}

func matchesAny(word string, candidates []string) bool {
	word = strings.TrimSuffix(word, ",")
	for _, candidate := range candidates {
		if strings.EqualFold(word, candidate) {
			return true
		}
	}
	return false
}
