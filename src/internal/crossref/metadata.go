package crossref

import (
	"doiproxy/src/internal/names"
)

// Metadata is the flat record served for one DOI. Every field except
// CrossRefURL may be null when the registry document lacks it.
type Metadata struct {
	FullJournal  *string  `json:"fullJournal" yaml:"fullJournal"`
	ShortJournal *string  `json:"shortJournal" yaml:"shortJournal"`
	Volume       *string  `json:"volume" yaml:"volume"`
	Issue        *string  `json:"issue" yaml:"issue"`
	Year         *string  `json:"year" yaml:"year"`
	Title        *string  `json:"title" yaml:"title"`
	FirstPage    *string  `json:"firstPage" yaml:"firstPage"`
	LastPage     *string  `json:"lastPage" yaml:"lastPage"`
	DOI          *string  `json:"doi" yaml:"doi"`
	Authors      []string `json:"authors" yaml:"authors"`
	Abstract     *string  `json:"abstract" yaml:"abstract"`
	CrossRefURL  string   `json:"crossRefURL" yaml:"crossRefURL"`
}

// journalPath locates the journal record in a unixref document.
var journalPath = []string{"doi_records", "doi_record", "crossref", "journal"}

// Extract maps a parsed unixref document to Metadata. doi is the token the
// document was requested for and queryURL the request that produced it.
// A document without a journal record yields a *NotFoundError.
func Extract(doc *Node, doi, queryURL string) (Metadata, error) {
	journal := doc.Path(journalPath...)
	if journal == nil {
		return Metadata{}, &NotFoundError{DOI: doi}
	}
	meta := journal.Child("journal_metadata")
	issue := journal.Child("journal_issue")
	article := journal.Child("journal_article")

	return Metadata{
		FullJournal:  meta.Child("full_title").Text(),
		ShortJournal: meta.Child("abbrev_title").Text(),
		Volume:       issue.Path("journal_volume", "volume").Text(),
		Issue:        issue.Child("issue").Text(),
		Year:         publicationYear(issue),
		Title:        article.Path("titles", "title").Text(),
		FirstPage:    article.Path("pages", "first_page").Text(),
		LastPage:     article.Path("pages", "last_page").Text(),
		DOI:          article.Path("doi_data", "doi").Text(),
		Authors:      authors(article.Child("contributors")),
		Abstract:     article.Path("abstract", "p").Text(),
		CrossRefURL:  queryURL,
	}, nil
}

// publicationYear reads the year of the issue. Issues often carry one
// publication_date per medium (print, online); the first one wins.
func publicationYear(issue *Node) *string {
	return issue.Lookup("publication_date").First().Child("year").Text()
}

// authors formats contributors as display strings in document order.
// Records with neither surname nor given name are skipped; duplicates are kept.
func authors(contributors *Node) []string {
	people := contributors.Lookup("person_name")
	if !people.IsSequence() {
		if s, ok := person(people.First()); ok {
			return []string{s}
		}
		return []string{}
	}
	out := make([]string, 0, len(people))
	for _, p := range people {
		if s, ok := person(p); ok {
			out = append(out, s)
		}
	}
	return out
}

func person(p *Node) (string, bool) {
	return names.Display(deref(p.Child("surname").Text()), deref(p.Child("given_name").Text()))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
