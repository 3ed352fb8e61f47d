// Package movie answers movie questions from the content provider and keeps
// the user's watched list and favorites in the record store.
package movie

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/seu-repo/sms-assistant/internal/domain"
	"github.com/seu-repo/sms-assistant/internal/service/slots"
)

type Action string

const (
	ActionPopular     Action = "popular"
	ActionGenre       Action = "genre"
	ActionSearch      Action = "search"
	ActionRecommend   Action = "recommend"
	ActionAddFavorite Action = "add_favorite"
	ActionRate        Action = "rate"
)

// Intent is a parsed movie request.
type Intent struct {
	Action Action

	Genre string
	Query string // search text, or the reference title of a recommendation
	Title string // title to rate or add to favorites

	Rating    float64 // already on the 0..5 scale
	HasRating bool
}

// Generic renders the intent for structured output.
func (i Intent) Generic() domain.Intent {
	s := map[string]interface{}{}
	if i.Genre != "" {
		s["genre"] = i.Genre
	}
	if i.Query != "" {
		s["query"] = i.Query
	}
	if i.Title != "" {
		s["title"] = i.Title
	}
	if i.HasRating {
		s["rating"] = i.Rating
	}
	return domain.Intent{Domain: domain.DomainMovie, Action: string(i.Action), Slots: s}
}

var (
	ratePattern      = regexp.MustCompile(`rate\s+(?:the\s+)?(?:movie\s+)?["']?([^"']+)["']?\s+(?:as\s+)?(\d+(?:\.\d+)?)(?:\s*stars?)?(?:\s*/\s*(\d+(?:\.\d+)?))?`)
	rateLoosePattern = regexp.MustCompile(`rate\s+(?:the\s+)?(?:movie\s+)?([^0-9]+)(\d+(?:\.\d+)?)`)
	favoritePattern  = regexp.MustCompile(`add\s+(?:movie\s+)?["']?([^"']+?)["']?\s+to\s+(?:my\s+)?favou?rites`)
	searchPattern    = regexp.MustCompile(`(find|search|lookup|about).*movies?\s+(?:(?:called|named|titled)\s+)?(.+?)\s*(?:$|\?)`)
	genrePhrase      = regexp.MustCompile(`(recommend|suggest|good|watch|find).*\b(\w+)\s+(?:movies?|films?)`)
	popularPattern   = regexp.MustCompile(`(popular|top|trending|what.*(watching|good)).*movie`)
	recommendPattern = regexp.MustCompile(`(recommend|suggest).*movie`)
	shouldWatch      = regexp.MustCompile(`what\s+(?:movie|film)\s+should\s+i\s+watch`)
	likePattern      = regexp.MustCompile(`like\s+["']?([^"'?,]+?)["']?\s*(?:$|\?|,|\bbut\b)`)
	similarToPattern = regexp.MustCompile(`similar to\s+["']?([^"'?,]+?)["']?\s*(?:$|\?|,|\bbut\b)`)
)

type rule struct {
	action Action
	match  func(text string) (Intent, bool)
}

// rules are evaluated in order; the first match wins. Rating phrases come
// first, then the specific phrasings, then genre mentions, and recommendation
// only when nothing more specific was asked.
var rules = []rule{
	{ActionRate, matchRate},
	{ActionAddFavorite, matchFavorite},
	{ActionSearch, matchSearch},
	{ActionGenre, matchGenreMention},
	{ActionGenre, matchGenrePhrase},
	{ActionPopular, matchPopular},
	{ActionRecommend, matchRecommend},
}

// Parse classifies a movie message. Anything unrecognised asks for popular titles.
func Parse(text string) Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, r := range rules {
		if in, ok := r.match(lower); ok {
			in.Action = r.action
			return in
		}
	}
	return Intent{Action: ActionPopular}
}

func matchRate(text string) (Intent, bool) {
	if m := ratePattern.FindStringSubmatch(text); m != nil {
		value, _ := strconv.ParseFloat(m[2], 64)
		scale := slots.DefaultRatingScale
		if m[3] != "" {
			scale, _ = strconv.ParseFloat(m[3], 64)
		}
		title := strings.TrimSuffix(strings.TrimSpace(m[1]), " as")
		return Intent{Title: title, Rating: slots.NormalizeRating(value, scale), HasRating: true}, true
	}

	if !strings.HasPrefix(text, "rate ") {
		return Intent{}, false
	}
	if m := rateLoosePattern.FindStringSubmatch(text); m != nil {
		value, _ := strconv.ParseFloat(m[2], 64)
		return Intent{Title: strings.TrimSpace(m[1]), Rating: slots.NormalizeRating(value, slots.DefaultRatingScale), HasRating: true}, true
	}
	return Intent{}, true
}

func matchFavorite(text string) (Intent, bool) {
	m := favoritePattern.FindStringSubmatch(text)
	if m == nil {
		return Intent{}, false
	}
	return Intent{Title: strings.TrimSpace(m[1])}, true
}

func matchSearch(text string) (Intent, bool) {
	m := searchPattern.FindStringSubmatch(text)
	if m == nil {
		return Intent{}, false
	}
	return Intent{Query: strings.TrimSpace(m[2])}, true
}

func matchGenreMention(text string) (Intent, bool) {
	name, ok := slots.FindGenre(text)
	if !ok {
		return Intent{}, false
	}
	return Intent{Genre: name}, true
}

func matchGenrePhrase(text string) (Intent, bool) {
	m := genrePhrase.FindStringSubmatch(text)
	if m == nil {
		return Intent{}, false
	}
	if _, ok := domain.GenreID(m[2]); !ok {
		return Intent{}, false
	}
	return Intent{Genre: m[2]}, true
}

func matchPopular(text string) (Intent, bool) {
	return Intent{}, popularPattern.MatchString(text)
}

func matchRecommend(text string) (Intent, bool) {
	if !recommendPattern.MatchString(text) && !shouldWatch.MatchString(text) {
		return Intent{}, false
	}

	in := Intent{}
	if m := likePattern.FindStringSubmatch(text); m != nil {
		in.Query = strings.TrimSpace(m[1])
	} else if m := similarToPattern.FindStringSubmatch(text); m != nil {
		in.Query = strings.TrimSpace(m[1])
	}
	return in, true
}
