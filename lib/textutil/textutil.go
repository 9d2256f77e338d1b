package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// separators commonly used by search result titles to tack marketing
// copy onto the store name ("Cimento CP II 50kg | Loja X - Frete Grátis")
var titleSeparators = []string{" - ", " | ", " – ", " — ", " :: ", " • "}

var marketingRegex = regexp.MustCompile(`(?i)\b(frete\s+gr[aá]tis|promo[cç][aã]o|oferta|desconto|melhor\s+pre[cç]o|compre\s+(agora|j[aá])|free\s+shipping|best\s+price|sale|deal|buy\s+now|official\s+site|site\s+oficial)\b`)

// CleanTitle reduces a search result title to the part most likely
// to be the store name: the last separator-delimited segment that
// survives marketing-boilerplate removal.
func CleanTitle(title string) string {
	title = CollapseSpaces(title)

	segments := []string{title}
	for _, sep := range titleSeparators {
		var next []string
		for _, seg := range segments {
			next = append(next, strings.Split(seg, sep)...)
		}
		segments = next
	}

	var candidate string
	for i := len(segments) - 1; i >= 0; i-- {
		seg := marketingRegex.ReplaceAllString(segments[i], "")
		seg = strings.Trim(seg, " \t\n.,:;…")
		if seg != "" {
			candidate = seg
			break
		}
	}
	if candidate == "" {
		return title
	}
	return candidate
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CollapseSpaces strips non-printable runes and collapses runs of
// whitespace into a single space.
func CollapseSpaces(s string) string {
	out := strings.Builder{}
	for _, c := range s {
		if unicode.IsSpace(c) {
			out.WriteRune(' ')
		} else if unicode.IsPrint(c) {
			out.WriteRune(c)
		}
	}
	collapsed := innerWhitespace.ReplaceAllString(out.String(), " ")
	return strings.Trim(collapsed, " \t\n")
}
