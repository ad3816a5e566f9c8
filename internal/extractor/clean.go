package extractor

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	pageMarkerRe = regexp.MustCompile(`\[Page \d+\]\s*`)
	pageOfRe     = regexp.MustCompile(`(?i)Page\s*\d+\s*of\s*\d+`)
	spacesRe     = regexp.MustCompile(`[ \t]+`)
	blankRunRe   = regexp.MustCompile(`\n\s*\n\s*\n+`)
	digitsOnlyRe = regexp.MustCompile(`^\d+$`)
)

// charReplacer normalizes characters that PDF extraction mangles.
var charReplacer = strings.NewReplacer(
	"\u2019", "'",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2013", "-",
	"\u2014", "--",
	"\u00a0", " ",
	"\f", "",
)

// Clean normalizes extracted text and drops lines that are likely
// headers, footers or page numbers rather than content.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = pageMarkerRe.ReplaceAllString(text, "")
	text = pageOfRe.ReplaceAllString(text, "")
	text = charReplacer.Replace(text)
	text = spacesRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 5 {
			continue
		}
		if digitsOnlyRe.MatchString(line) {
			continue
		}
		// Lines with very few letters are usually decoration.
		if len(line) > 10 && alphaRatio(line) < 0.3 {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

func alphaRatio(s string) float64 {
	if s == "" {
		return 0
	}
	letters := 0
	total := 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters) / float64(total)
}

// AlphaRatio reports the fraction of letters in s, used for chunk
// quality filtering.
func AlphaRatio(s string) float64 { return alphaRatio(s) }
