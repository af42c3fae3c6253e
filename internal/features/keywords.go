package features

import "regexp"

// Indicator keyword sets. Whole-word, case-insensitive.
var (
	positiveRe = regexp.MustCompile(`(?i)\b(great|amazing|awesome|love|excellent|fantastic|wonderful|brilliant|perfect|outstanding)\b`)
	negativeRe = regexp.MustCompile(`(?i)\b(terrible|awful|hate|horrible|worst|disgusting|pathetic|useless|stupid|annoying)\b`)
	techRe     = regexp.MustCompile(`(?i)\b(AI|ML|tech|startup|code|programming|software|app|digital|innovation|algorithm|data|cloud|blockchain|crypto)\b`)
	businessRe = regexp.MustCompile(`(?i)\b(business|marketing|sales|revenue|profit|growth|strategy|leadership|management|entrepreneur|investment|funding)\b`)
)

func countKeywords(re *regexp.Regexp, text string) int {
	return len(re.FindAllString(text, -1))
}
