package trailer

import (
	"fmt"
	"strings"
)

// BuildQueries produces the ordered search query list, most specific first.
// Colons are stripped from title components: the downstream search transport
// treats them as URL scheme separators ("Underworld: Evolution" fails).
//
// localized is the original-language title; fallback is the default search
// language title. A localized variant is only queried when it actually
// differs from the fallback.
func BuildQueries(localized, fallback, year string, kind Kind, seasonNum int) []string {
	fallback = strings.ReplaceAll(fallback, ":", "")
	localized = strings.ReplaceAll(localized, ":", "")

	var queries []string

	if seasonNum > 0 {
		if localized != "" && localized != fallback {
			queries = append(queries,
				fmt.Sprintf("%s season %d official trailer", localized, seasonNum))
		}
		queries = append(queries,
			fmt.Sprintf("%s season %d official trailer", fallback, seasonNum))
		if year != "" {
			queries = append(queries,
				fmt.Sprintf("%s season %d %s trailer", fallback, seasonNum, year))
		}
		return queries
	}

	category := "movie"
	if kind == KindShow {
		category = "tv series"
	}

	if year != "" {
		queries = append(queries,
			fmt.Sprintf("%s %s official trailer", fallback, year),
			fmt.Sprintf("%s %s %s trailer", fallback, year, category))
	}
	queries = append(queries, fallback+" official trailer")

	if localized != "" && localized != fallback {
		if year != "" {
			queries = append(queries,
				fmt.Sprintf("%s %s official trailer", localized, year))
		}
		queries = append(queries, localized+" trailer")
	}

	return queries
}
