package analysis

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Caption expands a caption template for one output key. Supported
// placeholders are {region}, {month}, {year} and {product}. A change key
// such as "2018_2024" renders as "2018-2024".
//
// Region names written in lower case are title-cased; anything else is
// kept as configured so names like "Bosnia and Herzegovina" survive.
func Caption(tmpl string, p Params, key string) string {
	region := strings.TrimSpace(p.Region.Name)
	if region == strings.ToLower(region) {
		region = cases.Title(language.Und).String(region)
	}
	r := strings.NewReplacer(
		"{region}", region,
		"{month}", p.Window.MonthName(),
		"{year}", strings.ReplaceAll(key, "_", "-"),
		"{product}", p.Product.Label(),
	)
	return strings.Join(strings.Fields(r.Replace(tmpl)), " ")
}
