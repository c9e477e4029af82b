package invoice

import (
	"strings"

	"golang.org/x/text/cases"
)

// Category is the spend category of a line item
type Category string

const (
	CategorySoftware       Category = "Software"
	CategoryHardware       Category = "Hardware"
	CategoryServices       Category = "Services"
	CategoryOfficeSupplies Category = "Office Supplies"
	CategoryTravel         Category = "Travel"
	CategoryGeneral        Category = "General"
)

type categoryRule struct {
	category Category
	keywords []string
}

// Order matters: "software service" is Software.
var categoryRules = []categoryRule{
	{CategorySoftware, []string{"software", "license"}},
	{CategoryHardware, []string{"hardware", "equipment"}},
	{CategoryServices, []string{"service", "consulting"}},
	{CategoryOfficeSupplies, []string{"office", "supplies"}},
	{CategoryTravel, []string{"travel", "hotel"}},
}

// Categorize maps a line item description to a category by case-insensitive
// keyword match. The first matching rule wins; no match is General.
func Categorize(description string) Category {
	folded := cases.Fold().String(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.category
			}
		}
	}
	return CategoryGeneral
}

// AllCategories lists every category in rule order, General last
func AllCategories() []Category {
	out := make([]Category, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		out = append(out, rule.category)
	}
	return append(out, CategoryGeneral)
}
