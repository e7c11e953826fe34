package catalog

import "github.com/fjod/go_storefront/internal/domain"

type MenuEntry struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type MenuGroup struct {
	Name       string      `json:"name"`
	Categories []MenuEntry `json:"categories"`
}

// menuGroups is the fixed navigation grouping of category slugs.
var menuGroups = []struct {
	name  string
	slugs []string
}{
	{"Electronics", []string{"smartphones", "laptops", "automotive"}},
	{"Home & Living", []string{"furniture", "home-decoration", "lighting", "kitchen-accessories"}},
	{"Fashion", []string{"mens-shirts", "mens-shoes", "mens-watches", "womens-dresses", "womens-shoes",
		"womens-watches", "womens-bags", "womens-jewellery", "tops", "sunglasses"}},
}

// BuildMenu keeps only categories the catalog returned, in catalog order.
func BuildMenu(categories []string) []MenuGroup {
	groups := make([]MenuGroup, 0, len(menuGroups))
	for _, g := range menuGroups {
		member := make(map[string]bool, len(g.slugs))
		for _, s := range g.slugs {
			member[s] = true
		}

		group := MenuGroup{Name: g.name, Categories: []MenuEntry{}}
		for _, c := range categories {
			if member[c] {
				group.Categories = append(group.Categories, MenuEntry{Slug: c, Name: domain.CategoryDisplayName(c)})
			}
		}
		groups = append(groups, group)
	}
	return groups
}
