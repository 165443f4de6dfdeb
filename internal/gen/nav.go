package gen

import (
	"strings"

	"github.com/matthewbaird/sheetforge/internal/naming"
)

// MenuItem is one sidebar entry. Title entries render as section headers,
// grouped entries carry children, ungrouped entities sit at top level with
// a direct path.
type MenuItem struct {
	Label    string     `json:"label"`
	Icon     string     `json:"icon,omitempty"`
	Path     string     `json:"path,omitempty"`
	IsTitle  bool       `json:"is_title,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}

// DashboardCard is one entry-point tile on the landing page.
type DashboardCard struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Path  string `json:"path"`
}

// UIRoute binds a client-side path to a view of an entity's UI unit.
type UIRoute struct {
	Path   string `json:"path"`
	Entity string `json:"entity"`
	View   string `json:"view"`
}

const (
	ViewList = "list"
	ViewForm = "form"
)

// NavigationModel is the aggregate navigation artifact. It is rebuilt from
// scratch on every run and always fully overwritten.
type NavigationModel struct {
	Menu      []MenuItem      `json:"menu"`
	Dashboard []DashboardCard `json:"dashboard"`
	Routes    []UIRoute       `json:"routes"`
}

type menuGroup struct {
	label    string
	keywords []string
}

// menuGroups are the ordered grouping rules; for each entity the first
// group with a matching keyword wins.
var menuGroups = []menuGroup{
	{"User Management", []string{"user", "group", "role"}},
	{"Catalogue Management", []string{"catalogue", "category", "brand", "product"}},
	{"Voucher Management", []string{"voucher"}},
	{"Order Management", []string{"order"}},
	{"Admin User Management", []string{"admin user"}},
	{"Contact Us Management", []string{"contact us"}},
	{"CMS Pages Management", []string{"cms page"}},
	{"Templates", []string{"template"}},
	{"Import History", []string{"import history"}},
}

var iconMap = map[string]string{
	"user-management":       "Users",
	"catalogue-management":  "ShoppingCart",
	"voucher-management":    "Ticket",
	"order-management":      "ClipboardList",
	"admin-user-management": "Shield",
	"contact-us-management": "Phone",
	"cms-pages-management":  "FileText",
	"templates":             "LayoutTemplate",
	"import-history":        "History",
	"user-groups":           "Users2",
	"users":                 "User",
	"catalogues":            "Store",
	"categories":            "Layers3",
	"brands":                "Award",
	"products":              "Package",
	"vouchers":              "Gift",
	"admin-users":           "ShieldCheck",
	"contact-us":            "PhoneCall",
	"cms-pages":             "Newspaper",
	"orders":                "ClipboardCheck",
}

const defaultIcon = "AppWindow"

func iconFor(name string) string {
	if icon, ok := iconMap[naming.Slug(name)]; ok {
		return icon
	}
	return defaultIcon
}

// BuildNavigation aggregates the sidebar, dashboard cards and the flat UI
// route table over all non-auth entity names, in input order.
func BuildNavigation(entityNames []string) NavigationModel {
	nav := NavigationModel{
		Menu: []MenuItem{
			{Label: "Quick Links", Path: "/dashboard", IsTitle: true},
		},
	}

	assigned := make(map[string]bool, len(entityNames))
	for _, g := range menuGroups {
		var children []MenuItem
		for _, name := range entityNames {
			if assigned[name] || !matchesAny(name, g.keywords) {
				continue
			}
			assigned[name] = true
			children = append(children, MenuItem{
				Label: naming.Title(name),
				Path:  "/" + naming.Slug(name),
			})
		}
		if len(children) > 0 {
			nav.Menu = append(nav.Menu, MenuItem{
				Label:    g.label,
				Icon:     iconFor(g.label),
				Children: children,
			})
		}
	}
	for _, name := range entityNames {
		if assigned[name] {
			continue
		}
		nav.Menu = append(nav.Menu, MenuItem{
			Label: naming.Title(name),
			Icon:  iconFor(name),
			Path:  "/" + naming.Slug(name),
		})
	}

	for _, name := range entityNames {
		slug := naming.Slug(name)
		nav.Dashboard = append(nav.Dashboard, DashboardCard{
			Label: naming.Title(name),
			Icon:  iconFor(name),
			Path:  "/" + slug,
		})
		nav.Routes = append(nav.Routes,
			UIRoute{Path: "/" + slug, Entity: slug, View: ViewList},
			UIRoute{Path: "/" + slug + "/new", Entity: slug, View: ViewForm},
			UIRoute{Path: "/" + slug + "/{id}/edit", Entity: slug, View: ViewForm},
		)
	}

	return nav
}

func matchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
