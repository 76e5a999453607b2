package category

// Category is one entry of the fixed business-category catalog the
// settings screen renders. Icon is a lucide icon name the frontend maps.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// OtherID is the catch-all bucket, guaranteed to exist.
const OtherID = "other"

// the catalog is code, not data: it changes with a deploy, never at runtime
var categories = []Category{
	{ID: "retail", Label: "Retail & E-commerce", Icon: "shopping-bag"},
	{ID: "food", Label: "Food & Beverage", Icon: "utensils"},
	{ID: "services", Label: "Professional Services", Icon: "briefcase"},
	{ID: "beauty", Label: "Beauty & Wellness", Icon: "sparkles"},
	{ID: "education", Label: "Education & Training", Icon: "graduation-cap"},
	{ID: "healthcare", Label: "Healthcare", Icon: "heart-pulse"},
	{ID: "transport", Label: "Transport & Logistics", Icon: "truck"},
	{ID: "manufacturing", Label: "Manufacturing", Icon: "factory"},
	{ID: "freelance", Label: "Freelance & Creative", Icon: "palette"},
	{ID: OtherID, Label: "Other", Icon: "circle-ellipsis"},
}

var byID = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.ID] = c
	}
	return m
}()

// All returns the catalog in display order. Callers get a copy so they
// cannot scribble on the package table.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func ByID(id string) (Category, bool) {
	c, ok := byID[id]
	return c, ok
}

func IsValid(id string) bool {
	_, ok := byID[id]
	return ok
}
