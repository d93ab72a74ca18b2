package styles

import "strings"

// Style is one entry of the fixed decorating catalog.
type Style struct {
	Name     string   `json:"name"`
	Palette  []string `json:"palette"`
	Keywords []string `json:"keywords"`
}

var catalog = []Style{
	{Name: "Modern", Palette: []string{"#2F3640", "#F5F6FA", "#718093", "#E1B12C"}, Keywords: []string{"clean lines", "neutral base", "statement lighting"}},
	{Name: "Minimalist", Palette: []string{"#FFFFFF", "#E5E5E5", "#A3A3A3", "#262626"}, Keywords: []string{"decluttered surfaces", "hidden storage", "few quality pieces"}},
	{Name: "Scandinavian", Palette: []string{"#F4F1EA", "#D9CAB3", "#6D8A96", "#3E4E50"}, Keywords: []string{"light wood", "soft textiles", "natural light"}},
	{Name: "Industrial", Palette: []string{"#3B3B3B", "#8C6E54", "#B5B5B5", "#D35400"}, Keywords: []string{"exposed metal", "reclaimed wood", "edison bulbs"}},
	{Name: "Bohemian", Palette: []string{"#C0392B", "#E67E22", "#F1C40F", "#16A085"}, Keywords: []string{"layered rugs", "plants", "global patterns"}},
	{Name: "Coastal", Palette: []string{"#FDFEFE", "#AED6F1", "#2E86C1", "#D5B895"}, Keywords: []string{"airy whites", "rattan", "linen"}},
	{Name: "Farmhouse", Palette: []string{"#FAF7F0", "#CDBBA7", "#7D6E5B", "#4A5D4F"}, Keywords: []string{"shiplap", "vintage finds", "warm wood"}},
	{Name: "Mid-Century Modern", Palette: []string{"#D35400", "#F39C12", "#1ABC9C", "#5D4037"}, Keywords: []string{"tapered legs", "walnut", "graphic accents"}},
	{Name: "Japandi", Palette: []string{"#EDE6DB", "#BFA98A", "#5E5B52", "#1F1F1F"}, Keywords: []string{"low furniture", "wabi-sabi ceramics", "muted tones"}},
	{Name: "Art Deco", Palette: []string{"#0B3C5D", "#D9B310", "#1D2731", "#F4F4F4"}, Keywords: []string{"geometric patterns", "brass", "velvet"}},
	{Name: "Traditional", Palette: []string{"#7B2D26", "#F2E8CF", "#386641", "#BC6C25"}, Keywords: []string{"classic silhouettes", "rich wood", "symmetry"}},
	{Name: "Rustic", Palette: []string{"#6B4226", "#A98467", "#DDB892", "#3A5A40"}, Keywords: []string{"raw timber", "stone", "handmade textiles"}},
}

// All returns a copy of the catalog in display order.
func All() []Style {
	out := make([]Style, len(catalog))
	for i, s := range catalog {
		out[i] = Style{
			Name:     s.Name,
			Palette:  append([]string(nil), s.Palette...),
			Keywords: append([]string(nil), s.Keywords...),
		}
	}
	return out
}

// Names lists the style names in display order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = s.Name
	}
	return names
}

// Lookup finds a style by name, ignoring case and surrounding whitespace.
func Lookup(name string) (Style, bool) {
	clean := strings.TrimSpace(name)
	for _, s := range catalog {
		if strings.EqualFold(s.Name, clean) {
			return s, true
		}
	}
	return Style{}, false
}

// Match returns the catalog style whose name appears in text. When several
// names match, the longest wins so "Mid-Century Modern" beats "Modern".
func Match(text string) (Style, bool) {
	lower := strings.ToLower(text)
	var (
		best  Style
		found bool
	)
	for _, s := range catalog {
		if !strings.Contains(lower, strings.ToLower(s.Name)) {
			continue
		}
		if !found || len(s.Name) > len(best.Name) {
			best = s
			found = true
		}
	}
	return best, found
}
