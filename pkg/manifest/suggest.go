package manifest

import "github.com/agnivade/levenshtein"

// Suggest returns the page filename closest to name by edit distance, or ""
// when no filename is within maxDistance edits.
func (d *Document) Suggest(name string, maxDistance int) string {
	best, bestDist := "", maxDistance+1
	for _, p := range d.pages {
		if p.Filename == "" {
			continue
		}
		if dist := levenshtein.ComputeDistance(name, p.Filename); dist < bestDist {
			best, bestDist = p.Filename, dist
		}
	}
	return best
}
