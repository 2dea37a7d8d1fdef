package schedule

import (
	"strings"

	"github.com/livetagus/fertagus-go/internal/models"
)

// TerminalStation is the northern terminus shared by every trip.
const TerminalStation = "ROMA-AREEIRO"

// routeSouthToNorth lists every station slug in geographic order,
// Setúbal first. The lisboa direction follows it as-is, margem
// reversed.
var routeSouthToNorth = []string{
	"setubal",
	"palmela",
	"venda_do_alcaide",
	"pinhal_novo",
	"penalva",
	"coina",
	"fogueteiro",
	"foros_de_amora",
	"corroios",
	"pragal",
	"campolide",
	"sete_rios",
	"entrecampos",
	"roma_areeiro",
}

// displayNames maps schedule slugs to the operator's station names.
var displayNames = map[string]string{
	"setubal":          "SETÚBAL",
	"palmela":          "PALMELA-A",
	"venda_do_alcaide": "VENDA DO ALCAIDE",
	"pinhal_novo":      "PINHAL NOVO",
	"penalva":          "PENALVA",
	"coina":            "COINA",
	"fogueteiro":       "FOGUETEIRO",
	"foros_de_amora":   "FOROS DE AMORA",
	"corroios":         "CORROIOS",
	"pragal":           "PRAGAL",
	"campolide":        "CAMPOLIDE-A",
	"sete_rios":        "SETE RIOS",
	"entrecampos":      "ENTRECAMPOS",
	"roma_areeiro":     "ROMA-AREEIRO",
}

// nodeIDs are the operator's fixed station identifiers, used when
// synthesizing passage nodes without live data.
var nodeIDs = map[string]int64{
	"SETÚBAL":          9468122,
	"PALMELA-A":        9468098,
	"VENDA DO ALCAIDE": 9468049,
	"PINHAL NOVO":      9468007,
	"PENALVA":          9417095,
	"COINA":            9417236,
	"FOGUETEIRO":       9417186,
	"FOROS DE AMORA":   9417152,
	"CORROIOS":         9417137,
	"PRAGAL":           9417087,
	"CAMPOLIDE-A":      9467033,
	"SETE RIOS":        9466076,
	"ENTRECAMPOS":      9466050,
	"ROMA-AREEIRO":     9466035,
}

var slugByDisplay = func() map[string]string {
	m := make(map[string]string, len(displayNames))
	for slug, name := range displayNames {
		m[name] = slug
	}
	return m
}()

// RouteOrder returns station slugs in travel order for a direction.
func RouteOrder(dir models.Direction) []string {
	if dir == models.DirectionLisboa {
		return routeSouthToNorth
	}
	rev := make([]string, len(routeSouthToNorth))
	for i, s := range routeSouthToNorth {
		rev[len(routeSouthToNorth)-1-i] = s
	}
	return rev
}

// DisplayName returns the operator's name for a station slug.
func DisplayName(slug string) string {
	return displayNames[slug]
}

// SlugFor resolves an operator station name (any case) to its slug,
// or "" when the name is unknown.
func SlugFor(display string) string {
	return slugByDisplay[strings.ToUpper(display)]
}

// NodeID returns the operator's fixed identifier for a station name.
func NodeID(display string) int64 {
	return nodeIDs[strings.ToUpper(display)]
}

// IsFinalStation reports whether a station name is the last stop for
// the given direction. Matching is loose because the feed is not
// consistent about suffixes like "-A".
func IsFinalStation(dir models.Direction, stationName string) bool {
	name := strings.ToUpper(stationName)
	if dir == models.DirectionLisboa {
		return strings.Contains(name, "ROMA")
	}
	return strings.Contains(name, "COINA") || strings.Contains(name, "SETÚBAL")
}
