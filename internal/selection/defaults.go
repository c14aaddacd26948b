package selection

// defaultPacks is the selection assumed when nothing was customised
var defaultPacks = []string{
	"peon",
	"peasant",
	"glados",
	"sc_kerrigan",
	"sc_battlecruiser",
	"ra2_kirov",
	"dota2_axe",
	"duke_nukem",
	"tf2_engineer",
	"hd2_helldiver",
}

// Defaults returns the default selection
func Defaults() Set {
	return NewSet(defaultPacks...)
}

// IsDefault reports whether id belongs to the default selection
func IsDefault(id string) bool {
	for _, d := range defaultPacks {
		if d == id {
			return true
		}
	}
	return false
}
