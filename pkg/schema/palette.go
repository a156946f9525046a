package schema

// DefaultColor is the tag given to fields added by hand.
const DefaultColor = "gray"

// Palette is the fixed, ordered set of display tags cycled through for inferred schemas.
var Palette = []string{
	"red",
	"orange",
	"amber",
	"yellow",
	"lime",
	"green",
	"emerald",
	"teal",
	"cyan",
	"sky",
	"blue",
	"indigo",
	"violet",
	"purple",
	"fuchsia",
	"pink",
	"rose",
}

// ColorAt returns the palette tag for position i, wrapping around.
func ColorAt(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}
