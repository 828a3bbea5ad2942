package domain

import "math"

// cardinals lists the 16 compass point labels clockwise from north.
var cardinals = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

const cardinalSector = 360.0 / float64(len(cardinals))

// Cardinal converts a wind bearing in degrees to the nearest of the 16
// compass point labels. Any finite input is accepted; values outside
// [0, 360) are wrapped first.
func Cardinal(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	i := int(math.Round(deg/cardinalSector)) % len(cardinals)
	return cardinals[i]
}
