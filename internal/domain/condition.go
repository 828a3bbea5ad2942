package domain

// Condition is the normalized weather condition category derived from an
// SRF-Meteo symbol code.
type Condition string

const (
	ConditionSunny            Condition = "sunny"
	ConditionClearNight       Condition = "clear-night"
	ConditionPartlyCloudy     Condition = "partly-cloudy"
	ConditionCloudy           Condition = "cloudy"
	ConditionFog              Condition = "fog"
	ConditionRain             Condition = "rainy"
	ConditionPouring          Condition = "pouring"
	ConditionSnow             Condition = "snowy"
	ConditionSleet            Condition = "snowy-rainy"
	ConditionThunderstorm     Condition = "lightning"
	ConditionThunderstormRain Condition = "lightning-rainy"
	ConditionUnavailable      Condition = "unavailable"
)

// symbolConditions maps SRF-Meteo symbol codes to conditions. Positive codes
// are daytime variants, negative codes the night variants of the same
// magnitude. The mapping is deliberately many-to-one: the API distinguishes
// far more states than consumers care about. The comments carry the SRG SSR
// descriptions of each code; several codes are returned by the API but absent
// from its documentation.
var symbolConditions = map[int]Condition{
	1:  ConditionSunny,            // sonnig
	2:  ConditionFog,              // Nebelbaenke
	3:  ConditionPartlyCloudy,     // teils sonnig
	4:  ConditionRain,             // Regenschauer
	5:  ConditionThunderstormRain, // Regenschauer mit Gewitter
	6:  ConditionSnow,             // Schneeschauer
	7:  ConditionSleet,            // sonnige Abschnitte und einige Gewitter mit Schnee (undocumented)
	8:  ConditionSleet,            // Schneeregenschauer
	9:  ConditionSleet,            // wechselhaft mit Schneeregenschauern und Gewittern (undocumented)
	10: ConditionSunny,            // ziemlich sonnig
	11: ConditionPartlyCloudy,     // sonnig, aber auch einzelne Schauer (undocumented)
	12: ConditionSunny,            // sonnig und nur einzelne Gewitter (undocumented)
	13: ConditionSunny,            // sonnig und nur einzelne Schneeschauer (undocumented)
	14: ConditionSunny,            // sonnig, einzelne Schneeschauer, dazwischen Blitz und Donner (undocumented)
	15: ConditionSunny,            // sonnig und nur einzelne Schauer, vereinzelt auch Flocken (undocumented)
	16: ConditionSunny,            // oft sonnig, nur einzelne gewittrige Schauer, teils auch Flocken (undocumented)
	17: ConditionFog,              // Nebel
	18: ConditionCloudy,           // stark bewoelkt (undocumented)
	19: ConditionCloudy,           // bedeckt
	20: ConditionRain,             // regnerisch
	21: ConditionSnow,             // Schneefall
	22: ConditionSleet,            // Schneeregen
	23: ConditionPouring,          // Dauerregen (undocumented)
	24: ConditionSnow,             // starker Schneefall (undocumented)
	25: ConditionRain,             // Regenschauer
	26: ConditionThunderstorm,     // stark bewoelkt und einige Gewitter (undocumented)
	27: ConditionSnow,             // trueb mit einigen Schneeschauern (undocumented)
	28: ConditionCloudy,           // stark bewoelkt, Schneeschauer, dazwischen Blitz und Donner (undocumented)
	29: ConditionSleet,            // ab und zu Schneeregen (undocumented)
	30: ConditionSleet,            // Schneeregen, einzelne Gewitter (undocumented)

	-1:  ConditionClearNight,       // klar
	-2:  ConditionFog,              // Nebelbaenke
	-3:  ConditionCloudy,           // Wolken: Sandsturm
	-4:  ConditionRain,             // Regenschauer
	-5:  ConditionThunderstormRain, // Regenschauer mit Gewitter
	-6:  ConditionSnow,             // Schneeschauer
	-7:  ConditionSnow,             // einige Gewitter mit Schnee (undocumented)
	-8:  ConditionSleet,            // Schneeregenschauer
	-9:  ConditionThunderstormRain, // wechselhaft mit Schneeregenschauern und Gewittern (undocumented)
	-10: ConditionPartlyCloudy,     // klare Abschnitte
	-11: ConditionRain,             // einzelne Schauer (undocumented)
	-12: ConditionThunderstorm,     // einzelne Gewitter (undocumented)
	-13: ConditionSnow,             // einzelne Schneeschauer (undocumented)
	-14: ConditionSnow,             // einzelne Schneeschauer, dazwischen Blitz und Donner (undocumented)
	-15: ConditionSleet,            // einzelne Schauer, vereinzelt auch Flocken (undocumented)
	-16: ConditionPartlyCloudy,     // oft sonnig, nur einzelne gewittrige Schauer, teils auch Flocken (undocumented)
	-17: ConditionFog,              // Nebel
	-18: ConditionCloudy,           // stark bewoelkt (undocumented)
	-19: ConditionCloudy,           // bedeckt
	-20: ConditionRain,             // regnerisch
	-21: ConditionSnow,             // Schneefall
	-22: ConditionSleet,            // Schneeregen
	-23: ConditionPouring,          // Dauerregen (undocumented)
	-24: ConditionSnow,             // starker Schneefall (undocumented)
	-25: ConditionRain,             // Regenschauer
	-26: ConditionThunderstorm,     // stark bewoelkt und einige Gewitter (undocumented)
	-27: ConditionRain,             // trueb mit einigen Schneeschauern (undocumented)
	-28: ConditionThunderstormRain, // stark bewoelkt, Schneeschauer, dazwischen Blitz und Donner (undocumented)
	-29: ConditionSleet,            // ab und zu Schneeregen (undocumented)
	-30: ConditionSleet,            // Schneeregen, einzelne Gewitter (undocumented)
}

// ConditionForSymbol resolves a symbol code to its condition. The second
// return value is false for codes absent from the table, in which case the
// condition is ConditionUnavailable; callers should surface a diagnostic but
// must not treat an unknown code as a failure.
func ConditionForSymbol(symbolID int) (Condition, bool) {
	c, ok := symbolConditions[symbolID]
	if !ok {
		return ConditionUnavailable, false
	}
	return c, true
}
