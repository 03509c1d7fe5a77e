// Package unitconv converts sale quantities between volume, weight and
// whole-container units. Every function is pure.
package unitconv

import "strings"

type Family int

const (
	FamilyUnknown Family = iota
	FamilyVolume
	FamilyWeight
	FamilyContainer
)

func (f Family) String() string {
	switch f {
	case FamilyVolume:
		return "volume"
	case FamilyWeight:
		return "weight"
	case FamilyContainer:
		return "container"
	}
	return "unknown"
}

type unitDef struct {
	family Family
	toBase float64 // multiplier into ml (volume) or g (weight)
}

var units = map[string]unitDef{
	"ml":    {FamilyVolume, 1},
	"cl":    {FamilyVolume, 10},
	"dl":    {FamilyVolume, 100},
	"l":     {FamilyVolume, 1000},
	"fl oz": {FamilyVolume, 29.5735295625},
	"tsp":   {FamilyVolume, 4.92892159375},
	"tbsp":  {FamilyVolume, 14.78676478125},
	"cup":   {FamilyVolume, 236.5882365},
	"pt":    {FamilyVolume, 473.176473},
	"qt":    {FamilyVolume, 946.352946},
	"gal":   {FamilyVolume, 3785.411784},

	"mg": {FamilyWeight, 0.001},
	"g":  {FamilyWeight, 1},
	"kg": {FamilyWeight, 1000},
	"oz": {FamilyWeight, 28.349523125},
	"lb": {FamilyWeight, 453.59237},

	"bottle": {FamilyContainer, 0},
	"can":    {FamilyContainer, 0},
	"keg":    {FamilyContainer, 0},
	"box":    {FamilyContainer, 0},
	"bag":    {FamilyContainer, 0},
	"carton": {FamilyContainer, 0},
	"unit":   {FamilyContainer, 0},
	"count":  {FamilyContainer, 0},
}

var aliases = map[string]string{
	"milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml", "mls": "ml",
	"centiliter": "cl", "centiliters": "cl",
	"deciliter": "dl", "deciliters": "dl",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l", "ltr": "l",
	"floz": "fl oz", "fl. oz": "fl oz", "fluid ounce": "fl oz", "fluid ounces": "fl oz",
	"teaspoon": "tsp", "teaspoons": "tsp",
	"tablespoon": "tbsp", "tablespoons": "tbsp",
	"cups": "cup",
	"pint": "pt", "pints": "pt",
	"quart": "qt", "quarts": "qt",
	"gallon": "gal", "gallons": "gal",
	"milligram": "mg", "milligrams": "mg",
	"gram": "g", "grams": "g", "gr": "g",
	"kilogram": "kg", "kilograms": "kg", "kgs": "kg",
	"ounce": "oz", "ounces": "oz",
	"pound": "lb", "pounds": "lb", "lbs": "lb",
	"bottles": "bottle", "cans": "can", "kegs": "keg", "boxes": "box",
	"bags": "bag", "cartons": "carton", "units": "unit", "counts": "count",
}

// Normalize canonicalizes a unit name. Unknown names come back lower-cased
// and trimmed.
func Normalize(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.NewReplacer("_", " ", "-", " ").Replace(u)
	u = strings.Join(strings.Fields(u), " ")
	u = strings.TrimSuffix(u, ".")
	if canonical, ok := aliases[u]; ok {
		return canonical
	}
	return u
}

func Classify(unit string) Family {
	if def, ok := units[Normalize(unit)]; ok {
		return def.family
	}
	return FamilyUnknown
}

func IsContainer(unit string) bool {
	return Classify(unit) == FamilyContainer
}

// Conversion is the result of one conversion. Supported is false when no rule
// applied and the amount passed through unchanged.
type Conversion struct {
	ConvertedAmount  float64 `json:"convertedAmount"`
	ConversionFactor float64 `json:"conversionFactor"`
	IsFullDepletion  bool    `json:"isFullDepletion"`
	Supported        bool    `json:"-"`
}

// Convert converts amount from one unit into another. A container unit on
// either side means selling one whole unit depletes one whole container, so
// the result is the container size when known.
func Convert(amount float64, fromUnit, toUnit string, containerSize *float64) Conversion {
	from, to := Normalize(fromUnit), Normalize(toUnit)

	if from == to {
		return Conversion{
			ConvertedAmount:  amount,
			ConversionFactor: 1,
			IsFullDepletion:  units[from].family == FamilyContainer,
			Supported:        true,
		}
	}

	fromDef, fromOK := units[from]
	toDef, toOK := units[to]

	if (fromOK && fromDef.family == FamilyContainer) || (toOK && toDef.family == FamilyContainer) {
		converted := amount
		if containerSize != nil && *containerSize > 0 {
			converted = *containerSize
		}
		factor := 1.0
		if amount != 0 {
			factor = converted / amount
		}
		return Conversion{
			ConvertedAmount:  converted,
			ConversionFactor: factor,
			IsFullDepletion:  true,
			Supported:        true,
		}
	}

	if fromOK && toOK && fromDef.family == toDef.family {
		factor := fromDef.toBase / toDef.toBase
		return Conversion{
			ConvertedAmount:  amount * factor,
			ConversionFactor: factor,
			Supported:        true,
		}
	}

	return Conversion{ConvertedAmount: amount, ConversionFactor: 1}
}

// CalculateServingDepletion is the amount of inventoryUnit consumed by
// quantitySold servings of servingSize servingUnit. For full depletions with a
// known container size each unit sold consumes exactly one container size,
// whatever the declared serving size.
func CalculateServingDepletion(servingSize float64, servingUnit, inventoryUnit string, inventoryUnitSize *float64, quantitySold float64) Conversion {
	c := Convert(servingSize, servingUnit, inventoryUnit, inventoryUnitSize)

	perUnit := c.ConvertedAmount
	if c.IsFullDepletion && inventoryUnitSize != nil && *inventoryUnitSize > 0 {
		perUnit = *inventoryUnitSize
	}
	if servingSize != 0 {
		c.ConversionFactor = perUnit / servingSize
	}
	c.ConvertedAmount = perUnit * quantitySold
	return c
}
