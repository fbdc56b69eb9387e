package astro

// Placement is the semantic position of a body: sign, house and the
// truncated position within the sign. Raw longitude is intentionally absent.
type Placement struct {
	Body   Body  `json:"body"`
	Sign   Sign  `json:"sign"`
	House  House `json:"house"`
	Degree int   `json:"degree"`
	Minute int   `json:"minute"`
}

// Element returns the element of the placement's sign.
func (p Placement) Element() Element { return p.Sign.Element() }

// Place resolves a longitude against cusps into a Placement.
func Place(body Body, lon float64, cusps [12]float64) Placement {
	sign, deg, mins := SignOf(lon)
	return Placement{Body: body, Sign: sign, House: HouseOf(lon, cusps), Degree: deg, Minute: mins}
}

// PlaceInHouse resolves lon into sign and degree but pins the house, which
// is how the chart angles are placed (ASC in 1, MC in 10).
func PlaceInHouse(body Body, lon float64, house House) Placement {
	sign, deg, mins := SignOf(lon)
	return Placement{Body: body, Sign: sign, House: house, Degree: deg, Minute: mins}
}
