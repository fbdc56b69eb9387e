package brief

import "github.com/okian/natal/internal/domain/astro"

var bodyCore = map[astro.Body]string{
	astro.Sun:     "The core theme of your life",
	astro.Moon:    "Your emotional patterns and sources of security",
	astro.Mercury: "The way you think and express yourself",
	astro.Venus:   "Your patterns of love and relationship",
	astro.Mars:    "The way you act and what drives your desire",
	astro.Jupiter: "How you expand, believe and grow",
	astro.Saturn:  "Your sources of pressure and life lessons",
	astro.Uranus:  "Your breakthrough points and unconventional traits",
	astro.Neptune: "Your ideals, confusion and capacity for empathy",
	astro.Pluto:   "Your deep transformations and questions of control",
	astro.ASC:     "The first impression you give the world",
	astro.MC:      "Your life direction and social role",
}

var signMeaning = map[astro.Sign]string{
	astro.Aries:       "direct, proactive and self-driven",
	astro.Taurus:      "steady, practical, valuing security and control",
	astro.Gemini:      "curious, changeable, oriented to information and exchange",
	astro.Cancer:      "emotional, valuing security and belonging",
	astro.Leo:         "longing to be seen and to express self-worth",
	astro.Virgo:       "careful, analytical, seeking order and improvement",
	astro.Libra:       "centered on relationship and balance",
	astro.Scorpio:     "deep, controlling, intense in feeling and insight",
	astro.Sagittarius: "seeking meaning, freedom and distant horizons",
	astro.Capricorn:   "goal oriented, responsible and realistic",
	astro.Aquarius:    "independent, rational and unconventional",
	astro.Pisces:      "sensitive, empathic, prone to blurred boundaries",
}

var houseMeaning = map[astro.House]string{
	1:  "self-identity and life's starting point",
	2:  "money, self-worth and security",
	3:  "communication, learning and everyday thinking",
	4:  "family, origins and inner foundations",
	5:  "creativity, romance and self-expression",
	6:  "work patterns, health and duty",
	7:  "close relationships and partnership",
	8:  "control, intimacy, crisis and rebirth",
	9:  "belief systems, travel and meaning",
	10: "career direction and social role",
	11: "community, ideals and vision of the future",
	12: "the subconscious, escape and the inner world",
}
