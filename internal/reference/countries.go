// Package reference holds the static country tables used to label and order
// availability records. All tables are read-only after package init.
package reference

import "strings"

// PriorityCountries are shown first, in this order
var PriorityCountries = []string{"FR", "BE", "CH", "LU", "CA"}

var (
	priorityIndex = make(map[string]int, len(PriorityCountries))

	frenchSpeaking = map[string]struct{}{
		"FR": {}, "BE": {}, "CH": {}, "LU": {}, "CA": {}, "MC": {},
	}

	// Country names in French, keyed by ISO 3166-1 alpha-2
	countryNames = map[string]string{
		"AD": "Andorre",
		"AE": "Émirats arabes unis",
		"AG": "Antigua-et-Barbuda",
		"AL": "Albanie",
		"AO": "Angola",
		"AR": "Argentine",
		"AT": "Autriche",
		"AU": "Australie",
		"AZ": "Azerbaïdjan",
		"BA": "Bosnie-Herzégovine",
		"BB": "Barbade",
		"BE": "Belgique",
		"BF": "Burkina Faso",
		"BG": "Bulgarie",
		"BH": "Bahreïn",
		"BM": "Bermudes",
		"BO": "Bolivie",
		"BR": "Brésil",
		"BS": "Bahamas",
		"BY": "Biélorussie",
		"BZ": "Belize",
		"CA": "Canada",
		"CD": "République démocratique du Congo",
		"CH": "Suisse",
		"CI": "Côte d'Ivoire",
		"CL": "Chili",
		"CM": "Cameroun",
		"CO": "Colombie",
		"CR": "Costa Rica",
		"CU": "Cuba",
		"CV": "Cap-Vert",
		"CY": "Chypre",
		"CZ": "Tchéquie",
		"DE": "Allemagne",
		"DK": "Danemark",
		"DO": "République dominicaine",
		"DZ": "Algérie",
		"EC": "Équateur",
		"EE": "Estonie",
		"EG": "Égypte",
		"ES": "Espagne",
		"FI": "Finlande",
		"FJ": "Fidji",
		"FR": "France",
		"GB": "Royaume-Uni",
		"GF": "Guyane française",
		"GH": "Ghana",
		"GI": "Gibraltar",
		"GP": "Guadeloupe",
		"GQ": "Guinée équatoriale",
		"GR": "Grèce",
		"GT": "Guatemala",
		"GY": "Guyana",
		"HK": "Hong Kong",
		"HN": "Honduras",
		"HR": "Croatie",
		"HU": "Hongrie",
		"ID": "Indonésie",
		"IE": "Irlande",
		"IL": "Israël",
		"IN": "Inde",
		"IQ": "Irak",
		"IS": "Islande",
		"IT": "Italie",
		"JM": "Jamaïque",
		"JO": "Jordanie",
		"JP": "Japon",
		"KE": "Kenya",
		"KR": "Corée du Sud",
		"KW": "Koweït",
		"LB": "Liban",
		"LC": "Sainte-Lucie",
		"LI": "Liechtenstein",
		"LT": "Lituanie",
		"LU": "Luxembourg",
		"LV": "Lettonie",
		"LY": "Libye",
		"MA": "Maroc",
		"MC": "Monaco",
		"MD": "Moldavie",
		"ME": "Monténégro",
		"MG": "Madagascar",
		"MK": "Macédoine du Nord",
		"ML": "Mali",
		"MT": "Malte",
		"MU": "Maurice",
		"MX": "Mexique",
		"MY": "Malaisie",
		"MZ": "Mozambique",
		"NE": "Niger",
		"NG": "Nigeria",
		"NI": "Nicaragua",
		"NL": "Pays-Bas",
		"NO": "Norvège",
		"NZ": "Nouvelle-Zélande",
		"OM": "Oman",
		"PA": "Panama",
		"PE": "Pérou",
		"PF": "Polynésie française",
		"PG": "Papouasie-Nouvelle-Guinée",
		"PH": "Philippines",
		"PK": "Pakistan",
		"PL": "Pologne",
		"PS": "Palestine",
		"PT": "Portugal",
		"PY": "Paraguay",
		"QA": "Qatar",
		"RE": "La Réunion",
		"RO": "Roumanie",
		"RS": "Serbie",
		"RU": "Russie",
		"SA": "Arabie saoudite",
		"SC": "Seychelles",
		"SE": "Suède",
		"SG": "Singapour",
		"SI": "Slovénie",
		"SK": "Slovaquie",
		"SM": "Saint-Marin",
		"SN": "Sénégal",
		"SV": "Salvador",
		"TC": "Îles Turques-et-Caïques",
		"TD": "Tchad",
		"TH": "Thaïlande",
		"TN": "Tunisie",
		"TR": "Turquie",
		"TT": "Trinité-et-Tobago",
		"TW": "Taïwan",
		"TZ": "Tanzanie",
		"UA": "Ukraine",
		"UG": "Ouganda",
		"US": "États-Unis",
		"UY": "Uruguay",
		"VA": "Vatican",
		"VE": "Venezuela",
		"VN": "Viêt Nam",
		"XK": "Kosovo",
		"YE": "Yémen",
		"ZA": "Afrique du Sud",
		"ZM": "Zambie",
		"ZW": "Zimbabwe",
	}
)

func init() {
	for i, code := range PriorityCountries {
		priorityIndex[code] = i
	}
}

// NormalizeCode uppercases and trims a country code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CountryName returns the French display name for a country code.
// Unknown codes return the normalized code itself.
func CountryName(code string) string {
	code = NormalizeCode(code)
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

// IsFrenchSpeaking reports whether French audio is assumed by default in the country
func IsFrenchSpeaking(code string) bool {
	_, ok := frenchSpeaking[NormalizeCode(code)]
	return ok
}

// PriorityRank returns the position of the country in PriorityCountries
func PriorityRank(code string) (int, bool) {
	rank, ok := priorityIndex[NormalizeCode(code)]
	return rank, ok
}
