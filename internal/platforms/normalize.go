// Package platforms maps upstream service identifiers and TMDB provider ids
// onto one canonical platform name space.
package platforms

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical platform names
const (
	Netflix          = "Netflix"
	AmazonPrimeVideo = "Amazon Prime Video"
	DisneyPlus       = "Disney+"
	Max              = "Max"
	AppleTVPlus      = "Apple TV+"
	AppleTV          = "Apple TV"
	CanalPlus        = "Canal+"
	ParamountPlus    = "Paramount+"
	Starz            = "Starz"
	MGMPlus          = "MGM+"
	OCS              = "OCS"
	Crave            = "Crave"
	LionsgatePlus    = "Lionsgate+"
	PassWarner       = "Pass Warner"
	Hulu             = "Hulu"
	Peacock          = "Peacock"
	Mubi             = "MUBI"
	Crunchyroll      = "Crunchyroll"
	GooglePlay       = "Google Play Films"
	YouTube          = "YouTube"
	RakutenTV        = "Rakuten TV"
	Arte             = "Arte"
	FranceTV         = "france.tv"
	TF1Plus          = "TF1+"
	M6Plus           = "M6+"
	Showtime         = "Showtime"
	BritBox          = "BritBox"
	Curiosity        = "CuriosityStream"
	Tubi             = "Tubi"
	PlutoTV          = "Pluto TV"
	Plex             = "Plex"
	Microsoft        = "Microsoft Store"
	Fandango         = "Fandango at Home"
	ADN              = "ADN"
	Stan             = "Stan"
	Now              = "NOW"
	SkyShowtime      = "SkyShowtime"
	Zee5             = "ZEE5"
	Hotstar          = "Disney+ Hotstar"
	ClubIllico       = "Club illico"
	TouTV            = "ICI TOU.TV"
	Auvio            = "RTBF Auvio"
	PlaySuisse       = "Play Suisse"
)

// serviceIDToName is keyed by lowercase alnum-only service ids
var serviceIDToName = map[string]string{
	"netflix":          Netflix,
	"prime":            AmazonPrimeVideo,
	"amazonprime":      AmazonPrimeVideo,
	"amazonprimevideo": AmazonPrimeVideo,
	"primevideo":       AmazonPrimeVideo,
	"amazonvideo":      AmazonPrimeVideo,
	"disney":           DisneyPlus,
	"disneyplus":       DisneyPlus,
	"hbo":              Max,
	"hbomax":           Max,
	"max":              Max,
	"apple":            AppleTVPlus,
	"appletv":          AppleTVPlus,
	"appletvplus":      AppleTVPlus,
	"itunes":           AppleTV,
	"canal":            CanalPlus,
	"canalplus":        CanalPlus,
	"mycanal":          CanalPlus,
	"paramount":        ParamountPlus,
	"paramountplus":    ParamountPlus,
	"starz":            Starz,
	"starzplay":        Starz,
	"mgm":              MGMPlus,
	"mgmplus":          MGMPlus,
	"epix":             MGMPlus,
	"ocs":              OCS,
	"crave":            Crave,
	"lionsgate":        LionsgatePlus,
	"lionsgateplus":    LionsgatePlus,
	"passwarner":       PassWarner,
	"hulu":             Hulu,
	"peacock":          Peacock,
	"mubi":             Mubi,
	"crunchyroll":      Crunchyroll,
	"google":           GooglePlay,
	"googleplay":       GooglePlay,
	"youtube":          YouTube,
	"rakuten":          RakutenTV,
	"rakutentv":        RakutenTV,
	"arte":             Arte,
	"france":           FranceTV,
	"francetv":         FranceTV,
	"tf1":              TF1Plus,
	"tf1plus":          TF1Plus,
	"m6":               M6Plus,
	"m6plus":           M6Plus,
	"6play":            M6Plus,
	"showtime":         Showtime,
	"britbox":          BritBox,
	"curiosity":        Curiosity,
	"curiositystream":  Curiosity,
	"tubi":             Tubi,
	"pluto":            PlutoTV,
	"plutotv":          PlutoTV,
	"plex":             Plex,
	"microsoft":        Microsoft,
	"vudu":             Fandango,
	"adn":              ADN,
	"stan":             Stan,
	"now":              Now,
	"skyshowtime":      SkyShowtime,
	"zee5":             Zee5,
	"hotstar":          Hotstar,
	"clubillico":       ClubIllico,
	"toutv":            TouTV,
	"auvio":            Auvio,
	"playsuisse":       PlaySuisse,
}

// providerIDToName is keyed by TMDB watch provider id
var providerIDToName = map[int]string{
	2:    AppleTV,
	3:    GooglePlay,
	7:    Fandango,
	8:    Netflix,
	9:    AmazonPrimeVideo,
	10:   AmazonPrimeVideo,
	11:   Mubi,
	15:   Hulu,
	35:   RakutenTV,
	37:   Showtime,
	43:   Starz,
	56:   OCS,
	68:   Microsoft,
	73:   Tubi,
	119:  AmazonPrimeVideo,
	151:  BritBox,
	190:  Curiosity,
	192:  YouTube,
	230:  Crave,
	234:  Arte,
	236:  FranceTV,
	283:  Crunchyroll,
	300:  PlutoTV,
	337:  DisneyPlus,
	345:  CanalPlus,
	350:  AppleTVPlus,
	381:  CanalPlus,
	384:  Max,
	386:  Peacock,
	415:  ADN,
	531:  ParamountPlus,
	538:  Plex,
	582:  ParamountPlus,
	1796: Netflix,
	1899: Max,
}

// sortedServiceIDs keeps near-miss matching deterministic
var sortedServiceIDs = func() []string {
	keys := make([]string, 0, len(serviceIDToName))
	for k := range serviceIDToName {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

const nearMissMinLength = 6

// ServiceName resolves a streaming-options service id.
// Fallback order: exact key, compacted key, one-edit near miss,
// rawName title-cased, id title-cased.
func ServiceName(id, rawName string) string {
	if name, ok := serviceIDToName[id]; ok {
		return name
	}
	if name, ok := lookupCompact(id); ok {
		return name
	}
	if name, ok := nearMiss(CompactKey(id)); ok {
		return name
	}
	return fallback(rawName, id)
}

// ProviderName resolves a TMDB watch provider id. Unknown ids are looked up
// by their display name in the service table before falling back.
func ProviderName(id int, rawName string) string {
	if name, ok := providerIDToName[id]; ok {
		return name
	}
	if name, ok := lookupCompact(rawName); ok {
		return name
	}
	return fallback(rawName, strconv.Itoa(id))
}

// CompactKey lowercases a key and strips everything but letters and digits.
// A literal "+" is spelled out so "Canal+" and "canalplus" collapse together.
func CompactKey(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, "+", "plus"))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lookupCompact(s string) (string, bool) {
	key := CompactKey(s)
	if key == "" {
		return "", false
	}
	name, ok := serviceIDToName[key]
	return name, ok
}

func nearMiss(key string) (string, bool) {
	if len(key) < nearMissMinLength {
		return "", false
	}
	for _, candidate := range sortedServiceIDs {
		if len(candidate) < nearMissMinLength {
			continue
		}
		if levenshtein.ComputeDistance(key, candidate) == 1 {
			return serviceIDToName[candidate], true
		}
	}
	return "", false
}

func fallback(rawName, rawKey string) string {
	if name := titleCase(rawName); name != "" {
		return name
	}
	if name := titleCase(rawKey); name != "" {
		return name
	}
	return "Unknown"
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// Casers are stateful, build one per call
	return cases.Title(language.French, cases.NoLower).String(s)
}

// ServiceIDs returns every known service id, sorted
func ServiceIDs() []string {
	out := make([]string, len(sortedServiceIDs))
	copy(out, sortedServiceIDs)
	return out
}

// ProviderIDs returns every known TMDB provider id, sorted
func ProviderIDs() []int {
	ids := make([]int, 0, len(providerIDToName))
	for id := range providerIDToName {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IsCanonical reports whether name is one of the canonical platform names
func IsCanonical(name string) bool {
	_, ok := canonicalNames[name]
	return ok
}

var canonicalNames = func() map[string]struct{} {
	names := make(map[string]struct{})
	for _, n := range serviceIDToName {
		names[n] = struct{}{}
	}
	for _, n := range providerIDToName {
		names[n] = struct{}{}
	}
	return names
}()
