package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Hemisphere is the side of the equator or prime meridian an angle lies on.
type Hemisphere string

const (
	North Hemisphere = "N"
	South Hemisphere = "S"
	East  Hemisphere = "E"
	West  Hemisphere = "W"
)

// DefaultHemisphere is assigned to hemisphere tokens that match none of the
// known spellings. A west longitude with a mistyped marker therefore comes
// out as a positive value.
const DefaultHemisphere = North

var (
	// ErrUnparseable is wrapped by every coordinate parsing failure.
	ErrUnparseable = errors.New("unparseable coordinate")

	// ErrNoAnglePattern means the text matched none of the angle notations.
	ErrNoAnglePattern = fmt.Errorf("%w: no recognizable angle pattern", ErrUnparseable)

	// ErrNoPairSplit means a point pair could not be divided into two angles.
	ErrNoPairSplit = fmt.Errorf("%w: fewer than two degree values", ErrUnparseable)

	// ErrInvalidHalf means the pair was split but one half is not an angle.
	ErrInvalidHalf = fmt.Errorf("%w: pair component is not an angle", ErrUnparseable)

	// ErrInsufficientRegion means a region has neither a center nor all four bounds.
	ErrInsufficientRegion = fmt.Errorf("%w: region needs a center or all four bounds", ErrUnparseable)

	// ErrOutOfRange means a component or the resulting degrees are outside valid bounds.
	ErrOutOfRange = fmt.Errorf("%w: value out of range", ErrUnparseable)
)

// ParsedAngle is one angle in degrees-minutes-seconds notation.
type ParsedAngle struct {
	Degrees    int
	Minutes    int
	Seconds    float64
	Hemisphere Hemisphere
}

// Decimal converts the angle to decimal degrees, negative for S and W.
func (a ParsedAngle) Decimal() float64 {
	v := float64(a.Degrees) + float64(a.Minutes)/60 + a.Seconds/3600
	if a.Hemisphere == South || a.Hemisphere == West {
		return -v
	}
	return v
}

// String renders the canonical prefixed form, e.g. N 49°31'21".
// ParseSingleAngle reads it back to the same value.
func (a ParsedAngle) String() string {
	return fmt.Sprintf("%s %d°%d'%s\"", a.Hemisphere, a.Degrees, a.Minutes,
		strconv.FormatFloat(a.Seconds, 'f', -1, 64))
}

// DecimalCoordinate is a validated WGS-84 position in decimal degrees.
type DecimalCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CoordinateRegion is the structured coordinate form found on lake records.
type CoordinateRegion struct {
	Center string `json:"center,omitempty"`
	North  string `json:"north,omitempty"`
	South  string `json:"south,omitempty"`
	East   string `json:"east,omitempty"`
	West   string `json:"west,omitempty"`
}

const hemiToken = `(север|юг|восток|запад|[NSEWСЮВЗ])`

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Russian cardinal idioms, tolerant to periods, spacing and case.
	northIdiomRe = regexp.MustCompile(`(?i)с(?:\.\s*|\s+)ш\.?`)
	eastIdiomRe  = regexp.MustCompile(`(?i)в(?:\.\s*|\s+)д\.?`)

	// idiomAngleRe picks the degree/minute pair out of an idiom string.
	// Seconds are optional and default to zero.
	idiomAngleRe = regexp.MustCompile(`(\d+)°\s*(\d+)'(?:\s*(\d+(?:\.\d+)?)")?`)

	prefixedDMSRe = regexp.MustCompile(`(?i)` + hemiToken + `\s*(\d+)°\s*(\d+)'\s*(\d+(?:\.\d+)?)"?`)
	suffixedDMSRe = regexp.MustCompile(`(?i)(\d+)°\s*(\d+)'\s*(\d+(?:\.\d+)?)"?\s*` + hemiToken)
	suffixedDMRe  = regexp.MustCompile(`(?i)(\d+)°\s*(\d+)'\s*` + hemiToken)
	prefixedDMRe  = regexp.MustCompile(`(?i)` + hemiToken + `\s*(\d+)°\s*(\d+)'`)

	// russianPairRe splits "<lat> с. ш. <lon> в. д.".
	russianPairRe = regexp.MustCompile(`(?i)(.+?)\s+(с\.?\s*ш\.?)\s+(.+?)\s+(в\.?\s*д\.?)`)

	// degreeRe finds degree values in the raw, un-normalized text.
	degreeRe = regexp.MustCompile(`\d+[°º]`)

	glyphReplacer = strings.NewReplacer(
		"º", "°",
		"′", "'",
		"″", `"`,
	)
)

// pairSeparators is scanned in order; the first one found past index 0 wins.
var pairSeparators = []string{
	" в. д.", " в.д.", " В. Д.", " В.Д.",
	"в. д.", "в.д.", "В. Д.", "В.Д.",
	",", ";",
	" E", "E", "В",
}

// eastMarkers are separators that belong to the longitude and are put back on it.
var eastMarkers = map[string]bool{
	"E": true, "В": true,
	"в. д.": true, "в.д.": true, "В. Д.": true, "В.Д.": true,
}

// normalizeAngleText collapses whitespace and folds glyph variants.
func normalizeAngleText(s string) string {
	s = glyphReplacer.Replace(strings.TrimSpace(s))
	return whitespaceRe.ReplaceAllString(s, " ")
}

// CanonicalizeHemisphere maps a Latin, Cyrillic, or word hemisphere token to
// its Hemisphere. Unknown tokens yield DefaultHemisphere.
func CanonicalizeHemisphere(token string) Hemisphere {
	upper := strings.ToUpper(strings.TrimSpace(token))
	switch {
	case upper == "N" || upper == "С" || strings.Contains(upper, "СЕВЕР"):
		return North
	case upper == "S" || upper == "Ю" || strings.Contains(upper, "ЮГ"):
		return South
	case upper == "E" || upper == "В" || strings.Contains(upper, "ВОСТОК"):
		return East
	case upper == "W" || upper == "З" || strings.Contains(upper, "ЗАПАД"):
		return West
	default:
		return DefaultHemisphere
	}
}

// ParseSingleAngle reads one DMS angle in any supported notation.
// The Russian idioms are checked before the hemisphere-letter patterns.
func ParseSingleAngle(text string) (ParsedAngle, error) {
	s := normalizeAngleText(text)

	if angle, ok := matchIdiom(s); ok {
		return checkAngle(angle, text)
	}

	if m := prefixedDMSRe.FindStringSubmatch(s); m != nil {
		return buildAngle(text, m[1], m[2], m[3], m[4])
	}
	if m := suffixedDMSRe.FindStringSubmatch(s); m != nil {
		return buildAngle(text, m[4], m[1], m[2], m[3])
	}
	if m := suffixedDMRe.FindStringSubmatch(s); m != nil {
		return buildAngle(text, m[3], m[1], m[2], "")
	}
	if m := prefixedDMRe.FindStringSubmatch(s); m != nil {
		return buildAngle(text, m[1], m[2], m[3], "")
	}

	return ParsedAngle{}, fmt.Errorf("%w: %q", ErrNoAnglePattern, text)
}

func matchIdiom(s string) (ParsedAngle, bool) {
	var hemi Hemisphere
	switch {
	case northIdiomRe.MatchString(s):
		hemi = North
	case eastIdiomRe.MatchString(s):
		hemi = East
	default:
		return ParsedAngle{}, false
	}

	m := idiomAngleRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedAngle{}, false
	}
	deg, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	var secs float64
	if m[3] != "" {
		secs, _ = strconv.ParseFloat(m[3], 64)
	}
	return ParsedAngle{Degrees: deg, Minutes: mins, Seconds: secs, Hemisphere: hemi}, true
}

func buildAngle(text, hemi, deg, mins, secs string) (ParsedAngle, error) {
	d, err := strconv.Atoi(deg)
	if err != nil {
		return ParsedAngle{}, fmt.Errorf("%w: degrees %q", ErrOutOfRange, deg)
	}
	m, err := strconv.Atoi(mins)
	if err != nil {
		return ParsedAngle{}, fmt.Errorf("%w: minutes %q", ErrOutOfRange, mins)
	}
	var s float64
	if secs != "" {
		if s, err = strconv.ParseFloat(secs, 64); err != nil {
			return ParsedAngle{}, fmt.Errorf("%w: seconds %q", ErrOutOfRange, secs)
		}
	}
	return checkAngle(ParsedAngle{
		Degrees:    d,
		Minutes:    m,
		Seconds:    s,
		Hemisphere: CanonicalizeHemisphere(hemi),
	}, text)
}

func checkAngle(a ParsedAngle, text string) (ParsedAngle, error) {
	if a.Degrees > 180 || a.Minutes > 59 || a.Seconds > 60 {
		return ParsedAngle{}, fmt.Errorf("%w: %q", ErrOutOfRange, text)
	}
	return a, nil
}

// DMSToDecimal parses a single angle and returns it in decimal degrees.
func DMSToDecimal(text string) (float64, error) {
	a, err := ParseSingleAngle(text)
	if err != nil {
		return 0, err
	}
	return a.Decimal(), nil
}

// ParsePointPair reads a string holding both latitude and longitude.
func ParsePointPair(text string) (DecimalCoordinate, error) {
	latStr, lonStr := splitPair(text)
	if latStr == "" || lonStr == "" {
		return DecimalCoordinate{}, fmt.Errorf("%w: %q", ErrNoPairSplit, text)
	}

	lat, err := DMSToDecimal(latStr)
	if err != nil {
		return DecimalCoordinate{}, fmt.Errorf("%w: latitude %q: %w", ErrInvalidHalf, latStr, err)
	}
	lon, err := DMSToDecimal(lonStr)
	if err != nil {
		return DecimalCoordinate{}, fmt.Errorf("%w: longitude %q: %w", ErrInvalidHalf, lonStr, err)
	}

	return newCoordinate(lat, lon, text)
}

// splitPair returns the latitude and longitude halves, or empty strings when
// no strategy applies.
func splitPair(text string) (string, string) {
	collapsed := whitespaceRe.ReplaceAllString(text, " ")
	if m := russianPairRe.FindStringSubmatch(collapsed); m != nil {
		return strings.TrimSpace(m[1] + " " + m[2]), strings.TrimSpace(m[3] + " " + m[4])
	}

	var lat, lon string
	for _, sep := range pairSeparators {
		idx := strings.Index(text, sep)
		if idx <= 0 {
			continue
		}
		lat = strings.TrimSpace(text[:idx])
		lon = strings.TrimSpace(text[idx+len(sep):])
		if marker := strings.TrimSpace(sep); eastMarkers[marker] {
			lon = strings.TrimSpace(marker + " " + lon)
		}
		break
	}
	if lat != "" && lon != "" {
		return lat, lon
	}

	locs := degreeRe.FindAllStringIndex(text, 2)
	if len(locs) < 2 {
		return "", ""
	}
	second := locs[1][0]
	return strings.TrimSpace(text[:second]), strings.TrimSpace(text[second:])
}

// ParseBoundedRegion resolves a structured region to a single position:
// the center if present, otherwise the midpoint of the four bounds.
func ParseBoundedRegion(r CoordinateRegion) (DecimalCoordinate, error) {
	if r.Center != "" {
		return ParsePointPair(r.Center)
	}
	if r.North == "" || r.South == "" || r.East == "" || r.West == "" {
		return DecimalCoordinate{}, ErrInsufficientRegion
	}

	bounds := [4]float64{}
	for i, s := range []string{r.North, r.South, r.East, r.West} {
		v, err := DMSToDecimal(s)
		if err != nil {
			return DecimalCoordinate{}, fmt.Errorf("region bound %q: %w", s, err)
		}
		bounds[i] = v
	}

	return newCoordinate((bounds[0]+bounds[1])/2, (bounds[2]+bounds[3])/2, r.North)
}

// ParseCoordinateField resolves either form of a record's coordinates.
func ParseCoordinateField(f CoordinateField) (DecimalCoordinate, error) {
	if f.Region != nil {
		return ParseBoundedRegion(*f.Region)
	}
	if strings.TrimSpace(f.Text) == "" {
		return DecimalCoordinate{}, fmt.Errorf("%w: empty coordinates", ErrNoPairSplit)
	}
	return ParsePointPair(f.Text)
}

func newCoordinate(lat, lon float64, text string) (DecimalCoordinate, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return DecimalCoordinate{}, fmt.Errorf("%w: lat=%.6f lon=%.6f from %q", ErrOutOfRange, lat, lon, text)
	}
	return DecimalCoordinate{Latitude: lat, Longitude: lon}, nil
}
