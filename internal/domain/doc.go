// Package domain models the regional catalogue of water resource objects
// (lakes, canals, reservoirs, locks, hydro-units) and the normalization
// applied to them before they reach the map and the expert dashboard.
//
// # Data Source
//
// Records come from two places: a catalogue export file with two arrays
// ("hydro_technical_structures" and "water_bodies_lakes"), and a stream of
// single records published to the Kafka source topic by the import job.
// Both carry free-text coordinates typed by surveyors, so the same position
// appears in many notations.
//
// # Coordinate Notations
//
// A single angle may be written as:
//
//	N 49º31'21"       hemisphere prefixed
//	49°31'21" N       hemisphere suffixed
//	42°47' N          no seconds
//	N 49°31'          no seconds, prefixed
//	42°47′ с. ш.      Russian idiom: "северной широты" (N), "восточной долготы" (E)
//
// Degree glyphs ° and º, minute marks ' and ′, and second marks " and ″ are
// interchangeable. Hemisphere tokens are Latin N/S/E/W, Cyrillic С/Ю/В/З, or
// the words север/юг/восток/запад, in any case. An unrecognized token maps to
// [DefaultHemisphere]. See [ParseSingleAngle].
//
// A point pair is split into a latitude and a longitude half by, in order:
// the Russian "с. ш. … в. д." layout, a literal separator scan, and finally
// the position of the second degree glyph. See [ParsePointPair].
//
// Lakes may instead carry an object with a "center" string or four bounds
// ("north", "south", "east", "west"); the bounds resolve to their midpoint.
// See [ParseBoundedRegion].
//
// Every failure wraps [ErrUnparseable]. Unparseable records are skipped by
// batch conversion and never placed on the map.
//
// # Priority
//
// Survey priority combines the condition category (1 best … 5 critical) and
// the passport age in whole years of 365.25 days:
//
//	score = category × 3 + age
//	score ≥ 15 high | score ≥ 9 medium | otherwise low
//
// Age is truncated toward zero, so a future-dated passport yields a negative
// age. See [ComputePriority].
//
// # ID Generation
//
// Object IDs are deterministic SHA-256 hashes of kind|name|region|lat|lon
// with a kind prefix ("hts-" or "lake-"). Re-importing the same record
// produces the same ID. See [generateID].
package domain
