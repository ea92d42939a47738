package importer

import (
	"regexp"
	"strings"
)

// Scoring tiers for header matching. A column is accepted for a field only
// above acceptThreshold; anything under warnThreshold is surfaced to the
// caller as a soft warning, never an error.
const (
	scoreExact      = 100
	scoreContainMin = 80
	scoreContainMax = 85
	scoreTokenScale = 60
	scoreEditScale  = 70

	acceptThreshold = 50
	warnThreshold   = 70
)

// FieldMatch records which column a canonical field resolved to and how
// confident the matcher is (0-100).
type FieldMatch struct {
	Column     int
	Confidence int
}

// FieldMapping maps canonical fields to their matched columns. It is
// ephemeral: recomputed per file, never persisted.
type FieldMapping map[Field]FieldMatch

// MappingWarning flags a low-confidence match for operator review.
type MappingWarning struct {
	Field      Field
	Header     string
	Column     int
	Confidence int
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeHeader lowercases, strips non-alphanumerics to spaces and
// collapses runs of whitespace.
func normalizeHeader(s string) string {
	s = strings.ToLower(CleanCell(s))
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// MatchHeaders infers which canonical field each raw header column holds.
// Each field independently picks its best-scoring column; two fields may
// settle on the same column and no global reconciliation is attempted.
func MatchHeaders(headers []string) (FieldMapping, []MappingWarning) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	mapping := make(FieldMapping)
	var warnings []MappingWarning

	for _, field := range allFields {
		bestCol, bestScore := -1, 0
		for col, header := range normalized {
			if header == "" {
				continue
			}
			if score := scoreField(field, header); score > bestScore {
				bestCol, bestScore = col, score
			}
		}
		if bestCol < 0 || bestScore <= acceptThreshold {
			continue
		}
		mapping[field] = FieldMatch{Column: bestCol, Confidence: bestScore}
		if bestScore < warnThreshold {
			warnings = append(warnings, MappingWarning{
				Field:      field,
				Header:     headers[bestCol],
				Column:     bestCol,
				Confidence: bestScore,
			})
		}
	}
	return mapping, warnings
}

// scoreField scores a normalized header against every known variant of a
// field, keeping the maximum.
func scoreField(field Field, header string) int {
	best := 0
	for _, variant := range fieldVariants[field] {
		if score := scoreVariant(header, variant); score > best {
			best = score
		}
	}
	return best
}

// scoreVariant applies the tiers in order: exact match, containment,
// token overlap, then edit-distance similarity as the fallback.
func scoreVariant(header, variant string) int {
	if header == variant {
		return scoreExact
	}

	if strings.Contains(header, variant) || strings.Contains(variant, header) {
		// Closer lengths mean the containment is more of the string.
		shorter, longer := len(header), len(variant)
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		span := scoreContainMax - scoreContainMin
		return scoreContainMin + span*shorter/longer
	}

	if overlap := tokenOverlap(header, variant); overlap > 0 {
		return int(overlap * scoreTokenScale)
	}

	return int(editSimilarity(header, variant) * scoreEditScale)
}

// tokenOverlap is shared whitespace-delimited words divided by the larger
// word count.
func tokenOverlap(a, b string) float64 {
	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	set := make(map[string]bool, len(aTokens))
	for _, t := range aTokens {
		set[t] = true
	}
	shared := 0
	for _, t := range bTokens {
		if set[t] {
			shared++
		}
	}

	max := len(aTokens)
	if len(bTokens) > max {
		max = len(bTokens)
	}
	return float64(shared) / float64(max)
}

// editSimilarity is 1 - levenshtein/maxLen.
func editSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein computes edit distance with a rolling single-row table.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			up := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			best := diag + cost
			if up+1 < best {
				best = up + 1
			}
			if row[j-1]+1 < best {
				best = row[j-1] + 1
			}
			row[j] = best
			diag = up
		}
	}
	return row[len(b)]
}
