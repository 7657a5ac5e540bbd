package utils

import (
	"strings"
	"unicode"
)

// MaskedPlaceholder is shown when there is no name to mask.
const MaskedPlaceholder = "Anonim"

// maxMaskRun caps the asterisk run so pathological token lengths don't blow
// up the output.
const maxMaskRun = 10

// MaskName anonymizes a display name: each word keeps its first letter
// (uppercased) followed by one asterisk per remaining character.
// "Ada Lovelace" -> "A** L*******".
func MaskName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return MaskedPlaceholder
	}
	masked := make([]string, 0, len(fields))
	for _, token := range fields {
		runes := []rune(token)
		run := len(runes) - 1
		if run > maxMaskRun {
			run = maxMaskRun
		}
		masked = append(masked, string(unicode.ToUpper(runes[0]))+strings.Repeat("*", run))
	}
	return strings.Join(masked, " ")
}

// DisplayName applies masking policy for an author as seen by a viewer.
// Brand/verified authors and the viewer's own name are shown unmasked.
func DisplayName(authorID, authorName string, verified bool, viewerID string) string {
	if verified || (viewerID != "" && viewerID == authorID) {
		if authorName == "" {
			return MaskedPlaceholder
		}
		return authorName
	}
	return MaskName(authorName)
}
