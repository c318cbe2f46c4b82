package gates

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const maxEntityLength = 30

var unsafeEntityChars = regexp.MustCompile(`[<>:"/\\|?*\s]+`)

// GenerateFilename derives the canonical archive filename in the
// date_category_entity.ext form. Empty entity falls back to the original
// file stem, empty date to today. The entity is NFC-normalized so
// composed and decomposed umlauts hash and match identically.
func GenerateFilename(originalFilename, category, entity, date string) string {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))

	if entity == "" {
		entity = strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	}
	entity = norm.NFC.String(entity)
	entity = unsafeEntityChars.ReplaceAllString(entity, "_")
	if runes := []rune(entity); len(runes) > maxEntityLength {
		entity = string(runes[:maxEntityLength])
	}

	cleanCat := unsafeEntityChars.ReplaceAllString(CleanCategory(category), "")

	return date + "_" + cleanCat + "_" + entity + ext
}

// TargetFolder maps a category to its archive subdirectory. Unknown
// categories land in Sonstiges rather than spawning new folders.
func TargetFolder(archiveDir, category string) string {
	cleaned := CleanCategory(category)
	if _, ok := validCategories[cleaned]; !ok {
		cleaned = "Sonstiges"
	}
	return filepath.Join(archiveDir, cleaned)
}
