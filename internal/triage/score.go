package triage

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	baseScore = 50

	recencyHourBoost = 30
	recencyDayBoost  = 20
	recencyWeekBoost = 10

	keywordBoost = 15

	largeFileMB        = 50
	hugeFileMB         = 500
	largeUnimportantAt = 70
)

// extensionWeights prefer content likely to matter to a person over bulk
// media. Communication first, then documents, then everything else.
var extensionWeights = map[string]int{
	"eml": 25, "msg": 25,
	"pdf": 15, "docx": 15, "doc": 15,
	"xlsx": 12, "xls": 12, "csv": 10,
	"txt": 8, "md": 8, "json": 8,
	"mp3": 12, "wav": 12, "m4a": 12, "flac": 10,
	"mp4": 8, "mkv": 8, "avi": 8, "mov": 8,
	"jpg": 5, "jpeg": 5, "png": 5, "tiff": 5,
	"zip": 3, "rar": 3, "7z": 3,
}

// priorityKeywords in a filename mark documents worth jumping the queue
// for. First match wins; the boost is applied once.
var priorityKeywords = []string{
	"vertrag", "contract", "rechnung", "invoice", "beleg",
	"passwort", "password", "geheim", "secret", "confidential",
	"steuer", "tax", "bank", "konto", "account",
	"wichtig", "urgent", "dringend", "asap",
	"bewerbung", "application", "zeugnis", "certificate",
}

// Score rates a file 0..100 for scheduling. Recent files, communication
// and document formats, and urgent-looking names score higher; very
// large files are pushed back unless already important.
func Score(path string, sizeBytes int64, modified, now time.Time) int {
	score := baseScore
	filename := strings.ToLower(filepath.Base(path))
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	age := now.Sub(modified)
	switch {
	case age < time.Hour:
		score += recencyHourBoost
	case age < 24*time.Hour:
		score += recencyDayBoost
	case age < 7*24*time.Hour:
		score += recencyWeekBoost
	}

	score += extensionWeights[ext]

	for _, keyword := range priorityKeywords {
		if strings.Contains(filename, keyword) {
			score += keywordBoost
			break
		}
	}

	sizeMB := float64(sizeBytes) / (1024 * 1024)
	if sizeMB > largeFileMB && score < largeUnimportantAt {
		score -= 10
	}
	if sizeMB > hugeFileMB {
		score -= 20
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Priority maps a 0..100 score onto the 1..10 job priority scale, where
// 6..10 lands in the interactive band.
func Priority(score int) int {
	p := score / 10
	if p < 1 {
		p = 1
	}
	if p > 10 {
		p = 10
	}
	return p
}

// ScorePriority combines Score and Priority for callers that only want
// the queue-facing number.
func ScorePriority(path string, sizeBytes int64, modified time.Time) int {
	return Priority(Score(path, sizeBytes, modified, time.Now()))
}
