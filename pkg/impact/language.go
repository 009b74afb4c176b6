package impact

import (
	"path/filepath"

	"github.com/src-d/enry/v2"
)

// languageOf guesses the language of a changed path. Only the name is
// available here, no blob content, so detection runs on the filename and
// extension strategies alone.
func languageOf(path string) string {
	lang := enry.GetLanguage(filepath.Base(path), nil)
	if lang == "" {
		lang = "other"
	}

	return lang
}

// addLanguage charges one delta's counts to the language of its path.
func addLanguage(rec *UserImpact, path string, insertions, deletions int) {
	if rec.Languages == nil {
		rec.Languages = make(map[string]LineStats)
	}

	lang := languageOf(path)
	ls := rec.Languages[lang]
	ls.Insertions += insertions
	ls.Deletions += deletions
	rec.Languages[lang] = ls
}
