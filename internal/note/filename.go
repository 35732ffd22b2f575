package note

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Paintersrp/notesearch/internal/constants"
)

// ErrMalformedFilename marks a note filename that does not follow the
// <id>-...-<Title>.md convention.
var ErrMalformedFilename = errors.New("malformed note filename")

// ParseFilename derives the note id and title from a path of the form
// "<id>-<date>-<Title_With_Underscores>.md". Only the final path element is
// considered.
func ParseFilename(path string) (int, string, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(stem, "-")
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q has no numeric id prefix", ErrMalformedFilename, base)
	}

	title := strings.ReplaceAll(parts[len(parts)-1], "_", " ")
	return id, title, nil
}

// FormatFilename builds the on-disk name for a note. Hyphens in the title are
// replaced so the title survives ParseFilename.
func FormatFilename(id int, created time.Time, title string) string {
	cleaned := strings.TrimSpace(title)
	cleaned = strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(cleaned)
	return fmt.Sprintf("%d-%s-%s%s", id, created.Format("01-02-2006"), cleaned, constants.NoteExt)
}
