package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

// Workbook columns, in order: id, korean, english, chapter, category, notes.
const (
	colID = iota
	colKorean
	colEnglish
	colChapter
	colCategory
	colNotes
)

var errWordRowIncomplete = errors.New("id, korean and english cells are required")

// WorkbookImport is the outcome of importing a vocabulary workbook.
type WorkbookImport struct {
	Words   []entities.Word
	Skipped []string // one message per rejected row
}

// ImportWorkbook reads vocabulary from the first sheet of an .xlsx workbook.
// The first row is a header. Rows without an id, korean or english cell are
// skipped and reported.
func ImportWorkbook(r io.Reader) (*WorkbookImport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidContent)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	res := &WorkbookImport{}
	seen := make(map[string]struct{})

	for i, row := range rows {
		if i == 0 {
			continue
		}

		word, err := parseWordRow(row)
		if err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if _, dup := seen[word.ID]; dup {
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d: duplicate id %q", i+1, word.ID))
			continue
		}
		seen[word.ID] = struct{}{}
		res.Words = append(res.Words, word)
	}

	return res, nil
}

// WriteVocabulary writes words as a vocabulary content file.
func WriteVocabulary(fs afero.Fs, path string, words []entities.Word) error {
	data, err := json.MarshalIndent(VocabularyFile{Words: words}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write vocabulary: %w", err)
	}
	return nil
}

func parseWordRow(row []string) (entities.Word, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	word := entities.Word{
		ID:       cell(colID),
		Korean:   cell(colKorean),
		English:  cell(colEnglish),
		Category: cell(colCategory),
		Notes:    cell(colNotes),
	}

	if word.ID == "" || word.Korean == "" || word.English == "" {
		return entities.Word{}, errWordRowIncomplete
	}

	if ch := cell(colChapter); ch != "" {
		n, err := strconv.Atoi(ch)
		if err != nil || n < 0 {
			return entities.Word{}, fmt.Errorf("invalid chapter %q", ch)
		}
		word.Chapter = n
	}

	return word, nil
}
