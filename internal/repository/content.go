package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
	"github.com/aliskhannn/korean-tutor-bot/internal/validate"
)

var (
	ErrWordNotFound     = errors.New("word not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrInvalidContent   = errors.New("invalid content")
)

// VocabularyFile is the on-disk shape of the vocabulary.
type VocabularyFile struct {
	Words []entities.Word `json:"words" validate:"dive"`
}

// GrammarFile is the on-disk shape of the grammar lessons.
type GrammarFile struct {
	Lessons   []entities.Lesson   `json:"lessons" validate:"dive"`
	Exercises []entities.Exercise `json:"exercises"`
}

// ContentRepository provides read-only access to words, lessons and exercises.
// Progress for words and exercises shares one key space, so their IDs must
// not collide.
type ContentRepository struct {
	words     []entities.Word
	lessons   []entities.Lesson
	exercises []entities.Exercise

	wordIdx     map[string]int
	lessonIdx   map[string]int
	exerciseIdx map[string]int
	byLesson    map[string][]int
}

// LoadContent reads and validates the vocabulary and grammar files.
// An empty path skips the corresponding file.
func LoadContent(fs afero.Fs, vocabularyPath, grammarPath string) (*ContentRepository, error) {
	var vocab VocabularyFile
	if vocabularyPath != "" {
		if err := readJSON(fs, vocabularyPath, &vocab); err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
	}

	var grammar GrammarFile
	if grammarPath != "" {
		if err := readJSON(fs, grammarPath, &grammar); err != nil {
			return nil, fmt.Errorf("load grammar: %w", err)
		}
	}

	return NewContentRepository(vocab.Words, grammar.Lessons, grammar.Exercises)
}

// NewContentRepository validates the content and indexes it by ID.
func NewContentRepository(words []entities.Word, lessons []entities.Lesson, exercises []entities.Exercise) (*ContentRepository, error) {
	v := validate.New()

	if err := v.Struct(VocabularyFile{Words: words}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidContent, err)
	}
	if err := v.Struct(GrammarFile{Lessons: lessons}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidContent, err)
	}

	r := &ContentRepository{
		words:       words,
		lessons:     lessons,
		exercises:   exercises,
		wordIdx:     make(map[string]int, len(words)),
		lessonIdx:   make(map[string]int, len(lessons)),
		exerciseIdx: make(map[string]int, len(exercises)),
		byLesson:    make(map[string][]int, len(lessons)),
	}

	seen := make(map[string]string, len(words)+len(exercises))
	claim := func(id, what string) error {
		if strings.HasPrefix(id, entities.LessonKeyPrefix) {
			return fmt.Errorf("%w: %s id %q uses reserved prefix %q", ErrInvalidContent, what, id, entities.LessonKeyPrefix)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate id %q (%s and %s)", ErrInvalidContent, id, prev, what)
		}
		seen[id] = what
		return nil
	}

	for i, w := range words {
		if err := claim(w.ID, "word"); err != nil {
			return nil, err
		}
		r.wordIdx[w.ID] = i
	}

	for i, l := range lessons {
		if _, ok := r.lessonIdx[l.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate lesson id %q", ErrInvalidContent, l.ID)
		}
		r.lessonIdx[l.ID] = i
	}

	for i, e := range exercises {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidContent, err)
		}
		if _, ok := r.lessonIdx[e.LessonID]; !ok {
			return nil, fmt.Errorf("%w: exercise %q references unknown lesson %q", ErrInvalidContent, e.ID, e.LessonID)
		}
		if err := claim(e.ID, "exercise"); err != nil {
			return nil, err
		}
		r.exerciseIdx[e.ID] = i
		r.byLesson[e.LessonID] = append(r.byLesson[e.LessonID], i)
	}

	return r, nil
}

// Word returns the word with the given ID.
func (r *ContentRepository) Word(id string) (entities.Word, error) {
	i, ok := r.wordIdx[id]
	if !ok {
		return entities.Word{}, fmt.Errorf("%w: %s", ErrWordNotFound, id)
	}
	return r.words[i], nil
}

// Words returns every word in file order.
func (r *ContentRepository) Words() []entities.Word {
	return r.words
}

// WordIDs returns the IDs of every word in file order.
func (r *ContentRepository) WordIDs() []string {
	ids := make([]string, len(r.words))
	for i, w := range r.words {
		ids[i] = w.ID
	}
	return ids
}

// IsWord reports whether id names a vocabulary word.
func (r *ContentRepository) IsWord(id string) bool {
	_, ok := r.wordIdx[id]
	return ok
}

func (r *ContentRepository) Lesson(id string) (entities.Lesson, error) {
	i, ok := r.lessonIdx[id]
	if !ok {
		return entities.Lesson{}, fmt.Errorf("%w: %s", ErrLessonNotFound, id)
	}
	return r.lessons[i], nil
}

func (r *ContentRepository) Lessons() []entities.Lesson {
	return r.lessons
}

func (r *ContentRepository) Exercise(id string) (entities.Exercise, error) {
	i, ok := r.exerciseIdx[id]
	if !ok {
		return entities.Exercise{}, fmt.Errorf("%w: %s", ErrExerciseNotFound, id)
	}
	return r.exercises[i], nil
}

// IsExercise reports whether id names a grammar exercise.
func (r *ContentRepository) IsExercise(id string) bool {
	_, ok := r.exerciseIdx[id]
	return ok
}

// ExerciseIDs returns the IDs of every exercise in file order.
func (r *ContentRepository) ExerciseIDs() []string {
	ids := make([]string, len(r.exercises))
	for i, e := range r.exercises {
		ids[i] = e.ID
	}
	return ids
}

// LessonExerciseIDs returns the exercises of a lesson in file order.
func (r *ContentRepository) LessonExerciseIDs(lessonID string) ([]string, error) {
	if _, ok := r.lessonIdx[lessonID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrLessonNotFound, lessonID)
	}

	idx := r.byLesson[lessonID]
	ids := make([]string, len(idx))
	for i, j := range idx {
		ids[i] = r.exercises[j].ID
	}
	return ids, nil
}

func readJSON(fs afero.Fs, path string, v any) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidContent, path, err)
	}
	return nil
}
