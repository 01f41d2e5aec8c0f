package entities

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownExerciseKind = errors.New("unknown exercise kind")
	ErrInvalidExercise     = errors.New("invalid exercise")
)

// ExerciseKind tags the payload carried by an Exercise.
type ExerciseKind string

const (
	KindMultipleChoice   ExerciseKind = "multiple_choice"
	KindFillInBlank      ExerciseKind = "fill_in_blank"
	KindSentenceBuilding ExerciseKind = "sentence_building"
)

// BlankMarker marks the gap in a fill-in-the-blank sentence.
const BlankMarker = "{blank}"

// ExercisePayload is implemented by the kind-specific part of an exercise.
type ExercisePayload interface {
	Kind() ExerciseKind
	validate() error
}

// MultipleChoice asks to pick one of the options.
type MultipleChoice struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

func (MultipleChoice) Kind() ExerciseKind { return KindMultipleChoice }

func (p MultipleChoice) validate() error {
	if len(p.Options) < 2 {
		return fmt.Errorf("%w: multiple choice needs at least two options", ErrInvalidExercise)
	}
	if p.CorrectIndex < 0 || p.CorrectIndex >= len(p.Options) {
		return fmt.Errorf("%w: correct index %d out of range", ErrInvalidExercise, p.CorrectIndex)
	}
	return nil
}

// FillInBlank asks to type the missing part of a sentence.
type FillInBlank struct {
	Sentence          string   `json:"sentence"`
	CorrectAnswer     string   `json:"correctAnswer"`
	AcceptableAnswers []string `json:"acceptableAnswers,omitempty"`
}

func (FillInBlank) Kind() ExerciseKind { return KindFillInBlank }

func (p FillInBlank) validate() error {
	if p.CorrectAnswer == "" {
		return fmt.Errorf("%w: fill in blank without correct answer", ErrInvalidExercise)
	}
	return nil
}

// Answers returns the canonical answer followed by the accepted alternates.
func (p FillInBlank) Answers() []string {
	out := make([]string, 0, len(p.AcceptableAnswers)+1)
	out = append(out, p.CorrectAnswer)
	return append(out, p.AcceptableAnswers...)
}

// SentenceBuilding asks to arrange words into a sentence.
type SentenceBuilding struct {
	Words         []string `json:"words"`
	CorrectOrder  []int    `json:"correctOrder"`
	EnglishPrompt string   `json:"englishPrompt"`
}

func (SentenceBuilding) Kind() ExerciseKind { return KindSentenceBuilding }

func (p SentenceBuilding) validate() error {
	if len(p.Words) == 0 || len(p.CorrectOrder) != len(p.Words) {
		return fmt.Errorf("%w: correct order must cover every word", ErrInvalidExercise)
	}

	seen := make([]bool, len(p.Words))
	for _, idx := range p.CorrectOrder {
		if idx < 0 || idx >= len(p.Words) || seen[idx] {
			return fmt.Errorf("%w: correct order is not a permutation", ErrInvalidExercise)
		}
		seen[idx] = true
	}
	return nil
}

// CorrectSentence joins the words in the correct order.
func (p SentenceBuilding) CorrectSentence() []string {
	out := make([]string, 0, len(p.CorrectOrder))
	for _, idx := range p.CorrectOrder {
		out = append(out, p.Words[idx])
	}
	return out
}

// Exercise is a grammar exercise. The common header is shared by every kind;
// Payload holds exactly one of *MultipleChoice, *FillInBlank or *SentenceBuilding.
type Exercise struct {
	ID          string
	LessonID    string
	Difficulty  int
	Instruction string
	Explanation string
	Payload     ExercisePayload
}

// Kind returns the payload tag, or an empty kind when no payload is set.
func (e Exercise) Kind() ExerciseKind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

// Validate checks the header and the payload.
func (e Exercise) Validate() error {
	if e.ID == "" || e.LessonID == "" {
		return fmt.Errorf("%w: id and lesson id are required", ErrInvalidExercise)
	}
	if e.Payload == nil {
		return fmt.Errorf("%w: exercise %s", ErrUnknownExerciseKind, e.ID)
	}
	if err := e.Payload.validate(); err != nil {
		return fmt.Errorf("exercise %s: %w", e.ID, err)
	}
	return nil
}

type exerciseHeader struct {
	ID          string       `json:"id"`
	LessonID    string       `json:"lessonId"`
	Type        ExerciseKind `json:"type"`
	Difficulty  int          `json:"difficulty"`
	Instruction string       `json:"instruction"`
	Explanation string       `json:"explanation,omitempty"`
}

// exerciseWire is the flat JSON shape: header fields plus the payload fields of one kind.
type exerciseWire struct {
	exerciseHeader
	*MultipleChoice
	*FillInBlank
	*SentenceBuilding
}

// MarshalJSON writes the exercise as a single flat object tagged by "type".
func (e Exercise) MarshalJSON() ([]byte, error) {
	w := exerciseWire{
		exerciseHeader: exerciseHeader{
			ID:          e.ID,
			LessonID:    e.LessonID,
			Type:        e.Kind(),
			Difficulty:  e.Difficulty,
			Instruction: e.Instruction,
			Explanation: e.Explanation,
		},
	}

	switch p := e.Payload.(type) {
	case *MultipleChoice:
		w.MultipleChoice = p
	case *FillInBlank:
		w.FillInBlank = p
	case *SentenceBuilding:
		w.SentenceBuilding = p
	case MultipleChoice:
		w.MultipleChoice = &p
	case FillInBlank:
		w.FillInBlank = &p
	case SentenceBuilding:
		w.SentenceBuilding = &p
	case nil:
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownExerciseKind, p)
	}

	return json.Marshal(w)
}

// UnmarshalJSON reads the flat object and decodes the payload selected by "type".
func (e *Exercise) UnmarshalJSON(data []byte) error {
	var head exerciseHeader
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	var payload ExercisePayload
	switch head.Type {
	case KindMultipleChoice:
		payload = new(MultipleChoice)
	case KindFillInBlank:
		payload = new(FillInBlank)
	case KindSentenceBuilding:
		payload = new(SentenceBuilding)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownExerciseKind, head.Type)
	}

	if err := json.Unmarshal(data, payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", head.Type, err)
	}

	*e = Exercise{
		ID:          head.ID,
		LessonID:    head.LessonID,
		Difficulty:  head.Difficulty,
		Instruction: head.Instruction,
		Explanation: head.Explanation,
		Payload:     payload,
	}
	return nil
}
