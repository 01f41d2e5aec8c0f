// Package entities contains domain entities used across the application.
package entities

// Word is a single vocabulary item.
type Word struct {
	ID       string `json:"id" validate:"required"`       // stable identifier, e.g. "w-001"
	Korean   string `json:"korean" validate:"required"`   // 안녕하세요
	English  string `json:"english" validate:"required"`  // hello (formal)
	Chapter  int    `json:"chapter" validate:"gte=0"`     // textbook chapter, 0 when unknown
	Category string `json:"category"`                     // greetings, verbs, etc.
	Notes    string `json:"notes,omitempty"`              // usage context, example sentences
}

// Lesson groups grammar exercises.
type Lesson struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Chapter     int    `json:"chapter" validate:"gte=0"`
}
