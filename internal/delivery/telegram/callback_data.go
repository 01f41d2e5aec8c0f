package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/korean-tutor-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionChoice   = "choice"
	actionSkip     = "skip"
	actionPractice = "practice"
	actionProgress = "progress"
	actionReset    = "reset"
)

// Reset sub-actions.
const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildChoiceCallback answers question itemID with option index.
func buildChoiceCallback(itemID string, index int) string {
	return callbackData{
		Action: actionChoice,
		Params: []string{itemID, strconv.Itoa(index)},
	}.encode()
}

// parseChoiceCallback reads the item and the option of a choice callback.
// Item IDs may contain colons, the option index is always last.
func parseChoiceCallback(cd callbackData) (itemID string, index int, ok bool) {
	if cd.Action != actionChoice || len(cd.Params) < 2 {
		return "", 0, false
	}

	last := len(cd.Params) - 1
	index, err := strconv.Atoi(cd.Params[last])
	if err != nil || index < 0 {
		return "", 0, false
	}

	return strings.Join(cd.Params[:last], ":"), index, true
}

func buildSkipCallback() string {
	return callbackData{Action: actionSkip}.encode()
}

// buildPracticeCallback starts a session of mode from a button.
func buildPracticeCallback(mode entities.SessionMode) string {
	return callbackData{
		Action: actionPractice,
		Params: []string{string(mode)},
	}.encode()
}

func buildProgressCallback() string {
	return callbackData{Action: actionProgress}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}

// buildLessonCallback starts a practice session over one lesson.
func buildLessonCallback(lessonID string) string {
	return callbackData{
		Action: actionPractice,
		Params: []string{string(entities.ModeLesson), lessonID},
	}.encode()
}
