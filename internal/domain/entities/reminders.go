package entities

// ReminderPayload carries what a review reminder tells the learner.
type ReminderPayload struct {
	Due      int // items due for review now
	Mastered int // items at level 4 or 5
	Total    int // items practiced so far
}
