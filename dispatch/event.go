package dispatch

import "fmt"

// Event is a message carried by the Bus. The set of events is closed: only the
// types declared in this file implement it, so a type switch over Event can
// cover every case.
type Event interface {
	isEvent()
}

// AskQuestion is published by the UI when the user submits a question.
type AskQuestion struct {
	Text string
}

// RespondToQuestion is published by the assistant once it has an answer.
type RespondToQuestion struct {
	Question string
	Answer   string
}

// QuestionTextChanged is published on every edit of the question field.
type QuestionTextChanged struct {
	Text string
}

// NewAnimationStarted is published when a scheduler picks a new clip.
type NewAnimationStarted struct {
	Name string
}

// NewFrameToRender is published each time a scheduler advances to a new frame.
type NewFrameToRender struct{}

func (AskQuestion) isEvent()         {}
func (RespondToQuestion) isEvent()   {}
func (QuestionTextChanged) isEvent() {}
func (NewAnimationStarted) isEvent() {}
func (NewFrameToRender) isEvent()    {}

func (e AskQuestion) String() string { return fmt.Sprintf("AskQuestion(%q)", e.Text) }
func (e RespondToQuestion) String() string {
	return fmt.Sprintf("RespondToQuestion(%q, %q)", e.Question, e.Answer)
}
func (e QuestionTextChanged) String() string { return fmt.Sprintf("QuestionTextChanged(%q)", e.Text) }
func (e NewAnimationStarted) String() string { return fmt.Sprintf("NewAnimationStarted(%q)", e.Name) }
func (NewFrameToRender) String() string      { return "NewFrameToRender" }
