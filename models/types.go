package models

import "time"

// CounterID identifies the single shared counter record
const CounterID = "ldr-counter"

// Broadcast channels and events
const (
	CounterChannel = "ldr-counter"
	CounterEvent   = "counter-updated"
	StoryChannel   = "ldr-stories"
	StoryEvent     = "story-added"
)

// StoryFeedLimit caps how many stories are returned and broadcast
const StoryFeedLimit = 6

// MaxAnswerLength is the longest accepted answer, in characters
const MaxAnswerLength = 5000

// Prompt IDs
const (
	PromptMeaning    = "meaning"
	PromptMemorable  = "memorable"
	PromptChallenges = "challenges"
	PromptConnection = "connection"
	PromptAdvice     = "advice"
)

var promptQuestions = map[string]string{
	PromptMeaning:    "What does being in a long-distance relationship mean to you?",
	PromptMemorable:  "Can you share a memorable moment from your relationship?",
	PromptChallenges: "What challenges do you face in maintaining your relationship?",
	PromptConnection: "How do you stay connected despite the distance?",
	PromptAdvice:     "What advice would you give to others in long-distance relationships?",
}

// PromptIDs lists the prompts in the order the survey asks them
var PromptIDs = []string{PromptMeaning, PromptMemorable, PromptChallenges, PromptConnection, PromptAdvice}

// IsValidPrompt reports whether id is one of the fixed prompts
func IsValidPrompt(id string) bool {
	_, ok := promptQuestions[id]
	return ok
}

// PromptQuestion returns the question text for a prompt ID, or "" if unknown
func PromptQuestion(id string) string {
	return promptQuestions[id]
}

// Request types

type IncrementCounterRequest struct {
	CaptchaToken string `json:"captchaToken,omitempty"`
}

// promptID -> answer text
type SubmitSurveyRequest struct {
	Answers          map[string]string `json:"answers"`
	ShareStory       bool              `json:"shareStory"`
	SelectedQuestion string            `json:"selectedQuestion,omitempty"`
	CaptchaToken     string            `json:"captchaToken"`
}

// Response types

type CounterResponse struct {
	Count int64 `json:"count"`
}

type IncrementCounterResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

type SubmitSurveyResponse struct {
	Success bool `json:"success"`
}

type StoriesResponse struct {
	Stories []StoryView `json:"stories"`
}

type ClientConfigResponse struct {
	RecaptchaSiteKey string `json:"recaptchaSiteKey"`
	PusherKey        string `json:"pusherKey"`
	PusherCluster    string `json:"pusherCluster"`
}

// Domain types

// Story is a published survey answer. It carries no link to the submitter.
type Story struct {
	ID          string
	Prompt      string
	Answer      string
	SubmittedAt time.Time
	Approved    bool
}

// StoryView is the public JSON shape of a story
type StoryView struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// View renders a story for API responses and broadcasts
func (s Story) View() StoryView {
	return StoryView{
		ID:        s.ID,
		Question:  PromptQuestion(s.Prompt),
		Answer:    s.Answer,
		Timestamp: s.SubmittedAt.UTC(),
	}
}

// StoryViews renders a list of stories, never returning nil
func StoryViews(stories []Story) []StoryView {
	views := make([]StoryView, 0, len(stories))
	for _, s := range stories {
		views = append(views, s.View())
	}
	return views
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Codes   []string `json:"codes,omitempty"`
}
