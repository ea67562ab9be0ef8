// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - IncrementCounterRequest: captchaToken (optional)
  - SubmitSurveyRequest: answers, shareStory, selectedQuestion, captchaToken

# Response Types

Types for JSON responses:

  - CounterResponse: count
  - IncrementCounterResponse: success, count
  - SubmitSurveyResponse: success
  - StoriesResponse: stories (at most StoryFeedLimit)
  - ClientConfigResponse: public keys the browser needs
  - ErrorResponse: error, message, codes

# Domain Types

  - Story: a published answer to one of the fixed prompts
  - StoryView: the public shape of a Story (question text, not prompt ID)

# Prompts

The survey asks five fixed prompts:

	PromptMeaning    = "meaning"
	PromptMemorable  = "memorable"
	PromptChallenges = "challenges"
	PromptConnection = "connection"
	PromptAdvice     = "advice"

IsValidPrompt and PromptQuestion look them up.

# Broadcast Names

	CounterChannel / CounterEvent = "ldr-counter" / "counter-updated"
	StoryChannel / StoryEvent     = "ldr-stories" / "story-added"
*/
package models
