package model

import "strings"

// Seniority is the submitter's level of decision power.
type Seniority string

const (
	SeniorityIC       Seniority = "IC"
	SenioritySeniorIC Seniority = "SeniorIC"
	SeniorityManager  Seniority = "Manager"
	SeniorityDirector Seniority = "Director"
	SeniorityFounder  Seniority = "Founder"
	SeniorityStudent  Seniority = "Student"
)

// AIFamiliarity is the submitter's self-reported experience with AI tools.
type AIFamiliarity string

const (
	AIBeginner     AIFamiliarity = "Beginner"
	AIIntermediate AIFamiliarity = "Intermediate"
	AIAdvanced     AIFamiliarity = "Advanced"
)

// LearningStyle is how the submitter prefers to learn.
type LearningStyle string

const (
	LearningPractical LearningStyle = "Practical"
	LearningVideo     LearningStyle = "Video"
	LearningReading   LearningStyle = "Reading"
	LearningHandsOn   LearningStyle = "HandsOn"
)

// TimeCommitment is the weekly time the submitter can invest.
type TimeCommitment string

const (
	TimeUnder3h TimeCommitment = "<3h"
	Time3To5h   TimeCommitment = "3-5h"
	Time6To8h   TimeCommitment = "6-8h"
	TimeOver8h  TimeCommitment = "8+h"
)

// Option pairs an enum code with the label shown on the form.
type Option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Option tables are ordered as the form shows them; the first entry is the default.
var (
	SeniorityOptions = []Option{
		{Code: string(SeniorityIC), Label: "Individual Contributor"},
		{Code: string(SenioritySeniorIC), Label: "Senior IC"},
		{Code: string(SeniorityManager), Label: "Manager"},
		{Code: string(SeniorityDirector), Label: "Head / Director"},
		{Code: string(SeniorityFounder), Label: "Founder / CXO"},
		{Code: string(SeniorityStudent), Label: "Student / Early"},
	}
	AIFamiliarityOptions = []Option{
		{Code: string(AIBeginner), Label: "Beginner"},
		{Code: string(AIIntermediate), Label: "Intermediate"},
		{Code: string(AIAdvanced), Label: "Advanced"},
	}
	LearningStyleOptions = []Option{
		{Code: string(LearningPractical), Label: "Practical projects"},
		{Code: string(LearningVideo), Label: "Short videos + demos"},
		{Code: string(LearningReading), Label: "Read & implement"},
		{Code: string(LearningHandsOn), Label: "Hands-on workshops"},
	}
	TimeCommitmentOptions = []Option{
		{Code: string(TimeUnder3h), Label: "<3 hours"},
		{Code: string(Time3To5h), Label: "3-5 hours"},
		{Code: string(Time6To8h), Label: "6-8 hours"},
		{Code: string(TimeOver8h), Label: "8+ hours"},
	}
)

// ParseSeniority accepts a code or label, falling back to SeniorityIC.
func ParseSeniority(raw string) Seniority {
	return Seniority(lookup(SeniorityOptions, raw))
}

// ParseAIFamiliarity accepts a code or label, falling back to AIBeginner.
func ParseAIFamiliarity(raw string) AIFamiliarity {
	return AIFamiliarity(lookup(AIFamiliarityOptions, raw))
}

// ParseLearningStyle accepts a code or label, falling back to LearningPractical.
func ParseLearningStyle(raw string) LearningStyle {
	return LearningStyle(lookup(LearningStyleOptions, raw))
}

// ParseTimeCommitment accepts a code or label, falling back to TimeUnder3h.
func ParseTimeCommitment(raw string) TimeCommitment {
	return TimeCommitment(lookup(TimeCommitmentOptions, raw))
}

// Label returns the form label for the seniority.
func (s Seniority) Label() string { return label(SeniorityOptions, string(s)) }

// Label returns the form label for the familiarity level.
func (a AIFamiliarity) Label() string { return label(AIFamiliarityOptions, string(a)) }

// Label returns the form label for the learning style.
func (l LearningStyle) Label() string { return label(LearningStyleOptions, string(l)) }

// Label returns the form label for the time commitment.
func (t TimeCommitment) Label() string { return label(TimeCommitmentOptions, string(t)) }

// HasDecisionPower reports whether the level usually owns team or budget decisions.
func (s Seniority) HasDecisionPower() bool {
	switch s {
	case SeniorityManager, SeniorityDirector, SeniorityFounder:
		return true
	default:
		return false
	}
}

func lookup(options []Option, raw string) string {
	needle := strings.TrimSpace(raw)
	for _, opt := range options {
		if strings.EqualFold(opt.Code, needle) || strings.EqualFold(opt.Label, needle) {
			return opt.Code
		}
	}
	return options[0].Code
}

func label(options []Option, code string) string {
	for _, opt := range options {
		if opt.Code == code {
			return opt.Label
		}
	}
	return code
}
