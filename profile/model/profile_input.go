package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ProfileInput is a validated form submission. It is built fresh per request
// and treated as immutable once validated.
type ProfileInput struct {
	Role          string         `json:"role"`
	Seniority     Seniority      `json:"seniority"`
	TeamSize      int            `json:"teamSize"`
	DailyTasks    string         `json:"dailyTasks"`
	KPIs          string         `json:"kpis,omitempty"`
	PainPoint     string         `json:"painPoint,omitempty"`
	AIFamiliarity AIFamiliarity  `json:"aiFamiliarity"`
	LearningStyle LearningStyle  `json:"learningStyle"`
	TimePerWeek   TimeCommitment `json:"timePerWeek"`
}

// FormInput carries raw form values before parsing. Both JSON and urlencoded
// bodies bind into it.
type FormInput struct {
	Role          string  `json:"role" form:"role"`
	Seniority     string  `json:"seniority" form:"seniority"`
	TeamSize      FlexInt `json:"teamSize" form:"teamSize"`
	DailyTasks    string  `json:"dailyTasks" form:"dailyTasks"`
	KPIs          string  `json:"kpis" form:"kpis"`
	PainPoint     string  `json:"painPoint" form:"painPoint"`
	AIFamiliarity string  `json:"aiFamiliarity" form:"aiFamiliarity"`
	LearningStyle string  `json:"learningStyle" form:"learningStyle"`
	TimePerWeek   string  `json:"timePerWeek" form:"timePerWeek"`
}

// FromForm converts raw form values into a ProfileInput. Enum values fall
// back to the form defaults and unparsable team sizes become 0.
func FromForm(in FormInput) ProfileInput {
	return ProfileInput{
		Role:          strings.TrimSpace(in.Role),
		Seniority:     ParseSeniority(in.Seniority),
		TeamSize:      ParseTeamSize(string(in.TeamSize)),
		DailyTasks:    strings.TrimSpace(in.DailyTasks),
		KPIs:          strings.TrimSpace(in.KPIs),
		PainPoint:     strings.TrimSpace(in.PainPoint),
		AIFamiliarity: ParseAIFamiliarity(in.AIFamiliarity),
		LearningStyle: ParseLearningStyle(in.LearningStyle),
		TimePerWeek:   ParseTimeCommitment(in.TimePerWeek),
	}
}

// Validate checks the fields the pipeline cannot run without.
func (p ProfileInput) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Role) == "" {
		missing = append(missing, "role")
	}
	if strings.TrimSpace(p.DailyTasks) == "" {
		missing = append(missing, "dailyTasks")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// WantsTeamPilot reports whether the team pilot section applies to this profile.
func (p ProfileInput) WantsTeamPilot() bool {
	return p.TeamSize > 0 || p.Seniority.HasDecisionPower()
}

// ParseTeamSize parses a non-negative team size, returning 0 when the value is
// missing, malformed or negative.
func ParseTeamSize(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FlexInt holds a raw numeric form value. JSON bodies may send it as a number
// or a string; anything else decodes to "" so ParseTeamSize yields 0 instead
// of rejecting the whole body.
type FlexInt string

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexInt(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n.String())
		return nil
	}
	*f = ""
	return nil
}
