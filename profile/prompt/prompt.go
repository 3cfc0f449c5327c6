package prompt

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"profile-backend/internal/shared/util"
	"profile-backend/profile/model"
)

// Version identifies the template embedded below.
const Version = "career_profile_v1"

// MaxWords is the output length ceiling written into the prompt.
const MaxWords = 450

//go:embed templates/career_profile_v1.txt
var careerProfileV1 string

// Section is one entry of the fixed output contract.
type Section struct {
	Marker string
	Label  string
	Hint   string
}

// Team pilot hints. The model still makes the final call on section 7.
const (
	teamPilotInclude = "For this person: include section 7."
	teamPilotOmit    = "For this person: omit section 7 unless the inputs clearly show decision authority."
)

var sections = []Section{
	{Marker: "🎯", Label: "ONE-LINER SUMMARY"},
	{Marker: "🎭", Label: "YOUR AI PERSONALITY TYPE", Hint: "choose one"},
	{Marker: "🚀", Label: "TOP 3 HIGH-IMPACT USE CASES", Hint: "WHAT / IMPACT / FIRST STEP"},
	{Marker: "💼", Label: "BUSINESS IMPACT & QUICK ROI", Hint: "persona tailored"},
	{Marker: "🧭", Label: "6-WEEK ROADMAP", Hint: "1 line each week"},
	{Marker: "🛠", Label: "TOOL + ONE STARTER PROJECT", Hint: "no-code if non-tech"},
	{Marker: "👥", Label: "TEAM PILOT / SCALE", Hint: "IF decision power or team_size > 0"},
	{Marker: "💬", Label: "SHORT PROOFLINE", Hint: "1 sentence"},
	{Marker: "👋", Label: "SOFT CTA", Hint: "persona-specific"},
}

// Sections returns the ordered output sections the prompt asks for.
func Sections() []Section {
	return append([]Section(nil), sections...)
}

// Compile renders the profile into the instruction sent to the completion
// service. User text is embedded verbatim; any escaping policy belongs here.
func Compile(p model.ProfileInput) string {
	replacer := strings.NewReplacer(
		"{{ROLE}}", p.Role,
		"{{SENIORITY}}", p.Seniority.Label(),
		"{{TEAM_SIZE}}", strconv.Itoa(p.TeamSize),
		"{{DAILY_TASKS}}", p.DailyTasks,
		"{{KPIS}}", p.KPIs,
		"{{PAIN_POINT}}", p.PainPoint,
		"{{AI_FAMILIARITY}}", p.AIFamiliarity.Label(),
		"{{LEARNING_STYLE}}", p.LearningStyle.Label(),
		"{{TIME_PER_WEEK}}", p.TimePerWeek.Label(),
		"{{SECTIONS}}", sectionList(),
		"{{MAX_WORDS}}", strconv.Itoa(MaxWords),
		"{{TEAM_PILOT}}", teamPilotHint(p),
	)
	return strings.TrimSpace(replacer.Replace(careerProfileV1)) + "\n"
}

func teamPilotHint(p model.ProfileInput) string {
	if p.WantsTeamPilot() {
		return teamPilotInclude
	}
	return teamPilotOmit
}

// Hash returns a stable fingerprint of a compiled prompt for logs.
func Hash(prompt string) string {
	return util.HashKey(prompt)
}

func sectionList() string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d) %s %s", i+1, s.Marker, s.Label)
		if s.Hint != "" {
			fmt.Fprintf(&b, " (%s)", s.Hint)
		}
	}
	return b.String()
}
