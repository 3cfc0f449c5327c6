package profiles

import "profile-backend/profile/model"

const (
	DocumentFileName    = "AI_Career_Profile.pdf"
	DocumentContentType = "application/pdf"
)

// NextStep is one of the follow-up actions offered under a profile.
type NextStep struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Confirmation string `json:"confirmation"`
	Tone         string `json:"tone"`
}

// NextSteps are shown after every generated profile.
var NextSteps = []NextStep{
	{
		ID:           "six_week_plan",
		Label:        "Get the 6-week plan (DM)",
		Confirmation: "We'll convert this into a step-by-step 6-week plan. (Use 'Show me the plan' in WhatsApp.)",
		Tone:         "success",
	},
	{
		ID:           "team_pilot",
		Label:        "Request 1-week team pilot",
		Confirmation: "We'll prepare a 1-week pilot template you can run with 1-3 people.",
		Tone:         "success",
	},
	{
		ID:           "save_email",
		Label:        "Save & Email me this",
		Confirmation: "You can copy the text and email it to yourself, or we can add an email-send flow later.",
		Tone:         "info",
	},
}

// DocumentResponse describes the stored PDF of a submission.
type DocumentResponse struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int    `json:"sizeBytes"`
	Pages       int    `json:"pages"`
	DownloadURL string `json:"downloadUrl"`
}

// ProfileResponse is returned by POST /profiles.
type ProfileResponse struct {
	SubmissionID  string            `json:"submissionId"`
	Profile       string            `json:"profile"`
	PromptVersion string            `json:"promptVersion"`
	Document      *DocumentResponse `json:"document"`
	RenderError   *string           `json:"renderError"`
	NextSteps     []NextStep        `json:"nextSteps"`
}

// OptionsResponse lists the select options of the form.
type OptionsResponse struct {
	Seniority     []model.Option `json:"seniority"`
	AIFamiliarity []model.Option `json:"aiFamiliarity"`
	LearningStyle []model.Option `json:"learningStyle"`
	TimePerWeek   []model.Option `json:"timePerWeek"`
}

func formOptions() OptionsResponse {
	return OptionsResponse{
		Seniority:     model.SeniorityOptions,
		AIFamiliarity: model.AIFamiliarityOptions,
		LearningStyle: model.LearningStyleOptions,
		TimePerWeek:   model.TimeCommitmentOptions,
	}
}

func downloadURL(submissionID string) string {
	return "/api/v1/profiles/" + submissionID + "/download"
}
