package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"profile-backend/profile/model"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "profilectl",
		Short: "Compile, generate and render AI career profiles from the command line",
		Long: `profilectl runs the profile pipeline without the HTTP server.

Answers are given with flags or as a JSON file using the same field names
as the web form (role, seniority, teamSize, dailyTasks, kpis, painPoint,
aiFamiliarity, learningStyle, timePerWeek).`,
		SilenceUsage: true,
	}
	root.AddCommand(newPromptCmd(), newGenerateCmd(), newRenderCmd())
	return root
}

// answerFlags binds the form fields to command flags.
type answerFlags struct {
	inputFile string
	teamSize  string
	form      model.FormInput
}

func (a *answerFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&a.inputFile, "input", "", "JSON file with form answers; flags override its values")
	f.StringVar(&a.form.Role, "role", "", "Current role")
	f.StringVar(&a.form.Seniority, "seniority", "", "Seniority level")
	f.StringVar(&a.teamSize, "team-size", "", "Number of people managed")
	f.StringVar(&a.form.DailyTasks, "daily-tasks", "", "Typical daily tasks")
	f.StringVar(&a.form.KPIs, "kpis", "", "KPIs the role is measured on")
	f.StringVar(&a.form.PainPoint, "pain-point", "", "Biggest pain point")
	f.StringVar(&a.form.AIFamiliarity, "ai-familiarity", "", "Beginner, Intermediate or Advanced")
	f.StringVar(&a.form.LearningStyle, "learning-style", "", "Preferred learning style")
	f.StringVar(&a.form.TimePerWeek, "time-per-week", "", "Weekly time available")
}

// input merges the JSON file and flags into a validated ProfileInput.
func (a *answerFlags) input(cmd *cobra.Command) (model.ProfileInput, error) {
	var form model.FormInput
	if a.inputFile != "" {
		data, err := os.ReadFile(a.inputFile)
		if err != nil {
			return model.ProfileInput{}, errors.Wrapf(err, "read %s", a.inputFile)
		}
		if err := json.Unmarshal(data, &form); err != nil {
			return model.ProfileInput{}, errors.Wrapf(err, "parse %s", a.inputFile)
		}
	}

	override := func(flag string, dst *string, val string) {
		if cmd.Flags().Changed(flag) {
			*dst = val
		}
	}
	override("role", &form.Role, a.form.Role)
	override("seniority", &form.Seniority, a.form.Seniority)
	if cmd.Flags().Changed("team-size") {
		form.TeamSize = model.FlexInt(a.teamSize)
	}
	override("daily-tasks", &form.DailyTasks, a.form.DailyTasks)
	override("kpis", &form.KPIs, a.form.KPIs)
	override("pain-point", &form.PainPoint, a.form.PainPoint)
	override("ai-familiarity", &form.AIFamiliarity, a.form.AIFamiliarity)
	override("learning-style", &form.LearningStyle, a.form.LearningStyle)
	override("time-per-week", &form.TimePerWeek, a.form.TimePerWeek)

	in := model.FromForm(form)
	if err := in.Validate(); err != nil {
		return model.ProfileInput{}, err
	}
	return in, nil
}
