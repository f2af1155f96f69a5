package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/QuantFlow/internal/models"
	"github.com/dyike/QuantFlow/internal/samples"
)

// Prompter asks the operator for choices the command line left out.
type Prompter interface {
	SelectAlgorithm(algs []models.TradingAlgorithm) (string, error)
	SelectIndicator(current models.StrategyConfig) (string, error)
	ConfirmKillSwitch(running int) (bool, error)
}

type surveyPrompter struct{}

// SelectAlgorithm prompts for one algorithm and returns its id
func (surveyPrompter) SelectAlgorithm(algs []models.TradingAlgorithm) (string, error) {
	if len(algs) == 0 {
		return "", fmt.Errorf("no algorithms configured")
	}
	options := make([]string, len(algs))
	ids := make(map[string]string, len(algs))
	for i, alg := range algs {
		label := fmt.Sprintf("%s (%s, %s)", alg.Name, alg.StrategyType, alg.Status)
		options[i] = label
		ids[label] = alg.ID
	}

	var choice string
	prompt := &survey.Select{
		Message: "Select an algorithm:",
		Options: options,
		Help:    "The selected algorithm is the target of config and indicator changes.",
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return ids[choice], nil
}

// SelectIndicator prompts for one indicator to add or remove
func (surveyPrompter) SelectIndicator(current models.StrategyConfig) (string, error) {
	options := make([]string, len(samples.AvailableIndicators))
	for i, ind := range samples.AvailableIndicators {
		if current.HasIndicator(ind) {
			options[i] = ind + " (on)"
		} else {
			options[i] = ind
		}
	}

	var idx int
	prompt := &survey.Select{
		Message: "Toggle indicator:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return "", err
	}
	return samples.AvailableIndicators[idx], nil
}

// ConfirmKillSwitch asks before halting every bot
func (surveyPrompter) ConfirmKillSwitch(running int) (bool, error) {
	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Stop all %d running bots?", running),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}
