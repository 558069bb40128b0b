// Package phrases holds every sentence the bot says on its own.
// Defaults can be overridden per key from a YAML file.
package phrases

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Phrases struct {
	Yes string `yaml:"btn_quest_yes"`
	No  string `yaml:"btn_quest_no"`

	AfterGood       string `yaml:"response_after_good"`
	AfterDidnt      string `yaml:"response_after_ididnt"`
	AfterNoQuestion string `yaml:"response_after_noquestion"`
	AfterNoAnswer   string `yaml:"response_after_noanswer"`

	GreetHello string `yaml:"response_greet_hello"`
	GreetAgain string `yaml:"response_greet_weve"`
	ByeGoodbye string `yaml:"response_bye_goodbye"`
	ByeAgain   string `yaml:"response_bye_weve"`

	PancakesQuestion string `yaml:"quest_pancakes"`
	ResetQuestion    string `yaml:"quest_reset"`
	ResetDone        string `yaml:"response_reset_done"`
	ResetDidnt       string `yaml:"response_reset_ididnt"`

	UnknownNoted string `yaml:"response_unknown_noted"`
	// TurnFallback gets the turn number and the raw user text.
	TurnFallback string `yaml:"response_turn_fallback"`

	NotAllowed      string `yaml:"admin_not_allowed"`
	CommandUsage    string `yaml:"admin_usage"`
	RetortAdded     string `yaml:"admin_retort_added"`
	RetortExists    string `yaml:"admin_retort_exists"`
	RetortNotAdded  string `yaml:"admin_retort_not_added"`
	RetortRemoved   string `yaml:"admin_retort_removed"`
	RetortMissing   string `yaml:"admin_retort_missing"`
	RetortNotRemove string `yaml:"admin_retort_not_removed"`
	RetortsCount    string `yaml:"admin_retorts_count"`
	RetortsEmpty    string `yaml:"admin_retorts_empty"`
	UnknownRemoved  string `yaml:"admin_unknown_removed"`
	UnknownMissing  string `yaml:"admin_unknown_missing"`
	UnknownsCount   string `yaml:"admin_unknowns_count"`
	UnknownsEmpty   string `yaml:"admin_unknowns_empty"`
}

func Default() Phrases {
	return Phrases{
		Yes: "Yes",
		No:  "No",

		AfterGood:       "Good to know..",
		AfterDidnt:      "I didn't get that..",
		AfterNoQuestion: "There was no question asked.",
		AfterNoAnswer:   "That is not an answer..",

		GreetHello: "Hello You..",
		GreetAgain: "We've already greet before..",
		ByeGoodbye: "Bye to You..",
		ByeAgain:   "We've already said bye..",

		PancakesQuestion: "Do you like pancakes?",
		ResetQuestion:    "Do you want to reset counter?",
		ResetDone:        "Counter reset..",
		ResetDidnt:       "I didn't get that.. so?",

		UnknownNoted: "I would like to know, how to answer that..",
		TurnFallback: "Turn %d: I didn't get that, you said: '%s'",

		NotAllowed:      "You are not allowed to do that..",
		CommandUsage:    "Usage: %[1]s addretort;<question>;<answer> | %[1]s removeretort;<question> | %[1]s countretorts; | %[1]s listretorts; | %[1]s listunknowns; | %[1]s countunknowns; | %[1]s removeunknown;<question> | %[1]s skills;",
		RetortAdded:     "Retort '%s' added.",
		RetortExists:    "Retort '%s' already exists.",
		RetortNotAdded:  "Couldn't add retort '%s'.",
		RetortRemoved:   "Retort '%s' removed.",
		RetortMissing:   "Retort '%s' doesn't exist.",
		RetortNotRemove: "Couldn't remove retort '%s'.",
		RetortsCount:    "There are %d retorts.",
		RetortsEmpty:    "There are no retorts.",
		UnknownRemoved:  "Unknown '%s' removed.",
		UnknownMissing:  "Unknown '%s' doesn't exist.",
		UnknownsCount:   "There are %d unknowns.",
		UnknownsEmpty:   "There are no unknowns.",
	}
}

// Load reads overrides from path on top of the defaults. An empty path yields the defaults.
func Load(path string) (Phrases, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read phrases: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("parse phrases %s: %w", path, err)
	}
	return p, nil
}
