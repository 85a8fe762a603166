// Package note composes driver stat notes: it resolves a driver's online
// features, renders them into a prompt, and optionally sends the prompt to
// a model client.
package note

import (
	"os"

	"github.com/drivernote/drivernote/errors"
	"github.com/drivernote/drivernote/prompt"
)

// DefaultTemplate is the built-in note prompt. Feature values are
// substituted into the {conv_rate}, {acc_rate} and {avg_daily_trips}
// placeholders.
const DefaultTemplate = `Given the driver's up to date stats, write them note relaying those stats to them.
If they have a conversation rate above .5, give them a compliment. Otherwise, make a silly joke about chickens at the end to make them feel better

Here are the drivers stats:
Conversation rate: {conv_rate}
Acceptance rate: {acc_rate}
Average Daily Trips: {avg_daily_trips}

Your response:`

// LoadTemplate parses a prompt template from a file. An empty path
// yields the default template.
func LoadTemplate(path string) (*prompt.Template, error) {
	if path == "" {
		return prompt.Parse(DefaultTemplate)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read template %s", path)
	}

	tmpl, err := prompt.Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse template %s", path)
	}

	return tmpl, nil
}
