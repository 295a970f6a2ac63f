// Package prompt holds the three condition templates. The wording is part
// of the experimental design and must stay fixed across runs.
package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// Condition labels. Each names one prompting style under comparison.
const (
	ConditionOutcome    = "outcome"
	ConditionProcess    = "process"
	ConditionStructured = "structured"
)

const outcomeTemplate = `Answer the following math problem. Provide ONLY the final numerical answer, without showing any work or reasoning.

Problem: {{.Question}}

Answer:`

const processTemplate = `Solve the following math problem step by step. Show all your reasoning clearly, then provide the final answer.

Problem: {{.Question}}

Solution:`

const structuredTemplate = `Solve the following math problem using the following format:

Step 1: [First reasoning step]
Step 2: [Second reasoning step]
...
Final Answer: [Numerical answer]

Problem: {{.Question}}

Solution:`

var templates = map[string]*template.Template{
	ConditionOutcome:    template.Must(template.New(ConditionOutcome).Parse(outcomeTemplate)),
	ConditionProcess:    template.Must(template.New(ConditionProcess).Parse(processTemplate)),
	ConditionStructured: template.Must(template.New(ConditionStructured).Parse(structuredTemplate)),
}

// Known reports whether a condition label has a template.
func Known(condition string) bool {
	_, ok := templates[condition]
	return ok
}

// Render fills the condition's template with the problem question.
func Render(condition, question string) (string, error) {
	tmpl, ok := templates[condition]
	if !ok {
		return "", fmt.Errorf("prompt: unknown condition %q", condition)
	}

	var sb strings.Builder
	data := struct{ Question string }{Question: strings.TrimSpace(question)}
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("prompt: render %s: %w", condition, err)
	}
	return sb.String(), nil
}
