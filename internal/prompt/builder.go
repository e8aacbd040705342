// Package prompt builds the system and user prompts sent to text-generation providers.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ShayCichocki/linguist/pkg/models"
)

const (
	systemBase       = "You are a writing assistant."
	systemJSONFormat = `Return a strict JSON object with a top-level key "results" that is an array of {"language":"CODE","text":"..."}.`
	systemSafety     = "Preserve names, numbers, and meaning. Avoid hallucinations."

	// sourceAuto is printed when the caller did not give a source language.
	sourceAuto = "Auto"

	minTokenEstimate = 24
)

type modeInstructions struct {
	task     string
	register string
}

var instructions = map[models.Mode]modeInstructions{
	models.ModeTranslate: {
		task:     "Translate into the target languages.",
		register: "Respect the intent and tone. Keep meaning.",
	},
	models.ModeImprove: {
		task:     "Rewrite to improve clarity in the same language unless targets are provided.",
		register: "Respect intent and tone.",
	},
	models.ModeRephrase: {
		task:     "Rephrase with the same meaning in the same language.",
		register: "Respect intent and tone.",
	},
	models.ModeSynonyms: {
		task:     "Provide synonyms with short usage notes.",
		register: "Preserve register and avoid rare words unless asked.",
	},
}

// Builder turns a TaskSpec into prompt strings. It is stateless and safe
// for concurrent use.
type Builder struct{}

// NewBuilder returns a prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SystemPrompt returns the system instruction for a task.
// It panics if spec.Mode is not one of the known modes.
func (b *Builder) SystemPrompt(spec *models.TaskSpec) string {
	mi, ok := instructions[spec.Mode]
	if !ok {
		panic(fmt.Sprintf("prompt: unknown mode %q", spec.Mode))
	}
	return strings.Join([]string{
		systemBase,
		systemJSONFormat,
		systemSafety,
		mi.task,
		mi.register,
	}, " ")
}

// UserPrompt returns the user message for a task. The field order is
// stable: mode, intent, tone, source, targets, optional extra, input.
func (b *Builder) UserPrompt(spec *models.TaskSpec) string {
	source := strings.TrimSpace(spec.SourceLanguage)
	if source == "" {
		source = sourceAuto
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Mode: %s\n", spec.Mode)
	fmt.Fprintf(&sb, "Intent: %s\n", spec.Intent)
	fmt.Fprintf(&sb, "Tone: %s\n", spec.Tone)
	fmt.Fprintf(&sb, "Source: %s\n", source)
	fmt.Fprintf(&sb, "Target Languages: %s\n", strings.Join(models.LanguageCodes(spec.Languages), ", "))
	if extra := strings.TrimSpace(spec.ExtraInstruction); extra != "" {
		fmt.Fprintf(&sb, "Extra: %s\n", extra)
	}
	sb.WriteString("\nInput:\n")
	sb.WriteString(spec.InputText)
	return sb.String()
}

// EstimateTokens returns a rough token count for text. It is advisory only.
func EstimateTokens(text string) int {
	return max(minTokenEstimate, utf8.RuneCountInString(text)/4)
}

// EstimateTokens is a method form of the package-level EstimateTokens.
func (b *Builder) EstimateTokens(text string) int {
	return EstimateTokens(text)
}
