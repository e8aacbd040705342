package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/linguist/internal/config"
	"github.com/ShayCichocki/linguist/internal/output"
	"github.com/ShayCichocki/linguist/pkg/models"
)

// taskFlags are the task options shared by run and compare.
type taskFlags struct {
	mode      string
	intent    string
	tone      string
	provider  string
	tier      string
	languages []string
	source    string
	extra     string
	preset    string
	format    string
}

func (f *taskFlags) bind(cmd *cobra.Command, withProvider bool) {
	fl := cmd.Flags()
	fl.StringVarP(&f.mode, "mode", "m", "", "Task: translate, improve, rephrase or synonyms")
	fl.StringVar(&f.intent, "intent", "", "Framing: email, sms, chat or plain")
	fl.StringVar(&f.tone, "tone", "", "Tone: neutral, formal, informal, professional, friendly or direct")
	fl.StringVar(&f.tier, "tier", "", "Model tier: fast, balanced or best")
	fl.StringSliceVarP(&f.languages, "lang", "l", nil, "Target languages (e.g. en,pt,de)")
	fl.StringVar(&f.source, "source", "", "Source language code (detected when empty)")
	fl.StringVar(&f.extra, "extra", "", "Extra instruction appended to the prompt")
	fl.StringVar(&f.preset, "preset", "", "Refinement preset: shorter, more-formal or more-friendly")
	fl.StringVarP(&f.format, "format", "o", "text", "Output format: text, json or yaml")
	if withProvider {
		fl.StringVarP(&f.provider, "provider", "p", "", "Provider: auto, openai, claude, gemini or local")
	}
}

// request builds a task request from flags, text and configured defaults.
func (f *taskFlags) request(text string, d config.DefaultsConfig) models.TaskRequest {
	return models.TaskRequest{
		Text:             text,
		Mode:             f.mode,
		Intent:           f.intent,
		Tone:             f.tone,
		Provider:         f.provider,
		Tier:             f.tier,
		Languages:        f.languages,
		SourceLanguage:   f.source,
		ExtraInstruction: f.extra,
		Preset:           f.preset,
	}.WithDefaults(defaultsRequest(d))
}

func (f *taskFlags) outputFormat() (output.Format, error) {
	return output.ParseFormat(f.format)
}

func defaultsRequest(d config.DefaultsConfig) models.TaskRequest {
	return models.TaskRequest{
		Mode:      d.Mode,
		Intent:    d.Intent,
		Tone:      d.Tone,
		Provider:  d.Provider,
		Tier:      d.Tier,
		Languages: d.Languages,
	}
}

// readInput returns the task text from args, or from stdin when args are
// empty or a single "-".
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimRight(string(data), "\r\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no input text: pass it as an argument or on stdin")
	}
	return text, nil
}
