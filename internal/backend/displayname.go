package backend

import "strings"

// ollamaDisplayNames maps ollama model tags to human readable names.
var ollamaDisplayNames = map[string]string{
	"llama2":    "Llama 2",
	"llama3":    "Llama 3",
	"mistral":   "Mistral",
	"codellama": "Code Llama",
}

// tgiDisplayNames maps served model ids to human readable names.
var tgiDisplayNames = map[string]string{
	"DialoGPT-small":          "DialoGPT Small",
	"DialoGPT-medium":         "DialoGPT Medium",
	"distilbert-base-uncased": "DistilBERT",
}

var openaiDisplayNames = map[string]string{
	"gpt-4":         "GPT-4",
	"gpt-4-turbo":   "GPT-4 Turbo",
	"gpt-3.5-turbo": "GPT-3.5 Turbo",
}

// ModelDisplayName resolves the human readable model name for a backend.
// Model ids that look like repository paths ("microsoft/DialoGPT-medium")
// are matched on their base name.
func ModelDisplayName(backendName, model string) string {
	switch backendName {
	case "ollama":
		// Tags may carry a version suffix, e.g. "llama2:13b".
		base := model
		if i := strings.Index(base, ":"); i >= 0 {
			base = base[:i]
		}
		if name, ok := ollamaDisplayNames[base]; ok {
			return name
		}
	case "tgi":
		base := model
		if i := strings.LastIndex(base, "/"); i >= 0 {
			base = base[i+1:]
		}
		if name, ok := tgiDisplayNames[base]; ok {
			return name
		}
	case "openai":
		if name, ok := openaiDisplayNames[model]; ok {
			return name
		}
	}
	if model != "" {
		return model
	}
	return "Unknown Model"
}
