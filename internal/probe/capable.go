package probe

import (
	"strings"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
)

var (
	geminiExcluded  = []string{"image", "tts", "robotics"}
	mistralExcluded = []string{"pixtral", "voxtral"}
)

// ChatCapable decides from a model's info block whether it can hold a chat.
// Providers without a rule have no chat-capable models.
func ChatCapable(provider string, block catalog.InfoBlock) bool {
	id := strings.ToLower(block.ID)
	switch provider {
	case "huggingface":
		pipeline, _ := block.Get("Pipeline")
		return pipeline == "text-generation"
	case "openrouter":
		modality, _ := block.Get("Modality")
		return modality == "text->text" || modality == "text+image->text"
	case "cerebras", "groq":
		return true
	case "gemini":
		return !containsAny(id, geminiExcluded)
	case "mistral":
		return !containsAny(id, mistralExcluded)
	default:
		return false
	}
}

// ChatCapableIDs reads provider's info file and returns the chat-capable ids.
func ChatCapableIDs(dataDir, provider string) (map[string]bool, error) {
	blocks, err := catalog.ReadInfo(catalog.InfoPath(dataDir, provider))
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		if ChatCapable(provider, b) {
			ids[b.ID] = true
		}
	}
	return ids, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
