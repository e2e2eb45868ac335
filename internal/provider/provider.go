package provider

import "fmt"

// Provider tags used across merged results and error messages.
const (
	NameExa        = "exa"
	NameFirecrawl  = "firecrawl"
	NamePerplexity = "perplexity"
)

// DisplayName maps a provider tag to the label used in reports.
func DisplayName(tag string) string {
	switch tag {
	case NameExa:
		return "Exa"
	case NameFirecrawl:
		return "Firecrawl"
	case NamePerplexity:
		return "Perplexity"
	}
	return tag
}

// errNotConfigured is the permanent per-call failure for a provider whose
// credential is absent. The tool itself stays available; the call degrades.
func errNotConfigured(name string) error {
	return fmt.Errorf("%s API key not configured", name)
}
