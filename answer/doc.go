// Package answer turns retrieved contexts into a grounded natural-language
// answer. It builds language- and strictness-aware prompts with citation
// instructions, calls the configured generator, and extracts the citations
// the model actually used.
package answer
