// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package answer

import (
	"fmt"
	"strings"

	"github.com/poiesic/docquery/core"
)

// Strictness levels for answer grounding.
const (
	StrictDocsOnly = "strict_docs_only"
	AllowReasoning = "allow_reasoning"
)

// Tone presets controlling answer language and register.
const (
	ToneSimpleUzbek      = "simple_uzbek"
	ToneTechnicalRussian = "technical_russian"
	ToneFormalEnglish    = "formal_english"
)

// Config carries the collection-level settings that shape prompts.
type Config struct {
	Purpose    string
	Tone       string
	Strictness string
}

// DefaultConfig returns the default prompt configuration: a general-purpose
// assistant answering in simple Uzbek, grounded strictly in the documents.
func DefaultConfig() Config {
	return Config{
		Purpose:    "general",
		Tone:       ToneSimpleUzbek,
		Strictness: StrictDocsOnly,
	}
}

const basePrompt = "You are a helpful AI assistant that answers questions based on provided documents.\n\n"

var purposeInstructions = map[string]string{
	"hr_assistant": "You specialize in HR policies and employee questions.",
	"policy_qa":    "You help users understand policies and regulations.",
	"sop_helper":   "You assist with standard operating procedures.",
	"product_docs": "You help users understand product documentation.",
}

var toneInstructions = map[string]string{
	ToneSimpleUzbek: "CRITICAL: You MUST respond in simple, clear Uzbek language (O'zbek tili). " +
		"Use everyday words that regular people can understand. " +
		"Avoid complex legal or technical jargon unless necessary.\n\n",
	ToneTechnicalRussian: "Respond in technical Russian. Use precise terminology. " +
		"You may use technical terms when appropriate.\n\n",
	ToneFormalEnglish: "Respond in formal, professional English. " +
		"Use proper grammar and business language.\n\n",
}

const strictRules = "IMPORTANT RULES:\n" +
	"1. Answer ONLY based on the provided context documents.\n" +
	"2. If the answer is not in the documents, say: " +
	"\"Kechirasiz, bu ma'lumot hujjatlarda yo'q\" (Sorry, this information is not in the documents).\n" +
	"3. Do NOT use your general knowledge.\n" +
	"4. Do NOT make assumptions or guesses.\n" +
	"5. ALWAYS cite your sources using [Context N] format.\n\n"

const lenientRules = "RULES:\n" +
	"1. Primarily answer based on the provided documents.\n" +
	"2. You may use general knowledge if documents are incomplete.\n" +
	"3. Clearly distinguish between document-based and general knowledge.\n" +
	"4. Always cite document sources when using them.\n\n"

func buildSystemPrompt(config Config) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if instruction, ok := purposeInstructions[config.Purpose]; ok {
		b.WriteString(instruction)
		b.WriteString("\n\n")
	}

	if instruction, ok := toneInstructions[config.Tone]; ok {
		b.WriteString(instruction)
	} else {
		b.WriteString("Respond clearly and professionally.\n\n")
	}

	if config.Strictness == StrictDocsOnly {
		b.WriteString(strictRules)
	} else {
		b.WriteString(lenientRules)
	}

	return b.String()
}

func buildUserPrompt(query string, contexts []core.RetrievedContext) string {
	var b strings.Builder
	b.WriteString("CONTEXT DOCUMENTS:\n\n")

	for i, ctx := range contexts {
		fmt.Fprintf(&b, "[Context %d]\n", i+1)
		fmt.Fprintf(&b, "Source: Document %s", ctx.DocumentID.String())
		if ctx.PageNumber > 0 {
			fmt.Fprintf(&b, ", Page %d", ctx.PageNumber)
		}
		if ctx.SectionTitle != "" {
			fmt.Fprintf(&b, ", Section: %s", ctx.SectionTitle)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "Content: %s\n", ctx.Text)
		b.WriteString("---\n\n")
	}

	fmt.Fprintf(&b, "QUESTION: %s\n\n", query)
	b.WriteString("ANSWER (with citations):")

	return b.String()
}

// approxCharsPerToken is the crude budget heuristic used when dropping
// trailing contexts that would overflow the model's window.
const (
	approxCharsPerToken = 4
	maxContextTokens    = 4000
)

// truncateContexts drops trailing contexts once the running character
// budget is exhausted. Contexts arrive ranked, so the tail is always the
// least relevant part.
func truncateContexts(contexts []core.RetrievedContext, maxTokens int) []core.RetrievedContext {
	maxChars := maxTokens * approxCharsPerToken
	total := 0

	for i, ctx := range contexts {
		if total+len(ctx.Text) > maxChars {
			return contexts[:i]
		}
		total += len(ctx.Text)
	}
	return contexts
}
