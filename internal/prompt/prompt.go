package prompt

import (
	"fmt"

	"docchat/internal/model"
)

// Package prompt builds the system instruction and user message for the
// completion call. The instruction text is a contract the downstream model is
// expected to honor; nothing here verifies the returned answer against it.

// LocalFallback is the exact sentence the model must return when the answer
// is not present in the supplied documents.
const LocalFallback = "Not available in the document."

// LocalSourceMarker prefixes answers found in the documents.
const LocalSourceMarker = "(From local source)"

// GlobalSourceMarker is appended by the model to general-knowledge answers.
const GlobalSourceMarker = "(From Global source)"

const localTemplate = "You are an assistant that must only answer using the following document. " +
	"Do not use any external knowledge.\n\n" +
	"%s\n\n" +
	"Instructions:\n" +
	"- If the answer is found, respond with '" + LocalSourceMarker + "' followed by the answer.\n" +
	"- If not found, respond with exactly: '" + LocalFallback + "'"

const globalTemplate = "You are an AI assistant that answers using general knowledge.\n" +
	"Important - Along with the answer, add this phrase: " + GlobalSourceMarker

// Build returns the system instruction for the given mode and the user
// message. The question passes through unmodified. In local mode the document
// context is embedded verbatim; in global mode the context is ignored.
func Build(mode model.Mode, context, question string) (system, user string) {
	if mode == model.ModeLocal {
		return fmt.Sprintf(localTemplate, context), question
	}
	return globalTemplate, question
}
