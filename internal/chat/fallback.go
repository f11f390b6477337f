package chat

import "fmt"

// Canned replies used when the executor cannot be reached. Each one
// interpolates the user's message so the reply reads as an answer to
// it rather than a generic error.
var fallbackTemplates = []string{
	"I'm sorry, I couldn't reach the workflow service to answer \"%s\". Please try again in a moment.",
	"Something went wrong while processing \"%s\". The assistant backend seems to be unavailable right now.",
	"I apologize, but I ran into a problem answering \"%s\". Your workflow is still built; only this reply could not be generated.",
	"I wasn't able to get a response for \"%s\" from the execution service. You can keep editing the workflow and retry shortly.",
}

// fallbackText draws one template uniformly at random. Caller holds
// the session mutex.
func (s *Session) fallbackText(message string) string {
	tpl := fallbackTemplates[s.rng.Intn(len(fallbackTemplates))]
	return fmt.Sprintf(tpl, message)
}
