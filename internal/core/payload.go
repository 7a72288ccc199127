package core

import "github.com/Rorical/RoriTutor/internal/models"

// BuildConversations builds the /ask payload: every earlier prompt tagged
// "user", then the new prompt tagged "assistant". Responses are not sent.
func BuildConversations(history []models.Turn, prompt string) []models.Entry {
	conversations := make([]models.Entry, 0, len(history)+1)
	for _, turn := range history {
		conversations = append(conversations, models.Entry{
			Role:    models.RoleUser,
			Content: turn.Prompt,
		})
	}
	return append(conversations, models.Entry{
		Role:    models.RoleAssistant,
		Content: prompt,
	})
}
