package chat

import (
	"fmt"
	"strings"

	"concierge/models"
)

// assistantConstitution is the fixed persona and policy text embedded in
// every system prompt.
const assistantConstitution = `You are Concierge, a hotel booking assistant.
Your job is to help guests find rooms, make bookings, and pay for them.
Rules:
- Stay on the topic of hotel rooms, bookings, and payments. Politely decline anything else.
- When a booking is created, always tell the guest the booking ID, the check-in and check-out dates, and the total amount.
- After a booking is confirmed and still unpaid, always ask the guest to complete payment.
- If a payment fails, tell the guest it was declined and invite them to try again.
- Use the available functions to look up rooms, create bookings, and process payments. Never invent booking IDs or prices.`

// systemPrompt embeds the constitution and a snapshot of the user record so
// the assistant can personalize replies and answer "who am I" questions.
func systemPrompt(user *models.User) string {
	var sb strings.Builder
	sb.WriteString(assistantConstitution)
	sb.WriteString("\n\nCurrent guest:\n")
	fmt.Fprintf(&sb, "- id: %s\n", user.ID)
	if user.FullName != "" {
		fmt.Fprintf(&sb, "- name: %s\n", user.FullName)
	}
	if user.Email != "" {
		fmt.Fprintf(&sb, "- email: %s\n", user.Email)
	}
	if !user.LastInteraction.IsZero() {
		fmt.Fprintf(&sb, "- last interaction: %s\n", user.LastInteraction.Format("2006-01-02 15:04 MST"))
	}
	return sb.String()
}
