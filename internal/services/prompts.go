package services

import "strings"

const (
	spaceChatbotPreamble = "You are a space exploration assistant. Answer the following question in detail, focusing on planets, stars, space missions, or NASA's history:"

	satelliteSummaryPreamble = "Summarize the following satellite data into an understandable insight for the public, focusing on key changes or trends related to space, earth monitoring, or atmospheric conditions:"
)

// BuildSpaceChatbotPrompt wraps a user question in the space-assistant
// instruction. The question is embedded verbatim.
func BuildSpaceChatbotPrompt(question string) string {
	var b strings.Builder

	b.WriteString(spaceChatbotPreamble)
	b.WriteString("\n")
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n")

	return b.String()
}

// BuildSatelliteSummaryPrompt wraps uploaded data in the lay-summary
// instruction. The data is embedded as-is: no truncation, no escaping.
func BuildSatelliteSummaryPrompt(data string) string {
	var b strings.Builder

	b.WriteString(satelliteSummaryPreamble)
	b.WriteString("\n")
	b.WriteString(data)
	b.WriteString("\n")

	return b.String()
}
