package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSpaceChatbotPrompt_ContainsQuestionAndPreamble(t *testing.T) {
	questions := []string{
		"What is the Artemis mission?",
		"Why is Mars red?\nAnd why is the sky blue?",
		"  spaced  ",
		"<b>markup</b> & {braces}",
	}

	for _, q := range questions {
		prompt := BuildSpaceChatbotPrompt(q)
		assert.True(t, strings.HasPrefix(prompt, spaceChatbotPreamble), "prompt should start with the preamble")
		assert.Contains(t, prompt, "Question: "+q)
	}
}

func TestBuildSatelliteSummaryPrompt_EmbedsDataVerbatim(t *testing.T) {
	large := strings.Repeat("lat,lon,ndvi\n12.5,44.1,0.71\n", 50000)

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"json", `{"a":1}`},
		{"csv with crlf", "date,temp\r\n2024-01-01,12.3\r\n"},
		{"large payload", large},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prompt := BuildSatelliteSummaryPrompt(tc.data)
			assert.True(t, strings.HasPrefix(prompt, satelliteSummaryPreamble))
			assert.Contains(t, prompt, tc.data)
			assert.Equal(t, len(satelliteSummaryPreamble)+len(tc.data)+2, len(prompt), "no truncation or padding expected")
		})
	}
}
