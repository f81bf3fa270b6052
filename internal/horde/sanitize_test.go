package horde

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Arslanmonuahmad/tiplu/internal/models"
)

func TestSanitizeReply(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{
			name: "strips speaker prefix",
			raw:  "Lily: Kya baat hai baby, tum kaise ho?",
			want: "Kya baat hai baby, tum kaise ho?",
			ok:   true,
		},
		{
			name: "drops trailing turns after blank line",
			raw:  "Main tumse pyaar karti hun jaan!\n\nUser: really?",
			want: "Main tumse pyaar karti hun jaan!",
			ok:   true,
		},
		{
			name: "strips leading bullet",
			raw:  "- Tum mere liye special ho baby 💕",
			want: "Tum mere liye special ho baby 💕",
			ok:   true,
		},
		{
			name: "rejects too short",
			raw:  "Hi baby",
			ok:   false,
		},
		{
			name: "rejects disclaimer",
			raw:  "As an AI language model I cannot do that for you.",
			ok:   false,
		},
		{
			name: "rejects apology",
			raw:  "I'm sorry, that is not something appropriate.",
			ok:   false,
		},
		{
			name: "rejects english without persona markers",
			raw:  "The weather today is sunny and warm outside.",
			ok:   false,
		},
		{
			name: "accepts emoji-only persona marker",
			raw:  "Of course my darling, anything for you 😘",
			ok:   true,
			want: "Of course my darling, anything for you 😘",
		},
		{
			name: "rejects under two words",
			raw:  "pyaarpyaarpyaar",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := sanitizeReply(tc.raw, "Lily")
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestAnalyzeMessage(t *testing.T) {
	mctx := analyzeMessage("Hello! How are you today?")
	require.True(t, mctx.isGreeting)
	require.True(t, mctx.isQuestion)
	require.False(t, mctx.needsSupport)

	mctx = analyzeMessage("I have a problem, feeling sad yaar")
	require.True(t, mctx.needsSupport)
	require.True(t, mctx.isEmotional)

	mctx = analyzeMessage("you are so beautiful")
	require.True(t, mctx.isCompliment)
}

func TestResponseLengthAndTemperature(t *testing.T) {
	require.Equal(t, 150, responseLength(messageContext{isQuestion: true}))
	require.Equal(t, 120, responseLength(messageContext{needsSupport: true}))
	require.Equal(t, 80, responseLength(messageContext{isGreeting: true}))
	require.Equal(t, 100, responseLength(messageContext{}))

	require.InDelta(t, 0.9, temperature(models.MoodNormal, messageContext{}), 0.001)
	require.InDelta(t, 1.0, temperature(models.MoodErotic, messageContext{isExplicit: true}), 0.001)
	require.InDelta(t, 0.95, temperature(models.MoodNormal, messageContext{isEmotional: true}), 0.001)
}
