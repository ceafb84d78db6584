package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewQuestionnaireResponse(t *testing.T) {
	q := NewQuestionnaireResponse(true, false, true)
	require.Equal(t, 2, q.YesCount())
	require.False(t, q.Answers[9])
}

func TestQuestionnaireItems_KeepOrder(t *testing.T) {
	q := NewQuestionnaireResponse(true, false, false, false, false, false, false, false, false, true)
	items := q.Items()

	require.Len(t, items, QuestionCount)
	require.Equal(t, 1, items[0].Number)
	require.Equal(t, "Is the growth rate good?", items[0].Text)
	require.True(t, items[0].Value)
	require.Equal(t, 10, items[9].Number)
	require.Equal(t, "Any shell loose cases in pond?", items[9].Text)
	require.True(t, items[9].Value)
}
