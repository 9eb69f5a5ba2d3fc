package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pickerTopics() []Topic {
	return []Topic{
		{ID: "t1", Title: "Princípios Constitucionais", QuestionCount: 3},
		{ID: "t2", Title: "Processo Civil", QuestionCount: 2},
		{ID: "t3", Title: "Contratos", QuestionCount: 7},
	}
}

func TestToggleIsIdempotentPair(t *testing.T) {
	sel := NewSelection(pickerTopics())

	sel.Toggle("t1")
	sel.Toggle("t3")
	before := sel.SelectedIDs()

	sel.Toggle("t2")
	sel.Toggle("t2")
	assert.Equal(t, before, sel.SelectedIDs())
}

func TestToggleIgnoresUnknownIDs(t *testing.T) {
	sel := NewSelection(pickerTopics())
	sel.Toggle("nope")
	assert.Empty(t, sel.SelectedIDs())
	assert.False(t, sel.CanStart())
}

func TestFilterIsCaseInsensitiveSubstring(t *testing.T) {
	sel := NewSelection(pickerTopics())

	sel.SetFilter("proCESSO")
	visible := sel.Visible()
	assert.Len(t, visible, 1)
	assert.Equal(t, "t2", visible[0].ID)

	sel.SetFilter("")
	assert.Len(t, sel.Visible(), 3)
}

func TestQuestionTotalSumsSelectedTopics(t *testing.T) {
	sel := NewSelection(pickerTopics())
	assert.Equal(t, 0, sel.QuestionTotal())

	sel.Toggle("t1")
	sel.Toggle("t3")
	assert.Equal(t, 10, sel.QuestionTotal())

	sel.Toggle("t1")
	assert.Equal(t, 7, sel.QuestionTotal())
}

func TestSetCountRejectsInvalidInputSilently(t *testing.T) {
	sel := NewSelection(pickerTopics())
	assert.Equal(t, DefaultQuestionCount, sel.Count())

	sel.SetCount("25")
	assert.Equal(t, 25, sel.Count())

	for _, bad := range []string{"0", "-3", "abc", "", "2.5"} {
		sel.SetCount(bad)
		assert.Equal(t, 25, sel.Count(), "input %q must retain last valid value", bad)
	}
}

func TestParamsEncodeOrderedSelection(t *testing.T) {
	sel := NewSelection(pickerTopics())
	sel.Toggle("t3")
	sel.Toggle("t1")
	sel.SetCount("4")

	ids, count := sel.Params()
	assert.Equal(t, "t3,t1", ids)
	assert.Equal(t, 4, count)
}

func TestParseTopicIDsDropsEmptyAndDuplicates(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseTopicIDs("a,b,,a, c ,b"))
	assert.Empty(t, ParseTopicIDs(",, ,"))
}
