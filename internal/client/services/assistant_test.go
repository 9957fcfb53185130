package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/relief/internal/client/chat"
	"github.com/dmitrijs2005/relief/internal/client/i18n"
	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/client/netstatus"
	"github.com/dmitrijs2005/relief/internal/common"
	"github.com/dmitrijs2005/relief/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	reqs  []chat.Request
	reply string
	err   error
}

func (f *fakeChat) Generate(ctx context.Context, req chat.Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.reply, f.err
}

func newAssistant(t *testing.T, c ChatClient) AssistantService {
	t.Helper()
	content := NewContentService(newMemRepo(), netstatus.NewStatic(true), nil, logging.Discard())
	content.Load(context.Background())
	return NewAssistantService(content, i18n.NewTranslator(content), c, logging.Discard())
}

func TestAssistant_SystemInstruction(t *testing.T) {
	a := newAssistant(t, &fakeChat{})

	en := a.SystemInstruction(models.LanguageEnglish)
	assert.Contains(t, en, "- Individual Therapy: One-on-one sessions")
	assert.Contains(t, en, "(Duration: 50 min)")
	assert.Contains(t, en, "- Q: Are sessions confidential?\n  A: Yes.")
	assert.Contains(t, en, "Email: info@reliefpsych.com")
	assert.Contains(t, en, "SWIFT: CBETETAA")
	assert.Contains(t, en, "viewing the site in English")

	am := a.SystemInstruction(models.LanguageAmharic)
	assert.Contains(t, am, "viewing the site in Amharic")
	assert.Contains(t, am, "የግል ቴራፒ")
}

func TestAssistant_Greeting(t *testing.T) {
	a := newAssistant(t, &fakeChat{})
	assert.Contains(t, a.Greeting(models.LanguageEnglish), "answer in English")
	assert.Contains(t, a.Greeting(models.LanguageAmharic), "በአማርኛ")
}

func TestAssistant_Ask(t *testing.T) {
	fc := &fakeChat{reply: "We are open Monday to Saturday."}
	a := newAssistant(t, fc)

	conv := a.Start(models.LanguageEnglish)
	assert.NotEmpty(t, conv.Greeting)
	assert.Empty(t, conv.History)

	reply, err := a.Ask(context.Background(), conv, "  When are you open? ")
	require.NoError(t, err)
	assert.Equal(t, "We are open Monday to Saturday.", reply)

	require.Len(t, fc.reqs, 1)
	assert.Equal(t, conv.Instruction, fc.reqs[0].SystemInstruction)
	assert.Equal(t, "When are you open?", fc.reqs[0].Message)
	assert.Empty(t, fc.reqs[0].History)

	assert.Equal(t, []chat.Message{
		{Role: chat.RoleUser, Text: "When are you open?"},
		{Role: chat.RoleModel, Text: "We are open Monday to Saturday."},
	}, conv.History)

	_, err = a.Ask(context.Background(), conv, "And Sunday?")
	require.NoError(t, err)
	assert.Len(t, fc.reqs[1].History, 2)
}

func TestAssistant_AskFailures(t *testing.T) {
	fc := &fakeChat{err: errors.New("quota")}
	a := newAssistant(t, fc)
	conv := a.Start(models.LanguageEnglish)

	_, err := a.Ask(context.Background(), conv, "hi")
	assert.ErrorIs(t, err, common.ErrAssistantUnavailable)
	assert.Empty(t, conv.History)

	_, err = a.Ask(context.Background(), conv, "   ")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Len(t, fc.reqs, 1)
}
