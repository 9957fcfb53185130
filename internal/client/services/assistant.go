// This file defines the AI assistant: it builds the system instruction from
// the current content bundle and relays conversation turns to a chat model.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/relief/internal/client/chat"
	"github.com/dmitrijs2005/relief/internal/client/i18n"
	"github.com/dmitrijs2005/relief/internal/client/models"
	"github.com/dmitrijs2005/relief/internal/common"
	"github.com/dmitrijs2005/relief/internal/logging"
)

type ChatClient interface {
	Generate(ctx context.Context, req chat.Request) (string, error)
}

// Conversation is one chat session. The greeting is shown to the user but
// never sent to the model; History only grows on successful turns.
type Conversation struct {
	Lang        models.Language
	Instruction string
	Greeting    string
	History     []chat.Message
}

type AssistantService interface {
	SystemInstruction(lang models.Language) string
	Greeting(lang models.Language) string
	Start(lang models.Language) *Conversation
	Ask(ctx context.Context, conv *Conversation, message string) (string, error)
}

type assistantService struct {
	content    ContentService
	translator *i18n.Translator
	client     ChatClient
	logger     logging.Logger
}

func NewAssistantService(content ContentService, translator *i18n.Translator, client ChatClient, logger logging.Logger) AssistantService {
	return &assistantService{content: content, translator: translator, client: client, logger: logger}
}

func (a *assistantService) t(lang models.Language, key string) string {
	return a.translator.T(lang, key, nil)
}

func (a *assistantService) SystemInstruction(lang models.Language) string {
	b := a.content.Current()
	if b == nil {
		b = &models.ContentBundle{}
	}

	services := make([]string, 0, len(b.Services))
	for _, s := range b.Services {
		services = append(services, fmt.Sprintf("- %s: %s (Duration: %s)",
			a.t(lang, "service."+s.ID+".name"), a.t(lang, "service."+s.ID+".short"), s.Duration))
	}

	faqs := make([]string, 0, len(b.FAQs))
	for _, f := range b.FAQs {
		faqs = append(faqs, fmt.Sprintf("- Q: %s\n  A: %s", a.t(lang, f.Question), a.t(lang, f.Answer)))
	}

	languageName := "English"
	if lang == models.LanguageAmharic {
		languageName = "Amharic"
	}

	var sb strings.Builder
	sb.WriteString("You are a friendly, empathetic and professional AI assistant for Relief Psychological Service. ")
	sb.WriteString("Your goal is to help users by answering their questions and guiding them through our website.\n")
	sb.WriteString("Answer questions based ONLY on the information below. Do not invent services, prices or procedures.\n")
	sb.WriteString("If a user asks for help with a psychological problem, respond with empathy and strongly recommend booking a session with a professional therapist. You are not a therapist.\n")
	sb.WriteString("If asked about something not covered here, politely say that you can only provide information about Relief Psychological Service.\n")
	fmt.Fprintf(&sb, "The user is viewing the site in %s. Respond in the user's language.\n\n", languageName)

	sb.WriteString("**About Us:**\n")
	sb.WriteString("Relief Psychological Service provides professional and compassionate mental health support. ")
	sb.WriteString("Our mission is to empower individuals and families to achieve mental wellness. The CEO is Mrs. Mekdes Ayene.\n\n")

	sb.WriteString("**Our Services:**\n")
	sb.WriteString(strings.Join(services, "\n"))
	sb.WriteString("\n\n")

	sb.WriteString("**How to Book an Appointment:**\n")
	sb.WriteString("Choose a service and use the booking form to request a date and time.\n\n")

	sb.WriteString("**Visitor Support:**\n")
	sb.WriteString("We support short-term visitors in Addis Ababa with accommodation, city navigation, psychological support and community integration.\n\n")

	sb.WriteString("**Frequently Asked Questions (FAQ):**\n")
	sb.WriteString(strings.Join(faqs, "\n\n"))
	sb.WriteString("\n\n")

	sb.WriteString("**Contact Information:**\n")
	fmt.Fprintf(&sb, "- Email: %s\n- Phone: %s\n\n", a.t(lang, "contactModal.email"), a.t(lang, "contactModal.phone"))

	sb.WriteString("**Payment Information:**\n")
	fmt.Fprintf(&sb, "- Price per Session: %s or %s.\n", a.t(lang, "bookingModal.payment.priceEtb"), a.t(lang, "bookingModal.payment.priceUsd"))
	sb.WriteString("- Payment Methods: Telebirr and bank transfer.\n")
	fmt.Fprintf(&sb, "  - Telebirr: send payment to %s.\n", a.t(lang, "bookingModal.payment.telebirrNumber"))
	fmt.Fprintf(&sb, "  - Account Name: %s\n", a.t(lang, "bookingModal.payment.bankAccountName"))
	fmt.Fprintf(&sb, "  - Commercial Bank of Ethiopia (CBE): Account %s (SWIFT: %s)\n",
		a.t(lang, "bookingModal.payment.cbeAccount"), a.t(lang, "bookingModal.payment.cbeSwift"))
	fmt.Fprintf(&sb, "  - Abyssinia Bank: Account %s (SWIFT: %s)\n",
		a.t(lang, "bookingModal.payment.abyssiniaAccount"), a.t(lang, "bookingModal.payment.abyssiniaSwift"))

	return sb.String()
}

func (a *assistantService) Greeting(lang models.Language) string {
	nameKey := "language.english"
	if lang == models.LanguageAmharic {
		nameKey = "language.amharic"
	}
	return a.translator.T(lang, "welcome.chatbotGreeting", map[string]string{"language": a.t(lang, nameKey)})
}

func (a *assistantService) Start(lang models.Language) *Conversation {
	return &Conversation{
		Lang:        lang,
		Instruction: a.SystemInstruction(lang),
		Greeting:    a.Greeting(lang),
	}
}

func (a *assistantService) Ask(ctx context.Context, conv *Conversation, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: empty message", common.ErrValidation)
	}

	reply, err := a.client.Generate(ctx, chat.Request{
		SystemInstruction: conv.Instruction,
		History:           conv.History,
		Message:           message,
	})
	if err != nil {
		a.logger.Error(ctx, "assistant request failed", "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrAssistantUnavailable, err)
	}

	conv.History = append(conv.History,
		chat.Message{Role: chat.RoleUser, Text: message},
		chat.Message{Role: chat.RoleModel, Text: reply},
	)
	return reply, nil
}
