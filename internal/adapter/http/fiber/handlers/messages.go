package handlers

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/sms-assistant/internal/domain"
)

const emptyBodyReply = "Sorry, I couldn't understand your message"

// Processor turns one inbound message into a reply.
type Processor interface {
	ProcessMessage(ctx context.Context, msg domain.Message) domain.Response
}

type MessageHandler struct {
	processor Processor
	log       *zap.Logger
}

func NewMessageHandler(processor Processor, log *zap.Logger) *MessageHandler {
	return &MessageHandler{
		processor: processor,
		log:       log,
	}
}

// MessageRequest is the JSON body of POST /api/v1/messages.
type MessageRequest struct {
	Text     string `json:"text"`
	UserID   string `json:"user_id"`
	Location string `json:"location,omitempty"`
}

type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// Webhook answers a Twilio SMS webhook (form fields From and Body) with TwiML.
func (h *MessageHandler) Webhook(c *fiber.Ctx) error {
	from := c.FormValue("From")
	body := strings.TrimSpace(c.FormValue("Body"))
	h.log.Info("Received SMS", zap.String("from", from), zap.Int("length", len(body)))

	if body == "" {
		h.log.Warn("No message body received", zap.String("from", from))
		return h.reply(c, emptyBodyReply)
	}

	resp := h.processor.ProcessMessage(c.UserContext(), domain.Message{Text: body, UserID: from})
	return h.reply(c, resp.DisplayText)
}

// Process handles the JSON API and returns the whole response envelope.
func (h *MessageHandler) Process(c *fiber.Ctx) error {
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
	}
	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	resp := h.processor.ProcessMessage(c.UserContext(), domain.Message{
		Text:     req.Text,
		UserID:   req.UserID,
		Location: req.Location,
	})
	return c.JSON(resp)
}

func (h *MessageHandler) reply(c *fiber.Ctx, text string) error {
	out, err := xml.Marshal(twiml{Message: text})
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(append([]byte(xml.Header), out...))
}
