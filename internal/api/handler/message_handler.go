package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skillsync/marketplace-api/internal/core/ports"
)

// MessageHandler serves direct messaging. It is mounted under both the
// client and the contractor groups.
type MessageHandler struct {
	messages ports.MessageService
}

func NewMessageHandler(messages ports.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send handles POST /{role}/messages.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Message"
// @Success      201   {object}  domain.Message
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /client/messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	senderID, err := subject(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	msg, err := h.messages.Send(c.Request().Context(), senderID, ports.SendMessageInput{
		RecipientID: req.RecipientID,
		Content:     req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, msg)
}

// List handles GET /{role}/messages.
//
// @Summary      List messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        with  query     string  false  "Only the conversation with this account id"
// @Success      200   {array}   domain.Message
// @Router       /client/messages [get]
func (h *MessageHandler) List(c echo.Context) error {
	accountID, err := subject(c)
	if err != nil {
		return err
	}

	msgs, err := h.messages.List(c.Request().Context(), accountID, c.QueryParam("with"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msgs)
}

// MarkRead handles PUT /{role}/messages/:id/read.
//
// @Summary      Mark a received message as read
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message id"
// @Success      200  {object}  domain.Message
// @Failure      404  {object}  errorResponse
// @Router       /client/messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c echo.Context) error {
	accountID, err := subject(c)
	if err != nil {
		return err
	}

	msg, err := h.messages.MarkRead(c.Request().Context(), accountID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}
