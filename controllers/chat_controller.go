package controllers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/chanceboard/config"
	"github.com/cppla/chanceboard/models"
	"github.com/cppla/chanceboard/utils"
)

const maxUsernameLength = 64

// ChatController handles the shared chat board.
type ChatController struct {
	db *gorm.DB
}

// NewChatController creates a new ChatController instance.
func NewChatController(db *gorm.DB) *ChatController {
	return &ChatController{db: db}
}

type postMessageRequest struct {
	Username string `json:"username"`
	Message  string `json:"message" binding:"required"`
	Channel  string `json:"channel"`
}

func chatChannel(raw string) string {
	channel := utils.SanitizeText(raw)
	if channel == "" {
		channel = config.Get().ChatChannel
	}
	if utf8.RuneCountInString(channel) > 32 {
		channel = string([]rune(channel)[:32])
	}
	return channel
}

func chatCachePrefix(channel string) string {
	return utils.CacheKey("chat", channel) + ":"
}

// ListMessages returns the most recent messages of a channel, oldest first.
func (c *ChatController) ListMessages(ctx *gin.Context) {
	channel := chatChannel(ctx.Query("channel"))
	bounds := chatHistoryBounds
	if def := config.Get().ChatHistoryLimit; def > 0 && def <= bounds.Max {
		bounds.Default = def
	}
	limit := bounds.Clamp(ctx.Query("limit"))

	key := chatCachePrefix(channel) + itoa(limit)
	if writeCachedJSON(ctx, key) {
		return
	}

	var messages []models.ChatMessage
	if err := c.db.Where("channel = ?", channel).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		utils.Sugar.Errorw("load chat messages failed", "channel", channel, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load messages")
		return
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	data := gin.H{"channel": channel, "items": messages}
	utils.CacheSetJSON(key, data, 0)
	utils.Success(ctx, data)
}

// PostMessage stores a new chat message.
func (c *ChatController) PostMessage(ctx *gin.Context) {
	var req postMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "message is required")
		return
	}

	cfg := config.Get()
	text := utils.SanitizeText(req.Message)
	if text == "" {
		utils.Error(ctx, http.StatusBadRequest, 40010, "message is required")
		return
	}
	if utf8.RuneCountInString(text) > cfg.ChatMaxMessageLength {
		utils.Error(ctx, http.StatusBadRequest, 40011, "message is too long")
		return
	}

	username := utils.SanitizeText(req.Username)
	if username == "" {
		username = cfg.ChatDefaultUsername
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		utils.Error(ctx, http.StatusBadRequest, 40012, "username is too long")
		return
	}

	msg := models.ChatMessage{
		Username: strings.TrimSpace(username),
		Message:  text,
		Channel:  chatChannel(req.Channel),
	}
	if err := c.db.Create(&msg).Error; err != nil {
		utils.Sugar.Errorw("save chat message failed", "error", err)
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to save message")
		return
	}

	utils.InvalidateByPrefix(chatCachePrefix(msg.Channel))
	utils.Respond(ctx, http.StatusCreated, 0, "success", msg)
}
