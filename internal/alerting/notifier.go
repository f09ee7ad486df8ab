package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LeaderChange 封装榜首变更通知上下文。
type LeaderChange struct {
	TakenAt        time.Time
	PreviousLeader string
	NewLeader      string
	NewProfit      decimal.Decimal
	ModelCount     int
}

// Notifier 定义通知输送接口。
type Notifier interface {
	Notify(ctx context.Context, change LeaderChange) error
}

// TelegramNotifier pushes leader-change messages through the Telegram Bot
// API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier 构造 Telegram 通知器。
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify 调用 sendMessage API 推送文本。
func (n *TelegramNotifier) Notify(ctx context.Context, change LeaderChange) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(change),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram 响应码异常: %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram 返回 ok=false")
		}
	}

	n.logger.Info().Time("taken_at", change.TakenAt).
		Str("new_leader", change.NewLeader).
		Msg("通知已发送 (Telegram)")
	return nil
}

func renderMessage(change LeaderChange) string {
	builder := strings.Builder{}
	builder.WriteString("[PrediBench] Leaderboard leader changed\n")
	builder.WriteString(fmt.Sprintf("Snapshot: %s UTC\n", change.TakenAt.UTC().Format(time.RFC3339)))
	if change.PreviousLeader != "" {
		builder.WriteString(fmt.Sprintf("Previous: %s\n", change.PreviousLeader))
	}
	builder.WriteString(fmt.Sprintf("New leader: %s (profit %s)\n", change.NewLeader, change.NewProfit.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("Models tracked: %d\n", change.ModelCount))
	return builder.String()
}
