package config

const (
	BotQueueMemory = "memory"
	BotQueueRedis  = "redis"
)

type Bot struct {
	Token     string `env:"BOT_TOKEN" json:"-"`
	ChatID    int64  `env:"BOT_CHAT_ID" validate:"required_with=Token"`
	QueueSize int    `env:"BOT_QUEUE_SIZE" envDefault:"100" validate:"gt=0"`
	// Queue "redis" keeps undelivered notifications in asynq across restarts.
	Queue    string `env:"BOT_QUEUE" envDefault:"memory" validate:"oneof=memory redis"`
	MaxRetry int    `env:"BOT_MAX_RETRY" envDefault:"5" validate:"gte=0"`
	// Commands also needs the watcher account to read the queue.
	Commands bool `env:"BOT_COMMANDS" envDefault:"false"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}
