package api

import "PastPort/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	CapsuleHandler      *handler.CapsuleHandler
	JournalHandler      *handler.JournalHandler
	NotificationHandler *handler.NotificationHandler
	DiscoverHandler     *handler.DiscoverHandler
	MediaHandler        *handler.MediaHandler
}
