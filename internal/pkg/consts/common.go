package consts

const (
	MimePrefixImage = "image"
)

const (
	// DefaultMailTopic Kafka 邮件任务默认主题
	DefaultMailTopic = "pastport-mail-tasks"
)

const (
	// ReminderWindowHours 解锁提前提醒的窗口大小（从下一个本地零点起算）
	ReminderWindowHours = 24

	// NotificationTTLDays 提醒类通知的保留天数，过期后由清理任务删除
	NotificationTTLDays = 30
)
