package consts

const (
	MediaTempKey = "media:temp:pending"
)

const (
	UnlockJobLock            = "lock:job:unlock"
	ReminderJobLock          = "lock:job:reminder"
	NotificationCleanJobLock = "lock:job:notification:clean"
	MediaCleanJobLock        = "lock:job:media:clean"
)
