package transfer

type ScheduleRequest struct {
	PostID      string `json:"postId"`
	ScheduledAt string `json:"scheduledAt"`
}
