package broker

// ReviewEvent is the payload pushed to live-feed subscribers when a review
// is created.
type ReviewEvent struct {
	ReviewID  uint   `json:"review_id"`
	TitleID   uint   `json:"title_id"`
	TitleName string `json:"title_name"`
	Author    string `json:"author"`
	Score     int    `json:"score"`
	Timestamp string `json:"timestamp"`
}

// ReviewEvents distributes review-created events to feed subscribers.
type ReviewEvents interface {
	Publish(event ReviewEvent) error
	Subscribe() (<-chan ReviewEvent, error)
	Close() error
}
