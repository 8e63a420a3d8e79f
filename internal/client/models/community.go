package models

import "time"

// The feature types below mirror what the community pages display. They are
// intentionally loose: the server owns their shape.

type Post struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	UserID    ID        `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Event struct {
	ID       ID        `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location,omitempty"`
	StartsAt time.Time `json:"startDate"`
	EndsAt   time.Time `json:"endDate"`
}

type Schedule struct {
	ID       ID     `json:"id"`
	Location string `json:"location"`
	Day      string `json:"day"`
	Time     string `json:"time"`
	Status   string `json:"status,omitempty"`
}

type Voucher struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Points      int    `json:"points"`
}

type Feedback struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}
