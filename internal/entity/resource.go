package entity

import "time"

type Resource struct {
	Base
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
	AddedBy  string `json:"added_by"`
}

type Devotional struct {
	Base
	Title       string    `json:"title"`
	Passage     string    `json:"passage"`
	Content     string    `json:"content"`
	PublishDate time.Time `json:"publish_date"`
	AuthorID    string    `json:"author_id"`
}
