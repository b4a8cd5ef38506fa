// ABOUTME: Core data models for post records, the monthly counter, and analytics.
// ABOUTME: Provides constructor functions and the JSON schemas for durable state.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a content topic the bot posts about.
type Category string

const (
	CategoryAnime  Category = "anime"
	CategoryGaming Category = "gaming"
	CategoryTech   Category = "tech"
	CategoryNews   Category = "news"
)

// Categories lists the topics eligible for random selection each cycle.
// CategoryNews is only drawn when a news source is configured.
var Categories = []Category{CategoryAnime, CategoryGaming, CategoryTech}

// PostRecord is one remembered post in the memory file. Immutable once created.
type PostRecord struct {
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
	Category    Category  `json:"category"`
	Personality string    `json:"personality,omitempty"`
}

// NewPostRecord creates a post record stamped with the given time.
func NewPostRecord(text string, category Category, personality string, at time.Time) PostRecord {
	return PostRecord{
		Text:        text,
		Timestamp:   at,
		Category:    category,
		Personality: personality,
	}
}

// MonthlyCounter tracks how many posts were published in one calendar month.
// Count only ever increments for the stored MonthKey; a month rollover
// replaces the whole value.
type MonthlyCounter struct {
	MonthKey string `json:"month_key"`
	Count    int    `json:"count"`
}

// MonthKey formats a time as the counter's month key, e.g. "2025-01".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// Analytics is advisory posting history. It is never read back for control
// decisions.
type Analytics struct {
	TotalPosts      int              `json:"total_posts"`
	PostsByCategory map[Category]int `json:"posts_by_category"`
	LastPostTime    *time.Time       `json:"last_post_time,omitempty"`
}

// NewAnalytics returns an empty analytics record.
func NewAnalytics() Analytics {
	return Analytics{PostsByCategory: make(map[Category]int)}
}

// RecordPost adds one published post to the analytics tallies.
func (a *Analytics) RecordPost(category Category, at time.Time) {
	if a.PostsByCategory == nil {
		a.PostsByCategory = make(map[Category]int)
	}
	a.TotalPosts++
	a.PostsByCategory[category]++
	t := at
	a.LastPostTime = &t
}

// Post is a candidate ready for publishing.
type Post struct {
	ID        uuid.UUID
	Text      string
	Category  Category
	ImagePath string
	CreatedAt time.Time
}

// NewPost creates a post with a generated UUID and the given creation time.
func NewPost(text string, category Category, imagePath string, at time.Time) *Post {
	return &Post{
		ID:        uuid.New(),
		Text:      text,
		Category:  category,
		ImagePath: imagePath,
		CreatedAt: at,
	}
}
