package model

import "time"

// Post is a news item shown on the front page. Posts are written by an
// external publisher over the ingest queue; the site itself only reads them.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:120;not null" json:"title"`
	Content   string    `gorm:"size:360;not null" json:"content"`
	Timestamp time.Time `gorm:"index;autoCreateTime" json:"timestamp"`
}

// FormatTimestamp renders the post time as e.g. "Monday, March 3".
func (p Post) FormatTimestamp() string {
	return p.Timestamp.Format("Monday, January 2")
}
